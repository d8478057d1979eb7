package ean13

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMask is returned when the mask contains no ink pixels.
	ErrEmptyMask = errors.New("ean13: mask contains no ink pixels")

	// ErrEmptyScanline is returned when no samples could be taken along the scan line.
	ErrEmptyScanline = errors.New("ean13: scanline is empty")

	// ErrGuardNotFound is returned when no start guard was located or when too
	// few bars follow it to hold a complete symbol.
	ErrGuardNotFound = errors.New("ean13: guard pattern not found")

	// ErrGuardMismatch is returned when the middle or end guard does not sit at
	// the offset implied by the start guard. It wraps ErrGuardNotFound.
	ErrGuardMismatch = fmt.Errorf("%w: middle or end guard misplaced", ErrGuardNotFound)

	// ErrInvalidCode is returned by the encoder for malformed digit strings.
	ErrInvalidCode = errors.New("ean13: invalid code")
)
