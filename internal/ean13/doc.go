// Package ean13 decodes EAN-13 symbols from a binary raster.
//
// The decoder is a pure pipeline over a Mask: the principal axis of the ink
// blob is estimated from image moments, a single scanline is sampled through
// the centroid along that axis, the scanline is run-length encoded into bars,
// the left guard anchors twelve 4-bar digit units, each unit is normalized to
// module widths and looked up in a fixed symbol table, and finally the digit
// order and the implicit country digit are recovered from digit parities.
//
// Structural problems (no ink, no samples, no guard) are returned as errors.
// Symbolic problems (an undecodable digit, an unknown parity pattern, a bad
// check digit) are reported in the returned values so that partially wrong
// decodings can still be inspected or scored.
package ean13
