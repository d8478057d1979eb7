//go:build !barcode_gozxing

package barcode

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBackend(t *testing.T) {
	b, err := NewBackend()
	require.NoError(t, err)

	_, err = b.Decode(context.Background(), image.NewGray(image.Rect(0, 0, 10, 10)), Options{})
	require.ErrorIs(t, err, ErrNoBackend)
	assert.False(t, Available())
}
