package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/eanscan/internal/synth"
)

// ReferenceCode is the code printed on the sample product used across tests.
const ReferenceCode = "9310232954790"

// BarcodeImage renders code with the default synth options after applying mutate.
func BarcodeImage(t *testing.T, code string, mutate func(*synth.Options)) *image.NRGBA {
	t.Helper()

	opts := synth.DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	img, err := synth.Render(code, opts)
	require.NoError(t, err, "render %s", code)
	return img
}

// CreateTestImage creates a uniformly colored image.
func CreateTestImage(width, height int, backgroundColor color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)
	return img
}

// SaveImage saves an image as PNG, creating parent directories.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	dir := filepath.Dir(path)
	require.NoError(t, EnsureDir(dir), "Failed to create directory %s", dir)

	file, err := os.Create(path) //nolint:gosec // G304: Test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, file.Close())
	}()

	require.NoError(t, png.Encode(file, img), "Failed to encode PNG image")
}

// WriteBarcodeFiles renders each code into dir/<name>.png and returns the paths
// keyed by name.
func WriteBarcodeFiles(t *testing.T, dir string, codes map[string]string) map[string]string {
	t.Helper()

	paths := make(map[string]string, len(codes))
	for name, code := range codes {
		p := filepath.Join(dir, name+".png")
		SaveImage(t, BarcodeImage(t, code, nil), p)
		paths[name] = p
	}
	return paths
}
