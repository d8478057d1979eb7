package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	return path
}

func TestDiscoverImageFiles_EmptyArgs(t *testing.T) {
	files, err := discoverImageFiles(nil, false, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverImageFiles_SingleFiles(t *testing.T) {
	dir := t.TempDir()
	png := touch(t, filepath.Join(dir, "b.png"))
	jpg := touch(t, filepath.Join(dir, "a.jpg"))
	txt := touch(t, filepath.Join(dir, "notes.txt"))

	files, err := discoverImageFiles([]string{png, jpg, txt, png}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{jpg, png}, files)
}

func TestDiscoverImageFiles_Directory(t *testing.T) {
	dir := t.TempDir()
	top := touch(t, filepath.Join(dir, "image.png"))
	nested := touch(t, filepath.Join(dir, "10", "10_ (1).png"))
	touch(t, filepath.Join(dir, "readme.md"))

	files, err := discoverImageFiles([]string{dir}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{top}, files)

	files, err = discoverImageFiles([]string{dir}, true, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{nested, top}, files)
}

func TestDiscoverImageFiles_Patterns(t *testing.T) {
	dir := t.TempDir()
	keep := touch(t, filepath.Join(dir, "scan_1.png"))
	touch(t, filepath.Join(dir, "scan_1_overlay.png"))
	touch(t, filepath.Join(dir, "other.bmp"))

	files, err := discoverImageFiles([]string{dir}, false, []string{"scan_*"}, []string{"*_overlay.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, files)
}

func TestDiscoverImageFiles_Missing(t *testing.T) {
	_, err := discoverImageFiles([]string{filepath.Join(t.TempDir(), "nope")}, false, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot access")
}

func TestShouldIncludeFile(t *testing.T) {
	assert.True(t, shouldIncludeFile("/a/b.png", nil, nil))
	assert.False(t, shouldIncludeFile("/a/b.png", nil, []string{"*.png"}))
	assert.False(t, shouldIncludeFile("/a/b.png", []string{"*.jpg"}, nil))
	assert.True(t, shouldIncludeFile("/a/b.png", []string{"*.jpg", "b.*"}, nil))
}
