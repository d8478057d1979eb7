package synth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/eanscan/internal/utils"
)

func TestWriteDataset(t *testing.T) {
	dir := t.TempDir()
	files, err := WriteDataset(dir, sampleCode, []int{0, 50}, 2, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, files, 4)

	assert.Equal(t, filepath.Join(dir, "0", "0_ (1).png"), files[0].Path)
	assert.Equal(t, filepath.Join(dir, "50", "50_ (2).png"), files[3].Path)
	assert.Equal(t, 50, files[3].Level)
	assert.Equal(t, 2, files[3].Index)

	clean, _, err := utils.LoadImage(files[0].Path)
	require.NoError(t, err)
	noisy, _, err := utils.LoadImage(files[2].Path)
	require.NoError(t, err)
	assert.Equal(t, clean.Bounds(), noisy.Bounds())
}

func TestWriteDataset_Errors(t *testing.T) {
	_, err := WriteDataset(t.TempDir(), sampleCode, []int{10}, 0, DefaultOptions())
	require.Error(t, err)

	_, err = WriteDataset(t.TempDir(), sampleCode, []int{101}, 1, DefaultOptions())
	require.Error(t, err)

	_, err = WriteDataset(t.TempDir(), "123", []int{10}, 1, DefaultOptions())
	require.Error(t, err)
}

func TestLevelNoise(t *testing.T) {
	assert.InDelta(t, 0.0, LevelNoise(0), 1e-12)
	assert.InDelta(t, 0.2, LevelNoise(100), 1e-12)
}
