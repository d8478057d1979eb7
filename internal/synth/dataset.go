package synth

import (
	"fmt"
	"path/filepath"

	"github.com/MeKo-Tech/eanscan/internal/utils"
)

// DatasetFile is one rendered image of a dataset.
type DatasetFile struct {
	Path  string
	Level int
	Index int
}

// LevelNoise maps a noise level (percent of the maximum) to the share of
// replaced pixels: level 100 replaces a fifth of the image.
func LevelNoise(level int) float64 {
	return float64(level) / 500
}

// WriteDataset renders perLevel images of code for every noise level into
// dir/<level>/<level>_ (<n>).png, n counting from 1. Each image gets its own
// noise seed derived from base.Seed.
func WriteDataset(dir, code string, levels []int, perLevel int, base Options) ([]DatasetFile, error) {
	if perLevel <= 0 {
		return nil, fmt.Errorf("synth: images per level must be > 0, got %d", perLevel)
	}
	files := make([]DatasetFile, 0, len(levels)*perLevel)
	for _, level := range levels {
		if level < 0 || level > 100 {
			return nil, fmt.Errorf("synth: noise level must be within [0,100], got %d", level)
		}
		for n := 1; n <= perLevel; n++ {
			opts := base
			opts.Noise = LevelNoise(level)
			opts.Seed = base.Seed + uint64(level)*1000 + uint64(n)

			img, err := Render(code, opts)
			if err != nil {
				return nil, err
			}
			path := filepath.Join(dir, fmt.Sprint(level), fmt.Sprintf("%d_ (%d).png", level, n))
			if err := utils.SaveImage(img, path); err != nil {
				return nil, err
			}
			files = append(files, DatasetFile{Path: path, Level: level, Index: n})
		}
	}
	return files, nil
}
