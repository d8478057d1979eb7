// Package batch scans sets of images and scores the decodings against the
// codes expected for them, grouped by parent directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/MeKo-Tech/eanscan/internal/ean13"
	"github.com/MeKo-Tech/eanscan/internal/metrics"
	"github.com/MeKo-Tech/eanscan/internal/pipeline"
	"github.com/MeKo-Tech/eanscan/internal/utils"
)

// ErrNoImages is returned when discovery finds no supported image.
var ErrNoImages = errors.New("batch: no image files found")

// ProcessBatch discovers images under paths, decodes them in parallel and
// scores every decoding that has an expected code.
func ProcessBatch(ctx context.Context, paths []string, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}

	files, err := discoverImageFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover image files: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoImages
	}

	manifest, err := loadExpectations(config)
	if err != nil {
		return nil, err
	}

	rec := config.Metrics
	if rec == nil {
		rec = metrics.Default
	}
	pl, err := pipeline.NewBuilder().
		WithConfig(config.Pipeline).
		WithWorkers(config.Workers).
		WithMetrics(rec).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	startTime := time.Now()
	items, err := processFiles(ctx, pl, files, manifest, config, rec)
	if err != nil {
		return nil, err
	}
	duration := time.Since(startTime)

	workers := pl.Config().Parallel.MaxWorkers
	results := make([]*pipeline.ScanResult, len(items))
	for i := range items {
		results[i] = items[i].Result
	}

	return &Result{
		Items:       items,
		Groups:      groupItems(items),
		Summary:     summarize(items),
		Stats:       pipeline.CalculateParallelStats(results, duration, workers),
		Duration:    duration,
		WorkerCount: workers,
	}, nil
}

func loadExpectations(config *Config) (*Manifest, error) {
	switch {
	case config.ManifestPath != "":
		m, err := LoadManifest(config.ManifestPath)
		if err != nil {
			return nil, err
		}
		if m.ref == nil && config.Reference != "" {
			ref, err := ean13.ParseCode(config.Reference)
			if err != nil {
				return nil, fmt.Errorf("reference: %w", err)
			}
			m.Reference, m.ref = config.Reference, &ref
		}
		return m, nil
	case config.Reference != "":
		return NewManifest("", config.Reference, nil)
	default:
		return nil, nil
	}
}

func processFiles(
	ctx context.Context,
	pl *pipeline.Pipeline,
	files []string,
	manifest *Manifest,
	config *Config,
	rec *metrics.Recorder,
) ([]Item, error) {
	items := make([]Item, len(files))
	var (
		images  []image.Image
		indexes []int
	)
	for i, path := range files {
		items[i] = Item{Path: path, Group: filepath.Base(filepath.Dir(path))}
		img, _, err := utils.LoadImage(path)
		rec.ObserveImageLoad(err)
		if err != nil {
			slog.Warn("Skipping unreadable image", "path", path, "error", err)
			items[i].Error = err.Error()
			items[i].Result = pipeline.NewFailedResult(0, 0, err)
			continue
		}
		images = append(images, img)
		indexes = append(indexes, i)
	}

	if len(images) > 0 {
		errs := make([]error, len(images))
		pc := pl.Config().Parallel
		pc.ErrorHandler = func(i int, _ image.Image, err error) { errs[i] = err }
		if config.ShowProgress && !config.Quiet {
			pc.ProgressCallback = pipeline.NewConsoleProgressCallback(os.Stderr, "Scanning: ").
				WithUpdateInterval(config.ProgressInterval)
		}

		results, err := pl.ProcessImagesParallelWith(ctx, images, pc)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			slog.Debug("Some images failed to decode", "first_error", err)
		}

		for j, idx := range indexes {
			items[idx].Result = results[j]
			if errs[j] != nil {
				b := images[j].Bounds()
				items[idx].Error = errs[j].Error()
				items[idx].Result = pipeline.NewFailedResult(b.Dx(), b.Dy(), errs[j])
			}
			if config.OverlayDir != "" {
				saveOverlay(images[j], items[idx], config.OverlayDir)
			}
		}
	}

	for i := range items {
		scoreItem(&items[i], manifest)
	}
	return items, nil
}

func scoreItem(it *Item, manifest *Manifest) {
	want, ok := manifest.Expected(it.Path)
	if !ok {
		return
	}
	got := [13]int{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
	if it.Result != nil {
		got = it.Result.Digits
	}
	it.Expected = ean13.Decoding{Digits: want}.Code()
	it.Matches, it.Score = Score(got, want)
	it.Scored = true
}

func saveOverlay(img image.Image, it Item, dir string) {
	ov := pipeline.RenderOverlay(img, it.Result, pipeline.DefaultOverlayStyle())
	if ov == nil {
		return
	}
	base := filepath.Base(it.Path)
	name := it.Group + "_" + base[:len(base)-len(filepath.Ext(base))] + "_overlay.png"
	if err := utils.SaveImage(ov, filepath.Join(dir, name)); err != nil {
		slog.Warn("Failed to save overlay", "path", it.Path, "error", err)
	}
}
