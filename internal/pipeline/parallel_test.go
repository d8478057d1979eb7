package pipeline

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/eanscan/internal/testutil"
)

type recordingProgress struct {
	mu       sync.Mutex
	started  int
	items    []int
	errors   int
	complete bool
}

func (r *recordingProgress) OnStart(total int) { r.started = total }

func (r *recordingProgress) OnItem(done, _ int, _ *ScanResult, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, done)
	if err != nil {
		r.errors++
	}
}

func (r *recordingProgress) OnComplete() { r.complete = true }

func testImages(t *testing.T, codes ...string) []image.Image {
	t.Helper()
	out := make([]image.Image, len(codes))
	for i, c := range codes {
		if c == "" {
			out[i] = testutil.CreateTestImage(60, 30, color.White)
			continue
		}
		out[i] = testutil.BarcodeImage(t, c, nil)
	}
	return out
}

func TestProcessImagesParallel_Ordered(t *testing.T) {
	codes := []string{testutil.ReferenceCode, "4006381333931", "5901234123457", "0123456789012"}
	p, _ := newTestPipeline(t, NewBuilder().WithWorkers(3))

	results, err := p.ProcessImagesParallel(context.Background(), testImages(t, codes...))
	require.NoError(t, err)
	require.Len(t, results, len(codes))
	for i, c := range codes {
		require.NotNil(t, results[i])
		assert.Equal(t, c, results[i].Code)
		assert.True(t, results[i].Valid())
	}
}

func TestProcessImagesParallel_ErrorsAndProgress(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	images := testImages(t, testutil.ReferenceCode, "", testutil.ReferenceCode)

	progress := &recordingProgress{}
	var handled []int
	cfg := ParallelConfig{
		MaxWorkers:       2,
		ProgressCallback: progress,
		ErrorHandler:     func(i int, _ image.Image, _ error) { handled = append(handled, i) },
	}
	results, err := p.ProcessImagesParallelWith(context.Background(), images, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image 1")
	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
	assert.NotNil(t, results[2])

	assert.Equal(t, 3, progress.started)
	assert.ElementsMatch(t, []int{1, 2, 3}, progress.items)
	assert.Equal(t, 1, progress.errors)
	assert.True(t, progress.complete)
	assert.Equal(t, []int{1}, handled)
}

func TestProcessImagesParallel_Validation(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	_, err := p.ProcessImagesParallel(context.Background(), nil)
	require.Error(t, err)

	var nilPipeline *Pipeline
	_, err = nilPipeline.ProcessImagesParallel(context.Background(), testImages(t, testutil.ReferenceCode))
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestProcessImagesParallel_Canceled(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.ProcessImagesParallel(ctx, testImages(t, testutil.ReferenceCode, testutil.ReferenceCode))
	require.ErrorIs(t, err, context.Canceled)
}

func TestCalculateParallelStats(t *testing.T) {
	results := []*ScanResult{
		{ChecksumOK: true},
		{ChecksumOK: false},
		nil,
		NewFailedResult(1, 1, assert.AnError),
	}
	stats := CalculateParallelStats(results, 2*time.Second, 4)
	assert.Equal(t, 4, stats.TotalImages)
	assert.Equal(t, 2, stats.DecodedImages)
	assert.Equal(t, 1, stats.ValidImages)
	assert.Equal(t, 2, stats.FailedImages)
	assert.Equal(t, 4, stats.WorkerCount)
	assert.InDelta(t, 2.0, stats.ThroughputPerSec, 1e-9)
}
