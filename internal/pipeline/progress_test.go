package pipeline

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoOpProgressCallback(t *testing.T) {
	callback := NoOpProgressCallback{}
	callback.OnStart(10)
	callback.OnItem(1, 10, nil, assert.AnError)
	callback.OnComplete()
}

func TestConsoleProgressCallback(t *testing.T) {
	var buf bytes.Buffer
	callback := NewConsoleProgressCallback(&buf, "Scan: ").WithWidth(10).WithUpdateInterval(0)

	callback.OnStart(4)
	assert.Contains(t, buf.String(), "Scan: 0/4")

	buf.Reset()
	callback.OnItem(1, 4, &ScanResult{ChecksumOK: true}, nil)
	callback.OnItem(2, 4, nil, assert.AnError)
	out := buf.String()
	assert.Contains(t, out, "[#####.....] 2/4")
	assert.Contains(t, out, "valid=1 failed=1")

	buf.Reset()
	callback.OnItem(3, 4, &ScanResult{}, nil)
	callback.OnItem(4, 4, NewFailedResult(1, 1, assert.AnError), nil)
	callback.OnComplete()
	out = buf.String()
	assert.Contains(t, out, "4/4 valid=1 failed=2")
	assert.Contains(t, out, "Scan: Completed in")
}

func TestLogProgressCallback(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	callback := NewLogProgressCallback(logger, slog.LevelInfo)

	callback.OnStart(2)
	callback.OnItem(1, 2, &ScanResult{Code: "9310232954790", ChecksumOK: true}, nil)
	callback.OnItem(2, 2, nil, assert.AnError)
	callback.OnComplete()

	out := buf.String()
	assert.Contains(t, out, "Starting scan")
	assert.Contains(t, out, "code=9310232954790")
	assert.Contains(t, out, "level=WARN msg=\"Scan failed\"")
	assert.Contains(t, out, "Scan completed")
}

func TestMultiProgressCallback(t *testing.T) {
	a, b := &recordingProgress{}, &recordingProgress{}
	multi := MultiProgressCallback{a, b}
	multi.OnStart(1)
	multi.OnItem(1, 1, nil, assert.AnError)
	multi.OnComplete()

	for _, r := range []*recordingProgress{a, b} {
		assert.Equal(t, 1, r.started)
		assert.Equal(t, []int{1}, r.items)
		assert.True(t, r.complete)
	}
}
