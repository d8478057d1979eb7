package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressCallback receives progress while a set of images is scanned.
// OnItem is called once per image, in completion order, with either its
// result or its error.
type ProgressCallback interface {
	OnStart(total int)
	OnItem(done, total int, res *ScanResult, err error)
	OnComplete()
}

// NoOpProgressCallback implements ProgressCallback but does nothing.
type NoOpProgressCallback struct{}

func (NoOpProgressCallback) OnStart(int)                         {}
func (NoOpProgressCallback) OnItem(int, int, *ScanResult, error) {}
func (NoOpProgressCallback) OnComplete()                         {}

// ConsoleProgressCallback draws a progress bar with running valid/failed counts.
type ConsoleProgressCallback struct {
	writer         io.Writer
	prefix         string
	width          int
	updateInterval time.Duration

	mutex      sync.Mutex
	startTime  time.Time
	lastUpdate time.Time
	valid      int
	failed     int
}

// NewConsoleProgressCallback creates a new console progress reporter.
func NewConsoleProgressCallback(writer io.Writer, prefix string) *ConsoleProgressCallback {
	if writer == nil {
		writer = os.Stderr
	}
	return &ConsoleProgressCallback{
		writer:         writer,
		prefix:         prefix,
		width:          40,
		updateInterval: 100 * time.Millisecond,
	}
}

// WithWidth sets the progress bar width.
func (c *ConsoleProgressCallback) WithWidth(width int) *ConsoleProgressCallback {
	c.width = width
	return c
}

// WithUpdateInterval sets how frequently the progress bar is redrawn.
func (c *ConsoleProgressCallback) WithUpdateInterval(interval time.Duration) *ConsoleProgressCallback {
	c.updateInterval = interval
	return c
}

func (c *ConsoleProgressCallback) OnStart(total int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.startTime = time.Now()
	c.lastUpdate = time.Time{}
	c.valid, c.failed = 0, 0
	_, _ = fmt.Fprintf(c.writer, "%s0/%d\n", c.prefix, total)
}

func (c *ConsoleProgressCallback) OnItem(done, total int, res *ScanResult, err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	switch {
	case err != nil || !res.Decoded():
		c.failed++
	case res.Valid():
		c.valid++
	}

	now := time.Now()
	if now.Sub(c.lastUpdate) < c.updateInterval && done < total {
		return
	}
	c.lastUpdate = now
	c.draw(done, total)
}

func (c *ConsoleProgressCallback) OnComplete() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	elapsed := time.Since(c.startTime)
	_, _ = fmt.Fprintf(c.writer, "\n%sCompleted in %v (valid=%d failed=%d)\n",
		c.prefix, elapsed.Round(time.Millisecond), c.valid, c.failed)
}

func (c *ConsoleProgressCallback) draw(done, total int) {
	if total == 0 {
		return
	}
	filled := c.width * done / total
	bar := strings.Repeat("#", filled) + strings.Repeat(".", c.width-filled)
	_, _ = fmt.Fprintf(c.writer, "\r%s[%s] %d/%d valid=%d failed=%d",
		c.prefix, bar, done, total, c.valid, c.failed)
}

// LogProgressCallback logs every result with slog.
type LogProgressCallback struct {
	logger    *slog.Logger
	level     slog.Level
	startTime time.Time
}

// NewLogProgressCallback creates a new log-based progress reporter.
func NewLogProgressCallback(logger *slog.Logger, level slog.Level) *LogProgressCallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogProgressCallback{logger: logger, level: level}
}

func (l *LogProgressCallback) OnStart(total int) {
	l.startTime = time.Now()
	l.logger.Log(context.Background(), l.level, "Starting scan", "total", total)
}

func (l *LogProgressCallback) OnItem(done, total int, res *ScanResult, err error) {
	if err != nil {
		l.logger.Log(context.Background(), slog.LevelWarn, "Scan failed", "done", done, "total", total, "error", err)
		return
	}
	l.logger.Log(context.Background(), l.level, "Scanned",
		"done", done,
		"total", total,
		"code", res.Code,
		"checksum_ok", res.ChecksumOK)
}

func (l *LogProgressCallback) OnComplete() {
	l.logger.Log(context.Background(), l.level, "Scan completed", "elapsed", time.Since(l.startTime).Round(time.Millisecond))
}

// MultiProgressCallback fans out to several callbacks.
type MultiProgressCallback []ProgressCallback

func (m MultiProgressCallback) OnStart(total int) {
	for _, cb := range m {
		cb.OnStart(total)
	}
}

func (m MultiProgressCallback) OnItem(done, total int, res *ScanResult, err error) {
	for _, cb := range m {
		cb.OnItem(done, total, res, err)
	}
}

func (m MultiProgressCallback) OnComplete() {
	for _, cb := range m {
		cb.OnComplete()
	}
}
