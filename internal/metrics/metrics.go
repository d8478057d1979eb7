// Package metrics records decode outcomes in a Prometheus registry that the
// CLI can dump in text exposition format after a run.
package metrics

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Decode outcomes.
const (
	OutcomeOK               = "ok"
	OutcomeChecksumMismatch = "checksum_mismatch"
	OutcomePartial          = "partial"
	OutcomeError            = "error"
)

// Recorder owns a private registry with the decoder collectors.
type Recorder struct {
	registry *prometheus.Registry

	decodesTotal     *prometheus.CounterVec
	decodeDuration   prometheus.Histogram
	undecodedDigits  prometheus.Counter
	binarizeInkRatio prometheus.Histogram
	imagesLoaded     *prometheus.CounterVec
}

// NewRecorder creates a Recorder with fresh collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		decodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eanscan_decodes_total",
				Help: "Total number of decode attempts by outcome",
			},
			[]string{"outcome"},
		),
		decodeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "eanscan_decode_duration_seconds",
				Help:    "Time spent binarizing and decoding one image",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		undecodedDigits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "eanscan_undecoded_digits_total",
				Help: "Digit positions that matched no table entry",
			},
		),
		binarizeInkRatio: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "eanscan_binarize_ink_ratio",
				Help:    "Share of ink pixels after thresholding",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
		),
		imagesLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eanscan_images_loaded_total",
				Help: "Images read from disk by status",
			},
			[]string{"status"}, // status: ok, error
		),
	}
}

// Default is the process-wide recorder used by the pipeline and the CLI.
var Default = NewRecorder()

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveDecode records one decode attempt.
func (r *Recorder) ObserveDecode(outcome string, d time.Duration, undecoded int) {
	r.decodesTotal.WithLabelValues(outcome).Inc()
	r.decodeDuration.Observe(d.Seconds())
	if undecoded > 0 {
		r.undecodedDigits.Add(float64(undecoded))
	}
}

// ObserveInkRatio records the binarization ink share.
func (r *Recorder) ObserveInkRatio(ratio float64) {
	r.binarizeInkRatio.Observe(ratio)
}

// ObserveImageLoad counts an image load.
func (r *Recorder) ObserveImageLoad(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.imagesLoaded.WithLabelValues(status).Inc()
}

// Decodes returns how many attempts ended with outcome.
func (r *Recorder) Decodes(outcome string) float64 {
	var m dto.Metric
	if err := r.decodesTotal.WithLabelValues(outcome).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// WriteText writes all metric families in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteFile writes the text exposition to path.
func (r *Recorder) WriteFile(path string) error {
	f, err := os.Create(path) //nolint:gosec // G304: user-selected output path
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	if err := r.WriteText(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
