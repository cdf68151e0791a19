// Package metrics is a small, backend-agnostic seam for recording
// operational metrics from the reporting pipeline: load timings, render-pass
// durations, skipped-row counts. The global backend defaults to a no-op so
// instrumentation calls are always safe; a concrete backend can be installed
// at startup when the deployment has somewhere to send them.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface a metrics system must implement.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a duration/latency style value.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b != nil {
		backend = b
	}
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordStep measures latency plus success/failure for a pipeline step
// (load, normalize, report, export).
func RecordStep(step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"step": step, "status": status}
	backend.IncCounter("pitchboard_step_total", 1, lbls)
	backend.ObserveHistogram("pitchboard_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a row-level counter, e.g. kind "parsed" or "skipped".
func RecordRows(kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("pitchboard_rows_total", float64(delta), Labels{"kind": kind})
}
