// Package metrics exposes Prometheus counters describing what lumen dispatched,
// rejected and failed to write.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Rejection reasons recorded by RecordRejected
const (
	ReasonUnresolved = "unresolved"
	ReasonDebugOnly  = "debug_only"
	ReasonModeOff    = "mode_off"
	ReasonNoMessage  = "no_message"
	ReasonDisabled   = "level_disabled"
	ReasonOutOfRange = "out_of_range"
)

// File failure reasons recorded by RecordFileFailure
const (
	FailureIO        = "io"
	FailureReentrant = "reentrant"
)

// Collector holds the lumen metrics on its own registry so that several
// environments can coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	records         *prometheus.CounterVec
	rejected        *prometheus.CounterVec
	fileFailures    *prometheus.CounterVec
	consoleMessages *prometheus.CounterVec
	loggers         prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lumen_records_total",
				Help: "Total number of log records dispatched by loggers",
			},
			[]string{"kind", "level"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lumen_rejected_total",
				Help: "Total number of logging calls declined before a record was built",
			},
			[]string{"kind", "reason"},
		),
		fileFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lumen_file_failures_total",
				Help: "Total number of swallowed file write failures",
			},
			[]string{"kind", "reason"},
		),
		consoleMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lumen_console_messages_total",
				Help: "Total number of messages written directly to the console",
			},
			[]string{"level"},
		),
		loggers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lumen_loggers_registered",
				Help: "Number of logger kinds registered in the environment",
			},
		),
	}
	c.registry.MustRegister(c.records, c.rejected, c.fileFailures, c.consoleMessages, c.loggers)
	return c
}

// Registry returns the registry holding the collector's metrics
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordDispatched counts a record written by a logger
func (c *Collector) RecordDispatched(kind, level string) {
	if c == nil {
		return
	}
	c.records.WithLabelValues(kind, level).Inc()
}

// RecordRejected counts a logging call declined during validation
func (c *Collector) RecordRejected(kind, reason string) {
	if c == nil {
		return
	}
	c.rejected.WithLabelValues(kind, reason).Inc()
}

// RecordFileFailure counts a swallowed file failure
func (c *Collector) RecordFileFailure(kind, reason string) {
	if c == nil {
		return
	}
	c.fileFailures.WithLabelValues(kind, reason).Inc()
}

// RecordConsoleMessage counts a direct console write
func (c *Collector) RecordConsoleMessage(level string) {
	if c == nil {
		return
	}
	c.consoleMessages.WithLabelValues(level).Inc()
}

// SetLoggers records how many logger kinds are registered
func (c *Collector) SetLoggers(n int) {
	if c == nil {
		return
	}
	c.loggers.Set(float64(n))
}

// Records returns the counter for a kind and level, for inspection in tests
// and diagnostics.
func (c *Collector) Records(kind, level string) prometheus.Counter {
	return c.records.WithLabelValues(kind, level)
}

// Rejected returns the rejection counter for a kind and reason
func (c *Collector) Rejected(kind, reason string) prometheus.Counter {
	return c.rejected.WithLabelValues(kind, reason)
}

// FileFailures returns the file failure counter for a kind and reason
func (c *Collector) FileFailures(kind, reason string) prometheus.Counter {
	return c.fileFailures.WithLabelValues(kind, reason)
}

// ConsoleMessages returns the console counter for a level name
func (c *Collector) ConsoleMessages(level string) prometheus.Counter {
	return c.consoleMessages.WithLabelValues(level)
}

// Loggers returns the registered loggers gauge
func (c *Collector) Loggers() prometheus.Gauge {
	return c.loggers
}
