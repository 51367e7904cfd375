// Package metrics holds the console's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the console counters. Each instance registers on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	Exports        *prometheus.CounterVec
	Submissions    *prometheus.CounterVec
	ReportFailures *prometheus.CounterVec
	StagedIgnored  prometheus.Counter
}

// New creates and registers the console collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carmodel_console",
			Name:      "exports_total",
			Help:      "Documents exported, by format.",
		}, []string{"format"}),
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carmodel_console",
			Name:      "submissions_total",
			Help:      "Record submissions, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		ReportFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carmodel_console",
			Name:      "report_failures_total",
			Help:      "Report fetches that failed, by section.",
		}, []string{"section"}),
		StagedIgnored: f.NewCounter(prometheus.CounterOpts{
			Namespace: "carmodel_console",
			Name:      "staged_files_ignored_total",
			Help:      "Selected files rejected for exceeding the size ceiling.",
		}),
	}
}
