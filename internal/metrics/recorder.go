// Package metrics records storage activity.
package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Recorder observes storage operations.
type Recorder interface {
	ObserveStorage(op string, d time.Duration, err error)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStorage(string, time.Duration, error) {}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg        *prom.Registry
	opDuration *prom.HistogramVec
	opResults  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the storage metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		opDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "localtodo",
			Name:      "storage_op_duration_seconds",
			Help:      "Duration of storage operations",
			Buckets:   prom.DefBuckets,
		}, []string{"op"}),
		opResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "localtodo",
			Name:      "storage_ops_total",
			Help:      "Storage operations by outcome",
		}, []string{"op", "result"}),
	}
	reg.MustRegister(pr.opDuration, pr.opResults)
	return pr
}

// Registry is where the metrics live.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStorage(op string, d time.Duration, err error) {
	p.opDuration.WithLabelValues(op).Observe(d.Seconds())
	p.opResults.WithLabelValues(op, result(err)).Inc()
}

// WriteTextfile dumps the registry in text exposition format, the layout the
// node_exporter textfile collector reads.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
