// Package telemetry holds process-wide counters and gauges.
package telemetry

import (
	"io"

	metrics "github.com/rcrowley/go-metrics"
)

type Telemetry interface {
	Increment(name string)
	Submit(name string, value float64)
}

type Noop struct{}

func (Noop) Increment(string)       {}
func (Noop) Submit(string, float64) {}

// Registry records metrics in a go-metrics registry.
type Registry struct {
	reg metrics.Registry
}

func NewRegistry() *Registry { return &Registry{reg: metrics.NewRegistry()} }

func (r *Registry) Increment(name string) {
	metrics.GetOrRegisterCounter(name, r.reg).Inc(1)
}

func (r *Registry) Submit(name string, value float64) {
	metrics.GetOrRegisterGaugeFloat64(name, r.reg).Update(value)
}

// Count returns the current value of a counter, 0 if it was never incremented.
func (r *Registry) Count(name string) int64 {
	if c, ok := r.reg.Get(name).(metrics.Counter); ok {
		return c.Count()
	}
	return 0
}

// Gauge returns the last submitted value and whether one was submitted.
func (r *Registry) Gauge(name string) (float64, bool) {
	if g, ok := r.reg.Get(name).(metrics.GaugeFloat64); ok {
		return g.Value(), true
	}
	return 0, false
}

// WriteJSON writes a snapshot of every registered metric.
func (r *Registry) WriteJSON(w io.Writer) {
	metrics.WriteJSONOnce(r.reg, w)
}
