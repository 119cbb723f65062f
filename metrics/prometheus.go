package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	reg           *prom.Registry
	loads         *prom.CounterVec
	fetchDuration *prom.HistogramVec
	fallbacks     prom.Counter
}

// NewPrometheusRecorder registers the loader collectors on reg. A nil reg
// gets a fresh registry preloaded with the Go and process collectors.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	p := &PrometheusRecorder{
		reg: reg,
		loads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "agamdocs",
			Name:      "loads_total",
			Help:      "Documentation load requests by outcome",
		}, []string{"outcome"}),
		fetchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "agamdocs",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of resource retrievals",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		fallbacks: prom.NewCounter(prom.CounterOpts{
			Namespace: "agamdocs",
			Name:      "fallback_resolutions_total",
			Help:      "Slugs that resolved to the default resource because they had no route",
		}),
	}
	reg.MustRegister(p.loads, p.fetchDuration, p.fallbacks)
	return p
}

func (p *PrometheusRecorder) IncLoadOutcome(outcome Outcome) {
	if p == nil {
		return
	}
	p.loads.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveFetchDuration(d time.Duration, success bool) {
	if p == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	p.fetchDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFallbackResolution() {
	if p == nil {
		return
	}
	p.fallbacks.Inc()
}

// Registry exposes the underlying registry.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}
