// Package metrics exposes jobdesk counters on a dedicated prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobdesk/internal/ports"
)

const namespace = "jobdesk"

type Registry struct {
	reg *prometheus.Registry

	haulingAutocompleted prometheus.Counter
	incidentsCreated     prometheus.Counter
	schedulerFailures    *prometheus.CounterVec
	httpRequests         *prometheus.CounterVec
	listQueryDuration    *prometheus.HistogramVec
}

var _ ports.Metrics = (*Registry)(nil)

func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		haulingAutocompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hauling_autocompleted_total",
			Help:      "Hauling records moved to Done by the overdue auto-completion task.",
		}),
		incidentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_created_total",
			Help:      "Draft incidents created for new hauling records.",
		}),
		schedulerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_job_failures_total",
			Help:      "Scheduled job runs that returned an error.",
		}, []string{"job"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		listQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "list_query_duration_seconds",
			Help:      "Latency of filtered list queries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.haulingAutocompleted,
		r.incidentsCreated,
		r.schedulerFailures,
		r.httpRequests,
		r.listQueryDuration,
	)
	return r
}

func (r *Registry) HaulingAutocompleted(n int) {
	if n > 0 {
		r.haulingAutocompleted.Add(float64(n))
	}
}

func (r *Registry) IncidentCreated() {
	r.incidentsCreated.Inc()
}

func (r *Registry) ObserveListQuery(entity string, elapsed time.Duration) {
	r.listQueryDuration.WithLabelValues(entity).Observe(elapsed.Seconds())
}

func (r *Registry) SchedulerFailure(job string) {
	r.schedulerFailures.WithLabelValues(job).Inc()
}

func (r *Registry) HTTPRequest(route string, code int) {
	r.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
