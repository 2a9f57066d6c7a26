// Package httpapi serves the read-side listings and hauling intake over HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"jobdesk/internal/usecase/hauling"
	"jobdesk/internal/usecase/joborders"
	"jobdesk/internal/usecase/workforce"
)

type RequestRecorder interface {
	HTTPRequest(route string, code int)
}

type Services struct {
	JobOrders *joborders.Service
	Workforce *workforce.Service
	Hauling   *hauling.Service
}

type Options struct {
	Services Services
	Recorder RequestRecorder
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

type api struct {
	Services
}

// NewRouter builds the chi router. ctx supplies the base logger for request
// logging.
func NewRouter(ctx context.Context, opts Options) http.Handler {
	a := &api{Services: opts.Services}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestContext(ctx))
	r.Use(middleware.Recoverer)
	r.Use(recordRequests(opts.Recorder))

	r.Get("/healthz", a.healthz)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(callerIdentity)

		r.Get("/job-orders", a.listJobOrders)
		r.Get("/job-order-corrections", a.listCorrections)
		r.Get("/employees", a.listEmployees)
		r.Get("/users", a.listUsers)
		r.Get("/trucks", a.listTrucks)
		r.Get("/incidents", a.listIncidents)
		r.Post("/incidents/{id}/read", a.markIncidentRead)
		r.Post("/hauling-records", a.createHaulingRecord)
	})

	return r
}
