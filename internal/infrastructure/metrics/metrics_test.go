package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistryCounters(t *testing.T) {
	r := New()

	r.HaulingAutocompleted(3)
	r.HaulingAutocompleted(0)
	r.IncidentCreated()
	r.HTTPRequest("/job-orders", http.StatusOK)
	r.HTTPRequest("/job-orders", http.StatusOK)
	r.SchedulerFailure("hauling-autocomplete")
	r.ObserveListQuery("job_orders", 20*time.Millisecond)

	if got := testutil.ToFloat64(r.haulingAutocompleted); got != 3 {
		t.Fatalf("hauling_autocompleted_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.incidentsCreated); got != 1 {
		t.Fatalf("incidents_created_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.httpRequests.WithLabelValues("/job-orders", "200")); got != 2 {
		t.Fatalf("http_requests_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.schedulerFailures.WithLabelValues("hauling-autocomplete")); got != 1 {
		t.Fatalf("scheduler_job_failures_total = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.listQueryDuration); got != 1 {
		t.Fatalf("list_query_duration_seconds series = %d, want 1", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	r := New()
	r.IncidentCreated()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "jobdesk_incidents_created_total 1") {
		t.Fatalf("body missing incidents counter:\n%s", rec.Body.String())
	}
}
