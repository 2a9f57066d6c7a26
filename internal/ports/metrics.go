package ports

import "time"

// Metrics receives usecase counters. NopMetrics is used when none is wired.
type Metrics interface {
	HaulingAutocompleted(n int)
	IncidentCreated()
	ObserveListQuery(entity string, elapsed time.Duration)
}

type NopMetrics struct{}

func (NopMetrics) HaulingAutocompleted(int)               {}
func (NopMetrics) IncidentCreated()                       {}
func (NopMetrics) ObserveListQuery(string, time.Duration) {}
