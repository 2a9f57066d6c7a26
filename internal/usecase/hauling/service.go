package hauling

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

// AutocompleteBatchSize bounds how many overdue records are loaded and
// completed per transaction.
const AutocompleteBatchSize = 100

type Service struct {
	records   ports.HaulingRepository
	incidents ports.IncidentRepository
	uow       ports.UnitOfWork
	cache     ports.Cache
	metrics   ports.Metrics
	location  *time.Location
	now       func() time.Time
	observers []Observer
	batchSize int
}

// NewService wires hauling usecases. The incident observer is registered by
// default so every new hauling record gets its draft incident.
func NewService(records ports.HaulingRepository, incidents ports.IncidentRepository, uow ports.UnitOfWork, cache ports.Cache, metrics ports.Metrics, location *time.Location) *Service {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if location == nil {
		location = time.UTC
	}
	s := &Service{
		records:   records,
		incidents: incidents,
		uow:       uow,
		cache:     cache,
		metrics:   metrics,
		location:  location,
		now:       time.Now,
		batchSize: AutocompleteBatchSize,
	}
	s.Observe(NewIncidentObserver(incidents, cache, metrics, s.clock))
	return s
}

// WithClock replaces the wall clock, mostly for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Observe registers o to run after every hauling record is committed.
// Observers run in registration order.
func (s *Service) Observe(o Observer) {
	if o != nil {
		s.observers = append(s.observers, o)
	}
}

func (s *Service) clock() time.Time {
	return s.now().In(s.location)
}

func (s *Service) logCtx(ctx context.Context) context.Context {
	return logging.WithAttrs(ctx, slog.String("component", "hauling"))
}

func (s *Service) setCacheBestEffort(ctx context.Context, key string, value string, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		logging.Warn(s.logCtx(ctx), "cache set failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}

func (s *Service) deleteCacheBestEffort(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		logging.Warn(s.logCtx(ctx), "cache delete failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	return nil
}
