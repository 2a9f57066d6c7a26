package hauling

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"jobdesk/internal/bootstrap/logging"
	domain "jobdesk/internal/domain/hauling"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

// Observer reacts to a hauling record after it has been committed. The
// record carries its resolved Form4 and job order.
type Observer interface {
	HaulingRecordCreated(ctx context.Context, record domain.Record) error
}

type ObserverFunc func(ctx context.Context, record domain.Record) error

func (f ObserverFunc) HaulingRecordCreated(ctx context.Context, record domain.Record) error {
	return f(ctx, record)
}

// IncidentObserver files one Draft, unread incident per hauling record.
type IncidentObserver struct {
	incidents ports.IncidentRepository
	cache     ports.Cache
	metrics   ports.Metrics
	now       func() time.Time
}

func NewIncidentObserver(incidents ports.IncidentRepository, cache ports.Cache, metrics ports.Metrics, now func() time.Time) *IncidentObserver {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if now == nil {
		now = time.Now
	}
	return &IncidentObserver{incidents: incidents, cache: cache, metrics: metrics, now: now}
}

func (o *IncidentObserver) HaulingRecordCreated(ctx context.Context, record domain.Record) error {
	if o.incidents == nil {
		return errors.New("incident repository is required")
	}

	incident, err := o.incidents.Create(ctx, domain.NewDraftIncident(record, o.now()))
	if err != nil {
		return errs.Wrapf(err, "create draft incident for hauling record %d", record.ID)
	}
	o.metrics.IncidentCreated()

	if o.cache != nil {
		if err := o.cache.Delete(ctx, ports.CacheKeyUnreadIncidents); err != nil {
			logging.Warn(ctx, "cache delete failed", slog.String("key", ports.CacheKeyUnreadIncidents), slog.Any("err", errs.Loggable(err)))
		}
	}

	logging.Info(ctx, "draft incident created", slog.Uint64("incident_id", incident.ID), slog.Uint64("hauling_record_id", record.ID))
	return nil
}
