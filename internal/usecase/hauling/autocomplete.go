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

type AutocompleteResult struct {
	Window    domain.OverdueWindow
	Completed int
	Batches   int
}

// CompleteOverdue marks every not-Done hauling record dated from January 1st
// of the current year up to yesterday as Done. Each batch commits on its
// own; the first failing batch is rolled back and stops the run, leaving
// later batches for the next run.
func (s *Service) CompleteOverdue(ctx context.Context) (AutocompleteResult, error) {
	if err := checkContext(ctx); err != nil {
		return AutocompleteResult{}, err
	}
	if s.records == nil || s.uow == nil {
		return AutocompleteResult{}, errors.New("hauling repository and unit of work are required")
	}

	result := AutocompleteResult{Window: domain.NewOverdueWindow(s.clock())}
	logCtx := logging.WithAttrs(s.logCtx(ctx),
		slog.String("job", "hauling-autocomplete"),
		slog.String("year_start", result.Window.YearStart),
		slog.String("today", result.Window.Today),
	)

	err := s.records.ForEachOverdueBatch(ctx, result.Window, s.batchSize, func(ctx context.Context, batch []domain.Record) error {
		changed := 0
		if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
			for _, record := range batch {
				ok, err := s.records.MarkDone(txCtx, record.ID)
				if err != nil {
					return errs.Wrapf(err, "complete hauling record %d", record.ID)
				}
				if ok {
					changed++
				}
			}
			return nil
		}); err != nil {
			return err
		}
		result.Completed += changed
		result.Batches++
		return nil
	})

	s.metrics.HaulingAutocompleted(result.Completed)
	if err != nil {
		logging.Error(logCtx, "hauling auto-completion aborted", slog.Int("completed", result.Completed), slog.Any("err", errs.Loggable(err)))
		return result, errs.Wrap(err, "complete overdue hauling records")
	}

	s.setCacheBestEffort(ctx, ports.CacheKeyLastAutocomplete, s.clock().Format(time.RFC3339), 0)
	logging.Info(logCtx, "hauling auto-completion finished", slog.Int("completed", result.Completed), slog.Int("batches", result.Batches))
	return result, nil
}

// LastAutocomplete reports when CompleteOverdue last finished without error.
// found is false when it has not run yet or the cache entry is gone.
func (s *Service) LastAutocomplete(ctx context.Context) (at time.Time, found bool, err error) {
	if err := checkContext(ctx); err != nil {
		return time.Time{}, false, err
	}
	if s.cache == nil {
		return time.Time{}, false, nil
	}
	raw, found, err := s.cache.Get(ctx, ports.CacheKeyLastAutocomplete)
	if err != nil {
		return time.Time{}, false, errs.Wrap(err, "read last auto-completion")
	}
	if !found {
		return time.Time{}, false, nil
	}
	at, err = time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, errs.Wrapf(err, "parse last auto-completion %q", raw)
	}
	return at, true, nil
}
