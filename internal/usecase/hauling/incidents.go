package hauling

import (
	"context"
	"errors"
	"strconv"
	"time"

	domain "jobdesk/internal/domain/hauling"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

const unreadCountTTL = 5 * time.Minute

func (s *Service) ListIncidents(ctx context.Context, filter ports.IncidentFilter, page ports.Page) (ports.PageResult[domain.Incident], error) {
	if err := checkContext(ctx); err != nil {
		return ports.PageResult[domain.Incident]{}, err
	}
	if s.incidents == nil {
		return ports.PageResult[domain.Incident]{}, errors.New("incident repository is required")
	}

	statuses := make([]string, 0, len(filter.Statuses))
	for _, raw := range filter.Statuses {
		status, err := domain.ParseIncidentStatus(raw)
		if err != nil {
			return ports.PageResult[domain.Incident]{}, errs.Invalid("status", "unknown incident status %q", raw)
		}
		statuses = append(statuses, status)
	}
	filter.Statuses = statuses

	page = page.Normalize()
	started := time.Now()
	items, total, err := s.incidents.List(ctx, filter, page)
	s.metrics.ObserveListQuery("incidents", time.Since(started))
	if err != nil {
		return ports.PageResult[domain.Incident]{}, errs.Wrap(err, "list incidents")
	}
	return ports.PageResult[domain.Incident]{Items: items, Total: total, Page: page}, nil
}

func (s *Service) MarkIncidentRead(ctx context.Context, id uint64) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if s.incidents == nil {
		return errors.New("incident repository is required")
	}
	if err := s.incidents.MarkRead(ctx, id); err != nil {
		return err
	}
	s.deleteCacheBestEffort(ctx, ports.CacheKeyUnreadIncidents)
	return nil
}

// UnreadIncidentCount is served from the cache when possible.
func (s *Service) UnreadIncidentCount(ctx context.Context) (int64, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	if s.cache != nil {
		if raw, found, err := s.cache.Get(ctx, ports.CacheKeyUnreadIncidents); err == nil && found {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return n, nil
			}
		}
	}

	page, err := s.ListIncidents(ctx, ports.IncidentFilter{UnreadOnly: true}, ports.Page{Size: 1})
	if err != nil {
		return 0, err
	}
	s.setCacheBestEffort(ctx, ports.CacheKeyUnreadIncidents, strconv.FormatInt(page.Total, 10), unreadCountTTL)
	return page.Total, nil
}
