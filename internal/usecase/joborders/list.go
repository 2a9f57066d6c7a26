package joborders

import (
	"context"
	"errors"
	"time"

	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

// ListJobOrders returns one page of job orders visible to caller. A nil
// caller lists everything.
func (s *Service) ListJobOrders(ctx context.Context, caller *workforce.Caller, filter ports.JobOrderFilter, page ports.Page) (ports.PageResult[joborder.JobOrder], error) {
	if err := checkContext(ctx); err != nil {
		return ports.PageResult[joborder.JobOrder]{}, err
	}
	if s.jobs == nil {
		return ports.PageResult[joborder.JobOrder]{}, errors.New("job order repository is required")
	}

	statuses, err := normalizeStatuses(filter.Statuses)
	if err != nil {
		return ports.PageResult[joborder.JobOrder]{}, err
	}
	filter.Statuses = statuses
	filter.ServiceTypes = trimAll(filter.ServiceTypes)
	filter.Scope = ports.Scope{Caller: caller, RestrictedRoles: s.restrictedRoles}

	page = page.Normalize()
	started := time.Now()
	items, total, err := s.jobs.List(ctx, filter, page)
	s.metrics.ObserveListQuery("job_orders", time.Since(started))
	if err != nil {
		return ports.PageResult[joborder.JobOrder]{}, errs.Wrap(err, "list job orders")
	}
	return ports.PageResult[joborder.JobOrder]{Items: items, Total: total, Page: page}, nil
}

// ListWithPreset merges the named preset into filter before listing.
func (s *Service) ListWithPreset(ctx context.Context, caller *workforce.Caller, preset string, filter ports.JobOrderFilter, page ports.Page) (ports.PageResult[joborder.JobOrder], error) {
	merged, err := s.ApplyPreset(preset, filter)
	if err != nil {
		return ports.PageResult[joborder.JobOrder]{}, err
	}
	return s.ListJobOrders(ctx, caller, merged, page)
}

func normalizeStatuses(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, value := range trimAll(raw) {
		status, err := joborder.ParseStatus(value)
		if err != nil {
			return nil, errs.Invalid("status", "%v", err)
		}
		out = append(out, string(status))
	}
	return out, nil
}
