package joborders

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

func (s *Service) ListCorrections(ctx context.Context, caller *workforce.Caller, filter ports.CorrectionFilter, page ports.Page) (ports.PageResult[joborder.Correction], error) {
	if err := checkContext(ctx); err != nil {
		return ports.PageResult[joborder.Correction]{}, err
	}
	if s.corrections == nil {
		return ports.PageResult[joborder.Correction]{}, errors.New("correction repository is required")
	}

	statuses := make([]string, 0, len(filter.Statuses))
	for _, raw := range trimAll(filter.Statuses) {
		status, err := joborder.ParseCorrectionStatus(raw)
		if err != nil {
			return ports.PageResult[joborder.Correction]{}, errs.Invalid("status", "%v", err)
		}
		statuses = append(statuses, string(status))
	}
	filter.Statuses = statuses
	filter.Scope = ports.Scope{Caller: caller, RestrictedRoles: s.restrictedRoles}

	page = page.Normalize()
	started := time.Now()
	items, total, err := s.corrections.List(ctx, filter, page)
	s.metrics.ObserveListQuery("job_order_corrections", time.Since(started))
	if err != nil {
		return ports.PageResult[joborder.Correction]{}, errs.Wrap(err, "list corrections")
	}
	return ports.PageResult[joborder.Correction]{Items: items, Total: total, Page: page}, nil
}

type RequestCorrectionInput struct {
	Ticket string
	Reason string
}

// RequestCorrection opens a pending correction against an active job order.
func (s *Service) RequestCorrection(ctx context.Context, caller workforce.Caller, input RequestCorrectionInput) (joborder.Correction, error) {
	if err := checkContext(ctx); err != nil {
		return joborder.Correction{}, err
	}
	if s.jobs == nil || s.corrections == nil || s.uow == nil {
		return joborder.Correction{}, errors.New("job order and correction repositories are required")
	}
	if caller.EmployeeID == 0 {
		return joborder.Correction{}, errs.Invalid("created_by", "caller has no employee profile")
	}

	id, err := joborder.ParseTicketNumber(input.Ticket)
	if err != nil {
		return joborder.Correction{}, errs.Invalid("ticket", "%v", err)
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return joborder.Correction{}, errs.Invalid("reason", "reason is required")
	}

	var created joborder.Correction
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		job, err := s.jobs.Get(txCtx, id)
		if err != nil {
			return err
		}
		if job.Archived() {
			return joborder.ErrJobOrderArchived
		}
		created, err = s.corrections.Create(txCtx, ports.CorrectionCreate{
			JobOrderID: id,
			Reason:     reason,
			CreatedBy:  caller.EmployeeID,
		})
		return err
	}); err != nil {
		return joborder.Correction{}, err
	}

	logging.Info(s.scope(ctx), "correction requested", slog.String("ticket", created.TicketNumber), slog.Uint64("correction_id", created.ID))
	return created, nil
}

// ResolveCorrection approves or rejects a pending correction.
func (s *Service) ResolveCorrection(ctx context.Context, id uint64, status string) (joborder.Correction, error) {
	if err := checkContext(ctx); err != nil {
		return joborder.Correction{}, err
	}
	if s.corrections == nil || s.uow == nil {
		return joborder.Correction{}, errors.New("correction repository and unit of work are required")
	}

	next, err := joborder.ParseCorrectionStatus(status)
	if err != nil {
		return joborder.Correction{}, errs.Invalid("status", "%v", err)
	}
	if next == joborder.CorrectionPending {
		return joborder.Correction{}, errs.Invalid("status", "resolution must be approved or rejected")
	}

	var out joborder.Correction
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.corrections.Get(txCtx, id)
		if err != nil {
			return err
		}
		if !joborder.CanResolve(current.Status, next) {
			return joborder.ErrCorrectionResolved
		}
		if err := s.corrections.UpdateStatus(txCtx, id, next); err != nil {
			return err
		}
		out, err = s.corrections.Get(txCtx, id)
		return err
	}); err != nil {
		return joborder.Correction{}, err
	}

	logging.Info(s.scope(ctx), "correction resolved", slog.Uint64("correction_id", id), slog.String("status", string(next)))
	return out, nil
}
