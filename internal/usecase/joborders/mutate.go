package joborders

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

type CreateJobOrderInput struct {
	ServiceType string
	Description string
	Location    string
}

// CreateJobOrder files a pending job order on behalf of caller's employee.
func (s *Service) CreateJobOrder(ctx context.Context, caller workforce.Caller, input CreateJobOrderInput) (joborder.JobOrder, error) {
	if err := checkContext(ctx); err != nil {
		return joborder.JobOrder{}, err
	}
	if s.jobs == nil {
		return joborder.JobOrder{}, errors.New("job order repository is required")
	}
	if caller.EmployeeID == 0 {
		return joborder.JobOrder{}, errs.Invalid("created_by", "caller has no employee profile")
	}

	serviceType, err := joborder.ParseServiceType(input.ServiceType)
	if err != nil {
		return joborder.JobOrder{}, errs.Invalid("service_type", "%v", err)
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return joborder.JobOrder{}, errs.Invalid("description", "description is required")
	}

	created, err := s.jobs.Create(ctx, ports.JobOrderCreate{
		ServiceType: serviceType,
		Status:      joborder.StatusPending,
		Description: description,
		Location:    strings.TrimSpace(input.Location),
		CreatedBy:   caller.EmployeeID,
	})
	if err != nil {
		return joborder.JobOrder{}, errs.Wrap(err, "create job order")
	}

	logging.Info(s.scope(ctx), "job order created", slog.String("ticket", created.TicketNumber), slog.Uint64("created_by", created.CreatedBy))
	return created, nil
}

// ArchiveJobOrder soft-deletes a job order by ticket number or bare id.
func (s *Service) ArchiveJobOrder(ctx context.Context, ticket string) (joborder.JobOrder, error) {
	return s.toggleArchive(ctx, ticket, true)
}

func (s *Service) RestoreJobOrder(ctx context.Context, ticket string) (joborder.JobOrder, error) {
	return s.toggleArchive(ctx, ticket, false)
}

func (s *Service) toggleArchive(ctx context.Context, ticket string, archive bool) (joborder.JobOrder, error) {
	if err := checkContext(ctx); err != nil {
		return joborder.JobOrder{}, err
	}
	if s.jobs == nil || s.uow == nil {
		return joborder.JobOrder{}, errors.New("job order repository and unit of work are required")
	}

	id, err := joborder.ParseTicketNumber(ticket)
	if err != nil {
		return joborder.JobOrder{}, errs.Invalid("ticket", "%v", err)
	}

	var out joborder.JobOrder
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if archive {
			if err := s.jobs.Archive(txCtx, id); err != nil {
				return err
			}
		} else if err := s.jobs.Restore(txCtx, id); err != nil {
			return err
		}
		out, err = s.jobs.Get(txCtx, id)
		return err
	}); err != nil {
		return joborder.JobOrder{}, err
	}

	action := "job order restored"
	if archive {
		action = "job order archived"
	}
	logging.Info(s.scope(ctx), action, slog.String("ticket", out.TicketNumber))
	return out, nil
}
