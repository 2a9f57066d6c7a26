package workforce

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"jobdesk/internal/bootstrap/logging"
	domain "jobdesk/internal/domain/workforce"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

// Service lists the workforce directory: employees, user accounts and trucks.
type Service struct {
	employees ports.EmployeeRepository
	users     ports.UserRepository
	trucks    ports.TruckRepository
	metrics   ports.Metrics
}

func NewService(employees ports.EmployeeRepository, users ports.UserRepository, trucks ports.TruckRepository, metrics ports.Metrics) *Service {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Service{employees: employees, users: users, trucks: trucks, metrics: metrics}
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

func (s *Service) ListEmployees(ctx context.Context, filter ports.EmployeeFilter, page ports.Page) (ports.PageResult[domain.Employee], error) {
	if err := checkContext(ctx); err != nil {
		return ports.PageResult[domain.Employee]{}, err
	}
	if s.employees == nil {
		return ports.PageResult[domain.Employee]{}, errors.New("employee repository is required")
	}

	statuses := make([]string, 0, len(filter.AccountStatuses))
	for _, raw := range filter.AccountStatuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		status, err := domain.ParseAccountStatus(raw)
		if err != nil {
			return ports.PageResult[domain.Employee]{}, errs.Invalid("account_status", "%v", err)
		}
		statuses = append(statuses, string(status))
	}
	filter.AccountStatuses = statuses

	page = page.Normalize()
	started := time.Now()
	items, total, err := s.employees.List(ctx, filter, page)
	s.metrics.ObserveListQuery("employees", time.Since(started))
	if err != nil {
		return ports.PageResult[domain.Employee]{}, errs.Wrap(err, "list employees")
	}
	return ports.PageResult[domain.Employee]{Items: items, Total: total, Page: page}, nil
}

func (s *Service) ArchiveEmployee(ctx context.Context, id uint64) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if s.employees == nil {
		return errors.New("employee repository is required")
	}
	if id == 0 {
		return errs.Invalid("id", "employee id is required")
	}

	if err := s.employees.Archive(ctx, id); err != nil {
		return err
	}
	logging.Info(logging.WithAttrs(ctx, slog.String("component", "workforce")), "employee archived", slog.Uint64("employee_id", id))
	return nil
}

func (s *Service) ListUsers(ctx context.Context, filter ports.UserFilter, page ports.Page) (ports.PageResult[domain.User], error) {
	if err := checkContext(ctx); err != nil {
		return ports.PageResult[domain.User]{}, err
	}
	if s.users == nil {
		return ports.PageResult[domain.User]{}, errors.New("user repository is required")
	}

	page = page.Normalize()
	started := time.Now()
	items, total, err := s.users.List(ctx, filter, page)
	s.metrics.ObserveListQuery("users", time.Since(started))
	if err != nil {
		return ports.PageResult[domain.User]{}, errs.Wrap(err, "list users")
	}
	return ports.PageResult[domain.User]{Items: items, Total: total, Page: page}, nil
}

func (s *Service) ListTrucks(ctx context.Context, filter ports.TruckFilter, page ports.Page) (ports.PageResult[domain.Truck], error) {
	if err := checkContext(ctx); err != nil {
		return ports.PageResult[domain.Truck]{}, err
	}
	if s.trucks == nil {
		return ports.PageResult[domain.Truck]{}, errors.New("truck repository is required")
	}

	page = page.Normalize()
	started := time.Now()
	items, total, err := s.trucks.List(ctx, filter, page)
	s.metrics.ObserveListQuery("trucks", time.Since(started))
	if err != nil {
		return ports.PageResult[domain.Truck]{}, errs.Wrap(err, "list trucks")
	}
	return ports.PageResult[domain.Truck]{Items: items, Total: total, Page: page}, nil
}
