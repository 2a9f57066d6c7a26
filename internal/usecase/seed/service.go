package seed

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
	haulinguc "jobdesk/internal/usecase/hauling"
)

type Service struct {
	repo    ports.SeedRepository
	jobs    ports.JobOrderRepository
	forms   ports.HaulingRepository
	hauling *haulinguc.Service
	uow     ports.UnitOfWork
}

func NewService(repo ports.SeedRepository, jobs ports.JobOrderRepository, forms ports.HaulingRepository, hauling *haulinguc.Service, uow ports.UnitOfWork) *Service {
	return &Service{repo: repo, jobs: jobs, forms: forms, hauling: hauling, uow: uow}
}

type Summary struct {
	Positions      int
	Users          int
	Employees      int
	Trucks         int
	JobOrders      int
	HaulingRecords int
}

// Apply upserts reference data in one transaction. Job orders and their
// hauling records are only created when no job order exists yet, so a
// dataset can be applied repeatedly.
func (s *Service) Apply(ctx context.Context, ds Dataset) (Summary, error) {
	if ctx == nil {
		return Summary{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil || s.uow == nil {
		return Summary{}, errors.New("seed repository and unit of work are required")
	}

	var summary Summary
	employees := map[string]uint64{}
	trucks := map[string]uint64{}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		for _, name := range ds.Positions {
			if _, err := s.repo.UpsertPosition(txCtx, ports.SeedPosition{Name: name}); err != nil {
				return err
			}
			summary.Positions++
		}
		for _, u := range ds.Users {
			active := u.Active == nil || *u.Active
			if _, err := s.repo.UpsertUser(txCtx, ports.SeedUser{Name: u.Name, Email: u.Email, Roles: u.Roles, Active: active}); err != nil {
				return err
			}
			summary.Users++
		}
		for _, e := range ds.Employees {
			id, err := s.repo.UpsertEmployee(txCtx, ports.SeedEmployee{
				FirstName:     e.FirstName,
				MiddleName:    e.MiddleName,
				LastName:      e.LastName,
				Email:         e.Email,
				ContactNumber: e.ContactNumber,
				Position:      e.Position,
				UserEmail:     e.UserEmail,
				Archived:      e.Archived,
			})
			if err != nil {
				return err
			}
			employees[nameKey(workforce.JoinName(e.FirstName, e.LastName))] = id
			summary.Employees++
		}
		for _, tr := range ds.Trucks {
			capacity := decimal.Zero
			if raw := strings.TrimSpace(tr.CapacityTons); raw != "" {
				var err error
				if capacity, err = decimal.NewFromString(raw); err != nil {
					return errs.Invalid("capacity_tons", "truck %s capacity %q is not a number", tr.PlateNumber, raw)
				}
			}
			id, err := s.repo.UpsertTruck(txCtx, ports.SeedTruck{PlateNumber: tr.PlateNumber, Model: tr.Model, CapacityTons: capacity})
			if err != nil {
				return err
			}
			trucks[plateKey(tr.PlateNumber)] = id
			summary.Trucks++
		}
		return nil
	}); err != nil {
		return Summary{}, errs.Wrap(err, "apply reference data")
	}

	if err := s.applyJobOrders(ctx, ds.JobOrders, employees, trucks, &summary); err != nil {
		return summary, err
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "seed")), "dataset applied",
		slog.Int("users", summary.Users),
		slog.Int("employees", summary.Employees),
		slog.Int("trucks", summary.Trucks),
		slog.Int("job_orders", summary.JobOrders),
		slog.Int("hauling_records", summary.HaulingRecords),
	)
	return summary, nil
}

func (s *Service) applyJobOrders(ctx context.Context, entries []JobOrderEntry, employees map[string]uint64, trucks map[string]uint64, summary *Summary) error {
	if len(entries) == 0 {
		return nil
	}
	if s.jobs == nil || s.forms == nil || s.hauling == nil {
		return errors.New("job order and hauling dependencies are required to seed job orders")
	}

	_, existing, err := s.jobs.List(ctx, ports.JobOrderFilter{}, ports.Page{Size: 1})
	if err != nil {
		return errs.Wrap(err, "check existing job orders")
	}
	if existing > 0 {
		return nil
	}

	for i, entry := range entries {
		creator, ok := employees[nameKey(entry.CreatedBy)]
		if !ok {
			return errs.Invalid("created_by", "job_orders[%d]: unknown employee %q", i, entry.CreatedBy)
		}
		serviceType, err := joborder.ParseServiceType(entry.ServiceType)
		if err != nil {
			return errs.Invalid("service_type", "job_orders[%d]: %v", i, err)
		}
		status := joborder.StatusPending
		if strings.TrimSpace(entry.Status) != "" {
			if status, err = joborder.ParseStatus(entry.Status); err != nil {
				return errs.Invalid("status", "job_orders[%d]: %v", i, err)
			}
		}

		var form3ID uint64
		if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
			job, err := s.jobs.Create(txCtx, ports.JobOrderCreate{
				ServiceType: serviceType,
				Status:      status,
				Description: entry.Description,
				Location:    entry.Location,
				CreatedBy:   creator,
			})
			if err != nil {
				return err
			}
			if len(entry.Hauling) == 0 {
				return nil
			}
			form4ID, err := s.forms.CreateForm4(txCtx, job.ID)
			if err != nil {
				return err
			}
			form3ID, err = s.forms.CreateForm3(txCtx, form4ID)
			return err
		}); err != nil {
			return errs.Wrapf(err, "seed job order %d", i)
		}
		summary.JobOrders++

		for j, h := range entry.Hauling {
			input := haulinguc.CreateRecordInput{Form3ID: form3ID, Date: h.Date, Status: h.Status, WeightTons: h.WeightTons}
			if plate := plateKey(h.Truck); plate != "" {
				id, ok := trucks[plate]
				if !ok {
					return errs.Invalid("truck", "job_orders[%d].hauling[%d]: unknown truck %q", i, j, h.Truck)
				}
				input.TruckID = &id
			}
			if _, err := s.hauling.CreateHaulingRecord(ctx, input); err != nil {
				return errs.Wrapf(err, "seed hauling record %d of job order %d", j, i)
			}
			summary.HaulingRecords++
		}
	}
	return nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func plateKey(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
