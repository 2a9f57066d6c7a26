package hauling

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"jobdesk/internal/bootstrap/logging"
	domain "jobdesk/internal/domain/hauling"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

type CreateRecordInput struct {
	Form3ID    uint64
	TruckID    *uint64
	Date       string
	Status     string
	WeightTons string
}

// CreateHaulingRecord stores a hauling record in its own transaction and then
// runs the observers. An observer failure is returned alongside the stored
// record; the record itself stays committed.
func (s *Service) CreateHaulingRecord(ctx context.Context, input CreateRecordInput) (domain.Record, error) {
	if err := checkContext(ctx); err != nil {
		return domain.Record{}, err
	}
	if s.records == nil || s.uow == nil {
		return domain.Record{}, errors.New("hauling repository and unit of work are required")
	}
	if input.Form3ID == 0 {
		return domain.Record{}, errs.Invalid("form3_id", "form3 id is required")
	}

	date, err := domain.ParseDate(input.Date)
	if err != nil {
		return domain.Record{}, errs.Invalid("date", "%v", err)
	}
	status := domain.StatusPending
	if strings.TrimSpace(input.Status) != "" {
		if status, err = domain.ParseStatus(input.Status); err != nil {
			return domain.Record{}, errs.Invalid("status", "%v", err)
		}
	}
	weight := decimal.Zero
	if raw := strings.TrimSpace(input.WeightTons); raw != "" {
		if weight, err = decimal.NewFromString(raw); err != nil || weight.IsNegative() {
			return domain.Record{}, errs.Invalid("weight_tons", "weight must be a non-negative number, got %q", raw)
		}
	}

	var record domain.Record
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		created, err := s.records.Create(txCtx, ports.HaulingRecordCreate{
			Form3ID:    input.Form3ID,
			TruckID:    input.TruckID,
			Date:       date,
			Status:     status,
			WeightTons: weight,
		})
		if err != nil {
			return err
		}
		record, err = s.records.GetWithChain(txCtx, created.ID)
		return err
	}); err != nil {
		return domain.Record{}, err
	}

	logCtx := logging.WithAttrs(s.logCtx(ctx), slog.Uint64("hauling_record_id", record.ID))
	logging.Info(logCtx, "hauling record created", slog.String("date", record.Date), slog.String("status", record.Status))

	for _, observer := range s.observers {
		if err := observer.HaulingRecordCreated(logCtx, record); err != nil {
			logging.Error(logCtx, "hauling record observer failed", slog.Any("err", errs.Loggable(err)))
			return record, errs.Wrapf(err, "observe hauling record %d", record.ID)
		}
	}
	return record, nil
}
