package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/errs"
	"jobdesk/internal/infrastructure/persistence/filter"
	"jobdesk/internal/infrastructure/persistence/model"
	"jobdesk/internal/ports"
)

type CorrectionRepository struct {
	base
}

var _ ports.CorrectionRepository = (*CorrectionRepository)(nil)

func NewCorrectionRepository(db *gorm.DB, opts ...Option) *CorrectionRepository {
	return &CorrectionRepository{base: newBase(db, opts)}
}

func correctionPipeline(f ports.CorrectionFilter, loc *time.Location) filter.Pipeline {
	p := filter.Pipeline{
		filter.OnlyMine(f.Caller, f.RestrictedRoles, "created_by"),
		filter.CorrectionSearch(f.Search),
		filter.StatusIn(f.Statuses),
		filter.CreatorIn(f.CreatorIDs),
		filter.ReferenceIn("job_order_id", f.JobOrderIDs),
		filter.CreatedBetween(f.Created.From, f.Created.To, loc),
		preloadUnscoped("Creator"),
	}
	if f.LatestOnly {
		p = p.With(filter.LatestPerParent("job_order_id"))
	}
	return p
}

func (r *CorrectionRepository) List(ctx context.Context, f ports.CorrectionFilter, page ports.Page) ([]joborder.Correction, int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, total, err := findPage[model.JobOrderCorrection](db, correctionPipeline(f, r.loc), page, newestFirst)
	if err != nil {
		return nil, 0, errs.Wrap(err, "list job order corrections")
	}

	items := make([]joborder.Correction, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapCorrection(row))
	}
	return items, total, nil
}

func (r *CorrectionRepository) Get(ctx context.Context, id uint64) (joborder.Correction, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return joborder.Correction{}, err
	}

	var row model.JobOrderCorrection
	if err := preloadUnscoped("Creator")(db).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return joborder.Correction{}, joborder.ErrCorrectionNotFound
		}
		return joborder.Correction{}, errs.Wrapf(err, "get correction %d", id)
	}
	return mapCorrection(row), nil
}

func (r *CorrectionRepository) Create(ctx context.Context, input ports.CorrectionCreate) (joborder.Correction, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return joborder.Correction{}, err
	}

	row := model.JobOrderCorrection{
		JobOrderID: input.JobOrderID,
		Status:     string(joborder.CorrectionPending),
		Reason:     input.Reason,
		CreatedBy:  input.CreatedBy,
	}
	if err := db.Create(&row).Error; err != nil {
		return joborder.Correction{}, errs.Wrap(err, "create correction")
	}
	return r.Get(ctx, row.ID)
}

func (r *CorrectionRepository) UpdateStatus(ctx context.Context, id uint64, status joborder.CorrectionStatus) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.JobOrderCorrection{}).Where("id = ?", id).Update("status", string(status))
	if result.Error != nil {
		return errs.Wrapf(result.Error, "update correction %d status", id)
	}
	if result.RowsAffected == 0 {
		return joborder.ErrCorrectionNotFound
	}
	return nil
}

func mapCorrection(row model.JobOrderCorrection) joborder.Correction {
	out := joborder.Correction{
		ID:           row.ID,
		JobOrderID:   row.JobOrderID,
		TicketNumber: joborder.FormatTicketNumber(row.JobOrderID),
		Status:       joborder.CorrectionStatus(row.Status),
		Reason:       row.Reason,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if row.Creator != nil {
		out.CreatorName = workforce.JoinName(row.Creator.FirstName, row.Creator.LastName)
	}
	return out
}
