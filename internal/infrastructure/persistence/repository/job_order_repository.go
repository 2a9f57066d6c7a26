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

var jobOrderSortFields = map[string]string{
	"created":      "created_at",
	"updated":      "updated_at",
	"status":       "status",
	"service_type": "service_type",
	"ticket":       "id",
}

type JobOrderRepository struct {
	base
}

var _ ports.JobOrderRepository = (*JobOrderRepository)(nil)

func NewJobOrderRepository(db *gorm.DB, opts ...Option) *JobOrderRepository {
	return &JobOrderRepository{base: newBase(db, opts)}
}

func jobOrderPipeline(f ports.JobOrderFilter, loc *time.Location) filter.Pipeline {
	p := filter.Pipeline{
		filter.OnlyMine(f.Caller, f.RestrictedRoles, "created_by"),
		filter.JobOrderSearch(f.Search),
		filter.ServiceTypeIn(f.ServiceTypes),
		filter.StatusIn(f.Statuses),
		filter.CreatorIn(f.CreatorIDs),
		filter.CreatedBetween(f.Created.From, f.Created.To, loc),
		filter.ArchivedBetween(f.Archived.From, f.Archived.To, loc),
		filter.SortBy(f.Sort.Field, f.Sort.Desc, jobOrderSortFields),
		preloadUnscoped("Creator"),
	}
	if f.OnlyArchived {
		p = p.With(filter.OnlyArchived())
	}
	return p
}

func (r *JobOrderRepository) List(ctx context.Context, f ports.JobOrderFilter, page ports.Page) ([]joborder.JobOrder, int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, total, err := findPage[model.JobOrder](db, jobOrderPipeline(f, r.loc), page, newestFirst)
	if err != nil {
		return nil, 0, errs.Wrap(err, "list job orders")
	}

	items := make([]joborder.JobOrder, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapJobOrder(row))
	}
	return items, total, nil
}

func (r *JobOrderRepository) Get(ctx context.Context, id uint64) (joborder.JobOrder, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return joborder.JobOrder{}, err
	}

	var row model.JobOrder
	err = preloadUnscoped("Creator")(db.Unscoped()).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return joborder.JobOrder{}, joborder.ErrJobOrderNotFound
		}
		return joborder.JobOrder{}, errs.Wrapf(err, "get job order %d", id)
	}
	return mapJobOrder(row), nil
}

func (r *JobOrderRepository) Create(ctx context.Context, input ports.JobOrderCreate) (joborder.JobOrder, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return joborder.JobOrder{}, err
	}

	row := model.JobOrder{
		ServiceType: string(input.ServiceType),
		Status:      string(input.Status),
		Description: input.Description,
		Location:    input.Location,
		CreatedBy:   input.CreatedBy,
	}
	if err := db.Create(&row).Error; err != nil {
		return joborder.JobOrder{}, errs.Wrap(err, "create job order")
	}
	return r.Get(ctx, row.ID)
}

func (r *JobOrderRepository) Archive(ctx context.Context, id uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(&model.JobOrder{})
	if result.Error != nil {
		return errs.Wrapf(result.Error, "archive job order %d", id)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return joborder.ErrJobOrderArchived
}

func (r *JobOrderRepository) Restore(ctx context.Context, id uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Unscoped().Model(&model.JobOrder{}).Where("id = ?", id).Update("deleted_at", nil)
	if result.Error != nil {
		return errs.Wrapf(result.Error, "restore job order %d", id)
	}
	if result.RowsAffected == 0 {
		return joborder.ErrJobOrderNotFound
	}
	return nil
}

func mapJobOrder(row model.JobOrder) joborder.JobOrder {
	out := joborder.JobOrder{
		ID:           row.ID,
		TicketNumber: joborder.FormatTicketNumber(row.ID),
		ServiceType:  joborder.ServiceType(row.ServiceType),
		Status:       joborder.Status(row.Status),
		Description:  row.Description,
		Location:     row.Location,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
		ArchivedAt:   deletedAt(row.DeletedAt),
	}
	if row.Creator != nil {
		out.CreatorName = workforce.JoinName(row.Creator.FirstName, row.Creator.LastName)
	}
	return out
}
