package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobdesk/internal/domain/hauling"
	"jobdesk/internal/errs"
	"jobdesk/internal/infrastructure/persistence/filter"
	"jobdesk/internal/infrastructure/persistence/model"
	"jobdesk/internal/ports"
)

type HaulingRepository struct {
	base
}

var _ ports.HaulingRepository = (*HaulingRepository)(nil)

func NewHaulingRepository(db *gorm.DB, opts ...Option) *HaulingRepository {
	return &HaulingRepository{base: newBase(db, opts)}
}

func (r *HaulingRepository) CreateForm4(ctx context.Context, jobOrderID uint64) (uint64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	row := model.Form4{JobOrderID: jobOrderID}
	if err := db.Create(&row).Error; err != nil {
		return 0, errs.Wrapf(err, "create form4 for job order %d", jobOrderID)
	}
	return row.ID, nil
}

func (r *HaulingRepository) CreateForm3(ctx context.Context, form4ID uint64) (uint64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	row := model.Form3{Form4ID: form4ID}
	if err := db.Create(&row).Error; err != nil {
		return 0, errs.Wrapf(err, "create form3 for form4 %d", form4ID)
	}
	return row.ID, nil
}

func (r *HaulingRepository) Create(ctx context.Context, input ports.HaulingRecordCreate) (hauling.Record, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return hauling.Record{}, err
	}

	var form3 model.Form3
	if err := db.Select("id").Where("id = ?", input.Form3ID).Take(&form3).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return hauling.Record{}, hauling.ErrForm3NotFound
		}
		return hauling.Record{}, errs.Wrapf(err, "check form3 %d", input.Form3ID)
	}

	row := model.HaulingRecord{
		Form3ID:    input.Form3ID,
		TruckID:    input.TruckID,
		Date:       input.Date,
		Status:     input.Status,
		WeightTons: input.WeightTons,
	}
	if err := db.Create(&row).Error; err != nil {
		return hauling.Record{}, errs.Wrap(err, "create hauling record")
	}
	return mapHaulingRecord(row), nil
}

func (r *HaulingRepository) GetWithChain(ctx context.Context, id uint64) (hauling.Record, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return hauling.Record{}, err
	}

	var row model.HaulingRecord
	if err := db.Preload("Form3.Form4").Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return hauling.Record{}, hauling.ErrRecordNotFound
		}
		return hauling.Record{}, errs.Wrapf(err, "get hauling record %d", id)
	}
	if row.Form3 == nil || row.Form3.Form4 == nil {
		return hauling.Record{}, errs.Wrapf(hauling.ErrForm3NotFound, "resolve chain of hauling record %d", id)
	}
	return mapHaulingRecord(row), nil
}

func (r *HaulingRepository) ForEachOverdueBatch(ctx context.Context, window hauling.OverdueWindow, batchSize int, fn func(ctx context.Context, batch []hauling.Record) error) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}
	if fn == nil {
		return errors.New("batch callback is required")
	}
	if batchSize < 1 {
		batchSize = 100
	}

	date := clause.Column{Table: clause.CurrentTable, Name: "date"}
	status := clause.Column{Table: clause.CurrentTable, Name: "status"}

	var rows []model.HaulingRecord
	result := db.Model(&model.HaulingRecord{}).
		Where(clause.Gte{Column: date, Value: window.YearStart}).
		Where(clause.Lt{Column: date, Value: window.Today}).
		Where(clause.Neq{Column: status, Value: hauling.StatusDone}).
		FindInBatches(&rows, batchSize, func(_ *gorm.DB, _ int) error {
			batch := make([]hauling.Record, 0, len(rows))
			for _, row := range rows {
				batch = append(batch, mapHaulingRecord(row))
			}
			return fn(ctx, batch)
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "walk overdue hauling records")
	}
	return nil
}

func (r *HaulingRepository) MarkDone(ctx context.Context, id uint64) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	result := db.Model(&model.HaulingRecord{}).
		Where("id = ? AND status <> ?", id, hauling.StatusDone).
		Update("status", hauling.StatusDone)
	if result.Error != nil {
		return false, errs.Wrapf(result.Error, "mark hauling record %d done", id)
	}
	return result.RowsAffected > 0, nil
}

func mapHaulingRecord(row model.HaulingRecord) hauling.Record {
	out := hauling.Record{
		ID:         row.ID,
		Form3ID:    row.Form3ID,
		TruckID:    row.TruckID,
		Date:       row.Date,
		Status:     row.Status,
		WeightTons: row.WeightTons,
		CreatedAt:  row.CreatedAt.UTC(),
	}
	if row.Form3 != nil {
		out.Form4ID = row.Form3.Form4ID
		if row.Form3.Form4 != nil {
			out.JobOrderID = row.Form3.Form4.JobOrderID
		}
	}
	return out
}

type IncidentRepository struct {
	base
}

var _ ports.IncidentRepository = (*IncidentRepository)(nil)

func NewIncidentRepository(db *gorm.DB, opts ...Option) *IncidentRepository {
	return &IncidentRepository{base: newBase(db, opts)}
}

func incidentPipeline(f ports.IncidentFilter, loc *time.Location) filter.Pipeline {
	return filter.Pipeline{
		filter.StatusIn(f.Statuses),
		filter.ReferenceIn("job_order_id", f.JobOrderIDs),
		filter.ReferenceIn("hauling_record_id", f.HaulingRecordIDs),
		filter.CreatedBetween(f.Created.From, f.Created.To, loc),
		filter.UnreadOnly(f.UnreadOnly),
	}
}

func (r *IncidentRepository) Create(ctx context.Context, incident hauling.Incident) (hauling.Incident, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return hauling.Incident{}, err
	}

	row := model.Incident{
		HaulingRecordID: incident.HaulingRecordID,
		JobOrderID:      incident.JobOrderID,
		Subject:         incident.Subject,
		Location:        incident.Location,
		InfractionType:  incident.InfractionType,
		OccurredAt:      incident.OccurredAt.UTC(),
		Description:     incident.Description,
		Status:          incident.Status,
		IsRead:          incident.IsRead,
		Context:         incident.Context,
	}
	if err := db.Create(&row).Error; err != nil {
		return hauling.Incident{}, errs.Wrapf(err, "create incident for hauling record %d", incident.HaulingRecordID)
	}
	return mapIncident(row), nil
}

func (r *IncidentRepository) List(ctx context.Context, f ports.IncidentFilter, page ports.Page) ([]hauling.Incident, int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, total, err := findPage[model.Incident](db, incidentPipeline(f, r.loc), page, newestFirst)
	if err != nil {
		return nil, 0, errs.Wrap(err, "list incidents")
	}

	items := make([]hauling.Incident, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapIncident(row))
	}
	return items, total, nil
}

func (r *IncidentRepository) MarkRead(ctx context.Context, id uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Incident{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return errs.Wrapf(result.Error, "mark incident %d read", id)
	}
	if result.RowsAffected == 0 {
		return hauling.ErrIncidentNotFound
	}
	return nil
}

func mapIncident(row model.Incident) hauling.Incident {
	return hauling.Incident{
		ID:              row.ID,
		HaulingRecordID: row.HaulingRecordID,
		JobOrderID:      row.JobOrderID,
		Subject:         row.Subject,
		Location:        row.Location,
		InfractionType:  row.InfractionType,
		OccurredAt:      row.OccurredAt.UTC(),
		Description:     row.Description,
		Status:          row.Status,
		IsRead:          row.IsRead,
		Context:         map[string]any(row.Context),
		CreatedAt:       row.CreatedAt.UTC(),
	}
}
