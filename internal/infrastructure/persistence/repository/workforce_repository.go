package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/errs"
	"jobdesk/internal/infrastructure/persistence/filter"
	"jobdesk/internal/infrastructure/persistence/model"
	"jobdesk/internal/ports"
)

var byLastName = []clause.OrderByColumn{
	{Column: clause.Column{Table: clause.CurrentTable, Name: "last_name"}},
	{Column: clause.Column{Table: clause.CurrentTable, Name: "first_name"}},
}

type EmployeeRepository struct {
	base
}

var _ ports.EmployeeRepository = (*EmployeeRepository)(nil)

func NewEmployeeRepository(db *gorm.DB, opts ...Option) *EmployeeRepository {
	return &EmployeeRepository{base: newBase(db, opts)}
}

func (r *EmployeeRepository) List(ctx context.Context, f ports.EmployeeFilter, page ports.Page) ([]workforce.Employee, int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	pipeline := filter.Pipeline{
		filter.EmployeeSearch(f.Search),
		filter.PositionIn(f.PositionIDs),
		filter.AccountStatusIn(f.AccountStatuses),
		filter.CreatedBetween(f.Created.From, f.Created.To, r.loc),
		filter.ArchivedBetween(f.Archived.From, f.Archived.To, r.loc),
		preloadUnscoped("Position"),
		preloadUnscoped("User"),
	}
	if f.OnlyArchived {
		pipeline = pipeline.With(filter.OnlyArchived())
	}

	rows, total, err := findPage[model.Employee](db, pipeline, page, byLastName)
	if err != nil {
		return nil, 0, errs.Wrap(err, "list employees")
	}

	items := make([]workforce.Employee, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapEmployee(row))
	}
	return items, total, nil
}

func (r *EmployeeRepository) Archive(ctx context.Context, id uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(&model.Employee{})
	if result.Error != nil {
		return errs.Wrapf(result.Error, "archive employee %d", id)
	}
	if result.RowsAffected == 0 {
		return workforce.ErrEmployeeNotFound
	}
	return nil
}

func mapEmployee(row model.Employee) workforce.Employee {
	out := workforce.Employee{
		ID:            row.ID,
		UserID:        row.UserID,
		PositionID:    row.PositionID,
		FirstName:     row.FirstName,
		MiddleName:    row.MiddleName,
		LastName:      row.LastName,
		Email:         row.Email,
		ContactNumber: row.ContactNumber,
		AccountStatus: workforce.AccountNone,
		CreatedAt:     row.CreatedAt.UTC(),
		ArchivedAt:    deletedAt(row.DeletedAt),
	}
	if row.Position != nil {
		out.PositionName = row.Position.Name
	}
	switch {
	case row.UserID == nil:
	case row.User != nil && row.User.DeletedAt.Valid:
		out.AccountStatus = workforce.AccountDeactivated
	default:
		out.AccountStatus = workforce.AccountActive
	}
	return out
}

type UserRepository struct {
	base
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB, opts ...Option) *UserRepository {
	return &UserRepository{base: newBase(db, opts)}
}

func (r *UserRepository) List(ctx context.Context, f ports.UserFilter, page ports.Page) ([]workforce.User, int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	pipeline := filter.Pipeline{
		filter.UserSearch(f.Search),
		filter.RoleIn(f.Roles),
		filter.CreatedBetween(f.Created.From, f.Created.To, r.loc),
		filter.ArchivedBetween(f.Deactivated.From, f.Deactivated.To, r.loc),
	}
	if f.OnlyDeactivated {
		pipeline = pipeline.With(filter.OnlyArchived())
	}

	rows, total, err := findPage[model.User](db, pipeline, page, []clause.OrderByColumn{
		{Column: clause.Column{Table: clause.CurrentTable, Name: "name"}},
	})
	if err != nil {
		return nil, 0, errs.Wrap(err, "list users")
	}

	employeeByUser, err := r.employeeIDs(db, rows)
	if err != nil {
		return nil, 0, err
	}

	items := make([]workforce.User, 0, len(rows))
	for _, row := range rows {
		item := mapUser(row)
		if id, ok := employeeByUser[row.ID]; ok {
			item.EmployeeID = &id
		}
		items = append(items, item)
	}
	return items, total, nil
}

func (r *UserRepository) employeeIDs(db *gorm.DB, users []model.User) (map[uint64]uint64, error) {
	out := make(map[uint64]uint64, len(users))
	if len(users) == 0 {
		return out, nil
	}

	ids := make([]uint64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	var links []model.Employee
	if err := db.Unscoped().Select("id", "user_id").Where("user_id IN ?", ids).Find(&links).Error; err != nil {
		return nil, errs.Wrap(err, "query employees by user")
	}
	for _, link := range links {
		if link.UserID != nil {
			out[*link.UserID] = link.ID
		}
	}
	return out, nil
}

func mapUser(row model.User) workforce.User {
	roles := make([]string, 0, len(row.Roles))
	for _, role := range row.Roles {
		roles = append(roles, role.Name)
	}
	return workforce.User{
		ID:            row.ID,
		Name:          row.Name,
		Email:         row.Email,
		Roles:         roles,
		CreatedAt:     row.CreatedAt.UTC(),
		DeactivatedAt: deletedAt(row.DeletedAt),
	}
}

type TruckRepository struct {
	base
}

var _ ports.TruckRepository = (*TruckRepository)(nil)

func NewTruckRepository(db *gorm.DB, opts ...Option) *TruckRepository {
	return &TruckRepository{base: newBase(db, opts)}
}

func (r *TruckRepository) List(ctx context.Context, f ports.TruckFilter, page ports.Page) ([]workforce.Truck, int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	pipeline := filter.Pipeline{
		filter.TruckSearch(f.Search),
		filter.ArchivedBetween(f.Archived.From, f.Archived.To, r.loc),
	}
	if f.OnlyArchived {
		pipeline = pipeline.With(filter.OnlyArchived())
	}

	rows, total, err := findPage[model.Truck](db, pipeline, page, []clause.OrderByColumn{
		{Column: clause.Column{Table: clause.CurrentTable, Name: "plate_number"}},
	})
	if err != nil {
		return nil, 0, errs.Wrap(err, "list trucks")
	}

	items := make([]workforce.Truck, 0, len(rows))
	for _, row := range rows {
		items = append(items, workforce.Truck{
			ID:           row.ID,
			PlateNumber:  row.PlateNumber,
			Model:        row.Model,
			CapacityTons: row.CapacityTons,
			CreatedAt:    row.CreatedAt.UTC(),
			ArchivedAt:   deletedAt(row.DeletedAt),
		})
	}
	return items, total, nil
}
