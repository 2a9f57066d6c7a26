package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"jobdesk/internal/errs"
	"jobdesk/internal/infrastructure/persistence/model"
	"jobdesk/internal/ports"
)

// SeedRepository loads reference data. Every upsert is keyed on a natural
// key so a dataset can be applied repeatedly.
type SeedRepository struct {
	base
}

var _ ports.SeedRepository = (*SeedRepository)(nil)

func NewSeedRepository(db *gorm.DB, opts ...Option) *SeedRepository {
	return &SeedRepository{base: newBase(db, opts)}
}

func (r *SeedRepository) UpsertPosition(ctx context.Context, input ports.SeedPosition) (uint64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return upsertPosition(db, input.Name)
}

func upsertPosition(db *gorm.DB, name string) (uint64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errs.Invalid("position", "name is required")
	}
	row := model.Position{Name: name}
	if err := db.Where(model.Position{Name: name}).FirstOrCreate(&row).Error; err != nil {
		return 0, errs.Wrapf(err, "upsert position %q", name)
	}
	return row.ID, nil
}

func (r *SeedRepository) UpsertUser(ctx context.Context, input ports.SeedUser) (uint64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return 0, errs.Invalid("email", "user email is required")
	}

	var row model.User
	err = db.Unscoped().Where("email = ?", email).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = model.User{Name: strings.TrimSpace(input.Name), Email: email}
		if err := db.Create(&row).Error; err != nil {
			return 0, errs.Wrapf(err, "create user %q", email)
		}
	case err != nil:
		return 0, errs.Wrapf(err, "query user %q", email)
	default:
		if err := db.Unscoped().Model(&row).Update("name", strings.TrimSpace(input.Name)).Error; err != nil {
			return 0, errs.Wrapf(err, "update user %q", email)
		}
	}

	roles := make([]model.Role, 0, len(input.Roles))
	for _, name := range input.Roles {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		role := model.Role{Name: name}
		if err := db.Where(model.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return 0, errs.Wrapf(err, "upsert role %q", name)
		}
		roles = append(roles, role)
	}
	if err := db.Model(&row).Association("Roles").Replace(roles); err != nil {
		return 0, errs.Wrapf(err, "replace roles of user %q", email)
	}

	if err := setDeleted(db, &model.User{}, row.ID, !input.Active); err != nil {
		return 0, errs.Wrapf(err, "set user %q activity", email)
	}
	return row.ID, nil
}

func (r *SeedRepository) UpsertEmployee(ctx context.Context, input ports.SeedEmployee) (uint64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	if first == "" || last == "" {
		return 0, errs.Invalid("name", "employee first and last name are required")
	}

	row := model.Employee{
		FirstName:     first,
		MiddleName:    strings.TrimSpace(input.MiddleName),
		LastName:      last,
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		ContactNumber: strings.TrimSpace(input.ContactNumber),
	}

	if position := strings.TrimSpace(input.Position); position != "" {
		id, err := upsertPosition(db, position)
		if err != nil {
			return 0, err
		}
		row.PositionID = &id
	}
	if email := strings.ToLower(strings.TrimSpace(input.UserEmail)); email != "" {
		var user model.User
		if err := db.Unscoped().Select("id").Where("email = ?", email).Take(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, errs.Invalid("user_email", "no user with email %q", email)
			}
			return 0, errs.Wrapf(err, "query user %q", email)
		}
		row.UserID = &user.ID
	}

	var existing model.Employee
	err = db.Unscoped().Where("first_name = ? AND last_name = ?", first, last).Take(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(&row).Error; err != nil {
			return 0, errs.Wrapf(err, "create employee %s %s", first, last)
		}
	case err != nil:
		return 0, errs.Wrapf(err, "query employee %s %s", first, last)
	default:
		row.ID = existing.ID
		updates := map[string]any{
			"middle_name":    row.MiddleName,
			"email":          row.Email,
			"contact_number": row.ContactNumber,
			"position_id":    row.PositionID,
			"user_id":        row.UserID,
		}
		if err := db.Unscoped().Model(&model.Employee{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
			return 0, errs.Wrapf(err, "update employee %d", row.ID)
		}
	}

	if err := setDeleted(db, &model.Employee{}, row.ID, input.Archived); err != nil {
		return 0, errs.Wrapf(err, "set employee %d archival", row.ID)
	}
	return row.ID, nil
}

func (r *SeedRepository) UpsertTruck(ctx context.Context, input ports.SeedTruck) (uint64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	plate := strings.ToUpper(strings.TrimSpace(input.PlateNumber))
	if plate == "" {
		return 0, errs.Invalid("plate_number", "truck plate number is required")
	}

	row := model.Truck{PlateNumber: plate}
	if err := db.Unscoped().Where(model.Truck{PlateNumber: plate}).
		Assign(map[string]any{"model": strings.TrimSpace(input.Model), "capacity_tons": input.CapacityTons}).
		FirstOrCreate(&row).Error; err != nil {
		return 0, errs.Wrapf(err, "upsert truck %q", plate)
	}
	return row.ID, nil
}

// setDeleted soft-deletes or restores a row so it matches the wanted state.
func setDeleted(db *gorm.DB, value any, id uint64, deleted bool) error {
	if deleted {
		return db.Where("id = ?", id).Delete(value).Error
	}
	return db.Unscoped().Model(value).Where("id = ? AND deleted_at IS NOT NULL", id).Update("deleted_at", nil).Error
}
