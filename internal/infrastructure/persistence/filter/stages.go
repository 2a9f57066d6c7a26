package filter

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/domain/workforce"
)

func PositionIn(ids []uint64) Stage {
	return ReferenceIn("position_id", ids)
}

// AccountStatusIn matches employees by the state of their linked user:
// no_account (no user), active (user present) or deactivated (user
// soft-deleted). Statuses are OR'ed.
func AccountStatusIn(statuses []string) Stage {
	return func(db *gorm.DB) *gorm.DB {
		seen := make(map[workforce.AccountStatus]struct{}, len(statuses))
		conds := make([]clause.Expression, 0, len(statuses))
		for _, raw := range statuses {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			status, err := workforce.ParseAccountStatus(raw)
			if err != nil {
				return fail(db, fmt.Errorf("%w: %v", ErrInvalidCriteria, err))
			}
			if _, ok := seen[status]; ok {
				continue
			}
			seen[status] = struct{}{}

			switch status {
			case workforce.AccountNone:
				conds = append(conds, clause.Expr{SQL: "? IS NULL", Vars: []any{column("user_id")}})
			case workforce.AccountActive:
				conds = append(conds, clause.Expr{
					SQL:  "EXISTS (SELECT 1 FROM users WHERE users.id = ? AND users.deleted_at IS NULL)",
					Vars: []any{column("user_id")},
				})
			case workforce.AccountDeactivated:
				conds = append(conds, clause.Expr{
					SQL:  "EXISTS (SELECT 1 FROM users WHERE users.id = ? AND users.deleted_at IS NOT NULL)",
					Vars: []any{column("user_id")},
				})
			}
		}
		if len(conds) == 0 {
			return db
		}
		return db.Where(anyOf(conds))
	}
}

// RoleIn always preloads Roles, with or without names.
func RoleIn(names []string) Stage {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Preload("Roles")
		roles := normalizedStrings(names, strings.ToLower)
		if len(roles) == 0 {
			return db
		}
		return db.Where(clause.Expr{
			SQL:  "? IN (SELECT user_roles.user_id FROM user_roles JOIN roles ON roles.id = user_roles.role_id WHERE roles.name IN ?)",
			Vars: []any{column("id"), roles},
		})
	}
}

// OnlyMine narrows to rows created by the caller when the caller holds any of
// the restricted roles. Everyone else sees all rows.
func OnlyMine(caller *workforce.Caller, restrictedRoles []string, creatorColumn string) Stage {
	return func(db *gorm.DB) *gorm.DB {
		if caller == nil || !caller.HasAnyRole(restrictedRoles) {
			return db
		}
		if strings.TrimSpace(creatorColumn) == "" {
			creatorColumn = "created_by"
		}
		return db.Where(clause.Eq{Column: column(creatorColumn), Value: caller.EmployeeID})
	}
}

func OnlyArchived() Stage {
	return func(db *gorm.DB) *gorm.DB {
		return db.Unscoped().Where(clause.Expr{SQL: "? IS NOT NULL", Vars: []any{column("deleted_at")}})
	}
}

func StatusIn(values []string) Stage {
	return func(db *gorm.DB) *gorm.DB {
		kept := normalizedStrings(values, nil)
		if len(kept) == 0 {
			return db
		}
		return db.Where(clause.IN{Column: column("status"), Values: stringValues(kept)})
	}
}

func CreatorIn(ids []uint64) Stage {
	return ReferenceIn("created_by", ids)
}

func ServiceTypeIn(types []string) Stage {
	return func(db *gorm.DB) *gorm.DB {
		kept := make([]any, 0, len(types))
		for _, raw := range normalizedStrings(types, nil) {
			serviceType, err := joborder.ParseServiceType(raw)
			if err != nil {
				return fail(db, fmt.Errorf("%w: %v", ErrInvalidCriteria, err))
			}
			kept = append(kept, string(serviceType))
		}
		if len(kept) == 0 {
			return db
		}
		return db.Where(clause.IN{Column: column("service_type"), Values: kept})
	}
}

func UnreadOnly(on bool) Stage {
	return func(db *gorm.DB) *gorm.DB {
		if !on {
			return db
		}
		return db.Where(clause.Eq{Column: column("is_read"), Value: false})
	}
}

// SortBy orders by a whitelisted field. allowed maps public field names to
// columns of the current table.
func SortBy(field string, desc bool, allowed map[string]string) Stage {
	return func(db *gorm.DB) *gorm.DB {
		field = strings.ToLower(strings.TrimSpace(field))
		if field == "" {
			return db
		}
		name, ok := allowed[field]
		if !ok {
			return fail(db, fmt.Errorf("%w: cannot sort by %q", ErrInvalidCriteria, field))
		}
		return db.Order(clause.OrderByColumn{Column: column(name), Desc: desc})
	}
}

func normalizedStrings(values []string, transform func(string) string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if transform != nil {
			v = transform(v)
		}
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func uintValues(ids []uint64) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, id)
	}
	return out
}

func stringValues(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// ReferenceIn matches rows whose foreign key column is in ids.
func ReferenceIn(name string, ids []uint64) Stage {
	return func(db *gorm.DB) *gorm.DB {
		if len(ids) == 0 {
			return db
		}
		return db.Where(clause.IN{Column: column(name), Values: uintValues(ids)})
	}
}
