package filter

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LatestPerParent keeps one row per parentColumn value: the newest by
// created_at, ties going to the higher id. Results are ordered newest first.
func LatestPerParent(parentColumn string) Stage {
	return func(db *gorm.DB) *gorm.DB {
		parent := strings.TrimSpace(parentColumn)
		if parent == "" {
			return fail(db, fmt.Errorf("%w: parent column is required", ErrInvalidCriteria))
		}

		newer := func(name string) clause.Column { return clause.Column{Table: "newer", Name: name} }
		return db.Where(clause.Expr{
			SQL: "NOT EXISTS (SELECT 1 FROM ? WHERE ? = ? AND (? > ? OR (? = ? AND ? > ?)))",
			Vars: []any{
				clause.Table{Name: clause.CurrentTable, Alias: "newer"},
				newer(parent), column(parent),
				newer("created_at"), column("created_at"),
				newer("created_at"), column("created_at"),
				newer("id"), column("id"),
			},
		}).Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: column("created_at"), Desc: true},
			{Column: column("id"), Desc: true},
		}})
	}
}
