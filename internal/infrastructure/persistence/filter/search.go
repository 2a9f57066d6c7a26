package filter

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobdesk/internal/domain/joborder"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern lowercases term and escapes LIKE wildcards.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func like(col clause.Column, pattern string) clause.Expression {
	return clause.Expr{SQL: `LOWER(?) LIKE ? ESCAPE '\'`, Vars: []any{col, pattern}}
}

func nameLike(first, middle, last clause.Column, pattern string) []clause.Expression {
	return []clause.Expression{
		like(first, pattern),
		like(middle, pattern),
		like(last, pattern),
		clause.Expr{SQL: `LOWER(? || ' ' || ?) LIKE ? ESCAPE '\'`, Vars: []any{first, last, pattern}},
		clause.Expr{SQL: `LOWER(? || ' ' || ? || ' ' || ?) LIKE ? ESCAPE '\'`, Vars: []any{first, middle, last, pattern}},
	}
}

const employeeNameMatch = `SELECT employees.id FROM employees WHERE LOWER(employees.first_name) LIKE ? ESCAPE '\'` +
	` OR LOWER(employees.last_name) LIKE ? ESCAPE '\'` +
	` OR LOWER(employees.first_name || ' ' || employees.last_name) LIKE ? ESCAPE '\'`

func creatorNameLike(pattern string) clause.Expression {
	return clause.Expr{
		SQL:  "? IN (" + employeeNameMatch + ")",
		Vars: []any{column("created_by"), pattern, pattern, pattern},
	}
}

// ticketMatch turns "JO-00042" into id = 42 and bare digits into a partial
// match on the id.
func ticketMatch(idColumn clause.Column, term string) (clause.Expression, bool) {
	digits, exact, ok := joborder.TicketSearchDigits(term)
	if !ok {
		return nil, false
	}
	if exact {
		id, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			return nil, false
		}
		return clause.Eq{Column: idColumn, Value: id}, true
	}
	return clause.Expr{SQL: "CAST(? AS TEXT) LIKE ?", Vars: []any{idColumn, "%" + digits + "%"}}, true
}

func EmployeeSearch(term string) Stage {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		pattern := containsPattern(term)
		conds := []clause.Expression{
			like(column("email"), pattern),
			like(column("contact_number"), pattern),
		}
		conds = append(conds, nameLike(column("first_name"), column("middle_name"), column("last_name"), pattern)...)
		conds = append(conds, clause.Expr{
			SQL:  `? IN (SELECT positions.id FROM positions WHERE LOWER(positions.name) LIKE ? ESCAPE '\')`,
			Vars: []any{column("position_id"), pattern},
		})
		return db.Where(clause.Or(conds...))
	}
}

func UserSearch(term string) Stage {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		pattern := containsPattern(term)
		return db.Where(clause.Or(
			like(column("email"), pattern),
			like(column("name"), pattern),
			clause.Expr{
				SQL:  `? IN (SELECT employees.user_id FROM employees WHERE employees.user_id IS NOT NULL AND LOWER(employees.contact_number) LIKE ? ESCAPE '\')`,
				Vars: []any{column("id"), pattern},
			},
			clause.Expr{
				SQL: `? IN (SELECT employees.user_id FROM employees JOIN positions ON positions.id = employees.position_id` +
					` WHERE employees.user_id IS NOT NULL AND LOWER(positions.name) LIKE ? ESCAPE '\')`,
				Vars: []any{column("id"), pattern},
			},
		))
	}
}

func CorrectionSearch(term string) Stage {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		pattern := containsPattern(term)
		conds := []clause.Expression{creatorNameLike(pattern)}
		if match, ok := ticketMatch(column("job_order_id"), term); ok {
			conds = append(conds, match)
		}
		conds = append(conds, like(column("reason"), pattern))
		return db.Where(clause.Or(conds...))
	}
}

func JobOrderSearch(term string) Stage {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		pattern := containsPattern(term)
		conds := []clause.Expression{creatorNameLike(pattern)}
		if match, ok := ticketMatch(column("id"), term); ok {
			conds = append(conds, match)
		}
		conds = append(conds, like(column("description"), pattern), like(column("location"), pattern))
		return db.Where(clause.Or(conds...))
	}
}

func TruckSearch(term string) Stage {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		pattern := containsPattern(term)
		return db.Where(clause.Or(like(column("plate_number"), pattern), like(column("model"), pattern)))
	}
}
