package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobdesk/internal/errs"
	"jobdesk/internal/infrastructure/persistence/filter"
	"jobdesk/internal/ports"
)

type base struct {
	db  *gorm.DB
	loc *time.Location
}

// Option configures a repository.
type Option func(*base)

// WithLocation sets the zone calendar-day criteria are read in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(b *base) {
		if loc != nil {
			b.loc = loc
		}
	}
}

func newBase(db *gorm.DB, opts []Option) base {
	b := base{db: db, loc: time.UTC}
	for _, opt := range opts {
		if opt != nil {
			opt(&b)
		}
	}
	return b
}

func (b base) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if b.db == nil {
		return nil, errors.New("repository db is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return b.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

var newestFirst = []clause.OrderByColumn{
	{Column: clause.Column{Table: clause.CurrentTable, Name: "created_at"}, Desc: true},
	{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Desc: true},
}

// findPage applies the pipeline to two fresh queries: one counts every match,
// the other loads the requested page. defaultOrder is used only when no stage
// ordered the query; id always breaks ties.
func findPage[M any](db *gorm.DB, pipeline filter.Pipeline, page ports.Page, defaultOrder []clause.OrderByColumn) ([]M, int64, error) {
	var total int64
	countQuery := pipeline.Apply(db.Model(new(M)))
	countQuery.Statement.Preloads = map[string][]any{}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, errs.Wrap(err, "count rows")
	}

	page = page.Normalize()
	rows := make([]M, 0, page.Size)
	if total == 0 {
		return rows, 0, nil
	}

	findQuery := pipeline.Apply(db.Model(new(M)))
	if _, ordered := findQuery.Statement.Clauses["ORDER BY"]; !ordered {
		findQuery = findQuery.Order(clause.OrderBy{Columns: defaultOrder})
	}
	findQuery = findQuery.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Desc: true})
	if err := findQuery.Offset(page.Offset()).Limit(page.Size).Find(&rows).Error; err != nil {
		return nil, 0, errs.Wrap(err, "query rows")
	}
	return rows, total, nil
}

// preloadUnscoped eager-loads a relation including soft-deleted rows.
func preloadUnscoped(relation string) filter.Stage {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(relation, func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() })
	}
}

func deletedAt(v gorm.DeletedAt) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}
