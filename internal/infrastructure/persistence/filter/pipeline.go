// Package filter builds list queries from per-request criteria.
//
// A Stage narrows a query and returns it unexecuted. Stages with empty
// criteria return the query untouched, so a Pipeline can be assembled from
// every optional criterion without branching at the call site. Invalid
// criteria are attached to the query with AddError and surface when it runs.
package filter

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidCriteria = errors.New("invalid filter criteria")

type Stage func(*gorm.DB) *gorm.DB

type Pipeline []Stage

// Apply folds the stages over db in order.
func (p Pipeline) Apply(db *gorm.DB) *gorm.DB {
	for _, stage := range p {
		if stage == nil {
			continue
		}
		db = stage(db)
	}
	return db
}

func (p Pipeline) With(stages ...Stage) Pipeline {
	out := make(Pipeline, 0, len(p)+len(stages))
	out = append(out, p...)
	return append(out, stages...)
}

func Apply(db *gorm.DB, stages ...Stage) *gorm.DB {
	return Pipeline(stages).Apply(db)
}

func column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

func anyOf(conds []clause.Expression) clause.Expression {
	if len(conds) == 1 {
		return conds[0]
	}
	return clause.Or(conds...)
}

func fail(db *gorm.DB, err error) *gorm.DB {
	_ = db.AddError(err)
	return db
}
