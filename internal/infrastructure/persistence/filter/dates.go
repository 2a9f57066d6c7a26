package filter

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DayLayout = "2006-01-02"

// ParseDay returns the first and last instant of a calendar day in loc,
// expressed in UTC to match stored timestamps. A nil loc means UTC.
func ParseDay(raw string, loc *time.Location) (start time.Time, end time.Time, err error) {
	if loc == nil {
		loc = time.UTC
	}
	trimmed := strings.TrimSpace(raw)
	day, err := time.ParseInLocation(DayLayout, trimmed, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidCriteria, raw)
	}
	next := day.AddDate(0, 0, 1)
	return day.UTC(), next.Add(-time.Nanosecond).UTC(), nil
}

// ArchivedBetween restricts to rows soft-deleted within [from, to], inclusive
// of whole days in loc. Either bound may be empty.
func ArchivedBetween(from, to string, loc *time.Location) Stage {
	return func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(from) == "" && strings.TrimSpace(to) == "" {
			return db
		}
		return dayRange(db.Unscoped(), "deleted_at", from, to, loc)
	}
}

func CreatedBetween(from, to string, loc *time.Location) Stage {
	return func(db *gorm.DB) *gorm.DB {
		return dayRange(db, "created_at", from, to, loc)
	}
}

func dayRange(db *gorm.DB, name string, from, to string, loc *time.Location) *gorm.DB {
	if strings.TrimSpace(from) != "" {
		start, _, err := ParseDay(from, loc)
		if err != nil {
			return fail(db, err)
		}
		db = db.Where(clause.Gte{Column: column(name), Value: start})
	}
	if strings.TrimSpace(to) != "" {
		_, end, err := ParseDay(to, loc)
		if err != nil {
			return fail(db, err)
		}
		db = db.Where(clause.Lte{Column: column(name), Value: end})
	}
	return db
}
