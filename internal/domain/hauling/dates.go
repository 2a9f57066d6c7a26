package hauling

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate validates a hauling date and returns it normalized to DateLayout.
func ParseDate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	day, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return day.Format(DateLayout), nil
}

func ParseStatus(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	for _, known := range []string{StatusPending, StatusInTransit, StatusDone} {
		if strings.EqualFold(trimmed, known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// ParseIncidentStatus accepts any case and surrounding space.
func ParseIncidentStatus(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	for _, known := range []string{IncidentDraft, IncidentSubmitted} {
		if strings.EqualFold(trimmed, known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIncidentStatus, raw)
}

// OverdueWindow is the auto-completion predicate as a half-open date range:
// records dated on or after yearStart and strictly before today, in today's
// location.
type OverdueWindow struct {
	YearStart string
	Today     string
}

func NewOverdueWindow(now time.Time) OverdueWindow {
	return OverdueWindow{
		YearStart: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()).Format(DateLayout),
		Today:     now.Format(DateLayout),
	}
}

// Matches applies the window to a single record in memory.
func (w OverdueWindow) Matches(r Record) bool {
	return !r.Done() && r.Date >= w.YearStart && r.Date < w.Today
}
