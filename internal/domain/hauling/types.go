package hauling

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "Pending"
	StatusInTransit = "In Transit"
	StatusDone      = "Done"
)

const (
	IncidentDraft     = "Draft"
	IncidentSubmitted = "Submitted"
)

// Record is a scheduled hauling event. Date is a calendar day in DateLayout.
type Record struct {
	ID         uint64
	Form3ID    uint64
	Form4ID    uint64
	JobOrderID uint64
	TruckID    *uint64
	Date       string
	Status     string
	WeightTons decimal.Decimal
	CreatedAt  time.Time
}

func (r Record) Done() bool { return r.Status == StatusDone }

type Incident struct {
	ID              uint64
	HaulingRecordID uint64
	JobOrderID      uint64
	Subject         string
	Location        string
	InfractionType  string
	OccurredAt      time.Time
	Description     string
	Status          string
	IsRead          bool
	Context         map[string]any
	CreatedAt       time.Time
}
