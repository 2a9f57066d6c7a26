package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"jobdesk/internal/domain/hauling"
	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/domain/workforce"
)

type JobOrderCreate struct {
	ServiceType joborder.ServiceType
	Status      joborder.Status
	Description string
	Location    string
	CreatedBy   uint64
}

type JobOrderRepository interface {
	List(ctx context.Context, filter JobOrderFilter, page Page) ([]joborder.JobOrder, int64, error)
	// Get includes archived job orders.
	Get(ctx context.Context, id uint64) (joborder.JobOrder, error)
	Create(ctx context.Context, input JobOrderCreate) (joborder.JobOrder, error)
	Archive(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type CorrectionCreate struct {
	JobOrderID uint64
	Reason     string
	CreatedBy  uint64
}

type CorrectionRepository interface {
	List(ctx context.Context, filter CorrectionFilter, page Page) ([]joborder.Correction, int64, error)
	Get(ctx context.Context, id uint64) (joborder.Correction, error)
	Create(ctx context.Context, input CorrectionCreate) (joborder.Correction, error)
	UpdateStatus(ctx context.Context, id uint64, status joborder.CorrectionStatus) error
}

type EmployeeRepository interface {
	List(ctx context.Context, filter EmployeeFilter, page Page) ([]workforce.Employee, int64, error)
	Archive(ctx context.Context, id uint64) error
}

type UserRepository interface {
	List(ctx context.Context, filter UserFilter, page Page) ([]workforce.User, int64, error)
}

type TruckRepository interface {
	List(ctx context.Context, filter TruckFilter, page Page) ([]workforce.Truck, int64, error)
}

type HaulingRecordCreate struct {
	Form3ID    uint64
	TruckID    *uint64
	Date       string
	Status     string
	WeightTons decimal.Decimal
}

type HaulingRepository interface {
	CreateForm4(ctx context.Context, jobOrderID uint64) (uint64, error)
	CreateForm3(ctx context.Context, form4ID uint64) (uint64, error)
	Create(ctx context.Context, input HaulingRecordCreate) (hauling.Record, error)
	// GetWithChain resolves Form3 -> Form4 -> JobOrder for a record.
	GetWithChain(ctx context.Context, id uint64) (hauling.Record, error)
	// ForEachOverdueBatch walks records matching the window in primary-key
	// order, batchSize at a time. Returning an error from fn stops the walk.
	ForEachOverdueBatch(ctx context.Context, window hauling.OverdueWindow, batchSize int, fn func(ctx context.Context, batch []hauling.Record) error) error
	// MarkDone reports whether the record changed.
	MarkDone(ctx context.Context, id uint64) (bool, error)
}

type IncidentRepository interface {
	Create(ctx context.Context, incident hauling.Incident) (hauling.Incident, error)
	List(ctx context.Context, filter IncidentFilter, page Page) ([]hauling.Incident, int64, error)
	MarkRead(ctx context.Context, id uint64) error
}

type SeedPosition struct {
	Name string
}

type SeedUser struct {
	Name   string
	Email  string
	Roles  []string
	Active bool
}

type SeedEmployee struct {
	FirstName     string
	MiddleName    string
	LastName      string
	Email         string
	ContactNumber string
	Position      string
	UserEmail     string
	Archived      bool
}

type SeedTruck struct {
	PlateNumber  string
	Model        string
	CapacityTons decimal.Decimal
}

// SeedRepository upserts reference data by natural key and returns row ids.
type SeedRepository interface {
	UpsertPosition(ctx context.Context, input SeedPosition) (uint64, error)
	UpsertUser(ctx context.Context, input SeedUser) (uint64, error)
	UpsertEmployee(ctx context.Context, input SeedEmployee) (uint64, error)
	UpsertTruck(ctx context.Context, input SeedTruck) (uint64, error)
}
