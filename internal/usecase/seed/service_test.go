package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"jobdesk/internal/errs"
	"jobdesk/internal/infrastructure/cache"
	"jobdesk/internal/infrastructure/persistence/model"
	"jobdesk/internal/infrastructure/persistence/repository"
	"jobdesk/internal/infrastructure/persistence/uow"
	haulinguc "jobdesk/internal/usecase/hauling"
)

const sampleDataset = `
positions: [Dispatcher, Driver]
users:
  - name: Ana Cruz
    email: ana@example.com
    roles: [admin]
  - name: Ben Reyes
    email: ben@example.com
    roles: [requester]
    active: false
employees:
  - first_name: Ana
    last_name: Cruz
    position: Dispatcher
    user_email: ana@example.com
  - first_name: Ben
    last_name: Reyes
    position: Driver
    user_email: ben@example.com
trucks:
  - plate_number: abc 123
    model: Isuzu Giga
    capacity_tons: "12.5"
job_orders:
  - service_type: waste_management
    description: Weekly haul
    location: Pier 4
    created_by: Ana Cruz
    hauling:
      - date: "2024-03-05"
        truck: ABC 123
        weight_tons: "3.2"
      - date: "2024-03-06"
        weight_tons: "1.0"
  - service_type: it_services
    status: in_progress
    description: Replace switch
    created_by: ben reyes
`

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "seed.sqlite")), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	unit := uow.NewUnitOfWork(db)
	records := repository.NewHaulingRepository(db)
	hauling := haulinguc.NewService(records, repository.NewIncidentRepository(db), unit, cache.NewKVCache(db), nil, time.UTC)
	return NewService(repository.NewSeedRepository(db), repository.NewJobOrderRepository(db), records, hauling, unit), db
}

func TestApplyIsRepeatable(t *testing.T) {
	svc, db := newService(t)
	ds, err := ParseDataset([]byte(sampleDataset))
	if err != nil {
		t.Fatalf("ParseDataset() error = %v", err)
	}

	ctx := context.Background()
	first, err := svc.Apply(ctx, ds)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if first.Employees != 2 || first.Trucks != 1 || first.JobOrders != 2 || first.HaulingRecords != 2 {
		t.Fatalf("first summary = %+v", first)
	}

	second, err := svc.Apply(ctx, ds)
	if err != nil {
		t.Fatalf("Apply() second run error = %v", err)
	}
	if second.JobOrders != 0 || second.HaulingRecords != 0 {
		t.Fatalf("second summary = %+v, want no new job orders", second)
	}

	counts := map[string]int64{}
	for name, m := range map[string]any{
		"employees": &model.Employee{},
		"users":     &model.User{},
		"jobs":      &model.JobOrder{},
		"records":   &model.HaulingRecord{},
		"incidents": &model.Incident{},
		"trucks":    &model.Truck{},
	} {
		var n int64
		if err := db.Unscoped().Model(m).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		counts[name] = n
	}
	want := map[string]int64{"employees": 2, "users": 2, "jobs": 2, "records": 2, "incidents": 2, "trucks": 1}
	for name, n := range want {
		if counts[name] != n {
			t.Fatalf("%s = %d, want %d", name, counts[name], n)
		}
	}

	var truck model.Truck
	if err := db.First(&truck).Error; err != nil {
		t.Fatalf("load truck: %v", err)
	}
	if truck.PlateNumber != "ABC 123" || truck.CapacityTons.String() != "12.5" {
		t.Fatalf("truck = %+v", truck)
	}

	var deactivated int64
	if err := db.Unscoped().Model(&model.User{}).Where("deleted_at IS NOT NULL").Count(&deactivated).Error; err != nil {
		t.Fatalf("count deactivated: %v", err)
	}
	if deactivated != 1 {
		t.Fatalf("deactivated users = %d, want 1", deactivated)
	}
}

func TestApplyRejectsUnknownCreator(t *testing.T) {
	svc, _ := newService(t)
	ds := Dataset{JobOrders: []JobOrderEntry{{ServiceType: "other", CreatedBy: "Nobody"}}}

	_, err := svc.Apply(context.Background(), ds)
	if !errs.IsInvalid(err) {
		t.Fatalf("Apply() error = %v, want invalid input", err)
	}
}

func TestParseDatasetRejectsBadYAML(t *testing.T) {
	if _, err := ParseDataset([]byte("positions: [unterminated")); err == nil {
		t.Fatalf("ParseDataset() error = nil, want decode failure")
	}
}
