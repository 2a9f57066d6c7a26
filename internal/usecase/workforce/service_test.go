package workforce

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	domain "jobdesk/internal/domain/workforce"
	"jobdesk/internal/errs"
	"jobdesk/internal/infrastructure/persistence/model"
	"jobdesk/internal/infrastructure/persistence/repository"
	"jobdesk/internal/ports"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "workforce.sqlite")), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	seed := repository.NewSeedRepository(db)
	ctx := context.Background()
	if _, err := seed.UpsertUser(ctx, ports.SeedUser{Name: "Ana Cruz", Email: "ana@example.com", Roles: []string{"dispatcher"}, Active: true}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	for _, e := range []ports.SeedEmployee{
		{FirstName: "Ana", LastName: "Cruz", Position: "Dispatcher", UserEmail: "ana@example.com"},
		{FirstName: "Jose", LastName: "Rizal", Position: "Driver"},
		{FirstName: "Lea", LastName: "Salonga"},
	} {
		if _, err := seed.UpsertEmployee(ctx, e); err != nil {
			t.Fatalf("seed employee: %v", err)
		}
	}

	svc := NewService(
		repository.NewEmployeeRepository(db),
		repository.NewUserRepository(db),
		repository.NewTruckRepository(db),
		nil,
	)
	return svc, db
}

func TestListEmployeesGroupsAndPartitions(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if err := svc.ArchiveEmployee(ctx, 3); err != nil {
		t.Fatalf("ArchiveEmployee() error = %v", err)
	}

	all, err := svc.ListEmployees(ctx, ports.EmployeeFilter{}, ports.Page{})
	if err != nil {
		t.Fatalf("ListEmployees() error = %v", err)
	}
	if all.Total != 2 {
		t.Fatalf("ListEmployees() total = %d, want 2", all.Total)
	}
	groups := domain.Employees(all.Items).GroupByPosition()
	if len(groups["Dispatcher"]) != 1 || len(groups["Driver"]) != 1 {
		t.Fatalf("groups = %v", groups)
	}

	archived, err := svc.ListEmployees(ctx, ports.EmployeeFilter{OnlyArchived: true}, ports.Page{})
	if err != nil {
		t.Fatalf("ListEmployees(archived) error = %v", err)
	}
	active, gone := domain.Employees(archived.Items).Partition()
	if len(active) != 0 || len(gone) != 1 || gone[0].LastName != "Salonga" {
		t.Fatalf("partition = %v / %v", active, gone)
	}

	if err := svc.ArchiveEmployee(ctx, 3); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Fatalf("ArchiveEmployee(again) error = %v", err)
	}
}

func TestListEmployeesValidatesAccountStatus(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.ListEmployees(context.Background(), ports.EmployeeFilter{AccountStatuses: []string{"banned"}}, ports.Page{})
	if !errs.IsInvalid(err) {
		t.Fatalf("ListEmployees() error = %v, want invalid input", err)
	}

	got, err := svc.ListEmployees(context.Background(), ports.EmployeeFilter{AccountStatuses: []string{"Active"}}, ports.Page{})
	if err != nil {
		t.Fatalf("ListEmployees(active) error = %v", err)
	}
	if got.Total != 1 || got.Items[0].AccountStatus != domain.AccountActive {
		t.Fatalf("ListEmployees(active) = %+v", got.Items)
	}
}

func TestListUsersAndTrucks(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	users, err := svc.ListUsers(ctx, ports.UserFilter{Search: "dispatcher"}, ports.Page{})
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if users.Total != 1 || users.Items[0].Email != "ana@example.com" {
		t.Fatalf("ListUsers() = %+v", users.Items)
	}
	grouped := domain.Users(users.Items).GroupByRole()
	if len(grouped["dispatcher"]) != 1 {
		t.Fatalf("GroupByRole() = %v", grouped)
	}

	if err := db.Create(&model.Truck{PlateNumber: "NBC 1234", Model: "Hino"}).Error; err != nil {
		t.Fatalf("create truck: %v", err)
	}
	trucks, err := svc.ListTrucks(ctx, ports.TruckFilter{Search: "nbc"}, ports.Page{})
	if err != nil {
		t.Fatalf("ListTrucks() error = %v", err)
	}
	if trucks.Total != 1 || trucks.Items[0].Model != "Hino" {
		t.Fatalf("ListTrucks() = %+v", trucks.Items)
	}
}
