package joborders

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/errs"
	"jobdesk/internal/infrastructure/persistence/model"
	"jobdesk/internal/infrastructure/persistence/repository"
	"jobdesk/internal/infrastructure/persistence/uow"
	"jobdesk/internal/ports"
)

var (
	ana = workforce.Caller{UserID: 1, EmployeeID: 1, Roles: []string{workforce.RoleRequester}}
	ben = workforce.Caller{UserID: 2, EmployeeID: 2, Roles: []string{workforce.RoleRequester}}
	dee = workforce.Caller{UserID: 3, EmployeeID: 3, Roles: []string{workforce.RoleAdmin}}
)

func setupService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "joborders.sqlite")), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	for _, e := range []model.Employee{
		{ID: 1, FirstName: "Ana", LastName: "Cruz"},
		{ID: 2, FirstName: "Ben", LastName: "Reyes"},
		{ID: 3, FirstName: "Dee", LastName: "Santos"},
	} {
		if err := db.Create(&e).Error; err != nil {
			t.Fatalf("create employee: %v", err)
		}
	}

	return NewService(
		repository.NewJobOrderRepository(db),
		repository.NewCorrectionRepository(db),
		uow.NewUnitOfWork(db),
		nil,
		[]string{workforce.RoleRequester},
	)
}

func mustCreate(t *testing.T, svc *Service, caller workforce.Caller, serviceType string) joborder.JobOrder {
	t.Helper()
	created, err := svc.CreateJobOrder(context.Background(), caller, CreateJobOrderInput{
		ServiceType: serviceType,
		Description: "  collect segregated waste  ",
		Location:    "Barangay 4",
	})
	if err != nil {
		t.Fatalf("CreateJobOrder() error = %v", err)
	}
	return created
}

func TestListJobOrdersScopesRestrictedCallers(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	mustCreate(t, svc, ana, "waste_management")
	mustCreate(t, svc, ben, "it_services")
	mustCreate(t, svc, ana, "other")

	mine, err := svc.ListJobOrders(ctx, &ana, ports.JobOrderFilter{}, ports.Page{})
	if err != nil {
		t.Fatalf("ListJobOrders(ana) error = %v", err)
	}
	if mine.Total != 2 {
		t.Fatalf("ListJobOrders(ana) total = %d, want 2", mine.Total)
	}

	all, err := svc.ListJobOrders(ctx, &dee, ports.JobOrderFilter{}, ports.Page{})
	if err != nil {
		t.Fatalf("ListJobOrders(dee) error = %v", err)
	}
	if all.Total != 3 {
		t.Fatalf("ListJobOrders(dee) total = %d, want 3", all.Total)
	}

	grouped := joborder.JobOrders(all.Items).GroupByServiceType()
	if len(grouped[joborder.ServiceITServices]) != 1 {
		t.Fatalf("grouped = %v", grouped)
	}

	_, err = svc.ListJobOrders(ctx, nil, ports.JobOrderFilter{Statuses: []string{"lost"}}, ports.Page{})
	if !errs.IsInvalid(err) {
		t.Fatalf("ListJobOrders(bad status) error = %v, want invalid input", err)
	}
}

func TestCreateJobOrderValidates(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created := mustCreate(t, svc, ana, "Waste_Management")
	if created.Status != joborder.StatusPending || created.Description != "collect segregated waste" {
		t.Fatalf("created = %+v", created)
	}
	if created.TicketNumber != "JO-00001" || created.CreatorName != "Ana Cruz" {
		t.Fatalf("created ticket=%q creator=%q", created.TicketNumber, created.CreatorName)
	}

	if _, err := svc.CreateJobOrder(ctx, ana, CreateJobOrderInput{ServiceType: "plumbing", Description: "x"}); !errs.IsInvalid(err) {
		t.Fatalf("CreateJobOrder(bad type) error = %v", err)
	}
	if _, err := svc.CreateJobOrder(ctx, workforce.Caller{}, CreateJobOrderInput{ServiceType: "other", Description: "x"}); !errs.IsInvalid(err) {
		t.Fatalf("CreateJobOrder(no employee) error = %v", err)
	}
}

func TestArchiveAndRestoreByTicket(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	created := mustCreate(t, svc, ana, "other")

	archived, err := svc.ArchiveJobOrder(ctx, created.TicketNumber)
	if err != nil {
		t.Fatalf("ArchiveJobOrder() error = %v", err)
	}
	if !archived.Archived() {
		t.Fatalf("ArchiveJobOrder() archived_at = nil")
	}

	if _, err := svc.RequestCorrection(ctx, ana, RequestCorrectionInput{Ticket: "jo-1", Reason: "typo"}); !errors.Is(err, joborder.ErrJobOrderArchived) {
		t.Fatalf("RequestCorrection(archived) error = %v", err)
	}

	restored, err := svc.RestoreJobOrder(ctx, "1")
	if err != nil {
		t.Fatalf("RestoreJobOrder() error = %v", err)
	}
	if restored.Archived() {
		t.Fatalf("RestoreJobOrder() still archived")
	}

	if _, err := svc.ArchiveJobOrder(ctx, "JO-00077"); !errors.Is(err, joborder.ErrJobOrderNotFound) {
		t.Fatalf("ArchiveJobOrder(missing) error = %v", err)
	}
	if _, err := svc.ArchiveJobOrder(ctx, "JO-ABC"); !errs.IsInvalid(err) {
		t.Fatalf("ArchiveJobOrder(bad ticket) error = %v", err)
	}
}

func TestCorrectionLifecycle(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	created := mustCreate(t, svc, ana, "other")

	first, err := svc.RequestCorrection(ctx, ana, RequestCorrectionInput{Ticket: created.TicketNumber, Reason: "wrong location"})
	if err != nil {
		t.Fatalf("RequestCorrection() error = %v", err)
	}
	if _, err := svc.RequestCorrection(ctx, ben, RequestCorrectionInput{Ticket: created.TicketNumber, Reason: "wrong service"}); err != nil {
		t.Fatalf("RequestCorrection(ben) error = %v", err)
	}

	latest, err := svc.ListCorrections(ctx, &dee, ports.CorrectionFilter{LatestOnly: true}, ports.Page{})
	if err != nil {
		t.Fatalf("ListCorrections() error = %v", err)
	}
	if latest.Total != 1 || latest.Items[0].Reason != "wrong service" {
		t.Fatalf("latest = %+v", latest.Items)
	}

	own, err := svc.ListCorrections(ctx, &ana, ports.CorrectionFilter{Search: "JO-00001"}, ports.Page{})
	if err != nil {
		t.Fatalf("ListCorrections(ana) error = %v", err)
	}
	if own.Total != 1 || own.Items[0].ID != first.ID {
		t.Fatalf("own = %+v", own.Items)
	}

	resolved, err := svc.ResolveCorrection(ctx, first.ID, "approved")
	if err != nil {
		t.Fatalf("ResolveCorrection() error = %v", err)
	}
	if resolved.Status != joborder.CorrectionApproved {
		t.Fatalf("resolved status = %q", resolved.Status)
	}
	if _, err := svc.ResolveCorrection(ctx, first.ID, "rejected"); !errors.Is(err, joborder.ErrCorrectionResolved) {
		t.Fatalf("ResolveCorrection(again) error = %v", err)
	}
	if _, err := svc.ResolveCorrection(ctx, first.ID, "pending"); !errs.IsInvalid(err) {
		t.Fatalf("ResolveCorrection(pending) error = %v", err)
	}
}

const presetsTOML = `
version = 1

[presets.open-waste]
description = "Open waste tickets"
service_types = ["waste_management"]
statuses = ["pending", "in_progress"]
sort_by = "created"
sort_desc = true
`

func TestPresetsMergeIntoFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	if err := os.WriteFile(path, []byte(presetsTOML), 0o644); err != nil {
		t.Fatalf("write presets: %v", err)
	}
	presets, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets() error = %v", err)
	}
	if names := presets.Names(); len(names) != 1 || names[0] != "open-waste" {
		t.Fatalf("Names() = %v", names)
	}

	svc := setupService(t).WithPresets(presets)
	mustCreate(t, svc, ana, "waste_management")
	mustCreate(t, svc, ana, "it_services")

	got, err := svc.ListWithPreset(context.Background(), &dee, "Open-Waste", ports.JobOrderFilter{}, ports.Page{})
	if err != nil {
		t.Fatalf("ListWithPreset() error = %v", err)
	}
	if got.Total != 1 || got.Items[0].ServiceType != joborder.ServiceWasteManagement {
		t.Fatalf("ListWithPreset() = %+v", got.Items)
	}

	merged, err := svc.ApplyPreset("open-waste", ports.JobOrderFilter{Statuses: []string{"completed"}})
	if err != nil {
		t.Fatalf("ApplyPreset() error = %v", err)
	}
	if len(merged.Statuses) != 1 || merged.Statuses[0] != "completed" || merged.Sort.Field != "created" {
		t.Fatalf("merged = %+v", merged)
	}

	if _, err := svc.ApplyPreset("nope", ports.JobOrderFilter{}); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("ApplyPreset(unknown) error = %v", err)
	}
}

func TestParsePresetsRejectsBadValues(t *testing.T) {
	if _, err := ParsePresets([]byte("version = 2\n")); err == nil {
		t.Fatalf("ParsePresets(version 2) expected error")
	}
	if _, err := ParsePresets([]byte("version = 1\n[presets.x]\nstatuses = [\"lost\"]\n")); !errors.Is(err, joborder.ErrUnknownStatus) {
		t.Fatalf("ParsePresets(bad status) error = %v", err)
	}
	presets, err := LoadPresets(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil || len(presets) != 0 {
		t.Fatalf("LoadPresets(missing) = %v, %v", presets, err)
	}
}

func TestWatchPresetsReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	if err := os.WriteFile(path, []byte(presetsTOML), 0o644); err != nil {
		t.Fatalf("write presets: %v", err)
	}
	presets, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets() error = %v", err)
	}
	svc := setupService(t).WithPresets(presets)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.WatchPresets(ctx, path); err != nil {
		t.Fatalf("WatchPresets() error = %v", err)
	}

	// A broken file keeps what was loaded.
	if err := os.WriteFile(path, []byte("version = 7\n"), 0o644); err != nil {
		t.Fatalf("write broken presets: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if _, ok := svc.Presets()["open-waste"]; !ok {
		t.Fatalf("Presets() after broken write = %v", svc.Presets().Names())
	}

	updated := presetsTOML + "\n[presets.it]\nservice_types = [\"it_services\"]\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("write updated presets: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, ok := svc.Presets()["it"]; ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Presets() never reloaded: %v", svc.Presets().Names())
		}
		time.Sleep(20 * time.Millisecond)
	}
}
