package filter

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/infrastructure/persistence/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "filter.sqlite")), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	return db
}

func TestEmptyCriteriaLeaveQueryUnchanged(t *testing.T) {
	db := openTestDB(t)
	admin := &workforce.Caller{EmployeeID: 3, Roles: []string{"admin"}}

	cases := map[string]Stage{
		"archived between":  ArchivedBetween("", "", nil),
		"created between":   CreatedBetween(" ", "", nil),
		"position in":       PositionIn(nil),
		"account status in": AccountStatusIn([]string{}),
		"employee search":   EmployeeSearch("  "),
		"user search":       UserSearch(""),
		"correction search": CorrectionSearch(""),
		"job order search":  JobOrderSearch(""),
		"truck search":      TruckSearch(""),
		"only mine (nil)":   OnlyMine(nil, []string{"requester"}, "created_by"),
		"only mine (admin)": OnlyMine(admin, []string{"requester"}, "created_by"),
		"status in":         StatusIn([]string{"", " "}),
		"creator in":        CreatorIn(nil),
		"service type in":   ServiceTypeIn(nil),
		"unread only":       UnreadOnly(false),
		"sort by":           SortBy("", true, map[string]string{"created": "created_at"}),
		"nil pipeline":      Pipeline{nil}.Apply,
	}

	for name, stage := range cases {
		t.Run(name, func(t *testing.T) {
			base := db.Model(&model.Employee{})
			got := stage(db.Model(&model.Employee{}))

			if got.Error != nil {
				t.Fatalf("stage error = %v", got.Error)
			}
			if !reflect.DeepEqual(got.Statement.Clauses, base.Statement.Clauses) {
				t.Fatalf("clauses = %#v, want %#v", got.Statement.Clauses, base.Statement.Clauses)
			}
			if got.Statement.Unscoped {
				t.Fatalf("stage unscoped the query")
			}
		})
	}
}

func TestRoleInAlwaysPreloadsRoles(t *testing.T) {
	db := openTestDB(t)

	for _, names := range [][]string{nil, {"admin"}} {
		got := RoleIn(names)(db.Model(&model.User{}))
		if _, ok := got.Statement.Preloads["Roles"]; !ok {
			t.Fatalf("RoleIn(%v) preloads = %v, want Roles", names, got.Statement.Preloads)
		}
	}
}

func TestRoleInMatchesUsersByRoleName(t *testing.T) {
	db := openTestDB(t)

	admin := model.Role{Name: "admin"}
	requester := model.Role{Name: "requester"}
	mustCreate(t, db, &admin, &requester)
	mustCreate(t, db,
		&model.User{Name: "Ana", Email: "ana@example.com", Roles: []model.Role{admin}},
		&model.User{Name: "Ben", Email: "ben@example.com", Roles: []model.Role{requester}},
	)

	var users []model.User
	if err := Apply(db.Model(&model.User{}), RoleIn([]string{" Admin "})).Find(&users).Error; err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(users) != 1 || users[0].Email != "ana@example.com" {
		t.Fatalf("users = %+v, want only ana", users)
	}
	if len(users[0].Roles) != 1 || users[0].Roles[0].Name != "admin" {
		t.Fatalf("roles = %+v, want preloaded admin", users[0].Roles)
	}
}

func TestAccountStatusActiveOrDeactivatedExcludesNoAccount(t *testing.T) {
	db := openTestDB(t)

	active := model.User{Name: "Active", Email: "active@example.com"}
	gone := model.User{Name: "Gone", Email: "gone@example.com"}
	mustCreate(t, db, &active, &gone)
	if err := db.Delete(&gone).Error; err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	mustCreate(t, db,
		&model.Employee{FirstName: "No", LastName: "Account"},
		&model.Employee{FirstName: "Has", LastName: "Active", UserID: &active.ID},
		&model.Employee{FirstName: "Was", LastName: "Deactivated", UserID: &gone.ID},
	)

	var rows []model.Employee
	query := Apply(db.Model(&model.Employee{}), AccountStatusIn([]string{"active", "deactivated", "active"}))
	if err := query.Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got := lastNames(rows); !reflect.DeepEqual(got, []string{"Active", "Deactivated"}) {
		t.Fatalf("employees = %v, want [Active Deactivated]", got)
	}

	rows = nil
	if err := Apply(db.Model(&model.Employee{}), AccountStatusIn([]string{"no_account"})).Find(&rows).Error; err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got := lastNames(rows); !reflect.DeepEqual(got, []string{"Account"}) {
		t.Fatalf("employees = %v, want [Account]", got)
	}
}

func TestAccountStatusUnknownFailsQuery(t *testing.T) {
	db := openTestDB(t)

	var rows []model.Employee
	err := Apply(db.Model(&model.Employee{}), AccountStatusIn([]string{"suspended"})).Find(&rows).Error
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("Find() error = %v, want ErrInvalidCriteria", err)
	}
}

func TestLatestPerParentPrefersNewestThenHighestID(t *testing.T) {
	db := openTestDB(t)
	seedJobOrders(t, db, 2)

	t1 := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	mustCreate(t, db,
		&model.JobOrderCorrection{ID: 5, JobOrderID: 1, Status: "pending", Reason: "a", CreatedBy: 1, CreatedAt: t1},
		&model.JobOrderCorrection{ID: 7, JobOrderID: 1, Status: "pending", Reason: "b", CreatedBy: 1, CreatedAt: t1},
		&model.JobOrderCorrection{ID: 6, JobOrderID: 1, Status: "pending", Reason: "c", CreatedBy: 1, CreatedAt: t2},
		&model.JobOrderCorrection{ID: 8, JobOrderID: 2, Status: "pending", Reason: "d", CreatedBy: 1, CreatedAt: t1},
		&model.JobOrderCorrection{ID: 9, JobOrderID: 2, Status: "pending", Reason: "e", CreatedBy: 1, CreatedAt: t1},
	)

	var rows []model.JobOrderCorrection
	if err := Apply(db.Model(&model.JobOrderCorrection{}), LatestPerParent("job_order_id")).Find(&rows).Error; err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	if !reflect.DeepEqual(ids, []uint64{6, 9}) {
		t.Fatalf("ids = %v, want [6 9]", ids)
	}
}

func TestArchivedBetweenIncludesWholeDay(t *testing.T) {
	db := openTestDB(t)

	inside := time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC)
	after := time.Date(2024, 1, 11, 0, 0, 1, 0, time.UTC)
	mustCreate(t, db,
		&model.Employee{FirstName: "A", LastName: "Inside", DeletedAt: gorm.DeletedAt{Time: inside, Valid: true}},
		&model.Employee{FirstName: "B", LastName: "After", DeletedAt: gorm.DeletedAt{Time: after, Valid: true}},
		&model.Employee{FirstName: "C", LastName: "Current"},
	)

	var rows []model.Employee
	if err := Apply(db.Model(&model.Employee{}), ArchivedBetween("2024-01-10", "2024-01-10", nil)).Find(&rows).Error; err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got := lastNames(rows); !reflect.DeepEqual(got, []string{"Inside"}) {
		t.Fatalf("employees = %v, want [Inside]", got)
	}
}

func TestArchivedBetweenUsesLocalDay(t *testing.T) {
	db := openTestDB(t)
	pht := time.FixedZone("PHT", 8*60*60)

	morning := time.Date(2024, 1, 10, 7, 0, 0, 0, pht).UTC()
	pastMidnight := time.Date(2024, 1, 11, 0, 30, 0, 0, pht).UTC()
	mustCreate(t, db,
		&model.Employee{FirstName: "A", LastName: "Morning", DeletedAt: gorm.DeletedAt{Time: morning, Valid: true}},
		&model.Employee{FirstName: "B", LastName: "PastMidnight", DeletedAt: gorm.DeletedAt{Time: pastMidnight, Valid: true}},
	)

	var local []model.Employee
	if err := Apply(db.Model(&model.Employee{}), ArchivedBetween("2024-01-10", "2024-01-10", pht)).Find(&local).Error; err != nil {
		t.Fatalf("Find(pht) error = %v", err)
	}
	if got := lastNames(local); !reflect.DeepEqual(got, []string{"Morning"}) {
		t.Fatalf("pht employees = %v, want [Morning]", got)
	}

	var utc []model.Employee
	if err := Apply(db.Model(&model.Employee{}), ArchivedBetween("2024-01-10", "2024-01-10", nil)).Find(&utc).Error; err != nil {
		t.Fatalf("Find(utc) error = %v", err)
	}
	if got := lastNames(utc); !reflect.DeepEqual(got, []string{"PastMidnight"}) {
		t.Fatalf("utc employees = %v, want [PastMidnight]", got)
	}
}

func TestParseDayInLocation(t *testing.T) {
	pht := time.FixedZone("PHT", 8*60*60)
	start, end, err := ParseDay("2024-01-10", pht)
	if err != nil {
		t.Fatalf("ParseDay() error = %v", err)
	}
	if want := time.Date(2024, 1, 9, 16, 0, 0, 0, time.UTC); !start.Equal(want) || start.Location() != time.UTC {
		t.Fatalf("start = %v, want %v", start, want)
	}
	if want := time.Date(2024, 1, 10, 15, 59, 59, 999999999, time.UTC); !end.Equal(want) {
		t.Fatalf("end = %v, want %v", end, want)
	}
}

func TestArchivedBetweenRejectsMalformedDate(t *testing.T) {
	db := openTestDB(t)

	var rows []model.Employee
	err := Apply(db.Model(&model.Employee{}),
		EmployeeSearch("ana"),
		ArchivedBetween("2024-13-01", "", nil),
	).Find(&rows).Error
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("Find() error = %v, want ErrInvalidCriteria", err)
	}
}

func TestOnlyArchived(t *testing.T) {
	db := openTestDB(t)

	mustCreate(t, db,
		&model.Truck{PlateNumber: "ABC-1"},
		&model.Truck{PlateNumber: "ABC-2", DeletedAt: gorm.DeletedAt{Time: time.Now().UTC(), Valid: true}},
	)

	var rows []model.Truck
	if err := Apply(db.Model(&model.Truck{}), OnlyArchived()).Find(&rows).Error; err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(rows) != 1 || rows[0].PlateNumber != "ABC-2" {
		t.Fatalf("trucks = %+v, want only ABC-2", rows)
	}
}

func TestOnlyMineScopesRestrictedCallers(t *testing.T) {
	db := openTestDB(t)
	restricted := []string{"requester"}

	toSQL := func(caller *workforce.Caller) string {
		return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			return Apply(tx.Model(&model.JobOrder{}), OnlyMine(caller, restricted, "created_by")).Find(&[]model.JobOrder{})
		})
	}

	admin := toSQL(&workforce.Caller{EmployeeID: 7, Roles: []string{"admin"}})
	if strings.Contains(admin, "created_by") {
		t.Fatalf("admin sql = %q, want no creator constraint", admin)
	}

	requester := toSQL(&workforce.Caller{EmployeeID: 7, Roles: []string{"Requester"}})
	if !strings.Contains(requester, "`created_by` = 7") {
		t.Fatalf("requester sql = %q, want created_by = 7", requester)
	}
}

func TestOnlyMineReturnsCallerRows(t *testing.T) {
	db := openTestDB(t)
	seedJobOrders(t, db, 0)
	mustCreate(t, db,
		&model.JobOrder{ServiceType: "other", Status: "pending", Description: "mine", CreatedBy: 1},
		&model.JobOrder{ServiceType: "other", Status: "pending", Description: "theirs", CreatedBy: 2},
	)

	caller := &workforce.Caller{EmployeeID: 1, Roles: []string{"requester"}}
	var rows []model.JobOrder
	if err := Apply(db.Model(&model.JobOrder{}), OnlyMine(caller, []string{"requester"}, "")).Find(&rows).Error; err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Description != "mine" {
		t.Fatalf("job orders = %+v, want only mine", rows)
	}
}

func TestEmployeeSearchMatchesPositionAndFullName(t *testing.T) {
	db := openTestDB(t)

	driver := model.Position{Name: "Truck Driver"}
	mustCreate(t, db, &driver)
	mustCreate(t, db,
		&model.Employee{FirstName: "Maria", MiddleName: "Cruz", LastName: "Santos", Email: "maria@example.com"},
		&model.Employee{FirstName: "Jose", LastName: "Rizal", PositionID: &driver.ID},
		&model.Employee{FirstName: "Lea", LastName: "100%", Email: "lea@example.com"},
	)

	cases := map[string][]string{
		"driver":            {"Rizal"},
		"maria cruz santos": {"Santos"},
		"MARIA@":            {"Santos"},
		"100%":              {"100%"},
		"%":                 {"100%"},
		"no such person":    {},
	}
	for term, want := range cases {
		var rows []model.Employee
		if err := Apply(db.Model(&model.Employee{}), EmployeeSearch(term)).Order("id").Find(&rows).Error; err != nil {
			t.Fatalf("Find(%q) error = %v", term, err)
		}
		if got := lastNames(rows); !reflect.DeepEqual(got, want) {
			t.Fatalf("EmployeeSearch(%q) = %v, want %v", term, got, want)
		}
	}
}

func TestCorrectionSearchMatchesTicketCreatorAndReason(t *testing.T) {
	db := openTestDB(t)
	seedJobOrders(t, db, 12)

	mustCreate(t, db,
		&model.JobOrderCorrection{JobOrderID: 2, Status: "pending", Reason: "wrong address", CreatedBy: 1},
		&model.JobOrderCorrection{JobOrderID: 12, Status: "pending", Reason: "duplicate", CreatedBy: 2},
	)

	cases := map[string][]string{
		"JO-00002": {"wrong address"},
		"jo-12":    {"duplicate"},
		"2":        {"wrong address", "duplicate"},
		"ADDRESS":  {"wrong address"},
		"reyes":    {"duplicate"},
	}
	for term, want := range cases {
		var rows []model.JobOrderCorrection
		if err := Apply(db.Model(&model.JobOrderCorrection{}), CorrectionSearch(term)).Order("id").Find(&rows).Error; err != nil {
			t.Fatalf("Find(%q) error = %v", term, err)
		}
		got := make([]string, 0, len(rows))
		for _, row := range rows {
			got = append(got, row.Reason)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("CorrectionSearch(%q) = %v, want %v", term, got, want)
		}
	}
}

func TestServiceTypeAndSortValidation(t *testing.T) {
	db := openTestDB(t)

	var rows []model.JobOrder
	err := Apply(db.Model(&model.JobOrder{}), ServiceTypeIn([]string{"plumbing"})).Find(&rows).Error
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("ServiceTypeIn error = %v, want ErrInvalidCriteria", err)
	}

	err = Apply(db.Model(&model.JobOrder{}), SortBy("password", false, map[string]string{"created": "created_at"})).Find(&rows).Error
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("SortBy error = %v, want ErrInvalidCriteria", err)
	}
}

func TestCreatedBetweenAndStatusIn(t *testing.T) {
	db := openTestDB(t)
	seedJobOrders(t, db, 0)

	mustCreate(t, db,
		&model.JobOrder{ServiceType: "other", Status: "pending", Description: "jan", CreatedBy: 1, CreatedAt: time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)},
		&model.JobOrder{ServiceType: "other", Status: "completed", Description: "feb", CreatedBy: 1, CreatedAt: time.Date(2024, 2, 5, 8, 0, 0, 0, time.UTC)},
		&model.JobOrder{ServiceType: "other", Status: "pending", Description: "mar", CreatedBy: 1, CreatedAt: time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)},
	)

	var rows []model.JobOrder
	err := Pipeline{
		CreatedBetween("2024-01-05", "", nil),
		StatusIn([]string{"pending"}),
		SortBy("created", true, map[string]string{"created": "created_at"}),
	}.Apply(db.Model(&model.JobOrder{})).Find(&rows).Error
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(rows) != 2 || rows[0].Description != "mar" || rows[1].Description != "jan" {
		t.Fatalf("job orders = %+v, want [mar jan]", rows)
	}
}

func mustCreate(t *testing.T, db *gorm.DB, values ...any) {
	t.Helper()
	for _, v := range values {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("Create(%T) error = %v", v, err)
		}
	}
}

// seedJobOrders creates employees 1 (Ana Cruz) and 2 (Ben Reyes) and n job orders.
func seedJobOrders(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	mustCreate(t, db,
		&model.Employee{ID: 1, FirstName: "Ana", LastName: "Cruz"},
		&model.Employee{ID: 2, FirstName: "Ben", LastName: "Reyes"},
	)
	for i := 0; i < n; i++ {
		mustCreate(t, db, &model.JobOrder{ServiceType: "other", Status: "pending", Description: "seed", CreatedBy: 1})
	}
}

func lastNames(rows []model.Employee) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.LastName)
	}
	return out
}
