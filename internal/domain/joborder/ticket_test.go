package joborder

import (
	"errors"
	"testing"
	"time"
)

func TestFormatAndParseTicketNumber(t *testing.T) {
	if got := FormatTicketNumber(42); got != "JO-00042" {
		t.Fatalf("FormatTicketNumber() = %q", got)
	}

	for _, in := range []string{"JO-00042", "jo-42", "JO42", " 42 "} {
		id, err := ParseTicketNumber(in)
		if err != nil {
			t.Fatalf("ParseTicketNumber(%q) error = %v", in, err)
		}
		if id != 42 {
			t.Fatalf("ParseTicketNumber(%q) = %d", in, id)
		}
	}

	for _, in := range []string{"", "JO-", "JO-0", "JX-12", "12a"} {
		if _, err := ParseTicketNumber(in); !errors.Is(err, ErrInvalidTicketNumber) {
			t.Fatalf("ParseTicketNumber(%q) error = %v, want ErrInvalidTicketNumber", in, err)
		}
	}
}

func TestTicketSearchDigits(t *testing.T) {
	cases := []struct {
		in     string
		digits string
		exact  bool
		ok     bool
	}{
		{in: "JO-00042", digits: "42", exact: true, ok: true},
		{in: "jo-7", digits: "7", exact: true, ok: true},
		{in: "004", digits: "004", exact: false, ok: true},
		{in: "John", ok: false},
		{in: "JO-000", ok: false},
		{in: "", ok: false},
	}
	for _, tc := range cases {
		digits, exact, ok := TicketSearchDigits(tc.in)
		if digits != tc.digits || exact != tc.exact || ok != tc.ok {
			t.Fatalf("TicketSearchDigits(%q) = (%q, %v, %v), want (%q, %v, %v)",
				tc.in, digits, exact, ok, tc.digits, tc.exact, tc.ok)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if st, err := ParseServiceType(" Waste_Management "); err != nil || st != ServiceWasteManagement {
		t.Fatalf("ParseServiceType() = %q, %v", st, err)
	}
	if _, err := ParseServiceType("plumbing"); !errors.Is(err, ErrUnknownServiceType) {
		t.Fatalf("ParseServiceType() error = %v", err)
	}
	if _, err := ParseStatus("done"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("ParseStatus() error = %v", err)
	}
	if cs, err := ParseCorrectionStatus("APPROVED"); err != nil || cs != CorrectionApproved {
		t.Fatalf("ParseCorrectionStatus() = %q, %v", cs, err)
	}
}

func TestCanResolve(t *testing.T) {
	if !CanResolve(CorrectionPending, CorrectionApproved) {
		t.Fatalf("pending -> approved must be allowed")
	}
	if CanResolve(CorrectionApproved, CorrectionRejected) {
		t.Fatalf("approved -> rejected must be refused")
	}
	if CanResolve(CorrectionPending, CorrectionPending) {
		t.Fatalf("pending -> pending must be refused")
	}
}

func TestJobOrdersGrouping(t *testing.T) {
	archivedAt := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	orders := JobOrders{
		{ID: 1, ServiceType: ServiceWasteManagement, Status: StatusPending},
		{ID: 2, ServiceType: ServiceITServices, Status: StatusPending, ArchivedAt: &archivedAt},
		{ID: 3, ServiceType: ServiceWasteManagement, Status: StatusCompleted},
	}

	byType := orders.GroupByServiceType()
	if len(byType[ServiceWasteManagement]) != 2 || len(byType[ServiceITServices]) != 1 {
		t.Fatalf("GroupByServiceType() = %#v", byType)
	}
	if got := orders.GroupByStatus()[StatusPending].IDs(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("GroupByStatus()[pending] ids = %v", got)
	}

	active, archived := orders.Partition()
	if len(active) != 2 || len(archived) != 1 || archived[0].ID != 2 {
		t.Fatalf("Partition() = %v / %v", active.IDs(), archived.IDs())
	}
}
