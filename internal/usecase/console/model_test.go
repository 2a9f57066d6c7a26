package console

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/ports"
)

type fakeJobOrders struct {
	lastFilter ports.JobOrderFilter
	lastPage   ports.Page
	items      []joborder.JobOrder
	archived   []string
	restored   []string
	err        error
}

func (f *fakeJobOrders) ListJobOrders(_ context.Context, _ *workforce.Caller, filter ports.JobOrderFilter, page ports.Page) (ports.PageResult[joborder.JobOrder], error) {
	f.lastFilter = filter
	f.lastPage = page
	if f.err != nil {
		return ports.PageResult[joborder.JobOrder]{}, f.err
	}
	return ports.PageResult[joborder.JobOrder]{Items: f.items, Total: int64(len(f.items)), Page: page.Normalize()}, nil
}

func (f *fakeJobOrders) ArchiveJobOrder(_ context.Context, ticket string) (joborder.JobOrder, error) {
	f.archived = append(f.archived, ticket)
	return joborder.JobOrder{}, nil
}

func (f *fakeJobOrders) RestoreJobOrder(_ context.Context, ticket string) (joborder.JobOrder, error) {
	f.restored = append(f.restored, ticket)
	return joborder.JobOrder{}, nil
}

func newTestModel(jobs *fakeJobOrders) *model {
	return NewModel(context.Background(), jobs, Options{RefreshInterval: time.Hour}).(*model)
}

func runLoad(t *testing.T, m *model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a load command")
	}
	next, _ := m.Update(cmd())
	if next != m {
		t.Fatalf("Update() returned a different model")
	}
}

func TestLoadAppliesResults(t *testing.T) {
	jobs := &fakeJobOrders{items: []joborder.JobOrder{
		{ID: 1, TicketNumber: "JO-00001", Status: joborder.StatusPending, ServiceType: joborder.ServiceWasteManagement},
		{ID: 2, TicketNumber: "JO-00002", Status: joborder.StatusCompleted, ServiceType: joborder.ServiceOther},
	}}
	m := newTestModel(jobs)
	runLoad(t, m, m.loadCmd())

	if len(m.items) != 2 || m.total != 2 {
		t.Fatalf("items = %d total = %d, want 2/2", len(m.items), m.total)
	}
	view := m.View()
	if !strings.Contains(view, "JO-00001 [pending]") {
		t.Fatalf("view missing first job order: %s", view)
	}
	if !strings.Contains(view, "completed=1 pending=1") {
		t.Fatalf("view missing status summary: %s", view)
	}
}

func TestStaleLoadIsIgnored(t *testing.T) {
	jobs := &fakeJobOrders{items: []joborder.JobOrder{{ID: 1, TicketNumber: "JO-00001"}}}
	m := newTestModel(jobs)

	stale := m.loadCmd()
	fresh := m.loadCmd()
	staleMsg := stale()

	jobs.items = []joborder.JobOrder{{ID: 2, TicketNumber: "JO-00002"}, {ID: 3, TicketNumber: "JO-00003"}}
	runLoad(t, m, fresh)
	m.Update(staleMsg)

	if len(m.items) != 2 || m.items[0].TicketNumber != "JO-00002" {
		t.Fatalf("items = %+v, stale response should be dropped", m.items)
	}
}

func TestArchivedToggleAndSearch(t *testing.T) {
	jobs := &fakeJobOrders{}
	m := newTestModel(jobs)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	runLoad(t, m, cmd)
	if !jobs.lastFilter.OnlyArchived {
		t.Fatalf("OnlyArchived = false after toggle")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.editing {
		t.Fatalf("search mode not entered")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ana")})
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cx")})
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runLoad(t, m, cmd)

	if jobs.lastFilter.Search != "ana cz" {
		t.Fatalf("search = %q, want %q", jobs.lastFilter.Search, "ana cz")
	}
	if jobs.lastPage.Number != 1 {
		t.Fatalf("page = %d, want 1", jobs.lastPage.Number)
	}
}

func TestToggleArchiveRoutesBySelection(t *testing.T) {
	now := time.Now()
	jobs := &fakeJobOrders{items: []joborder.JobOrder{
		{ID: 1, TicketNumber: "JO-00001"},
		{ID: 2, TicketNumber: "JO-00002", ArchivedAt: &now},
	}}
	m := newTestModel(jobs)
	runLoad(t, m, m.loadCmd())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m.Update(cmd())

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m.Update(cmd())

	if len(jobs.archived) != 1 || jobs.archived[0] != "JO-00001" {
		t.Fatalf("archived = %v", jobs.archived)
	}
	if len(jobs.restored) != 1 || jobs.restored[0] != "JO-00002" {
		t.Fatalf("restored = %v", jobs.restored)
	}
	if len(m.auditLogs) != 2 {
		t.Fatalf("audit logs = %v, want 2 entries", m.auditLogs)
	}
}

func TestLoadFailureKeepsItems(t *testing.T) {
	jobs := &fakeJobOrders{items: []joborder.JobOrder{{ID: 1, TicketNumber: "JO-00001"}}}
	m := newTestModel(jobs)
	runLoad(t, m, m.loadCmd())

	jobs.err = errors.New("database is locked")
	runLoad(t, m, m.loadCmd())

	if len(m.items) != 1 {
		t.Fatalf("items dropped on failure: %+v", m.items)
	}
	if !strings.Contains(m.status, "database is locked") {
		t.Fatalf("status = %q", m.status)
	}
}
