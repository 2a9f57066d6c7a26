package console

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

const maxAuditLines = 6

// JobOrders is the slice of the job order usecase the console drives.
type JobOrders interface {
	ListJobOrders(ctx context.Context, caller *workforce.Caller, filter ports.JobOrderFilter, page ports.Page) (ports.PageResult[joborder.JobOrder], error)
	ArchiveJobOrder(ctx context.Context, ticket string) (joborder.JobOrder, error)
	RestoreJobOrder(ctx context.Context, ticket string) (joborder.JobOrder, error)
}

type UnreadCounter interface {
	UnreadIncidentCount(ctx context.Context) (int64, error)
}

type Options struct {
	Caller          *workforce.Caller
	Search          string
	PageSize        int
	RefreshInterval time.Duration
	// Incidents is optional; when set the header shows unread incidents.
	Incidents UnreadCounter
}

type model struct {
	ctx             context.Context
	jobs            JobOrders
	incidents       UnreadCounter
	caller          *workforce.Caller
	refreshInterval time.Duration
	pageSize        int

	search       string
	onlyArchived bool
	page         int

	editing     bool
	searchInput string

	seq           int
	items         joborder.JobOrders
	total         int64
	lastPage      int
	selectedIndex int
	unread        int64
	unreadKnown   bool
	status        string
	auditLogs     []string
}

type jobOrdersLoadedMsg struct {
	seq      int
	result   ports.PageResult[joborder.JobOrder]
	unread   int64
	hasCount bool
	err      error
}

type tickMsg struct{}

type actionDoneMsg struct {
	action string
	ticket string
	err    error
}

func NewModel(ctx context.Context, jobs JobOrders, options Options) tea.Model {
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	size := options.PageSize
	if size <= 0 {
		size = ports.DefaultPageSize
	}

	return &model{
		ctx:             logging.WithAttrs(ctx, slog.String("component", "console")),
		jobs:            jobs,
		incidents:       options.Incidents,
		caller:          options.Caller,
		refreshInterval: interval,
		pageSize:        size,
		search:          strings.TrimSpace(options.Search),
		page:            1,
		lastPage:        1,
		status:          "loading",
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.tickCmd())
}

func (m *model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadCmd(), m.tickCmd())
	case jobOrdersLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.items = msg.result.Items
		m.total = msg.result.Total
		m.lastPage = msg.result.LastPage()
		if msg.hasCount {
			m.unread = msg.unread
			m.unreadKnown = true
		}
		if m.selectedIndex >= len(m.items) {
			m.selectedIndex = len(m.items) - 1
		}
		if m.selectedIndex < 0 {
			m.selectedIndex = 0
		}
		if len(m.items) == 0 {
			m.status = "no job orders"
		} else {
			m.status = fmt.Sprintf("refreshed, %d total", m.total)
		}
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s %s failed: %v", msg.action, msg.ticket, msg.err)
			m.appendAuditLog(msg.action, msg.ticket, msg.err)
		} else {
			m.status = fmt.Sprintf("%s %s done", msg.action, msg.ticket)
			m.appendAuditLog(msg.action, msg.ticket, nil)
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		if m.editing {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.items)-1 {
				m.selectedIndex++
			}
			return m, nil
		case "n", "right":
			if m.page < m.lastPage {
				m.page++
				m.selectedIndex = 0
				return m, m.loadCmd()
			}
			return m, nil
		case "p", "left":
			if m.page > 1 {
				m.page--
				m.selectedIndex = 0
				return m, m.loadCmd()
			}
			return m, nil
		case "a":
			m.onlyArchived = !m.onlyArchived
			m.page = 1
			m.selectedIndex = 0
			return m, m.loadCmd()
		case "/":
			m.editing = true
			m.searchInput = m.search
			return m, nil
		case "x":
			return m, m.toggleArchiveCmd()
		}
	}
	return m, nil
}

func (m *model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.searchInput = ""
		return m, nil
	case tea.KeyEnter:
		m.editing = false
		m.search = strings.TrimSpace(m.searchInput)
		m.page = 1
		m.selectedIndex = 0
		return m, m.loadCmd()
	case tea.KeyBackspace:
		if r := []rune(m.searchInput); len(r) > 0 {
			m.searchInput = string(r[:len(r)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.searchInput += " "
		return m, nil
	case tea.KeyRunes:
		m.searchInput += string(msg.Runes)
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))
	archivedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true)

	view := "active"
	if m.onlyArchived {
		view = "archived"
	}
	unread := "-"
	if m.unreadKnown {
		unread = fmt.Sprintf("%d", m.unread)
	}

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Job Orders"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"view=%s search=%s page=%d/%d total=%d unread_incidents=%s refresh=%s",
		view,
		firstNonEmpty(m.search, "-"),
		m.page,
		m.lastPage,
		m.total,
		unread,
		m.refreshInterval,
	)))
	builder.WriteString("\n")
	if summary := statusSummary(m.items); summary != "" {
		builder.WriteString(dimStyle.Render("on page: " + summary))
		builder.WriteString("\n")
	}
	builder.WriteString("\n")

	builder.WriteString(sectionStyle.Render("List"))
	builder.WriteString("\n")
	if len(m.items) == 0 {
		builder.WriteString(dimStyle.Render("- no job orders"))
		builder.WriteString("\n\n")
	} else {
		for index, item := range m.items {
			line := fmt.Sprintf("%s [%s] %s by=%s %s",
				item.TicketNumber,
				item.Status,
				item.ServiceType,
				firstNonEmpty(item.CreatorName, "-"),
				firstLine(item.Description),
			)
			switch {
			case index == m.selectedIndex:
				builder.WriteString(selectedStyle.Render("> " + line))
			case item.Archived():
				builder.WriteString("  " + archivedStyle.Render(line))
			default:
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Detail"))
	builder.WriteString("\n")
	if selected, ok := m.selected(); ok {
		builder.WriteString(fmt.Sprintf("Ticket: %s\n", selected.TicketNumber))
		builder.WriteString(fmt.Sprintf("Service: %s\n", selected.ServiceType))
		builder.WriteString(fmt.Sprintf("Status: %s\n", selected.Status))
		builder.WriteString(fmt.Sprintf("Location: %s\n", firstNonEmpty(selected.Location, "-")))
		builder.WriteString(fmt.Sprintf("Created: %s by %s\n", selected.CreatedAt.Format(time.DateTime), firstNonEmpty(selected.CreatorName, "-")))
		if selected.ArchivedAt != nil {
			builder.WriteString(fmt.Sprintf("Archived: %s\n", selected.ArchivedAt.Format(time.DateTime)))
		}
		builder.WriteString("\n")
	} else {
		builder.WriteString(dimStyle.Render("- nothing selected"))
		builder.WriteString("\n\n")
	}

	if m.editing {
		builder.WriteString(sectionStyle.Render("Search"))
		builder.WriteString("\n> " + m.searchInput + "_\n\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	if len(m.auditLogs) > 0 {
		builder.WriteString(sectionStyle.Render("Audit Log"))
		builder.WriteString("\n")
		for _, line := range m.auditLogs {
			builder.WriteString("- " + line + "\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(dimStyle.Render("Keys: ↑/k ↓/j move  n/p page  / search  a archived  x archive/restore  g refresh  q quit"))
	return builder.String()
}

func (m *model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadCmd bumps the request sequence so slower, older responses are dropped.
func (m *model) loadCmd() tea.Cmd {
	m.seq++
	seq := m.seq
	filter := ports.JobOrderFilter{Search: m.search, OnlyArchived: m.onlyArchived}
	page := ports.Page{Number: m.page, Size: m.pageSize}

	return func() tea.Msg {
		result, err := m.jobs.ListJobOrders(m.ctx, m.caller, filter, page)
		if err != nil {
			logging.Warn(m.ctx, "console refresh failed", slog.Any("err", errs.Loggable(err)))
			return jobOrdersLoadedMsg{seq: seq, err: err}
		}
		msg := jobOrdersLoadedMsg{seq: seq, result: result}
		if m.incidents != nil {
			if unread, err := m.incidents.UnreadIncidentCount(m.ctx); err == nil {
				msg.unread = unread
				msg.hasCount = true
			}
		}
		return msg
	}
}

func (m *model) toggleArchiveCmd() tea.Cmd {
	selected, ok := m.selected()
	if !ok {
		m.status = "nothing selected"
		return nil
	}

	ticket := selected.TicketNumber
	if selected.Archived() {
		return func() tea.Msg {
			_, err := m.jobs.RestoreJobOrder(m.ctx, ticket)
			return actionDoneMsg{action: "restore", ticket: ticket, err: err}
		}
	}
	return func() tea.Msg {
		_, err := m.jobs.ArchiveJobOrder(m.ctx, ticket)
		return actionDoneMsg{action: "archive", ticket: ticket, err: err}
	}
}

func (m *model) selected() (joborder.JobOrder, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.items) {
		return joborder.JobOrder{}, false
	}
	return m.items[m.selectedIndex], true
}

func (m *model) appendAuditLog(action string, ticket string, opErr error) {
	result := "ok"
	if opErr != nil {
		result = "failed: " + opErr.Error()
	}
	line := fmt.Sprintf("%s %s %s %s", time.Now().Format(time.TimeOnly), action, ticket, result)
	m.auditLogs = append(m.auditLogs, line)
	if len(m.auditLogs) > maxAuditLines {
		m.auditLogs = m.auditLogs[len(m.auditLogs)-maxAuditLines:]
	}
}

// statusSummary renders "completed=1 pending=2" for the loaded page.
func statusSummary(items joborder.JobOrders) string {
	groups := items.GroupByStatus()
	if len(groups) == 0 {
		return ""
	}
	keys := make([]string, 0, len(groups))
	for status := range groups {
		keys = append(keys, string(status))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", key, len(groups[joborder.Status(key)])))
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func firstLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
