// Package tui implements the terminal client: a bug list with a creation
// form, where every screen region renders behind its own Boundary.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/heartmarshall/bugtracker/internal/client/collection"
	"github.com/heartmarshall/bugtracker/internal/domain"
)

// Region names used in render failure reports.
const (
	RegionApp    = "app"
	RegionHeader = "header"
	RegionList   = "list"
	RegionForm   = "form"
)

const (
	noticeInProgress = "A request is already in progress"
	noticeCreated    = "Bug created"
)

type bugCollection interface {
	Snapshot() collection.Snapshot
	Reload(ctx context.Context) error
	SetFilters(ctx context.Context, f domain.BugFilter) error
	Create(ctx context.Context, d domain.BugDraft) (*domain.Bug, error)
	Update(ctx context.Context, id string, d domain.BugDraft) (*domain.Bug, error)
	Delete(ctx context.Context, id string) error
	DismissError()
}

type focusArea int

const (
	focusList focusArea = iota
	focusForm
)

const (
	fieldTitle = iota
	fieldDescription
	fieldReporter
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Reporter"}

// changedMsg is sent by the collection change listener.
type changedMsg struct{}

// resultMsg is sent when a collection call started by a key completes.
// Failures other than a busy collection are shown from the snapshot.
type resultMsg struct {
	op  string
	err error
}

type regions struct {
	app, header, list, form *Boundary
}

// Model is the bubbletea model of the bug list screen.
type Model struct {
	ctx        context.Context
	bugs       bugCollection
	reporter   faultReporter
	diagnostic bool
	keys       KeyMap

	snap   collection.Snapshot
	filter domain.BugFilter
	cursor int
	focus  focusArea
	notice string
	width  int

	formOpen bool
	field    int
	inputs   []textinput.Model

	regions   *regions
	formatRow func(b domain.Bug, selected bool) string
}

// NewModel creates the screen for bugs. Calls into the collection use ctx.
func NewModel(ctx context.Context, bugs bugCollection, reporter faultReporter, diagnostic bool) Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = strings.ToLower(fieldLabels[i])
		inputs[i] = in
	}

	return Model{
		ctx:        ctx,
		bugs:       bugs,
		reporter:   reporter,
		diagnostic: diagnostic,
		keys:       DefaultKeyMap,
		snap:       bugs.Snapshot(),
		filter:     bugs.Snapshot().Filter,
		inputs:     inputs,
		regions: &regions{
			app:    NewBoundary(RegionApp, reporter, diagnostic),
			header: NewBoundary(RegionHeader, reporter, diagnostic),
			list:   NewBoundary(RegionList, reporter, diagnostic),
			form: NewBoundary(RegionForm, reporter, diagnostic, WithReset(func() {
				for i := range inputs {
					inputs[i].Reset()
				}
			})),
		},
		formatRow: formatRow,
	}
}

// Init loads the list.
func (m Model) Init() tea.Cmd {
	return m.reload()
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case changedMsg:
		m.refresh()
		return m, nil

	case resultMsg:
		m.refresh()
		m.notice = ""
		switch {
		case errors.Is(msg.err, domain.ErrRequestInProgress):
			m.notice = noticeInProgress
		case msg.err == nil && msg.op == collection.OpCreate:
			m.closeForm()
			m.notice = noticeCreated
		}
		return m, nil

	case tea.KeyMsg:
		if m.focus == focusForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	if m.focus == focusForm {
		var cmd tea.Cmd
		m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Bugs)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Focus):
		if m.formOpen {
			m.focus = focusForm
			return m, m.inputs[m.field].Focus()
		}
	case key.Matches(msg, m.keys.New):
		m.formOpen = true
		m.focus = focusForm
		m.field = fieldTitle
		return m, m.inputs[fieldTitle].Focus()

	case key.Matches(msg, m.keys.NextStatus):
		if b, ok := m.selected(); ok {
			d := domain.BugDraft{Status: domain.Str(nextStatus(b.Status).String())}
			return m, m.update(b, d)
		}
	case key.Matches(msg, m.keys.NextPriority):
		if b, ok := m.selected(); ok {
			d := domain.BugDraft{Priority: domain.Str(nextPriority(b.Priority).String())}
			return m, m.update(b, d)
		}
	case key.Matches(msg, m.keys.Delete):
		if b, ok := m.selected(); ok {
			id := b.ID.String()
			return m, m.run(collection.OpDelete, func(ctx context.Context) error {
				return m.bugs.Delete(ctx, id)
			})
		}

	case key.Matches(msg, m.keys.FilterStatus):
		m.filter.Status = nextStatusFilter(m.filter.Status)
		return m, m.setFilters()
	case key.Matches(msg, m.keys.Sort):
		m.filter.Sort = nextSort(m.filter.Sort)
		return m, m.setFilters()

	case key.Matches(msg, m.keys.Retry):
		return m.retry()
	case key.Matches(msg, m.keys.Reload):
		return m.rebuild()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closeForm()
		return m, nil
	case "tab":
		m.inputs[m.field].Blur()
		m.focus = focusList
		return m, nil
	case "up", "shift+tab":
		return m, m.focusField((m.field + fieldCount - 1) % fieldCount)
	case "down":
		return m, m.focusField((m.field + 1) % fieldCount)
	case "enter":
		d := domain.BugDraft{
			Title:       domain.Str(m.inputs[fieldTitle].Value()),
			Description: domain.Str(m.inputs[fieldDescription].Value()),
			Reporter:    domain.Str(m.inputs[fieldReporter].Value()),
		}
		return m, m.run(collection.OpCreate, func(ctx context.Context) error {
			_, err := m.bugs.Create(ctx, d)
			return err
		})
	}

	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	return m, cmd
}

// retry clears failed regions. With no failed region an outstanding
// collection error is dismissed and the list is loaded again.
func (m Model) retry() (tea.Model, tea.Cmd) {
	retried := false
	for _, b := range []*Boundary{m.regions.app, m.regions.header, m.regions.list, m.regions.form} {
		if b.Failed() {
			b.Retry()
			retried = true
		}
	}
	if retried || m.snap.Err == nil {
		return m, nil
	}
	m.bugs.DismissError()
	m.refresh()
	return m, m.reload()
}

// rebuild replaces the whole screen state with a fresh model and reloads.
func (m Model) rebuild() (tea.Model, tea.Cmd) {
	m.bugs.DismissError()
	fresh := NewModel(m.ctx, m.bugs, m.reporter, m.diagnostic)
	fresh.width = m.width
	fresh.formatRow = m.formatRow
	return fresh, fresh.reload()
}

func (m *Model) refresh() {
	m.snap = m.bugs.Snapshot()
	if m.cursor >= len(m.snap.Bugs) {
		m.cursor = max(len(m.snap.Bugs)-1, 0)
	}
}

func (m *Model) closeForm() {
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].Reset()
	}
	m.formOpen = false
	m.focus = focusList
	m.field = fieldTitle
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.field].Blur()
	m.field = i
	return m.inputs[i].Focus()
}

func (m Model) selected() (domain.Bug, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Bugs) {
		return domain.Bug{}, false
	}
	return m.snap.Bugs[m.cursor], true
}

func (m Model) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{op: op, err: fn(ctx)}
	}
}

func (m Model) reload() tea.Cmd {
	return m.run(collection.OpReload, m.bugs.Reload)
}

func (m Model) setFilters() tea.Cmd {
	f := m.filter
	return m.run(collection.OpReload, func(ctx context.Context) error {
		return m.bugs.SetFilters(ctx, f)
	})
}

func (m Model) update(b domain.Bug, d domain.BugDraft) tea.Cmd {
	id := b.ID.String()
	return m.run(collection.OpUpdate, func(ctx context.Context) error {
		_, err := m.bugs.Update(ctx, id, d)
		return err
	})
}

// nextStatus returns the first status after cur, in enumeration order,
// that cur may move to.
func nextStatus(cur domain.BugStatus) domain.BugStatus {
	all := domain.BugStatuses()
	start := 0
	for i, s := range all {
		if s == cur {
			start = i
		}
	}
	for off := 1; off <= len(all); off++ {
		if s := all[(start+off)%len(all)]; domain.IsValidTransition(cur, s) {
			return s
		}
	}
	return cur
}

func nextPriority(cur domain.BugPriority) domain.BugPriority {
	all := domain.BugPriorities()
	for i, p := range all {
		if p == cur {
			return all[(i+1)%len(all)]
		}
	}
	return domain.DefaultPriority
}

// nextStatusFilter cycles all, open, in-progress, resolved, all.
func nextStatusFilter(cur *string) *string {
	all := domain.BugStatuses()
	if cur == nil {
		s := all[0].String()
		return &s
	}
	for i, s := range all {
		if s.String() == *cur && i+1 < len(all) {
			next := all[i+1].String()
			return &next
		}
	}
	return nil
}

func nextSort(cur domain.BugSort) domain.BugSort {
	switch cur {
	case domain.BugSortNewest:
		return domain.BugSortOldest
	case domain.BugSortOldest:
		return domain.BugSortPriority
	default:
		return domain.BugSortNewest
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	statusStyles = map[domain.BugStatus]lipgloss.Style{
		domain.BugStatusOpen:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		domain.BugStatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.BugStatusResolved:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

// View renders the screen.
func (m Model) View() string {
	return m.regions.app.Render(func() string {
		parts := []string{
			m.regions.header.Render(m.headerView),
			m.regions.list.Render(m.listView),
		}
		if m.formOpen {
			parts = append(parts, m.regions.form.Render(m.formView))
		}
		parts = append(parts, m.footerView())
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	})
}

func (m Model) headerView() string {
	status := "all"
	if m.filter.Status != nil {
		status = *m.filter.Status
	}
	line := fmt.Sprintf("%s  %d shown  status: %s  sort: %s",
		titleStyle.Render("Bugs"), len(m.snap.Bugs), status, m.filter.Sort)
	switch {
	case m.snap.Loading:
		line += mutedStyle.Render("  loading...")
	case m.snap.Mutating:
		line += mutedStyle.Render("  saving...")
	}

	lines := []string{line}
	if env := m.snap.Err; env != nil {
		lines = append(lines, errorStyle.Render("Error: "+env.Message))
		if len(env.Messages) > 1 {
			for _, msg := range env.Messages {
				lines = append(lines, errorStyle.Render("  - "+msg))
			}
		}
		lines = append(lines, mutedStyle.Render("r dismiss and retry"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) listView() string {
	if len(m.snap.Bugs) == 0 {
		return mutedStyle.Render("No bugs found")
	}
	rows := make([]string, len(m.snap.Bugs))
	for i, b := range m.snap.Bugs {
		rows[i] = m.formatRow(b, i == m.cursor && m.focus == focusList)
	}
	return strings.Join(rows, "\n")
}

func formatRow(b domain.Bug, selected bool) string {
	status := fmt.Sprintf("%-11s", b.Status)
	if st, ok := statusStyles[b.Status]; ok {
		status = st.Render(status)
	}
	row := fmt.Sprintf("%s %-8s %s (%s)", status, b.Priority, b.Title, b.Reporter)
	if selected {
		return selectedStyle.Render(row)
	}
	return row
}

func (m Model) formView() string {
	lines := []string{titleStyle.Render("New bug")}
	for i, in := range m.inputs {
		marker := "  "
		if m.focus == focusForm && i == m.field {
			marker = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%-12s %s", marker, fieldLabels[i]+":", in.View()))
	}
	lines = append(lines, mutedStyle.Render("enter submit  ↑/↓ field  tab list  esc close"))
	return strings.Join(lines, "\n")
}

func (m Model) footerView() string {
	lines := []string{}
	if m.notice != "" {
		lines = append(lines, noticeStyle.Render(m.notice))
	}
	lines = append(lines, mutedStyle.Render(m.keys.helpLine()))
	return strings.Join(lines, "\n")
}
