// Package tui provides an interactive terminal UI for things using Bubble Tea.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/baiirun/things/internal/dates"
	"github.com/baiirun/things/internal/debounce"
	"github.com/baiirun/things/internal/model"
	"github.com/baiirun/things/internal/ordering"
	"github.com/baiirun/things/internal/progress"
	"github.com/baiirun/things/internal/store"
	"github.com/baiirun/things/internal/views"
)

// Tab is the list currently shown.
type Tab int

const (
	TabInbox Tab = iota
	TabToday
	TabProjects
	TabProject
	TabSearch
)

func (t Tab) String() string {
	switch t {
	case TabInbox:
		return "Inbox"
	case TabToday:
		return "Today"
	case TabProjects:
		return "Projects"
	case TabProject:
		return "Project"
	case TabSearch:
		return "Search"
	}
	return "?"
}

// InputMode represents what kind of text input is active.
type InputMode int

const (
	InputNone    InputMode = iota
	InputCreate            // Naming a draft task
	InputProject           // Naming a new project
	InputRename            // Renaming the selected item
	InputSearch            // Entering search text
)

// Deps are the services the UI drives.
type Deps struct {
	Store    *store.Store
	Views    *views.Facade
	Order    *ordering.Service
	Progress *progress.Engine
	Locale   dates.Locale
	Delay    time.Duration
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	deps    Deps
	toggles *debounce.Scheduler[bool]
	feed    *feed

	tab          Tab
	prevTab      Tab
	projectID    string
	projectTitle string
	items        []model.Item
	cursor       int

	inputMode InputMode
	input     textinput.Model
	draftID   string
	search    string

	width   int
	height  int
	err     error
	message string
}

// New creates a TUI model over the given services. Close must be called
// once the program exits.
func New(deps Deps) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		deps:    deps,
		toggles: debounce.New[bool](deps.Delay),
		feed:    newFeed(),
		tab:     TabInbox,
		input:   ti,
	}
}

// Close stops listening for store changes and saves pending toggles.
func (m Model) Close() {
	m.feed.stop()
	m.toggles.Stop()
}

// Run starts the TUI and blocks until it exits.
func Run(deps Deps) error {
	m := New(deps)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Messages
type itemsMsg struct {
	gen   uint64
	items []model.Item
}

type actionMsg struct {
	message string
	err     error
}

// changedMsg carries a view result pushed by a store mutation.
type changedMsg itemsMsg

// load points the watch at the current tab's view and returns its first
// result.
func (m Model) load() tea.Cmd {
	view := m.view(m.tab, m.projectID, m.search)
	return func() tea.Msg {
		m.feed.watch(m.deps.Views, view)
		r := <-m.feed.out
		return itemsMsg(r)
	}
}

func (m Model) view(tab Tab, projectID, search string) views.View {
	v := m.deps.Views
	switch tab {
	case TabToday:
		return v.Today
	case TabProjects:
		return v.AllProjects
	case TabProject:
		return func() []model.Item { return v.ProjectTasks(projectID) }
	case TabSearch:
		return func() []model.Item { return v.Search(search) }
	}
	return v.Inbox
}

// waitForChange blocks until the watched view is re-evaluated.
func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		r := <-m.feed.out
		return changedMsg(r)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChange())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.message = ""
		m.err = nil
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, msg.Width-20)
		return m, nil

	case itemsMsg:
		m.setItems(msg.gen, msg.items)
		return m, nil

	case changedMsg:
		m.setItems(msg.gen, msg.items)
		return m, m.waitForChange()

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.message = msg.message
		}
		return m, m.load()
	}

	return m, nil
}

// setItems shows a result unless a later watch has replaced the one that
// produced it.
func (m *Model) setItems(gen uint64, items []model.Item) {
	if gen != m.feed.current() {
		return
	}
	m.items = items
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode != InputNone {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "1":
		return m.switchTab(TabInbox)
	case "2":
		return m.switchTab(TabToday)
	case "3":
		return m.switchTab(TabProjects)
	case "tab":
		next := TabInbox
		switch m.tab {
		case TabInbox:
			next = TabToday
		case TabToday:
			next = TabProjects
		}
		return m.switchTab(next)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(0, len(m.items)-1)

	case "enter", "l":
		if item, ok := m.selected(); ok && item.IsProject() {
			m.prevTab = m.tab
			m.tab = TabProject
			m.projectID = item.ID
			m.projectTitle = item.Title
			m.cursor = 0
			return m, m.load()
		}

	case "esc", "h", "backspace":
		switch m.tab {
		case TabProject:
			return m.switchTab(TabProjects)
		case TabSearch:
			m.search = ""
			return m.switchTab(m.prevTab)
		}

	// Actions
	case "n":
		if m.tab == TabProjects {
			return m.startInput(InputProject, "New project", "")
		}
		return m.startDraft()
	case "x", " ":
		return m.doToggle()
	case "K":
		return m.doMove(-1)
	case "J":
		return m.doMove(1)
	case "t":
		return m.doDue(dates.TodayAt(m.deps.Views.Now(), 0), "today")
	case "e":
		return m.doDue(dates.TodayAt(m.deps.Views.Now(), 18), "tonight")
	case "c":
		return m.doClearDue()
	case "r":
		if item, ok := m.selected(); ok {
			return m.startInput(InputRename, "Rename", item.Title)
		}
	case "D":
		return m.doDelete()
	case "/":
		if m.tab != TabSearch {
			m.prevTab = m.tab
		}
		return m.startInput(InputSearch, "Search", m.search)
	case "R":
		return m, m.load()
	}

	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		mode := m.inputMode
		m.stopInput()
		if mode == InputCreate {
			return m.discardDraft()
		}
		return m, nil

	case "enter":
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.inputMode == InputSearch {
		m.search = m.input.Value()
		m.tab = TabSearch
		m.cursor = 0
		view := m.view(TabSearch, "", m.search)
		m.feed.watch(m.deps.Views, view)
		m.items = view()
	}
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	mode := m.inputMode
	m.stopInput()

	switch mode {
	case InputSearch:
		m.search = text
		if text == "" {
			return m.switchTab(m.prevTab)
		}
		m.tab = TabSearch
		m.cursor = 0
		return m, m.load()

	case InputCreate:
		if text == "" {
			return m.discardDraft()
		}
		id, projectID := m.draftID, ""
		if m.tab == TabProject {
			projectID = m.projectID
		}
		m.draftID = ""
		return m, func() tea.Msg {
			if _, err := m.deps.Store.UpdateDraft(id, model.WithTitle(text)); err != nil {
				_ = m.deps.Store.DiscardDraft(id)
				return actionMsg{err: err}
			}
			var err error
			if projectID != "" {
				_, err = m.deps.Order.Append(projectID, id)
			} else {
				_, err = m.deps.Store.CommitDraft(id)
			}
			if err != nil {
				_ = m.deps.Store.DiscardDraft(id)
				return actionMsg{err: err}
			}
			return actionMsg{message: fmt.Sprintf("Added %q", text)}
		}

	case InputProject:
		return m, func() tea.Msg {
			p, err := m.deps.Store.Create(model.KindProject, model.WithTitle(text))
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{message: fmt.Sprintf("Created project %q", p.Title)}
		}

	case InputRename:
		item, ok := m.selected()
		if !ok || text == "" {
			return m, nil
		}
		return m, func() tea.Msg {
			if _, err := m.deps.Store.Update(item.ID, model.WithTitle(text)); err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{message: "Renamed"}
		}
	}

	return m, nil
}

func (m Model) switchTab(tab Tab) (Model, tea.Cmd) {
	m.tab = tab
	m.cursor = 0
	return m, m.load()
}

func (m Model) startInput(mode InputMode, prompt, value string) (Model, tea.Cmd) {
	m.inputMode = mode
	m.input.Prompt = prompt + ": "
	m.input.SetValue(value)
	return m, m.input.Focus()
}

func (m *Model) stopInput() {
	m.inputMode = InputNone
	m.input.SetValue("")
	m.input.Blur()
}

// startDraft creates a draft task for the current list and asks for its
// title. The draft is discarded unless the title is confirmed.
func (m Model) startDraft() (Model, tea.Cmd) {
	var opts []model.Option
	switch m.tab {
	case TabToday:
		opts = append(opts, model.WithDueDate(model.TimePtr(dates.TodayAt(m.deps.Views.Now(), 0))))
	case TabProject:
		opts = append(opts, model.WithProject(m.projectID))
	case TabSearch:
		return m, nil
	}

	draft, err := m.deps.Store.CreateDraft(model.KindTask, opts...)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.draftID = draft.ID
	return m.startInput(InputCreate, "New task", "")
}

func (m Model) discardDraft() (Model, tea.Cmd) {
	if m.draftID == "" {
		return m, nil
	}
	if err := m.deps.Store.DiscardDraft(m.draftID); err != nil {
		m.err = err
	}
	m.draftID = ""
	return m, nil
}

func (m Model) selected() (model.Item, bool) {
	if len(m.items) == 0 || m.cursor >= len(m.items) {
		return model.Item{}, false
	}
	return m.items[m.cursor], true
}

// isDone reports the done state shown for an item, counting a toggle that
// has not been saved yet.
func (m Model) isDone(item model.Item) bool {
	if v, ok := m.toggles.Pending(item.ID); ok {
		return v
	}
	return item.Done
}

func (m Model) doToggle() (Model, tea.Cmd) {
	item, ok := m.selected()
	if !ok || !item.IsTask() {
		return m, nil
	}
	done := !m.isDone(item)
	debounce.ToggleDone(m.toggles, m.deps.Store, item.ID, done)
	if done {
		m.message = "Completed " + item.Title
	} else {
		m.message = "Reopened " + item.Title
	}
	return m, nil
}

func (m Model) doMove(delta int) (Model, tea.Cmd) {
	if m.tab != TabProject {
		return m, nil
	}
	item, ok := m.selected()
	if !ok {
		return m, nil
	}
	from, to := m.cursor, m.cursor+delta
	if to < 0 || to >= len(m.items) {
		return m, nil
	}
	m.cursor = to
	projectID := m.projectID
	return m, func() tea.Msg {
		if _, err := m.deps.Order.Move(projectID, item.ID, from, to); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{}
	}
}

func (m Model) doDue(due time.Time, label string) (Model, tea.Cmd) {
	item, ok := m.selected()
	if !ok || !item.IsTask() {
		return m, nil
	}
	return m, func() tea.Msg {
		if _, err := m.deps.Store.Update(item.ID, model.WithDueDate(&due)); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: fmt.Sprintf("Scheduled %q for %s", item.Title, label)}
	}
}

func (m Model) doClearDue() (Model, tea.Cmd) {
	item, ok := m.selected()
	if !ok || item.DueDate == nil {
		return m, nil
	}
	return m, func() tea.Msg {
		if _, err := m.deps.Store.Update(item.ID, model.WithDueDate(nil)); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: "Cleared due date"}
	}
}

func (m Model) doDelete() (Model, tea.Cmd) {
	item, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.toggles.Cancel(item.ID)
	return m, func() tea.Msg {
		if err := m.deps.Store.Delete(item.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: fmt.Sprintf("Deleted %q", item.Title)}
	}
}
