package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/baiirun/things/internal/dates"
	"github.com/baiirun/things/internal/model"
	"github.com/baiirun/things/internal/progress"
)

// Row icons
const (
	iconOpen    = "○"
	iconDone    = "●"
	iconProject = "◔"
)

// Layout constants
const (
	minSplitWidth  = 80 // Minimum terminal width for split view
	contentPadding = 2
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	bucketColors = map[dates.Bucket]lipgloss.Color{
		dates.BucketTodayMorning:     lipgloss.Color("214"),
		dates.BucketToday:            lipgloss.Color("214"),
		dates.BucketTonight:          lipgloss.Color("141"),
		dates.BucketTomorrow:         lipgloss.Color("39"),
		dates.BucketDayAfterTomorrow: lipgloss.Color("39"),
		dates.BucketThisWeek:         lipgloss.Color("252"),
		dates.BucketLater:            lipgloss.Color("245"),
	}

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	if m.width >= minSplitWidth {
		b.WriteString(m.splitView())
	} else {
		b.WriteString(m.listPane(max(40, m.width-contentPadding*2), max(15, m.height-8)))
	}

	if m.inputMode != InputNone {
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	} else if m.message != "" {
		b.WriteString("\n")
		b.WriteString(messageStyle.Render(m.message))
	}

	padStyle := lipgloss.NewStyle().
		PaddingLeft(contentPadding).
		PaddingRight(contentPadding).
		PaddingTop(1)
	return padStyle.Render(b.String())
}

// splitView renders the list on the left and the selected item on the right.
func (m Model) splitView() string {
	gap := 1
	borderChars := 4
	available := m.width - borderChars - gap - contentPadding*2
	leftWidth := available / 2
	rightWidth := available - leftWidth

	height := max(10, m.height-4)

	left := normalizeLines(strings.Split(m.listPane(leftWidth, height), "\n"), height, leftWidth)
	right := normalizeLines(strings.Split(m.detailPane(rightWidth), "\n"), height, rightWidth)

	leftBox := buildBorderedBox(left, leftWidth, lipgloss.Color("39"))
	rightBox := buildBorderedBox(right, rightWidth, lipgloss.Color("241"))
	return lipgloss.JoinHorizontal(lipgloss.Top, leftBox, strings.Repeat(" ", gap), rightBox)
}

func (m Model) header() string {
	var tabs []string
	for _, t := range []Tab{TabInbox, TabToday, TabProjects} {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == m.tab || (t == TabProjects && m.tab == TabProject) {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	line := titleStyle.Render("things") + "  " + strings.Join(tabs, "  ")

	switch m.tab {
	case TabProject:
		sum := m.summary()
		line += "\n" + detailLabelStyle.Render(m.projectTitle) + "  " +
			progressBar(sum, 10) + dimStyle.Render(fmt.Sprintf(" %d/%d", sum.Completed, sum.Total))
	case TabSearch:
		line += "\n" + detailLabelStyle.Render(fmt.Sprintf("Search %q", m.search))
	}
	return line
}

func (m Model) summary() progress.Summary {
	for _, p := range m.deps.Views.AllProjects() {
		if p.ID == m.projectID {
			return m.deps.Progress.Summarize(p)
		}
	}
	return progress.Summary{}
}

func (m Model) listPane(width, height int) string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	rows := max(3, height-6)
	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("Nothing here"))
		b.WriteString("\n")
	} else {
		start := 0
		if m.cursor >= rows {
			start = m.cursor - rows + 1
		}
		end := min(start+rows, len(m.items))
		for i := start; i < end; i++ {
			item := m.items[i]
			if i == m.cursor {
				b.WriteString(selectedRowStyle.Width(width).Render(m.rowPlain(item, width)))
			} else {
				b.WriteString(lipgloss.NewStyle().Width(width).Render(m.rowStyled(item, width)))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	switch m.tab {
	case TabProjects:
		return "j/k:nav enter:open n:new r:rename D:delete /:search 1-3:tabs q:quit"
	case TabProject:
		return "j/k:nav J/K:move x:done n:new t:today e:tonight c:clear D:delete esc:back"
	}
	return "j/k:nav x:done n:new t:today e:tonight c:clear r:rename D:delete /:search q:quit"
}

// rowParts returns the icon, title and trailing annotation of a row.
func (m Model) rowParts(item model.Item) (icon, title, note string) {
	title = item.Title
	if title == "" {
		title = "(untitled)"
	}
	switch {
	case item.IsProject():
		sum := m.deps.Progress.Summarize(item)
		return iconProject, title, fmt.Sprintf("%d/%d", sum.Completed, sum.Total)
	case m.isDone(item):
		icon = iconDone
	default:
		icon = iconOpen
	}
	if item.DueDate != nil {
		note = m.deps.Locale.Label(*item.DueDate, m.deps.Views.Now())
	}
	return icon, title, note
}

// rowPlain returns a row without ANSI styling, for the highlighted line.
func (m Model) rowPlain(item model.Item, width int) string {
	icon, title, note := m.rowParts(item)
	return fmt.Sprintf("%s %s", icon, fitTitle(title, note, width))
}

func (m Model) rowStyled(item model.Item, width int) string {
	icon, title, note := m.rowParts(item)
	if icon == iconDone {
		icon = doneStyle.Render(icon)
	}
	line := fitTitle(title, "", width-lipgloss.Width(note)-1)
	if note == "" {
		return icon + " " + line
	}
	style := dimStyle
	if item.DueDate != nil && !item.IsProject() {
		now := m.deps.Views.Now()
		if dates.DayOffset(*item.DueDate, now) < 0 {
			style = overdueStyle
		} else {
			style = lipgloss.NewStyle().Foreground(bucketColors[dates.Classify(*item.DueDate, now)])
		}
	}
	return icon + " " + line + " " + style.Render(note)
}

// fitTitle pads or truncates title so that title plus note fill width.
func fitTitle(title, note string, width int) string {
	room := width - 2
	if note != "" {
		room -= lipgloss.Width(note) + 1
	}
	room = max(room, 10)
	if lipgloss.Width(title) > room {
		r := []rune(title)
		for len(r) > 0 && lipgloss.Width(string(r))+3 > room {
			r = r[:len(r)-1]
		}
		title = string(r) + "..."
	}
	title = padToWidth(title, room)
	if note == "" {
		return title
	}
	return title + " " + note
}

func (m Model) detailPane(width int) string {
	item, ok := m.selected()
	if !ok {
		return dimStyle.Render("Nothing selected")
	}
	now := m.deps.Views.Now()
	loc := m.deps.Locale

	var lines []string
	lines = append(lines, detailLabelStyle.Render(string(item.Kind)), item.Title, "")

	if item.IsTask() {
		state := "open"
		if m.isDone(item) {
			state = "done"
		}
		if _, pending := m.toggles.Pending(item.ID); pending {
			state += " (saving)"
		}
		lines = append(lines, detailLabelStyle.Render("Status: ")+state)
	}
	if item.DueDate != nil {
		lines = append(lines, detailLabelStyle.Render("Due: ")+
			loc.FormatSpecial(*item.DueDate, now)+dimStyle.Render(" "+item.DueDate.Format("15:04")))
	}
	if item.IsProject() {
		sum := m.deps.Progress.Summarize(item)
		lines = append(lines, detailLabelStyle.Render("Progress: ")+
			progressBar(sum, 10)+fmt.Sprintf(" %d/%d", sum.Completed, sum.Total))
	}
	if item.Details != "" {
		lines = append(lines, "")
		for _, l := range strings.Split(item.Details, "\n") {
			lines = append(lines, wrap(l, width)...)
		}
	}
	lines = append(lines, "", dimStyle.Render("created "+loc.FormatAbsolute(item.CreatedAt)))
	return strings.Join(lines, "\n")
}

func progressBar(sum progress.Summary, width int) string {
	filled := int(sum.Progress * float64(width))
	return doneStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

// wrap splits s into lines of at most width runes.
func wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	r := []rune(s)
	var out []string
	for len(r) > width {
		out = append(out, string(r[:width]))
		r = r[width:]
	}
	return append(out, string(r))
}

// normalizeLines ensures the slice has exactly height lines, each padded to width.
func normalizeLines(lines []string, height, width int) []string {
	result := make([]string, height)
	for i := range height {
		if i < len(lines) {
			result[i] = padToWidth(lines[i], width)
		} else {
			result[i] = strings.Repeat(" ", width)
		}
	}
	return result
}

// buildBorderedBox creates a box with rounded borders around content lines.
func buildBorderedBox(lines []string, contentWidth int, borderColor lipgloss.Color) string {
	style := lipgloss.NewStyle().Foreground(borderColor)
	horizontal := strings.Repeat(style.Render("─"), contentWidth)
	vertical := style.Render("│")

	var b strings.Builder
	b.WriteString(style.Render("╭") + horizontal + style.Render("╮") + "\n")
	for _, line := range lines {
		b.WriteString(vertical + line + vertical + "\n")
	}
	b.WriteString(style.Render("╰") + horizontal + style.Render("╯"))
	return b.String()
}

// padToWidth pads s with spaces to width visible cells.
func padToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
