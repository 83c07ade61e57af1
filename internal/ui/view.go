package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/table"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/zkx/internal/browser"
	"github.com/oakwood-commons/zkx/internal/formatter"
)

const (
	appTitle      = "zkx"
	minNodesWidth = 24
	cursorGlyph   = "█"
)

// Render returns the frame for the current session state.
func (m *Model) Render() string {
	sc := screenOf(m.session)
	var body string
	switch sc {
	case scrConnect, scrEditConnection:
		body = m.connectionView(sc)
	default:
		body = m.browserView(sc)
	}
	footer := m.help.ShortHelpView(m.keys.help(sc))
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m *Model) connectionView(sc screen) string {
	width := min(m.width-2, 60)
	ti := m.input(m.session.ConnectionInput(), width-4, sc == scrEditConnection)
	lines := []string{
		m.styles.title.Render(appTitle),
		"",
		m.styles.muted.Render("Connection string"),
		ti,
	}
	if sc == scrConnect {
		lines = append(lines, "", m.styles.text.Render("Press enter to connect, e to edit."))
	}
	return m.styles.activePanel.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) browserView(sc screen) string {
	tab := m.session.Active()
	bodyHeight := max(m.height-4, 8)

	nodesWidth := max(m.width/3, minNodesWidth)
	rightWidth := max(m.width-nodesWidth, minNodesWidth)

	left := m.nodesPanel(tab, sc, nodesWidth, bodyHeight)

	right := []string{m.messagePanel(tab, rightWidth)}
	if st := tab.Stat(); st != nil && sc == scrBrowsing {
		right = append(right, m.panel("Stat", false, rightWidth,
			strings.Join(formatter.AlignPairs(st.Pairs(), rightWidth-4), "\n")))
	}
	switch sc {
	case scrReading:
		right = append(right, m.dataPanel(tab, rightWidth))
	case scrEditing:
		right = append(right, m.panel("Edit "+tab.Path(), true, rightWidth, m.multiline(tab.DataBuf(), rightWidth-4)))
	case scrCreating:
		right = append(right, m.createPanel(tab, rightWidth))
	case scrDeleteTarget:
		right = append(right, m.panel("Delete", true, rightWidth,
			m.field("Path", tab.PathBuf(), rightWidth-4, true)))
	case scrConfirmDelete:
		prompt := fmt.Sprintf("Type %s to delete %s", browser.ConfirmationString, tab.DeleteTarget())
		right = append(right, m.panel("Confirm", true, rightWidth,
			m.styles.errorText.Render(prompt)+"\n"+m.input(tab.ConfirmBuf(), rightWidth-4, true)))
	case scrQuery:
		right = append(right, m.dataPanel(tab, rightWidth), m.queryPanel(tab, rightWidth))
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.JoinVertical(lipgloss.Left, right...))
	return lipgloss.JoinVertical(lipgloss.Left, m.tabBar(), columns)
}

func (m *Model) tabBar() string {
	tabs := m.session.Tabs()
	active := tabs.ActiveIndex()
	parts := []string{m.styles.title.Render(appTitle)}
	for i, title := range tabs.Titles() {
		if i == active {
			parts = append(parts, m.styles.activeTab.Render(title))
			continue
		}
		parts = append(parts, m.styles.tab.Render(title))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, " "))
}

func (m *Model) nodesPanel(tab *browser.Tab, sc screen, width, height int) string {
	inner := width - m.styles.panel.GetHorizontalFrameSize()
	children := tab.Children()
	rows := make([]table.Row, 0, len(children))
	for _, name := range children {
		rows = append(rows, table.Row{name})
	}
	idx, selected := tab.Selection()
	t := table.New(
		table.WithColumns([]table.Column{{Title: tab.Dir(), Width: inner}}),
		table.WithRows(rows),
		table.WithHeight(max(height-3, 1)),
		table.WithWidth(inner),
		table.WithStyles(m.styles.tableStyles(selected)),
	)
	if selected {
		t.SetCursor(idx)
	}
	body := t.View()
	if len(children) == 0 {
		body = m.styles.muted.Render("(no children)")
	}
	return m.panel("Nodes", sc == scrBrowsing, width, body)
}

func (m *Model) messagePanel(tab *browser.Tab, width int) string {
	msg := tab.Message()
	style := m.styles.text
	switch {
	case msg == "":
		msg = " "
	case strings.Contains(msg, "failed") || strings.HasPrefix(msg, "Failed") || strings.HasPrefix(msg, "Incorrect"):
		style = m.styles.errorText
	case strings.Contains(msg, "successfully") || strings.Contains(msg, "evaluated"):
		style = m.styles.successText
	}
	status := "stat: off"
	if tab.AutoLoadStat() {
		status = "stat: on"
	}
	head := clip(tab.Path(), width-4-len(status)-2) + "  " + m.styles.muted.Render(status)
	return m.panel("Message", false, width, head+"\n"+style.Render(clip(msg, width-4)))
}

func (m *Model) dataPanel(tab *browser.Tab, width int) string {
	d := tab.NodeData()
	title := fmt.Sprintf("Node Data (%s)", d.Kind())
	body := m.clipLines(d.Render(m.format), width-4)
	if res := tab.QueryResult(); res != nil {
		body += "\n\n" + m.styles.title.Render("Query result") + "\n" + m.clipLines(res.Render(m.format), width-4)
	}
	return m.panel(title, tab.Mode() == browser.ReadingData, width, body)
}

func (m *Model) createPanel(tab *browser.Tab, width int) string {
	onPath := tab.Mode() == browser.CreatingNodePath
	body := m.field("Path", tab.PathBuf(), width-4, onPath) + "\n\n" +
		m.styles.muted.Render("Data") + "\n" + m.multilineField(tab.DataBuf(), width-4, !onPath)
	return m.panel("Create", true, width, body)
}

func (m *Model) queryPanel(tab *browser.Tab, width int) string {
	expr := tab.QueryBuf()
	lines := []string{m.input(expr, width-4, true)}
	if m.query != nil {
		if crumbs := m.query.Breadcrumb(expr); len(crumbs) > 0 {
			lines = append(lines, m.styles.muted.Render(clip(strings.Join(crumbs, " › "), width-4)))
		}
		if sug := m.query.Suggest(expr); len(sug) > 0 {
			lines = append(lines, m.styles.muted.Render(clip(strings.Join(sug, "  "), width-4)))
		}
	}
	return m.panel("Query", true, width, strings.Join(lines, "\n"))
}

func (m *Model) panel(title string, active bool, width int, body string) string {
	st := m.styles.panel
	if active {
		st = m.styles.activePanel
	}
	inner := width - st.GetHorizontalFrameSize()
	return st.Width(width).Render(m.styles.title.Render(clip(title, inner)) + "\n" + body)
}

func (m *Model) field(label, value string, width int, focused bool) string {
	return m.styles.muted.Render(label) + "\n" + m.input(value, width, focused)
}

// input renders a single line buffer. The browser owns the value, so the
// textinput is rebuilt on every frame.
func (m *Model) input(value string, width int, focused bool) string {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.SetWidth(max(width-2, 1))
	ti.SetValue(value)
	if focused {
		ti.Focus()
	}
	return ti.View()
}

func (m *Model) multilineField(value string, width int, focused bool) string {
	if !focused {
		return m.clipLines(value, width)
	}
	return m.multiline(value, width)
}

func (m *Model) multiline(value string, width int) string {
	return m.clipLines(value, width-1) + m.styles.text.Render(cursorGlyph)
}

func (m *Model) clipLines(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = clip(l, width)
	}
	return strings.Join(lines, "\n")
}

func clip(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
