package ui

import (
	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/table"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/zkx/internal/config"
)

// styles are the lipgloss styles derived from a theme.
type styles struct {
	noColor bool

	panel       lipgloss.Style
	activePanel lipgloss.Style
	title       lipgloss.Style
	tab         lipgloss.Style
	activeTab   lipgloss.Style
	muted       lipgloss.Style
	text        lipgloss.Style
	errorText   lipgloss.Style
	successText lipgloss.Style
	selected    lipgloss.Style
}

func newStyles(th config.Theme, noColor bool) styles {
	border := lipgloss.RoundedBorder()
	base := lipgloss.NewStyle()
	if noColor {
		return styles{
			noColor:     true,
			panel:       base.Border(border).Padding(0, 1),
			activePanel: base.Border(lipgloss.DoubleBorder()).Padding(0, 1),
			title:       base.Bold(true),
			tab:         base.Padding(0, 1),
			activeTab:   base.Padding(0, 1).Reverse(true),
			muted:       base,
			text:        base,
			errorText:   base.Bold(true),
			successText: base,
			selected:    base.Reverse(true),
		}
	}
	c := lipgloss.Color
	return styles{
		panel:       base.Border(border).BorderForeground(c(th.Border)).Padding(0, 1),
		activePanel: base.Border(border).BorderForeground(c(th.Accent)).Padding(0, 1),
		title:       base.Bold(true).Foreground(c(th.Accent)),
		tab:         base.Padding(0, 1).Foreground(c(th.Muted)),
		activeTab:   base.Padding(0, 1).Bold(true).Foreground(c(th.SelectedFg)).Background(c(th.SelectedBg)),
		muted:       base.Foreground(c(th.Muted)),
		text:        base.Foreground(c(th.Text)),
		errorText:   base.Foreground(c(th.Error)),
		successText: base.Foreground(c(th.Success)),
		selected:    base.Bold(true).Foreground(c(th.SelectedFg)).Background(c(th.SelectedBg)),
	}
}

// tableStyles styles the children list. The cursor row is only highlighted
// when the tab has a selection.
func (s styles) tableStyles(hasSelection bool) table.Styles {
	ts := table.DefaultStyles()
	ts.Header = s.title.Padding(0, 0)
	ts.Cell = s.text.Padding(0, 0)
	ts.Selected = s.selected
	if !hasSelection {
		ts.Selected = lipgloss.NewStyle()
	}
	return ts
}

func (s styles) helpModel() help.Model {
	h := help.New()
	if s.noColor {
		h.Styles = help.Styles{}
		return h
	}
	h.Styles.ShortKey = s.title
	h.Styles.ShortDesc = s.muted
	h.Styles.ShortSeparator = s.muted
	return h
}
