package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/podscout/podscout/internal/domain"
	"github.com/podscout/podscout/internal/tui/styles"
)

const chromeHeight = 4 // tabs + filter line + status + footer

func (m Model) View() string {
	if m.Width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	switch m.Mode {
	case ModeSubmit:
		b.WriteString(styles.TitleStyle.Render("Submit a podcast"))
		b.WriteString("\n\n")
		b.WriteString(m.renderForm())
	case ModeLibrary:
		b.WriteString(styles.TitleStyle.Render("Library"))
		b.WriteString("\n")
		b.WriteString(m.renderList())
	default:
		b.WriteString(m.renderTabs())
		b.WriteString("\n")
		if m.Filtering || m.filterQuery != "" {
			b.WriteString(m.FilterInput.View())
			b.WriteString("\n")
		}
		b.WriteString(m.renderList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(domain.Categories))
	for i, cat := range domain.Categories {
		if i == m.CategoryIdx {
			tabs = append(tabs, styles.ActiveTabStyle.Render(cat))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(cat))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return truncate(line, m.Width)
}

func (m Model) renderList() string {
	if len(m.visible) == 0 {
		if m.Loading {
			return styles.DimStyle.Render("  fetching...")
		}
		return styles.DimStyle.Render("  nothing here yet")
	}

	bodyHeight := m.Height - chromeHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	start := 0
	if m.Cursor >= bodyHeight {
		start = m.Cursor - bodyHeight + 1
	}
	end := start + bodyHeight
	if end > len(m.visible) {
		end = len(m.visible)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		r := m.visible[i]
		if r.Header != "" {
			b.WriteString(styles.SectionHeaderStyle.Render(r.Header))
		} else {
			b.WriteString(m.renderEpisode(r.Episode, i == m.Cursor))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderEpisode(ep *domain.Episode, selected bool) string {
	mark := " "
	switch {
	case ep.Enriched():
		mark = styles.ReadyMark
	case ep.HasSource():
		mark = styles.PendingMark
	}

	flags := ""
	if st, ok := m.statuses[ep.ID]; ok {
		if st.Liked {
			flags += " " + styles.LikedMark
		}
		if st.WatchLater {
			flags += " " + styles.WatchLaterMark
		}
	}

	line := fmt.Sprintf("%s %s %s%s", mark, ep.Title, styles.DimStyle.Render(ep.Author), flags)
	line = truncate(line, m.Width-2)
	if selected {
		return styles.SelectedItemStyle.Render(line)
	}
	return styles.NormalItemStyle.Render(line)
}

func (m Model) renderForm() string {
	var b strings.Builder
	for i := range m.Form.inputs {
		label := fieldLabels[i]
		if i == m.Form.focus {
			b.WriteString(styles.AccentStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(styles.FormLabelStyle.Render(label))
		b.WriteString(m.Form.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("tab: next field · ctrl+p: prefill from RSS · enter: submit · esc: cancel"))
	return b.String()
}

func (m Model) renderStatusBar() string {
	if m.StatusMsg == "" {
		if m.Loading {
			return styles.StatusBarStyle.Render(styles.DimStyle.Render("loading..."))
		}
		return ""
	}
	style := styles.SuccessStyle
	if m.StatusErr {
		style = styles.ErrorStyle
	}
	return styles.StatusBarStyle.Render(style.Render(truncate(m.StatusMsg, m.Width-2)))
}

func (m Model) renderFooter() string {
	var help string
	switch m.Mode {
	case ModeLibrary:
		help = "j/k: move · f: like · w: watch later · r: refresh · esc: back · q: quit"
	case ModeSubmit:
		help = ""
	default:
		more := ""
		if m.Feed.HasMore {
			more = "m: load more · "
		}
		help = "h/l: category · j/k: move · /: filter · " + more + "f: like · w: watch later · L: library · s: submit · q: quit"
	}
	return styles.FooterStyle.Render(truncate(help, m.Width))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
