package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const labelWidth = 12

type styles struct {
	title  lipgloss.Style
	muted  lipgloss.Style
	active lipgloss.Style
	ok     lipgloss.Style
	failed lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		active: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		failed: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (s styles) forState(state fileState) lipgloss.Style {
	switch state {
	case stateQueued:
		return s.muted
	case stateDone, stateCached:
		return s.ok
	case stateFailed:
		return s.failed
	}
	return s.active
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(20, m.width-labelWidth-4)
	hidden := 0
	for _, row := range m.rows {
		if len(m.rows) > maxRows && row.state != stateActive && row.state != stateFailed {
			hidden++
			continue
		}
		label := m.styles.forState(row.state).Render(fmt.Sprintf("%*s", labelWidth, row.label))
		fmt.Fprintf(&b, "  %s %s\n", label, truncate(row.path, nameWidth))
	}
	if hidden > 0 {
		b.WriteString(m.styles.muted.Render(fmt.Sprintf("  %*s %d more", labelWidth, "", hidden)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(m.summary()))
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) header() string {
	head := m.title
	if m.phase != "" {
		head += " (" + m.phase + ")"
	}
	if m.done {
		return "done: " + head
	}
	return m.spinner.View() + " " + head
}

func (m *progressModel) summary() string {
	c := m.tally()
	finished := c[stateDone] + c[stateCached] + c[stateFailed]
	return fmt.Sprintf("%d/%d documents, %d cached, %d failed", finished, len(m.rows), c[stateCached], c[stateFailed])
}

// truncate shortens value to at most width terminal cells. It ends with
// "..." unless nothing of value would fit before it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if out := runewidth.Truncate(value, width, "..."); out != "..." {
		return out
	}
	return runewidth.Truncate(value, width, "")
}
