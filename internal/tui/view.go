package tui

import (
	"fmt"
	"strings"

	"kanban-board-api/internal/board"
	"kanban-board-api/internal/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	columnStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedStyle  = columnStyle.BorderForeground(lipgloss.Color("12"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cardStyle     = lipgloss.NewStyle().PaddingLeft(1)
	selectedStyle = lipgloss.NewStyle().PaddingLeft(1).Reverse(true)
	liftedStyle   = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("11")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.store.Snapshot()

	header := headerStyle.Render("Kanban Board")
	if snap.Tasks.Loading || snap.Columns.Loading {
		header += " " + m.spinner.View() + " loading"
	}

	var body string
	switch m.mode {
	case modeSubtasks, modeSubtaskForm:
		body = m.renderSubtasks()
	default:
		body = m.renderBoard(snap)
	}

	lines := []string{header}
	if banner := errorBanner(snap); banner != "" {
		lines = append(lines, errorStyle.Render(banner))
	}
	lines = append(lines, body)

	switch m.mode {
	case modeSearch:
		lines = append(lines, m.search.View())
	case modeForm:
		lines = append(lines,
			fmt.Sprintf("New task in %s", columnTitle(snap, m.currentColumn())),
			m.title.View(),
			m.desc.View(),
		)
		if m.submitting {
			lines = append(lines, dimStyle.Render("saving..."))
		} else {
			lines = append(lines, dimStyle.Render("enter save • tab switch field • esc cancel"))
		}
	case modeSubtaskForm:
		lines = append(lines, m.subTitle.View())
	default:
		if q := m.search.Value(); q != "" {
			lines = append(lines, dimStyle.Render("search: "+q))
		}
	}

	if m.flash != "" {
		if m.flashErr {
			lines = append(lines, errorStyle.Render(m.flash))
		} else {
			lines = append(lines, statusStyle.Render(m.flash))
		}
	}

	if m.mode == modeSubtasks {
		lines = append(lines, m.help.View(m.subKeys))
	} else {
		lines = append(lines, m.help.View(m.keys))
	}
	return strings.Join(lines, "\n")
}

func errorBanner(snap board.State) string {
	var parts []string
	if snap.Tasks.Error != "" {
		parts = append(parts, snap.Tasks.Error)
	}
	if snap.Columns.Error != "" && snap.Columns.Error != snap.Tasks.Error {
		parts = append(parts, snap.Columns.Error)
	}
	return strings.Join(parts, " | ")
}

func columnTitle(snap board.State, id models.ColumnID) string {
	for _, c := range snap.Columns.Items {
		if c.ID == id {
			return c.Title
		}
	}
	for _, c := range models.DefaultColumns() {
		if c.ID == id {
			return c.Title
		}
	}
	return string(id)
}

func (m Model) columnWidth(n int) int {
	w := m.width/n - 4
	if w < 16 {
		w = 16
	}
	return w
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func (m Model) renderBoard(snap board.State) string {
	active, lifted := m.ctrl.Active()
	width := m.columnWidth(len(models.BoardColumns))

	cols := make([]string, 0, len(models.BoardColumns))
	for i, id := range models.BoardColumns {
		all := board.ColumnTasks(snap.Tasks.Items, id, m.search.Value())
		visible := m.visibleTasks(id)
		pager := m.pagers[id]

		lines := []string{titleStyle.Render(fmt.Sprintf("%s (%d)", columnTitle(snap, id), len(all)))}
		if len(visible) == 0 {
			lines = append(lines, dimStyle.Render("no tasks"))
		}
		for row, t := range visible {
			label := truncate(t.Title, width-2)
			switch {
			case lifted && t.ID.Equal(active.ID):
				lines = append(lines, liftedStyle.Render("» "+label))
			case i == m.col && row == m.row:
				lines = append(lines, selectedStyle.Render(label))
			default:
				lines = append(lines, cardStyle.Render(label))
			}
			if n := len(t.Subtasks); n > 0 {
				lines = append(lines, dimStyle.Render(fmt.Sprintf("   %d subtasks", n)))
			}
		}
		lines = append(lines, dimStyle.Render(fmt.Sprintf("page %d/%d", pager.Page(), pager.TotalPages())))

		style := columnStyle
		if i == m.col {
			style = focusedStyle
		}
		cols = append(cols, style.Width(width).Render(strings.Join(lines, "\n")))
	}

	out := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	if lifted {
		out += "\n" + liftedStyle.Render(fmt.Sprintf("moving %q: pick a column and press space, esc to cancel", active.Title))
	}
	return out
}

func (m Model) renderSubtasks() string {
	if m.subtasks == nil {
		return ""
	}
	parent, ok := m.subtasks.Parent()
	if !ok {
		return errorStyle.Render("task no longer exists, press esc")
	}

	width := m.columnWidth(len(models.SubTaskStatuses))
	cols := make([]string, 0, len(models.SubTaskStatuses))
	for i, status := range models.SubTaskStatuses {
		subs := m.subtasks.Column(status, m.search.Value())
		lines := []string{titleStyle.Render(fmt.Sprintf("%s (%d)", status, len(subs)))}
		if len(subs) == 0 {
			lines = append(lines, dimStyle.Render("empty"))
		}
		for row, st := range subs {
			label := truncate(st.Title, width-2)
			switch {
			case st.ID == m.subLifted:
				lines = append(lines, liftedStyle.Render("» "+label))
			case i == m.subCol && row == m.subRow:
				lines = append(lines, selectedStyle.Render(label))
			default:
				lines = append(lines, cardStyle.Render(label))
			}
		}
		style := columnStyle
		if i == m.subCol {
			style = focusedStyle
		}
		cols = append(cols, style.Width(width).Render(strings.Join(lines, "\n")))
	}

	head := titleStyle.Render(parent.Title) + dimStyle.Render(fmt.Sprintf("  [%s]", parent.Column))
	if parent.Description != "" {
		head += "\n" + dimStyle.Render(parent.Description)
	}
	return head + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
