package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitline/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateAddHabit, constants.StateEditHabit:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = docStyle.Render(m.habitsModel.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	title := titleStyle.Render("habitline")
	date := statusStyle.Render(m.tracker.Now().Format("Mon Jan 2"))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, date)
}

func (m Model) viewStatus() string {
	if m.statusMsg == "" {
		return ""
	}
	if m.tracker.LastSaveError() != nil {
		return warningStyle.Render(m.statusMsg)
	}
	return statusStyle.Render(m.statusMsg)
}

func (m Model) viewConfirmDelete() string {
	name := "this habit"
	if h, err := m.tracker.Get(m.habitToDeleteID); err == nil {
		name = "\"" + h.Name + "\""
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete "+name+" and its whole history?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
