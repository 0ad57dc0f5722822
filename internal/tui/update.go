package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitline/internal/constants"
	apperrors "github.com/julianstephens/habitline/internal/errors"
	tracker "github.com/julianstephens/habitline/internal/habits"
	"github.com/julianstephens/habitline/internal/tui/components/habits"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		h, v := docStyle.GetFrameSize()
		m.habitsModel.SetSize(msg.Width-h, msg.Height-v-4)
		m.help.Width = msg.Width
	}

	switch m.state {
	case constants.StateAddHabit, constants.StateEditHabit:
		return m, m.updateForm(msg)
	case constants.StateConfirmDelete:
		m.updateConfirmDelete(msg)
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case habits.AddHabitMsg:
		m.habitForm = &HabitFormModel{}
		m.editingID = ""
		m.form = NewHabitForm(m.habitForm)
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habits.EditHabitMsg:
		m.habitForm = &HabitFormModel{Name: msg.Habit.Name, Description: msg.Habit.Description}
		m.editingID = msg.Habit.ID
		m.form = NewHabitForm(m.habitForm)
		m.state = constants.StateEditHabit
		return m, m.form.Init()

	case habits.CheckInHabitMsg:
		h, err := m.tracker.CheckIn(msg.ID)
		if err != nil {
			m.statusMsg = "❌ " + err.Error()
			return m, nil
		}
		st := m.tracker.Status(h)
		m.statusMsg = fmt.Sprintf("✓ %s: %d-day streak", h.Name, st.CurrentStreak)
		m.refresh()
		return m, nil

	case habits.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.state = constants.StateConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	m.habitsModel, cmd = m.habitsModel.Update(msg)
	return m, cmd
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateHabits
		m.form = nil
		m.editingID = ""
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		err := m.submitHabitForm()
		if apperrors.IsValidation(err) {
			// Reopen the form with the entered values so the user can correct them.
			m.statusMsg = "❌ " + err.Error()
			m.form = NewHabitForm(m.habitForm)
			return tea.Batch(cmd, m.form.Init())
		}
		if err != nil {
			m.statusMsg = "❌ " + err.Error()
		}
		m.state = constants.StateHabits
		m.form = nil
		m.editingID = ""
	case huh.StateAborted:
		m.state = constants.StateHabits
		m.form = nil
		m.editingID = ""
	}
	return cmd
}

// submitHabitForm creates a habit or applies the edit held in habitForm.
func (m *Model) submitHabitForm() error {
	if m.editingID == "" {
		h, err := m.tracker.Create(m.habitForm.Name, m.habitForm.Description)
		if err != nil {
			return err
		}
		m.statusMsg = "✓ Added " + h.Name
		m.refresh()
		return nil
	}

	name := m.habitForm.Name
	desc := m.habitForm.Description
	h, err := m.tracker.Update(m.editingID, tracker.Patch{Name: &name, Description: &desc})
	if err != nil {
		return err
	}
	m.editingID = ""
	m.statusMsg = "✓ Updated " + h.Name
	m.refresh()
	return nil
}

func (m *Model) updateConfirmDelete(msg tea.Msg) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}
	switch keyMsg.String() {
	case "y", "Y":
		if m.habitToDeleteID != "" {
			if err := m.tracker.Delete(m.habitToDeleteID); err != nil {
				m.statusMsg = "❌ " + err.Error()
			} else {
				m.statusMsg = "✓ Habit deleted"
				m.refresh()
			}
			m.habitToDeleteID = ""
		}
		m.state = constants.StateHabits
	case "n", "N", "esc":
		m.habitToDeleteID = ""
		m.state = constants.StateHabits
	}
}

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
		),
	).WithTheme(huh.ThemeDracula())
}
