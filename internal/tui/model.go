package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitline/internal/constants"
	tracker "github.com/julianstephens/habitline/internal/habits"
	"github.com/julianstephens/habitline/internal/tui/components/habits"
)

type HabitFormModel struct {
	Name        string
	Description string
}

type Model struct {
	tracker         *tracker.Tracker
	state           constants.SessionState
	keys            KeyMap
	help            help.Model
	habitsModel     habits.Model
	form            *huh.Form
	habitForm       *HabitFormModel
	editingID       string
	habitToDeleteID string
	statusMsg       string
	quitting        bool
	width           int
	height          int
}

func NewModel(t *tracker.Tracker) Model {
	return Model{
		tracker:     t,
		state:       constants.StateHabits,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(t.List(), t.Now(), 0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Quit, m.keys.Help, m.keys.Add, m.keys.CheckIn, m.keys.Edit, m.keys.Delete}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	actions := []key.Binding{m.keys.Add, m.keys.CheckIn, m.keys.Edit, m.keys.Delete}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads the list from the tracker and surfaces any failed save.
func (m *Model) refresh() {
	m.habitsModel.SetHabits(m.tracker.List(), m.tracker.Now())
	if err := m.tracker.LastSaveError(); err != nil {
		m.statusMsg = "⚠ Not saved: " + err.Error()
	}
}
