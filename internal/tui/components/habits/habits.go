package habits

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	tracker "github.com/julianstephens/habitline/internal/habits"
	"github.com/julianstephens/habitline/internal/models"
)

type AddHabitMsg struct{}

type CheckInHabitMsg struct {
	ID string
}

type EditHabitMsg struct {
	Habit models.Habit
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit  models.Habit
	Status tracker.Status
}

func (i Item) Title() string {
	if i.Status.CheckedInToday {
		return "✓ " + i.Habit.Name
	}
	return "○ " + i.Habit.Name
}

func (i Item) Description() string {
	st := i.Status
	desc := fmt.Sprintf("🔥 %d | best %d", st.CurrentStreak, st.BestStreak)
	switch {
	case st.AtRisk:
		desc += " | at risk, check in today"
	case st.AtBest:
		desc += " | at your best!"
	case st.CheckedInToday:
		desc += " | done today"
	}
	if i.Habit.Description != "" {
		desc += " | " + i.Habit.Description
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add     key.Binding
	CheckIn key.Binding
	Edit    key.Binding
	Delete  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		CheckIn: key.NewBinding(
			key.WithKeys("c", " "),
			key.WithHelp("c/space", "check in"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, now time.Time, width, height int) Model {
	l := list.New(items(habits, now), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.CheckIn, keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.CheckIn, keys.Edit, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

// SetHabits refreshes the rows, evaluating each habit at now.
func (m *Model) SetHabits(habits []models.Habit, now time.Time) {
	m.list.SetItems(items(habits, now))
}

func items(habits []models.Habit, now time.Time) []list.Item {
	out := make([]list.Item, len(habits))
	for i, h := range habits {
		out[i] = Item{Habit: h, Status: tracker.Summarize(h, now)}
	}
	return out
}

// Selected returns the highlighted habit.
func (m Model) Selected() (models.Habit, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Habit, true
	}
	return models.Habit{}, false
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.CheckIn):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return CheckInHabitMsg{ID: h.ID} }
			}
		case key.Matches(msg, m.keys.Edit):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditHabitMsg{Habit: h} }
			}
		case key.Matches(msg, m.keys.Delete):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: h.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
