package habits

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitline/internal/models"
)

func TestItemRendering(t *testing.T) {
	now := time.Date(2024, time.July, 3, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	h := models.Habit{
		ID:            "habit-0001",
		Name:          "Read",
		CheckIns:      []time.Time{yesterday},
		CurrentStreak: 1,
		BestStreak:    1,
		LastCheckIn:   &yesterday,
	}

	m := New([]models.Habit{h}, now, 80, 20)
	item, ok := m.list.SelectedItem().(Item)
	require.True(t, ok)

	assert.Equal(t, "○ Read", item.Title())
	assert.Contains(t, item.Description(), "at risk")
	assert.Equal(t, "Read", item.FilterValue())

	h.CheckIns = append(h.CheckIns, now)
	m.SetHabits([]models.Habit{h}, now)
	item = m.list.SelectedItem().(Item)
	assert.Equal(t, "✓ Read", item.Title())
	assert.NotContains(t, item.Description(), "at risk")
}

func TestKeysEmitMessages(t *testing.T) {
	now := time.Date(2024, time.July, 3, 12, 0, 0, 0, time.UTC)
	h := models.Habit{ID: "habit-0001", Name: "Read"}
	m := New([]models.Habit{h}, now, 80, 20)

	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"a", AddHabitMsg{}},
		{"c", CheckInHabitMsg{ID: h.ID}},
		{"d", DeleteHabitMsg{ID: h.ID}},
	}
	for _, tt := range tests {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)})
		require.NotNil(t, cmd, tt.key)
		assert.Equal(t, tt.want, cmd(), tt.key)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.NotNil(t, cmd)
	edit, ok := cmd().(EditHabitMsg)
	require.True(t, ok)
	assert.Equal(t, h.ID, edit.Habit.ID)
}

func TestEmptyListView(t *testing.T) {
	m := New(nil, time.Now(), 80, 20)

	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "No habits yet")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if cmd != nil {
		_, isCheckIn := cmd().(CheckInHabitMsg)
		assert.False(t, isCheckIn)
	}
}
