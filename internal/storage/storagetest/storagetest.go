// Package storagetest has fixtures shared by the store round-trip tests.
package storagetest

import (
	"testing"
	"time"

	"github.com/julianstephens/habitline/internal/models"
)

// SampleHabits returns a collection covering the awkward cases: a habit with
// no check-ins, duplicate same-day check-ins, and mixed UTC offsets.
func SampleHabits() []models.Habit {
	est := time.FixedZone("EST", -5*60*60)
	ist := time.FixedZone("IST", 5*60*60+30*60)

	created := time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC)
	c1 := time.Date(2024, time.January, 3, 7, 15, 30, 123456789, est)
	c2 := time.Date(2024, time.January, 3, 21, 0, 0, 0, est)
	c3 := time.Date(2024, time.January, 4, 18, 45, 0, 500, ist)

	return []models.Habit{
		{
			ID:            "5b8f7a2e-7c1d-4f7e-9a53-0d6f1b2c3a4d",
			Name:          "Meditate",
			Description:   "Ten minutes, morning",
			CreatedAt:     created,
			CheckIns:      []time.Time{c1, c2, c3},
			CurrentStreak: 2,
			BestStreak:    2,
			LastCheckIn:   &c3,
		},
		{
			ID:          "0e4c6d1a-2b3f-4a5c-8d7e-9f0a1b2c3d4e",
			Name:        "Journal",
			CreatedAt:   created.Add(time.Hour),
			CheckIns:    []time.Time{},
			BestStreak:  0,
			LastCheckIn: nil,
		},
	}
}

// AssertSameHabits fails unless got matches want field by field, comparing
// timestamps as instants.
func AssertSameHabits(t *testing.T, want, got []models.Habit) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d habits, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.ID != w.ID || g.Name != w.Name || g.Description != w.Description {
			t.Errorf("habit %d: got %s/%q/%q, want %s/%q/%q", i, g.ID, g.Name, g.Description, w.ID, w.Name, w.Description)
		}
		if !g.CreatedAt.Equal(w.CreatedAt) {
			t.Errorf("habit %s: created_at %v, want %v", w.ID, g.CreatedAt, w.CreatedAt)
		}
		if g.CurrentStreak != w.CurrentStreak || g.BestStreak != w.BestStreak {
			t.Errorf("habit %s: streaks %d/%d, want %d/%d", w.ID, g.CurrentStreak, g.BestStreak, w.CurrentStreak, w.BestStreak)
		}
		if len(g.CheckIns) != len(w.CheckIns) {
			t.Errorf("habit %s: %d check-ins, want %d", w.ID, len(g.CheckIns), len(w.CheckIns))
			continue
		}
		for j := range w.CheckIns {
			if !g.CheckIns[j].Equal(w.CheckIns[j]) {
				t.Errorf("habit %s: check-in %d = %v, want %v", w.ID, j, g.CheckIns[j], w.CheckIns[j])
			}
		}
		switch {
		case w.LastCheckIn == nil && g.LastCheckIn != nil:
			t.Errorf("habit %s: unexpected last check-in %v", w.ID, *g.LastCheckIn)
		case w.LastCheckIn != nil && g.LastCheckIn == nil:
			t.Errorf("habit %s: last check-in missing", w.ID)
		case w.LastCheckIn != nil && !g.LastCheckIn.Equal(*w.LastCheckIn):
			t.Errorf("habit %s: last check-in %v, want %v", w.ID, *g.LastCheckIn, *w.LastCheckIn)
		}
	}
}
