// Package habits holds the habit record operations and the Tracker that owns
// the habit collection on behalf of the presentation layers.
//
// Every operation that changes CheckIns recomputes CurrentStreak and
// BestStreak before returning. Callers never set those fields directly.
package habits

import (
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/streak"
	"github.com/julianstephens/habitline/internal/validation"
)

// Patch carries the editable fields of a habit. Nil fields are left unchanged.
type Patch struct {
	Name        *string
	Description *string
}

// New builds a habit with an empty history and zeroed streaks.
func New(id, name, description string, now time.Time) (models.Habit, error) {
	trimmed, err := validation.ValidateHabitName(name)
	if err != nil {
		return models.Habit{}, err
	}

	return models.Habit{
		ID:          id,
		Name:        trimmed,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		CheckIns:    []time.Time{},
	}, nil
}

// CheckIn appends now to the history and recomputes the streak fields.
// Repeats on the same calendar day are recorded but do not change the streak.
// h is not modified.
func CheckIn(h models.Habit, now time.Time) models.Habit {
	next := h.Clone()
	next.CheckIns = append(next.CheckIns, now)
	at := now
	next.LastCheckIn = &at
	return recompute(next, now)
}

// Update applies p to the name and description. Streak fields and history
// are never touched. On error h is returned unchanged.
func Update(h models.Habit, p Patch) (models.Habit, error) {
	next := h.Clone()
	if p.Name != nil {
		name, err := validation.ValidateHabitName(*p.Name)
		if err != nil {
			return h, err
		}
		next.Name = name
	}
	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
	}
	return next, nil
}

func recompute(h models.Habit, now time.Time) models.Habit {
	h.CurrentStreak = streak.CurrentStreakAt(h.CheckIns, now)
	h.BestStreak = streak.UpdateBestStreak(h.CurrentStreak, h.BestStreak)
	return h
}

// Status is a read-only view of a habit evaluated at a given moment. Stored
// streak fields reflect the last mutation; Status reflects now.
type Status struct {
	CheckedInToday bool
	CurrentStreak  int
	BestStreak     int
	LongestStreak  int
	TotalCheckIns  int
	DistinctDays   int
	// AtRisk is set when a streak is alive but today has no check-in yet.
	AtRisk bool
	// AtBest is set when the live streak is non-zero and matches the best.
	AtBest bool
}

// Summarize evaluates h at now without modifying it.
func Summarize(h models.Habit, now time.Time) Status {
	loc := now.Location()
	current := streak.CurrentStreakAt(h.CheckIns, now)
	checked := streak.HasCheckedInOn(h.CheckIns, now)
	best := streak.UpdateBestStreak(current, h.BestStreak)

	return Status{
		CheckedInToday: checked,
		CurrentStreak:  current,
		BestStreak:     best,
		LongestStreak:  streak.LongestStreak(h.CheckIns, loc),
		TotalCheckIns:  len(h.CheckIns),
		DistinctDays:   streak.DistinctDays(h.CheckIns, loc),
		AtRisk:         current > 0 && !checked,
		AtBest:         current > 0 && current >= best,
	}
}
