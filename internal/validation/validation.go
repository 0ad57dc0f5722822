package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/streak"
)

// MaxNameLength bounds habit names so list and log output stay readable.
const MaxNameLength = 80

// Conflict represents a detected integrity problem in the habit collection
type Conflict struct {
	Type        constants.ConflictType
	Description string
	HabitIDs    []string // IDs of habits involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string   // Human-readable description of the action
	SourceConflict Conflict // The conflict that triggered this fix action
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// ValidateHabitName trims name and rejects it when nothing is left.
func ValidateHabitName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", &apperrors.ValidationError{Field: "name", Message: "habit name is required"}
	}
	if len([]rune(trimmed)) > MaxNameLength {
		return "", &apperrors.ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("habit name must be at most %d characters", MaxNameLength),
		}
	}
	return trimmed, nil
}

// Validator checks a habit collection for integrity conflicts
type Validator struct {
	loc *time.Location
}

// New creates a Validator that evaluates calendar days in loc.
func New(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.Local
	}
	return &Validator{loc: loc}
}

// ValidateHabits checks the invariants the streak fields must satisfy.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	seen := make(map[string]int)
	for _, h := range habits {
		seen[h.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictDuplicateID,
				Description: fmt.Sprintf("Habit ID %s is used by %d habits", id, n),
				HabitIDs:    []string{id},
			})
		}
	}

	for _, h := range habits {
		if strings.TrimSpace(h.Name) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictEmptyName,
				Description: fmt.Sprintf("Habit %s has an empty name", h.ID),
				HabitIDs:    []string{h.ID},
			})
		}

		if h.CurrentStreak < 0 || h.BestStreak < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictNegativeStreak,
				Description: fmt.Sprintf("Habit %q has a negative streak (current %d, best %d)", h.Name, h.CurrentStreak, h.BestStreak),
				HabitIDs:    []string{h.ID},
			})
		}

		if h.BestStreak < h.CurrentStreak {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictBestBelowCurrent,
				Description: fmt.Sprintf("Habit %q has best streak %d below current streak %d", h.Name, h.BestStreak, h.CurrentStreak),
				HabitIDs:    []string{h.ID},
			})
		}

		if longest := streak.LongestStreak(h.CheckIns, v.loc); h.BestStreak > longest {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictBestAboveHistory,
				Description: fmt.Sprintf("Habit %q has best streak %d but its history supports at most %d in %s (kept, best streaks never decrease)", h.Name, h.BestStreak, longest, v.loc),
				HabitIDs:    []string{h.ID},
			})
		}

		latest, ok := latestCheckIn(h.CheckIns)
		switch {
		case ok && (h.LastCheckIn == nil || !h.LastCheckIn.Equal(latest)):
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictLastCheckIn,
				Description: fmt.Sprintf("Habit %q last check-in does not match its most recent check-in (%s)", h.Name, latest.Format(time.RFC3339)),
				HabitIDs:    []string{h.ID},
			})
		case !ok && h.LastCheckIn != nil:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictLastCheckIn,
				Description: fmt.Sprintf("Habit %q has a last check-in but no check-in history", h.Name),
				HabitIDs:    []string{h.ID},
			})
		}

		if !h.CreatedAt.IsZero() {
			for _, c := range h.CheckIns {
				if c.Before(h.CreatedAt) {
					result.Conflicts = append(result.Conflicts, Conflict{
						Type:        constants.ConflictCheckInBeforeNew,
						Description: fmt.Sprintf("Habit %q has a check-in at %s before it was created", h.Name, c.Format(time.RFC3339)),
						HabitIDs:    []string{h.ID},
					})
					break
				}
			}
		}
	}

	return result
}

// AutoFixStreaks repairs the conflicts that can be derived from check-in
// history. Duplicate IDs, empty names and check-ins predating creation need a
// human decision and are left alone. A best streak is only ever raised: one
// above the history may have been earned under another timezone setting.
// The returned slice is a modified copy.
func AutoFixStreaks(conflicts []Conflict, habits []models.Habit) ([]models.Habit, []FixAction) {
	fixed := make([]models.Habit, len(habits))
	index := make(map[string]int, len(habits))
	for i, h := range habits {
		fixed[i] = h.Clone()
		index[h.ID] = i
	}

	var actions []FixAction
	for _, c := range conflicts {
		if len(c.HabitIDs) != 1 {
			continue
		}
		i, ok := index[c.HabitIDs[0]]
		if !ok {
			continue
		}
		h := &fixed[i]

		switch c.Type {
		case constants.ConflictNegativeStreak:
			if h.CurrentStreak < 0 {
				h.CurrentStreak = 0
			}
			if h.BestStreak < 0 {
				h.BestStreak = 0
			}
			actions = append(actions, FixAction{Action: fmt.Sprintf("Reset negative streaks of %q to 0", h.Name), SourceConflict: c})
		case constants.ConflictBestBelowCurrent:
			h.BestStreak = streak.UpdateBestStreak(h.CurrentStreak, h.BestStreak)
			actions = append(actions, FixAction{Action: fmt.Sprintf("Raised best streak of %q to %d", h.Name, h.BestStreak), SourceConflict: c})
		case constants.ConflictLastCheckIn:
			if latest, ok := latestCheckIn(h.CheckIns); ok {
				h.LastCheckIn = &latest
			} else {
				h.LastCheckIn = nil
			}
			actions = append(actions, FixAction{Action: fmt.Sprintf("Synced last check-in of %q with its history", h.Name), SourceConflict: c})
		}
	}

	return fixed, actions
}

func latestCheckIn(checkIns []time.Time) (time.Time, bool) {
	if len(checkIns) == 0 {
		return time.Time{}, false
	}
	latest := checkIns[0]
	for _, c := range checkIns[1:] {
		if c.After(latest) {
			latest = c
		}
	}
	return latest, true
}
