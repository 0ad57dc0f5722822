package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/models"
)

var testNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func healthyHabit(id, name string) models.Habit {
	last := testNow
	return models.Habit{
		ID:            id,
		Name:          name,
		CreatedAt:     testNow.AddDate(0, 0, -10),
		CheckIns:      []time.Time{testNow.AddDate(0, 0, -1), testNow},
		CurrentStreak: 2,
		BestStreak:    2,
		LastCheckIn:   &last,
	}
}

func hasConflict(result ValidationResult, ct constants.ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}

func TestValidateHabitName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "Read", want: "Read"},
		{name: "trimmed", input: "  Morning run \t", want: "Morning run"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   \n", wantErr: true},
		{name: "too long", input: strings.Repeat("x", MaxNameLength+1), wantErr: true},
		{name: "max length", input: strings.Repeat("x", MaxNameLength), want: strings.Repeat("x", MaxNameLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateHabitName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateHabitName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !apperrors.IsValidation(err) {
					t.Errorf("expected a validation error, got %T", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ValidateHabitName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateHabitsHealthy(t *testing.T) {
	v := New(time.UTC)
	result := v.ValidateHabits([]models.Habit{healthyHabit("a", "Read"), healthyHabit("b", "Run")})
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got:\n%s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report %q", result.FormatReport())
	}
}

func TestValidateHabitsDetectsConflicts(t *testing.T) {
	dup := healthyHabit("a", "Read")

	empty := healthyHabit("b", "  ")

	belowCurrent := healthyHabit("c", "Stretch")
	belowCurrent.BestStreak = 1

	aboveHistory := healthyHabit("d", "Write")
	aboveHistory.BestStreak = 9

	staleLast := healthyHabit("e", "Walk")
	earlier := testNow.AddDate(0, 0, -1)
	staleLast.LastCheckIn = &earlier

	beforeCreation := healthyHabit("f", "Cook")
	beforeCreation.CreatedAt = testNow

	negative := healthyHabit("g", "Swim")
	negative.CurrentStreak = -1

	v := New(time.UTC)
	result := v.ValidateHabits([]models.Habit{dup, dup, empty, belowCurrent, aboveHistory, staleLast, beforeCreation, negative})

	for _, ct := range []constants.ConflictType{
		constants.ConflictDuplicateID,
		constants.ConflictEmptyName,
		constants.ConflictBestBelowCurrent,
		constants.ConflictBestAboveHistory,
		constants.ConflictLastCheckIn,
		constants.ConflictCheckInBeforeNew,
		constants.ConflictNegativeStreak,
	} {
		if !hasConflict(result, ct) {
			t.Errorf("expected conflict %s, got:\n%s", ct, result.FormatReport())
		}
	}
}

func TestAutoFixStreaks(t *testing.T) {
	belowCurrent := healthyHabit("c", "Stretch")
	belowCurrent.BestStreak = 1

	aboveHistory := healthyHabit("d", "Write")
	aboveHistory.BestStreak = 9

	staleLast := healthyHabit("e", "Walk")
	staleLast.LastCheckIn = nil

	habits := []models.Habit{belowCurrent, aboveHistory, staleLast}
	v := New(time.UTC)
	result := v.ValidateHabits(habits)

	fixed, actions := AutoFixStreaks(result.Conflicts, habits)
	if len(actions) != 2 {
		t.Fatalf("expected 2 fix actions, got %d", len(actions))
	}

	if fixed[0].BestStreak != 2 {
		t.Errorf("expected best streak raised to 2, got %d", fixed[0].BestStreak)
	}
	if fixed[1].BestStreak != 9 || fixed[1].CurrentStreak != 2 {
		t.Errorf("expected streaks of %q kept, got current=%d best=%d", fixed[1].Name, fixed[1].CurrentStreak, fixed[1].BestStreak)
	}
	if fixed[2].LastCheckIn == nil || !fixed[2].LastCheckIn.Equal(testNow) {
		t.Errorf("expected last check-in synced to %v, got %v", testNow, fixed[2].LastCheckIn)
	}

	// Input slice is untouched.
	if habits[0].BestStreak != 1 || habits[2].LastCheckIn != nil {
		t.Error("AutoFixStreaks modified its input")
	}

	after := v.ValidateHabits(fixed)
	if len(after.Conflicts) != 1 || after.Conflicts[0].Type != constants.ConflictBestAboveHistory {
		t.Errorf("expected only the best-above-history report to remain, got:\n%s", after.FormatReport())
	}
}

func TestAutoFixNeverLowersBestAfterTimezoneChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// Consecutive evenings in New York land on the same UTC date.
	first := time.Date(2024, time.June, 1, 23, 50, 0, 0, ny)
	second := time.Date(2024, time.June, 2, 0, 10, 0, 0, ny)
	h := models.Habit{
		ID:            "r",
		Name:          "Read",
		CreatedAt:     first.Add(-time.Hour),
		CheckIns:      []time.Time{first, second},
		CurrentStreak: 2,
		BestStreak:    2,
		LastCheckIn:   &second,
	}

	result := New(time.UTC).ValidateHabits([]models.Habit{h})
	if !hasConflict(result, constants.ConflictBestAboveHistory) {
		t.Fatalf("expected best-above-history to be reported, got:\n%s", result.FormatReport())
	}

	fixed, actions := AutoFixStreaks(result.Conflicts, []models.Habit{h})
	if len(actions) != 0 {
		t.Errorf("expected no fix actions, got %+v", actions)
	}
	if fixed[0].BestStreak != 2 {
		t.Errorf("best streak lowered to %d", fixed[0].BestStreak)
	}
	if fixed[0].CurrentStreak != 2 {
		t.Errorf("current streak changed to %d", fixed[0].CurrentStreak)
	}

	if got := New(ny).ValidateHabits([]models.Habit{h}); got.HasConflicts() {
		t.Errorf("expected no conflicts in the timezone the streak was earned in, got:\n%s", got.FormatReport())
	}
}
