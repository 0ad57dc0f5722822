package models

import "time"

// Habit represents a recurring practice and its check-in history.
//
// CurrentStreak and BestStreak are derived from CheckIns and stored alongside
// them. They must only change through the operations in package habits, which
// recompute them whenever CheckIns changes.
type Habit struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	CreatedAt     time.Time   `json:"created_at"`
	CheckIns      []time.Time `json:"check_ins"`
	CurrentStreak int         `json:"current_streak"`
	BestStreak    int         `json:"best_streak"`
	LastCheckIn   *time.Time  `json:"last_check_in,omitempty"`
}

// Clone returns a deep copy so callers never share the CheckIns backing array.
func (h Habit) Clone() Habit {
	c := h
	if h.CheckIns != nil {
		c.CheckIns = make([]time.Time, len(h.CheckIns))
		copy(c.CheckIns, h.CheckIns)
	}
	if h.LastCheckIn != nil {
		t := *h.LastCheckIn
		c.LastCheckIn = &t
	}
	return c
}
