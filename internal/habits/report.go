package habits

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/streak"
)

// Reminder is a habit whose streak lapses at midnight without a check-in.
type Reminder struct {
	Habit  models.Habit
	Streak int
}

// DueReminders returns the at-risk habits, longest streak first.
func DueReminders(habits []models.Habit, now time.Time) []Reminder {
	var out []Reminder
	for _, h := range habits {
		if s := Summarize(h, now); s.AtRisk {
			out = append(out, Reminder{Habit: h, Streak: s.CurrentStreak})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Streak > out[j].Streak })
	return out
}

// ReminderText renders reminders as a single notification message.
func ReminderText(reminders []Reminder) string {
	switch len(reminders) {
	case 0:
		return ""
	case 1:
		r := reminders[0]
		return fmt.Sprintf("Check in on %q to keep your %s alive.", r.Habit.Name, dayCount(r.Streak, "streak"))
	}

	names := make([]string, len(reminders))
	for i, r := range reminders {
		names[i] = fmt.Sprintf("%s (%d)", r.Habit.Name, r.Streak)
	}
	return fmt.Sprintf("%d streaks at risk today: %s", len(reminders), strings.Join(names, ", "))
}

func dayCount(n int, noun string) string {
	if n == 1 {
		return "1-day " + noun
	}
	return fmt.Sprintf("%d-day %s", n, noun)
}

// DayMark is one cell of a check-in strip.
type DayMark struct {
	Date    time.Time
	Checked bool
}

// Strip returns the last days calendar dates ending at now's date, oldest
// first, marking the ones with a check-in.
func Strip(h models.Habit, now time.Time, days int) []DayMark {
	if days <= 0 {
		return nil
	}
	loc := now.Location()
	checked := make(map[string]bool, len(h.CheckIns))
	for _, c := range h.CheckIns {
		checked[streak.DayKey(c, loc)] = true
	}

	y, m, d := now.Date()
	out := make([]DayMark, days)
	for i := 0; i < days; i++ {
		date := time.Date(y, m, d-(days-1-i), 0, 0, 0, 0, loc)
		out[i] = DayMark{Date: date, Checked: checked[streak.DayKey(date, loc)]}
	}
	return out
}
