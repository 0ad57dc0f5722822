// Package streak derives streak values from a habit's check-in history.
//
// Every function here is pure: it reads the timestamps it is given, never
// retains them, and never fails. "Today" is the calendar date of the supplied
// now in now's location; the variants without a now argument use time.Now().
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
)

const secondsPerDay = 24 * 60 * 60

// civilDay returns the calendar date of t in loc as a day number. Two instants
// on the same local date map to the same number regardless of DST shifts.
func civilDay(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// DayKey formats t's calendar date in loc as YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.DateFormat)
}

// distinctDays collapses check-ins to their calendar dates, most recent first.
func distinctDays(checkIns []time.Time, loc *time.Location) []int64 {
	seen := make(map[int64]struct{}, len(checkIns))
	days := make([]int64, 0, len(checkIns))
	for _, c := range checkIns {
		d := civilDay(c, loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })
	return days
}

// HasCheckedInToday reports whether any check-in falls on the current local date.
func HasCheckedInToday(checkIns []time.Time) bool {
	return HasCheckedInOn(checkIns, time.Now())
}

// HasCheckedInOn reports whether any check-in falls on now's calendar date.
func HasCheckedInOn(checkIns []time.Time, now time.Time) bool {
	loc := now.Location()
	today := civilDay(now, loc)
	for _, c := range checkIns {
		if civilDay(c, loc) == today {
			return true
		}
	}
	return false
}

// CalculateCurrentStreak returns the current streak as of time.Now().
func CalculateCurrentStreak(checkIns []time.Time) int {
	return CurrentStreakAt(checkIns, time.Now())
}

// CurrentStreakAt counts consecutive checked-in calendar days ending at now's
// date, or at the day before when today has no check-in yet. A most recent
// check-in older than yesterday means the streak is broken and 0 is returned.
// Multiple check-ins on one date count once.
func CurrentStreakAt(checkIns []time.Time, now time.Time) int {
	if len(checkIns) == 0 {
		return 0
	}

	loc := now.Location()
	days := distinctDays(checkIns, loc)
	today := civilDay(now, loc)

	if gap := today - days[0]; gap > 1 {
		return 0
	}

	has := make(map[int64]bool, len(days))
	for _, d := range days {
		has[d] = true
	}

	day := today
	if !has[day] {
		day--
	}

	streak := 0
	for has[day] {
		streak++
		day--
	}
	return streak
}

// UpdateBestStreak returns the larger of current and previousBest.
func UpdateBestStreak(current, previousBest int) int {
	if current > previousBest {
		return current
	}
	return previousBest
}

// LongestStreak returns the longest run of consecutive checked-in calendar
// days anywhere in the history.
func LongestStreak(checkIns []time.Time, loc *time.Location) int {
	days := distinctDays(checkIns, loc)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// DistinctDays returns the number of calendar dates with at least one check-in.
func DistinctDays(checkIns []time.Time, loc *time.Location) int {
	return len(distinctDays(checkIns, loc))
}
