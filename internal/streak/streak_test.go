package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testZone = time.FixedZone("UTC-5", -5*60*60)

// refNow is mid-afternoon local time so day offsets never cross a boundary.
var refNow = time.Date(2024, time.May, 15, 15, 30, 0, 0, testZone)

func daysAgo(n int) time.Time {
	return refNow.AddDate(0, 0, -n)
}

func TestCurrentStreakAt(t *testing.T) {
	tests := []struct {
		name     string
		checkIns []time.Time
		want     int
	}{
		{
			name:     "empty history",
			checkIns: nil,
			want:     0,
		},
		{
			name:     "only today",
			checkIns: []time.Time{daysAgo(0)},
			want:     1,
		},
		{
			name:     "today yesterday and day before",
			checkIns: []time.Time{daysAgo(0), daysAgo(1), daysAgo(2)},
			want:     3,
		},
		{
			name:     "unsorted input",
			checkIns: []time.Time{daysAgo(2), daysAgo(0), daysAgo(1)},
			want:     3,
		},
		{
			name:     "extra day after a gap is not counted",
			checkIns: []time.Time{daysAgo(0), daysAgo(1), daysAgo(2), daysAgo(4)},
			want:     3,
		},
		{
			name:     "only three days ago",
			checkIns: []time.Time{daysAgo(3)},
			want:     0,
		},
		{
			name:     "most recent two days ago breaks streak",
			checkIns: []time.Time{daysAgo(2), daysAgo(3), daysAgo(4)},
			want:     0,
		},
		{
			name:     "yesterday anchored streak without today",
			checkIns: []time.Time{daysAgo(1), daysAgo(2)},
			want:     2,
		},
		{
			name:     "today after a missed yesterday starts fresh",
			checkIns: []time.Time{daysAgo(0), daysAgo(2), daysAgo(3)},
			want:     1,
		},
		{
			name:     "duplicates within a day count once",
			checkIns: []time.Time{daysAgo(0), daysAgo(0).Add(-time.Hour), daysAgo(1), daysAgo(1).Add(time.Minute)},
			want:     2,
		},
		{
			name:     "check-in in the future is ignored by the walk",
			checkIns: []time.Time{daysAgo(-2), daysAgo(0)},
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentStreakAt(tt.checkIns, refNow)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestCurrentStreakUsesCalendarDaysNotRollingWindows(t *testing.T) {
	lateLastNight := time.Date(2024, time.May, 14, 23, 55, 0, 0, testZone)
	earlyToday := time.Date(2024, time.May, 15, 0, 5, 0, 0, testZone)

	// Ten minutes apart but on two different dates.
	assert.Equal(t, 2, CurrentStreakAt([]time.Time{lateLastNight, earlyToday}, refNow))

	// 47 hours apart but still consecutive dates.
	startOfYesterday := time.Date(2024, time.May, 14, 0, 1, 0, 0, testZone)
	endOfToday := time.Date(2024, time.May, 15, 23, 59, 0, 0, testZone)
	assert.Equal(t, 2, CurrentStreakAt([]time.Time{startOfYesterday, endOfToday}, refNow))
}

func TestCurrentStreakConvertsCheckInsToNowLocation(t *testing.T) {
	// 02:00 UTC on the 16th is 21:00 on the 15th in UTC-5.
	utcCheckIn := time.Date(2024, time.May, 16, 2, 0, 0, 0, time.UTC)
	yesterday := daysAgo(1).UTC()

	assert.True(t, HasCheckedInOn([]time.Time{utcCheckIn}, refNow))
	assert.Equal(t, 2, CurrentStreakAt([]time.Time{utcCheckIn, yesterday}, refNow))
}

func TestCurrentStreakAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	// Clocks spring forward on 2024-03-10 so that day is 23 hours long.
	now := time.Date(2024, time.March, 11, 8, 0, 0, 0, loc)
	checkIns := []time.Time{
		time.Date(2024, time.March, 9, 23, 30, 0, 0, loc),
		time.Date(2024, time.March, 10, 23, 30, 0, 0, loc),
		time.Date(2024, time.March, 11, 0, 30, 0, 0, loc),
	}
	assert.Equal(t, 3, CurrentStreakAt(checkIns, now))
}

func TestHasCheckedInOn(t *testing.T) {
	assert.False(t, HasCheckedInOn(nil, refNow))
	assert.False(t, HasCheckedInOn([]time.Time{daysAgo(1)}, refNow))
	assert.True(t, HasCheckedInOn([]time.Time{daysAgo(3), daysAgo(0)}, refNow))

	// Same date one minute before midnight still counts.
	assert.True(t, HasCheckedInOn([]time.Time{time.Date(2024, time.May, 15, 23, 59, 0, 0, testZone)}, refNow))
}

func TestHasCheckedInTodayUsesWallClock(t *testing.T) {
	assert.False(t, HasCheckedInToday(nil))
	assert.True(t, HasCheckedInToday([]time.Time{time.Now()}))
	assert.False(t, HasCheckedInToday([]time.Time{time.Now().AddDate(0, 0, -2)}))
}

func TestCalculateCurrentStreakUsesWallClock(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 0, CalculateCurrentStreak(nil))
	assert.Equal(t, 2, CalculateCurrentStreak([]time.Time{now, now.AddDate(0, 0, -1)}))
}

func TestUpdateBestStreak(t *testing.T) {
	tests := []struct {
		current, previous, want int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{3, 5, 5},
		{5, 5, 5},
		{6, 5, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UpdateBestStreak(tt.current, tt.previous), "current=%d previous=%d", tt.current, tt.previous)
	}
}

func TestLongestStreak(t *testing.T) {
	assert.Equal(t, 0, LongestStreak(nil, testZone))
	assert.Equal(t, 1, LongestStreak([]time.Time{daysAgo(10)}, testZone))

	checkIns := []time.Time{
		daysAgo(20), daysAgo(19), daysAgo(18), daysAgo(17),
		daysAgo(10), daysAgo(10),
		daysAgo(1), daysAgo(0),
	}
	assert.Equal(t, 4, LongestStreak(checkIns, testZone))
}

func TestDistinctDays(t *testing.T) {
	checkIns := []time.Time{daysAgo(0), daysAgo(0).Add(-2 * time.Hour), daysAgo(3)}
	require.Len(t, checkIns, 3)
	assert.Equal(t, 2, DistinctDays(checkIns, testZone))
	assert.Equal(t, 0, DistinctDays(nil, testZone))
}

func TestDayKey(t *testing.T) {
	utc := time.Date(2024, time.May, 16, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-15", DayKey(utc, testZone))
	assert.Equal(t, "2024-05-16", DayKey(utc, time.UTC))
}
