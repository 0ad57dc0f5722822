package habits

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/streak"
)

// memoryStore is an in-memory Persister that can be told to fail.
type memoryStore struct {
	habits  []models.Habit
	loadErr error
	saveErr error
	saves   int
	closed  bool
}

func (m *memoryStore) LoadHabits() ([]models.Habit, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.habits, nil
}

func (m *memoryStore) SaveHabits(habits []models.Habit) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.habits = habits
	return nil
}

func (m *memoryStore) Close() error {
	m.closed = true
	return nil
}

// fakeClock is a settable clock for tracker tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advanceDays(n int) { c.now = c.now.AddDate(0, 0, n) }

func newTestTracker(t *testing.T, store *memoryStore, opts ...Option) (*Tracker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)}
	n := 0
	base := []Option{
		WithClock(clock.Now),
		WithLocation(time.UTC),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("habit-%04d", n)
		}),
	}
	tr := NewTracker(store, append(base, opts...)...)
	require.NoError(t, tr.Open())
	return tr, clock
}

func TestTrackerCreateAndCheckInScenario(t *testing.T) {
	store := &memoryStore{}
	tr, clock := newTestTracker(t, store)

	h, err := tr.Create("Drink water", "")
	require.NoError(t, err)
	assert.Empty(t, h.CheckIns)

	h, err = tr.CheckIn(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.CurrentStreak)
	assert.Equal(t, 1, h.BestStreak)
	assert.True(t, streak.HasCheckedInOn(h.CheckIns, clock.Now()))
	assert.True(t, tr.Status(h).CheckedInToday)

	require.Len(t, store.habits, 1)
	assert.Equal(t, 1, store.habits[0].CurrentStreak)
	assert.Equal(t, 2, store.saves)
}

func TestTrackerStreakAcrossDays(t *testing.T) {
	tr, clock := newTestTracker(t, &memoryStore{})

	h, err := tr.Create("Run", "5k")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		h, err = tr.CheckIn(h.ID)
		require.NoError(t, err)
		clock.advanceDays(1)
	}
	assert.Equal(t, 3, h.CurrentStreak)

	clock.advanceDays(2)
	h, err = tr.CheckIn(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.CurrentStreak)
	assert.Equal(t, 3, h.BestStreak)
}

func TestTrackerDuplicateCheckInsAccumulate(t *testing.T) {
	tr, _ := newTestTracker(t, &memoryStore{})
	h, _ := tr.Create("Stretch", "")

	for i := 0; i < 3; i++ {
		var err error
		h, err = tr.CheckIn(h.ID)
		require.NoError(t, err)
	}
	assert.Len(t, h.CheckIns, 3)
	assert.Equal(t, 1, h.CurrentStreak)
}

func TestTrackerSingleDailyCheckIn(t *testing.T) {
	store := &memoryStore{}
	tr, _ := newTestTracker(t, store, WithSingleDailyCheckIn())
	h, _ := tr.Create("Stretch", "")

	h, _ = tr.CheckIn(h.ID)
	saves := store.saves
	h, err := tr.CheckIn(h.ID)
	require.NoError(t, err)

	assert.Len(t, h.CheckIns, 1)
	assert.Equal(t, saves, store.saves, "a repeat check-in should not save")
}

func TestTrackerUpdateValidation(t *testing.T) {
	tr, _ := newTestTracker(t, &memoryStore{})
	h, _ := tr.Create("Read", "")
	h, _ = tr.CheckIn(h.ID)

	empty := ""
	_, err := tr.Update(h.ID, Patch{Name: &empty})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	got, err := tr.Get(h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read", got.Name)
	assert.Equal(t, 1, got.CurrentStreak)

	name := "Read fiction"
	got, err = tr.Update(h.ID, Patch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Len(t, got.CheckIns, 1)
}

func TestTrackerCreateValidation(t *testing.T) {
	store := &memoryStore{}
	tr, _ := newTestTracker(t, store)

	_, err := tr.Create("   ", "desc")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, tr.List())
	assert.Zero(t, store.saves)
}

func TestTrackerDelete(t *testing.T) {
	store := &memoryStore{}
	tr, _ := newTestTracker(t, store)
	a, _ := tr.Create("A", "")
	b, _ := tr.Create("B", "")

	require.NoError(t, tr.Delete(a.ID))
	list := tr.List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Len(t, store.habits, 1)

	err := tr.Delete(a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = tr.CheckIn(a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTrackerResolve(t *testing.T) {
	tr, _ := newTestTracker(t, &memoryStore{})
	read, _ := tr.Create("Read", "")
	_, _ = tr.Create("Walk", "")
	_, _ = tr.Create("walk", "")

	got, err := tr.Resolve(read.ID)
	require.NoError(t, err)
	assert.Equal(t, read.ID, got.ID)

	got, err = tr.Resolve("READ")
	require.NoError(t, err)
	assert.Equal(t, read.ID, got.ID)

	_, err = tr.Resolve("Walk")
	assert.ErrorIs(t, err, apperrors.ErrAmbiguous)

	// All generated IDs share the "habit-" prefix.
	_, err = tr.Resolve("habit-")
	assert.ErrorIs(t, err, apperrors.ErrAmbiguous)

	got, err = tr.Resolve("habit-0001")
	require.NoError(t, err)
	assert.Equal(t, read.ID, got.ID)

	_, err = tr.Resolve("Swim")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = tr.Resolve("  ")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTrackerOpenFailureStartsEmpty(t *testing.T) {
	store := &memoryStore{loadErr: errors.New("corrupt file")}
	tr := NewTracker(store)

	err := tr.Open()
	require.Error(t, err)
	assert.True(t, apperrors.IsPersistence(err))
	assert.Empty(t, tr.List())

	// Still usable.
	_, err = tr.Create("Read", "")
	require.NoError(t, err)
	assert.Len(t, tr.List(), 1)
}

func TestTrackerNeverOverwritesUnloadedStore(t *testing.T) {
	stored := []models.Habit{
		{ID: "a", Name: "Run", BestStreak: 9},
		{ID: "b", Name: "Read"},
	}
	store := &memoryStore{habits: stored, loadErr: errors.New("bad check-in row")}
	tr := NewTracker(store, WithLocation(time.UTC))
	require.Error(t, tr.Open())

	h, err := tr.Create("Meditate", "")
	require.NoError(t, err)
	_, err = tr.CheckIn(h.ID)
	require.NoError(t, err)
	require.NoError(t, tr.Replace([]models.Habit{h}))

	assert.Zero(t, store.saves)
	assert.Len(t, store.habits, 2)
	assert.Equal(t, 9, store.habits[0].BestStreak)

	saveErr := tr.LastSaveError()
	require.Error(t, saveErr)
	assert.True(t, apperrors.IsPersistence(saveErr))
	assert.ErrorIs(t, saveErr, apperrors.ErrNotLoaded)

	// A successful reload lifts the guard.
	store.loadErr = nil
	require.NoError(t, tr.Open())
	assert.Len(t, tr.List(), 2)
	_, err = tr.Create("Meditate", "")
	require.NoError(t, err)
	assert.NoError(t, tr.LastSaveError())
	assert.Equal(t, 1, store.saves)
	assert.Len(t, store.habits, 3)
}

func TestTrackerSaveFailureKeepsMemoryState(t *testing.T) {
	store := &memoryStore{}
	tr, _ := newTestTracker(t, store)

	h, err := tr.Create("Read", "")
	require.NoError(t, err)
	require.NoError(t, tr.LastSaveError())

	store.saveErr = errors.New("read-only filesystem")
	h, err = tr.CheckIn(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.CurrentStreak)

	got, err := tr.Get(h.ID)
	require.NoError(t, err)
	assert.Len(t, got.CheckIns, 1)

	saveErr := tr.LastSaveError()
	require.Error(t, saveErr)
	assert.True(t, apperrors.IsPersistence(saveErr))
	assert.NotErrorIs(t, saveErr, apperrors.ErrNotLoaded)

	// No automatic retry: the store saw exactly one failed attempt.
	assert.Equal(t, 2, store.saves)
	assert.Empty(t, store.habits[0].CheckIns)

	store.saveErr = nil
	_, err = tr.CheckIn(h.ID)
	require.NoError(t, err)
	assert.NoError(t, tr.LastSaveError())
	assert.Len(t, store.habits[0].CheckIns, 2)
}

func TestTrackerListReturnsCopies(t *testing.T) {
	tr, _ := newTestTracker(t, &memoryStore{})
	h, _ := tr.Create("Read", "")
	_, _ = tr.CheckIn(h.ID)

	list := tr.List()
	list[0].CurrentStreak = 99
	list[0].CheckIns[0] = time.Time{}

	got, _ := tr.Get(h.ID)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.False(t, got.CheckIns[0].IsZero())
}

func TestTrackerReplace(t *testing.T) {
	store := &memoryStore{}
	tr, _ := newTestTracker(t, store)
	_, _ = tr.Create("Old", "")

	imported := []models.Habit{
		{ID: "x1", Name: "Imported", CurrentStreak: 2, BestStreak: 5},
	}
	require.NoError(t, tr.Replace(imported))
	list := tr.List()
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].BestStreak)
	assert.Equal(t, "x1", store.habits[0].ID)

	err := tr.Replace([]models.Habit{{ID: "dup", Name: "a"}, {ID: "dup", Name: "b"}})
	assert.True(t, apperrors.IsValidation(err))
	assert.Len(t, tr.List(), 1)
}

func TestTrackerCloseClosesStore(t *testing.T) {
	store := &memoryStore{}
	tr, _ := newTestTracker(t, store)
	require.NoError(t, tr.Close())
	assert.True(t, store.closed)
}

func TestTrackerNowUsesLocation(t *testing.T) {
	zone := time.FixedZone("UTC+9", 9*60*60)
	clock := &fakeClock{now: time.Date(2024, time.July, 1, 20, 0, 0, 0, time.UTC)}
	tr := NewTracker(&memoryStore{}, WithClock(clock.Now), WithLocation(zone))
	require.NoError(t, tr.Open())

	// 20:00 UTC is already the next day in UTC+9.
	assert.Equal(t, 2, tr.Now().Day())
	assert.Equal(t, zone, tr.Location())
}
