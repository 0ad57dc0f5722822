package habits

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/streak"
)

// minPrefixLen is the shortest ID prefix Resolve accepts.
const minPrefixLen = 4

// Persister loads and saves the whole habit collection.
type Persister interface {
	LoadHabits() ([]models.Habit, error)
	SaveHabits([]models.Habit) error
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.clock = now
	}
}

// WithLocation sets the location whose calendar defines "today".
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithIDGenerator replaces the UUID generator used by Create.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) {
		t.newID = gen
	}
}

// WithSingleDailyCheckIn turns repeat check-ins on the same calendar day into
// no-ops instead of appending duplicates.
func WithSingleDailyCheckIn() Option {
	return func(t *Tracker) {
		t.singleDaily = true
	}
}

// Tracker owns the habit collection for the lifetime of the application.
// Construct it with NewTracker, call Open before use and Close at shutdown.
//
// The in-memory collection is authoritative. Each mutation is applied in
// memory, then the full collection is handed to the Persister. A failed save
// is logged and kept in LastSaveError; it is not retried and the mutation is
// not rolled back. When several processes share one store the last save wins.
//
// After a failed Open the tracker never saves: the collection in memory is
// not the stored one, and a full-collection save would erase it.
type Tracker struct {
	mu          sync.Mutex
	store       Persister
	habits      []models.Habit
	clock       func() time.Time
	loc         *time.Location
	newID       func() string
	singleDaily bool
	loadErr     error
	lastSaveErr error
}

// NewTracker creates a Tracker backed by store.
func NewTracker(store Persister, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		habits: []models.Habit{},
		clock:  time.Now,
		loc:    time.Local,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open loads the collection from the store. On failure the tracker starts
// with an empty collection and stays usable, but refuses to save until a
// later Open succeeds; the returned error is a *errors.PersistenceError for
// the caller to report.
func (t *Tracker) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	loaded, err := t.store.LoadHabits()
	if err != nil {
		t.habits = []models.Habit{}
		t.loadErr = &apperrors.PersistenceError{Op: "load", Err: err}
		logger.Error("Failed to load habits, starting with an empty collection", "error", err)
		return t.loadErr
	}
	t.loadErr = nil

	t.habits = make([]models.Habit, len(loaded))
	for i, h := range loaded {
		t.habits[i] = h.Clone()
	}
	logger.Debug("Loaded habits", "count", len(t.habits))
	return nil
}

// Close releases the collection and closes the store when it supports it.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.habits = nil
	if c, ok := t.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Now returns the current time in the tracker's location.
func (t *Tracker) Now() time.Time {
	return t.clock().In(t.loc)
}

// Location returns the location whose calendar defines "today".
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// LastSaveError returns the error of the most recent save, or nil if it succeeded.
func (t *Tracker) LastSaveError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSaveErr
}

// List returns copies of all habits in creation order.
func (t *Tracker) List() []models.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.Habit, len(t.habits))
	for i, h := range t.habits {
		out[i] = h.Clone()
	}
	return out
}

// Get returns a copy of the habit with the given ID.
func (t *Tracker) Get(id string) (models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexLocked(id)
	if i < 0 {
		return models.Habit{}, fmt.Errorf("%w: %s", apperrors.ErrNotFound, id)
	}
	return t.habits[i].Clone(), nil
}

// Resolve finds a habit by exact ID, case-insensitive name, or ID prefix of
// at least four characters, in that order.
func (t *Tracker) Resolve(ref string) (models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Habit{}, fmt.Errorf("%w: empty reference", apperrors.ErrNotFound)
	}
	if i := t.indexLocked(ref); i >= 0 {
		return t.habits[i].Clone(), nil
	}

	var byName []int
	for i, h := range t.habits {
		if strings.EqualFold(h.Name, ref) {
			byName = append(byName, i)
		}
	}
	switch len(byName) {
	case 1:
		return t.habits[byName[0]].Clone(), nil
	case 0:
	default:
		return models.Habit{}, fmt.Errorf("%w: %d habits are named %q, use the ID instead", apperrors.ErrAmbiguous, len(byName), ref)
	}

	if len(ref) >= minPrefixLen {
		var byPrefix []int
		for i, h := range t.habits {
			if strings.HasPrefix(h.ID, ref) {
				byPrefix = append(byPrefix, i)
			}
		}
		switch len(byPrefix) {
		case 1:
			return t.habits[byPrefix[0]].Clone(), nil
		case 0:
		default:
			return models.Habit{}, fmt.Errorf("%w: ID prefix %q matches %d habits", apperrors.ErrAmbiguous, ref, len(byPrefix))
		}
	}

	return models.Habit{}, fmt.Errorf("%w: %q", apperrors.ErrNotFound, ref)
}

// Create adds a new habit with a fresh ID.
func (t *Tracker) Create(name, description string) (models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h, err := New(t.newID(), name, description, t.Now())
	if err != nil {
		return models.Habit{}, err
	}

	t.habits = append(t.habits, h)
	logger.Info("Created habit", "id", h.ID, "name", h.Name)
	t.persistLocked()
	return h.Clone(), nil
}

// CheckIn records a check-in for now and recomputes the habit's streaks.
func (t *Tracker) CheckIn(id string) (models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexLocked(id)
	if i < 0 {
		return models.Habit{}, fmt.Errorf("%w: %s", apperrors.ErrNotFound, id)
	}

	now := t.Now()
	if t.singleDaily && streak.HasCheckedInOn(t.habits[i].CheckIns, now) {
		logger.Debug("Ignoring repeat check-in", "id", id)
		return t.habits[i].Clone(), nil
	}

	t.habits[i] = CheckIn(t.habits[i], now)
	logger.Info("Checked in", "id", id, "current_streak", t.habits[i].CurrentStreak, "best_streak", t.habits[i].BestStreak)
	t.persistLocked()
	return t.habits[i].Clone(), nil
}

// Update edits the name and description of a habit.
func (t *Tracker) Update(id string, p Patch) (models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexLocked(id)
	if i < 0 {
		return models.Habit{}, fmt.Errorf("%w: %s", apperrors.ErrNotFound, id)
	}

	updated, err := Update(t.habits[i], p)
	if err != nil {
		return t.habits[i].Clone(), err
	}

	t.habits[i] = updated
	t.persistLocked()
	return updated.Clone(), nil
}

// Delete removes a habit and its whole history. There is no undo.
func (t *Tracker) Delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, id)
	}

	name := t.habits[i].Name
	t.habits = append(t.habits[:i], t.habits[i+1:]...)
	logger.Info("Deleted habit", "id", id, "name", name)
	t.persistLocked()
	return nil
}

// Replace swaps in a whole collection, as used by import and repair. Stored
// streak fields are kept as given.
func (t *Tracker) Replace(habits []models.Habit) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := make(map[string]bool, len(habits))
	next := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if h.ID == "" {
			return &apperrors.ValidationError{Field: "id", Message: fmt.Sprintf("habit %q has no ID", h.Name)}
		}
		if seen[h.ID] {
			return &apperrors.ValidationError{Field: "id", Message: fmt.Sprintf("duplicate habit ID %s", h.ID)}
		}
		seen[h.ID] = true
		next = append(next, h.Clone())
	}

	t.habits = next
	t.persistLocked()
	return nil
}

// Status evaluates a habit at the tracker's current time.
func (t *Tracker) Status(h models.Habit) Status {
	return Summarize(h, t.Now())
}

func (t *Tracker) indexLocked(id string) int {
	for i, h := range t.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) persistLocked() {
	if t.loadErr != nil {
		t.lastSaveErr = &apperrors.PersistenceError{
			Op:  "save",
			Err: fmt.Errorf("%w: %v", apperrors.ErrNotLoaded, t.loadErr),
		}
		logger.Warn("Skipping save, stored habits were never loaded", "error", t.loadErr)
		return
	}

	snapshot := make([]models.Habit, len(t.habits))
	for i, h := range t.habits {
		snapshot[i] = h.Clone()
	}

	if err := t.store.SaveHabits(snapshot); err != nil {
		t.lastSaveErr = &apperrors.PersistenceError{Op: "save", Err: err}
		logger.Error("Failed to save habits", "error", err)
		return
	}
	t.lastSaveErr = nil
}
