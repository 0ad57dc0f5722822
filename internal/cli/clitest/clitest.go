// Package clitest builds command contexts over throwaway SQLite stores.
package clitest

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/habits"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
)

// Clock is a settable time source.
type Clock struct {
	Current time.Time
}

func (c *Clock) Now() time.Time {
	return c.Current
}

// AdvanceDays moves the clock n calendar days forward.
func (c *Clock) AdvanceDays(n int) {
	c.Current = c.Current.AddDate(0, 0, n)
}

// Env is a context plus the handles tests poke at.
type Env struct {
	Ctx    *cli.Context
	Store  *sqlite.Store
	Clock  *Clock
	DBPath string

	ids int
}

// Start is the clock's initial reading: a Monday morning in UTC.
var Start = time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)

// New initializes a SQLite store under t.TempDir and opens a context on it
// with a fixed clock and sequential IDs.
func New(t *testing.T) *Env {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "habitline.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	env := &Env{Store: store, Clock: &Clock{Current: Start}, DBPath: dbPath}
	env.Ctx = env.open(t)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return env
}

// Reopen builds a fresh context over the same store, as a new process would.
func (e *Env) Reopen(t *testing.T) {
	t.Helper()
	e.Ctx = e.open(t)
}

// Answer feeds s to the next confirmation prompt.
func (e *Env) Answer(s string) {
	e.Ctx.In = strings.NewReader(s + "\n")
}

func (e *Env) open(t *testing.T) *cli.Context {
	t.Helper()

	ctx, err := cli.NewContext(e.Store,
		habits.WithClock(e.Clock.Now),
		habits.WithIDGenerator(func() string {
			e.ids++
			return fmt.Sprintf("habit-%04d", e.ids)
		}),
	)
	if err != nil {
		t.Fatalf("failed to open context: %v", err)
	}
	ctx.In = strings.NewReader("")
	return ctx
}
