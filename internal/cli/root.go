package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/backup"
	"github.com/julianstephens/habitline/internal/habits"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
	"github.com/julianstephens/habitline/internal/utils"
)

type Context struct {
	Store    storage.Provider
	Tracker  *habits.Tracker
	Settings models.Settings

	// In is read by confirmation prompts. Defaults to os.Stdin.
	In io.Reader
}

// NewContext reads settings from an already loaded store and opens a Tracker
// over it. A load failure is returned alongside a usable Context whose
// tracker starts empty.
func NewContext(store storage.Provider, opts ...habits.Option) (*Context, error) {
	settings, err := store.GetSettings()
	if err != nil {
		logger.Warn("Failed to read settings, using defaults", "error", err)
		settings = models.DefaultSettings()
	}
	settings = settings.WithDefaults()

	loc, err := utils.LocationFromSettings(settings)
	if err != nil {
		logger.Warn("Invalid timezone setting, using local time", "timezone", settings.Timezone, "error", err)
		loc = time.Local
	}

	trackerOpts := []habits.Option{habits.WithLocation(loc)}
	if settings.StrictDaily {
		trackerOpts = append(trackerOpts, habits.WithSingleDailyCheckIn())
	}
	trackerOpts = append(trackerOpts, opts...)

	ctx := &Context{
		Store:    store,
		Tracker:  habits.NewTracker(store, trackerOpts...),
		Settings: settings,
		In:       os.Stdin,
	}
	return ctx, ctx.Tracker.Open()
}

// Close shuts down the tracker and its store. Contexts built for init have no
// tracker and close the store directly.
func (c *Context) Close() error {
	if c.Tracker != nil {
		return c.Tracker.Close()
	}
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}

// SQLitePath returns the database file of a SQLite-backed context.
func (c *Context) SQLitePath() (string, bool) {
	if s, ok := c.Store.(*sqlite.Store); ok {
		return s.GetConfigPath(), true
	}
	return "", false
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	path, ok := c.SQLitePath()
	if !ok {
		logger.Debug("Skipping automatic backup, store is not SQLite", "store", c.Store.GetConfigPath())
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm prints prompt and reads a y/N answer from c.In.
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}

	fmt.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// SaveError returns the tracker's last save failure so commands exit non-zero
// when a mutation was not persisted.
func (c *Context) SaveError() error {
	if err := c.Tracker.LastSaveError(); err != nil {
		return fmt.Errorf("change kept in memory but not saved: %w", err)
	}
	return nil
}

// Pluralize returns "1 day" or "n days".
func Pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
