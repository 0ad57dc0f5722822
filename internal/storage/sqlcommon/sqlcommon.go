// Package sqlcommon holds the habit and settings queries shared by the SQLite
// and PostgreSQL stores. Only the placeholder style differs between them.
package sqlcommon

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/migration"
	"github.com/julianstephens/habitline/internal/models"
)

// FormatTimestamp renders t in the persisted textual form.
func FormatTimestamp(t time.Time) string {
	return t.Format(constants.TimestampFormat)
}

// ParseTimestamp parses a value written by FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(constants.TimestampFormat, s)
}

// bind rewrites "?" placeholders into the dialect's style.
func bind(d migration.Dialect, query string) string {
	if d == migration.SQLite {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LoadHabits reads the whole collection in its stored order.
func LoadHabits(db *sql.DB, d migration.Dialect) ([]models.Habit, error) {
	rows, err := db.Query(`SELECT id, name, description, created_at, current_streak, best_streak, last_check_in
		FROM habits ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	index := map[string]int{}
	for rows.Next() {
		var (
			h         models.Habit
			createdAt string
			last      sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.Description, &createdAt, &h.CurrentStreak, &h.BestStreak, &last); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		if h.CreatedAt, err = ParseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("habit %s: invalid created_at %q: %w", h.ID, createdAt, err)
		}
		if last.Valid {
			t, err := ParseTimestamp(last.String)
			if err != nil {
				return nil, fmt.Errorf("habit %s: invalid last_check_in %q: %w", h.ID, last.String, err)
			}
			h.LastCheckIn = &t
		}
		h.CheckIns = []time.Time{}
		index[h.ID] = len(habits)
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ciRows, err := db.Query(bind(d, "SELECT habit_id, checked_at FROM check_ins ORDER BY habit_id, seq"))
	if err != nil {
		return nil, fmt.Errorf("failed to query check-ins: %w", err)
	}
	defer ciRows.Close()

	for ciRows.Next() {
		var habitID, checkedAt string
		if err := ciRows.Scan(&habitID, &checkedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		i, ok := index[habitID]
		if !ok {
			continue
		}
		t, err := ParseTimestamp(checkedAt)
		if err != nil {
			return nil, fmt.Errorf("habit %s: invalid check-in %q: %w", habitID, checkedAt, err)
		}
		habits[i].CheckIns = append(habits[i].CheckIns, t)
	}
	return habits, ciRows.Err()
}

// SaveHabits replaces the stored collection in one transaction.
func SaveHabits(db *sql.DB, d migration.Dialect, habits []models.Habit) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM check_ins"); err != nil {
		return fmt.Errorf("failed to clear check-ins: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return fmt.Errorf("failed to clear habits: %w", err)
	}

	habitStmt, err := tx.Prepare(bind(d, `INSERT INTO habits
		(id, name, description, created_at, current_streak, best_streak, last_check_in, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer habitStmt.Close()

	checkInStmt, err := tx.Prepare(bind(d, "INSERT INTO check_ins (habit_id, seq, checked_at) VALUES (?, ?, ?)"))
	if err != nil {
		return err
	}
	defer checkInStmt.Close()

	for pos, h := range habits {
		var last sql.NullString
		if h.LastCheckIn != nil {
			last = sql.NullString{String: FormatTimestamp(*h.LastCheckIn), Valid: true}
		}
		if _, err := habitStmt.Exec(h.ID, h.Name, h.Description, FormatTimestamp(h.CreatedAt),
			h.CurrentStreak, h.BestStreak, last, pos); err != nil {
			return fmt.Errorf("failed to insert habit %s: %w", h.ID, err)
		}
		for seq, c := range h.CheckIns {
			if _, err := checkInStmt.Exec(h.ID, seq, FormatTimestamp(c)); err != nil {
				return fmt.Errorf("failed to insert check-in for habit %s: %w", h.ID, err)
			}
		}
	}

	return tx.Commit()
}

// GetSettings reads the key/value settings table. Missing keys keep their defaults.
func GetSettings(db *sql.DB) (models.Settings, error) {
	rows, err := db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.DefaultSettings()
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingReminderTime:
			settings.ReminderTime = value
		case constants.SettingNotificationsEnabled:
			if settings.NotificationsEnabled, err = strconv.ParseBool(value); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingStrictDaily:
			if settings.StrictDaily, err = strconv.ParseBool(value); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	if count == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	return settings.WithDefaults(), nil
}

// SaveSettings upserts every setting key.
func SaveSettings(db *sql.DB, d migration.Dialect, settings models.Settings) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(bind(d, `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	pairs := [][2]string{
		{constants.SettingTimezone, settings.Timezone},
		{constants.SettingNotificationsEnabled, strconv.FormatBool(settings.NotificationsEnabled)},
		{constants.SettingReminderTime, settings.ReminderTime},
		{constants.SettingStrictDaily, strconv.FormatBool(settings.StrictDaily)},
	}
	for _, p := range pairs {
		if _, err := stmt.Exec(p[0], p[1]); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", p[0], err)
		}
	}

	return tx.Commit()
}
