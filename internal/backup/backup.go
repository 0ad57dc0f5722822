// Package backup snapshots the SQLite habit database into a rotated
// directory next to it and restores from those snapshots.
package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/logger"
)

// timestampLayout is embedded in backup file names.
const timestampLayout = "20060102-150405"

// maxNameCollisions bounds the counter appended to same-second backups.
const maxNameCollisions = 100

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64

	seq int
}

// Manager handles backup operations for one database file.
type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

// NewManager creates a manager that keeps backups in <dir of dbPath>/backups.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup snapshots the database and rotates old backups.
func (m *Manager) CreateBackup() (string, error) {
	path, err := m.createBackup()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) createBackup() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	backupPath, err := m.nextName()
	if err != nil {
		return "", err
	}

	if err := m.snapshot(backupPath); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}

	logger.Info("Created backup", "path", backupPath)
	return backupPath, nil
}

// nextName picks an unused file name for the current second.
func (m *Manager) nextName() (string, error) {
	stamp := m.now().Format(timestampLayout)
	name := constants.BackupFilePrefix + stamp + constants.BackupFileSuffix
	path := filepath.Join(m.backupDir, name)

	for i := 1; fileExists(path); i++ {
		if i > maxNameCollisions {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		name = fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, i, constants.BackupFileSuffix)
		path = filepath.Join(m.backupDir, name)
	}
	return path, nil
}

// snapshot writes a consistent copy with VACUUM INTO, falling back to a
// plain file copy when the statement is unavailable.
func (m *Manager) snapshot(destPath string) error {
	src, err := sql.Open("sqlite", "file:"+m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	var count int
	if err := src.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := src.Exec("VACUUM INTO ?", destPath); err != nil {
		logger.Debug("VACUUM INTO failed, copying file instead", "error", err)
		src.Close()
		return copyFile(m.dbPath, destPath)
	}
	return nil
}

// ListBackups returns all backups, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseBackupName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].seq > backups[j].seq
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseBackupName extracts the timestamp and collision counter from
// habitline-YYYYMMDD-HHMMSS[-N].db.
func parseBackupName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stem := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if len(stem) < len(timestampLayout) {
		return time.Time{}, 0, false
	}

	seq := 0
	if rest := stem[len(timestampLayout):]; rest != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(rest, "-"))
		if !strings.HasPrefix(rest, "-") || err != nil || n < 1 {
			return time.Time{}, 0, false
		}
		seq = n
	}

	ts, err := time.ParseInLocation(timestampLayout, stem[:len(timestampLayout)], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

// rotate removes backups beyond the retention limit.
func (m *Manager) rotate() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// ResolvePath finds a backup given an absolute path, a path relative to the
// working directory, or a bare file name in the backup directory.
func (m *Manager) ResolvePath(ref string) (string, error) {
	if filepath.IsAbs(ref) {
		if !fileExists(ref) {
			return "", fmt.Errorf("backup file not found: %s", ref)
		}
		return ref, nil
	}
	if fileExists(ref) {
		return filepath.Abs(ref)
	}
	if candidate := filepath.Join(m.backupDir, ref); fileExists(candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", m.backupDir)
}

// RestoreBackup replaces the database with backupPath. The current database
// is backed up first and the returned path names that safety copy, if any.
// Every process using the database must be stopped beforehand.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if !fileExists(backupPath) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	if err := verifyBackup(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if fileExists(m.dbPath) {
		var err error
		if safety, err = m.createBackup(); err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return safety, fmt.Errorf("failed to copy backup file: %w", err)
	}

	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tempPath, "error", removeErr)
		}
		return safety, fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Restored database from backup", "backup", backupPath)
	return safety, nil
}

// verifyBackup checks that path is a SQLite database holding a habits table.
func verifyBackup(path string) error {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='habits'").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no habits table found")
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
