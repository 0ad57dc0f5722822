package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
)

// documentVersion is the format version written to JSON documents.
const documentVersion = 1

// Document is the JSON file layout, shared by the JSON store and export.
type Document struct {
	Version  int             `json:"version"`
	Settings models.Settings `json:"settings"`
	Habits   []models.Habit  `json:"habits"`
}

// NewDocument returns a document with default settings and no habits.
func NewDocument() Document {
	return Document{
		Version:  documentVersion,
		Settings: models.DefaultSettings(),
		Habits:   []models.Habit{},
	}
}

// EncodeDocument writes doc as indented JSON.
func EncodeDocument(w io.Writer, doc Document) error {
	if doc.Habits == nil {
		doc.Habits = []models.Habit{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to serialize habits: %w", err)
	}
	return nil
}

// DecodeDocument parses a document and normalizes missing collections.
func DecodeDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse habits: %w", err)
	}
	if doc.Version > documentVersion {
		return Document{}, fmt.Errorf("document version %d is newer than supported version %d", doc.Version, documentVersion)
	}
	if doc.Habits == nil {
		doc.Habits = []models.Habit{}
	}
	for i := range doc.Habits {
		if doc.Habits[i].CheckIns == nil {
			doc.Habits[i].CheckIns = []time.Time{}
		}
	}
	doc.Settings = doc.Settings.WithDefaults()
	return doc, nil
}

// JSONStore keeps the collection in a single JSON file. The file is re-read
// on every call, so several processes see each other's last write.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		if _, err := s.read(); err != nil {
			return err
		}
		return nil
	}

	return s.write(NewDocument())
}

func (s *JSONStore) Load() error {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitline init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) LoadHabits() ([]models.Habit, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.Habits, nil
}

func (s *JSONStore) SaveHabits(habits []models.Habit) error {
	doc, err := s.readOrNew()
	if err != nil {
		return err
	}
	doc.Habits = habits
	return s.write(doc)
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	doc, err := s.read()
	if err != nil {
		return models.Settings{}, err
	}
	return doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	doc, err := s.readOrNew()
	if err != nil {
		return err
	}
	doc.Settings = settings
	return s.write(doc)
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// read parses the file. A file that cannot be parsed is renamed to
// <path>.corrupt so a later save cannot overwrite the only copy.
func (s *JSONStore) read() (Document, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read storage: %w", err)
	}
	doc, err := DecodeDocument(f)
	f.Close()
	if err == nil {
		return doc, nil
	}

	aside := s.path + ".corrupt"
	if renameErr := os.Rename(s.path, aside); renameErr != nil {
		logger.Error("Failed to move unreadable habit file aside", "path", s.path, "error", renameErr)
		return Document{}, err
	}
	logger.Warn("Moved unreadable habit file aside", "path", s.path, "moved_to", aside)
	return Document{}, fmt.Errorf("%w (original kept at %s)", err, aside)
}

// readOrNew is read, except a missing or quarantined file yields a fresh document.
func (s *JSONStore) readOrNew() (Document, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return NewDocument(), nil
	}
	doc, err := s.read()
	if err != nil {
		if _, statErr := os.Stat(s.path); errors.Is(statErr, os.ErrNotExist) {
			return NewDocument(), nil
		}
		return Document{}, err
	}
	return doc, nil
}

// write replaces the file atomically through a temp file in the same directory.
func (s *JSONStore) write(doc Document) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeDocument(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}
