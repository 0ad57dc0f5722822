package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, configDir string) string {
	t.Helper()
	data, err := os.ReadFile(Path(configDir))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(data)
}

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Cleanup(func() { Close() })

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if want := filepath.Join(configDir, "logs", "habitline.log"); Path(configDir) != want {
		t.Errorf("Path() = %q, want %q", Path(configDir), want)
	}

	Info("Created habit", "id", "habit-0001", "name", "Read")
	Warn("Test warning message", "habit", "Read")
	Error("Test error message")

	content := readLog(t, configDir)
	for _, want := range []string{`msg="Created habit"`, "name=Read", "level=warn", "level=error"} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in log file, got %q", want, content)
		}
	}
}

func TestDebugSuppressedByDefault(t *testing.T) {
	configDir := t.TempDir()
	t.Cleanup(func() { Close() })

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	Warn("save failed", "op", "save")
	Debug("suppressed below info level")

	content := readLog(t, configDir)
	if !strings.Contains(content, "save failed") {
		t.Errorf("expected warning in log file, got %q", content)
	}
	if strings.Contains(content, "suppressed below info level") {
		t.Errorf("debug message written in non-debug mode: %q", content)
	}
}

func TestInitDebugMode(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Cleanup(func() { Close() })

	if err := Init(Config{Debug: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if console == nil {
		t.Error("expected a stderr mirror in debug mode")
	}

	Debug("Loaded habits", "count", 2)

	if content := readLog(t, configDir); !strings.Contains(content, "Loaded habits") {
		t.Errorf("expected debug record in log file, got %q", content)
	}
}

func TestCloseDisablesLogging(t *testing.T) {
	configDir := t.TempDir()
	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if Logger != nil || console != nil {
		t.Error("expected logging disabled after Close")
	}

	// These should not panic after Close
	Debug("Test debug message")
	Info("Test info message")
	Warn("after close")
	Error("Test error message")

	if strings.Contains(readLog(t, configDir), "after close") {
		t.Error("record written after Close")
	}
	if err := Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
