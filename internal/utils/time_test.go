package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitline/internal/models"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestLocationFromSettings(t *testing.T) {
	loc, err := LocationFromSettings(models.Settings{Timezone: "UTC"})
	if err != nil {
		t.Fatalf("LocationFromSettings() error = %v", err)
	}
	if loc != time.UTC {
		t.Errorf("LocationFromSettings() = %v, want UTC", loc)
	}

	if _, err := LocationFromSettings(models.Settings{Timezone: "Mars/Olympus"}); err == nil {
		t.Error("LocationFromSettings() expected error for unknown timezone")
	}
}

func TestNowInTimezone(t *testing.T) {
	now, err := NowInTimezone("UTC")
	if err != nil {
		t.Fatalf("NowInTimezone() error = %v", err)
	}
	if now.Location() != time.UTC {
		t.Errorf("NowInTimezone() location = %v, want UTC", now.Location())
	}

	if _, err := NowInTimezone("Invalid/Timezone"); err == nil {
		t.Error("NowInTimezone() expected error for invalid timezone")
	}
}

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"20:00", 1200, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9pm", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeToMinutes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeToMinutes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsPastTimeOfDay(t *testing.T) {
	now := time.Date(2024, time.March, 3, 19, 45, 0, 0, time.UTC)

	tests := []struct {
		at   string
		want bool
	}{
		{"19:00", true},
		{"19:45", true},
		{"20:00", false},
	}
	for _, tt := range tests {
		got, err := IsPastTimeOfDay(now, tt.at)
		if err != nil {
			t.Fatalf("IsPastTimeOfDay(%q) error = %v", tt.at, err)
		}
		if got != tt.want {
			t.Errorf("IsPastTimeOfDay(%q) = %v, want %v", tt.at, got, tt.want)
		}
	}

	if _, err := IsPastTimeOfDay(now, "late"); err == nil {
		t.Error("IsPastTimeOfDay() expected error for malformed time")
	}
}

func TestValidateTimezone(t *testing.T) {
	for _, tz := range []string{"", "Local", "UTC"} {
		if !ValidateTimezone(tz) {
			t.Errorf("ValidateTimezone(%q) = false, want true", tz)
		}
	}
	if ValidateTimezone("Nowhere/Special") {
		t.Error("ValidateTimezone() accepted an unknown zone")
	}
}

func TestValidateTimeFormat(t *testing.T) {
	if !ValidateTimeFormat("07:15") {
		t.Error("ValidateTimeFormat(07:15) = false, want true")
	}
	if ValidateTimeFormat("7.15") {
		t.Error("ValidateTimeFormat(7.15) = true, want false")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/habits/db.sqlite", filepath.Join(home, "habits", "db.sqlite")},
		{"/tmp/habits.db", "/tmp/habits.db"},
		{"relative/habits.json", "relative/habits.json"},
		{"~other/file", "~other/file"},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Fatalf("ExpandPath(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
