package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://habits@localhost:5432/habitline?sslmode=disable"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}
}

func TestSetConnectionStringBlank(t *testing.T) {
	gokeyring.MockInit()

	for _, s := range []string{"", "   "} {
		if err := SetConnectionString(s); err == nil {
			t.Errorf("SetConnectionString(%q) should return an error", s)
		}
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://habits@localhost/habitline"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}

	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestEntriesAreIndependent(t *testing.T) {
	gokeyring.MockInit()

	other := Entry{Service: "habitline", User: "other"}
	if err := other.Set("secret"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	_ = DeleteConnectionString()

	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	got, err := other.Get()
	if err != nil || got != "secret" {
		t.Errorf("other.Get() = %q, %v", got, err)
	}
}

func TestGetUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus session"))
	t.Cleanup(gokeyring.MockInit)

	if _, err := GetConnectionString(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrKeyringUnavailable)
	}
	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing keyring")
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
