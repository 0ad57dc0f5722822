// Package keyring keeps the PostgreSQL connection string in the OS keyring so
// it never has to appear in a flag, config file, or shell history.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitline/internal/constants"
)

var (
	// ErrNotFound is returned when no connection string is stored
	ErrNotFound = errors.New("no connection string stored in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entry addresses one secret in the keyring.
type Entry struct {
	Service string
	User    string
}

// ConnectionEntry is where habitline stores its database connection string.
var ConnectionEntry = Entry{Service: constants.AppName, User: constants.DefaultKeyringUser}

// Get returns the stored secret, or ErrNotFound.
func (e Entry) Get() (string, error) {
	secret, err := keyring.Get(e.Service, e.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores secret, replacing any previous value.
func (e Entry) Set(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(e.Service, e.User, secret); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret. It returns ErrNotFound if nothing was stored.
func (e Entry) Delete() error {
	if err := keyring.Delete(e.Service, e.User); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	return nil
}

// GetConnectionString reads the habitline connection string.
func GetConnectionString() (string, error) {
	return ConnectionEntry.Get()
}

// SetConnectionString stores the habitline connection string.
func SetConnectionString(connStr string) error {
	return ConnectionEntry.Set(connStr)
}

// DeleteConnectionString removes the habitline connection string.
func DeleteConnectionString() error {
	return ConnectionEntry.Delete()
}

// IsAvailable reports whether the OS keyring answers at all. A missing entry
// still counts as available.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-check")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
