package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/keyring"
	"github.com/julianstephens/habitline/internal/storage/postgres"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
	"github.com/julianstephens/habitline/internal/utils"
)

// ErrEmbeddedCredentials is returned for a --config connection string that
// carries a password.
var ErrEmbeddedCredentials = postgres.ErrEmbeddedCredentials

// Open selects a store for config without touching it. The connection string
// in HABITLINE_DB_CONNECTION wins over config. config may be "keyring", a
// PostgreSQL URL or DSN, a .json path, or a SQLite path.
//
// Passwords are accepted from the environment and the keyring only.
func Open(config string) (Provider, error) {
	if connStr := strings.TrimSpace(os.Getenv(constants.ConnectionEnvVar)); connStr != "" {
		return openPostgres(connStr, true)
	}

	switch {
	case config == constants.KeyringConfigValue:
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		return openPostgres(connStr, true)
	case postgres.IsConnString(config) || looksLikeDSN(config):
		return openPostgres(config, false)
	}

	path, err := utils.ExpandPath(config)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

func openPostgres(connStr string, trusted bool) (Provider, error) {
	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if !trusted || !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
	}
	return postgres.New(connStr), nil
}

// HasEmbeddedCredentials reports whether connStr includes a password.
func HasEmbeddedCredentials(connStr string) bool {
	_, err := postgres.ValidateConnString(connStr)
	return errors.Is(err, postgres.ErrEmbeddedCredentials)
}

// looksLikeDSN matches key=value connection strings such as
// "host=localhost dbname=habits".
func looksLikeDSN(config string) bool {
	for _, part := range strings.Fields(config) {
		key, _, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "host", "dbname", "user", "port":
			return true
		}
	}
	return false
}
