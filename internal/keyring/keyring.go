package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/planner/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested name
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secret names the keyring entries the application knows about.
type Secret string

const (
	SecretPostgresDSN   Secret = constants.DefaultKeyringUser
	SecretRedisPassword Secret = constants.RedisKeyringUser
)

// KnownSecrets lists every secret name accepted by the CLI.
var KnownSecrets = []Secret{SecretPostgresDSN, SecretRedisPassword}

// ParseSecret maps a user-supplied name to a known secret.
func ParseSecret(name string) (Secret, error) {
	for _, s := range KnownSecrets {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown secret %q (known: %s, %s)", name, SecretPostgresDSN, SecretRedisPassword)
}

// Get retrieves a secret from the OS keyring.
// Returns ErrNotFound if nothing is stored.
func Get(name Secret) (string, error) {
	value, err := keyring.Get(constants.AppName, string(name))
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a secret in the OS keyring.
func Set(name Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if err := keyring.Set(constants.AppName, string(name), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", name, err)
	}
	return nil
}

// Delete removes a secret from the OS keyring.
func Delete(name Secret) error {
	err := keyring.Delete(constants.AppName, string(name))
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", name, err)
	}
	return nil
}

// GetConnectionString retrieves the PostgreSQL connection string.
func GetConnectionString() (string, error) {
	return Get(SecretPostgresDSN)
}

// SetConnectionString stores the PostgreSQL connection string.
func SetConnectionString(connStr string) error {
	return Set(SecretPostgresDSN, connStr)
}

// DeleteConnectionString removes the PostgreSQL connection string.
func DeleteConnectionString() error {
	return Delete(SecretPostgresDSN)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered
	return err == nil || err == keyring.ErrNotFound
}
