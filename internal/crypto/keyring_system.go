//go:build darwin || linux || windows

package crypto

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// systemKeyring stores the key in the OS credential store (macOS Keychain,
// Secret Service on Linux, Credential Manager on Windows). KeyEnvVar, when
// set, takes precedence so headless machines can still open the book.
type systemKeyring struct{}

func newPlatformKeyring() Keyring {
	return &systemKeyring{}
}

// GetKey returns the database key from the environment or the OS keyring
func (k *systemKeyring) GetKey() (string, error) {
	if key := os.Getenv(KeyEnvVar); key != "" {
		return key, nil
	}

	key, err := keyring.Get(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %v", ErrKeyNotFound, err)
		}
		return "", fmt.Errorf("failed to retrieve key from keyring: %w", err)
	}

	if key == "" {
		return "", ErrKeyNotFound
	}

	return key, nil
}

// SetKey stores the database key in the OS keyring
func (k *systemKeyring) SetKey(password string) error {
	if password == "" {
		return ErrEmptyKey
	}

	if err := keyring.Set(ServiceName, KeyName, password); err != nil {
		return fmt.Errorf("failed to store key in keyring: %w", err)
	}

	return nil
}

// DeleteKey removes the database key from the OS keyring
func (k *systemKeyring) DeleteKey() error {
	err := keyring.Delete(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrKeyNotFound, err)
		}
		return fmt.Errorf("failed to delete key from keyring: %w", err)
	}

	return nil
}

// IsAvailable checks the keyring by writing and removing a throwaway entry
func (k *systemKeyring) IsAvailable() bool {
	entry := "__clientbook_availability_test__"
	if err := keyring.Set(ServiceName, entry, "test"); err != nil {
		return false
	}

	_ = keyring.Delete(ServiceName, entry)
	return true
}
