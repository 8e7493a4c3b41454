//go:build !darwin && !linux && !windows

package crypto

import (
	"fmt"
	"os"
)

// envKeyring reads the database key from KeyEnvVar; it cannot store one
type envKeyring struct{}

func newPlatformKeyring() Keyring {
	return &envKeyring{}
}

func (k *envKeyring) GetKey() (string, error) {
	key := os.Getenv(KeyEnvVar)
	if key == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrKeyNotFound, KeyEnvVar)
	}

	return key, nil
}

func (k *envKeyring) SetKey(password string) error {
	if password == "" {
		return ErrEmptyKey
	}

	return fmt.Errorf("keyring not available on this platform: set %s in your environment or .env file", KeyEnvVar)
}

func (k *envKeyring) DeleteKey() error {
	return fmt.Errorf("keyring not available on this platform: unset %s manually", KeyEnvVar)
}

func (k *envKeyring) IsAvailable() bool {
	return os.Getenv(KeyEnvVar) != ""
}
