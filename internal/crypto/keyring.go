package crypto

import "errors"

var (
	ErrKeyNotFound = errors.New("database key not found")
	ErrEmptyKey    = errors.New("password cannot be empty")
)

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "clientbook"
	KeyName     = "db-encryption-key"

	// KeyEnvVar overrides the stored key and is the only source on
	// platforms without a keyring
	KeyEnvVar = "CLIENTBOOK_DB_KEY"
)

// NewKeyring returns the best available keyring implementation
func NewKeyring() Keyring {
	return newPlatformKeyring()
}
