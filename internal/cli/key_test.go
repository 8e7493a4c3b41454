package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/andy/clientbook/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeKeyring struct {
	key       string
	available bool
	deleteErr error
}

func (f *fakeKeyring) GetKey() (string, error) {
	if f.key == "" {
		return "", crypto.ErrKeyNotFound
	}
	return f.key, nil
}
func (f *fakeKeyring) SetKey(password string) error { f.key = password; return nil }
func (f *fakeKeyring) DeleteKey() error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if f.key == "" {
		return crypto.ErrKeyNotFound
	}
	f.key = ""
	return nil
}
func (f *fakeKeyring) IsAvailable() bool { return f.available }

func TestPrintKeyStatus(t *testing.T) {
	t.Setenv(crypto.KeyEnvVar, "")
	var buf bytes.Buffer
	printKeyStatus(&buf, &fakeKeyring{available: true})
	assert.Contains(t, buf.String(), "Keyring available: yes")
	assert.Contains(t, buf.String(), "Key source:        keyring")

	t.Setenv(crypto.KeyEnvVar, "from-env")
	buf.Reset()
	printKeyStatus(&buf, &fakeKeyring{})
	assert.Contains(t, buf.String(), "Keyring available: no")
	assert.Contains(t, buf.String(), crypto.KeyEnvVar)
}

func TestForgetKey(t *testing.T) {
	kr := &fakeKeyring{key: "hunter2"}
	var buf bytes.Buffer

	require.NoError(t, forgetKey(&buf, kr, zap.NewNop()))
	assert.Equal(t, "Key removed.\n", buf.String())
	assert.Empty(t, kr.key)

	buf.Reset()
	require.NoError(t, forgetKey(&buf, kr, zap.NewNop()))
	assert.Equal(t, "No key stored.\n", buf.String())

	kr.deleteErr = errors.New("locked")
	assert.Error(t, forgetKey(&buf, kr, zap.NewNop()))
}
