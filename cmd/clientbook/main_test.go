package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/andy/clientbook/internal/app"
	"github.com/andy/clientbook/internal/config"
	"github.com/andy/clientbook/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T) func(context.Context) (*app.App, error) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "clientbook.db"), "test-key")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return func(context.Context) (*app.App, error) {
		return &app.App{Config: config.DefaultConfig(), DB: database}, nil
	}
}

func TestRun_FailingCommandClosesApp(t *testing.T) {
	newApp := testApp(t)
	a, _ := newApp(context.Background())

	code := run(context.Background(), []string{"reset", "--no-such-flag"}, newApp)
	assert.Equal(t, 1, code)
	assert.Error(t, a.DB.Ping(), "database should be closed after run returns")
}

func TestRun_InitFailure(t *testing.T) {
	code := run(context.Background(), []string{"clients"}, func(context.Context) (*app.App, error) {
		return nil, errors.New("no key")
	})
	assert.Equal(t, 1, code)
}

func TestWantsHelp(t *testing.T) {
	assert.True(t, wantsHelp([]string{"poc", "--help"}))
	assert.True(t, wantsHelp([]string{"help"}))
	assert.False(t, wantsHelp([]string{"sell", "1", "q/1", "g/help", "p/1"}))
}
