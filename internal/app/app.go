package app

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/andy/clientbook/internal/config"
	"github.com/andy/clientbook/internal/crypto"
	"github.com/andy/clientbook/internal/db"
	applog "github.com/andy/clientbook/internal/log"
	"github.com/andy/clientbook/internal/parser"
	"github.com/andy/clientbook/internal/repository"
	"github.com/andy/clientbook/internal/service"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// App is the dependency injection container for all application components
type App struct {
	Config     *config.Config
	ConfigPath string // where SaveConfig writes; defaults to config.DefaultConfigPath()
	Keyring    crypto.Keyring
	DB         *db.DB
	Logger     *zap.Logger

	ClientRepo    repository.ClientRepository
	ClientService service.ClientService
	Parser        *parser.Parser
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading .env and config
// 2. Getting encryption key from keyring
// 3. Opening database and running migrations
// 4. Wiring repositories and services
func New(ctx context.Context) (*App, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a, err := NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.ConfigPath = config.DefaultConfigPath()
	return a, nil
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := applog.New(applog.Config{Level: cfg.Log.Level, Path: cfg.Log.Path})
	if err != nil {
		return nil, err
	}

	keyring := crypto.NewKeyring()
	password, err := databaseKey(keyring)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if version, err := database.SchemaVersion(); err == nil {
		logger.Debug("database ready",
			zap.String("path", cfg.Database.Path),
			zap.Int("schema_version", version),
		)
	}

	clientRepo := repository.NewClientRepo(database)

	return &App{
		Config:        cfg,
		Keyring:       keyring,
		DB:            database,
		Logger:        logger,
		ClientRepo:    clientRepo,
		ClientService: service.NewClientService(clientRepo, logger),
		Parser:        parser.New(),
	}, nil
}

// Run parses a command line and executes it
func (a *App) Run(ctx context.Context, line string) (*service.Result, error) {
	cmd, err := a.Parser.Parse(line)
	if err != nil {
		return nil, err
	}
	return a.ClientService.Execute(ctx, cmd)
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Logger != nil {
		// Sync on a file-less logger fails on some platforms; ignore it
		_ = a.Logger.Sync()
	}
	return errors.Join(errs...)
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	path := a.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return a.Config.Save(path)
}

// databaseKey returns the stored encryption key, prompting for a new one on first run
func databaseKey(keyring crypto.Keyring) (string, error) {
	password, err := keyring.GetKey()
	if err == nil {
		return password, nil
	}
	if !errors.Is(err, crypto.ErrKeyNotFound) {
		return "", fmt.Errorf("failed to read encryption key: %w", err)
	}

	fmt.Println("Setting up database encryption for the first time...")
	password, err = promptForPassword()
	if err != nil {
		return "", fmt.Errorf("failed to set password: %w", err)
	}

	if err := keyring.SetKey(password); err != nil {
		return "", fmt.Errorf("failed to store encryption key: %w", err)
	}
	return password, nil
}

// promptForPassword prompts user for a new database password (first run)
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your client book will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}
