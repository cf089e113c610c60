// ABOUTME: Shared setup for crmlink commands
// ABOUTME: Resolves settings, opens the database, and builds the HubSpot adapter over the chosen store
package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/crmlink/charm"
	"github.com/harperreed/crmlink/db"
	"github.com/harperreed/crmlink/hubspot"
	"github.com/harperreed/crmlink/store"
	"github.com/joho/godotenv"
)

// Credential store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreCharm  = "charm"
)

// Settings are the process-level options shared by every command.
type Settings struct {
	Store    string
	DBPath   string
	FileDir  string
	LogLevel string
	Addr     string
	EnvFile  string
}

// LoadSettings loads envFile (if present) and reads the CRMLINK_* variables.
// Empty fields in overrides are left to the environment or the defaults.
func LoadSettings(envFile string, overrides Settings) (Settings, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("failed to load env file: %w", err)
	}

	s := Settings{
		Store:    firstNonEmpty(overrides.Store, os.Getenv("CRMLINK_STORE"), StoreSQLite),
		DBPath:   firstNonEmpty(overrides.DBPath, os.Getenv("CRMLINK_DB_PATH"), db.DefaultPath()),
		FileDir:  firstNonEmpty(overrides.FileDir, os.Getenv("CRMLINK_CREDENTIALS_DIR"), store.DefaultFileDir()),
		LogLevel: firstNonEmpty(overrides.LogLevel, os.Getenv("CRMLINK_LOG_LEVEL"), "info"),
		Addr:     firstNonEmpty(overrides.Addr, os.Getenv("CRMLINK_ADDR"), ":8000"),
		EnvFile:  envFile,
	}
	s.Store = strings.ToLower(s.Store)

	switch s.Store {
	case StoreMemory, StoreFile, StoreSQLite, StoreCharm:
	default:
		return Settings{}, fmt.Errorf("unknown store %q (want memory, file, sqlite, or charm)", s.Store)
	}

	return s, nil
}

// NewLogger builds the stderr logger for the configured level.
func (s Settings) NewLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "crmlink",
	})
	logger.SetLevel(level)
	return logger, nil
}

// App bundles the adapter with the resources it was built on.
type App struct {
	Settings Settings
	Adapter  *hubspot.Adapter
	DB       *sql.DB
	Logger   *log.Logger
}

// Open builds an App from settings. The database is always opened: it
// holds the fetch log even when credentials live elsewhere.
func Open(settings Settings) (*App, error) {
	logger, err := settings.NewLogger()
	if err != nil {
		return nil, err
	}

	cfg, err := hubspot.LoadConfig(settings.EnvFile)
	if err != nil {
		return nil, err
	}

	database, err := db.OpenDatabase(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	st, err := openStore(settings, database)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	adapter, err := hubspot.New(cfg, st,
		hubspot.WithRecorder(db.NewFetchLog(database)),
		hubspot.WithLogger(logger),
	)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	logger.Debug("crmlink ready", "store", settings.Store, "db", settings.DBPath, "key_scope", cfg.KeyScope)

	return &App{
		Settings: settings,
		Adapter:  adapter,
		DB:       database,
		Logger:   logger,
	}, nil
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func openStore(settings Settings, database *sql.DB) (store.Store, error) {
	switch settings.Store {
	case StoreMemory:
		return store.NewMemory(), nil
	case StoreFile:
		return store.NewFile(settings.FileDir), nil
	case StoreSQLite:
		return store.NewSQLite(database), nil
	case StoreCharm:
		cfg, err := charm.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load charm config: %w", err)
		}
		client, err := charm.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewCharm(client), nil
	}
	return nil, fmt.Errorf("unknown store %q", settings.Store)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
