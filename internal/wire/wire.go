// Package wire provides dependency injection for the till application.
// It creates singleton services with lazy initialization.
package wire

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	cliadapter "github.com/example/till/internal/adapters/cli"
	"github.com/example/till/internal/adapters/filesystem"
	"github.com/example/till/internal/adapters/remote"
	"github.com/example/till/internal/adapters/sqlite"
	"github.com/example/till/internal/adapters/web"
	"github.com/example/till/internal/app"
	"github.com/example/till/internal/config"
	"github.com/example/till/internal/core/catalog"
	"github.com/example/till/internal/core/receipt"
	"github.com/example/till/internal/db"
	"github.com/example/till/internal/logging"
	"github.com/example/till/internal/ports/primary"
	"github.com/example/till/internal/ports/secondary"
)

var (
	overrides []func(*config.Config)

	cfg            *config.Config
	logger         *zap.Logger
	database       *sql.DB
	repository     secondary.SnapshotRepository
	receiptService primary.ReceiptService
	initErr        error
	once           sync.Once
)

// Override registers a change applied to the loaded configuration, such as
// a command-line flag. It must be called before any service is requested.
func Override(fn func(*config.Config)) {
	overrides = append(overrides, fn)
}

// Config returns the effective configuration.
func Config() (*config.Config, error) {
	once.Do(initServices)
	return cfg, initErr
}

// Logger returns the application logger, or a no-op logger if
// initialization failed.
func Logger() *zap.Logger {
	once.Do(initServices)
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// ReceiptService returns the singleton ReceiptService instance.
func ReceiptService() (primary.ReceiptService, error) {
	once.Do(initServices)
	return receiptService, initErr
}

// SnapshotRepository returns the configured persistence adapter.
func SnapshotRepository() (secondary.SnapshotRepository, error) {
	once.Do(initServices)
	return repository, initErr
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	initErr = build()
}

func build() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err = config.Load(wd, overrides...)
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	variant, err := receipt.LookupVariant(cfg.Variant)
	if err != nil {
		return err
	}

	repository, err = snapshotRepository()
	if err != nil {
		return err
	}

	receiptService = app.NewReceiptService(
		repository,
		catalogSource(),
		catalog.NewSampler(nil),
		app.ReceiptServiceConfig{Variant: variant, Autosave: cfg.Autosave},
		logger.Named("receipt"),
	)
	return nil
}

// snapshotRepository creates the configured persistence adapter.
func snapshotRepository() (secondary.SnapshotRepository, error) {
	switch cfg.Store {
	case config.StoreFile:
		path := cfg.StatePath
		if path == "" {
			var err error
			if path, err = config.DefaultStatePath(); err != nil {
				return nil, err
			}
		}
		logger.Debug("using file store", zap.String("path", path))
		return filesystem.NewSnapshotStore(path), nil
	default:
		path := cfg.DBPath
		if path == "" {
			var err error
			if path, err = db.DefaultPath(); err != nil {
				return nil, err
			}
		}
		conn, err := db.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		database = conn
		logger.Debug("using sqlite store", zap.String("path", path))
		return sqlite.NewSnapshotRepository(conn), nil
	}
}

// OpenStore opens the snapshot store at path, independent of the configured
// store. The caller runs the returned close function when done.
func OpenStore(path string) (secondary.SnapshotRepository, func() error, error) {
	if StoreKind(path) == config.StoreFile {
		return filesystem.NewSnapshotStore(path), func() error { return nil }, nil
	}
	conn, err := db.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return sqlite.NewSnapshotRepository(conn), conn.Close, nil
}

var sqliteHeader = []byte("SQLite format 3\x00")

// StoreKind picks the backend for a store path: by extension when it is
// .json, .db, .sqlite or .sqlite3, otherwise by the sqlite file header.
// Anything else, including a missing file, is a JSON state file.
func StoreKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return config.StoreFile
	case ".db", ".sqlite", ".sqlite3":
		return config.StoreSQLite
	}

	f, err := os.Open(path)
	if err != nil {
		return config.StoreFile
	}
	defer f.Close()

	head := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, head); err == nil && bytes.Equal(head, sqliteHeader) {
		return config.StoreSQLite
	}
	return config.StoreFile
}

// catalogSource creates the configured catalog adapter.
func catalogSource() secondary.CatalogSource {
	switch {
	case cfg.Catalog == "":
		return filesystem.BuiltinCatalog{}
	case cfg.IsRemoteCatalog():
		return remote.NewCatalogURL(cfg.Catalog, time.Duration(cfg.CatalogTimeoutSeconds)*time.Second)
	default:
		return filesystem.NewCatalogFile(cfg.Catalog)
	}
}

// ReceiptAdapter returns a new ReceiptAdapter writing to stdout, with
// colour when stdout is a terminal.
// Each call creates a new adapter (adapters are stateless translators).
func ReceiptAdapter() (*cliadapter.ReceiptAdapter, error) {
	return ReceiptAdapterWithOutput(os.Stdout, !color.NoColor)
}

// ReceiptAdapterWithOutput returns a new ReceiptAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func ReceiptAdapterWithOutput(out io.Writer, useColor bool) (*cliadapter.ReceiptAdapter, error) {
	svc, err := ReceiptService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewReceiptAdapter(svc, out, useColor), nil
}

// WebServer returns a new HTTP server over the receipt service.
func WebServer() (*web.Server, error) {
	svc, err := ReceiptService()
	if err != nil {
		return nil, err
	}
	return web.NewServer(svc, Logger().Named("web"))
}

// Close releases the database and flushes the logger.
func Close() error {
	if logger != nil {
		_ = logger.Sync()
	}
	if database != nil {
		return database.Close()
	}
	return nil
}
