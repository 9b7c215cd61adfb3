package backend

import (
	"fmt"
	"log/slog"

	"billtracker/internal/config"
	"billtracker/internal/storage"
	"billtracker/internal/store"
	"billtracker/internal/store/jsonfile"
	"billtracker/internal/store/memory"
)

// Factory creates store backends from configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create opens the backend named by cfg.Type.
func (f *Factory) Create(cfg Config) (*Result, error) {
	switch cfg.Type {
	case JSONBackend:
		return f.createJSON(cfg)
	case SQLiteBackend:
		return f.createSQLite(cfg)
	case MemoryBackend:
		return f.createMemory()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) createJSON(cfg Config) (*Result, error) {
	dir := cfg.DataDir
	if dir == "" {
		dir = "data"
	}
	s, err := jsonfile.New(dir)
	if err != nil {
		return nil, fmt.Errorf("initialize json store: %w", err)
	}
	f.logger.Info("Initialized json backend", "data_dir", dir)
	return &Result{Stores: allPorts(s)}, nil
}

func (f *Factory) createSQLite(cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}
	f.logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
	return &Result{Stores: allPorts(repo), Cleanup: repo.Close}, nil
}

func (f *Factory) createMemory() (*Result, error) {
	f.logger.Info("Initialized memory backend")
	return &Result{Stores: allPorts(memory.New())}, nil
}

// allPorts wires one implementation that satisfies every port.
func allPorts(s interface {
	store.BillStore
	store.AuditStore
	store.StatementStore
	store.FeeStore
}) store.Stores {
	return store.Stores{Bills: s, Audits: s, Statements: s, Fees: s}
}

// FromAppConfig converts the application config to a backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:         t,
		DataDir:      appConfig.DataDir,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}
