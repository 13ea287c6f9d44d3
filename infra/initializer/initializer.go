// Package initializer builds the infrastructure dependencies from
// configuration: logger, storage, and the event bus.
package initializer

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/jeremi-ah/bankledger/config"
	"github.com/jeremi-ah/bankledger/infra"
	"github.com/jeremi-ah/bankledger/infra/repository/gormstore"
	"github.com/jeremi-ah/bankledger/infra/repository/memory"
	"github.com/jeremi-ah/bankledger/pkg/eventbus"
	"github.com/jeremi-ah/bankledger/pkg/repository"
)

// Deps holds the wired infrastructure consumed by the services.
type Deps struct {
	AccountStore repository.AccountStore
	UserRepo     repository.UserRepository
	EventBus     eventbus.Bus
	DB           *gorm.DB
	Logger       *slog.Logger
}

// InitializeDependencies builds the dependency graph: PostgreSQL-backed
// repositories when DATABASE_URL is set, in-memory otherwise.
func InitializeDependencies(cfg *config.AppConfig) (*Deps, error) {
	logger := SetupLogger(cfg.Log)

	deps := &Deps{Logger: logger}

	if cfg.DB.Url != "" {
		db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		accountStore := gormstore.NewAccountStore(db)
		if err := accountStore.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate accounts: %w", err)
		}
		userRepo := gormstore.NewUserRepository(db)
		if err := userRepo.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate users: %w", err)
		}
		deps.DB = db
		deps.AccountStore = accountStore
		deps.UserRepo = userRepo
		logger.Info("storage initialized", "backend", "postgres")
	} else {
		deps.AccountStore = memory.NewAccountStore()
		deps.UserRepo = memory.NewUserRepository()
		logger.Warn("DATABASE_URL not set, using in-memory storage")
	}

	bus, err := setupEventBus(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup event bus: %w", err)
	}
	deps.EventBus = bus

	return deps, nil
}
