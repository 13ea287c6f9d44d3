// Package app assembles the services from wired infrastructure.
package app

import (
	"log/slog"

	"github.com/jeremi-ah/bankledger/config"
	"github.com/jeremi-ah/bankledger/pkg/eventbus"
	"github.com/jeremi-ah/bankledger/pkg/repository"
	"github.com/jeremi-ah/bankledger/pkg/service/auth"
	"github.com/jeremi-ah/bankledger/pkg/service/ledger"
	"github.com/jeremi-ah/bankledger/pkg/service/user"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	AccountStore repository.AccountStore
	UserRepo     repository.UserRepository
	EventBus     eventbus.Bus
	Logger       *slog.Logger
}

// App owns the configured service graph.
type App struct {
	Deps   *Deps
	Config *config.AppConfig

	AuthService   *auth.Service
	UserService   *user.Service
	LedgerService *ledger.Service
}

// New wires the services.
func New(deps *Deps, cfg *config.AppConfig) *App {
	return &App{
		Deps:   deps,
		Config: cfg,
		AuthService: auth.New(
			deps.UserRepo, cfg.Jwt, deps.Logger),
		UserService: user.New(
			deps.UserRepo, deps.Logger),
		LedgerService: ledger.New(
			deps.AccountStore, deps.EventBus, deps.Logger, cfg.Ledger.MaxRetries),
	}
}
