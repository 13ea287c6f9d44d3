package main

import (
	"fmt"
	"log/slog"

	log "github.com/charmbracelet/log"

	"github.com/jeremi-ah/bankledger/config"
	"github.com/jeremi-ah/bankledger/infra/initializer"
	"github.com/jeremi-ah/bankledger/pkg/app"
	"github.com/jeremi-ah/bankledger/webapi"
)

// @title Bank Ledger API
// @version 1.0.0
// @description Account ledger with token-authenticated deposits and withdrawals
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadAppConfig(slog.Default(), ".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	application := app.New(&app.Deps{
		AccountStore: deps.AccountStore,
		UserRepo:     deps.UserRepo,
		EventBus:     deps.EventBus,
		Logger:       deps.Logger,
	}, cfg)

	fiberApp := webapi.SetupApp(application)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	deps.Logger.Info("starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Scheme,
	)
	return fiberApp.Listen(addr)
}
