//go:build !kafka
// +build !kafka

package initializer

import (
	"log/slog"

	"github.com/jeremi-ah/bankledger/config"
	infraeventbus "github.com/jeremi-ah/bankledger/infra/eventbus"
	"github.com/jeremi-ah/bankledger/pkg/eventbus"
)

// setupEventBus selects the in-memory bus. The Kafka publisher is compiled
// in with the kafka build tag.
func setupEventBus(cfg *config.AppConfig, logger *slog.Logger) (eventbus.Bus, error) {
	return infraeventbus.NewWithMemory(logger), nil
}
