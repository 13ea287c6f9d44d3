//go:build kafka
// +build kafka

package initializer

import (
	"log/slog"

	"github.com/jeremi-ah/bankledger/config"
	infraeventbus "github.com/jeremi-ah/bankledger/infra/eventbus"
	"github.com/jeremi-ah/bankledger/pkg/eventbus"
)

// setupEventBus selects the Kafka publisher when brokers are configured
// and falls back to the in-memory bus otherwise.
func setupEventBus(cfg *config.AppConfig, logger *slog.Logger) (eventbus.Bus, error) {
	if cfg.Kafka.Brokers == "" {
		logger.Warn("KAFKA_BROKERS not set, using in-memory event bus")
		return infraeventbus.NewWithMemory(logger), nil
	}
	return infraeventbus.NewWithKafka(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix, logger)
}
