// Package infra wires external systems: the database connection and the
// repository and event bus implementations under its subpackages.
package infra

import (
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jeremi-ah/bankledger/config"
)

// NewDBConnection opens a PostgreSQL connection for the given environment.
// TranslateError is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey.
func NewDBConnection(cnf config.DBConfig, appEnv string) (*gorm.DB, error) {
	databaseUrl := cnf.Url
	if databaseUrl == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	var logMode logger.LogLevel
	switch appEnv {
	case "development":
		logMode = logger.Info
	case "test":
		logMode = logger.Silent
	default:
		logMode = logger.Warn
	}

	connection, err := gorm.Open(postgres.Open(databaseUrl), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return connection, nil
}
