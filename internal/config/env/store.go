package env

import (
	"errors"
	"fmt"
	"fortune_wheel/internal/config"
	"os"
)

const (
	storeDriverEnvName = "STORE_DRIVER"
	sqlitePathEnvName  = "SQLITE_PATH"
	dsnName            = "PG_DSN"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"

	defaultSQLitePath = "wheel.db"
)

type storeConfig struct {
	driver     string
	sqlitePath string
}

func NewStoreConfig() (config.StoreConfig, error) {
	driver := os.Getenv(storeDriverEnvName)
	if len(driver) == 0 {
		driver = DriverSQLite
	}

	switch driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	path := os.Getenv(sqlitePathEnvName)
	if len(path) == 0 {
		path = defaultSQLitePath
	}

	return &storeConfig{
		driver:     driver,
		sqlitePath: path,
	}, nil
}

func (cfg *storeConfig) Driver() string {
	return cfg.driver
}

func (cfg *storeConfig) SQLitePath() string {
	return cfg.sqlitePath
}

type pgConfig struct {
	dsn string
}

func NewPGConfig() (config.PGConfig, error) {
	dsn := os.Getenv(dsnName)
	if len(dsn) == 0 {
		return nil, errors.New("pg dsn not found")
	}

	return &pgConfig{
		dsn: dsn,
	}, nil
}

func (cfg *pgConfig) DSN() string {
	return cfg.dsn
}
