package env

import (
	"fortune_wheel/internal/config"
	"os"
)

const (
	adminTokenHashEnvName = "ADMIN_TOKEN_HASH"
	logLevelEnvName       = "LOG_LEVEL"
)

type adminConfig struct {
	tokenHash string
}

// NewAdminConfig - bcrypt-хэш токена оператора для ручного сброса попыток.
// Без хэша админские ручки закрыты
func NewAdminConfig() config.AdminConfig {
	return &adminConfig{tokenHash: os.Getenv(adminTokenHashEnvName)}
}

func (cfg *adminConfig) TokenHash() string {
	return cfg.tokenHash
}

type logConfig struct {
	level string
}

func NewLogConfig() config.LogConfig {
	return &logConfig{level: os.Getenv(logLevelEnvName)}
}

func (cfg *logConfig) Level() string {
	return cfg.level
}
