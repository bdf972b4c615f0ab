package env

import (
	"errors"
	"fmt"
	"fortune_wheel/internal/config"
	"os"
	"time"
)

const (
	botTokenEnvName       = "TELEGRAM_BOT_TOKEN"
	initDataMaxAgeEnvName = "INIT_DATA_MAX_AGE"
	permissionFlowEnvName = "PERMISSION_FLOW"

	PermissionFlowSilent      = "silent"
	PermissionFlowInteractive = "interactive"

	defaultInitDataMaxAge = 24 * time.Hour
)

type telegramConfig struct {
	botToken       string
	initDataMaxAge time.Duration
	permissionFlow string
}

func NewTelegramConfig() (config.TelegramConfig, error) {
	token := os.Getenv(botTokenEnvName)
	if len(token) == 0 {
		return nil, errors.New("telegram bot token not found")
	}

	maxAge := defaultInitDataMaxAge
	if raw := os.Getenv(initDataMaxAgeEnvName); len(raw) != 0 {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid init data max age: %w", err)
		}
		maxAge = parsed
	}

	flow := os.Getenv(permissionFlowEnvName)
	switch flow {
	case "":
		flow = PermissionFlowSilent
	case PermissionFlowSilent, PermissionFlowInteractive:
	default:
		return nil, fmt.Errorf("unknown permission flow %q", flow)
	}

	return &telegramConfig{
		botToken:       token,
		initDataMaxAge: maxAge,
		permissionFlow: flow,
	}, nil
}

func (cfg *telegramConfig) BotToken() string {
	return cfg.botToken
}

func (cfg *telegramConfig) InitDataMaxAge() time.Duration {
	return cfg.initDataMaxAge
}

func (cfg *telegramConfig) PermissionFlow() string {
	return cfg.permissionFlow
}
