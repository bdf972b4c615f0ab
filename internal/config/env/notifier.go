package env

import (
	"fmt"
	"fortune_wheel/internal/config"
	"os"
	"strings"
	"time"
)

const (
	botServerURLEnvName  = "BOT_SERVER_URL"
	notifyTimeoutEnvName = "NOTIFY_TIMEOUT"

	defaultNotifyTimeout = 10 * time.Second
)

type notifierConfig struct {
	botServerURL string
	timeout      time.Duration
}

func NewNotifierConfig() (config.NotifierConfig, error) {
	// Пустой адрес - уведомления выключены
	url := strings.TrimRight(os.Getenv(botServerURLEnvName), "/")

	timeout := defaultNotifyTimeout
	if raw := os.Getenv(notifyTimeoutEnvName); len(raw) != 0 {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid notify timeout: %w", err)
		}
		timeout = parsed
	}

	return &notifierConfig{
		botServerURL: url,
		timeout:      timeout,
	}, nil
}

func (cfg *notifierConfig) BotServerURL() string {
	return cfg.botServerURL
}

func (cfg *notifierConfig) Timeout() time.Duration {
	return cfg.timeout
}
