package env

import (
	"fmt"
	"fortune_wheel/internal/config"
	"os"
	"time"
)

const (
	deviceTokenKeyEnvName      = "DEVICE_TOKEN_SECRET"
	deviceTokenDurationEnvName = "DEVICE_TOKEN_DURATION"

	// Токен устройства живёт столько же, сколько период колеса
	defaultDeviceTokenDuration = 30 * 24 * time.Hour
)

type jwtConfig struct {
	deviceTokenSecretKey string
	deviceTokenDuration  time.Duration
}

func NewJWTConfig() (config.JWTConfig, error) {
	secret := os.Getenv(deviceTokenKeyEnvName)
	if len(secret) == 0 {
		return nil, fmt.Errorf("device token secret key not found")
	}

	duration := defaultDeviceTokenDuration
	if raw := os.Getenv(deviceTokenDurationEnvName); len(raw) != 0 {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid device token duration: %w", err)
		}
		duration = parsed
	}

	return &jwtConfig{
		deviceTokenSecretKey: secret,
		deviceTokenDuration:  duration,
	}, nil
}

func (j *jwtConfig) DeviceTokenSecretKey() []byte {
	return []byte(j.deviceTokenSecretKey)
}

func (j *jwtConfig) DeviceTokenDuration() time.Duration {
	return j.deviceTokenDuration
}
