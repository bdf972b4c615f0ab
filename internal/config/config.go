package config

import (
	"time"

	"fortune_wheel/internal/model"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type WheelConfig interface {
	// Prizes каталог в порядке секторов, без посчитанных углов
	Prizes() []model.Prize
	RedoPrizeID() string
	FrameRate() int
}

type HTTPConfig interface {
	Address() string
}

type StoreConfig interface {
	Driver() string
	SQLitePath() string
}

type PGConfig interface {
	DSN() string
}

type JWTConfig interface {
	DeviceTokenSecretKey() []byte
	DeviceTokenDuration() time.Duration
}

type NotifierConfig interface {
	BotServerURL() string
	Timeout() time.Duration
}

type TelegramConfig interface {
	BotToken() string
	InitDataMaxAge() time.Duration
	PermissionFlow() string
}

type AdminConfig interface {
	TokenHash() string
}

type LogConfig interface {
	Level() string
}
