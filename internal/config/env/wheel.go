package env

import (
	"errors"
	"fmt"
	"fortune_wheel/internal/config"
	"fortune_wheel/internal/model"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultFrameRate = 60

type prizeYAML struct {
	ID          string  `yaml:"id"`
	DisplayName string  `yaml:"display_name"`
	Weight      float64 `yaml:"weight"`
	Message     string  `yaml:"message"`
}

type wheelYAML struct {
	Wheel struct {
		RedoPrize string      `yaml:"redo_prize"`
		FrameRate int         `yaml:"frame_rate"`
		Prizes    []prizeYAML `yaml:"prizes"`
	} `yaml:"wheel"`
}

type wheelConfig struct {
	prizes      []model.Prize
	redoPrizeID string
	frameRate   int
}

// NewWheelConfigFromYAML читает каталог призов из файла.
// Если файла нет - используется встроенный каталог
func NewWheelConfigFromYAML(path string) (config.WheelConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultWheelConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read wheel config: %w", err)
	}
	return ParseWheelConfig(data)
}

func ParseWheelConfig(data []byte) (config.WheelConfig, error) {
	var raw wheelYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse wheel config: %w", err)
	}

	prizes := make([]model.Prize, 0, len(raw.Wheel.Prizes))
	for _, p := range raw.Wheel.Prizes {
		prizes = append(prizes, model.Prize{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Weight:      p.Weight,
			Message:     p.Message,
		})
	}

	frameRate := raw.Wheel.FrameRate
	if frameRate <= 0 {
		frameRate = defaultFrameRate
	}

	cfg := &wheelConfig{
		prizes:      prizes,
		redoPrizeID: raw.Wheel.RedoPrize,
		frameRate:   frameRate,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *wheelConfig) validate() error {
	if len(cfg.prizes) == 0 {
		return errors.New("wheel config: empty prize catalog")
	}

	seen := make(map[string]struct{}, len(cfg.prizes))
	var total float64
	for _, p := range cfg.prizes {
		if p.ID == "" {
			return errors.New("wheel config: prize without id")
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("wheel config: duplicate prize %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Weight < 0 {
			return fmt.Errorf("wheel config: negative weight for %q", p.ID)
		}
		total += p.Weight
	}
	if total <= 0 {
		return errors.New("wheel config: all weights are zero")
	}

	if _, ok := seen[cfg.redoPrizeID]; !ok {
		return fmt.Errorf("wheel config: redo prize %q not in catalog", cfg.redoPrizeID)
	}
	return nil
}

func (cfg *wheelConfig) Prizes() []model.Prize {
	out := make([]model.Prize, len(cfg.prizes))
	copy(out, cfg.prizes)
	return out
}

func (cfg *wheelConfig) RedoPrizeID() string {
	return cfg.redoPrizeID
}

func (cfg *wheelConfig) FrameRate() int {
	return cfg.frameRate
}

// DefaultWheelConfig - каталог колеса по умолчанию (веса не нормализованы, сумма 157.6)
func DefaultWheelConfig() config.WheelConfig {
	return &wheelConfig{
		redoPrizeID: "Реванш",
		frameRate:   defaultFrameRate,
		prizes: []model.Prize{
			{ID: "10% скидка", DisplayName: "Мягкая Удача", Weight: 90,
				Message: "Тебе выпала Мягкая Удача – поздравляем с 10% скидкой!"},
			{ID: "20% скидка", DisplayName: "Удачный Поворот", Weight: 5,
				Message: "Тебе выпал Удачный Поворот – поздравляем с 20% скидкой!"},
			{ID: "30% скидка", DisplayName: "Золотая Тридцатка", Weight: 3,
				Message: "Тебе выпала Золотая Тридцатка – поздравляем с 30% скидкой!"},
			{ID: "40% скидка", DisplayName: "Почти Джекпот", Weight: 0.5,
				Message: "Тебе выпал Почти Джекпот – поздравляем с 40% скидкой!"},
			{ID: "50% скидка", DisplayName: "Полцарства", Weight: 0.1,
				Message: "Тебе выпало Полцарства – поздравляем с 50% скидкой!"},
			{ID: "90% скидка", DisplayName: "90% скидка", Weight: 0,
				Message: "Поздравляем с 90% скидкой!"},
			{ID: "Реванш", DisplayName: "Реванш", Weight: 50,
				Message: "Тебе выпала возможность взять реванш – попытка не сгорела, действуй скорее, пока удача улыбается тебе!"},
			{ID: "Продлённый путь", DisplayName: "+30 дней к пути", Weight: 9,
				Message: "Поздравляем, ты получаешь + 30 дней к продукту!"},
		},
	}
}
