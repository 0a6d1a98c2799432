package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/vision"
)

// Config хранит параметры запуска движка.
// Источник - TOML-файл поверх дефолтов, отдельные поля перекрываются
// переменными окружения и флагами в main.
type Config struct {
	// Seed - мастер-зерно спавнера. Одно и то же зерно плюс записанный
	// поток команд дают идентичную сессию при реплее.
	Seed int64 `toml:"seed"`

	// TickRate - частота цикла движка, Гц.
	TickRate int `toml:"tick_rate"`

	Vision VisionConfig `toml:"vision"`
	Stream StreamConfig `toml:"stream"`
	Spawn  SpawnConfig  `toml:"spawn"`

	// ArmSpeed - скорость эффектора, мировых единиц за тик.
	ArmSpeed float32 `toml:"arm_speed"`

	// SessionDir - куда складывать записи сессий.
	SessionDir string `toml:"session_dir"`
}

// VisionConfig - подключение к vision-серверу.
type VisionConfig struct {
	Addr          string `toml:"addr"`
	DialTimeoutMS int    `toml:"dial_timeout_ms"`
	RetryDelayMS  int    `toml:"retry_delay_ms"`
	ReadTimeoutMS int    `toml:"read_timeout_ms"`
}

// StreamConfig - параметры отправки кадров.
// Эта секция перечитывается на лету (см. WatchConfig).
type StreamConfig struct {
	// Every - слать каждый N-й тик (30 Гц / 3 = ~10 fps).
	Every int64 `toml:"every"`

	// Quality - качество JPEG, 1..100.
	Quality int `toml:"quality"`
}

// SpawnConfig - параметры спавнера кубов.
type SpawnConfig struct {
	Interval  int64   `toml:"interval"`   // тиков между спавнами
	RedChance float32 `toml:"red_chance"` // доля красных
	MaxCubes  int     `toml:"max_cubes"`
}

// NewConfig создает конфиг по умолчанию (случайный сид).
func NewConfig() Config {
	return Config{
		Seed:     time.Now().UnixNano(),
		TickRate: 30,
		Vision: VisionConfig{
			Addr:          "127.0.0.1:5005",
			DialTimeoutMS: 3000,
			RetryDelayMS:  1000,
			ReadTimeoutMS: 10000,
		},
		Stream: StreamConfig{Every: 3, Quality: 75},
		Spawn:  SpawnConfig{Interval: 90, RedChance: 0.5, MaxCubes: 12},

		ArmSpeed:   0.05,
		SessionDir: "sessions",
	}
}

// LoadConfig читает TOML поверх дефолтов.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate проверяет границы значений.
func (c Config) Validate() error {
	if c.TickRate <= 0 || c.TickRate > 240 {
		return fmt.Errorf("tick_rate %d out of range (1..240)", c.TickRate)
	}
	if c.Stream.Every <= 0 {
		return fmt.Errorf("stream.every must be positive, got %d", c.Stream.Every)
	}
	if c.Stream.Quality < 1 || c.Stream.Quality > 100 {
		return fmt.Errorf("stream.quality %d out of range (1..100)", c.Stream.Quality)
	}
	if c.Spawn.RedChance < 0 || c.Spawn.RedChance > 1 {
		return fmt.Errorf("spawn.red_chance %f out of range (0..1)", c.Spawn.RedChance)
	}
	if c.ArmSpeed <= 0 {
		return fmt.Errorf("arm_speed must be positive, got %f", c.ArmSpeed)
	}
	return nil
}

// VisionClientConfig конвертирует секцию в конфиг клиента.
func (c Config) VisionClientConfig() vision.Config {
	return vision.Config{
		Addr:        c.Vision.Addr,
		DialTimeout: time.Duration(c.Vision.DialTimeoutMS) * time.Millisecond,
		RetryDelay:  time.Duration(c.Vision.RetryDelayMS) * time.Millisecond,
		ReadTimeout: time.Duration(c.Vision.ReadTimeoutMS) * time.Millisecond,
	}
}

// TickInterval возвращает период тика.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
