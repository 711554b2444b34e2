package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/brickgame/go/clients/brickgame_client"
	"github.com/mcdev12/brickgame/go/internal/dbconfig"
	"github.com/mcdev12/brickgame/go/internal/dispatch"
	"github.com/mcdev12/brickgame/go/internal/events"
	"github.com/mcdev12/brickgame/go/internal/history"
	"github.com/mcdev12/brickgame/go/internal/mirror"
	"github.com/mcdev12/brickgame/go/internal/overlay"
	"github.com/mcdev12/brickgame/go/internal/poller"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	URL            string        `yaml:"url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type BoardConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	NextWidth  int `yaml:"next_width"`
	NextHeight int `yaml:"next_height"`
}

type InputConfig struct {
	RepeatWindow time.Duration     `yaml:"repeat_window"`
	Bindings     dispatch.Bindings `yaml:"bindings"`
}

type MirrorConfig struct {
	Addr       string                  `yaml:"addr"`
	Connection mirror.ConnectionConfig `yaml:"connection"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the whole client configuration
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Poll    poller.Config  `yaml:"poll"`
	Board   BoardConfig    `yaml:"board"`
	Input   InputConfig    `yaml:"input"`
	Overlay overlay.Texts  `yaml:"overlay"`
	Mirror  MirrorConfig   `yaml:"mirror"`
	Events  events.Config  `yaml:"events"`
	History history.Config `yaml:"history"`
	Log     LogConfig      `yaml:"log"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			URL:            brickgame_client.DefaultBaseURL,
			RequestTimeout: 5 * time.Second,
		},
		Poll: poller.DefaultConfig(),
		Board: BoardConfig{
			Width:      10,
			Height:     20,
			NextWidth:  4,
			NextHeight: 4,
		},
		Input: InputConfig{
			RepeatWindow: dispatch.DefaultRepeatWindow,
			Bindings:     dispatch.DefaultBindings(),
		},
		Overlay: overlay.DefaultTexts(),
		Mirror: MirrorConfig{
			Connection: mirror.DefaultConnectionConfig(),
		},
		Events:  events.DefaultConfig(),
		History: history.DefaultConfig(),
		Log: LogConfig{
			Level: "info",
			File:  "brickgame.log",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (when
// path is not empty) and environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.URL = getEnv("BRICK_SERVER_URL", c.Server.URL)
	c.Server.RequestTimeout = getEnvAsDuration("BRICK_REQUEST_TIMEOUT", c.Server.RequestTimeout)
	c.Mirror.Addr = getEnv("BRICK_MIRROR_ADDR", c.Mirror.Addr)
	c.Events.URL = getEnv("NATS_URL", c.Events.URL)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)
	c.Poll.FastInterval = getEnvAsDuration("BRICK_FAST_INTERVAL", c.Poll.FastInterval)
	c.Poll.SlowInterval = getEnvAsDuration("BRICK_SLOW_INTERVAL", c.Poll.SlowInterval)

	if c.History.DSN == "" && dbconfig.Configured() {
		c.History.DSN = dbconfig.NewConfigFromEnv().DSN()
	}
	c.Board.Width = getEnvAsInt("BRICK_BOARD_WIDTH", c.Board.Width)
	c.Board.Height = getEnvAsInt("BRICK_BOARD_HEIGHT", c.Board.Height)
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server url is required")
	}
	if c.Poll.FastInterval <= 0 || c.Poll.SlowInterval <= 0 {
		return fmt.Errorf("poll intervals must be positive, got fast=%s slow=%s", c.Poll.FastInterval, c.Poll.SlowInterval)
	}
	if c.Board.Width <= 0 || c.Board.Height <= 0 || c.Board.NextWidth <= 0 || c.Board.NextHeight <= 0 {
		return fmt.Errorf("board sizes must be positive")
	}
	if _, err := dispatch.NewKeymap(c.Input.Bindings); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
