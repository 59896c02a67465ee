// Package config loads the bot configuration.
//
// Precedence is defaults, then the YAML file, then ARBOR_* environment variables.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ARBOR_"

// Config is the complete bot configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Messenger MessengerConfig `yaml:"messenger" envPrefix:"MESSENGER_"`
	Facebook  FacebookConfig  `yaml:"facebook" envPrefix:"FACEBOOK_"`
	Telegram  TelegramConfig  `yaml:"telegram" envPrefix:"TELEGRAM_"`
	Wit       WitConfig       `yaml:"wit" envPrefix:"WIT_"`
	Redis     RedisConfig     `yaml:"redis" envPrefix:"REDIS_"`
	Store     StoreConfig     `yaml:"store" envPrefix:"STORE_"`
}

// ServerConfig configures the webhook listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"MAX_BODY_BYTES"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// MessengerConfig configures request processing and delivery.
type MessengerConfig struct {
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
	SendRate  float64       `yaml:"send_rate" env:"SEND_RATE"`
	SendBurst int           `yaml:"send_burst" env:"SEND_BURST"`
	Typing    bool          `yaml:"typing" env:"TYPING"`

	// MaxInputSize bounds user text in bytes.
	MaxInputSize int `yaml:"max_input_size" env:"MAX_INPUT_SIZE"`
}

// FacebookConfig enables the Facebook platform when PageToken is set.
type FacebookConfig struct {
	PageToken   string `yaml:"page_token" env:"PAGE_TOKEN"`
	VerifyToken string `yaml:"verify_token" env:"VERIFY_TOKEN"`
	GraphURL    string `yaml:"graph_url" env:"GRAPH_URL"`
}

// TelegramConfig enables the Telegram platform when Token is set.
type TelegramConfig struct {
	Token     string `yaml:"token" env:"TOKEN"`
	APIServer string `yaml:"api_server" env:"API_SERVER"`
}

// WitConfig enables NLU retries when Token is set.
type WitConfig struct {
	Token   string `yaml:"token" env:"TOKEN"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	Version string `yaml:"version" env:"VERSION"`
}

// RedisConfig selects Redis context storage when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"ADDR"`
	Password string        `yaml:"password" env:"PASSWORD"`
	DB       int           `yaml:"db" env:"DB"`
	Prefix   string        `yaml:"prefix" env:"PREFIX"`
	TTL      time.Duration `yaml:"ttl" env:"TTL"`
	Lock     bool          `yaml:"lock" env:"LOCK"`
}

// StoreConfig protects persisted contexts.
type StoreConfig struct {
	// EncryptionKey is a base64 encoded 32 byte AES key. Empty disables encryption.
	EncryptionKey string `yaml:"encryption_key" env:"ENCRYPTION_KEY"`

	// FallbackKeys are older keys still accepted for decryption.
	FallbackKeys []string `yaml:"fallback_keys" env:"FALLBACK_KEYS"`

	// Redact lists regular expressions of context keys masked before saving.
	Redact []string `yaml:"redact" env:"REDACT"`

	// Dir stores contexts as JSON files when Redis is not configured.
	Dir string `yaml:"dir" env:"DIR"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Log: LogConfig{Level: "info"},
		Messenger: MessengerConfig{
			Timeout:      10 * time.Second,
			SendBurst:    1,
			MaxInputSize: 4096,
		},
		Redis: RedisConfig{Prefix: "arbor:context:"},
	}
}

// Load reads path (optional) and the process environment.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, nil)
}

// LoadWithEnv is Load with an explicit environment. A nil environ uses the process environment.
func LoadWithEnv(path string, environ map[string]string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Messenger.Timeout < 0 {
		errs = append(errs, errors.New("messenger.timeout must not be negative"))
	}
	if c.Messenger.SendRate < 0 {
		errs = append(errs, errors.New("messenger.send_rate must not be negative"))
	}
	if c.Messenger.SendRate > 0 && c.Messenger.SendBurst < 1 {
		errs = append(errs, errors.New("messenger.send_burst must be at least 1 when send_rate is set"))
	}
	if c.Messenger.MaxInputSize < 0 {
		errs = append(errs, errors.New("messenger.max_input_size must not be negative"))
	}
	for _, k := range append([]string{c.Store.EncryptionKey}, c.Store.FallbackKeys...) {
		if k == "" {
			continue
		}
		if _, err := DecodeKey(k); err != nil {
			errs = append(errs, fmt.Errorf("store key: %w", err))
		}
	}
	return errors.Join(errs...)
}

// DecodeKey decodes a base64 AES-256 key.
func DecodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
