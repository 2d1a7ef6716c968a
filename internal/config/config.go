package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ATTBOT_"

type BotConfig struct {
	Token          string  `koanf:"token"`
	AllowedUserIds []int64 `koanf:"allowed-user-ids"`
	PollTimeout    int     `koanf:"poll-timeout"`
	Debug          bool    `koanf:"debug"`
}

type StorageConfig struct {
	DataPath        string   `koanf:"data-path"`
	ReportsPath     string   `koanf:"reports-path"`
	UploadPatterns  []string `koanf:"upload-patterns"`
	AutosaveSeconds uint64   `koanf:"autosave-seconds"`
}

type DatabaseConfig struct {
	Driver     string `koanf:"driver"`
	DataSource string `koanf:"datasource"`
}

type ReportsConfig struct {
	MaxDays   int `koanf:"max-days"`
	CacheSize int `koanf:"cache-size"`
}

type MetricsConfig struct {
	Enabled     bool   `koanf:"enabled"`
	BindAddress string `koanf:"bind-address"`
}

type MessagesConfig struct {
	Path string `koanf:"path"`
}

type Config struct {
	BotConfig      BotConfig      `koanf:"bot"`
	StorageConfig  StorageConfig  `koanf:"storage"`
	DatabaseConfig DatabaseConfig `koanf:"database"`
	ReportsConfig  ReportsConfig  `koanf:"reports"`
	MetricsConfig  MetricsConfig  `koanf:"metrics"`
	MessagesConfig MessagesConfig `koanf:"messages"`
}

func Configure() (*Config, error) {
	config := &Config{}
	if err := loadConfig(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadConfig(config *Config) error {
	koanfInstance := koanf.New(".")
	err := koanfInstance.Load(confmap.Provider(map[string]interface{}{
		"bot.poll-timeout":         30,
		"storage.data-path":        "data",
		"storage.reports-path":     "data/reports",
		"storage.upload-patterns":  []string{"*.xlsx"},
		"storage.autosave-seconds": uint64(60),
		"reports.max-days":         365,
		"reports.cache-size":       16,
		"metrics.bind-address":     ":9090",
	}, "."), nil)
	if err != nil {
		return err
	}
	for _, location := range []string{"/etc/attendance-bot/config.toml", "config.toml"} {
		if _, statErr := os.Stat(location); statErr != nil {
			continue
		}
		if err := koanfInstance.Load(file.Provider(location), toml.Parser()); err != nil {
			return fmt.Errorf("unable to load service configuration from %s: %w", location, err)
		}
	}
	err = koanfInstance.Load(env.ProviderWithValue(envPrefix, ".", envTransform), nil)
	if err != nil {
		return err
	}
	return koanfInstance.Unmarshal("", config)
}

// Only these keys carry comma-separated lists; values of other keys (tokens,
// paths) may legitimately contain commas and must stay untouched.
var envListKeys = map[string]struct{}{
	"bot.allowed-user-ids":    {},
	"storage.upload-patterns": {},
}

// envTransform maps ATTBOT_BOT_ALLOWED_USER_IDS to bot.allowed-user-ids and
// splits the list-valued keys on commas so that they unmarshal into slices.
func envTransform(key string, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	key = strings.Replace(key, "_", ".", 1)
	key = strings.ReplaceAll(key, "_", "-")
	if _, ok := envListKeys[key]; ok {
		parts := strings.Split(value, ",")
		for index := range parts {
			parts[index] = strings.TrimSpace(parts[index])
		}
		return key, parts
	}
	return key, value
}

func (c *Config) Validate() error {
	if c.BotConfig.Token == "" {
		return errors.New("bot token is not set in the configuration or the environment")
	}
	if len(c.BotConfig.AllowedUserIds) == 0 {
		return errors.New("allowed user IDs list is empty in the configuration or the environment")
	}
	if c.ReportsConfig.MaxDays <= 0 {
		return errors.New("reports max-days must be positive")
	}
	return nil
}
