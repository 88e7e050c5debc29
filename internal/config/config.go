// Package config loads arecabot settings from an optional YAML file, a .env
// file and ARECABOT_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/arecabot/internal/dialogue"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ARECABOT_SERVER_PORT.
const EnvPrefix = "ARECABOT"

type Config struct {
	DB        DBConfig        `mapstructure:"db"`
	History   HistoryConfig   `mapstructure:"history"`
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Dialogue  DialogueConfig  `mapstructure:"dialogue"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// HistoryConfig is the chat shell's input history file.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr is host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DialogueConfig struct {
	// Seed fixes reply template choice; 0 seeds from the clock.
	Seed       int64               `mapstructure:"seed"`
	Thresholds dialogue.Thresholds `mapstructure:"thresholds"`
	// SessionTTL evicts idle conversations; 0 keeps them until ended.
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// KnowledgeConfig optionally replaces the embedded knowledge base.
type KnowledgeConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configuration. file names an explicit config file; when empty,
// arecabot.yaml is looked up in the working directory and ~/.arecabot and
// may be absent.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("arecabot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".arecabot"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	dir := dataDir()
	return Config{
		DB:       DBConfig{Path: filepath.Join(dir, "arecabot.db")},
		History:  HistoryConfig{Path: filepath.Join(dir, "history")},
		Log:      LogConfig{Level: "info", Format: "console"},
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8080},
		Dialogue: DialogueConfig{Thresholds: dialogue.DefaultThresholds(), SessionTTL: 30 * time.Minute},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("db.path", d.DB.Path)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("dialogue.seed", d.Dialogue.Seed)
	v.SetDefault("dialogue.thresholds.generic", d.Dialogue.Thresholds.Generic)
	v.SetDefault("dialogue.thresholds.specific", d.Dialogue.Thresholds.Specific)
	v.SetDefault("dialogue.thresholds.direct", d.Dialogue.Thresholds.Direct)
	v.SetDefault("dialogue.session_ttl", d.Dialogue.SessionTTL)
	v.SetDefault("knowledge.path", d.Knowledge.Path)
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".arecabot"
	}
	return filepath.Join(home, ".arecabot")
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return errors.New("db.path is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q must be json or console", c.Log.Format)
	}
	for name, t := range map[string]int{
		"generic":  c.Dialogue.Thresholds.Generic,
		"specific": c.Dialogue.Thresholds.Specific,
		"direct":   c.Dialogue.Thresholds.Direct,
	} {
		if t < 0 || t > 100 {
			return fmt.Errorf("dialogue.thresholds.%s %d must be within 0-100", name, t)
		}
	}
	if c.Dialogue.SessionTTL < 0 {
		return errors.New("dialogue.session_ttl must not be negative")
	}
	return nil
}
