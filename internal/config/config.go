package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"course-studio/internal/session"
)

// Config is everything the CLIs need. A config file is optional; defaults
// plus a saved token are enough to start working.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
	SFTP    SFTPConfig    `mapstructure:"sftp"`
}

type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimitRPS float64       `mapstructure:"rate_limit_rps"`
}

type SessionConfig struct {
	TokenPath string `mapstructure:"token_path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type SFTPConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	User      string `mapstructure:"user"`
	Pass      string `mapstructure:"pass"`
	RemoteDir string `mapstructure:"remote_dir"`
}

// Load reads the config file at path (empty means the default location) and
// applies STUDIO_* env overrides. A missing file is fine; a broken one is not.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "https://lms-backend-flwq.onrender.com/api/v1")
	v.SetDefault("api.timeout", 2*time.Minute)
	v.SetDefault("api.rate_limit_rps", 5.0)
	v.SetDefault("session.token_path", session.DefaultPath())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/studio.log")
	v.SetDefault("sftp.port", 22)
	v.SetDefault("sftp.remote_dir", "/backups")

	v.SetEnvPrefix("STUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".course-studio", "config.yaml")
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
