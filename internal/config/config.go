// Package config loads settings from an optional config file, STREAKLINE_*
// environment variables and built-in defaults, in that order of increasing
// precedence: env beats file beats defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/remote"
	"github.com/julianstephens/streakline/internal/remote/appwrite"
	"github.com/julianstephens/streakline/internal/utils"
)

type Config struct {
	Appwrite  AppwriteConfig `mapstructure:"appwrite"`
	Remote    RemoteConfig   `mapstructure:"remote"`
	Cache     string         `mapstructure:"cache"`
	Timezone  string         `mapstructure:"timezone"`
	Debug     bool           `mapstructure:"debug"`
	ConfigDir string         `mapstructure:"config_dir"`
	Env       string         `mapstructure:"env"`
}

type AppwriteConfig struct {
	Endpoint    string            `mapstructure:"endpoint"`
	Platform    string            `mapstructure:"platform"`
	ProjectID   string            `mapstructure:"project_id"`
	DatabaseID  string            `mapstructure:"database_id"`
	Collections CollectionsConfig `mapstructure:"collections"`
}

type CollectionsConfig struct {
	Users       string `mapstructure:"users"`
	Habits      string `mapstructure:"habits"`
	Completions string `mapstructure:"completions"`
}

type RemoteConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

const devEnv = "development"

// Load reads configuration. path may be empty, in which case config.{yaml,toml,json}
// in the default config dir is used if present. A .env file in the working
// directory is loaded first in development.
func Load(path string) (*Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		expanded, err := utils.ExpandHome(path)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", expanded, err)
		}
	} else {
		dir, err := utils.ExpandHome(constants.DefaultConfigDir)
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(constants.ConfigAppwriteEndpoint, constants.DefaultAppwriteEndpoint)
	v.SetDefault(constants.ConfigAppwritePlatform, constants.DefaultAppwritePlatform)
	v.SetDefault(constants.ConfigAppwriteProjectID, constants.DefaultAppwriteProjectID)
	v.SetDefault(constants.ConfigAppwriteDatabaseID, constants.DefaultAppwriteDatabaseID)
	v.SetDefault(constants.ConfigUsersCollectionID, constants.DefaultUsersCollectionID)
	v.SetDefault(constants.ConfigHabitsCollectionID, constants.DefaultHabitsCollectionID)
	v.SetDefault(constants.ConfigCompletionsCollection, constants.DefaultCompletionsCollection)
	v.SetDefault(constants.ConfigRemoteTimeout, time.Duration(constants.DefaultRemoteTimeoutSec)*time.Second)
	v.SetDefault(constants.ConfigCache, "")
	v.SetDefault(constants.ConfigTimezone, constants.DefaultTimezone)
	v.SetDefault(constants.ConfigDebug, false)
	v.SetDefault(constants.ConfigDir, constants.DefaultConfigDir)
	v.SetDefault(constants.ConfigEnv, "")
}

// loadDotEnv loads path when running in development or when the file exists.
// Variables already set in the environment win.
func loadDotEnv(path string) {
	_, statErr := os.Stat(path)
	if os.Getenv(constants.EnvPrefix+"_ENV") != devEnv && statErr != nil {
		return
	}
	// a missing file in development is not an error
	_ = godotenv.Load(path)
}

func (c *Config) normalize() error {
	c.Appwrite.Endpoint = strings.TrimRight(strings.TrimSpace(c.Appwrite.Endpoint), "/")
	u, err := url.Parse(c.Appwrite.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.Invalid("appwrite.endpoint", "%q is not an absolute URL", c.Appwrite.Endpoint)
	}
	if c.Appwrite.ProjectID == "" {
		return apperrors.Invalid("appwrite.project_id", "is required")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return apperrors.Invalid("timezone", "unknown timezone %q", c.Timezone)
	}
	if c.Remote.Timeout <= 0 {
		return apperrors.Invalid("remote.timeout", "must be positive")
	}

	dir, err := utils.ExpandHome(c.ConfigDir)
	if err != nil {
		return err
	}
	c.ConfigDir = dir
	if c.Cache == "" {
		c.Cache = filepath.Join(dir, "cache.db")
	}
	return nil
}

// IsDevelopment reports whether STREAKLINE_ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == devEnv
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// Collections returns the remote database and collection ids.
func (c *Config) Collections() remote.Collections {
	return remote.Collections{
		DatabaseID:  c.Appwrite.DatabaseID,
		Users:       c.Appwrite.Collections.Users,
		Habits:      c.Appwrite.Collections.Habits,
		Completions: c.Appwrite.Collections.Completions,
	}
}

// Client returns the REST client settings.
func (c *Config) Client() appwrite.Config {
	return appwrite.Config{
		Endpoint:  c.Appwrite.Endpoint,
		ProjectID: c.Appwrite.ProjectID,
		Platform:  c.Appwrite.Platform,
		Timeout:   c.Remote.Timeout,
	}
}
