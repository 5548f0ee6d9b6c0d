package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the optional config file
// (quotes.yaml in the working directory, or configFile when non-empty), and
// binds environment variables with the QUOTES_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the command)
//  2. Environment variables (QUOTES_API_LISTEN, QUOTES_CATALOG_BASE_URL, ...)
//  3. Config file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		v.SetConfigName("quotes")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing config file is fine, defaults will apply.
			if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("QUOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Load resolves the full Config from an initialized viper instance.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("api.listen", d.API.Listen)

	v.SetDefault("catalog.base_url", d.Catalog.BaseURL)

	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)

	v.SetDefault("vector.sqlite_path", d.Vector.SQLitePath)
	v.SetDefault("vector.dimensions", d.Vector.Dimensions)

	v.SetDefault("session.cookie_secret", d.Session.CookieSecret)

	v.SetDefault("engine.max_reroll_attempts", d.Engine.MaxRerollAttempts)
	v.SetDefault("engine.high_rated_chance", d.Engine.HighRatedChance)
	v.SetDefault("engine.new_user_high_rated_chance", d.Engine.NewUserHighRatedChance)
	v.SetDefault("engine.new_user_roll_threshold", d.Engine.NewUserRollThreshold)
	v.SetDefault("engine.smoothing_alpha", d.Engine.SmoothingAlpha)
	v.SetDefault("engine.smoothing_beta", d.Engine.SmoothingBeta)
	v.SetDefault("engine.candidate_pool_size", d.Engine.CandidatePoolSize)
	v.SetDefault("engine.recent_history_limit", d.Engine.RecentHistoryLimit)
	v.SetDefault("engine.similar_max_limit", d.Engine.SimilarMaxLimit)
}
