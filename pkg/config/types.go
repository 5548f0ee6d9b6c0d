// Package config holds the service configuration and the engine tunables.
package config

// Config is the full service configuration, resolved from defaults, an
// optional config file, QUOTES_-prefixed environment variables, and CLI
// flags (highest precedence last).
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Storage StorageConfig `mapstructure:"storage"`
	Vector  VectorConfig  `mapstructure:"vector"`
	Session SessionConfig `mapstructure:"session"`
	Engine  EngineConfig  `mapstructure:"engine"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Listen string `mapstructure:"listen"`
}

// CatalogConfig holds settings for the upstream quote catalog client.
type CatalogConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// StorageConfig holds the engagement ledger database settings.
type StorageConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`
}

// VectorConfig holds the embedding store settings.
type VectorConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`

	// Dimensions is the fixed embedding vector length.
	Dimensions uint `mapstructure:"dimensions"`
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	// CookieSecret is the 32-byte base64 key used to encrypt the session
	// cookie. Generated at startup when empty, which invalidates existing
	// sessions on restart.
	CookieSecret string `mapstructure:"cookie_secret"`
}

// EngineConfig carries every recommendation tunable. Components receive it
// at construction; nothing in the engine reads global state.
type EngineConfig struct {
	// MaxRerollAttempts is the explore-path retry count before a duplicate
	// roll is accepted.
	MaxRerollAttempts int `mapstructure:"max_reroll_attempts"`

	// HighRatedChance is the base chance to serve a high-rated quote for
	// established users.
	HighRatedChance float64 `mapstructure:"high_rated_chance"`

	// NewUserHighRatedChance is the boosted chance during onboarding.
	NewUserHighRatedChance float64 `mapstructure:"new_user_high_rated_chance"`

	// NewUserRollThreshold is the roll count up to which a user is treated
	// as new.
	NewUserRollThreshold int `mapstructure:"new_user_roll_threshold"`

	// SmoothingAlpha and SmoothingBeta are the Bayesian pseudo-counts added
	// to likes and impressions when scoring high-rated candidates.
	SmoothingAlpha float64 `mapstructure:"smoothing_alpha"`
	SmoothingBeta  float64 `mapstructure:"smoothing_beta"`

	// CandidatePoolSize is the number of top-scoring quotes randomized over.
	CandidatePoolSize int `mapstructure:"candidate_pool_size"`

	// RecentHistoryLimit is the number of rolled quote ids remembered per
	// session.
	RecentHistoryLimit int `mapstructure:"recent_history_limit"`

	// SimilarMaxLimit is the hard cap on a similar-quotes batch size.
	SimilarMaxLimit int `mapstructure:"similar_max_limit"`
}
