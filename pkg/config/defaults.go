package config

const (
	defaultAPIListen      = ":8080"
	defaultCatalogBaseURL = "https://dummyjson.com"

	defaultStatsSQLitePath  = "quotes-stats.db"
	defaultVectorSQLitePath = "quotes-embeddings.db"
	defaultVectorDimensions = 768

	defaultMaxRerollAttempts      = 3
	defaultHighRatedChance        = 0.1
	defaultNewUserHighRatedChance = 0.7
	defaultNewUserRollThreshold   = 30
	defaultSmoothingAlpha         = 1.0
	defaultSmoothingBeta          = 10.0
	defaultCandidatePoolSize      = 30
	defaultRecentHistoryLimit     = 20
	defaultSimilarMaxLimit        = 5
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Catalog: CatalogConfig{
			BaseURL: defaultCatalogBaseURL,
		},
		Storage: StorageConfig{
			SQLitePath: defaultStatsSQLitePath,
		},
		Vector: VectorConfig{
			SQLitePath: defaultVectorSQLitePath,
			Dimensions: defaultVectorDimensions,
		},
		Engine: EngineConfig{
			MaxRerollAttempts:      defaultMaxRerollAttempts,
			HighRatedChance:        defaultHighRatedChance,
			NewUserHighRatedChance: defaultNewUserHighRatedChance,
			NewUserRollThreshold:   defaultNewUserRollThreshold,
			SmoothingAlpha:         defaultSmoothingAlpha,
			SmoothingBeta:          defaultSmoothingBeta,
			CandidatePoolSize:      defaultCandidatePoolSize,
			RecentHistoryLimit:     defaultRecentHistoryLimit,
			SimilarMaxLimit:        defaultSimilarMaxLimit,
		},
	}
}
