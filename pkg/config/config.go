package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Database
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"` // "postgres" or "sqlite"
	DatabaseURL    string `mapstructure:"DATABASE_URL"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// Stats provider
	ProviderBaseURL         string        `mapstructure:"PROVIDER_BASE_URL"`
	ProviderAPIKey          string        `mapstructure:"PROVIDER_API_KEY"`
	ProviderRateLimit       int           `mapstructure:"PROVIDER_RATE_LIMIT"` // requests per second
	ProviderTimeout         time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	ProviderMaxRetries      int           `mapstructure:"PROVIDER_MAX_RETRIES"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`
	ResponseCacheTTL        time.Duration `mapstructure:"RESPONSE_CACHE_TTL"`
	IngestWorkers           int           `mapstructure:"INGEST_WORKERS"`
	DataRefreshInterval     time.Duration `mapstructure:"DATA_REFRESH_INTERVAL"`

	// Reproducibility
	RandomSeed int64 `mapstructure:"RANDOM_SEED"`

	// Feature selection / training
	CVFolds            int     `mapstructure:"CV_FOLDS"`
	TargetFeatureCount int     `mapstructure:"TARGET_FEATURE_COUNT"`
	CVTolerance        float64 `mapstructure:"CV_TOLERANCE"`

	// Label generation. The same constants feed inference-time gates so
	// training and prediction never disagree about eligibility.
	MinPlayoffPossessions  float64 `mapstructure:"MIN_PLAYOFF_POSSESSIONS"`
	MinSeasonMinutes       float64 `mapstructure:"MIN_SEASON_MINUTES"`
	MinSeasonPossessions   float64 `mapstructure:"MIN_SEASON_POSSESSIONS"`
	LeagueAvgDefRating     float64 `mapstructure:"LEAGUE_AVG_DEF_RATING"`
	DefenseAdjustmentScale float64 `mapstructure:"DEFENSE_ADJUSTMENT_SCALE"`

	// Shot event feature windows
	RimDistanceFt        float64 `mapstructure:"RIM_DISTANCE_FT"`
	ClutchWindowSeconds  float64 `mapstructure:"CLUTCH_WINDOW_SECONDS"`
	LateShotClockSeconds float64 `mapstructure:"LATE_SHOTCLOCK_SECONDS"`
	MinClutchAttempts    int     `mapstructure:"MIN_CLUTCH_ATTEMPTS"`
	MinRimAttempts       int     `mapstructure:"MIN_RIM_ATTEMPTS"`
	MinContestedAttempts int     `mapstructure:"MIN_CONTESTED_ATTEMPTS"`
	DependenceUsageNorm  float64 `mapstructure:"DEPENDENCE_USAGE_NORM"` // usage rate treated as fully self-sufficient

	// Archetype gates and rule boundaries
	EliteUsageRate    float64 `mapstructure:"ELITE_USAGE_RATE"`
	EliteScoreMin     float64 `mapstructure:"ELITE_SCORE_MIN"`
	FragileScoreMax   float64 `mapstructure:"FRAGILE_SCORE_MAX"`
	LatentScoreMin    float64 `mapstructure:"LATENT_SCORE_MIN"`
	DependenceCeiling float64 `mapstructure:"DEPENDENCE_CEILING"`

	// Latent star detection
	LatentGapThreshold    float64 `mapstructure:"LATENT_GAP_THRESHOLD"`
	LatentCurrentCeiling  float64 `mapstructure:"LATENT_CURRENT_CEILING"`
	LatentContributingPct float64 `mapstructure:"LATENT_CONTRIBUTING_PCT"`
	UsageTierLow          float64 `mapstructure:"USAGE_TIER_LOW"`
	UsageTierHigh         float64 `mapstructure:"USAGE_TIER_HIGH"`

	// Risk matrix quadrant boundaries
	DependenceBoundary float64 `mapstructure:"DEPENDENCE_BOUNDARY"`
	ResilienceBoundary float64 `mapstructure:"RESILIENCE_BOUNDARY"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_URL", "resilience.db")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")

	viper.SetDefault("PROVIDER_BASE_URL", "https://stats.example.com/v2")
	viper.SetDefault("PROVIDER_API_KEY", "")
	viper.SetDefault("PROVIDER_RATE_LIMIT", 5)
	viper.SetDefault("PROVIDER_TIMEOUT", "10s")
	viper.SetDefault("PROVIDER_MAX_RETRIES", 3)
	viper.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)
	viper.SetDefault("RESPONSE_CACHE_TTL", "24h")
	viper.SetDefault("INGEST_WORKERS", 4)
	viper.SetDefault("DATA_REFRESH_INTERVAL", "12h")

	viper.SetDefault("RANDOM_SEED", 1337)
	viper.SetDefault("CV_FOLDS", 5)
	viper.SetDefault("TARGET_FEATURE_COUNT", 10)
	viper.SetDefault("CV_TOLERANCE", 0.02)

	viper.SetDefault("MIN_PLAYOFF_POSSESSIONS", 200)
	viper.SetDefault("MIN_SEASON_MINUTES", 500)
	viper.SetDefault("MIN_SEASON_POSSESSIONS", 300)
	viper.SetDefault("LEAGUE_AVG_DEF_RATING", 112.0)
	viper.SetDefault("DEFENSE_ADJUSTMENT_SCALE", 0.5)

	viper.SetDefault("RIM_DISTANCE_FT", 4.0)
	viper.SetDefault("CLUTCH_WINDOW_SECONDS", 300)
	viper.SetDefault("LATE_SHOTCLOCK_SECONDS", 4)
	viper.SetDefault("MIN_CLUTCH_ATTEMPTS", 20)
	viper.SetDefault("MIN_RIM_ATTEMPTS", 25)
	viper.SetDefault("MIN_CONTESTED_ATTEMPTS", 30)
	viper.SetDefault("DEPENDENCE_USAGE_NORM", 0.30)

	viper.SetDefault("ELITE_USAGE_RATE", 0.24)
	viper.SetDefault("ELITE_SCORE_MIN", 0.02)
	viper.SetDefault("FRAGILE_SCORE_MAX", -0.05)
	viper.SetDefault("LATENT_SCORE_MIN", 0.03)
	viper.SetDefault("DEPENDENCE_CEILING", 0.45)

	viper.SetDefault("LATENT_GAP_THRESHOLD", 0.25)
	viper.SetDefault("LATENT_CURRENT_CEILING", 0.80)
	viper.SetDefault("LATENT_CONTRIBUTING_PCT", 0.75)
	viper.SetDefault("USAGE_TIER_LOW", 0.16)
	viper.SetDefault("USAGE_TIER_HIGH", 0.24)

	viper.SetDefault("DEPENDENCE_BOUNDARY", 0.45)
	viper.SetDefault("RESILIENCE_BOUNDARY", -0.02)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
