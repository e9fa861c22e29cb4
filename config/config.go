package config

import (
	"log"
	"time"

	"github.com/spf13/viper"

	"pawpack/services/grouping"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Group formation constraints and scoring.
	MaxDogsPerGroup      int     `mapstructure:"MAX_DOGS_PER_GROUP"`
	MaxGroupRadiusMeters float64 `mapstructure:"MAX_GROUP_RADIUS_METERS"`
	TimeWindowMinutes    int     `mapstructure:"TIME_WINDOW_MINUTES"`
	ScoreWeightDogs      float64 `mapstructure:"SCORE_WEIGHT_DOGS"`
	ScoreWeightDistance  float64 `mapstructure:"SCORE_WEIGHT_DISTANCE"`
	ScoreWeightSlack     float64 `mapstructure:"SCORE_WEIGHT_SLACK"`

	// Periodic formation pass.
	FormationCron               string `mapstructure:"FORMATION_CRON"`
	FormationHorizonHours       int    `mapstructure:"FORMATION_HORIZON_HOURS"`
	FormationPassTimeoutSeconds int    `mapstructure:"FORMATION_PASS_TIMEOUT_SECONDS"`
	FormationRegionPrefix       int    `mapstructure:"FORMATION_REGION_PREFIX"`
	SuggestionCacheTTLMinutes   int    `mapstructure:"SUGGESTION_CACHE_TTL_MINUTES"`

	// Slot membership.
	JoinMaxRetries   int  `mapstructure:"JOIN_MAX_RETRIES"`
	CancelEmptySlots bool `mapstructure:"CANCEL_EMPTY_SLOTS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if IsProduction() && AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in production")
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "pawpack")
	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 3)

	defaults := grouping.DefaultConfig()
	v.SetDefault("MAX_DOGS_PER_GROUP", defaults.MaxDogsPerGroup)
	v.SetDefault("MAX_GROUP_RADIUS_METERS", defaults.MaxGroupRadiusMeters)
	v.SetDefault("TIME_WINDOW_MINUTES", defaults.TimeWindowMinutes)
	v.SetDefault("SCORE_WEIGHT_DOGS", defaults.Weights.DogCount)
	v.SetDefault("SCORE_WEIGHT_DISTANCE", defaults.Weights.Distance)
	v.SetDefault("SCORE_WEIGHT_SLACK", defaults.Weights.WindowSlack)

	v.SetDefault("FORMATION_CRON", "@every 15m")
	v.SetDefault("FORMATION_HORIZON_HOURS", 48)
	v.SetDefault("FORMATION_PASS_TIMEOUT_SECONDS", 20)
	v.SetDefault("FORMATION_REGION_PREFIX", 0)
	v.SetDefault("SUGGESTION_CACHE_TTL_MINUTES", 60)

	v.SetDefault("JOIN_MAX_RETRIES", 3)
	v.SetDefault("CANCEL_EMPTY_SLOTS", true)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// GroupingConfig maps the flat keys onto the engine configuration.
func (c Config) GroupingConfig() grouping.Config {
	return grouping.Config{
		MaxDogsPerGroup:      c.MaxDogsPerGroup,
		MaxGroupRadiusMeters: c.MaxGroupRadiusMeters,
		TimeWindowMinutes:    c.TimeWindowMinutes,
		Weights: grouping.ScoreWeights{
			DogCount:    c.ScoreWeightDogs,
			Distance:    c.ScoreWeightDistance,
			WindowSlack: c.ScoreWeightSlack,
		},
	}
}

func (c Config) FormationHorizon() time.Duration {
	return time.Duration(c.FormationHorizonHours) * time.Hour
}

func (c Config) FormationPassTimeout() time.Duration {
	return time.Duration(c.FormationPassTimeoutSeconds) * time.Second
}

func (c Config) SuggestionCacheTTL() time.Duration {
	return time.Duration(c.SuggestionCacheTTLMinutes) * time.Minute
}
