package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string   `mapstructure:"PORT"`
	Env                 string   `mapstructure:"ENV"`
	DataFile            string   `mapstructure:"DATA_FILE"`
	CollectReporterName bool     `mapstructure:"COLLECT_REPORTER_NAME"`
	OutbreakThreshold   int      `mapstructure:"OUTBREAK_THRESHOLD"`
	OutbreakWindowDays  int      `mapstructure:"OUTBREAK_WINDOW_DAYS"`
	CORSOrigins         []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS        float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst      int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_FILE", "symptom_log.csv")
	v.SetDefault("COLLECT_REPORTER_NAME", false)
	v.SetDefault("OUTBREAK_THRESHOLD", 10)
	v.SetDefault("OUTBREAK_WINDOW_DAYS", 7)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_FILE")
	v.BindEnv("COLLECT_REPORTER_NAME")
	v.BindEnv("OUTBREAK_THRESHOLD")
	v.BindEnv("OUTBREAK_WINDOW_DAYS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run with.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("DATA_FILE must not be empty")
	}
	if c.OutbreakThreshold < 1 {
		return fmt.Errorf("OUTBREAK_THRESHOLD must be at least 1, got %d", c.OutbreakThreshold)
	}
	if c.OutbreakWindowDays < 1 {
		return fmt.Errorf("OUTBREAK_WINDOW_DAYS must be at least 1, got %d", c.OutbreakWindowDays)
	}
	return nil
}
