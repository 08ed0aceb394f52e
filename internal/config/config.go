package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DeploymentMode selects which surfaces the process serves
type DeploymentMode string

const (
	ModeLocal DeploymentMode = "local"
	ModeProd  DeploymentMode = "prod"
)

// Configuration is the full application configuration, loaded from
// config.yaml and TILBOD_* environment variables
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
}

type DeploymentConfig struct {
	Mode DeploymentMode `mapstructure:"mode"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type CacheConfig struct {
	Enabled              bool `mapstructure:"enabled"`
	ExpiryMinutes        int  `mapstructure:"expiry_minutes"`
	CleanupIntervalHours int  `mapstructure:"cleanup_interval_hours"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type WebhookConfig struct {
	Topic string `mapstructure:"topic"`
}

// NewConfig loads the configuration from config files and environment
func NewConfig() (*Configuration, error) {
	v := viper.New()

	// Load .env if present, actual env vars still win
	_ = godotenv.Load()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TILBOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional, env vars and defaults are enough
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "tilbod")
	v.SetDefault("postgres.dbname", "tilbod_admin")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 30)
	v.SetDefault("logging.level", "info")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.expiry_minutes", 30)
	v.SetDefault("cache.cleanup_interval_hours", 1)
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("webhook.topic", "commission.finalized")
}

// DSN returns the lib/pq connection string
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetDefaultConfig returns a configuration suitable for tests and scripts
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "tilbod",
			DBName:  "tilbod_admin",
			SSLMode: "disable",
		},
		Logging: LoggingConfig{Level: "debug"},
		Cache: CacheConfig{
			Enabled:              true,
			ExpiryMinutes:        30,
			CleanupIntervalHours: 1,
		},
		Webhook: WebhookConfig{Topic: "commission.finalized"},
	}
}
