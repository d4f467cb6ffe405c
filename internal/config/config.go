package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Supported values for DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds the application settings read from the environment.
type Config struct {
	AppPort              string
	DBDriver             string
	DatabaseDSN          string
	MongoURI             string
	MongoDatabase        string
	RabbitMQURL          string
	DBDebug              bool
	SeedDatabase         bool
	ContactRatePerMinute int
	ContactRateBurst     int
}

// Load reads the configuration from environment variables (and a .env-style
// config file when CONFIG_FILE is set), applying defaults for anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "shoemart.db")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "shoemart")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("DB_DEBUG", false)
	v.SetDefault("SEED_DATABASE", true)
	v.SetDefault("CONTACT_RATE_PER_MINUTE", 5)
	v.SetDefault("CONTACT_RATE_BURST", 3)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		AppPort:              v.GetString("APP_PORT"),
		DBDriver:             strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseDSN:          v.GetString("DATABASE_DSN"),
		MongoURI:             v.GetString("MONGODB_URI"),
		MongoDatabase:        v.GetString("MONGODB_DATABASE"),
		RabbitMQURL:          v.GetString("RABBITMQ_URL"),
		DBDebug:              v.GetBool("DB_DEBUG"),
		SeedDatabase:         v.GetBool("SEED_DATABASE"),
		ContactRatePerMinute: v.GetInt("CONTACT_RATE_PER_MINUTE"),
		ContactRateBurst:     v.GetInt("CONTACT_RATE_BURST"),
	}
	if !strings.HasPrefix(cfg.AppPort, ":") && !strings.Contains(cfg.AppPort, ":") {
		cfg.AppPort = ":" + cfg.AppPort
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMongo, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}
