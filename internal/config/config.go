package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported DB_DRIVER values
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBPath             string
	GinMode            string
	ServerPort         string
	JWTSecret          string
	LogLevel           string
	DefaultTimezone    string
	AutoAssignOnCreate bool
	RequestTimeout     time.Duration
}

var defaults = map[string]any{
	"DB_DRIVER":             DriverMySQL,
	"DB_HOST":               "localhost",
	"DB_PORT":               "3306",
	"DB_USER":               "taskuser",
	"DB_PASSWORD":           "taskpassword",
	"DB_NAME":               "task_management",
	"DB_PATH":               "team_tasks.db",
	"GIN_MODE":              "debug",
	"SERVER_PORT":           "8080",
	"JWT_SECRET":            "default-secret-key-change-me",
	"LOG_LEVEL":             "info",
	"DEFAULT_TIMEZONE":      "UTC",
	"AUTO_ASSIGN_ON_CREATE": true,
	"REQUEST_TIMEOUT":       "15s",
}

// Load reads configuration from the environment, an optional .env file and an
// optional config file. Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		DBDriver:           v.GetString("DB_DRIVER"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBPath:             v.GetString("DB_PATH"),
		GinMode:            v.GetString("GIN_MODE"),
		ServerPort:         v.GetString("SERVER_PORT"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		DefaultTimezone:    v.GetString("DEFAULT_TIMEZONE"),
		AutoAssignOnCreate: v.GetBool("AUTO_ASSIGN_ON_CREATE"),
		RequestTimeout:     v.GetDuration("REQUEST_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql, postgres or sqlite)", c.DBDriver)
	}

	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid DEFAULT_TIMEZONE %q: %w", c.DefaultTimezone, err)
	}

	if c.GinMode == "release" && c.JWTSecret == defaults["JWT_SECRET"] {
		return fmt.Errorf("JWT_SECRET must be set in release mode")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}

	return nil
}
