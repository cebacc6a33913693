// Package config loads and validates the application configuration from
// environment variables. Errors are collected across all variables and
// reported together, so a misconfigured deployment fails fast with one
// complete message instead of one variable at a time.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DBConfig holds the settings for the PostgreSQL connection pool.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PoolSize int
	// MigrationsDir, when non-empty, makes main apply the migrations in
	// that directory at startup.
	MigrationsDir string
}

// AuthConfig holds token signing secrets and lifetimes, plus the cookie
// security flag derived from the environment.
type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// SecureCookies is true in production; it gates the Secure flag on the
	// refresh cookie.
	SecureCookies bool
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
	Env  string
}

// AppConfig is the top-level configuration structure.
type AppConfig struct {
	DB     *DBConfig
	Auth   *AuthConfig
	Server *ServerConfig
}

const envProduction = "production"

func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool size within sane bounds.
func clampPoolSize(size int, varName string, errs *[]string) int {
	if size < 5 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is less than minimum 5, clamping to 5", varName, size))
		return 5
	}
	if size > 100 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size))
		return 100
	}
	return size
}

// LoadConfig reads and validates all environment variables, returning a
// fully populated AppConfig or a single error aggregating every problem
// encountered.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	poolSize := clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errs), "DB_POOL_SIZE", &errs)

	dbConfig := &DBConfig{
		Host:          dbHost,
		Port:          dbPort,
		User:          dbUser,
		Password:      dbPassword,
		Name:          dbName,
		PoolSize:      poolSize,
		MigrationsDir: getOptionalEnv("MIGRATIONS_DIR", ""),
	}

	env := getOptionalEnv("APP_ENV", "development")

	authConfig := &AuthConfig{
		AccessSecret:  getRequiredEnv("ACCESS_TOKEN_SECRET", &errs),
		RefreshSecret: getRequiredEnv("REFRESH_TOKEN_SECRET", &errs),
		AccessTTL:     getOptionalEnvDuration("ACCESS_TOKEN_DURATION", 15*time.Minute, &errs),
		RefreshTTL:    getOptionalEnvDuration("REFRESH_TOKEN_DURATION", 168*time.Hour, &errs), // 7 days
		SecureCookies: env == envProduction,
	}

	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "5001"),
		Env:  env,
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB:     dbConfig,
		Auth:   authConfig,
		Server: serverConfig,
	}, nil
}
