package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "default_secret"

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	BcryptCost int
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	RabbitMQ   RabbitMQConfig
	Digest     DigestConfig
	SeedAdmin  SeedAdminConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds session credential configuration
type JWTConfig struct {
	Secret  string
	TTLDays int
}

// RedisConfig holds the optional shared rate limiter store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RabbitMQConfig holds the optional event broker
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// DigestConfig holds the moderation digest schedule
type DigestConfig struct {
	Schedule string
}

// SeedAdminConfig holds the optional bootstrap admin account
type SeedAdminConfig struct {
	Email    string
	Password string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	config, err := FromEnv()
	if err != nil {
		return nil, err
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", config.AppMode)
	return config, nil
}

// FromEnv builds a Config from the process environment only
func FromEnv() (*Config, error) {
	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	bcryptCost, _ := strconv.Atoi(getEnv("BCRYPT_COST", "10"))

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "3000"),
		BcryptCost: bcryptCost,
		Database:   loadDatabaseConfig(appMode),
		JWT:        loadJWTConfig(appMode),
		Redis:      loadRedisConfig(),
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "agrismart.events"),
		},
		Digest: DigestConfig{
			Schedule: getEnv("DIGEST_SCHEDULE", "0 8 * * *"),
		},
		SeedAdmin: SeedAdminConfig{
			Email:    getEnv("SEED_ADMIN_EMAIL", ""),
			Password: getEnv("SEED_ADMIN_PASSWORD", ""),
		},
	}

	if config.Database.Driver != "mysql" && config.Database.Driver != "postgres" {
		return nil, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'postgres')", config.Database.Driver)
	}
	if config.IsProd() && config.JWT.Secret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in prod mode")
	}
	if config.JWT.TTLDays < 1 {
		config.JWT.TTLDays = 30
	}

	return config, nil
}

// loadDatabaseConfig loads database config based on mode.
// DEV_/PROD_ prefixed variables win over unprefixed ones.
func loadDatabaseConfig(mode string) DatabaseConfig {
	driver := strings.ToLower(getModeEnv(mode, "DB_DRIVER", "mysql"))
	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getModeEnv(mode, "DB_HOST", "localhost"),
		Port:     getModeEnv(mode, "DB_PORT", defaultPort),
		User:     getModeEnv(mode, "DB_USER", "root"),
		Password: getModeEnv(mode, "DB_PASS", ""),
		DBName:   getModeEnv(mode, "DB_NAME", "agrismart"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	ttlDays, _ := strconv.Atoi(getEnv("TOKEN_TTL_DAYS", "30"))

	return JWTConfig{
		Secret:  getModeEnv(mode, "JWT_SECRET", defaultJWTSecret),
		TTLDays: ttlDays,
	}
}

func loadRedisConfig() RedisConfig {
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getModeEnv prefers DEV_KEY / PROD_KEY and falls back to KEY
func getModeEnv(mode, key, defaultValue string) string {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}
	if value := os.Getenv(prefix + key); value != "" {
		return value
	}
	return getEnv(key, defaultValue)
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// TokenTTL returns the session credential validity
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TTLDays) * 24 * time.Hour
}

// DigestEnabled reports whether the moderation digest job should run
func (c *Config) DigestEnabled() bool {
	s := strings.TrimSpace(c.Digest.Schedule)
	return s != "" && s != "off"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origins
		return "https://agri-smart.vercel.app,https://agri-smart-a8mz.vercel.app"
	}
	return origins
}
