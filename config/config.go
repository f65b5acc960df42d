package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	API       APIConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string        `validate:"required"`
	Environment string        `validate:"oneof=development staging production"`
	Debug       bool
	Timeout     time.Duration `validate:"gt=0"`
	Port        string        `validate:"required"`
}

type DatabaseConfig struct {
	Host            string `validate:"required"`
	Port            int    `validate:"gt=0"`
	Name            string `validate:"required"`
	User            string `validate:"required"`
	Password        string
	SSLMode         string `validate:"oneof=disable require verify-ca verify-full"`
	MaxIdleConns    int    `validate:"gte=0"`
	MaxOpenConns    int    `validate:"gte=0"`
	ConnMaxLifetime int    `validate:"gte=0"` // minutes
	ConnMaxIdleTime int    `validate:"gte=0"` // minutes
}

type AuthConfig struct {
	JWTSecret        string `validate:"required"`
	SigningAlgorithm string `validate:"oneof=HS256 HS384 HS512"`
	AdminScope       string `validate:"required"`
	// AdminKeyHashes holds bcrypt hashes of accepted X-API-Key values.
	AdminKeyHashes []string
}

type RedisConfig struct {
	Enabled      bool
	Host         string `validate:"required"`
	Port         int    `validate:"gt=0"`
	Password     string
	Database     int `validate:"gte=0"`
	PoolSize     int `validate:"gt=0"`
	MinIdleConns int `validate:"gte=0"`
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

// APIConfig controls the behavior of the content API itself.
type APIConfig struct {
	// MaxLimit caps the limit query parameter. Zero disables the ceiling.
	MaxLimit      int    `validate:"gte=0"`
	SearchEnabled bool
	SearchBackend string `validate:"oneof=database redis"`
	CacheEnabled  bool
	CacheTTL      time.Duration `validate:"gt=0"`
}

type RateLimitConfig struct {
	Request  int `validate:"gt=0"`
	Duration int `validate:"gt=0"`
}

func LoadConfig() (*Config, error) {
	// Load .env file; absence is fine in containerized deploys.
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "chronicle"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			Timeout:     getEnvAsDuration("APP_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "chronicle_db"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsInt("DB_CONN_MAX_LIFETIME", 60),
			ConnMaxIdleTime: getEnvAsInt("DB_CONN_MAX_IDLE_TIME", 10),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			Database:     getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getEnvAsDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", "default_secret_key_change_in_production"),
			SigningAlgorithm: getEnv("JWT_SIGNING_ALGORITHM", "HS256"),
			AdminScope:       getEnv("ADMIN_SCOPE", "cms:admin"),
			AdminKeyHashes:   getEnvAsSlice("ADMIN_API_KEY_HASHES"),
		},
		API: APIConfig{
			MaxLimit:      getEnvAsInt("CHRONICLE_API_MAX_LIMIT", 20),
			SearchEnabled: getEnvAsBool("CHRONICLE_SEARCH_ENABLED", true),
			SearchBackend: getEnv("CHRONICLE_SEARCH_BACKEND", "database"),
			CacheEnabled:  getEnvAsBool("CHRONICLE_CACHE_ENABLED", true),
			CacheTTL:      getEnvAsDuration("CHRONICLE_CACHE_TTL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Request:  getEnvAsInt("RATE_LIMIT_MAX_REQUEST", 100),
			Duration: getEnvAsInt("RATE_LIMIT_DURATION", 60),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded configuration for values that would only
// fail much later at request time.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.API.SearchBackend == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("invalid configuration: search backend 'redis' requires REDIS_ENABLED=true")
	}
	if c.API.CacheEnabled && !c.Redis.Enabled {
		return fmt.Errorf("invalid configuration: response cache requires REDIS_ENABLED=true")
	}
	return nil
}

func (c *Config) DatabaseConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
