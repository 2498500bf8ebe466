package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

const (
	OrderStoreMongo    = "mongo"
	OrderStorePostgres = "postgres"
)

type Config struct {
	Port           string
	GinMode        string
	MongoURI       string
	DBName         string
	JWTSecret      string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SessionSecret  string
	SessionTTL     time.Duration
	OrderStore     string
	Postgres       PostgresConfig
	KafkaBrokers   []string
	KafkaTopic     string
	CORSOrigins    []string
	RequestTimeout time.Duration
}

type PostgresConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	MigrationsPath string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv builds a Config from the process environment without touching .env.
func FromEnv() Config {
	return Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		GinMode:       getEnvOrDefault("GIN_MODE", "release"),
		MongoURI:      getEnvOrDefault("MONGO_URI", ""),
		DBName:        getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret:     getEnvOrDefault("JWT_SECRET", ""),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		SessionSecret: getEnvOrDefault("SESSION_SECRET", ""),
		SessionTTL:    getDurationEnv("SESSION_TTL", 24, time.Hour),
		OrderStore:    strings.ToLower(getEnvOrDefault("ORDER_STORE", OrderStoreMongo)),
		Postgres: PostgresConfig{
			Host:           getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:           getIntEnv("POSTGRES_PORT", 5432),
			User:           getEnvOrDefault("POSTGRES_USER", "storefront"),
			Password:       getEnvOrDefault("POSTGRES_PASSWORD", ""),
			DBName:         getEnvOrDefault("POSTGRES_DB", "storefront"),
			MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", "./migrations"),
		},
		KafkaBrokers:   getListEnv("KAFKA_BROKERS"),
		KafkaTopic:     getEnvOrDefault("KAFKA_TOPIC", "storefront.orders"),
		CORSOrigins:    getListEnv("CORS_ORIGINS"),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 5, time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
