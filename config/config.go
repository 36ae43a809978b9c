package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string

	RepositoryDriver string
	SeedFile         string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RemoteAPIURL     string
	RemoteAPIToken   string
	RemoteAPITimeout time.Duration

	SessionStore  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret         string
	SessionTTL        time.Duration
	AdminEmail        string
	AdminName         string
	AdminPasswordHash string
	AdminPassword     string

	RabbitMQURL       string
	OrderExchange     string
	OrderQueue        string
	DeadLetterQueue   string
	DelayExchange     string
	MaxPriority       int
	PaymentCheckDelay time.Duration

	CORSAllowedOrigins []string
}

func LoadConfig() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("GIN_MODE", "debug"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),

		RepositoryDriver: getEnv("REPOSITORY_DRIVER", "memory"),
		SeedFile:         getEnv("SEED_FILE", ""),

		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnvFromFile("DB_PASSWORD_FILE", "DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "storefront"),

		RemoteAPIURL:     getEnv("REMOTE_API_URL", ""),
		RemoteAPIToken:   getEnvFromFile("REMOTE_API_TOKEN_FILE", "REMOTE_API_TOKEN", ""),
		RemoteAPITimeout: getEnvDuration("REMOTE_API_TIMEOUT", 10*time.Second),

		SessionStore:  getEnv("SESSION_STORE", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvFromFile("REDIS_PASSWORD_FILE", "REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:         getEnvFromFile("JWT_SECRET_FILE", "JWT_SECRET", ""),
		SessionTTL:        getEnvDuration("SESSION_TTL", 24*time.Hour),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminName:         getEnv("ADMIN_NAME", "Admin"),
		AdminPasswordHash: getEnvFromFile("ADMIN_PASSWORD_HASH_FILE", "ADMIN_PASSWORD_HASH", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),

		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		OrderExchange:     getEnv("ORDER_EXCHANGE", "orders_exchange"),
		OrderQueue:        getEnv("ORDER_QUEUE", "orders_queue"),
		DeadLetterQueue:   getEnv("DEAD_LETTER_QUEUE", "dead_letter_queue"),
		DelayExchange:     getEnv("DELAY_EXCHANGE", "delay_exchange"),
		MaxPriority:       10,
		PaymentCheckDelay: getEnvDuration("PAYMENT_CHECK_DELAY", 15*time.Minute),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "release"
}

func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
