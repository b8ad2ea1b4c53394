package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/restaurant-backend/pkg/database"
)

// ServiceConfig holds process level settings
type ServiceConfig struct {
	Name           string
	Version        string
	Environment    string
	LogLevel       string
	HTTPPort       string
	GRPCPort       string
	RequestTimeout time.Duration
}

// IsDevelopment switches on console logging
func (s ServiceConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

type TracingConfig struct {
	JaegerEndpoint string
	SampleRatio    float64
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
	CacheTTL time.Duration

	LoginRateLimit  int
	LoginRateWindow time.Duration
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
	Enabled bool
}

// OrderStatusConfig is the order status vocabulary seeded at startup
type OrderStatusConfig struct {
	Statuses []string
	Initial  string
	Paid     string
	Kitchen  []string
}

// AdminConfig seeds the first admin account when Password is set
type AdminConfig struct {
	Username string
	Password string
}

type ReservationConfig struct {
	DefaultDuration time.Duration
}

// Config is the whole application configuration
type Config struct {
	Service     ServiceConfig
	Database    database.Config
	Tracing     TracingConfig
	JWT         JWTConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	OrderStatus OrderStatusConfig
	Reservation ReservationConfig
	Admin       AdminConfig
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Service: ServiceConfig{
			Name:           getEnv("OTEL_SERVICE_NAME", "restaurant-backend"),
			Version:        getEnv("SERVICE_VERSION", "1.0.0"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			HTTPPort:       getEnv("HTTP_PORT", "8080"),
			GRPCPort:       getEnv("GRPC_PORT", "9090"),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		},
		Database: database.Config{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "restaurantdb"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Tracing: TracingConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			SampleRatio:    getEnvFloat("TRACE_SAMPLE_RATIO", 1),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			TTL:    getEnvDuration("JWT_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", "localhost:6379"),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvInt("REDIS_DB", 0),
			Enabled:         getEnvBool("REDIS_ENABLED", true),
			CacheTTL:        getEnvDuration("CACHE_TTL", 5*time.Minute),
			LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
			LoginRateWindow: getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			GroupID: getEnv("KAFKA_GROUP_ID", "restaurant-inventory"),
			Enabled: getEnvBool("KAFKA_ENABLED", true),
		},
		OrderStatus: OrderStatusConfig{
			Statuses: getEnvList("ORDER_STATUSES", []string{"received", "preparing", "ready", "served", "paid"}),
			Initial:  getEnv("ORDER_STATUS_INITIAL", "received"),
			Paid:     getEnv("ORDER_STATUS_PAID", "paid"),
			Kitchen:  getEnvList("ORDER_STATUS_KITCHEN", []string{"received", "preparing"}),
		},
		Reservation: ReservationConfig{
			DefaultDuration: getEnvDuration("RESERVATION_DEFAULT_DURATION", 120*time.Minute),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		if c.Service.IsDevelopment() {
			c.JWT.Secret = "development-secret"
		} else {
			return fmt.Errorf("JWT_SECRET is required outside development")
		}
	}
	if !contains(c.OrderStatus.Statuses, c.OrderStatus.Initial) {
		return fmt.Errorf("initial order status %q is not in ORDER_STATUSES", c.OrderStatus.Initial)
	}
	if !contains(c.OrderStatus.Statuses, c.OrderStatus.Paid) {
		return fmt.Errorf("paid order status %q is not in ORDER_STATUSES", c.OrderStatus.Paid)
	}
	if c.OrderStatus.Initial == c.OrderStatus.Paid {
		return fmt.Errorf("initial and paid order statuses must differ")
	}
	if c.Reservation.DefaultDuration <= 0 {
		return fmt.Errorf("RESERVATION_DEFAULT_DURATION must be positive")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
