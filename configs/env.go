package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Server     ServerConfig
	Mongo      MongoConfig
	Auth       AuthConfig
	Razorpay   RazorpayConfig
	Geocoding  GeocodingConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Broadcast  BroadcastConfig
	Inventory  InventoryConfig
	RequestTTL time.Duration
}

type AppConfig struct {
	Name string
	Env  string
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	Currency  string
}

type GeocodingConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type BroadcastConfig struct {
	Timeout time.Duration
}

// InventoryConfig controls how the reconciler treats stock rows that do not exist yet.
type InventoryConfig struct {
	// StrictInventory makes a sale against a missing or short stock row fail
	// instead of auto-creating the row with PermissiveSeedStock.
	StrictInventory     bool
	PermissiveSeedStock int
	DefaultListingStock int
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "krishikart-api"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Host:            getEnv("HTTP_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("PORT", 3000),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGOURI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DB", "krishikart"),
			ConnectTimeout: getEnvAsDuration("MONGO_CONNECT_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Razorpay: RazorpayConfig{
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
			Currency:  getEnv("RAZORPAY_CURRENCY", "INR"),
		},
		Geocoding: GeocodingConfig{
			BaseURL:      getEnv("GEOCODING_BASE_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
			APIKey:       getEnv("GOOGLE_MAPS_API_KEY", ""),
			Timeout:      getEnvAsDuration("GEOCODING_TIMEOUT", 5*time.Second),
			MaxRetries:   getEnvAsInt("GEOCODING_MAX_RETRIES", 2),
			RetryBackoff: getEnvAsDuration("GEOCODING_RETRY_BACKOFF", 300*time.Millisecond),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvAsBool("KAFKA_ENABLED", false),
			Brokers: splitAndTrim(getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")),
			Topic:   getEnv("KAFKA_ORDER_EVENTS_TOPIC", "order-events"),
		},
		Broadcast: BroadcastConfig{
			Timeout: getEnvAsDuration("BROADCAST_TIMEOUT", 3*time.Second),
		},
		Inventory: InventoryConfig{
			StrictInventory:     getEnvAsBool("STRICT_INVENTORY", false),
			PermissiveSeedStock: getEnvAsInt("PERMISSIVE_SEED_STOCK", 1000),
			DefaultListingStock: getEnvAsInt("DEFAULT_LISTING_STOCK", 0),
		},
		RequestTTL: getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
	}

	return cfg, cfg.validate()
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

/* ================= helpers ================= */

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("PORT is invalid")
	}
	if c.Mongo.URI == "" || c.Mongo.Database == "" {
		return fmt.Errorf("mongo config is incomplete")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers is empty")
	}
	if c.Inventory.PermissiveSeedStock < 0 || c.Inventory.DefaultListingStock < 0 {
		return fmt.Errorf("inventory seed stock must not be negative")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if val := strings.TrimSpace(p); val != "" {
			out = append(out, val)
		}
	}
	return out
}
