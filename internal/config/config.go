package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	// Clover POS Configuration (upstream catalog provider)
	CloverBaseURL    string
	CloverAPIKey     string
	CloverMerchantID string
	CloverLocationID string // optional, only some merchants have one
	// Upstream pagination / rate-limit settings
	UpstreamPageSize  int
	UpstreamPageDelay time.Duration
	UpstreamTimeout   time.Duration
	// Inventory cache
	CacheTTL time.Duration
	// Redis Configuration (optional - shared snapshot cache across replicas)
	UseCache      bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	// SQLite snapshot store (optional - warm start after restart, "" = disabled)
	SnapshotPath string
	// Kafka Configuration (optional - cache invalidation on inventory events)
	UseKafka            bool
	KafkaBrokers        []string
	KafkaTopicInventory string
	KafkaGroupID        string
	// Identity provider session tokens (HS256 shared secret)
	SessionJWTSecret string
}

// CloverConfigured reports whether the upstream credentials are present.
// When they are not, the service runs in a degraded mode that serves an
// empty catalog instead of failing.
func (c *Config) CloverConfigured() bool {
	return c.CloverAPIKey != "" && c.CloverMerchantID != ""
}

func Load() *Config {
	// .env file is optional, continue with environment variables
	_ = godotenv.Load()

	kafkaBrokersStr := getEnv("KAFKA_BROKERS", "localhost:9093")
	kafkaBrokers := strings.Split(kafkaBrokersStr, ",")
	for i, broker := range kafkaBrokers {
		kafkaBrokers[i] = strings.TrimSpace(broker)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		// Clover POS Configuration
		CloverBaseURL:    getEnv("CLOVER_BASE_URL", "https://api.clover.com"),
		CloverAPIKey:     getEnv("CLOVER_API_KEY", ""),
		CloverMerchantID: getEnv("CLOVER_MERCHANT_ID", ""),
		CloverLocationID: getEnv("CLOVER_LOCATION_ID", ""),
		// Upstream settings. Page delay is the fixed spacing between page
		// requests that keeps Clover from throttling us.
		UpstreamPageSize:  getEnvAsInt("UPSTREAM_PAGE_SIZE", 1000),
		UpstreamPageDelay: time.Duration(getEnvAsInt("UPSTREAM_PAGE_DELAY_MS", 300)) * time.Millisecond,
		UpstreamTimeout:   time.Duration(getEnvAsInt("UPSTREAM_TIMEOUT_MS", 15000)) * time.Millisecond,
		// Inventory cache: 10 minutes default
		CacheTTL: time.Duration(getEnvAsInt("CACHE_TTL", 600)) * time.Second,
		// Redis Configuration (optional)
		UseCache:      getEnvAsBool("USE_CACHE", false),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		// SQLite snapshot store (optional)
		SnapshotPath: getEnv("SNAPSHOT_PATH", ""),
		// Kafka Configuration (optional)
		UseKafka:            getEnvAsBool("USE_KAFKA", false),
		KafkaBrokers:        kafkaBrokers,
		KafkaTopicInventory: getEnv("KAFKA_TOPIC_INVENTORY", "inventory.events"),
		KafkaGroupID:        getEnv("KAFKA_GROUP_ID", "storefront-service"),
		// Identity provider session tokens
		SessionJWTSecret: getEnv("SESSION_JWT_SECRET", "your-secret-key-change-in-production-min-32-chars"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.ToLower(value) == "true" || value == "1"
}
