package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"prizepool/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string

	// Pool identity on the stable asset network
	PoolAddress string

	// Transfer tax applied by the stable asset network
	TaxRate string
	TaxCap  string

	// Reserve sweep cadence
	SweepInterval time.Duration

	// Environment: "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and
// database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		PoolAddress: os.Getenv("POOL_ADDRESS"),

		TaxRate: getEnvWithDefault("TAX_RATE", "0"),
		TaxCap:  getEnvWithDefault("TAX_CAP", "0"),

		SweepInterval: 24 * time.Hour,

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if interval := os.Getenv("SWEEP_INTERVAL_HOURS"); interval != "" {
		if hours, err := strconv.Atoi(interval); err == nil && hours > 0 {
			config.SweepInterval = time.Duration(hours) * time.Hour
		}
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.PoolAddress == "" {
			return nil, fmt.Errorf("POOL_ADDRESS is required")
		}
	}

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:   "test",
		TaxRate:       "0",
		TaxCap:        "0",
		SweepInterval: 24 * time.Hour,
	}
}
