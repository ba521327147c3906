package config

import (
	"fmt"
	"os"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port            string
	MongoDBURI      string
	MongoDBPassword string
	StorageDriver   string
	CascadeOnCancel bool
	Environment     string
	LogLevel        string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		StorageDriver:   getEnvWithDefault("STORAGE_DRIVER", DriverMongo),
		CascadeOnCancel: os.Getenv("CASCADE_ON_CANCEL") == "true",
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.StorageDriver != DriverMongo && cfg.StorageDriver != DriverMemory {
		return nil, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, cfg.StorageDriver)
	}
	if cfg.StorageDriver == DriverMongo && cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required when STORAGE_DRIVER is %q", DriverMongo)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
