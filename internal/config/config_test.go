package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CASCADE_ON_CANCEL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StorageDriver)
	assert.False(t, cfg.CascadeOnCancel)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("STORAGE_DRIVER", DriverMongo)

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigMemoryDriverSkipsMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("STORAGE_DRIVER", DriverMemory)
	t.Setenv("CASCADE_ON_CANCEL", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.True(t, cfg.CascadeOnCancel)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "cassandra")

	_, err := LoadConfig()
	assert.Error(t, err)
}
