package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bookkeep-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Features.ExpenseJournals)
	assert.Equal(t, 100, cfg.Matching.ExactAmountPoints)
	assert.Equal(t, 150, cfg.Matching.HighConfidenceThreshold)
	assert.Equal(t, 20, cfg.Import.MaxErrorSamples)
	assert.Equal(t, 10000, cfg.Import.MaxRows)
}

func TestValidate(t *testing.T) {
	t.Run("idle connections cannot exceed open connections", func(t *testing.T) {
		cfg := &Config{}
		cfg.Database.MaxOpenConns = 5
		cfg.Database.MaxIdleConns = 10

		assert.Error(t, cfg.validate())
	})

	t.Run("production requires a database password", func(t *testing.T) {
		cfg := &Config{}
		cfg.App.Env = "production"
		cfg.Database.MaxOpenConns = 25
		cfg.Database.SSLMode = "require"

		assert.Error(t, cfg.validate())
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "p@ss/word",
		DBName:   "bookkeep",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
