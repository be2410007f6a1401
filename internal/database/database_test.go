package database

import (
	"context"
	"testing"
	"time"

	"dish-analyzer/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfigFor(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:            "db.internal",
		Port:            6543,
		User:            "chef",
		Password:        "secret",
		Name:            "catalogue",
		MaxConnections:  8,
		MinConnections:  2,
		MaxConnLifetime: 120,
	}

	poolConfig, err := poolConfigFor(cfg)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", poolConfig.ConnConfig.Host)
	assert.Equal(t, uint16(6543), poolConfig.ConnConfig.Port)
	assert.Equal(t, "catalogue", poolConfig.ConnConfig.Database)
	assert.Equal(t, int32(8), poolConfig.MaxConns)
	assert.Equal(t, int32(2), poolConfig.MinConns)
	assert.Equal(t, 120*time.Second, poolConfig.MaxConnLifetime)
	assert.Equal(t, ApplicationName, poolConfig.ConnConfig.RuntimeParams["application_name"])
}

func TestNewPool_Errors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	tests := []struct {
		name     string
		cfg      config.DatabaseConfig
		errMatch string
	}{
		{
			name: "Cannot connect to database",
			cfg: config.DatabaseConfig{
				Host:           "127.0.0.1",
				Port:           1,
				User:           "postgres",
				Name:           "testdb",
				MaxConnections: 2,
				MinConnections: 1,
			},
			errMatch: "failed to ping database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewPool(context.Background(), tt.cfg, zerolog.Nop())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMatch)
			assert.Nil(t, pool)
		})
	}
}
