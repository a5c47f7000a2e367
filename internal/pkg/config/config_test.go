package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "*", cfg.FrontendURL)
	assert.Equal(t, domain.ProfileCRM, cfg.Profile())
	assert.True(t, cfg.ExposeStoreErrors)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.Redis.CacheEnabled())
	assert.False(t, cfg.Postgres.AutoMigrate)
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":          "s3cret",
		"PORT":                "8080",
		"URL_FRONTEND":        "https://app.bluepay.com.br",
		"VALIDATION_PROFILE":  "email",
		"EXPOSE_STORE_ERRORS": "false",
		"STORE_DRIVER":        "mongo",
		"REDIS_ADDR":          "localhost:6379",
		"AUTH_CACHE_TTL":      "30s",
		"AUTO_MIGRATE":        "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, domain.ProfileEmail, cfg.Profile())
	assert.False(t, cfg.ExposeStoreErrors)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.True(t, cfg.Redis.CacheEnabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.True(t, cfg.Postgres.AutoMigrate)
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":  {},
		"blank secret":    {"JWT_SECRET": "   "},
		"unknown profile": {"JWT_SECRET": "s", "VALIDATION_PROFILE": "cpf"},
		"unknown driver":  {"JWT_SECRET": "s", "STORE_DRIVER": "mysql"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}
