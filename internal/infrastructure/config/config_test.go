package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "casa-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "https://api.asaas.com/v3", cfg.Asaas.BaseURL)
	assert.Equal(t, 100, cfg.Asaas.PageLimit)
	assert.True(t, cfg.Billing.DiscountValue.Equal(decimal.Zero))
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CASA_ASAAS_API_KEY", "key-from-env")
	t.Setenv("CASA_DATABASE_DBNAME", "casa_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "key-from-env", cfg.Asaas.APIKey)
	assert.Equal(t, "casa_test", cfg.Database.DBName)
}

func TestValidate_ProductionRequiresAPIKey(t *testing.T) {
	t.Setenv("CASA_APP_ENV", "production")
	t.Setenv("CASA_DATABASE_PASSWORD", "secret")
	t.Setenv("CASA_DATABASE_SSLMODE", "require")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "asaas.api_key")
}

func TestDSN_EscapesCredentials(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "casa",
		Password: "p@ss:word",
		DBName:   "casa",
		SSLMode:  "disable",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "p%40ss%3Aword")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
