package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.TrustedOrigins)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, time.Hour, cfg.Email.ResetTokenTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TRUSTED_ORIGINS", "https://catait.example.com, https://admin.catait.example.com")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t,
		[]string{"https://catait.example.com", "https://admin.catait.example.com"},
		cfg.Server.TrustedOrigins,
	)
}

func TestDatabaseDSN(t *testing.T) {
	dbCfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     "3306",
		User:     "catait",
		Password: "secret",
		DBName:   "catait",
	}

	assert.Equal(t,
		"catait:secret@tcp(db.internal:3306)/catait?parseTime=true&loc=UTC",
		dbCfg.DSN(),
	)

	dbCfg.Params = "tls=true"
	assert.Equal(t,
		"catait:secret@tcp(db.internal:3306)/catait?parseTime=true&loc=UTC&tls=true",
		dbCfg.DSN(),
	)
}

func TestRedisAddress(t *testing.T) {
	redisCfg := RedisConfig{Host: "cache.internal", Port: "6379"}
	assert.Equal(t, "cache.internal:6379", redisCfg.Address())
}
