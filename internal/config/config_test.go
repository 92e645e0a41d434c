package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv([]string{
		"DB_DSN=postgres://localhost/slotswapper",
		"JWT_SECRET=secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, time.Hour, cfg.AuditInterval)
	assert.True(t, cfg.Migrations)
	assert.True(t, cfg.HTTPEnabled())
	assert.False(t, cfg.BotEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv([]string{
		"DB_DSN=postgres://db/slots",
		"ENV=production",
		"HTTP_ADDR=-",
		"TELEGRAM_TOKEN= 123:abc ",
		"BCRYPT_COST=12",
		"AUDIT_INTERVAL=15m",
		"MIGRATIONS=false",
		"UNRELATED=1",
	})
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.HTTPEnabled())
	assert.True(t, cfg.BotEnabled())
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 15*time.Minute, cfg.AuditInterval)
	assert.False(t, cfg.Migrations)
}

func TestFromEnv_Validation(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
		errText string
	}{
		{"missing dsn", []string{"JWT_SECRET=x"}, "DB_DSN"},
		{"missing jwt secret", []string{"DB_DSN=x"}, "JWT_SECRET"},
		{"bad duration", []string{"DB_DSN=x", "JWT_SECRET=x", "JWT_TTL=soon"}, "decode config"},
		{"negative audit interval", []string{"DB_DSN=x", "JWT_SECRET=x", "AUDIT_INTERVAL=-1m"}, "AUDIT_INTERVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(tt.environ)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}
