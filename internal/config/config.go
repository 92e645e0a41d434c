package config

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

type Config struct {
	Environment   string        `mapstructure:"ENV"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	DBDSN         string        `mapstructure:"DB_DSN"`
	TelegramToken string        `mapstructure:"TELEGRAM_TOKEN"`
	HTTPAddr      string        `mapstructure:"HTTP_ADDR"`
	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	JWTTTL        time.Duration `mapstructure:"JWT_TTL"`
	BcryptCost    int           `mapstructure:"BCRYPT_COST"`
	AuditInterval time.Duration `mapstructure:"AUDIT_INTERVAL"`
	Migrations    bool          `mapstructure:"MIGRATIONS"`
}

// Defaults значения, которые используются если переменная не задана
func Defaults() map[string]any {
	return map[string]any{
		"ENV":            "development",
		"LOG_LEVEL":      "info",
		"HTTP_ADDR":      ":5000",
		"JWT_TTL":        "168h",
		"BCRYPT_COST":    10,
		"AUDIT_INTERVAL": "1h",
		"MIGRATIONS":     true,
	}
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg, err := FromEnv(os.Environ())
	if err != nil {
		return nil, err
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// FromEnv собирает конфиг из списка KEY=VALUE поверх значений по умолчанию
func FromEnv(environ []string) (*Config, error) {
	values := Defaults()
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		values[key] = value
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			trimStringsHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("create config decoder: %w", err)
	}
	if err := decoder.Decode(values); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}
	if c.HTTPEnabled() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when HTTP_ADDR is set")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.AuditInterval <= 0 {
		return fmt.Errorf("AUDIT_INTERVAL must be positive, got %s", c.AuditInterval)
	}
	return nil
}

// HTTPEnabled сообщает, нужно ли поднимать HTTP API ("-" отключает его)
func (c *Config) HTTPEnabled() bool {
	return c.HTTPAddr != "" && c.HTTPAddr != "-"
}

// BotEnabled сообщает, задан ли токен Telegram бота
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func trimStringsHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	return strings.TrimSpace(reflect.ValueOf(data).String()), nil
}
