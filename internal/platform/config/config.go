package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	KV        KVConfig
	Reminders RemindersConfig
	Notify    NotifyConfig
}

type AppConfig struct {
	Name      string
	Port      string
	LogLevel  string
	LogFormat string
	Location  *time.Location
}

type DBConfig struct {
	DSN     string
	Migrate bool
}

type KVConfig struct {
	Driver     string // memory | sqlite | redis
	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type RemindersConfig struct {
	Enabled           bool
	Cron              string
	DoseWindow        time.Duration
	AppointmentOffset time.Duration
}

type NotifyConfig struct {
	WebhookURL    string
	WebhookAPIKey string
	RatePerSec    int
}

// Load lee config desde env (y opcionalmente un archivo apuntado por CONFIG_FILE, ej. ".env").
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()

	if path := strings.TrimSpace(v.GetString("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "eldercare-reminders")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("TIMEZONE", "Local")

	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_MIGRATE", true)

	v.SetDefault("KV_DRIVER", "memory")
	v.SetDefault("KV_SQLITE_PATH", "data/eldercare.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("REMINDERS_ENABLED", true)
	v.SetDefault("REMINDER_CRON", "* * * * *")
	v.SetDefault("DOSE_WINDOW", "30m")
	v.SetDefault("APPOINTMENT_REMINDER_OFFSET", "1h")

	v.SetDefault("NOTIFY_WEBHOOK_URL", "")
	v.SetDefault("NOTIFY_WEBHOOK_API_KEY", "")
	v.SetDefault("NOTIFY_RATE_PER_SEC", 5)
}

func fromViper(v *viper.Viper) (*Config, error) {
	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	doseWindow, err := time.ParseDuration(v.GetString("DOSE_WINDOW"))
	if err != nil || doseWindow < 0 {
		doseWindow = 30 * time.Minute
	}

	apptOffset, err := time.ParseDuration(v.GetString("APPOINTMENT_REMINDER_OFFSET"))
	if err != nil || apptOffset < 0 {
		apptOffset = time.Hour
	}

	cfg := &Config{
		App: AppConfig{
			Name:      v.GetString("APP_NAME"),
			Port:      v.GetString("PORT"),
			LogLevel:  v.GetString("LOG_LEVEL"),
			LogFormat: v.GetString("LOG_FORMAT"),
			Location:  loc,
		},
		DB: DBConfig{
			DSN:     strings.TrimSpace(v.GetString("DB_DSN")),
			Migrate: v.GetBool("DB_MIGRATE"),
		},
		KV: KVConfig{
			Driver:        strings.ToLower(strings.TrimSpace(v.GetString("KV_DRIVER"))),
			SQLitePath:    v.GetString("KV_SQLITE_PATH"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
		},
		Reminders: RemindersConfig{
			Enabled:           v.GetBool("REMINDERS_ENABLED"),
			Cron:              v.GetString("REMINDER_CRON"),
			DoseWindow:        doseWindow,
			AppointmentOffset: apptOffset,
		},
		Notify: NotifyConfig{
			WebhookURL:    strings.TrimSpace(v.GetString("NOTIFY_WEBHOOK_URL")),
			WebhookAPIKey: v.GetString("NOTIFY_WEBHOOK_API_KEY"),
			RatePerSec:    v.GetInt("NOTIFY_RATE_PER_SEC"),
		},
	}

	switch cfg.KV.Driver {
	case "memory", "sqlite", "redis":
	default:
		return nil, errors.New("unknown KV_DRIVER: " + cfg.KV.Driver)
	}

	return cfg, nil
}
