package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Telegram struct {
		User     int64  `env:"TELEGRAM_USER"`
		BotToken string `env:"TELEGRAM_TOKEN"`
		Channel  string `env:"TELEGRAM_CHANNEL"`
	}
	Playback struct {
		ImageDurationMs    int `env:"PLAYBACK_IMAGE_DURATION_MS" env-default:"5000"`
		MaxVideoDurationMs int `env:"PLAYBACK_MAX_VIDEO_DURATION_MS" env-default:"120000"`
		TickIntervalMs     int `env:"PLAYBACK_TICK_INTERVAL_MS" env-default:"50"`
	}
	Thread struct {
		DisclosureLimit int  `env:"THREAD_DISCLOSURE_LIMIT" env-default:"3"`
		MentionPrefix   bool `env:"THREAD_MENTION_PREFIX" env-default:"true"`
	}
	Stories struct {
		TTLHours               int `env:"STORIES_TTL_HOURS" env-default:"24"`
		CleanupIntervalMinutes int `env:"STORIES_CLEANUP_INTERVAL_MINUTES" env-default:"60"`
		FanoutWorkers          int `env:"STORIES_FANOUT_WORKERS" env-default:"5"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN returns the postgres connection string in URL form.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}
