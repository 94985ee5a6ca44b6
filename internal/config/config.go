package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	applog "cartify/internal/log"
)

type Config struct {
	Port         string        `envconfig:"PORT" default:"8080"`
	APIURL       string        `envconfig:"API_URL" default:"http://127.0.0.1:8000"`
	APITimeout   time.Duration `envconfig:"API_TIMEOUT" default:"0s"` // 0 waits forever
	CacheDSN     string        `envconfig:"CACHE_DSN" default:"cartify.db"`
	TemplatesDir string        `envconfig:"TEMPLATES_DIR" default:"./web/templates"`
	LogFile      string        `envconfig:"LOG_FILE" default:"./cartify.log"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err == nil {
		applog.Info(nil, "config.dotenv", nil)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "read environment")
	}
	applog.Info(nil, "config.loaded", map[string]any{
		"port":      cfg.Port,
		"api_url":   cfg.APIURL,
		"cache_dsn": cfg.CacheDSN,
		"log_file":  cfg.LogFile,
	})
	return cfg, nil
}
