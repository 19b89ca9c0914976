package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Load reads config.yaml (when present) and applies environment overrides.
// A .env file in the working directory is loaded first so local setups never
// need secrets in source or shell profiles.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := &AppConfig{}
	if strings.TrimSpace(path) != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			return cfg, cfg.validate()
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c *AppConfig) validate() error {
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}
	if c.DBDriver == "postgres" && strings.TrimSpace(c.DBURL) == "" {
		return fmt.Errorf("db_url is required for the postgres driver")
	}
	if c.Notify.Enabled {
		if strings.TrimSpace(c.Notify.SMTPHost) == "" {
			return fmt.Errorf("notify.smtp_host is required when notifications are enabled")
		}
		if strings.TrimSpace(c.Notify.Recipient) == "" {
			return fmt.Errorf("notify.recipient is required when notifications are enabled")
		}
	}
	return nil
}
