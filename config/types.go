package config

import "time"

type AppConfig struct {
	DBDriver   string        `yaml:"db_driver" env:"INCMON_DB_DRIVER" env-default:"sqlite"`
	DBPath     string        `yaml:"db_path" env:"INCMON_DB_PATH" env-default:"data/incidents.db"`
	DBURL      string        `yaml:"db_url" env:"INCMON_DB_URL"`
	ListenAddr string        `yaml:"listen_addr" env:"INCMON_LISTEN_ADDR" env-default:"0.0.0.0:8080"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"INCMON_SESSION_TTL" env-default:"3h"`
	Pepper     string        `yaml:"pepper" env:"INCMON_PEPPER"`
	LogLevel   string        `yaml:"log_level" env:"INCMON_LOG_LEVEL" env-default:"info"`
	TLSEnabled bool          `yaml:"tls_enabled" env:"INCMON_TLS_ENABLED" env-default:"false"`
	TLSCert    string        `yaml:"tls_cert" env:"INCMON_TLS_CERT"`
	TLSKey     string        `yaml:"tls_key" env:"INCMON_TLS_KEY"`
	Notify     NotifyConfig  `yaml:"notify"`
	Scraper    ScraperConfig `yaml:"scraper"`
}

type NotifyConfig struct {
	Enabled    bool   `yaml:"enabled" env:"INCMON_NOTIFY_ENABLED" env-default:"false"`
	Recipient  string `yaml:"recipient" env:"INCMON_NOTIFY_RECIPIENT"`
	From       string `yaml:"from" env:"INCMON_SMTP_FROM"`
	SMTPHost   string `yaml:"smtp_host" env:"INCMON_SMTP_HOST"`
	SMTPPort   int    `yaml:"smtp_port" env:"INCMON_SMTP_PORT" env-default:"587"`
	SMTPUser   string `yaml:"smtp_user" env:"INCMON_SMTP_USER"`
	SMTPPass   string `yaml:"smtp_pass" env:"INCMON_SMTP_PASS"`
	TimeoutSec int    `yaml:"timeout_sec" env:"INCMON_SMTP_TIMEOUT" env-default:"15"`
}

type ScraperConfig struct {
	URL        string `yaml:"url" env:"INCMON_SCRAPER_URL"`
	Selector   string `yaml:"selector" env:"INCMON_SCRAPER_SELECTOR" env-default:"h2.entry-title"`
	Schedule   string `yaml:"schedule" env:"INCMON_SCRAPER_SCHEDULE" env-default:"@hourly"`
	TimeoutSec int    `yaml:"timeout_sec" env:"INCMON_SCRAPER_TIMEOUT" env-default:"20"`
}

const maxUserSessionTTL = 12 * time.Hour

func (c *AppConfig) EffectiveSessionTTL() time.Duration {
	ttl := 3 * time.Hour
	if c != nil && c.SessionTTL > 0 {
		ttl = c.SessionTTL
	}
	if ttl > maxUserSessionTTL {
		return maxUserSessionTTL
	}
	return ttl
}
