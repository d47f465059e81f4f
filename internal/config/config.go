package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/kursadbilgin/logurl/internal/domain"
)

type Config struct {
	RedisURL  string `env:"REDIS_URL,required=true"`
	APIPort   int    `env:"API_PORT,default=8080"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`

	// Server-level notifier scope. Locations in ScopesFile inherit from it.
	LogURLEnable           bool   `env:"LOGURL_ENABLE,default=false"`
	LogURLHost             string `env:"LOGURL_HOST,default=myhttpserver"`
	LogURLPort             int    `env:"LOGURL_PORT,default=8080"`
	LogURLBaseURL          string `env:"LOGURL_BASEURL,default=/fileevent/put"`
	LogURLRequestTimeout   int    `env:"LOGURL_REQUEST_TIMEOUT,default=30"`
	LogURLConnectTimeoutMS int    `env:"LOGURL_CONNECT_TIMEOUT_MS,default=0"`
	LogURLDNSServer        string `env:"LOGURL_DNS_SERVER"`
	LogURLScopesFile       string `env:"LOGURL_SCOPES_FILE"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.APIPort < domain.MinPort || c.APIPort > domain.MaxPort {
		return fmt.Errorf("%w: API_PORT %d out of range", domain.ErrValidation, c.APIPort)
	}
	if c.LogURLConnectTimeoutMS < 0 {
		return fmt.Errorf("%w: LOGURL_CONNECT_TIMEOUT_MS must be non-negative", domain.ErrValidation)
	}
	return c.ServerScope().Validate()
}

// ServerScope is the notifier configuration applied outside any location.
func (c *Config) ServerScope() domain.NotifierConfig {
	return domain.NotifierConfig{
		Enabled:               c.LogURLEnable,
		Host:                  c.LogURLHost,
		Port:                  c.LogURLPort,
		BasePath:              c.LogURLBaseURL,
		RequestTimeoutSeconds: c.LogURLRequestTimeout,
	}
}

func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.LogURLConnectTimeoutMS) * time.Millisecond
}
