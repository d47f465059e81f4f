package domain

import (
	"fmt"
	"strings"
	"time"
)

// Defaults applied when a scope leaves a notifier setting unset.
const (
	DefaultHost                  = "myhttpserver"
	DefaultPort                  = 8080
	DefaultBasePath              = "/fileevent/put"
	DefaultRequestTimeoutSeconds = 30

	MinPort = 1
	MaxPort = 65535
)

// NotifierConfig is the fully resolved notifier configuration for one request scope.
// It is read-only to the dispatcher.
type NotifierConfig struct {
	Enabled               bool
	Host                  string
	Port                  int
	BasePath              string
	RequestTimeoutSeconds int
}

// DefaultNotifierConfig returns the configuration used when nothing is set.
func DefaultNotifierConfig() NotifierConfig {
	return NotifierConfig{
		Enabled:               false,
		Host:                  DefaultHost,
		Port:                  DefaultPort,
		BasePath:              DefaultBasePath,
		RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
	}
}

func (c NotifierConfig) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("%w: notifier host is required", ErrValidation)
	}
	if c.Port < MinPort || c.Port > MaxPort {
		return fmt.Errorf("%w: notifier port %d out of range %d-%d", ErrValidation, c.Port, MinPort, MaxPort)
	}
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("%w: request timeout must be non-negative (got %d)", ErrValidation, c.RequestTimeoutSeconds)
	}
	return nil
}

// RequestTimeout is the read deadline budget. Zero means block until data or close.
func (c NotifierConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
