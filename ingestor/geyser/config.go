// Package geyser connects to a Yellowstone gRPC stream, applies subscription
// filters server-side where the protocol allows, and feeds raw updates to
// the event factory.
package geyser

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the stream endpoint settings. Credentials come from the
// environment; filters are a separate concern carried by the subscription
// state.
type Config struct {
	// Endpoint is the Yellowstone gRPC endpoint, e.g. "grpc.example.com:443".
	Endpoint string

	// APIKey is sent as the x-token header on every RPC.
	APIKey string

	// ConnectTimeout bounds the initial dial.
	ConnectTimeout time.Duration

	// MaxMessageBytes caps a single received stream message. Large account
	// snapshots require a generous limit.
	MaxMessageBytes int

	// ReconnectBackoff is the delay between reconnect attempts.
	ReconnectBackoff time.Duration

	// ReplaySlotWindow is how many slots to rewind on reconnect so nothing
	// is missed across the gap.
	ReplaySlotWindow uint64
}

const (
	envEndpoint = "GEYSER_ENDPOINT"
	envAPIKey   = "GEYSER_API_KEY"
)

// DefaultConfig returns production defaults with endpoint and key unset.
func DefaultConfig() *Config {
	return &Config{
		ConnectTimeout:   10 * time.Second,
		MaxMessageBytes:  64 * 1024 * 1024,
		ReconnectBackoff: 5 * time.Second,
		ReplaySlotWindow: 64,
	}
}

// FromEnv loads endpoint and credentials from the environment on top of the
// defaults.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()
	cfg.Endpoint = os.Getenv(envEndpoint)
	cfg.APIKey = os.Getenv(envAPIKey)
	return cfg, cfg.Validate()
}

// Validate checks that required configuration fields are set.
func (c *Config) Validate() error {
	var errs []string
	if c.Endpoint == "" {
		errs = append(errs, envEndpoint+" is required")
	}
	if c.APIKey == "" {
		errs = append(errs, envAPIKey+" is required")
	}
	if c.MaxMessageBytes <= 0 {
		errs = append(errs, "max message bytes must be positive")
	}
	if c.ReconnectBackoff <= 0 {
		errs = append(errs, "reconnect backoff must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String returns a log-safe representation with the API key masked.
func (c *Config) String() string {
	masked := c.APIKey
	if len(masked) > 8 {
		masked = masked[:4] + "****" + masked[len(masked)-4:]
	} else if masked != "" {
		masked = "****"
	}
	return fmt.Sprintf("Config{Endpoint=%s, APIKey=%s, MaxMessageBytes=%d}",
		c.Endpoint, masked, c.MaxMessageBytes)
}
