package cli

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the scoring server the CLI talks to and how it prints results
type Config struct {
	ServerURL string `env:"BOWLSCORE_SERVER"  envDefault:"http://localhost:8080"`
	Output    string `env:"BOWLSCORE_OUTPUT"  envDefault:"text"`
	Verbose   bool   `env:"BOWLSCORE_VERBOSE" envDefault:"false"`
}

// DefaultConfig reads the environment, falling back to the built-in defaults
// when a variable cannot be parsed
func DefaultConfig() *Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return &Config{ServerURL: "http://localhost:8080", Output: FormatText}
	}
	return &cfg
}

// Validate checks the settings once flags have been applied
func (c *Config) Validate() error {
	switch c.Output {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("invalid output format %q: must be %q or %q", c.Output, FormatText, FormatJSON)
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", c.ServerURL)
	}
	return nil
}
