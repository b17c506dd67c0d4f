package extraction

import (
	"fmt"
	"time"

	"resume-checker/internal/common/config"
)

// Config locates the resume extraction endpoint.
type Config struct {
	URL     string
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		URL:     config.DefaultBaseURL + config.DefaultExtractionPath,
		Timeout: config.GetDuration(config.DefaultServiceTimeout),
	}
}

// FromEndpoint converts the loaded endpoint settings.
func FromEndpoint(ep config.EndpointConfig) *Config {
	return &Config{
		URL:     ep.URL(),
		Timeout: config.GetDuration(ep.Timeout),
	}
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("extraction url is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("extraction timeout must not be negative")
	}
	return nil
}
