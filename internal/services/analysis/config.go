package analysis

import (
	"fmt"
	"time"

	"resume-checker/internal/common/config"
)

// Config locates the job description analysis endpoint.
type Config struct {
	URL     string
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		URL:     config.DefaultBaseURL + config.DefaultAnalysisPath,
		Timeout: config.GetDuration(config.DefaultServiceTimeout),
	}
}

func FromEndpoint(ep config.EndpointConfig) *Config {
	return &Config{
		URL:     ep.URL(),
		Timeout: config.GetDuration(ep.Timeout),
	}
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("analysis url is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("analysis timeout must not be negative")
	}
	return nil
}
