package config

import "strings"

type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Services      ServicesConfig          `mapstructure:"services"`
	Skills        SkillsConfig            `mapstructure:"skills"`
	Cache         CacheConfig             `mapstructure:"cache"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServicesConfig locates the three backend endpoints. An endpoint without its
// own base_url inherits the shared one.
type ServicesConfig struct {
	BaseURL    string         `mapstructure:"base_url"`
	Extraction EndpointConfig `mapstructure:"extraction"`
	Prediction EndpointConfig `mapstructure:"prediction"`
	Analysis   EndpointConfig `mapstructure:"analysis"`
}

type EndpointConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Path    string `mapstructure:"path"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// URL joins the endpoint base and path.
func (e EndpointConfig) URL() string {
	return strings.TrimRight(e.BaseURL, "/") + "/" + strings.TrimLeft(e.Path, "/")
}

type SkillsConfig struct {
	MatchMode string `mapstructure:"match_mode"` // exact | normalized
}

type CacheConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	TTL     int         `mapstructure:"ttl"` // milliseconds
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	MetricsAddress string `mapstructure:"metrics_address"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}
