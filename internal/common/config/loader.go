package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL        = "http://127.0.0.1:5000"
	DefaultExtractionPath = "/api/extract_resume"
	DefaultPredictionPath = "/predict"
	DefaultAnalysisPath   = "/api/analyze"
	DefaultServiceTimeout = 30000
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top
// and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile reads a single config file.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	// SERVICES_BASE_URL overrides services.base_url.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every scalar key so AutomaticEnv can override keys
// that are absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "resume-checker")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("services.base_url", DefaultBaseURL)
	v.SetDefault("services.extraction.base_url", "")
	v.SetDefault("services.extraction.path", DefaultExtractionPath)
	v.SetDefault("services.extraction.timeout", DefaultServiceTimeout)
	v.SetDefault("services.prediction.base_url", "")
	v.SetDefault("services.prediction.path", DefaultPredictionPath)
	v.SetDefault("services.prediction.timeout", DefaultServiceTimeout)
	v.SetDefault("services.analysis.base_url", "")
	v.SetDefault("services.analysis.path", DefaultAnalysisPath)
	v.SetDefault("services.analysis.timeout", DefaultServiceTimeout)

	v.SetDefault("skills.match_mode", "normalized")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", 600000)
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("camunda.broker_address", "")
	v.SetDefault("camunda.max_jobs_active", 10)
	v.SetDefault("camunda.timeout", 30000)
	v.SetDefault("camunda.request_timeout", 30000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("observability.service_name", "resume-checker")
	v.SetDefault("observability.metrics_address", ":9090")
	v.SetDefault("observability.jaeger_endpoint", "")
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

func overrideEmptyConfig(cfg *Config) {
	if val := os.Getenv("RESUME_API_BASE_URL"); val != "" {
		cfg.Services.BaseURL = val
		for _, ep := range []*EndpointConfig{&cfg.Services.Extraction, &cfg.Services.Prediction, &cfg.Services.Analysis} {
			if ep.BaseURL == "" {
				ep.BaseURL = val
			}
		}
	}
	if cfg.Cache.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Cache.Redis.Password = val
		}
	}
	if cfg.Camunda.BrokerAddress == "" {
		if val := os.Getenv("ZEEBE_ADDRESS"); val != "" {
			cfg.Camunda.BrokerAddress = val
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Services.BaseURL == "" {
		cfg.Services.BaseURL = DefaultBaseURL
	}
	endpoints := []struct {
		ep   *EndpointConfig
		path string
	}{
		{&cfg.Services.Extraction, DefaultExtractionPath},
		{&cfg.Services.Prediction, DefaultPredictionPath},
		{&cfg.Services.Analysis, DefaultAnalysisPath},
	}
	for _, e := range endpoints {
		if e.ep.BaseURL == "" {
			e.ep.BaseURL = cfg.Services.BaseURL
		}
		if e.ep.Path == "" {
			e.ep.Path = e.path
		}
		if e.ep.Timeout == 0 {
			e.ep.Timeout = DefaultServiceTimeout
		}
	}

	if cfg.Skills.MatchMode == "" {
		cfg.Skills.MatchMode = "normalized"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Skills.MatchMode {
	case "exact", "normalized":
	default:
		return fmt.Errorf("skills.match_mode must be exact or normalized, got %q", cfg.Skills.MatchMode)
	}

	for name, ep := range map[string]EndpointConfig{
		"extraction": cfg.Services.Extraction,
		"prediction": cfg.Services.Prediction,
		"analysis":   cfg.Services.Analysis,
	} {
		if !strings.HasPrefix(ep.BaseURL, "http://") && !strings.HasPrefix(ep.BaseURL, "https://") {
			return fmt.Errorf("services.%s.base_url must be an http(s) URL", name)
		}
		if ep.Timeout < 0 {
			return fmt.Errorf("services.%s.timeout must not be negative", name)
		}
	}

	if cfg.Cache.Enabled && cfg.Cache.Redis.Address == "" {
		return fmt.Errorf("cache.redis.address is required when cache is enabled")
	}

	return nil
}

// ValidateForWorkers checks the settings only the job worker needs.
func ValidateForWorkers(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
