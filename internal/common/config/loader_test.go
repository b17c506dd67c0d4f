package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: resume-checker\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.Services.BaseURL)
	assert.Equal(t, DefaultBaseURL+"/api/extract_resume", cfg.Services.Extraction.URL())
	assert.Equal(t, DefaultBaseURL+"/predict", cfg.Services.Prediction.URL())
	assert.Equal(t, DefaultBaseURL+"/api/analyze", cfg.Services.Analysis.URL())
	assert.Equal(t, DefaultServiceTimeout, cfg.Services.Analysis.Timeout)
	assert.Equal(t, "normalized", cfg.Skills.MatchMode)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
}

func TestLoadFromFile_EndpointInheritsSharedBase(t *testing.T) {
	path := writeConfig(t, `
services:
  base_url: http://backend:5000/
  prediction:
    base_url: http://predictor:8000
    timeout: 5000
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:5000/api/extract_resume", cfg.Services.Extraction.URL())
	assert.Equal(t, "http://predictor:8000/predict", cfg.Services.Prediction.URL())
	assert.Equal(t, 5*time.Second, GetDuration(cfg.Services.Prediction.Timeout))
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("SKILLS_MATCH_MODE", "exact")
	t.Setenv("SERVICES_ANALYSIS_TIMEOUT", "1500")
	t.Setenv("ANALYSIS_HOST", "http://analysis.internal")

	path := writeConfig(t, `
services:
  analysis:
    base_url: ${ANALYSIS_HOST}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "exact", cfg.Skills.MatchMode)
	assert.Equal(t, 1500, cfg.Services.Analysis.Timeout)
	assert.Equal(t, "http://analysis.internal/api/analyze", cfg.Services.Analysis.URL())
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown match mode", "skills:\n  match_mode: fuzzy\n"},
		{"non http base url", "services:\n  base_url: ftp://backend\n"},
		{"cache without redis", "cache:\n  enabled: true\n  redis:\n    address: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"score-resume": {Enabled: false, MaxJobsActive: 2},
	}}
	applyDefaults(cfg)

	w := GetWorkerConfig(cfg, "score-resume")
	assert.Equal(t, 2, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)
	assert.False(t, IsWorkerEnabled(cfg, "score-resume"))

	fallback := GetWorkerConfig(cfg, "unknown")
	assert.True(t, fallback.Enabled)
	assert.True(t, IsWorkerEnabled(cfg, "unknown"))
}

func TestValidateForWorkers(t *testing.T) {
	assert.Error(t, ValidateForWorkers(&Config{}))
	assert.NoError(t, ValidateForWorkers(&Config{Camunda: CamundaConfig{BrokerAddress: "localhost:26500"}}))
}
