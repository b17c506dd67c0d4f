package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-checker/internal/common/config"
	"resume-checker/internal/common/logger"
	"resume-checker/internal/skills"
)

func testConfig() *config.Config {
	ep := func(path string) config.EndpointConfig {
		return config.EndpointConfig{BaseURL: "http://127.0.0.1:5000", Path: path, Timeout: 1000}
	}
	return &config.Config{
		Services: config.ServicesConfig{
			Extraction: ep("/api/extract_resume"),
			Prediction: ep("/predict"),
			Analysis:   ep("/api/analyze"),
		},
		Skills: config.SkillsConfig{MatchMode: "exact"},
	}
}

func TestNewClients(t *testing.T) {
	clients, err := NewClients(context.Background(), testConfig(), logger.NewTestLogger(t))
	require.NoError(t, err)
	defer clients.Close()

	assert.NotNil(t, clients.Extraction)
	assert.NotNil(t, clients.Prediction)
	assert.NotNil(t, clients.Analysis)
	assert.Equal(t, skills.MatchExact, clients.Comparator.Mode())
	assert.False(t, clients.CacheEnabled())

	deps := clients.Dependencies(logger.NewNoOpLogger(), nil)
	assert.Same(t, clients.Catalog, deps.Catalog)
	assert.NotNil(t, clients.Presenter())
}

func TestNewClients_WithCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := testConfig()
	cfg.Cache = config.CacheConfig{Enabled: true, TTL: 60000, Redis: config.RedisConfig{Address: mr.Addr()}}

	clients, err := NewClients(context.Background(), cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer clients.Close()

	assert.True(t, clients.CacheEnabled())
}

func TestNewClients_UnreachableCacheIsSkipped(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Cache = config.CacheConfig{Enabled: true, TTL: 60000, Redis: config.RedisConfig{Address: addr}}

	clients, err := NewClients(context.Background(), cfg, logger.NewTestLogger(t))
	require.NoError(t, err)

	assert.False(t, clients.CacheEnabled())
}

func TestNewClients_InvalidMatchMode(t *testing.T) {
	cfg := testConfig()
	cfg.Skills.MatchMode = "fuzzy"

	_, err := NewClients(context.Background(), cfg, logger.NewTestLogger(t))
	assert.Error(t, err)
}
