// Package app builds the service clients and workflow dependencies from
// configuration for the command line tool and the worker manager.
package app

import (
	"context"
	"fmt"
	"time"

	"resume-checker/internal/catalog"
	"resume-checker/internal/common/cache"
	"resume-checker/internal/common/config"
	"resume-checker/internal/common/logger"
	"resume-checker/internal/common/observability"
	"resume-checker/internal/results"
	"resume-checker/internal/services/analysis"
	"resume-checker/internal/services/extraction"
	"resume-checker/internal/services/prediction"
	"resume-checker/internal/skills"
	"resume-checker/internal/workflow"
)

const cachePingTimeout = 3 * time.Second

type Clients struct {
	Extraction *extraction.Client
	Prediction *prediction.Client
	Analysis   *analysis.Client
	Catalog    *catalog.Catalog
	Comparator *skills.Comparator

	redis *cache.RedisCache
}

// NewClients wires the three service clients. An unreachable cache is logged
// and left out rather than failing startup.
func NewClients(ctx context.Context, cfg *config.Config, log logger.Logger) (*Clients, error) {
	mode, err := skills.ParseMatchMode(cfg.Skills.MatchMode)
	if err != nil {
		return nil, err
	}

	c := &Clients{
		Catalog:    catalog.Default(),
		Comparator: skills.NewComparator(mode),
	}

	var responseCache cache.Cache
	if cfg.Cache.Enabled {
		redisCache := cache.NewRedis(cfg.Cache.Redis, config.GetDuration(cfg.Cache.TTL))
		pingCtx, cancel := context.WithTimeout(ctx, cachePingTimeout)
		defer cancel()
		if err := redisCache.Ping(pingCtx); err != nil {
			log.Warn("response cache unavailable, continuing without it", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
				"error":   err.Error(),
			})
			_ = redisCache.Close()
		} else {
			c.redis = redisCache
			responseCache = redisCache
			log.Info("response cache connected", map[string]interface{}{"address": cfg.Cache.Redis.Address})
		}
	}

	extractionCfg := extraction.FromEndpoint(cfg.Services.Extraction)
	predictionCfg := prediction.FromEndpoint(cfg.Services.Prediction)
	analysisCfg := analysis.FromEndpoint(cfg.Services.Analysis)
	for name, v := range map[string]interface{ Validate() error }{
		extraction.ServiceName: extractionCfg,
		prediction.ServiceName: predictionCfg,
		analysis.ServiceName:   analysisCfg,
	} {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%s client: %w", name, err)
		}
	}

	c.Extraction = extraction.NewClient(extractionCfg, extraction.ClientDependencies{Cache: responseCache, Logger: log})
	c.Prediction = prediction.NewClient(predictionCfg, prediction.ClientDependencies{Cache: responseCache, Logger: log})
	c.Analysis = analysis.NewClient(analysisCfg, analysis.ClientDependencies{Cache: responseCache, Logger: log})
	return c, nil
}

// CacheEnabled reports whether responses are cached in Redis.
func (c *Clients) CacheEnabled() bool {
	return c.redis != nil
}

func (c *Clients) Dependencies(log logger.Logger, telemetry *observability.Observability) workflow.Dependencies {
	return workflow.Dependencies{
		Extractor: c.Extraction,
		Predictor: c.Prediction,
		Analyzer:  c.Analysis,
		Catalog:   c.Catalog,
		Logger:    log,
		Telemetry: telemetry,
	}
}

func (c *Clients) Presenter() *results.Presenter {
	return results.NewPresenter(c.Comparator)
}

func (c *Clients) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
