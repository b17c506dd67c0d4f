// Package extraction sends a resume file to the extraction service and
// returns its raw text and parsed fields.
package extraction

import (
	"context"
	"encoding/json"

	"resume-checker/internal/common/cache"
	"resume-checker/internal/common/errors"
	commonhttp "resume-checker/internal/common/http"
	"resume-checker/internal/common/logger"
	"resume-checker/internal/common/validation"
	"resume-checker/internal/models"
	"resume-checker/internal/services"
	"resume-checker/internal/upload"
)

const ServiceName = "extraction"

var schema = validation.MustCompile("extraction-response", responseSchema)

type Client struct {
	config   *Config
	http     *commonhttp.Client
	endpoint *services.Endpoint
	logger   logger.Logger
}

// ClientDependencies are optional collaborators; nil fields get defaults.
type ClientDependencies struct {
	HTTP   *commonhttp.Client
	Cache  cache.Cache
	Logger logger.Logger
}

func NewClient(cfg *Config, deps ClientDependencies) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if deps.HTTP == nil {
		deps.HTTP = commonhttp.NewClient(cfg.Timeout)
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	log := deps.Logger.WithFields(map[string]interface{}{"service": ServiceName})

	return &Client{
		config: cfg,
		http:   deps.HTTP,
		endpoint: &services.Endpoint{
			Service:     ServiceName,
			URL:         cfg.URL,
			Timeout:     cfg.Timeout,
			FailureCode: errors.ErrCodeExtractionFailed,
			Fallback:    GenericFailureMessage,
			Schema:      schema,
			Cache:       deps.Cache,
			Logger:      log,
		},
		logger: log,
	}
}

// Extract uploads f as a single multipart request. It does not retry.
// Identical file contents are served from the cache when one is configured.
func (c *Client) Extract(ctx context.Context, f upload.File) (*models.ExtractionResult, error) {
	if len(f.Content) == 0 {
		return nil, errors.NewMissingFieldError("resume")
	}

	c.logger.Info("extracting resume", map[string]interface{}{
		"fileName": f.Name,
		"size":     f.Size,
		"mimeType": f.MIMEType,
	})

	key := cache.Key(ServiceName, f.MIMEType, string(f.Content))
	body, err := c.endpoint.CallCached(ctx, key, func(ctx context.Context) (*commonhttp.Response, error) {
		return c.http.PostMultipart(ctx, c.config.URL, FormField, f.Name, upload.NormalizeMIME(f.MIMEType), f.Content)
	})
	if err != nil {
		return nil, err
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewMalformedResponseError(ServiceName, err.Error())
	}

	return &models.ExtractionResult{
		RawText:    resp.ExtractedText,
		ParsedData: resp.ParsedData,
	}, nil
}
