// Package prediction asks the role prediction service how well a resume
// fits a role and which roles fit better.
package prediction

import (
	"context"
	"encoding/json"
	"strings"

	"resume-checker/internal/common/cache"
	"resume-checker/internal/common/errors"
	commonhttp "resume-checker/internal/common/http"
	"resume-checker/internal/common/logger"
	"resume-checker/internal/common/validation"
	"resume-checker/internal/models"
	"resume-checker/internal/services"
)

const ServiceName = "prediction"

var schema = validation.MustCompile("prediction-response", responseSchema)

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
			FailureCode: errors.ErrCodePredictionFailed,
			Fallback:    GenericFailureMessage,
			Schema:      schema,
			Cache:       deps.Cache,
			Logger:      log,
		},
		logger: log,
	}
}

// Predict requires both arguments; an empty one fails before any request.
func (c *Client) Predict(ctx context.Context, resumeText, role string) (*models.PredictionResult, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, errors.NewMissingFieldError("resume_text")
	}
	if strings.TrimSpace(role) == "" {
		return nil, errors.NewMissingFieldError("input_role")
	}

	c.logger.Info("predicting role fit", map[string]interface{}{"role": role})

	req := request{ResumeText: resumeText, InputRole: role}
	key := cache.Key(ServiceName, resumeText, role)

	body, err := c.endpoint.CallCached(ctx, key, func(ctx context.Context) (*commonhttp.Response, error) {
		return c.http.PostJSON(ctx, c.config.URL, req)
	})
	if err != nil {
		return nil, err
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewMalformedResponseError(ServiceName, err.Error())
	}

	suggested := resp.SuggestedRoles
	if suggested == nil {
		suggested = []models.RoleConfidence{}
	}
	return &models.PredictionResult{
		GivenRole:      resp.GivenRole,
		Confidence:     resp.Confidence,
		SuggestedRoles: suggested,
	}, nil
}
