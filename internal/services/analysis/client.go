// Package analysis scores a resume against a job description.
package analysis

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

const ServiceName = "analysis"

var schema = validation.MustCompile("analysis-response", responseSchema)

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
			FailureCode: errors.ErrCodeAnalysisFailed,
			Fallback:    GenericFailureMessage,
			Schema:      schema,
			Cache:       deps.Cache,
			Logger:      log,
		},
		logger: log,
	}
}

// Analyze sends one request for the resume, job description and role.
// Scores absent from the response are reported as 0.
func (c *Client) Analyze(ctx context.Context, resumeText, jobDescription, role string) (*models.AnalysisResult, error) {
	switch {
	case strings.TrimSpace(resumeText) == "":
		return nil, errors.NewMissingFieldError("resumeText")
	case strings.TrimSpace(jobDescription) == "":
		return nil, errors.NewMissingFieldError("jobDescription")
	case strings.TrimSpace(role) == "":
		return nil, errors.NewMissingFieldError("role")
	}

	c.logger.Info("analyzing resume against job description", map[string]interface{}{
		"role":                 role,
		"jobDescriptionLength": len(jobDescription),
	})

	req := request{ResumeText: resumeText, JobDescription: jobDescription, Role: role}
	key := cache.Key(ServiceName, resumeText, jobDescription, role)

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

	result := &models.AnalysisResult{
		CompatibilityScore: resp.compatibility(),
		ResumeSkills:       models.NewSkillSet(resp.ResumeSkills.lists()),
		JobSkills:          models.NewSkillSet(resp.JobSkills.lists()),
		Recommendation:     resp.Recommendation,
	}
	if resp.ATSScore != nil {
		result.ATSScore = *resp.ATSScore
	}
	return result, nil
}
