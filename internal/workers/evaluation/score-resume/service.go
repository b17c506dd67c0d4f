package scoreresume

import (
	"context"
	"strings"

	"resume-checker/internal/catalog"
	"resume-checker/internal/common/logger"
	"resume-checker/internal/models"
	"resume-checker/internal/results"
	"resume-checker/internal/workflow"
)

// Service runs one workflow session for a job, starting from resume text the
// process already extracted.
type Service struct {
	config *Config
	deps   ServiceDependencies
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Presenter == nil {
		deps.Presenter = results.NewPresenter(nil)
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	return &Service{config: config, deps: deps, logger: deps.Logger}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	session, err := workflow.NewSessionFromExtraction(workflow.Dependencies{
		Predictor: s.deps.Predictor,
		Analyzer:  s.deps.Analyzer,
		Catalog:   s.deps.Catalog,
		Logger:    s.logger,
		Telemetry: s.deps.Telemetry,
	}, models.ExtractionResult{RawText: input.ResumeText, ParsedData: input.ParsedData})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Executing resume evaluation", map[string]interface{}{
		"sessionId": session.ID(),
		"domain":    input.Domain,
		"role":      input.Role,
	})

	if err := session.SelectDomain(input.Domain); err != nil {
		return nil, err
	}
	if err := session.SelectRole(input.Role); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.JobDescription) != "" {
		if err := session.SetJobDescription(input.JobDescription); err != nil {
			return nil, err
		}
	}

	path := selectPath(input)
	if err := session.Submit(ctx, path); err != nil {
		return nil, err
	}

	result, err := s.deps.Presenter.Present(session.Snapshot())
	if err != nil {
		return nil, err
	}

	return &Output{
		Success:   true,
		Message:   "Resume evaluated",
		SessionID: result.SessionID,
		Path:      path,
		Result:    result,
	}, nil
}

func selectPath(input *Input) workflow.Path {
	if input.Path != "" {
		return input.Path
	}
	if strings.TrimSpace(input.JobDescription) != "" {
		return workflow.PathAnalysis
	}
	return workflow.PathPrediction
}
