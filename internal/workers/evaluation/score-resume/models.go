package scoreresume

import (
	"resume-checker/internal/catalog"
	"resume-checker/internal/common/logger"
	"resume-checker/internal/common/observability"
	"resume-checker/internal/models"
	"resume-checker/internal/results"
	"resume-checker/internal/workflow"
)

type Input struct {
	ResumeText     string              `json:"resumeText"`
	ParsedData     models.ParsedFields `json:"parsedData,omitempty"`
	Domain         string              `json:"domain"`
	Role           string              `json:"role"`
	JobDescription string              `json:"jobDescription,omitempty"`
	// Path is optional; a job description selects the analysis path.
	Path workflow.Path `json:"path,omitempty"`
}

type Output struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	SessionID string          `json:"sessionId,omitempty"`
	Path      workflow.Path   `json:"path,omitempty"`
	Result    *results.Result `json:"result,omitempty"`
}

type ServiceDependencies struct {
	Predictor workflow.Predictor
	Analyzer  workflow.Analyzer
	Catalog   *catalog.Catalog
	Presenter *results.Presenter
	Logger    logger.Logger
	Telemetry *observability.Observability
}
