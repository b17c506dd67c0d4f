package scoreresume

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resume-checker/internal/common/camunda"
	"resume-checker/internal/common/config"
	"resume-checker/internal/common/errors"
	"resume-checker/internal/common/logger"
	"resume-checker/internal/common/metrics"
	"resume-checker/internal/workflow"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType   = "resume.score"
	WorkerName = "score-resume"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	camunda      *camunda.Client
	service      *Service
	errorHandler *errors.ErrorHandler
	jobWorker    worker.JobWorker
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Camunda      *camunda.Client
	CustomConfig *Config
	Logger       logger.Logger
	Dependencies ServiceDependencies
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}

	var loggerInstance logger.Logger
	if opts.Logger != nil {
		loggerInstance = opts.Logger
	} else {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"worker": TaskType})

	deps := opts.Dependencies
	deps.Logger = loggerInstance

	return &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		camunda:      opts.Camunda,
		service:      NewService(deps, workerConfig),
		errorHandler: errors.NewErrorHandler(loggerInstance),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing resume evaluation", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	if !h.config.Enabled {
		h.completeJob(ctx, client, job, &Output{Success: false, Message: "Resume evaluation disabled"})
		return
	}

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	h.completeJob(ctx, client, job, output)
	h.service.deps.Telemetry.RecordJobProcessed(ctx, "completed")
	h.service.deps.Telemetry.RecordJobDuration(ctx, time.Since(startTime), "completed")
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// Execute runs the evaluation without a Zeebe job around it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, &errors.StandardError{
			Code:      errors.ErrCodeMissingRequiredField,
			Kind:      errors.KindValidation,
			Message:   "Failed to parse job variables",
			Details:   err.Error(),
			Timestamp: time.Now().UTC(),
		}
	}
	return parseVariables(variables)
}

func parseVariables(variables map[string]interface{}) (*Input, error) {
	result := GetInputSchema().ValidateInput(variables)
	if !result.Valid {
		return nil, &errors.StandardError{
			Code:      errors.ErrCodeMissingRequiredField,
			Kind:      errors.KindValidation,
			Message:   "Input validation failed",
			Details:   result.Summary(),
			Timestamp: time.Now().UTC(),
		}
	}

	input := &Input{
		ResumeText: variables["resumeText"].(string),
		Domain:     variables["domain"].(string),
		Role:       variables["role"].(string),
	}
	if jd, ok := variables["jobDescription"].(string); ok {
		input.JobDescription = jd
	}
	if path, ok := variables["path"].(string); ok {
		input.Path = workflow.Path(path)
	}
	if parsed, ok := variables["parsedData"].(map[string]interface{}); ok {
		raw, err := json.Marshal(parsed)
		if err == nil {
			_ = json.Unmarshal(raw, &input.ParsedData)
		}
	}
	return input, nil
}

func outputVariables(output *Output) map[string]interface{} {
	variables := map[string]interface{}{
		"resumeScored":  output.Success,
		"resumeMessage": output.Message,
	}
	if output.SessionID != "" {
		variables["evaluationSessionId"] = output.SessionID
	}
	if output.Path != "" {
		variables["evaluationPath"] = string(output.Path)
	}
	if r := output.Result; r != nil {
		variables["evaluationResult"] = r
		if r.Analysis != nil {
			variables["atsScore"] = r.Analysis.ATSScore.Value
			variables["compatibilityScore"] = r.Analysis.CompatibilityScore.Value
		}
		if r.Prediction != nil {
			variables["roleConfidence"] = r.Prediction.Confidence.Value
		}
	}
	return variables
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(outputVariables(output))
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("Successfully completed resume evaluation", map[string]interface{}{
		"jobKey":    job.GetKey(),
		"success":   output.Success,
		"sessionId": output.SessionID,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, startTime time.Time) {
	code := extractErrorCode(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	h.service.deps.Telemetry.RecordJobProcessed(ctx, "failed")
	h.service.deps.Telemetry.RecordJobDuration(ctx, time.Since(startTime), "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Register() error {
	if h.camunda == nil {
		return fmt.Errorf("camunda client is required to register %s", TaskType)
	}

	h.jobWorker = camunda.StartWorker(h.camunda.GetClient(), TaskType, config.WorkerConfig{
		Enabled:       h.config.Enabled,
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       int(h.config.Timeout.Milliseconds()),
		MaxRetries:    h.config.MaxRetries,
	}, h.Handle, h.logger)
	return nil
}

func (h *Handler) Close() {
	if h.jobWorker != nil {
		h.logger.Info("Shutting down worker gracefully", nil)
		h.jobWorker.Close()
		h.jobWorker.AwaitClose()
		h.jobWorker = nil
	}
}

func (h *Handler) HealthCheck(ctx context.Context) error {
	if h.camunda == nil {
		return fmt.Errorf("camunda client not configured")
	}
	if err := h.camunda.HealthCheck(ctx); err != nil {
		return fmt.Errorf("camunda health check failed: %w", err)
	}
	return nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func extractErrorCode(err error) string {
	if stdErr, ok := errors.As(err); ok {
		return string(stdErr.Code)
	}
	return string(errors.ErrCodeInternal)
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		if workerCfg, exists := appConfig.Workers[WorkerName]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = config.GetDuration(workerCfg.Timeout)
			}
			if workerCfg.MaxRetries > 0 {
				cfg.MaxRetries = workerCfg.MaxRetries
			}
		}
	}

	return cfg
}
