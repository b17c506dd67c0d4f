// Package workflow drives one resume evaluation run from file selection to a
// scored result.
//
// A Session is an explicit state machine. Every operation checks the current
// state under the session lock, and client calls run with the lock released
// while the session sits in Extracting or Submitting. Those two states are the
// guard that keeps at most one request in flight per session.
package workflow

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"resume-checker/internal/catalog"
	"resume-checker/internal/common/errors"
	"resume-checker/internal/common/logger"
	"resume-checker/internal/common/metrics"
	"resume-checker/internal/common/observability"
	"resume-checker/internal/models"
	"resume-checker/internal/upload"
)

// ErrSubmitInProgress is returned by Submit while an earlier Submit is still
// waiting for its response. The session is left untouched.
var ErrSubmitInProgress = stderrors.New("workflow: submit already in progress")

type Extractor interface {
	Extract(ctx context.Context, f upload.File) (*models.ExtractionResult, error)
}

type Predictor interface {
	Predict(ctx context.Context, resumeText, role string) (*models.PredictionResult, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription, role string) (*models.AnalysisResult, error)
}

// Dependencies are shared by every session; only Catalog is required.
type Dependencies struct {
	Extractor Extractor
	Predictor Predictor
	Analyzer  Analyzer
	Catalog   *catalog.Catalog
	Logger    logger.Logger
	Telemetry *observability.Observability
}

// Snapshot is a copy of the session taken under its lock.
type Snapshot struct {
	ID             string                   `json:"id"`
	State          State                    `json:"-"`
	Status         string                   `json:"status"`
	Path           Path                     `json:"path,omitempty"`
	FileName       string                   `json:"fileName,omitempty"`
	ResumeText     string                   `json:"resumeText,omitempty"`
	ParsedData     models.ParsedFields      `json:"parsedData"`
	Domain         string                   `json:"domain,omitempty"`
	Role           string                   `json:"role,omitempty"`
	JobDescription string                   `json:"jobDescription,omitempty"`
	Prediction     *models.PredictionResult `json:"prediction,omitempty"`
	Analysis       *models.AnalysisResult   `json:"analysis,omitempty"`
	Err            *errors.StandardError    `json:"error,omitempty"`
	// FailedStep is the operation that moved the session to Error.
	FailedStep string `json:"failedStep,omitempty"`
}

type Session struct {
	mu   sync.Mutex
	deps Dependencies
	log  logger.Logger

	id    string
	state State

	file     *upload.File
	fileName string

	resumeText     string
	parsed         models.ParsedFields
	domain         string
	role           string
	jobDescription string

	path       Path
	prediction *models.PredictionResult
	analysis   *models.AnalysisResult

	err        *errors.StandardError
	failedStep string
}

// NewSession opens a run in Idle.
func NewSession(deps Dependencies) *Session {
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	s := &Session{deps: deps}
	s.begin()
	return s
}

// NewSessionFromExtraction opens a run in Extracted for resume text that was
// produced by an earlier, separate extraction.
func NewSessionFromExtraction(deps Dependencies, result models.ExtractionResult) (*Session, error) {
	if strings.TrimSpace(result.RawText) == "" {
		return nil, errors.NewMissingFieldError("resumeText")
	}
	s := NewSession(deps)
	s.resumeText = result.RawText
	s.parsed = result.ParsedData.Clone()
	s.transition(Extracted)
	return s, nil
}

// begin clears every run field. Callers hold mu or own s exclusively.
func (s *Session) begin() {
	s.id = uuid.NewString()
	s.state = Idle
	s.file = nil
	s.fileName = ""
	s.resumeText = ""
	s.parsed = models.ParsedFields{}
	s.domain = ""
	s.role = ""
	s.jobDescription = ""
	s.path = ""
	s.prediction = nil
	s.analysis = nil
	s.err = nil
	s.failedStep = ""
	s.log = s.deps.Logger.WithFields(map[string]interface{}{"sessionId": s.id})
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SelectFile stores f if the upload gate accepts it. A rejected file leaves
// the session unchanged.
func (s *Session) SelectFile(f upload.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(opSelectFile); err != nil {
		return err
	}
	decision := upload.Validate(f)
	if !decision.Accepted {
		return s.reject(opSelectFile, decision.Err())
	}

	s.file = &f
	s.fileName = f.Name
	s.transition(FileSelected)
	return nil
}

// StartExtraction sends the selected file to the extractor. The file is
// dropped once extraction succeeds.
func (s *Session) StartExtraction(ctx context.Context) error {
	s.mu.Lock()
	if err := s.check(opStartExtraction); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.deps.Extractor == nil {
		s.mu.Unlock()
		return fmt.Errorf("workflow: no extractor configured")
	}
	// An empty file stays selected so the user can pick another one.
	if len(s.file.Content) == 0 {
		err := s.reject(opStartExtraction, errors.NewMissingFieldError("resume"))
		s.mu.Unlock()
		return err
	}
	file, id := *s.file, s.id
	s.transition(Extracting)
	s.mu.Unlock()

	ctx, span := s.deps.Telemetry.StartSpan(ctx, "workflow.extract",
		attribute.String("session.id", id),
		attribute.Int64("file.size", file.Size),
	)
	defer span.End()

	result, err := s.deps.Extractor.Extract(ctx, file)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return s.fail(ctx, opStartExtraction, err)
	}

	s.file = nil
	s.resumeText = result.RawText
	s.parsed = result.ParsedData.Clone()
	s.transition(Extracted)
	return nil
}

// SelectDomain sets the domain and clears any role chosen for the previous one.
func (s *Session) SelectDomain(domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(opSelectDomain); err != nil {
		return err
	}
	if !s.deps.Catalog.HasDomain(domain) {
		return s.reject(opSelectDomain, errors.NewUnknownDomainError(domain))
	}

	s.domain = domain
	s.role = ""
	s.transition(DomainSelected)
	return nil
}

// SelectRole accepts only roles the catalog offers for the selected domain.
func (s *Session) SelectRole(role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(opSelectRole); err != nil {
		return err
	}
	if !s.deps.Catalog.IsValidRole(s.domain, role) {
		return s.reject(opSelectRole, errors.NewInvalidRoleError(s.domain, role))
	}

	s.role = role
	s.transition(RoleSelected)
	return nil
}

// SetJobDescription stores the text used by the analysis path.
func (s *Session) SetJobDescription(jd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(opSetJobDescription); err != nil {
		return err
	}
	s.jobDescription = jd
	return nil
}

// Submit scores the resume on the given path. A second call while the first
// is pending returns ErrSubmitInProgress without issuing a request.
func (s *Session) Submit(ctx context.Context, path Path) error {
	s.mu.Lock()
	if s.state == Submitting {
		s.mu.Unlock()
		s.log.Debug("submit ignored, request in flight", nil)
		return ErrSubmitInProgress
	}
	if err := s.check(opSubmit); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.precheckSubmit(path); err != nil {
		s.mu.Unlock()
		return err
	}

	id, resumeText, domain, role, jd := s.id, s.resumeText, s.domain, s.role, s.jobDescription
	s.path = path
	s.transition(Submitting)
	s.mu.Unlock()

	ctx, span := s.deps.Telemetry.StartSpan(ctx, "workflow.submit",
		attribute.String("session.id", id),
		attribute.String("workflow.path", string(path)),
		attribute.String("workflow.role", role),
	)
	defer span.End()

	var (
		prediction *models.PredictionResult
		analysis   *models.AnalysisResult
		err        error
	)
	switch path {
	case PathPrediction:
		prediction, err = s.deps.Predictor.Predict(ctx, resumeText, role)
	case PathAnalysis:
		analysis, err = s.deps.Analyzer.Analyze(ctx, resumeText, jd, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return s.fail(ctx, opSubmit, err)
	}

	if prediction != nil {
		prediction.SuggestedRoles = s.filterSuggestions(domain, prediction.SuggestedRoles)
	}
	s.prediction = prediction
	s.analysis = analysis
	s.transition(Scored)
	s.deps.Telemetry.RecordRun(ctx, string(path), Scored.String())
	return nil
}

func (s *Session) precheckSubmit(path Path) error {
	if !path.Valid() {
		return s.reject(opSubmit, errors.NewMissingFieldError("path"))
	}
	switch path {
	case PathPrediction:
		if s.deps.Predictor == nil {
			return fmt.Errorf("workflow: no predictor configured")
		}
	case PathAnalysis:
		if s.deps.Analyzer == nil {
			return fmt.Errorf("workflow: no analyzer configured")
		}
		if strings.TrimSpace(s.jobDescription) == "" {
			return s.reject(opSubmit, errors.NewMissingFieldError("jobDescription"))
		}
	}
	if strings.TrimSpace(s.resumeText) == "" {
		return s.reject(opSubmit, errors.NewMissingFieldError("resumeText"))
	}
	return nil
}

// filterSuggestions discards predicted roles the domain does not offer.
func (s *Session) filterSuggestions(domain string, in []models.RoleConfidence) []models.RoleConfidence {
	out := make([]models.RoleConfidence, 0, len(in))
	for _, rc := range in {
		if s.deps.Catalog.IsValidRole(domain, rc.Role) {
			out = append(out, rc)
		}
	}
	if dropped := len(in) - len(out); dropped > 0 {
		s.log.Debug("discarded suggestions outside domain", map[string]interface{}{
			"domain":  domain,
			"dropped": dropped,
		})
	}
	return out
}

// Reset ends the current run and starts a new one in Idle with a new id.
// It is refused while a request is in flight.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsBusy() {
		return s.reject(opReset, errors.NewInvalidTransitionError(opReset, s.state.String()))
	}
	previous := s.id
	s.begin()
	s.log.Info("workflow run reset", map[string]interface{}{"previousSessionId": previous})
	return nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:             s.id,
		State:          s.state,
		Status:         s.state.String(),
		Path:           s.path,
		FileName:       s.fileName,
		ResumeText:     s.resumeText,
		ParsedData:     s.parsed.Clone(),
		Domain:         s.domain,
		Role:           s.role,
		JobDescription: s.jobDescription,
		Err:            s.err,
		FailedStep:     s.failedStep,
	}
	if s.prediction != nil {
		p := *s.prediction
		p.SuggestedRoles = append([]models.RoleConfidence{}, s.prediction.SuggestedRoles...)
		snap.Prediction = &p
	}
	if s.analysis != nil {
		a := s.analysis.Clone()
		snap.Analysis = &a
	}
	return snap
}

// ==========================
// Transitions
// ==========================

// check rejects op when the current state does not allow it. Callers hold mu.
func (s *Session) check(op string) error {
	if allowed(op, s.state) {
		return nil
	}
	return s.reject(op, errors.NewInvalidTransitionError(op, s.state.String()))
}

func (s *Session) reject(op string, err error) error {
	code := "UNKNOWN"
	if stdErr, ok := errors.As(err); ok {
		code = string(stdErr.Code)
	}
	metrics.WorkflowRejections.WithLabelValues(op, code).Inc()
	s.log.Warn("workflow operation rejected", map[string]interface{}{
		"operation": op,
		"state":     s.state.String(),
		"errorCode": code,
		"error":     err.Error(),
	})
	return err
}

// fail moves a busy session to Error, keeping everything gathered so far.
func (s *Session) fail(ctx context.Context, op string, err error) error {
	stdErr := errors.Normalize(err)
	s.err = stdErr
	s.failedStep = op
	s.transition(Error)
	s.deps.Telemetry.RecordRun(ctx, string(s.path), Error.String())
	s.log.Error("workflow step failed", map[string]interface{}{
		"operation": op,
		"errorCode": string(stdErr.Code),
		"kind":      string(stdErr.Kind),
		"message":   stdErr.Message,
	})
	return stdErr
}

func (s *Session) transition(to State) {
	from := s.state
	s.state = to
	metrics.WorkflowTransitions.WithLabelValues(from.String(), to.String()).Inc()
	s.log.Info("workflow transition", map[string]interface{}{
		"from": from.String(),
		"to":   to.String(),
	})
}
