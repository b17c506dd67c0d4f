// Package errors provides the structured error taxonomy shared by the
// workflow session, the service clients and the job worker.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Kind groups error codes into the three families callers branch on.
type Kind string

const (
	KindValidation Kind = "validation"
	KindTransport  Kind = "transport"
	KindService    Kind = "service"
)

// Validation errors: raised locally, no request is issued.
const (
	ErrCodeFileTooLarge         ErrorCode = "FILE_TOO_LARGE"
	ErrCodeUnsupportedFileType  ErrorCode = "UNSUPPORTED_FILE_TYPE"
	ErrCodeMissingRequiredField ErrorCode = "MISSING_REQUIRED_FIELD"
	ErrCodeUnknownDomain        ErrorCode = "UNKNOWN_DOMAIN"
	ErrCodeInvalidRole          ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidTransition    ErrorCode = "INVALID_TRANSITION"
)

// Remote errors: raised by the extraction, prediction and analysis clients.
const (
	ErrCodeExtractionFailed  ErrorCode = "EXTRACTION_FAILED"
	ErrCodePredictionFailed  ErrorCode = "PREDICTION_FAILED"
	ErrCodeAnalysisFailed    ErrorCode = "ANALYSIS_FAILED"
	ErrCodeNetworkTimeout    ErrorCode = "NETWORK_TIMEOUT"
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Kind      Kind                   `json:"kind"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Service   string                 `json:"service,omitempty"`
	Status    int                    `json:"status,omitempty"`
	Retryable bool                   `json:"retryable"`
	Timeout   bool                   `json:"timeout,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata sets a metadata entry and returns the receiver.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newValidation(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Kind:      KindValidation,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileTooLargeError rejects a resume above the upload limit.
func NewFileTooLargeError(size, limit int64) *StandardError {
	return newValidation(ErrCodeFileTooLarge,
		fmt.Sprintf("File size exceeds %d MB", limit>>20),
		fmt.Sprintf("size: %d, limit: %d", size, limit)).
		WithMetadata("size", size)
}

// NewUnsupportedTypeError rejects a resume whose MIME type is neither PDF nor DOCX.
func NewUnsupportedTypeError(mimeType string) *StandardError {
	return newValidation(ErrCodeUnsupportedFileType,
		"Only PDF and DOCX files are allowed",
		fmt.Sprintf("mimeType: %s", mimeType))
}

func NewMissingFieldError(field string) *StandardError {
	return newValidation(ErrCodeMissingRequiredField,
		fmt.Sprintf("%s is required", field),
		fmt.Sprintf("field: %s", field)).
		WithMetadata("field", field)
}

func NewUnknownDomainError(domain string) *StandardError {
	return newValidation(ErrCodeUnknownDomain,
		"Unknown domain",
		fmt.Sprintf("domain: %s", domain))
}

func NewInvalidRoleError(domain, role string) *StandardError {
	return newValidation(ErrCodeInvalidRole,
		"Role is not offered for the selected domain",
		fmt.Sprintf("domain: %s, role: %s", domain, role))
}

// NewInvalidTransitionError reports an operation issued from a state that does not allow it.
func NewInvalidTransitionError(operation, state string) *StandardError {
	return newValidation(ErrCodeInvalidTransition,
		fmt.Sprintf("%s is not allowed in state %s", operation, state),
		fmt.Sprintf("operation: %s, state: %s", operation, state))
}

// NewTransportError wraps a connection failure reaching service. The code
// identifies which step failed.
func NewTransportError(service string, code ErrorCode, err error) *StandardError {
	return &StandardError{
		Code:      code,
		Kind:      KindTransport,
		Message:   err.Error(),
		Details:   fmt.Sprintf("service: %s", service),
		Service:   service,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewTimeoutError reports a request to service that exceeded its deadline.
func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetworkTimeout,
		Kind:      KindTransport,
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Service:   service,
		Retryable: true,
		Timeout:   true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewServiceError reports a non-2xx response. The server supplied message
// wins; fallback is used when it is empty.
func NewServiceError(code ErrorCode, service string, status int, message, fallback string) *StandardError {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	return &StandardError{
		Code:      code,
		Kind:      KindService,
		Message:   message,
		Details:   fmt.Sprintf("service: %s, status: %d", service, status),
		Service:   service,
		Status:    status,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedResponseError reports a 2xx body that breaks the response contract.
func NewMalformedResponseError(service, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Kind:      KindService,
		Message:   fmt.Sprintf("Unexpected response from %s", service),
		Details:   details,
		Service:   service,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// FromTransport classifies an error returned by the HTTP layer: deadline
// expiry, cancellation and net timeouts become NETWORK_TIMEOUT, anything else
// a transport error carrying code.
func FromTransport(service string, code ErrorCode, err error) *StandardError {
	if IsTimeout(err) {
		return NewTimeoutError(service, err)
	}
	return NewTransportError(service, code, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a job failing with err.
func GetRetryCount(err *StandardError) int {
	if err == nil || !err.Retryable {
		return 0
	}
	switch {
	case err.Code == ErrCodeNetworkTimeout:
		return 1
	case err.Kind == KindTransport:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"errorKind":         string(stdErr.Kind),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	if stdErr.Service != "" {
		vars["service"] = stdErr.Service
	}
	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        GetRetryCount(stdErr),
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// As extracts the StandardError from err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not a StandardError.
func KindOf(err error) Kind {
	if stdErr, ok := As(err); ok {
		return stdErr.Kind
	}
	return ""
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsTimeout reports whether err is a deadline expiry, a cancellation or a
// net.Error timeout, or already classified as NETWORK_TIMEOUT.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if stdErr, ok := As(err); ok && stdErr.Timeout {
		return true
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "FILE"):
		return "UPLOAD"
	case strings.Contains(codeStr, "DOMAIN") || strings.Contains(codeStr, "ROLE"):
		return "CATALOG"
	case strings.Contains(codeStr, "TRANSITION") || strings.Contains(codeStr, "FIELD"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "EXTRACTION"):
		return "EXTRACTION"
	case strings.Contains(codeStr, "PREDICTION"):
		return "PREDICTION"
	case strings.Contains(codeStr, "ANALYSIS"):
		return "ANALYSIS"
	case strings.Contains(codeStr, "NETWORK") || strings.Contains(codeStr, "RESPONSE"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "ENGINE"):
		return "ENGINE"
	default:
		return "OTHER"
	}
}
