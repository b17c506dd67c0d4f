package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceError_MessageFallback(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"server message wins", "corrupt file", "corrupt file"},
		{"empty message uses fallback", "", "Unknown error occurred."},
		{"blank message uses fallback", "   ", "Unknown error occurred."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewServiceError(ErrCodeExtractionFailed, "extraction", 500, tt.message, "Unknown error occurred.")
			assert.Equal(t, tt.expected, err.Message)
			assert.Equal(t, KindService, err.Kind)
			assert.Equal(t, 500, err.Status)
			assert.False(t, err.Retryable)
		})
	}
}

func TestFromTransport_ClassifiesTimeouts(t *testing.T) {
	timeout := FromTransport("prediction", ErrCodePredictionFailed,
		fmt.Errorf("post: %w", context.DeadlineExceeded))
	assert.Equal(t, ErrCodeNetworkTimeout, timeout.Code)
	assert.True(t, timeout.Timeout)
	assert.Equal(t, KindTransport, timeout.Kind)
	assert.True(t, stderrors.Is(timeout, context.DeadlineExceeded))

	refused := FromTransport("prediction", ErrCodePredictionFailed, stderrors.New("connection refused"))
	assert.Equal(t, ErrCodePredictionFailed, refused.Code)
	assert.False(t, refused.Timeout)
	assert.Equal(t, "connection refused", refused.Message)
}

func TestAsAndKindOf(t *testing.T) {
	wrapped := fmt.Errorf("select role: %w", NewInvalidRoleError("Cloud Computing", "Frontend Developer"))

	stdErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidRole, stdErr.Code)
	assert.Equal(t, KindValidation, KindOf(wrapped))
	assert.True(t, IsValidation(wrapped))

	_, ok = As(stderrors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, Kind(""), KindOf(stderrors.New("plain")))
}

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 0, GetRetryCount(nil))
	assert.Equal(t, 0, GetRetryCount(NewMissingFieldError("role")))
	assert.Equal(t, 0, GetRetryCount(NewServiceError(ErrCodeAnalysisFailed, "analysis", 400, "bad", "")))
	assert.Equal(t, 2, GetRetryCount(NewTransportError("analysis", ErrCodeAnalysisFailed, stderrors.New("reset"))))
	assert.Equal(t, 1, GetRetryCount(NewTimeoutError("analysis", context.DeadlineExceeded)))
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewServiceError(ErrCodePredictionFailed, "prediction", 502, "model offline", "An error occurred")

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "PREDICTION_FAILED", bpmnErr.Code)
	assert.Equal(t, "model offline", bpmnErr.Message)
	assert.Equal(t, 0, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "PREDICTION_FAILED", vars["errorCode"])
	assert.Equal(t, "service", vars["errorKind"])
	assert.Equal(t, "prediction", vars["service"])
}

func TestNormalize_WrapsPlainErrors(t *testing.T) {
	stdErr := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, stdErr.Code)
	assert.Equal(t, "boom", stdErr.Details)

	original := NewUnknownDomainError("Biology")
	assert.Same(t, original, Normalize(original))
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeFileTooLarge:         "UPLOAD",
		ErrCodeUnsupportedFileType:  "UPLOAD",
		ErrCodeUnknownDomain:        "CATALOG",
		ErrCodeInvalidRole:          "CATALOG",
		ErrCodeInvalidTransition:    "WORKFLOW",
		ErrCodeMissingRequiredField: "WORKFLOW",
		ErrCodeExtractionFailed:     "EXTRACTION",
		ErrCodePredictionFailed:     "PREDICTION",
		ErrCodeAnalysisFailed:       "ANALYSIS",
		ErrCodeNetworkTimeout:       "TRANSPORT",
		ErrCodeMalformedResponse:    "TRANSPORT",
		ErrCodeEngineUnavailable:    "ENGINE",
		ErrCodeInternal:             "OTHER",
	}
	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), string(code))
	}
}
