package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-checker/internal/common/errors"
)

func fastRetry() *RetryConfig {
	return &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetry_SucceedsAfterTransientErrors(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetry(), "topology", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return stderrors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetry(), "topology", func(context.Context) error {
		attempts++
		return stderrors.New("permission denied")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Contains(t, err.Error(), "topology failed")
}

func TestRetry_GivesUpAfterBudget(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetry(), "topology", func(context.Context) error {
		attempts++
		return stderrors.New("deadline exceeded")
	})

	require.Error(t, err)
	assert.Equal(t, 4, attempts)
}

func TestRetry_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}
	err := Retry(ctx, cfg, "topology", func(context.Context) error {
		return stderrors.New("unavailable")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapZeebeError(t *testing.T) {
	err := mapZeebeError(stderrors.New("connection refused"), "localhost:26500")

	stdErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeEngineUnavailable, stdErr.Code)
	assert.Equal(t, errors.KindTransport, stdErr.Kind)
	assert.Contains(t, stdErr.Message, "localhost:26500")
}
