package prediction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-checker/internal/common/cache"
	"resume-checker/internal/common/config"
	"resume-checker/internal/common/errors"
	"resume-checker/internal/common/logger"
	"resume-checker/internal/models"
)

// ==========================================================================
// Test Helpers
// ==========================================================================

func createTestConfig(url string) *Config {
	return &Config{URL: url + "/predict", Timeout: 2 * time.Second}
}

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

const successBody = `{
	"given_role": "DevOps",
	"confidence": 72.456,
	"suggested_roles": [
		{"role": "DevOps", "confidence": 80},
		{"role": "Frontend Developer", "confidence": 70}
	]
}`

// ==========================================================================
// Predict
// ==========================================================================

func TestPredict_Success(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "resume body", req["resume_text"])
		assert.Equal(t, "DevOps", req["input_role"])

		_, _ = w.Write([]byte(successBody))
	})

	client := NewClient(createTestConfig(server.URL), ClientDependencies{Logger: logger.NewTestLogger(t)})
	result, err := client.Predict(context.Background(), "resume body", "DevOps")

	require.NoError(t, err)
	assert.Equal(t, "DevOps", result.GivenRole)
	assert.InDelta(t, 72.456, result.Confidence, 0.0001)
	assert.Equal(t, []models.RoleConfidence{
		{Role: "DevOps", Confidence: 80},
		{Role: "Frontend Developer", Confidence: 70},
	}, result.SuggestedRoles)
}

func TestPredict_MissingSuggestions(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"given_role":"DevOps","confidence":10}`))
	})

	result, err := NewClient(createTestConfig(server.URL), ClientDependencies{}).
		Predict(context.Background(), "resume body", "DevOps")

	require.NoError(t, err)
	assert.NotNil(t, result.SuggestedRoles)
	assert.Empty(t, result.SuggestedRoles)
}

func TestPredict_Preconditions(t *testing.T) {
	var calls atomic.Int32
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	client := NewClient(createTestConfig(server.URL), ClientDependencies{})

	tests := []struct {
		name   string
		resume string
		role   string
		field  string
	}{
		{"empty resume", "", "DevOps", "resume_text"},
		{"blank resume", "   ", "DevOps", "resume_text"},
		{"empty role", "resume body", "", "input_role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Predict(context.Background(), tt.resume, tt.role)
			stdErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeMissingRequiredField, stdErr.Code)
			assert.Equal(t, tt.field, stdErr.Metadata["field"])
		})
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestPredict_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCode    errors.ErrorCode
		wantMessage string
	}{
		{"server message", http.StatusBadRequest, `{"error":"Error: y contains previously unseen labels"}`, errors.ErrCodePredictionFailed, "Error: y contains previously unseen labels"},
		{"generic message", http.StatusInternalServerError, ``, errors.ErrCodePredictionFailed, GenericFailureMessage},
		{"confidence as string", http.StatusOK, `{"given_role":"DevOps","confidence":"high"}`, errors.ErrCodeMalformedResponse, ""},
		{"suggestion without role", http.StatusOK, `{"given_role":"DevOps","confidence":1,"suggested_roles":[{"confidence":2}]}`, errors.ErrCodeMalformedResponse, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := NewClient(createTestConfig(server.URL), ClientDependencies{}).
				Predict(context.Background(), "resume body", "DevOps")

			stdErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, stdErr.Message)
			}
		})
	}
}

func TestPredict_CachedInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	var calls atomic.Int32
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(successBody))
	})

	redisCache := cache.NewRedis(config.RedisConfig{Address: mr.Addr()}, time.Minute)
	defer redisCache.Close()

	client := NewClient(createTestConfig(server.URL), ClientDependencies{Cache: redisCache})

	first, err := client.Predict(context.Background(), "resume body", "DevOps")
	require.NoError(t, err)
	second, err := client.Predict(context.Background(), "resume body", "DevOps")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, mr.Exists(cache.Key(ServiceName, "resume body", "DevOps")))

	_, err = client.Predict(context.Background(), "resume body", "Cloud Engineer")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}
