// Package services holds the request path shared by the extraction,
// prediction and analysis clients.
package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resume-checker/internal/common/cache"
	"resume-checker/internal/common/errors"
	commonhttp "resume-checker/internal/common/http"
	"resume-checker/internal/common/logger"
	"resume-checker/internal/common/metrics"
	"resume-checker/internal/common/observability"
	"resume-checker/internal/common/validation"
)

// SendFunc performs the HTTP exchange under the request context.
type SendFunc func(ctx context.Context) (*commonhttp.Response, error)

// Endpoint describes one backend operation and how its failures are reported.
type Endpoint struct {
	Service     string
	URL         string
	Timeout     time.Duration
	FailureCode errors.ErrorCode
	// Fallback is the message used when a failure body carries no "error".
	Fallback string
	// Schema, when set, must accept every 2xx body.
	Schema *validation.Schema
	// Cache, when set, serves repeated identical requests in CallCached.
	Cache  cache.Cache
	Logger logger.Logger
}

func (e *Endpoint) log() logger.Logger {
	if e.Logger == nil {
		return logger.NewNoOpLogger()
	}
	return e.Logger
}

// CallCached is Call behind the response cache. Cache failures are logged
// and never fail the request.
func (e *Endpoint) CallCached(ctx context.Context, key string, send SendFunc) ([]byte, error) {
	if e.Cache == nil {
		return e.Call(ctx, send)
	}

	body, ok, err := e.Cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(e.Service, "error").Inc()
		e.log().Warn("cache lookup failed", map[string]interface{}{"service": e.Service, "error": err.Error()})
	case ok:
		metrics.CacheLookups.WithLabelValues(e.Service, "hit").Inc()
		return body, nil
	default:
		metrics.CacheLookups.WithLabelValues(e.Service, "miss").Inc()
	}

	body, err = e.Call(ctx, send)
	if err != nil {
		return nil, err
	}
	if err := e.Cache.Set(ctx, key, body); err != nil {
		e.log().Warn("cache store failed", map[string]interface{}{"service": e.Service, "error": err.Error()})
	}
	return body, nil
}

// Call runs send with the endpoint timeout and returns the body of a 2xx
// response. Every other outcome is a *errors.StandardError.
func (e *Endpoint) Call(ctx context.Context, send SendFunc) ([]byte, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	ctx, span := otel.Tracer(observability.TracerName).Start(ctx, e.Service+".request")
	span.SetAttributes(
		attribute.String("service.endpoint", e.URL),
		attribute.String("service.name", e.Service),
	)
	defer span.End()

	start := time.Now()
	resp, err := send(ctx)
	metrics.ServiceRequestDuration.WithLabelValues(e.Service).Observe(time.Since(start).Seconds())

	if err != nil {
		stdErr := errors.FromTransport(e.Service, e.FailureCode, err)
		outcome := metrics.OutcomeTransport
		if stdErr.Timeout {
			outcome = metrics.OutcomeTimeout
		}
		return nil, e.fail(span, stdErr, outcome)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if !resp.OK() {
		stdErr := errors.NewServiceError(e.FailureCode, e.Service, resp.StatusCode, resp.ErrorMessage(), e.Fallback)
		return nil, e.fail(span, stdErr, metrics.OutcomeService)
	}

	if e.Schema != nil {
		if result := e.Schema.ValidateBytes(resp.Body); !result.Valid {
			stdErr := errors.NewMalformedResponseError(e.Service, result.Summary())
			return nil, e.fail(span, stdErr, metrics.OutcomeMalformed)
		}
	}

	metrics.ServiceRequests.WithLabelValues(e.Service, metrics.OutcomeSuccess).Inc()
	e.log().Debug("service request succeeded", map[string]interface{}{
		"service":    e.Service,
		"status":     resp.StatusCode,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return resp.Body, nil
}

func (e *Endpoint) fail(span trace.Span, stdErr *errors.StandardError, outcome string) error {
	metrics.ServiceRequests.WithLabelValues(e.Service, outcome).Inc()
	span.RecordError(stdErr)
	span.SetStatus(codes.Error, string(stdErr.Code))

	e.log().Warn("service request failed", map[string]interface{}{
		"service":   e.Service,
		"errorCode": string(stdErr.Code),
		"kind":      string(stdErr.Kind),
		"status":    stdErr.Status,
		"message":   stdErr.Message,
		"outcome":   outcome,
	})
	return stdErr
}
