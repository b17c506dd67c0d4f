package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resume-checker/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

type Client struct {
	client zbc.Client
	config *ClientConfig
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RetryConfig            *RetryConfig
}

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 10,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

func NewClient(address string) (*Client, error) {
	return NewClientWithConfig(&ClientConfig{
		GatewayAddress:         address,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		RetryConfig:            DefaultRetryConfig,
	})
}

// NewClientWithConfig creates the gateway client and probes the topology
// until the broker answers or the retry budget runs out.
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         config.GatewayAddress,
		UsePlaintextConnection: config.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, config: config}

	err = Retry(context.Background(), config.RetryConfig, "zeebe topology", func(ctx context.Context) error {
		return c.HealthCheck(ctx)
	})
	if err != nil {
		zeebeClient.Close()
		return nil, mapZeebeError(err, config.GatewayAddress)
	}

	return c, nil
}

func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// Retry runs op with exponential backoff while the error looks transient.
func Retry(ctx context.Context, cfg *RetryConfig, operationName string, op func(context.Context) error) error {
	var lastErr error
	delay := cfg.BaseDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !isRetryableZeebeError(lastErr) || attempt == cfg.MaxRetries {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", operationName, attempt+1, ctx.Err())
		}

		delay *= 2
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("%s failed: %w", operationName, lastErr)
}

func isRetryableZeebeError(err error) bool {
	msg := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func mapZeebeError(err error, address string) error {
	wrapped := fmt.Errorf("zeebe gateway %s: %w", address, err)
	return errors.FromTransport("zeebe", errors.ErrCodeEngineUnavailable, wrapped)
}
