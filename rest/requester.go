package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"snowcord/internal/common"
)

// Requester executes endpoints against the API, retrying rate limits and
// transient server failures. Safe for concurrent use.
type Requester struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// RequesterOption customizes a Requester at construction.
type RequesterOption func(*Requester)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(c *http.Client) RequesterOption {
	return func(r *Requester) { r.http = c }
}

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) RequesterOption {
	return func(r *Requester) { r.log = log }
}

// NewRequester builds a Requester over the given transport configuration.
func NewRequester(cfg Config, opts ...RequesterOption) *Requester {
	cfg = cfg.withDefaults()

	r := &Requester{
		cfg: cfg,
		log: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.http == nil {
		r.http = &http.Client{Timeout: cfg.Timeout}
	}

	return r
}

// Config returns the transport configuration in use.
func (r *Requester) Config() Config { return r.cfg }

// Do executes one endpoint and returns the response body. Rate limits are
// waited out per the server's Retry-After and retried; 5xx responses retry
// with fibonacci backoff up to the configured attempt cap. Every other
// non-2xx response fails immediately with an *APIError.
func (r *Requester) Do(ctx context.Context, ep Endpoint) ([]byte, error) {
	requestID := uuid.NewString()

	log := r.log.With(
		zap.String("method", ep.Method),
		zap.String("path", ep.Path),
		zap.String("request_id", requestID),
	)

	var body []byte

	backoff := retry.WithMaxRetries(r.cfg.MaxRetries, retry.NewFibonacci(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := r.send(ctx, ep, requestID)
		if err != nil {
			log.Debug("transport failure", zap.Error(err))

			return retry.RetryableError(err)
		}

		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("rest: reading response body: %w", err))
		}

		if common.IsInRange(http.StatusOK, resp.StatusCode, 299) {
			log.Debug("request succeeded", zap.Int("status", resp.StatusCode))

			return nil
		}

		apiErr := newAPIError(resp.StatusCode, requestID, body)

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := retryAfter(resp.Header)
			log.Debug("rate limited", zap.Duration("retry_after", wait))

			if err := sleepContext(ctx, wait); err != nil {
				return err
			}

			return retry.RetryableError(apiErr)
		case resp.StatusCode >= 500:
			log.Debug("server error", zap.Int("status", resp.StatusCode))

			return retry.RetryableError(apiErr)
		default:
			log.Debug("request rejected", zap.Int("status", resp.StatusCode))

			return apiErr
		}
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

func (r *Requester) send(ctx context.Context, ep Endpoint, requestID string) (*http.Response, error) {
	var reader io.Reader
	if !common.IsEmpty(ep.Body) {
		reader = bytes.NewReader(ep.Body)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, r.cfg.BaseURL+ep.Path, reader)
	if err != nil {
		return nil, fmt.Errorf("rest: building request: %w", err)
	}

	req.Header.Set("Authorization", r.cfg.Token)
	req.Header.Set("User-Agent", r.cfg.UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return r.http.Do(req)
}

// newAPIError extracts the platform error envelope, tolerating bodies that
// are not JSON at all.
func newAPIError(status int, requestID string, body []byte) *APIError {
	apiErr := &APIError{Status: status, RequestID: requestID}

	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		apiErr.Code = int(parsed.Get("code").Int())
		apiErr.Message = parsed.Get("message").String()
	}

	return apiErr
}

// retryAfter reads the server's requested wait, falling back to one second
// when the header is absent or unreadable.
func retryAfter(h http.Header) time.Duration {
	raw := h.Get("Retry-After")
	if raw == "" {
		return time.Second
	}

	if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}

	if at, err := http.ParseTime(raw); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
	}

	return time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
