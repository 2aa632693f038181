package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/okian/pvsa/pkg/logger"
	"github.com/okian/pvsa/pkg/metrics"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 200 * time.Millisecond
	defaultTimeout     = 10 * time.Second
	maxBodyBytes       = 32 << 20
	maxErrorBodyBytes  = 512
)

// HTTPOption applies a configuration option to the HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithMaxAttempts caps attempts per Fetch.
func WithMaxAttempts(n int) HTTPOption {
	return func(s *HTTPSource) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithBackoff sets the delay before the first retry. It doubles per retry.
func WithBackoff(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.backoff = d
		}
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithHTTPLogger sets a custom logger.
func WithHTTPLogger(l logger.Logger) HTTPOption {
	return func(s *HTTPSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// HTTPSource downloads a published CSV export.
type HTTPSource struct {
	url         string
	client      *http.Client
	maxAttempts int
	backoff     time.Duration
	timeout     time.Duration
	logger      logger.Logger
}

// NewHTTPSource creates a source for url.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:         url,
		client:      http.DefaultClient,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
		timeout:     defaultTimeout,
		logger:      logger.Get().Named("sheet-http"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Source.
func (s *HTTPSource) Name() string { return "http" }

// Fetch downloads the export, retrying network errors, 429 and 5xx with
// exponential backoff.
func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	backoff := s.backoff
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		body, err := s.get(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) || attempt == s.maxAttempts {
			break
		}

		s.logger.Warn(ctx, "sheet fetch failed, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("backoff", backoff),
			logger.Error(err),
		)
		metrics.RecordSheetFetchRetry()

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return "", fmt.Errorf("%w: %w", ErrFetch, lastErr)
}

func (s *HTTPSource) get(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(b), nil
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
