package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/zomavan/internal/domain/providers"
	"github.com/zatekoja/zomavan/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/zomavan/pkg/errors"
	"github.com/zatekoja/zomavan/pkg/requestid"
	"github.com/zatekoja/zomavan/pkg/retry"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxResponseBytes   = 8 << 20
	apiKeyHeader       = "user-key"
)

// HTTPRequestService performs requests over HTTP with retries.
type HTTPRequestService struct {
	httpClient *http.Client
	apiKey     string
	baseURL    *url.URL
	retry      retry.Config
	metrics    *observability.Metrics
}

// Options configures an HTTPRequestService. Zero values fall back to defaults.
type Options struct {
	HTTPClient *http.Client
	APIKey     string
	// BaseURL, when set, replaces the scheme and host of every request and is
	// prepended to its path.
	BaseURL string
	Retry   *retry.Config
	Metrics *observability.Metrics
}

// NewHTTPRequestService creates a request service from opts
func NewHTTPRequestService(opts Options) (*HTTPRequestService, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	retryCfg := retry.DefaultConfig()
	if opts.Retry != nil {
		retryCfg = *opts.Retry
	}

	var base *url.URL
	if strings.TrimSpace(opts.BaseURL) != "" {
		parsed, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
		if err != nil {
			return nil, fmt.Errorf("invalid base url: %w", err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
		}
		base = parsed
	}

	return &HTTPRequestService{
		httpClient: httpClient,
		apiKey:     opts.APIKey,
		baseURL:    base,
		retry:      retryCfg,
		metrics:    opts.Metrics,
	}, nil
}

// Do sends req, retrying network failures, 429 and 5xx answers.
func (s *HTTPRequestService) Do(ctx context.Context, req providers.Request) (*providers.Response, error) {
	if req.URL == nil {
		return nil, apperrors.NewValidationError("request url is required")
	}

	target := s.resolve(req)
	endpoint := path.Base(target.URL.Path)

	ctx, span := observability.StartSpan(ctx, "zomato."+endpoint)
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.String("http.method", methodOf(target)),
		attribute.String("http.url", target.FullURL()),
	)

	logger := observability.LoggerFromContext(ctx)

	var out *providers.Response
	err := retry.DoWithLog(ctx, s.retry, "zomato "+endpoint, func(ctx context.Context) error {
		resp, err := s.attempt(ctx, target, endpoint)
		if err != nil {
			return err
		}
		out = resp
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Str("endpoint", endpoint).
			Msg("Upstream request failed, retrying")
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	observability.SetSpanAttributes(span, attribute.Int("http.status_code", out.StatusCode))
	return out, nil
}

func (s *HTTPRequestService) attempt(ctx context.Context, req providers.Request, endpoint string) (*providers.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, methodOf(req), req.FullURL(), nil)
	if err != nil {
		return nil, retry.Permanent(apperrors.NewInternalError("failed to build request", err))
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set(apiKeyHeader, s.apiKey)
	}
	if id := requestid.FromContext(ctx); id != "" {
		httpReq.Header.Set(requestid.Header, id)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordUpstreamMetric(ctx, s.metrics, endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, retry.Permanent(apperrors.NewExternalError(endpoint+" request cancelled", err))
		}
		return nil, apperrors.NewExternalError(endpoint+" request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	observability.RecordUpstreamMetric(ctx, s.metrics, endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read "+endpoint+" response", err)
	}
	if len(data) > maxResponseBytes {
		return nil, retry.Permanent(apperrors.NewExternalError(
			fmt.Sprintf("%s response exceeds %d bytes", endpoint, maxResponseBytes), nil))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode)
	}

	return &providers.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Data:       data,
	}, nil
}

func classifyStatus(statusCode int) error {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return retry.Permanent(apperrors.NewUnauthorizedError(fmt.Sprintf("upstream rejected credentials with status %d", statusCode)))
	case statusCode == http.StatusTooManyRequests || statusCode >= 500:
		return apperrors.NewUpstreamStatusError(statusCode)
	default:
		return retry.Permanent(apperrors.NewUpstreamStatusError(statusCode))
	}
}

func (s *HTTPRequestService) resolve(req providers.Request) providers.Request {
	if s.baseURL == nil {
		return req
	}
	u := *req.URL
	u.Scheme = s.baseURL.Scheme
	u.Host = s.baseURL.Host
	u.Path = s.baseURL.Path + u.Path
	u.RawPath = ""
	req.URL = &u
	return req
}

func methodOf(req providers.Request) string {
	if req.Method == "" {
		return http.MethodGet
	}
	return req.Method
}
