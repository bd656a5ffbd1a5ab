package transport

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zatekoja/zomavan/internal/domain/providers"
	"github.com/zatekoja/zomavan/internal/infrastructure/observability"
)

const (
	cacheKeyPrefix  = "zomato:v1:"
	defaultCacheTTL = 300
)

// CachedRequestService wraps a RequestService and caches successful GET responses.
// Cache failures are logged and otherwise ignored.
type CachedRequestService struct {
	next       providers.RequestService
	cache      providers.CacheProvider
	ttlSeconds int
	metrics    *observability.Metrics
}

// NewCachedRequestService creates a caching decorator around next
func NewCachedRequestService(next providers.RequestService, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) *CachedRequestService {
	if ttlSeconds <= 0 {
		ttlSeconds = defaultCacheTTL
	}
	return &CachedRequestService{
		next:       next,
		cache:      cache,
		ttlSeconds: ttlSeconds,
		metrics:    metrics,
	}
}

type cachedResponse struct {
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"header,omitempty"`
	Data       []byte      `json:"data"`
}

// Do returns the cached response for req when present, otherwise forwards to the wrapped service.
func (c *CachedRequestService) Do(ctx context.Context, req providers.Request) (*providers.Response, error) {
	if methodOf(req) != http.MethodGet || req.URL == nil {
		return c.next.Do(ctx, req)
	}

	logger := observability.LoggerFromContext(ctx)
	key := cacheKey(req)

	cached, err := c.cache.Get(ctx, key)
	switch {
	case err == nil && len(cached) > 0:
		var entry cachedResponse
		if err := json.Unmarshal(cached, &entry); err == nil {
			observability.RecordCacheLookup(ctx, c.metrics, true)
			return &providers.Response{StatusCode: entry.StatusCode, Header: entry.Header, Data: entry.Data}, nil
		}
		logger.Warn().Str("key", key).Msg("Discarding unreadable cached response")
	case err != nil && !errors.Is(err, providers.ErrCacheMiss):
		logger.Warn().Err(err).Str("key", key).Msg("Cache lookup failed")
	}
	observability.RecordCacheLookup(ctx, c.metrics, false)

	resp, err := c.next.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		payload, err := json.Marshal(cachedResponse{StatusCode: resp.StatusCode, Header: resp.Header, Data: resp.Data})
		if err == nil {
			if err := c.cache.Set(ctx, key, payload, c.ttlSeconds); err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("Failed to cache response")
			}
		}
	}

	return resp, nil
}

func cacheKey(req providers.Request) string {
	sum := sha256.Sum256([]byte(methodOf(req) + " " + req.FullURL()))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
