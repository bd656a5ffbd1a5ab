package transport

import (
	"net/http"

	"github.com/zatekoja/zomavan/internal/domain/providers"
	"github.com/zatekoja/zomavan/internal/infrastructure/observability"
	"github.com/zatekoja/zomavan/pkg/config"
	"github.com/zatekoja/zomavan/pkg/retry"
)

// NewRequestService builds the HTTP transport described by cfg, wrapped in a
// response cache when cache is non-nil and caching is enabled.
func NewRequestService(cfg *config.Config, cache providers.CacheProvider, metrics *observability.Metrics) (providers.RequestService, error) {
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.Retry.MaxAttempts
	retryCfg.InitialDelay = cfg.Retry.InitialDelay
	retryCfg.MaxDelay = cfg.Retry.MaxDelay

	httpService, err := NewHTTPRequestService(Options{
		HTTPClient: &http.Client{Timeout: cfg.Zomato.Timeout},
		APIKey:     cfg.Zomato.APIKey,
		BaseURL:    cfg.Zomato.BaseURL,
		Retry:      &retryCfg,
		Metrics:    metrics,
	})
	if err != nil {
		return nil, err
	}

	if cache == nil || !cfg.Cache.Enabled {
		return httpService, nil
	}
	return NewCachedRequestService(httpService, cache, cfg.Cache.TTLSeconds, metrics), nil
}
