package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheWarmingService keeps the response cache populated for frequently requested subzones
type CacheWarmingService struct {
	restaurants RestaurantService
	subzoneIDs  []string
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(restaurants RestaurantService, subzoneIDs []string) *CacheWarmingService {
	return &CacheWarmingService{
		restaurants: restaurants,
		subzoneIDs:  subzoneIDs,
	}
}

// WarmCache looks up every configured subzone once and returns how many succeeded
func (s *CacheWarmingService) WarmCache(ctx context.Context) int {
	if len(s.subzoneIDs) == 0 {
		return 0
	}

	start := time.Now()
	warmed := 0
	for _, result := range s.restaurants.ListRestaurantsForSubzones(ctx, s.subzoneIDs) {
		if result.Err != nil {
			log.Warn().Err(result.Err).Str("subzone_id", result.SubzoneID).Msg("Failed to warm subzone")
			continue
		}
		warmed++
	}

	log.Info().
		Int("warmed", warmed).
		Int("total", len(s.subzoneIDs)).
		Dur("elapsed", time.Since(start)).
		Msg("Cache warming completed")
	return warmed
}

// StartPeriodicWarming warms the cache immediately and then every interval until ctx is done
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	go func() {
		s.WarmCache(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Stopping cache warming service")
				return
			case <-ticker.C:
				s.WarmCache(ctx)
			}
		}
	}()
	log.Info().Dur("interval", interval).Int("subzones", len(s.subzoneIDs)).Msg("Started periodic cache warming")
}
