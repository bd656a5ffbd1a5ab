package services

import (
	"context"
	"sync"
	"time"

	"github.com/zatekoja/zomavan/internal/domain/entities"
	"github.com/zatekoja/zomavan/internal/domain/providers"
	"github.com/zatekoja/zomavan/internal/infrastructure/observability"
)

// SubzoneResult is the outcome of one subzone lookup in a batch
type SubzoneResult struct {
	SubzoneID   string
	Restaurants []entities.Restaurant
	Err         error
}

// RestaurantService exposes restaurant lookups to the API and CLI
type RestaurantService interface {
	ListRestaurants(ctx context.Context, subzoneID string) ([]entities.Restaurant, error)
	ListRestaurantsForSubzones(ctx context.Context, subzoneIDs []string) []SubzoneResult
}

type restaurantService struct {
	provider providers.RestaurantListProvider
}

// NewRestaurantService creates a restaurant service backed by provider
func NewRestaurantService(provider providers.RestaurantListProvider) RestaurantService {
	return &restaurantService{provider: provider}
}

// ListRestaurants returns the restaurants of one subzone
func (s *restaurantService) ListRestaurants(ctx context.Context, subzoneID string) ([]entities.Restaurant, error) {
	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	var (
		restaurants []entities.Restaurant
		err         error
	)
	s.provider.WithRestaurantList(ctx, subzoneID, func(list []entities.Restaurant, listErr error) {
		restaurants, err = list, listErr
	})
	if err != nil {
		logger.Error().
			Err(err).
			Str("subzone_id", subzoneID).
			Dur("elapsed", time.Since(start)).
			Msg("Failed to list restaurants")
		return nil, err
	}

	logger.Debug().
		Str("subzone_id", subzoneID).
		Int("count", len(restaurants)).
		Dur("elapsed", time.Since(start)).
		Msg("Listed restaurants")
	return restaurants, nil
}

// ListRestaurantsForSubzones looks up every distinct subzone concurrently.
// Results follow the order of first appearance in subzoneIDs.
func (s *restaurantService) ListRestaurantsForSubzones(ctx context.Context, subzoneIDs []string) []SubzoneResult {
	seen := make(map[string]struct{}, len(subzoneIDs))
	unique := make([]string, 0, len(subzoneIDs))
	for _, id := range subzoneIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	results := make([]SubzoneResult, len(unique))
	var wg sync.WaitGroup
	for i, id := range unique {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			restaurants, err := s.ListRestaurants(ctx, id)
			results[i] = SubzoneResult{SubzoneID: id, Restaurants: restaurants, Err: err}
		}(i, id)
	}
	wg.Wait()

	return results
}
