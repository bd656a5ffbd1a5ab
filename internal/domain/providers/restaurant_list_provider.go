package providers

import (
	"context"

	"github.com/zatekoja/zomavan/internal/domain/entities"
)

// RestaurantListProvider fetches the restaurants of a subzone
type RestaurantListProvider interface {
	// RestaurantList returns the restaurants for subzoneID in upstream order
	RestaurantList(ctx context.Context, subzoneID string) ([]entities.Restaurant, error)

	// WithRestaurantList calls completion exactly once with the outcome of RestaurantList
	WithRestaurantList(ctx context.Context, subzoneID string, completion func([]entities.Restaurant, error))
}
