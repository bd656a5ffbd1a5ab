package zomato

import (
	"context"
	"net/http"
	"net/url"

	"github.com/zatekoja/zomavan/internal/domain/entities"
	"github.com/zatekoja/zomavan/internal/domain/providers"
	apperrors "github.com/zatekoja/zomavan/pkg/errors"
)

const (
	locationDetailsURL = "https://developers.zomato.com/api/v2.1/location_details"
	subzoneEntityType  = "subzone"
	restaurantCount    = "10"
)

// RestaurantListProvider lists the best rated restaurants of a Zomato subzone.
// It holds no state besides its transport and is safe for concurrent use.
type RestaurantListProvider struct {
	requests providers.RequestService
}

// NewRestaurantListProvider creates a provider that sends its requests through requests.
func NewRestaurantListProvider(requests providers.RequestService) *RestaurantListProvider {
	return &RestaurantListProvider{requests: requests}
}

// RestaurantList fetches and decodes the restaurants of subzoneID.
// The id is sent verbatim, including the empty string.
func (p *RestaurantListProvider) RestaurantList(ctx context.Context, subzoneID string) ([]entities.Restaurant, error) {
	resp, err := p.requests.Do(ctx, newLocationDetailsRequest(subzoneID))
	if err != nil {
		if apperrors.TypeOf(err) != "" {
			return nil, err
		}
		return nil, apperrors.NewExternalError("location details request failed", err)
	}
	if resp == nil {
		return nil, apperrors.NewExternalError("location details request returned no response", nil)
	}

	return decodeRestaurantList(resp.Data)
}

// WithRestaurantList runs RestaurantList and hands the outcome to completion exactly once.
func (p *RestaurantListProvider) WithRestaurantList(ctx context.Context, subzoneID string, completion func([]entities.Restaurant, error)) {
	restaurants, err := p.RestaurantList(ctx, subzoneID)
	if completion == nil {
		return
	}
	completion(restaurants, err)
}

func newLocationDetailsRequest(subzoneID string) providers.Request {
	endpoint, _ := url.Parse(locationDetailsURL)
	return providers.Request{
		Method: http.MethodGet,
		URL:    endpoint,
		QueryItems: []providers.QueryItem{
			{Name: "entity_id", Value: subzoneID},
			{Name: "entity_type", Value: subzoneEntityType},
			{Name: "count", Value: restaurantCount},
		},
	}
}
