package zomato

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/zatekoja/zomavan/internal/domain/entities"
	apperrors "github.com/zatekoja/zomavan/pkg/errors"
)

// Pointers distinguish an absent key from a zero value; every field is required.
type locationDetailsResponse struct {
	BestRatedRestaurant *[]bestRatedEntry `json:"best_rated_restaurant"`
}

type bestRatedEntry struct {
	Restaurant *zomatoRestaurant `json:"restaurant"`
}

type zomatoRestaurant struct {
	ID       *string         `json:"id"`
	Name     *string         `json:"name"`
	Location *zomatoLocation `json:"location"`
	Thumb    *string         `json:"thumb"`
}

type zomatoLocation struct {
	Address *string `json:"address"`
}

func decodeRestaurantList(data []byte) ([]entities.Restaurant, error) {
	var payload locationDetailsResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, apperrors.NewDecodingError("failed to decode location details response", err)
	}
	if payload.BestRatedRestaurant == nil {
		return nil, apperrors.NewDecodingError("missing key best_rated_restaurant", nil)
	}

	entries := *payload.BestRatedRestaurant
	restaurants := make([]entities.Restaurant, 0, len(entries))
	for i, entry := range entries {
		restaurant, err := entry.toEntity()
		if err != nil {
			return nil, apperrors.NewDecodingError(fmt.Sprintf("best_rated_restaurant[%d]", i), err)
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, nil
}

func (e bestRatedEntry) toEntity() (entities.Restaurant, error) {
	r := e.Restaurant
	switch {
	case r == nil:
		return entities.Restaurant{}, fmt.Errorf("missing key restaurant")
	case r.ID == nil:
		return entities.Restaurant{}, fmt.Errorf("missing key restaurant.id")
	case r.Name == nil:
		return entities.Restaurant{}, fmt.Errorf("missing key restaurant.name")
	case r.Location == nil:
		return entities.Restaurant{}, fmt.Errorf("missing key restaurant.location")
	case r.Location.Address == nil:
		return entities.Restaurant{}, fmt.Errorf("missing key restaurant.location.address")
	case r.Thumb == nil:
		return entities.Restaurant{}, fmt.Errorf("missing key restaurant.thumb")
	}

	imageURL, err := parseImageURL(*r.Thumb)
	if err != nil {
		return entities.Restaurant{}, err
	}

	return entities.Restaurant{
		Identifier: *r.ID,
		Name:       *r.Name,
		Address:    *r.Location.Address,
		ImageURL:   *imageURL,
	}, nil
}

func parseImageURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("restaurant.thumb is empty")
	}
	if strings.ContainsAny(raw, " \t\r\n") {
		return nil, fmt.Errorf("restaurant.thumb %q is not a valid url", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("restaurant.thumb is not a valid url: %w", err)
	}
	return u, nil
}
