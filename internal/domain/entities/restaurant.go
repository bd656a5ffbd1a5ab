package entities

import "net/url"

// Restaurant is a restaurant decoded from the location details of a subzone.
// Compare values with Equal: == on ImageURL compares its Userinfo pointer.
type Restaurant struct {
	Identifier string
	Name       string
	Address    string
	ImageURL   url.URL
}

// Equal reports whether every field of r and other matches.
// Image URLs are compared by their string form.
func (r Restaurant) Equal(other Restaurant) bool {
	return r.Identifier == other.Identifier &&
		r.Name == other.Name &&
		r.Address == other.Address &&
		r.ImageURL.String() == other.ImageURL.String()
}

// RestaurantView is the JSON representation exposed by the API and CLI
type RestaurantView struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Address  string `json:"address" yaml:"address"`
	ImageURL string `json:"image_url" yaml:"image_url"`
}

// View converts r into its presentation form
func (r Restaurant) View() RestaurantView {
	return RestaurantView{
		ID:       r.Identifier,
		Name:     r.Name,
		Address:  r.Address,
		ImageURL: r.ImageURL.String(),
	}
}

// RestaurantViews converts a list preserving order
func RestaurantViews(restaurants []Restaurant) []RestaurantView {
	views := make([]RestaurantView, 0, len(restaurants))
	for _, r := range restaurants {
		views = append(views, r.View())
	}
	return views
}
