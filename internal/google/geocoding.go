package google

import (
	"context"
	"net/url"
)

// Location is a latitude/longitude pair
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location Location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GeocodingClient resolves street addresses to coordinates
type GeocodingClient struct {
	client
}

// NewGeocodingClient creates a geocoding client
func NewGeocodingClient(cfg Config) *GeocodingClient {
	return &GeocodingClient{client: newClient("google.geocoding", cfg)}
}

// Geocode returns the first result's location for address
func (g *GeocodingClient) Geocode(ctx context.Context, address string) (Location, error) {
	var body geocodeResponse
	params := url.Values{"address": {address}}
	if err := g.getJSON(ctx, "geocode", "/geocode/json", params, &body); err != nil {
		return Location{}, err
	}
	if err := g.checkStatus(body.Status, body.ErrorMessage); err != nil {
		return Location{}, err
	}
	if len(body.Results) == 0 {
		return Location{}, ErrNoResults
	}
	return body.Results[0].Geometry.Location, nil
}
