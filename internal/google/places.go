package google

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/models"
	"go.uber.org/zap"
)

// ErrPlaceNotFound means every search strategy came back empty
var ErrPlaceNotFound = errors.New("google: place not found")

var stateZipPattern = regexp.MustCompile(`([A-Z]{2})\s+\d{5}`)

type findPlaceResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Candidates   []struct {
		PlaceID string `json:"place_id"`
	} `json:"candidates"`
}

type placeDetailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       *struct {
		Rating           *float64 `json:"rating"`
		UserRatingsTotal *int     `json:"user_ratings_total"`
		URL              *string  `json:"url"`
	} `json:"result"`
}

// PlacesClient looks up business listings and their reputation data
type PlacesClient struct {
	client
}

// NewPlacesClient creates a places client
func NewPlacesClient(cfg Config) *PlacesClient {
	return &PlacesClient{client: newClient("google.places", cfg)}
}

// FindPlaceID searches for a business, widening the query until one matches:
// name with the full address, then name with "City, ST", then the name alone.
// It returns ErrPlaceNotFound when all strategies come back empty. Transport
// and quota failures are returned as-is so the caller can retry later.
func (p *PlacesClient) FindPlaceID(ctx context.Context, name, fullAddress string) (string, error) {
	if p.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	queries := []string{strings.TrimSpace(name + " " + fullAddress)}
	if cityState, ok := ExtractCityState(fullAddress); ok {
		queries = append(queries, name+" "+cityState)
	}
	queries = append(queries, name)

	for i, q := range queries {
		id, err := p.searchPlace(ctx, q)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrNoResults) {
			return "", err
		}
		if i < len(queries)-1 {
			logger.Log.Debug("Place search empty, widening query",
				zap.String("query", q),
				zap.String("next", queries[i+1]),
			)
		}
	}
	return "", ErrPlaceNotFound
}

func (p *PlacesClient) searchPlace(ctx context.Context, query string) (string, error) {
	var body findPlaceResponse
	params := url.Values{
		"input":     {query},
		"inputtype": {"textquery"},
		"fields":    {"place_id"},
	}
	if err := p.getJSON(ctx, "findplacefromtext", "/place/findplacefromtext/json", params, &body); err != nil {
		return "", err
	}
	if err := p.checkStatus(body.Status, body.ErrorMessage); err != nil {
		return "", err
	}
	if len(body.Candidates) == 0 || body.Candidates[0].PlaceID == "" {
		return "", ErrNoResults
	}
	return body.Candidates[0].PlaceID, nil
}

// Details fetches rating, review count and the reviews url for placeID.
// Fields absent from the response are left nil.
func (p *PlacesClient) Details(ctx context.Context, placeID string) (models.PlaceDetails, error) {
	var body placeDetailsResponse
	params := url.Values{
		"place_id": {placeID},
		"fields":   {"rating,user_ratings_total,url"},
	}
	if err := p.getJSON(ctx, "details", "/place/details/json", params, &body); err != nil {
		return models.PlaceDetails{}, err
	}
	if err := p.checkStatus(body.Status, body.ErrorMessage); err != nil {
		return models.PlaceDetails{}, err
	}
	if body.Result == nil {
		return models.PlaceDetails{}, ErrNoResults
	}

	return models.PlaceDetails{
		PlaceID:     placeID,
		Rating:      body.Result.Rating,
		ReviewCount: body.Result.UserRatingsTotal,
		ReviewsURL:  body.Result.URL,
	}, nil
}

// ExtractCityState pulls "City, ST" out of an address shaped like
// "Street, [Suite,] City, ST 12345".
func ExtractCityState(address string) (string, bool) {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return "", false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	m := stateZipPattern.FindStringSubmatch(parts[len(parts)-1])
	if m == nil {
		return "", false
	}
	return parts[len(parts)-2] + ", " + m[1], true
}
