package directory

import (
	"fmt"
	"strings"

	"github.com/zfogg/curlmap/backend/internal/models"
)

// Aggregate is the map-ready view of every listed salon
type Aggregate struct {
	Salons         []SalonView            `json:"salons"`
	Certifications []models.Certification `json:"certifications"`
}

// SalonView is a salon as the client renders it
type SalonView struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Address           string        `json:"address"`
	City              string        `json:"city"`
	State             string        `json:"state"`
	Zip               string        `json:"zip"`
	Phone             *string       `json:"phone,omitempty"`
	Website           *string       `json:"website,omitempty"`
	Photo             *string       `json:"photo,omitempty"`
	Lat               float64       `json:"lat"`
	Lng               float64       `json:"lng"`
	GooglePlaceID     *string       `json:"googlePlaceId,omitempty"`
	GoogleRating      *float64      `json:"googleRating,omitempty"`
	GoogleReviewCount *int          `json:"googleReviewCount,omitempty"`
	GoogleReviewsURL  *string       `json:"googleReviewsUrl,omitempty"`
	Stylists          []StylistView `json:"stylists"`
}

// StylistView is a stylist as the client renders it
type StylistView struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Phone          *string                `json:"phone,omitempty"`
	Email          *string                `json:"email,omitempty"`
	Website        *string                `json:"website,omitempty"`
	Instagram      *string                `json:"instagram,omitempty"`
	Photo          *string                `json:"photo,omitempty"`
	Verified       bool                   `json:"verified"`
	CanBookOnline  bool                   `json:"canBookOnline"`
	Price          *float64               `json:"price,omitempty"`
	Certifications []models.Certification `json:"certifications"`
}

// salonView projects an enriched salon. The caller guarantees coordinates.
func salonView(s *models.Salon) SalonView {
	view := SalonView{
		ID:                s.ID,
		Name:              s.Name,
		Address:           formatAddress(s),
		City:              s.City,
		State:             s.State,
		Zip:               s.ZipCode,
		Phone:             nonEmpty(s.Phone),
		Website:           nonEmpty(s.Website),
		Photo:             nonEmpty(s.Photo),
		Lat:               *s.Lat,
		Lng:               *s.Lng,
		GoogleRating:      s.GoogleRating,
		GoogleReviewCount: s.GoogleReviewCount,
		GoogleReviewsURL:  nonEmpty(s.GoogleReviewsURL),
		Stylists:          make([]StylistView, 0, len(s.Stylists)),
	}
	if id := s.PlaceID(); id != "" && id != models.PlaceNotFound {
		view.GooglePlaceID = &id
	}

	for _, st := range s.Stylists {
		certs := st.Certifications
		if certs == nil {
			certs = []models.Certification{}
		}
		view.Stylists = append(view.Stylists, StylistView{
			ID:             st.ID,
			Name:           st.Name,
			Phone:          nonEmpty(st.Phone),
			Email:          nonEmpty(st.Email),
			Website:        nonEmpty(st.Website),
			Instagram:      NormalizeInstagram(st.Instagram),
			Photo:          nonEmpty(st.ProfilePhoto),
			Verified:       st.Verified,
			CanBookOnline:  st.CanBookOnline,
			Price:          st.CurlyCutPrice,
			Certifications: certs,
		})
	}
	return view
}

// formatAddress renders "street, suite, City, ST zip", skipping empty parts
func formatAddress(s *models.Salon) string {
	parts := make([]string, 0, 3)
	if street := strings.TrimSpace(s.StreetAddress); street != "" {
		parts = append(parts, street)
	}
	if s.SuiteUnit != nil {
		if suite := strings.TrimSpace(*s.SuiteUnit); suite != "" {
			parts = append(parts, suite)
		}
	}
	parts = append(parts, fmt.Sprintf("%s, %s %s", s.City, s.State, s.ZipCode))
	return strings.Join(parts, ", ")
}

// NormalizeInstagram keeps the first of several "|"-separated handles and
// prefixes it with "@". Blank input yields nil.
func NormalizeInstagram(handle *string) *string {
	if handle == nil {
		return nil
	}
	first := strings.TrimSpace(strings.Split(*handle, "|")[0])
	if first == "" {
		return nil
	}
	if !strings.HasPrefix(first, "@") {
		first = "@" + first
	}
	return &first
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
