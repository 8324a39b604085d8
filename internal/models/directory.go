package models

import "time"

// PlaceNotFound marks a salon whose place id lookup failed for good
const PlaceNotFound = "NOT_FOUND"

// Salon is a physical location listing stylists
type Salon struct {
	ID                string     `gorm:"primaryKey;type:text" json:"id"`
	Name              string     `gorm:"type:text;not null" json:"name"`
	StreetAddress     string     `gorm:"type:text;not null" json:"streetAddress"`
	SuiteUnit         *string    `gorm:"type:text" json:"suiteUnit"`
	City              string     `gorm:"type:text;not null" json:"city"`
	State             string     `gorm:"type:text;not null" json:"state"`
	ZipCode           string     `gorm:"type:text;not null" json:"zipCode"`
	Phone             *string    `gorm:"type:text" json:"phone"`
	Website           *string    `gorm:"type:text" json:"website"`
	Photo             *string    `gorm:"type:text" json:"photo"`
	Lat               *float64   `json:"lat"`
	Lng               *float64   `json:"lng"`
	FullAddress       string     `gorm:"type:text;not null" json:"fullAddress"`
	GooglePlaceID     *string    `gorm:"type:text;index" json:"googlePlaceId"`
	GoogleRating      *float64   `json:"googleRating"`
	GoogleReviewCount *int       `json:"googleReviewCount"`
	GoogleReviewsURL  *string    `gorm:"column:google_reviews_url;type:text" json:"googleReviewsUrl"`
	LastGoogleSync    *time.Time `json:"lastGoogleSync"`
	Stylists          []Stylist  `gorm:"foreignKey:SalonID" json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// PlaceID returns the stored place id or "" when unset
func (s *Salon) PlaceID() string {
	if s.GooglePlaceID == nil {
		return ""
	}
	return *s.GooglePlaceID
}

// HasCoordinates reports whether both coordinates are stored
func (s *Salon) HasCoordinates() bool {
	return s.Lat != nil && s.Lng != nil
}

// Stylist is a listed professional working at a salon
type Stylist struct {
	ID             string          `gorm:"primaryKey;type:text" json:"id"`
	SalonID        string          `gorm:"type:text;not null;index" json:"salonId"`
	Name           string          `gorm:"type:text;not null" json:"name"`
	Phone          *string         `gorm:"type:text" json:"phone"`
	Email          *string         `gorm:"type:text" json:"email"`
	Website        *string         `gorm:"type:text" json:"website"`
	Instagram      *string         `gorm:"type:text" json:"instagram"`
	ProfilePhoto   *string         `gorm:"type:text" json:"profilePhoto"`
	Verified       bool            `gorm:"not null;default:false" json:"verified"`
	CanBookOnline  bool            `gorm:"not null;default:false" json:"canBookOnline"`
	CurlyCutPrice  *float64        `json:"curlyCutPrice"`
	Certifications []Certification `gorm:"many2many:stylist_certifications" json:"certifications"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Certification is a credential a stylist may hold
type Certification struct {
	ID           string  `gorm:"primaryKey;type:text" json:"id"`
	Name         string  `gorm:"type:text;not null" json:"name"`
	Level        *string `gorm:"type:text" json:"level,omitempty"`
	Organization *string `gorm:"type:text" json:"organization,omitempty"`
	Description  *string `gorm:"type:text" json:"description,omitempty"`
}

// StylistName is the id/name pair used for mention matching
type StylistName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlaceDetails is reputation data fetched for a salon
type PlaceDetails struct {
	PlaceID     string
	Rating      *float64
	ReviewCount *int
	ReviewsURL  *string
}
