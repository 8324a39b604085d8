package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zfogg/curlmap/backend/internal/models"
	"gorm.io/gorm"
)

// DirectoryRepository reads directory rows and persists enrichment results
type DirectoryRepository interface {
	ListSalons(ctx context.Context) ([]models.Salon, error)
	GetSalon(ctx context.Context, salonID string) (*models.Salon, error)
	ListCertifications(ctx context.Context) ([]models.Certification, error)
	ListStylistNames(ctx context.Context) ([]models.StylistName, error)

	UpdateCoordinates(ctx context.Context, salonID string, lat, lng float64) error
	SavePlaceID(ctx context.Context, salonID, placeID string) error
	MarkPlaceNotFound(ctx context.Context, salonID string, at time.Time) error
	SavePlaceDetails(ctx context.Context, salonID string, details models.PlaceDetails, at time.Time) error
}

type directoryRepository struct {
	db *gorm.DB
}

// NewDirectoryRepository creates a new directory repository
func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &directoryRepository{db: db}
}

func (r *directoryRepository) withStylists(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Stylists", func(db *gorm.DB) *gorm.DB {
			return db.Order("stylists.name ASC").Order("stylists.id ASC")
		}).
		Preload("Stylists.Certifications", func(db *gorm.DB) *gorm.DB {
			return db.Order("certifications.name ASC")
		})
}

// ListSalons returns every salon with stylists and their certifications
func (r *directoryRepository) ListSalons(ctx context.Context) ([]models.Salon, error) {
	salons := make([]models.Salon, 0)
	err := r.withStylists(ctx).
		Order("name ASC").
		Order("id ASC").
		Find(&salons).Error
	if err != nil {
		return nil, fmt.Errorf("list salons: %w", err)
	}
	return salons, nil
}

// GetSalon returns a single salon with stylists
func (r *directoryRepository) GetSalon(ctx context.Context, salonID string) (*models.Salon, error) {
	var salon models.Salon
	err := r.withStylists(ctx).Where("id = ?", salonID).First(&salon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSalonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get salon: %w", err)
	}
	return &salon, nil
}

// ListCertifications returns every certification
func (r *directoryRepository) ListCertifications(ctx context.Context) ([]models.Certification, error) {
	certs := make([]models.Certification, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&certs).Error; err != nil {
		return nil, fmt.Errorf("list certifications: %w", err)
	}
	return certs, nil
}

// ListStylistNames returns the id/name roster used for mention matching
func (r *directoryRepository) ListStylistNames(ctx context.Context) ([]models.StylistName, error) {
	names := make([]models.StylistName, 0)
	err := r.db.WithContext(ctx).
		Model(&models.Stylist{}).
		Select("id", "name").
		Order("id ASC").
		Find(&names).Error
	if err != nil {
		return nil, fmt.Errorf("list stylist names: %w", err)
	}
	return names, nil
}

func (r *directoryRepository) updateSalon(ctx context.Context, salonID string, values map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&models.Salon{}).
		Where("id = ?", salonID).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSalonNotFound
	}
	return nil
}

// UpdateCoordinates stores geocoded coordinates
func (r *directoryRepository) UpdateCoordinates(ctx context.Context, salonID string, lat, lng float64) error {
	return r.updateSalon(ctx, salonID, map[string]interface{}{
		"lat": lat,
		"lng": lng,
	})
}

// SavePlaceID stores a resolved place id
func (r *directoryRepository) SavePlaceID(ctx context.Context, salonID, placeID string) error {
	return r.updateSalon(ctx, salonID, map[string]interface{}{
		"google_place_id": placeID,
	})
}

// MarkPlaceNotFound records a permanent lookup failure so it is not retried
func (r *directoryRepository) MarkPlaceNotFound(ctx context.Context, salonID string, at time.Time) error {
	return r.updateSalon(ctx, salonID, map[string]interface{}{
		"google_place_id":  models.PlaceNotFound,
		"last_google_sync": at,
	})
}

// SavePlaceDetails stores reputation data. Absent fields keep their old value.
func (r *directoryRepository) SavePlaceDetails(ctx context.Context, salonID string, details models.PlaceDetails, at time.Time) error {
	values := map[string]interface{}{
		"last_google_sync": at,
	}
	if details.Rating != nil {
		values["google_rating"] = *details.Rating
	}
	if details.ReviewCount != nil {
		values["google_review_count"] = *details.ReviewCount
	}
	if details.ReviewsURL != nil {
		values["google_reviews_url"] = *details.ReviewsURL
	}
	return r.updateSalon(ctx, salonID, values)
}
