package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/curlmap/backend/internal/models"
	"github.com/zfogg/curlmap/backend/internal/testutil"
)

func TestDirectoryListSalonsPreloads(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDirectoryRepository(db)
	ctx := context.Background()

	cert := models.Certification{ID: "cert-devacurl", Name: "DevaCurl"}
	require.NoError(t, db.Create(&cert).Error)

	testutil.SeedSalon(t, db, "salon-b", "Wave Lab",
		models.Stylist{ID: "sty-2", Name: "Zoe Park"},
		models.Stylist{ID: "sty-1", Name: "Ana Ruiz", Certifications: []models.Certification{cert}},
	)
	testutil.SeedSalon(t, db, "salon-a", "Curl House")

	salons, err := repo.ListSalons(ctx)
	require.NoError(t, err)
	require.Len(t, salons, 2)
	assert.Equal(t, "Curl House", salons[0].Name)
	assert.Empty(t, salons[0].Stylists)

	require.Len(t, salons[1].Stylists, 2)
	assert.Equal(t, "Ana Ruiz", salons[1].Stylists[0].Name)
	require.Len(t, salons[1].Stylists[0].Certifications, 1)
	assert.Equal(t, "DevaCurl", salons[1].Stylists[0].Certifications[0].Name)

	certs, err := repo.ListCertifications(ctx)
	require.NoError(t, err)
	assert.Len(t, certs, 1)

	names, err := repo.ListStylistNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.StylistName{
		{ID: "sty-1", Name: "Ana Ruiz"},
		{ID: "sty-2", Name: "Zoe Park"},
	}, names)
}

func TestDirectoryGetSalon(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDirectoryRepository(db)

	testutil.SeedSalon(t, db, "salon-a", "Curl House")

	salon, err := repo.GetSalon(context.Background(), "salon-a")
	require.NoError(t, err)
	assert.Equal(t, "Curl House", salon.Name)

	_, err = repo.GetSalon(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSalonNotFound)
}

func TestDirectoryEnrichmentWrites(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDirectoryRepository(db)
	ctx := context.Background()
	testutil.SeedSalon(t, db, "salon-a", "Curl House")
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpdateCoordinates(ctx, "salon-a", 43.15, -77.61))
	require.NoError(t, repo.SavePlaceID(ctx, "salon-a", "place-123"))

	rating := 4.8
	require.NoError(t, repo.SavePlaceDetails(ctx, "salon-a", models.PlaceDetails{Rating: &rating}, now))

	salon, err := repo.GetSalon(ctx, "salon-a")
	require.NoError(t, err)
	require.True(t, salon.HasCoordinates())
	assert.InDelta(t, 43.15, *salon.Lat, 1e-9)
	assert.Equal(t, "place-123", salon.PlaceID())
	assert.InDelta(t, 4.8, *salon.GoogleRating, 1e-9)
	assert.Nil(t, salon.GoogleReviewCount)
	assert.Nil(t, salon.GoogleReviewsURL)
	require.NotNil(t, salon.LastGoogleSync)
	assert.True(t, now.Equal(*salon.LastGoogleSync))

	require.NoError(t, repo.MarkPlaceNotFound(ctx, "salon-a", now.Add(time.Hour)))
	salon, err = repo.GetSalon(ctx, "salon-a")
	require.NoError(t, err)
	assert.Equal(t, models.PlaceNotFound, salon.PlaceID())
	assert.InDelta(t, 4.8, *salon.GoogleRating, 1e-9, "rating survives a later miss")

	assert.ErrorIs(t, repo.SavePlaceID(ctx, "missing", "x"), ErrSalonNotFound)
}
