package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/geo"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

func franchiseAt(hex string, lat, lng float64, status models.FranchiseStatus) models.Franchise {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return models.Franchise{ID: id, Status: status, Location: &models.GeoPoint{Lat: lat, Lng: lng}}
}

func TestNearest(t *testing.T) {
	customer := geo.Point{Lat: 28.61, Lng: 77.31}

	near := franchiseAt("000000000000000000000002", 28.6, 77.3, models.FranchiseActive)
	far := franchiseAt("000000000000000000000001", 19.07, 72.87, models.FranchiseActive)
	inactiveNearest := franchiseAt("000000000000000000000003", 28.61, 77.31, models.FranchiseBlocked)
	noLocation := models.Franchise{ID: primitive.NewObjectID(), Status: models.FranchiseActive}
	antipode := franchiseAt("000000000000000000000004", -28.61, -102.69, models.FranchiseActive)

	tests := []struct {
		name       string
		franchises []models.Franchise
		wantID     primitive.ObjectID
		wantOK     bool
	}{
		{"single active franchise", []models.Franchise{near}, near.ID, true},
		{"closest wins", []models.Franchise{far, near}, near.ID, true},
		{"inactive nearest is skipped", []models.Franchise{inactiveNearest, far}, far.ID, true},
		{"antipodal franchise listed first", []models.Franchise{antipode, near}, near.ID, true},
		{"only antipodal franchise", []models.Franchise{antipode}, antipode.ID, true},
		{"only inactive", []models.Franchise{inactiveNearest}, primitive.NilObjectID, false},
		{"missing location", []models.Franchise{noLocation}, primitive.NilObjectID, false},
		{"none", nil, primitive.NilObjectID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, distance, ok := Nearest(customer, tt.franchises)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
			assert.GreaterOrEqual(t, distance, 0.0)
		})
	}
}

func TestNearest_AntipodalDistanceIsFinite(t *testing.T) {
	antipode := franchiseAt("000000000000000000000004", -28.61, -102.69, models.FranchiseActive)

	got, distance, ok := Nearest(geo.Point{Lat: 28.61, Lng: 77.31}, []models.Franchise{antipode})
	require.True(t, ok)
	assert.Equal(t, antipode.ID, got.ID)
	assert.False(t, math.IsNaN(distance))
	assert.InDelta(t, math.Pi*geo.EarthRadiusKm, distance, 1)
}

func TestNearest_TieGoesToLowestID(t *testing.T) {
	a := franchiseAt("00000000000000000000000b", 28.6, 77.3, models.FranchiseActive)
	b := franchiseAt("00000000000000000000000a", 28.6, 77.3, models.FranchiseActive)

	got, _, ok := Nearest(geo.Point{Lat: 28.61, Lng: 77.31}, []models.Franchise{a, b})
	require.True(t, ok)
	assert.Equal(t, b.ID, got.ID)

	got, _, ok = Nearest(geo.Point{Lat: 28.61, Lng: 77.31}, []models.Franchise{b, a})
	require.True(t, ok)
	assert.Equal(t, b.ID, got.ID)
}

func TestFranchiseAssigner_Assign(t *testing.T) {
	ctx := context.Background()
	active := franchiseAt("000000000000000000000010", 28.6, 77.3, models.FranchiseActive)

	geocoder := new(mockGeocoder)
	geocoder.On("Geocode", mock.Anything, "Sector 18, Noida").Return(geo.Point{Lat: 28.61, Lng: 77.31}, nil)

	assigner := NewFranchiseAssigner(geocoder, &fakeFranchises{franchises: []models.Franchise{active}}, logger.NewNop())
	got := assigner.Assign(ctx, "Sector 18, Noida")

	require.NotNil(t, got.FranchiseID)
	assert.Equal(t, active.ID, *got.FranchiseID)
	assert.Equal(t, &models.GeoPoint{Lat: 28.61, Lng: 77.31}, got.Location)
	geocoder.AssertExpectations(t)
}

func TestFranchiseAssigner_InactiveNearestLeavesUnassigned(t *testing.T) {
	blocked := franchiseAt("000000000000000000000011", 28.6, 77.3, models.FranchiseBlocked)

	geocoder := new(mockGeocoder)
	geocoder.On("Geocode", mock.Anything, mock.Anything).Return(geo.Point{Lat: 28.61, Lng: 77.31}, nil)

	assigner := NewFranchiseAssigner(geocoder, &fakeFranchises{franchises: []models.Franchise{blocked}}, logger.NewNop())
	got := assigner.Assign(context.Background(), "Noida")

	assert.Nil(t, got.FranchiseID)
	assert.NotNil(t, got.Location)
}

func TestFranchiseAssigner_GeocodingFailureIsSwallowed(t *testing.T) {
	geocoder := new(mockGeocoder)
	geocoder.On("Geocode", mock.Anything, mock.Anything).Return(geo.Point{}, geo.ErrNoResults)

	franchises := &fakeFranchises{franchises: []models.Franchise{
		franchiseAt("000000000000000000000012", 28.6, 77.3, models.FranchiseActive),
	}}
	got := NewFranchiseAssigner(geocoder, franchises, logger.NewNop()).Assign(context.Background(), "nowhere")

	assert.Equal(t, Assignment{}, got)
}

func TestFranchiseAssigner_LookupFailureKeepsLocation(t *testing.T) {
	geocoder := new(mockGeocoder)
	geocoder.On("Geocode", mock.Anything, mock.Anything).Return(geo.Point{Lat: 1, Lng: 2}, nil)

	franchises := &fakeFranchises{err: errors.New("db down")}
	got := NewFranchiseAssigner(geocoder, franchises, logger.NewNop()).Assign(context.Background(), "x")

	assert.Nil(t, got.FranchiseID)
	assert.Equal(t, &models.GeoPoint{Lat: 1, Lng: 2}, got.Location)
}
