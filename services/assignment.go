package services

import (
	"bytes"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/geo"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

// Assignment is the outcome of franchise selection. Both fields may be nil:
// an order without a franchise is left open for any franchise to accept.
type Assignment struct {
	FranchiseID *primitive.ObjectID
	Location    *models.GeoPoint
}

type Assigner interface {
	Assign(ctx context.Context, address string) Assignment
}

type FranchiseAssigner struct {
	geocoder   geo.Geocoder
	franchises repository.FranchiseRepository
	log        logger.Logger
}

func NewFranchiseAssigner(geocoder geo.Geocoder, franchises repository.FranchiseRepository, log logger.Logger) *FranchiseAssigner {
	return &FranchiseAssigner{geocoder: geocoder, franchises: franchises, log: log}
}

// Assign never fails; geocoding and lookup errors leave the order unassigned.
func (a *FranchiseAssigner) Assign(ctx context.Context, address string) Assignment {
	point, err := a.geocoder.Geocode(ctx, address)
	if err != nil {
		a.log.WithContext(ctx).Warn("geocoding failed, order left unassigned",
			logger.String("address", address), logger.Error(err))
		return Assignment{}
	}
	result := Assignment{Location: &models.GeoPoint{Lat: point.Lat, Lng: point.Lng}}

	candidates, err := a.franchises.ListActiveWithLocation(ctx)
	if err != nil {
		a.log.WithContext(ctx).Error("load franchises for assignment", logger.Error(err))
		return result
	}

	nearest, distance, ok := Nearest(point, candidates)
	if !ok {
		a.log.WithContext(ctx).Info("no active franchise with a location, order left unassigned")
		return result
	}

	id := nearest.ID
	result.FranchiseID = &id
	a.log.WithContext(ctx).Debug("franchise assigned",
		logger.String("franchise_id", id.Hex()), logger.Float64("distance_km", distance))
	return result
}

// Nearest returns the closest active franchise with a location. Equal
// distances go to the lowest id.
func Nearest(from geo.Point, franchises []models.Franchise) (*models.Franchise, float64, bool) {
	var best *models.Franchise
	bestDistance := 0.0

	for i := range franchises {
		f := &franchises[i]
		if f.Status != models.FranchiseActive || f.Location == nil {
			continue
		}
		d := geo.Haversine(from, geo.Point{Lat: f.Location.Lat, Lng: f.Location.Lng})
		if best == nil || d < bestDistance || (d == bestDistance && bytes.Compare(f.ID[:], best.ID[:]) < 0) {
			best, bestDistance = f, d
		}
	}
	return best, bestDistance, best != nil
}
