package services

import (
	"context"
	"fmt"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

type SettingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// DeliveryConstraints falls back to the defaults when nothing is stored.
func (s *SettingsService) DeliveryConstraints(ctx context.Context) (models.DeliveryConstraints, error) {
	var c models.DeliveryConstraints
	found, err := s.repo.Get(ctx, models.DeliveryConstraintsKey, &c)
	if err != nil {
		return models.DeliveryConstraints{}, fmt.Errorf("load delivery constraints: %w", err)
	}
	if !found {
		return models.DefaultDeliveryConstraints(), nil
	}
	return c, nil
}

func (s *SettingsService) UpdateDeliveryConstraints(ctx context.Context, c models.DeliveryConstraints) (models.DeliveryConstraints, error) {
	if c.BaseFee < 0 || c.FreeMov < 0 {
		return models.DeliveryConstraints{}, validation("baseFee and freeMov must not be negative")
	}
	if c.Tax < 0 || c.Tax > 100 {
		return models.DeliveryConstraints{}, validation("tax must be a percentage between 0 and 100")
	}
	if err := s.repo.Set(ctx, models.DeliveryConstraintsKey, c); err != nil {
		return models.DeliveryConstraints{}, err
	}
	return c, nil
}
