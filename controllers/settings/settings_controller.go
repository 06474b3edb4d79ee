package settingsController

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/controllers"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/responses"
)

type DeliverySettings interface {
	DeliveryConstraints(ctx context.Context) (models.DeliveryConstraints, error)
	UpdateDeliveryConstraints(ctx context.Context, c models.DeliveryConstraints) (models.DeliveryConstraints, error)
}

type SettingsController struct {
	settings DeliverySettings
	log      logger.Logger
}

func NewSettingsController(settings DeliverySettings, log logger.Logger) *SettingsController {
	return &SettingsController{settings: settings, log: log}
}

func (h *SettingsController) GetDeliveryConstraints(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	constraints, err := h.settings.DeliveryConstraints(ctx)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Delivery constraints fetched successfully", constraints)
}

func (h *SettingsController) UpdateDeliveryConstraints(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	var req models.DeliveryConstraints
	if err := controllers.Body(c, &req); err != nil {
		return responses.Error(c, h.log, err)
	}

	constraints, err := h.settings.UpdateDeliveryConstraints(ctx, req)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Delivery constraints updated", constraints)
}
