package accountController

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/controllers"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/responses"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/services"
)

type Profiles interface {
	Profile(ctx context.Context, userID primitive.ObjectID) (*services.Profile, error)
}

type AccountController struct {
	profiles Profiles
	log      logger.Logger
}

func NewAccountController(profiles Profiles, log logger.Logger) *AccountController {
	return &AccountController{profiles: profiles, log: log}
}

// GetProfile returns the caller's wallet and credit standing.
func (h *AccountController) GetProfile(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	profile, err := h.profiles.Profile(ctx, actor.ID)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Profile fetched successfully", profile)
}
