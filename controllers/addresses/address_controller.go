package addressController

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/controllers"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/responses"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/services"
)

type AddressBook interface {
	AddAddress(ctx context.Context, userID primitive.ObjectID, in services.AddressInput) (*models.Address, error)
	Addresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID primitive.ObjectID) error
}

type AddressController struct {
	book AddressBook
	log  logger.Logger
}

func NewAddressController(book AddressBook, log logger.Logger) *AddressController {
	return &AddressController{book: book, log: log}
}

func (h *AddressController) AddAddress(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	var req services.AddressInput
	if err := controllers.Body(c, &req); err != nil {
		return responses.Error(c, h.log, err)
	}

	address, err := h.book.AddAddress(ctx, actor.ID, req)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusCreated, "Address added successfully", address)
}

func (h *AddressController) GetAddresses(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	addresses, err := h.book.Addresses(ctx, actor.ID)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return responses.OK(c, fiber.StatusOK, "Addresses fetched successfully", addresses)
}

func (h *AddressController) DeleteAddress(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	addressID, err := controllers.ObjectIDParam(c, "id")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	if err := h.book.DeleteAddress(ctx, actor.ID, addressID); err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Address deleted successfully", nil)
}
