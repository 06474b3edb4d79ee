package controllers

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/middlewares"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/responses"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/services"
)

// RequestTimeout bounds the store and gateway work of a single request.
var RequestTimeout = 10 * time.Second

func Context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), RequestTimeout)
}

// Actor returns the authenticated caller.
func Actor(c *fiber.Ctx) (models.Actor, error) {
	actor, ok := middlewares.ActorFrom(c)
	if !ok {
		return models.Actor{}, services.ErrUnauthorized
	}
	return actor, nil
}

// ObjectIDParam parses a hex ObjectID from the named path parameter.
func ObjectIDParam(c *fiber.Ctx, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// ObjectIDValue parses a hex ObjectID from a body field.
func ObjectIDValue(hex, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusBadRequest, "Invalid "+field)
	}
	return id, nil
}

// PageQuery reads ?page and ?limit. Unparseable values fall back to the defaults.
func PageQuery(c *fiber.Ctx) repository.Page {
	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if err != nil {
		limit = 10
	}
	return repository.Page{Page: page, Limit: limit}.Normalized()
}

func Pagination(page repository.Page, total int64) *responses.Pagination {
	page = page.Normalized()
	return &responses.Pagination{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: page.TotalPages(total),
	}
}

// Body parses the request body, reporting a malformed payload as a 400.
func Body(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}
