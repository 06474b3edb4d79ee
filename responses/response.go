package responses

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/services"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Result     interface{} `json:"result,omitempty"`
	Results    interface{} `json:"results,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func OK(c *fiber.Ctx, status int, message string, result interface{}) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Result: result})
}

func List(c *fiber.Ctx, message string, results interface{}, pagination *Pagination) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success:    true,
		Message:    message,
		Results:    results,
		Pagination: pagination,
	})
}

func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Message: message})
}

const internalMessage = "Internal server error"

// StatusFor maps an error onto the HTTP status and the message shown to the client.
func StatusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrInsufficientCredit),
		errors.Is(err, services.ErrAlreadyAssigned):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrNotAssigned),
		errors.Is(err, services.ErrRoleForbidden),
		errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound, "Resource not found"
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, services.ErrStockUnavailable):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrPaymentGateway):
		return fiber.StatusInternalServerError, err.Error()
	}
	return fiber.StatusInternalServerError, internalMessage
}

// Error writes err as an envelope. Server errors are logged with the
// original cause.
func Error(c *fiber.Ctx, log logger.Logger, err error) error {
	status, message := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.WithContext(c.UserContext()).Error("request failed",
			logger.String("method", c.Method()),
			logger.String("path", c.Path()),
			logger.Error(err))
	}
	return Fail(c, status, message)
}

// ErrorHandler is the fiber.Config error handler for errors that escape a handler.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return Error(c, log, err)
	}
}
