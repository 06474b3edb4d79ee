package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
)

// RequestLogger logs every request once it completes. It expects the
// requestid middleware to run first.
func RequestLogger(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		// Ctx strings are reused once the handler returns.
		method := utils.CopyString(c.Method())
		path := utils.CopyString(c.Path())

		requestID, _ := c.Locals("requestid").(string)
		if requestID != "" {
			c.SetUserContext(logger.ContextWithRequestID(c.UserContext(), requestID))
		}

		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		fields := []logger.Field{
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", c.Response().StatusCode()),
			logger.Any("latency", time.Since(start)),
		}
		if requestID != "" {
			fields = append(fields, logger.String("request_id", requestID))
		}

		if c.Response().StatusCode() >= fiber.StatusInternalServerError {
			log.Error("request", fields...)
		} else {
			log.Info("request", fields...)
		}
		return nil
	}
}
