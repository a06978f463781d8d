package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/clientsdb/internal/types"
	"github.com/sirupsen/logrus"
)

// ErrorHandler builds the fiber error handler. Domain errors map through
// their category, transport errors keep their status, and anything else
// is logged and reported as a 500.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			de *types.DomainError
			ce *types.CustomError
			fe *fiber.Error
		)
		switch {
		case errors.As(err, &de):
			if de.Kind.Category() == types.CategoryInternal {
				log.WithError(err).WithField("url", c.OriginalURL()).Error("request failed")
			}
			return DomainErrorResponse(c, err)
		case errors.As(err, &ce):
			return ErrorResponse(c, ce.Message, ce.Code, ce.Type)
		case errors.As(err, &fe):
			return ErrorResponse(c, fe.Message, fe.Code, "http")
		}

		log.WithError(err).WithField("url", c.OriginalURL()).Error("request failed")
		return DomainErrorResponse(c, err)
	}
}
