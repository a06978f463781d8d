package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/clientsdb/internal/metrics"
	"github.com/localnerve/clientsdb/internal/types"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends a standard error response
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":    fiber.StatusNotFound,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	})
}

// StatusOf maps an error category to its HTTP status.
func StatusOf(category types.Category) int {
	switch category {
	case types.CategoryNotFound:
		return fiber.StatusNotFound
	case types.CategoryConflict:
		return fiber.StatusConflict
	case types.CategoryBadRequest:
		return fiber.StatusBadRequest
	case types.CategoryUnauthorized:
		return fiber.StatusUnauthorized
	case types.CategoryForbidden:
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

// DomainErrorResponse sends the response for a service error. Non domain
// errors become a generic 500 so store details never reach the caller.
func DomainErrorResponse(c *fiber.Ctx, err error) error {
	var de *types.DomainError
	if !errors.As(err, &de) {
		metrics.RecordDomainError(string(types.KindInternal))
		return ErrorResponse(c, "Internal Server Error", fiber.StatusInternalServerError, string(types.KindInternal))
	}

	metrics.RecordDomainError(string(de.Kind))
	if de.Kind == types.KindInvalidCredentials {
		c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="clientsdb"`)
	}
	return ErrorResponse(c, de.Message, StatusOf(de.Kind.Category()), string(de.Kind))
}

// MutationSuccessResponse sends a success response for deletes
func MutationSuccessResponse(c *fiber.Ctx, affectedRows int64, details any) error {
	body := fiber.Map{
		"message":      "Success",
		"ok":           true,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"affectedRows": affectedRows,
	}
	if details != nil {
		body["details"] = details
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}

// SuccessResponseStruct defines the schema for mutation success responses
type SuccessResponseStruct struct {
	Message      string `json:"message"`
	Ok           bool   `json:"ok"`
	Timestamp    string `json:"timestamp"`
	AffectedRows int64  `json:"affectedRows"`
	Details      any    `json:"details,omitempty"`
}
