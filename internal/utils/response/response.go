package response

import (
	"github.com/gofiber/fiber/v2"

	"printhub/internal/errors"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

// Domain maps a typed domain error to its HTTP status; anything else is a
// server error.
func Domain(c *fiber.Ctx, err error) error {
	derr, ok := err.(*errors.DomainError)
	if !ok {
		return ServerError(c, err.Error())
	}
	status := fiber.StatusInternalServerError
	switch derr.Kind {
	case errors.KindValidation:
		status = fiber.StatusBadRequest
	case errors.KindNotFound:
		status = fiber.StatusNotFound
	case errors.KindStateConflict:
		status = fiber.StatusConflict
	case errors.KindUnauthorized:
		status = fiber.StatusForbidden
	}
	body := fiber.Map{
		"error": derr.Message,
		"code":  derr.Code,
	}
	if len(derr.Fields) > 0 {
		body["fields"] = derr.Fields
	}
	return c.Status(status).JSON(body)
}
