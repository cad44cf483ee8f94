// Package handlers exposes the HTTP surface. Handlers parse and validate
// requests, resolve the acting principal from the JWT claims, invoke the
// services and translate domain errors to HTTP statuses.
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"printhub/internal/services/order"
	"printhub/internal/utils"
)

// principal resolves the acting caller from the request's claims.
func principal(c *fiber.Ctx) (order.Principal, error) {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return order.Principal{}, err
	}
	return order.Principal{UserID: claims.UserID, Role: claims.Role}, nil
}

// paramUint parses a numeric path parameter.
func paramUint(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// paramUUID parses a UUID path parameter.
func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}
