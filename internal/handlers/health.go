package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printhub/internal/repositories"
)

func HealthCheck(c *fiber.Ctx) error {
	dbStatus := "connected"
	if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unreachable"
	}

	redisStatus := "connected"
	if repositories.RedisClient == nil ||
		repositories.RedisClient.Ping(c.Context()).Err() != nil {
		redisStatus = "unreachable"
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
