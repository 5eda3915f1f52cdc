package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// ServiceName is reported by the health check
const ServiceName = "ShikshaChain API"

// HandleCheckHealth is a liveness probe; it does not touch the store
func HandleCheckHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "service": ServiceName})
}
