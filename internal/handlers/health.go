package handlers

import (
	"github.com/artmarket/backend/internal/database"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	DB  *gorm.DB
	Env string
}

func NewHealthHandler(db *gorm.DB, env string) *HealthHandler {
	return &HealthHandler{DB: db, Env: env}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "connected"
	if err := database.Ping(h.DB); err != nil {
		dbStatus = "disconnected"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"message": "Server is running",
		"database": fiber.Map{
			"status": dbStatus,
		},
		"environment": h.Env,
	})
}
