package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/okapi-id/okapi_id/internal/auth"
)

// RegisterAuthRoutes wires the public registration and login endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/register", h.Register)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
}
