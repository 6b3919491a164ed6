package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/okapi-id/okapi_id/internal/account"
)

// RegisterUserRoutes wires the guarded account CRUD endpoints. The router
// passed in must already carry the session guard.
func RegisterUserRoutes(r fiber.Router, h *account.Handler) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}
