package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dualspace/launcher/internal/auth"
)

// RegisterAuthRoutes wires enrollment and unlock endpoints. The PIN route
// goes through the attempt limiter when one is given.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, pinLimiter fiber.Handler) {
	r.Post("/register", h.Register)
	group := r.Group("/unlock")
	group.Post("/face", h.UnlockFace)
	if pinLimiter != nil {
		group.Post("/pin", pinLimiter, h.UnlockPIN)
	} else {
		group.Post("/pin", h.UnlockPIN)
	}
	group.Post("/guest", h.UnlockGuest)
}
