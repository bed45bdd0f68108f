package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dualspace/launcher/internal/profile"
)

type profileSummary struct {
	Username string `json:"username"`
	Age      int    `json:"age"`
}

// RegisterProfileRoutes exposes the profile picker shown on the lock screen.
func RegisterProfileRoutes(r fiber.Router, profiles *profile.Service) {
	r.Get("/profiles", func(c *fiber.Ctx) error {
		all, err := profiles.List(c.UserContext())
		if err != nil {
			return err
		}
		out := make([]profileSummary, len(all))
		for i, p := range all {
			out[i] = profileSummary{Username: p.Username, Age: p.Age}
		}
		return c.JSON(fiber.Map{"profiles": out})
	})
}
