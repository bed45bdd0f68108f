package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dualspace/launcher/internal/auth"
	"github.com/dualspace/launcher/internal/profile"
)

func TestSessionAuth(t *testing.T) {
	sessions := auth.NewSessions("secret", time.Hour)
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/me", SessionAuth(sessions), func(c *fiber.Ctx) error {
		sess, ok := CurrentSession(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(sess.Username)
	})

	token, _, err := sessions.Issue(profile.UserProfile{Username: "ada", Age: 30})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
			if resp.Header.Get(requestIDHeader) == "" {
				t.Fatalf("expected request id header")
			}
		})
	}
}
