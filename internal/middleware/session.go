package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dualspace/launcher/internal/auth"
)

const sessionLocal = "launcher_session"

// SessionAuth requires a valid bearer session token and stores the session
// on the request.
func SessionAuth(sessions *auth.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		sess, err := sessions.Parse(strings.TrimSpace(authz[len("Bearer "):]))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid session")
		}
		c.Locals(sessionLocal, sess)
		return c.Next()
	}
}

// CurrentSession returns the session stored by SessionAuth.
func CurrentSession(c *fiber.Ctx) (auth.Session, bool) {
	sess, ok := c.Locals(sessionLocal).(auth.Session)
	return sess, ok
}
