package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/dualspace/launcher/internal/logging"
)

// pinApp accepts PIN "1234", answers 400 for an empty PIN and rejects
// anything else with 401.
func pinApp(t *testing.T, maxFailures int) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	app, mr, _ := countingPINApp(t, maxFailures)
	return app, mr
}

// countingPINApp is pinApp that also counts PINs reaching the handler.
func countingPINApp(t *testing.T, maxFailures int) (*fiber.App, *miniredis.Miniredis, *atomic.Int64) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	checked := &atomic.Int64{}
	app := fiber.New()
	app.Post("/unlock/pin", PINAttemptLimit(cache, maxFailures, time.Minute, logging.Discard()), func(c *fiber.Ctx) error {
		var req struct {
			PIN string `json:"pin"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if req.PIN == "" {
			return fiber.NewError(http.StatusBadRequest, "pin is required")
		}
		checked.Add(1)
		if req.PIN != "1234" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"decision": "denied"})
		}
		return c.JSON(fiber.Map{"decision": "unlocked"})
	})
	return app, mr, checked
}

func postPIN(app *fiber.App, username, pin string) (int, error) {
	body := `{"username":"` + username + `","pin":"` + pin + `"}`
	req := httptest.NewRequest(fiber.MethodPost, "/unlock/pin", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func tryPIN(t *testing.T, app *fiber.App, username, pin string) int {
	t.Helper()
	status, err := postPIN(app, username, pin)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return status
}

func TestPINAttemptLimitLocksAfterFailures(t *testing.T) {
	app, mr := pinApp(t, 3)

	for i := 0; i < 3; i++ {
		if got := tryPIN(t, app, "ada", "0000"); got != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, got)
		}
	}
	if got := tryPIN(t, app, "ada", "1234"); got != http.StatusTooManyRequests {
		t.Fatalf("expected lockout, got %d", got)
	}
	if got := tryPIN(t, app, "bob", "1234"); got != http.StatusOK {
		t.Fatalf("lockout must be per username, got %d", got)
	}

	mr.FastForward(2 * time.Minute)
	if got := tryPIN(t, app, "ada", "1234"); got != http.StatusOK {
		t.Fatalf("expected unlock after window, got %d", got)
	}
}

func TestPINAttemptLimitResetsOnSuccess(t *testing.T) {
	app, mr := pinApp(t, 3)

	tryPIN(t, app, "ada", "0000")
	tryPIN(t, app, "ada", "0000")
	if got := tryPIN(t, app, "ada", "1234"); got != http.StatusOK {
		t.Fatalf("expected unlock, got %d", got)
	}
	if mr.Exists(pinAttemptPrefix + "ada") {
		t.Fatalf("expected counter cleared after success")
	}
	tryPIN(t, app, "ada", "0000")
	if got := tryPIN(t, app, "ada", "1234"); got != http.StatusOK {
		t.Fatalf("expected fresh budget, got %d", got)
	}
}

func TestPINAttemptLimitDisabled(t *testing.T) {
	app, _ := pinApp(t, 0)
	for i := 0; i < 10; i++ {
		if got := tryPIN(t, app, "ada", "0000"); got != http.StatusUnauthorized {
			t.Fatalf("expected unlimited retries, got %d", got)
		}
	}
}

func TestPINAttemptLimitHoldsUnderConcurrentGuesses(t *testing.T) {
	app, _, checked := countingPINApp(t, 3)

	var wg sync.WaitGroup
	var denied, limited atomic.Int64
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := postPIN(app, "ada", "0000")
			if err != nil {
				t.Errorf("app.Test: %v", err)
				return
			}
			switch status {
			case http.StatusUnauthorized:
				denied.Add(1)
			case http.StatusTooManyRequests:
				limited.Add(1)
			default:
				t.Errorf("unexpected status %d", status)
			}
		}()
	}
	wg.Wait()

	if checked.Load() != 3 || denied.Load() != 3 || limited.Load() != 37 {
		t.Fatalf("expected 3 PIN checks and 37 lockouts, got checked=%d denied=%d limited=%d",
			checked.Load(), denied.Load(), limited.Load())
	}
}

func TestPINAttemptLimitCounterAlwaysExpires(t *testing.T) {
	app, mr := pinApp(t, 3)
	key := pinAttemptPrefix + "ada"

	tryPIN(t, app, "ada", "0000")
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected counter to expire within the window, ttl=%v", ttl)
	}

	mr.FastForward(30 * time.Second)
	tryPIN(t, app, "ada", "0000")
	if ttl := mr.TTL(key); ttl > 30*time.Second {
		t.Fatalf("later failures must not extend the window, ttl=%v", ttl)
	}

	mr.Set(pinAttemptPrefix+"bob", "1")
	tryPIN(t, app, "bob", "0000")
	if ttl := mr.TTL(pinAttemptPrefix + "bob"); ttl <= 0 {
		t.Fatalf("expected a counter without expiry to be given one, ttl=%v", ttl)
	}
}

func TestPINAttemptLimitReleasesNonPINErrors(t *testing.T) {
	app, _ := pinApp(t, 2)

	for i := 0; i < 5; i++ {
		if got := tryPIN(t, app, "ada", ""); got != http.StatusBadRequest {
			t.Fatalf("attempt %d: expected 400, got %d", i, got)
		}
	}
	if got := tryPIN(t, app, "ada", "1234"); got != http.StatusOK {
		t.Fatalf("malformed requests must not use the PIN budget, got %d", got)
	}
}
