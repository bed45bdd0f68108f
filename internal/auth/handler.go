package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dualspace/launcher/internal/fingerprint"
	"github.com/dualspace/launcher/internal/imagestore"
	"github.com/dualspace/launcher/internal/profile"
)

// Handler exposes registration and unlock endpoints.
type Handler struct {
	svc      *Service
	sessions *Sessions
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(svc *Service, sessions *Sessions) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

type registerRequest struct {
	Username  string `json:"username"`
	Age       int    `json:"age"`
	PIN       string `json:"pin"`
	FaceImage []byte `json:"face_image"`
}

type unlockRequest struct {
	Username string `json:"username"`
	Image    []byte `json:"image"`
	PIN      string `json:"pin"`
}

type profileResponse struct {
	Username  string `json:"username"`
	Age       int    `json:"age"`
	GuestMode bool   `json:"guest_mode"`
}

type unlockResponse struct {
	Decision  string           `json:"decision"`
	Fallback  string           `json:"fallback,omitempty"`
	Distance  *int             `json:"distance,omitempty"`
	Token     string           `json:"token,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	Profile   *profileResponse `json:"profile,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Register handles profile creation.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Register(c.UserContext(), Enrollment{
		Username: req.Username,
		Age:      req.Age,
		PIN:      req.PIN,
		Face:     req.FaceImage,
	})
	switch {
	case errors.Is(err, profile.ErrExists):
		return fiber.NewError(http.StatusConflict, err.Error())
	case err != nil && isClientError(err):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case err != nil:
		return err
	}
	return c.Status(http.StatusCreated).JSON(profileResponse{Username: p.Username, Age: p.Age})
}

// UnlockFace handles the face-capture unlock step.
func (h *Handler) UnlockFace(c *fiber.Ctx) error {
	var req unlockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.UnlockWithFace(c.UserContext(), req.Username, req.Image)
	return h.respond(c, res, err)
}

// UnlockPIN handles the PIN fallback step.
func (h *Handler) UnlockPIN(c *fiber.Ctx) error {
	var req unlockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.UnlockWithPIN(c.UserContext(), req.Username, req.PIN)
	return h.respond(c, res, err)
}

// UnlockGuest opens a guest session.
func (h *Handler) UnlockGuest(c *fiber.Ctx) error {
	return h.respond(c, h.svc.Guest(), nil)
}

func (h *Handler) respond(c *fiber.Ctx, res Result, err error) error {
	body := unlockResponse{Decision: res.Decision.String()}
	if res.Distance != fingerprint.Invalid {
		d := res.Distance
		body.Distance = &d
	}
	if res.FallbackPIN {
		body.Fallback = "pin"
	}

	if !res.Unlocked() {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, profile.ErrNotFound):
			status = http.StatusNotFound
		case err == nil, isClientError(err),
			errors.Is(err, ErrCredentialMismatch),
			errors.Is(err, imagestore.ErrNotFound):
		default:
			status = http.StatusInternalServerError
		}
		if err != nil {
			body.Error = err.Error()
		}
		return c.Status(status).JSON(body)
	}

	token, sess, err := h.sessions.Issue(res.Profile)
	if err != nil {
		return err
	}
	body.Token = token
	body.ExpiresAt = &sess.ExpiresAt
	body.Profile = &profileResponse{Username: res.Profile.Username, Age: res.Profile.Age, GuestMode: res.Profile.GuestMode}
	return c.Status(http.StatusOK).JSON(body)
}

func isClientError(err error) bool {
	return errors.Is(err, ErrMissingInput) ||
		errors.Is(err, ErrInvalidPIN) ||
		errors.Is(err, ErrInvalidUsername) ||
		errors.Is(err, ErrInvalidAge) ||
		errors.Is(err, fingerprint.ErrMissingInput) ||
		errors.Is(err, fingerprint.ErrDecode) ||
		errors.Is(err, fingerprint.ErrLengthMismatch)
}
