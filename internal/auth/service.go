package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dualspace/launcher/internal/fingerprint"
	"github.com/dualspace/launcher/internal/imagestore"
	"github.com/dualspace/launcher/internal/logging"
	"github.com/dualspace/launcher/internal/notification"
	"github.com/dualspace/launcher/internal/profile"
)

// DefaultThreshold is the largest accepted distance out of 64 bits.
const DefaultThreshold = 10

// Options tunes the service.
type Options struct {
	Threshold int
	PINCost   int
	Now       func() time.Time

	// Notifier, when set, is told about new enrollments.
	Notifier notification.Notifier
}

// Service decides unlock attempts and enrolls new users.
type Service struct {
	profiles  *profile.Service
	images    imagestore.Store
	logger    *slog.Logger
	threshold int
	pinCost   int
	now       func() time.Time
	notifier  notification.Notifier
}

// NewService creates a new authentication service.
func NewService(profiles *profile.Service, images imagestore.Store, logger *slog.Logger, opts Options) *Service {
	s := &Service{
		profiles:  profiles,
		images:    images,
		logger:    logging.Component(logger, "auth"),
		threshold: opts.Threshold,
		pinCost:   opts.PINCost,
		now:       opts.Now,
		notifier:  opts.Notifier,
	}
	if s.threshold <= 0 {
		s.threshold = DefaultThreshold
	}
	if s.pinCost == 0 {
		s.pinCost = bcrypt.DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Threshold returns the configured match threshold.
func (s *Service) Threshold() int {
	return s.threshold
}

// Enrollment is the data captured at registration.
type Enrollment struct {
	Username string
	Age      int
	PIN      string
	Face     []byte
}

// Register validates the enrollment, fingerprints the face once, stores the
// image and creates the profile.
func (s *Service) Register(ctx context.Context, e Enrollment) (profile.UserProfile, error) {
	username := strings.TrimSpace(e.Username)
	switch {
	case username == "" || strings.EqualFold(username, profile.GuestUsername):
		return profile.UserProfile{}, ErrInvalidUsername
	case e.Age < 1 || e.Age > 120:
		return profile.UserProfile{}, ErrInvalidAge
	case !validPIN(e.PIN):
		return profile.UserProfile{}, ErrInvalidPIN
	case len(e.Face) == 0:
		return profile.UserProfile{}, fmt.Errorf("%w: face image", ErrMissingInput)
	}

	face, err := fingerprint.Compute(e.Face)
	if err != nil {
		return profile.UserProfile{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(e.PIN), s.pinCost)
	if err != nil {
		return profile.UserProfile{}, err
	}

	p := profile.UserProfile{
		Username:    username,
		Age:         e.Age,
		PINHash:     string(hash),
		FaceHash:    face.String(),
		UsageCounts: map[string]int{},
		Reminders:   []profile.Reminder{},
		CreatedAt:   s.now().UTC(),
	}
	// The image is written only after the username is claimed, so a losing
	// concurrent registration cannot replace the winner's reference photo.
	err = s.profiles.Create(ctx, p, func(ctx context.Context) error {
		return s.images.Save(ctx, username, e.Face)
	})
	if err != nil {
		return profile.UserProfile{}, err
	}
	s.logger.Info("profile registered", slog.String("username", username), slog.Int("age", e.Age))
	if s.notifier != nil {
		msg := notification.Message{Kind: notification.KindProfileRegistered, Destination: username, Body: "Welcome aboard!"}
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.logger.Warn("registration notification failed", slog.String("username", username), slog.Any("error", err))
		}
	}
	return p, nil
}

// UnlockWithFace compares a live capture against the enrolled fingerprint.
// Every failure, including decode and lookup errors, yields FaceRejected.
func (s *Service) UnlockWithFace(ctx context.Context, username string, capture []byte) (Result, error) {
	p, err := s.profiles.Get(ctx, username)
	if err != nil {
		return Result{Decision: Denied, Distance: fingerprint.Invalid}, err
	}
	rejected := Result{Decision: FaceRejected, Distance: fingerprint.Invalid, FallbackPIN: true}

	if len(capture) == 0 {
		return rejected, fmt.Errorf("%w: face capture", ErrMissingInput)
	}
	reference, err := s.reference(ctx, p)
	if err != nil {
		return rejected, err
	}
	live, err := fingerprint.Compute(capture)
	if err != nil {
		return rejected, err
	}
	distance, err := fingerprint.Distance(live, reference)
	if err != nil {
		return rejected, err
	}

	rejected.Distance = distance
	if !fingerprint.Matches(distance, s.threshold) {
		s.logger.Info("face rejected", slog.String("username", username), slog.Int("distance", distance))
		return rejected, nil
	}
	s.logger.Info("face unlocked", slog.String("username", username), slog.Int("distance", distance))
	return Result{Decision: Unlocked, Profile: p, Distance: distance}, nil
}

// reference returns the enrolled fingerprint, recomputing it from the stored
// image (and persisting it) for profiles enrolled before hashes were stored.
func (s *Service) reference(ctx context.Context, p profile.UserProfile) (fingerprint.Hash, error) {
	if p.FaceHash != "" {
		if h, err := fingerprint.Parse(p.FaceHash); err == nil {
			return h, nil
		}
		s.logger.Warn("stored face hash unreadable, recomputing", slog.String("username", p.Username))
	}
	img, err := s.images.ReadBytes(ctx, p.Username)
	if err != nil {
		return fingerprint.Hash{}, err
	}
	h, err := fingerprint.Compute(img)
	if err != nil {
		return fingerprint.Hash{}, err
	}
	_, err = s.profiles.Update(ctx, p.Username, func(cur profile.UserProfile) (profile.UserProfile, error) {
		cur.FaceHash = h.String()
		return cur, nil
	})
	if err != nil {
		s.logger.Warn("persist face hash", slog.String("username", p.Username), slog.Any("error", err))
	}
	return h, nil
}

// UnlockWithPIN verifies the PIN fallback. A mismatch is Denied and may be retried.
func (s *Service) UnlockWithPIN(ctx context.Context, username, pin string) (Result, error) {
	denied := Result{Decision: Denied, Distance: fingerprint.Invalid, FallbackPIN: true}
	if strings.TrimSpace(pin) == "" {
		return denied, fmt.Errorf("%w: PIN", ErrMissingInput)
	}
	p, err := s.profiles.Get(ctx, username)
	if err != nil {
		return denied, err
	}
	if p.PINHash == "" {
		return denied, ErrCredentialMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PINHash), []byte(pin)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.Info("PIN rejected", slog.String("username", username))
			return denied, ErrCredentialMismatch
		}
		return denied, err
	}
	return Result{Decision: Unlocked, Profile: p, Distance: fingerprint.Invalid}, nil
}

// Guest unlocks the ephemeral guest profile without any check.
func (s *Service) Guest() Result {
	return Result{Decision: Unlocked, Profile: profile.Guest(), Distance: fingerprint.Invalid}
}

func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
