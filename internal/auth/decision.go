package auth

import (
	"errors"

	"github.com/dualspace/launcher/internal/profile"
)

var (
	// ErrMissingInput indicates no image or PIN was supplied.
	ErrMissingInput = errors.New("missing credential")
	// ErrCredentialMismatch indicates the submitted PIN does not match.
	ErrCredentialMismatch = errors.New("credential mismatch")
	// ErrInvalidPIN indicates a PIN that is not exactly four digits.
	ErrInvalidPIN = errors.New("PIN must be 4 digits (numbers only)")
	// ErrInvalidUsername indicates an empty or malformed username.
	ErrInvalidUsername = errors.New("username is required")
	// ErrInvalidAge indicates an age outside 1..120.
	ErrInvalidAge = errors.New("age must be between 1 and 120")
)

// Decision is the state reached by one unlock attempt.
type Decision int

const (
	// Locked is the state before any attempt.
	Locked Decision = iota
	// Unlocked grants access to the profile.
	Unlocked
	// FaceRejected means the face check failed; the PIN path stays open.
	FaceRejected
	// Denied means the PIN check failed; retries are allowed.
	Denied
)

func (d Decision) String() string {
	switch d {
	case Unlocked:
		return "unlocked"
	case FaceRejected:
		return "face_rejected"
	case Denied:
		return "denied"
	default:
		return "locked"
	}
}

// Result describes the outcome of an unlock attempt.
type Result struct {
	Decision Decision
	Profile  profile.UserProfile
	// Distance is the fingerprint distance for face attempts, or -1.
	Distance int
	// FallbackPIN is set when the caller should offer PIN entry.
	FallbackPIN bool
}

// Unlocked reports whether access was granted.
func (r Result) Unlocked() bool {
	return r.Decision == Unlocked
}
