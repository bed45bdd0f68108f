package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dualspace/launcher/internal/profile"
)

func TestSessionsIssueAndParse(t *testing.T) {
	sessions := NewSessions("secret", time.Hour)
	token, issued, err := sessions.Issue(profile.UserProfile{Username: "ada", Age: 12})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := sessions.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.ID != issued.ID || got.Username != "ada" || got.Age != 12 || got.Guest {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestSessionsGuestFlag(t *testing.T) {
	sessions := NewSessions("secret", time.Hour)
	token, _, err := sessions.Issue(profile.Guest())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := sessions.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Guest || got.GuestProfile().Age != 25 {
		t.Fatalf("expected guest session, got %+v", got)
	}
}

func TestSessionsRejectsExpiredAndForeignTokens(t *testing.T) {
	sessions := NewSessions("secret", time.Minute)
	sessions.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := sessions.Issue(profile.UserProfile{Username: "ada", Age: 30})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sessions.now = time.Now
	if _, err := sessions.Parse(expired); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected expired token rejection, got %v", err)
	}

	other := NewSessions("other-secret", time.Hour)
	foreign, _, _ := other.Issue(profile.UserProfile{Username: "ada", Age: 30})
	if _, err := sessions.Parse(foreign); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected signature rejection, got %v", err)
	}

	if _, err := sessions.Parse(""); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected empty token rejection, got %v", err)
	}
}
