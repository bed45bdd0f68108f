package profile

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrNotFound indicates no profile exists for the username.
	ErrNotFound = errors.New("profile not found")
	// ErrExists indicates the username is already registered.
	ErrExists = errors.New("username already exists")
	// ErrGuest is returned when a guest profile is handed to the store.
	ErrGuest = errors.New("guest profiles are not persisted")
)

// GuestUsername is the display name of the ephemeral guest profile.
const GuestUsername = "Guest"

// Streak counts consecutive opens of the same app.
type Streak struct {
	App string `json:"app"`
	Len int    `json:"len"`
}

// Reminder is an immutable note with an optional due time.
type Reminder struct {
	Text      string     `json:"text"`
	Due       *time.Time `json:"due"`
	CreatedAt time.Time  `json:"created_at"`
}

// UserProfile is the per-user record shared by authentication, the assistant
// and the launcher ranking.
type UserProfile struct {
	Username      string         `json:"username"`
	Age           int            `json:"age"`
	PINHash       string         `json:"pin_hash,omitempty"`
	FaceHash      string         `json:"face_hash,omitempty"`
	UsageCounts   map[string]int `json:"usage_counts"`
	LastOpenedApp string         `json:"last_opened_app"`
	Streak        Streak         `json:"streak"`
	Wallpaper     string         `json:"wallpaper"`
	Reminders     []Reminder     `json:"reminders"`
	GuestMode     bool           `json:"guest_mode,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Guest returns the non-persistent guest stub.
func Guest() UserProfile {
	return UserProfile{
		Username:    GuestUsername,
		Age:         25,
		GuestMode:   true,
		UsageCounts: map[string]int{},
	}
}

// withDefaults fills collections left nil by older records.
func withDefaults(p UserProfile) UserProfile {
	if p.UsageCounts == nil {
		p.UsageCounts = map[string]int{}
	}
	if p.Reminders == nil {
		p.Reminders = []Reminder{}
	}
	return p
}

// clone returns a deep copy so callers never share maps or slices.
func (p UserProfile) clone() UserProfile {
	out := p
	out.UsageCounts = make(map[string]int, len(p.UsageCounts))
	for k, v := range p.UsageCounts {
		out.UsageCounts[k] = v
	}
	out.Reminders = append([]Reminder(nil), p.Reminders...)
	return withDefaults(out)
}

// MostUsed returns the app with the highest usage count. Ties go to the
// lexically smaller name so the answer is stable.
func (p UserProfile) MostUsed() (string, int, bool) {
	var (
		best  string
		count int
	)
	for app, n := range p.UsageCounts {
		if n > count || (n == count && n > 0 && app < best) {
			best, count = app, n
		}
	}
	return best, count, count > 0
}

// SortReminders orders reminders by due time ascending; undated reminders
// go last in creation order.
func SortReminders(reminders []Reminder) []Reminder {
	out := append([]Reminder(nil), reminders...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Due, out[j].Due
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out
}
