package profile

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyReminder is returned when a reminder has no text.
var ErrEmptyReminder = errors.New("reminder text is required")

// RecordOpen applies one app-open event: it extends or resets the streak,
// remembers the app as last opened and bumps its usage count. The input is
// not modified.
func RecordOpen(p UserProfile, app string) UserProfile {
	out := p.clone()
	if app == out.LastOpenedApp {
		out.Streak.App = app
		out.Streak.Len++
	} else {
		out.Streak = Streak{App: app, Len: 1}
	}
	out.LastOpenedApp = app
	out.UsageCounts[app]++
	return out
}

// WithReminder appends a reminder. The input is not modified.
func WithReminder(p UserProfile, text string, due *time.Time, now time.Time) (UserProfile, Reminder, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return p, Reminder{}, ErrEmptyReminder
	}
	r := Reminder{Text: text, CreatedAt: now}
	if due != nil {
		d := *due
		r.Due = &d
	}
	out := p.clone()
	out.Reminders = append(out.Reminders, r)
	return out, r, nil
}
