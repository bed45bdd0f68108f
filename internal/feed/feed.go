// Package feed assembles the launcher home feed for a profile.
package feed

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dualspace/launcher/internal/polish"
	"github.com/dualspace/launcher/internal/profile"
	"github.com/dualspace/launcher/internal/ranking"
)

const (
	maxUpcoming      = 2
	balanceThreshold = 5
	timeLayout       = "Mon, Jan 02 at 03:04 PM"
)

// Card is one feed entry.
type Card struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Builder produces feed cards, polishing bodies when a model is configured.
type Builder struct {
	polisher *polish.Polisher
}

// NewBuilder constructs a feed builder. polisher may be nil.
func NewBuilder(polisher *polish.Polisher) *Builder {
	return &Builder{polisher: polisher}
}

// Build returns the cards for p at now.
func (b *Builder) Build(ctx context.Context, p profile.UserProfile, now time.Time) []Card {
	var cards []Card
	add := func(icon, title, body string) {
		cards = append(cards, Card{Icon: icon, Title: title, Body: b.polisher.Polish(ctx, body)})
	}

	switch ranking.PartOfDay(now.Hour()) {
	case ranking.Morning:
		add("🌅", "Good morning!", "Start strong: jot a quick plan in Notes or review a reminder.")
	case ranking.Afternoon:
		add("🌤️", "Good afternoon!", "Take a short focus sprint. Capture ideas in Notes or enjoy a mindful break.")
	default:
		add("🌙", "Good evening!", "Wind down gently. Review your day in Notes or set a reminder for tomorrow.")
	}

	top, count, used := p.MostUsed()
	if used {
		add("📊", "Your activity spotlight",
			fmt.Sprintf("You've opened **%s** %d time(s). Keep momentum or try something new!", top, count))
	} else {
		add("✨", "Try something", "No usage yet. Tap an app to get started.")
	}

	if p.Streak.App != "" && p.Streak.Len >= 2 {
		add("🔥", "Streak on!",
			fmt.Sprintf("You're on a **%d×** streak with **%s**. Want to keep it going?", p.Streak.Len, p.Streak.App))
	}

	if upcoming := Upcoming(p.Reminders, now, maxUpcoming); len(upcoming) > 0 {
		lines := make([]string, len(upcoming))
		for i, r := range upcoming {
			lines[i] = fmt.Sprintf("• **%s**: %s", r.Text, r.Due.Format(timeLayout))
		}
		add("⏰", "Upcoming reminders", strings.Join(lines, "\n"))
	}

	switch {
	case p.Age < 13:
		add("🎨", "Creative spark", "Draw something fun in Creative Canvas, maybe a **space robot** or **dancing tiger**!")
		add("🛡️", "Stay safe", "Always check with a parent before sharing info online.")
	case p.Age < 18:
		add("📚", "Study reminder", "Review today's lessons for at least 20 minutes to stay sharp.")
		add("🎧", "Take a break", "Music or a short walk can help you recharge your focus.")
	default:
		add("💼", "Productivity tip", "Try 25-minute focus sessions with 5-minute breaks for better productivity.")
		add("🌿", "Digital detox", "Step away from screens for a short walk to refresh your mind.")
	}

	if used && count >= balanceThreshold {
		add("🧘", "Balance nudge",
			fmt.Sprintf("You've spent a lot of time in **%s**. A 2-minute pause can reset your focus.", top))
	}

	if p.LastOpenedApp != "" {
		add("🔁", "Continue where you left off",
			fmt.Sprintf("Last opened: **%s**. Want to jump back in?", p.LastOpenedApp))
	}
	return cards
}

// Upcoming returns at most limit dated reminders due at or after now,
// soonest first.
func Upcoming(reminders []profile.Reminder, now time.Time, limit int) []profile.Reminder {
	var out []profile.Reminder
	for _, r := range reminders {
		if r.Due != nil && !r.Due.Before(now) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Due.Before(*out[j].Due) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
