package polish

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dualspace/launcher/internal/profile"
)

const (
	briefingIncomplete  = "Could not generate content. User profile is incomplete."
	briefingUnavailable = "Sorry, I'm having trouble connecting to the AI at the moment. Please try again later."
)

// BriefingPrompt builds the age-tailored daily briefing prompt.
func BriefingPrompt(p profile.UserProfile) string {
	name := p.Username
	if name == "" {
		name = "User"
	}
	switch {
	case p.Age < 13:
		return fmt.Sprintf(`You are a fun and friendly AI assistant for a kid's operating system.
Your user's name is %s.

Generate a short, exciting daily briefing for them. Include the following sections using markdown:
- A "Fun Fact of the Day" about animals or space.
- A "Creative Challenge" with a simple, fun drawing idea (e.g., "a robot playing soccer").

Make it cheerful and use emojis!`, name)
	case p.Age < 18:
		return fmt.Sprintf(`You are a cool and helpful AI assistant for a teenager's operating system.
Your user's name is %s.

Generate a short, interesting daily briefing for them. Include the following sections using markdown:
- A "Study Tip" for a common subject like Math or History.
- A "Did You Know?" section about a fascinating historical event or scientific discovery.

Keep the tone encouraging and modern.`, name)
	default:
		return fmt.Sprintf(`You are a professional and efficient AI assistant for an adult's operating system.
Your user's name is %s.

Generate a concise, professional daily briefing. Include the following sections using markdown headings:
- A "Productivity Hack" to help them with their work or daily tasks.
- A brief, one-sentence "Market Snapshot" about a major (but generic) global economic trend.

Keep the tone sharp and informative.`, name)
	}
}

// Briefing generates the daily briefing for a profile. It never fails:
// incomplete profiles and model errors produce fixed texts.
func (p *Polisher) Briefing(ctx context.Context, u profile.UserProfile) string {
	if u.Age <= 0 {
		return briefingIncomplete
	}
	out, err := p.Generate(ctx, BriefingPrompt(u))
	if err != nil {
		if p != nil {
			p.logger.Warn("briefing unavailable", slog.String("username", u.Username), slog.Any("error", err))
		}
		return briefingUnavailable
	}
	return out
}
