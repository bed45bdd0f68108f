// Package assistant answers launcher commands for an unlocked session.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dualspace/launcher/internal/auth"
	"github.com/dualspace/launcher/internal/intent"
	"github.com/dualspace/launcher/internal/logging"
	"github.com/dualspace/launcher/internal/notification"
	"github.com/dualspace/launcher/internal/profile"
	"github.com/dualspace/launcher/internal/ranking"
)

const (
	maxListedReminders = 5
	reminderTimeLayout = "Mon, Jan 02 at 03:04 PM"
)

const (
	replyUnknown     = "Sorry, didn't get that. Try help."
	replyAbout       = "I'm your AI launcher assistant 🤖"
	replyGuestNoSave = "Reminders aren't saved in guest mode."
	replyHelp        = "Try:\n" +
		"- Open Notes / Launch Gallery\n" +
		"- What's my most used app?\n" +
		"- Show my streak\n" +
		"- Remind me to study tomorrow 7pm\n" +
		"- Show reminders\n" +
		"- What time is it? / What's today's date?\n" +
		"- Tell me a joke"
)

var jokes = []string{
	"Why don't skeletons fight? They don't have the guts.",
	"Why did the computer go to the doctor? It caught a virus.",
	"I told my phone I needed a break… now it sends me Kit-Kats.",
	"Why don't programmers like nature? Too many bugs.",
	"Why did the developer go broke? He used up all his cache.",
}

// Reply is the assistant's answer. OpenApp names an app the launcher should
// bring up.
type Reply struct {
	Text    string `json:"reply"`
	Intent  string `json:"intent"`
	OpenApp string `json:"open_app,omitempty"`
}

// Options tune an Assistant. Zero values use the wall clock and math/rand.
type Options struct {
	Now  func() time.Time
	Pick Picker
}

// Assistant classifies commands and carries them out against the profile.
type Assistant struct {
	interp        *intent.Interpreter
	profiles      *profile.Service
	conversations ConversationStore
	notifier      notification.Notifier
	logger        *slog.Logger
	now           func() time.Time
	pick          Picker
}

// New wires an assistant.
func New(profiles *profile.Service, conversations ConversationStore, notifier notification.Notifier, logger *slog.Logger, opts Options) *Assistant {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Pick == nil {
		opts.Pick = rand.IntN
	}
	if conversations == nil {
		conversations = NewMemoryConversationStore()
	}
	return &Assistant{
		interp:        &intent.Interpreter{Now: opts.Now},
		profiles:      profiles,
		conversations: conversations,
		notifier:      notifier,
		logger:        logging.Component(logger, "assistant"),
		now:           opts.Now,
		pick:          opts.Pick,
	}
}

// Respond answers one command for the session.
func (a *Assistant) Respond(ctx context.Context, sess auth.Session, text string) (Reply, error) {
	p, err := a.load(ctx, sess)
	if err != nil {
		return Reply{}, err
	}
	apps := ranking.Names(ranking.Catalog(p.Age))
	in := a.interp.Classify(text, apps)

	conv, err := a.conversations.Load(ctx, sess.ID)
	if err != nil {
		a.logger.Warn("load conversation", slog.String("session", sess.ID), slog.Any("error", err))
	}
	if in.Kind == intent.Greet {
		reply := conv.Greet(text, a.pick)
		a.saveConversation(ctx, sess.ID, conv)
		return Reply{Text: reply, Intent: in.Kind.String()}, nil
	}
	if conv.GreetCount > 0 {
		conv.Interrupt()
		a.saveConversation(ctx, sess.ID, conv)
	}

	reply, err := a.handle(ctx, sess, p, in)
	if err != nil {
		return Reply{}, err
	}
	reply.Intent = in.Kind.String()
	a.logger.Debug("command handled",
		slog.String("username", sess.Username),
		slog.String("intent", reply.Intent),
	)
	return reply, nil
}

func (a *Assistant) load(ctx context.Context, sess auth.Session) (profile.UserProfile, error) {
	if sess.Guest {
		return sess.GuestProfile(), nil
	}
	return a.profiles.Get(ctx, sess.Username)
}

func (a *Assistant) saveConversation(ctx context.Context, id string, conv Conversation) {
	if err := a.conversations.Save(ctx, id, conv); err != nil {
		a.logger.Warn("save conversation", slog.String("session", id), slog.Any("error", err))
	}
}

func (a *Assistant) handle(ctx context.Context, sess auth.Session, p profile.UserProfile, in intent.Intent) (Reply, error) {
	switch in.Kind {
	case intent.OpenApp:
		if !sess.Guest {
			if _, err := a.profiles.RecordAppOpen(ctx, sess.Username, in.App); err != nil {
				return Reply{}, fmt.Errorf("record open: %w", err)
			}
		}
		return Reply{Text: fmt.Sprintf("Opening %s ✅", in.App), OpenApp: in.App}, nil

	case intent.MostUsed:
		app, n, ok := p.MostUsed()
		if !ok {
			return Reply{Text: "No usage data yet."}, nil
		}
		return Reply{Text: fmt.Sprintf("Most used: %s (%d times).", app, n)}, nil

	case intent.Streak:
		if p.Streak.App != "" && p.Streak.Len > 1 {
			return Reply{Text: fmt.Sprintf("🔥 %d× streak with %s!", p.Streak.Len, p.Streak.App)}, nil
		}
		return Reply{Text: "No active streak yet."}, nil

	case intent.ListReminders:
		return Reply{Text: listReminders(p.Reminders)}, nil

	case intent.AddReminder:
		if sess.Guest {
			return Reply{Text: replyGuestNoSave}, nil
		}
		r, err := a.profiles.AddReminder(ctx, sess.Username, in.Task, in.Due)
		if err != nil {
			if errors.Is(err, profile.ErrEmptyReminder) {
				return Reply{Text: replyUnknown}, nil
			}
			return Reply{}, fmt.Errorf("add reminder: %w", err)
		}
		a.notify(ctx, sess.Username, r)
		return Reply{Text: fmt.Sprintf("Reminder added ✅ %s (%s)", r.Text, humanTime(r.Due))}, nil

	case intent.GetTime:
		return Reply{Text: "⏰ " + a.now().Format("03:04 PM")}, nil

	case intent.GetDate:
		return Reply{Text: "📅 " + a.now().Format("Monday, January 02, 2006")}, nil

	case intent.Joke:
		return Reply{Text: choose(jokes, a.pick)}, nil

	case intent.About:
		return Reply{Text: replyAbout}, nil

	case intent.Help:
		return Reply{Text: replyHelp}, nil
	}
	return Reply{Text: replyUnknown}, nil
}

func (a *Assistant) notify(ctx context.Context, username string, r profile.Reminder) {
	if a.notifier == nil {
		return
	}
	msg := notification.Message{
		Kind:        notification.KindReminderAdded,
		Destination: username,
		Body:        r.Text,
	}
	if r.Due != nil {
		msg.Due = *r.Due
	}
	if err := a.notifier.Send(ctx, msg); err != nil {
		a.logger.Warn("reminder notification failed", slog.String("username", username), slog.Any("error", err))
	}
}

func listReminders(reminders []profile.Reminder) string {
	if len(reminders) == 0 {
		return "No reminders set."
	}
	sorted := profile.SortReminders(reminders)
	if len(sorted) > maxListedReminders {
		sorted = sorted[:maxListedReminders]
	}
	var b strings.Builder
	b.WriteString("Reminders:")
	for _, r := range sorted {
		fmt.Fprintf(&b, "\n- %s (%s)", r.Text, humanTime(r.Due))
	}
	return b.String()
}

func humanTime(due *time.Time) string {
	if due == nil || due.IsZero() {
		return "soon"
	}
	return due.Format(reminderTimeLayout)
}
