package routes

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dualspace/launcher/internal/assistant"
	"github.com/dualspace/launcher/internal/auth"
	"github.com/dualspace/launcher/internal/feed"
	"github.com/dualspace/launcher/internal/middleware"
	"github.com/dualspace/launcher/internal/polish"
	"github.com/dualspace/launcher/internal/profile"
	"github.com/dualspace/launcher/internal/ranking"
)

type launcherHandlers struct {
	profiles  *profile.Service
	assistant *assistant.Assistant
	feed      *feed.Builder
	polisher  *polish.Polisher
	now       func() time.Time
}

// profileView is the client facing profile; credential digests stay server side.
type profileView struct {
	Username      string             `json:"username"`
	Age           int                `json:"age"`
	UsageCounts   map[string]int     `json:"usage_counts"`
	LastOpenedApp string             `json:"last_opened_app"`
	Streak        profile.Streak     `json:"streak"`
	Wallpaper     string             `json:"wallpaper"`
	Reminders     []profile.Reminder `json:"reminders"`
	GuestMode     bool               `json:"guest_mode"`
}

func viewOf(p profile.UserProfile) profileView {
	usage := p.UsageCounts
	if usage == nil {
		usage = map[string]int{}
	}
	return profileView{
		Username:      p.Username,
		Age:           p.Age,
		UsageCounts:   usage,
		LastOpenedApp: p.LastOpenedApp,
		Streak:        p.Streak,
		Wallpaper:     p.Wallpaper,
		Reminders:     profile.SortReminders(p.Reminders),
		GuestMode:     p.GuestMode,
	}
}

type rankedApp struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Score int    `json:"score"`
}

type wellbeingEntry struct {
	Username    string         `json:"username"`
	Age         int            `json:"age"`
	UsageCounts map[string]int `json:"usage_counts"`
	TotalOpens  int            `json:"total_opens"`
	MostUsed    string         `json:"most_used,omitempty"`
}

// RegisterLauncherRoutes wires the session endpoints. idempotency, when not
// nil, guards app-open events against retries.
func RegisterLauncherRoutes(r fiber.Router, h launcherHandlers, idempotency fiber.Handler) {
	r.Get("/me", h.me)
	r.Get("/launcher", h.home)
	if idempotency != nil {
		r.Post("/apps/open", idempotency, h.openApp)
	} else {
		r.Post("/apps/open", h.openApp)
	}
	r.Post("/assistant", h.ask)
	r.Get("/reminders", h.reminders)
	r.Get("/feed", h.feedCards)
	r.Get("/briefing", h.briefing)
	r.Get("/wellbeing", h.wellbeing)
}

func (h launcherHandlers) session(c *fiber.Ctx) (auth.Session, error) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return auth.Session{}, fiber.NewError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}

// current loads the session's profile; guests get their ephemeral stub.
func (h launcherHandlers) current(c *fiber.Ctx) (auth.Session, profile.UserProfile, error) {
	sess, err := h.session(c)
	if err != nil {
		return sess, profile.UserProfile{}, err
	}
	if sess.Guest {
		return sess, sess.GuestProfile(), nil
	}
	p, err := h.profiles.Get(c.UserContext(), sess.Username)
	if errors.Is(err, profile.ErrNotFound) {
		return sess, p, fiber.NewError(http.StatusUnauthorized, "profile no longer exists")
	}
	return sess, p, err
}

func (h launcherHandlers) me(c *fiber.Ctx) error {
	_, p, err := h.current(c)
	if err != nil {
		return err
	}
	return c.JSON(viewOf(p))
}

func (h launcherHandlers) home(c *fiber.Ctx) error {
	_, p, err := h.current(c)
	if err != nil {
		return err
	}
	hour := c.QueryInt("hour", h.now().Hour())
	if hour < 0 || hour > 23 {
		return fiber.NewError(http.StatusBadRequest, "hour must be between 0 and 23")
	}

	catalog := ranking.Catalog(p.Age)
	icons := make(map[string]string, len(catalog))
	for _, a := range catalog {
		icons[a.Name] = a.Icon
	}
	names := ranking.Names(catalog)
	streak := ranking.Streak{App: p.Streak.App, Len: p.Streak.Len}

	ranked := ranking.Rank(names, p.UsageCounts, streak, hour)
	apps := make([]rankedApp, len(ranked))
	for i, s := range ranked {
		apps[i] = rankedApp{Name: s.App, Icon: icons[s.App], Score: s.Score}
	}
	suggestion := ranking.Suggest(ranking.SuggestInput{
		Usage:  p.UsageCounts,
		Apps:   names,
		Streak: streak,
		Hour:   hour,
	})
	return c.JSON(fiber.Map{
		"day_part":   ranking.PartOfDay(hour).String(),
		"apps":       apps,
		"suggestion": suggestion,
	})
}

func (h launcherHandlers) openApp(c *fiber.Ctx) error {
	sess, p, err := h.current(c)
	if err != nil {
		return err
	}
	var req struct {
		App string `json:"app"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	app, ok := lookupApp(p.Age, req.App)
	if !ok {
		return fiber.NewError(http.StatusNotFound, "app not available for this profile")
	}
	if sess.Guest {
		return c.JSON(fiber.Map{"app": app, "streak": profile.Streak{App: app, Len: 1}, "usage_count": 1})
	}
	updated, err := h.profiles.RecordAppOpen(c.UserContext(), sess.Username, app)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"app":         app,
		"streak":      updated.Streak,
		"usage_count": updated.UsageCounts[app],
	})
}

func lookupApp(age int, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, a := range ranking.Catalog(age) {
		if strings.EqualFold(a.Name, name) {
			return a.Name, true
		}
	}
	return "", false
}

func (h launcherHandlers) ask(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	reply, err := h.assistant.Respond(c.UserContext(), sess, req.Text)
	if errors.Is(err, profile.ErrNotFound) {
		return fiber.NewError(http.StatusUnauthorized, "profile no longer exists")
	}
	if err != nil {
		return err
	}
	return c.JSON(reply)
}

func (h launcherHandlers) reminders(c *fiber.Ctx) error {
	_, p, err := h.current(c)
	if err != nil {
		return err
	}
	reminders := profile.SortReminders(p.Reminders)
	if reminders == nil {
		reminders = []profile.Reminder{}
	}
	return c.JSON(fiber.Map{"reminders": reminders})
}

func (h launcherHandlers) feedCards(c *fiber.Ctx) error {
	_, p, err := h.current(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"cards": h.feed.Build(c.UserContext(), p, h.now())})
}

func (h launcherHandlers) briefing(c *fiber.Ctx) error {
	_, p, err := h.current(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"briefing": h.polisher.Briefing(c.UserContext(), p)})
}

// wellbeing lets an adult profile review the usage of under-18 profiles.
func (h launcherHandlers) wellbeing(c *fiber.Ctx) error {
	sess, p, err := h.current(c)
	if err != nil {
		return err
	}
	if sess.Guest || p.Age < 18 {
		return fiber.NewError(http.StatusForbidden, "wellbeing is available to adult profiles only")
	}
	all, err := h.profiles.List(c.UserContext())
	if err != nil {
		return err
	}
	out := []wellbeingEntry{}
	for _, child := range all {
		if child.Age >= 18 {
			continue
		}
		entry := wellbeingEntry{Username: child.Username, Age: child.Age, UsageCounts: child.UsageCounts}
		if entry.UsageCounts == nil {
			entry.UsageCounts = map[string]int{}
		}
		for _, n := range entry.UsageCounts {
			entry.TotalOpens += n
		}
		if app, _, ok := child.MostUsed(); ok {
			entry.MostUsed = app
		}
		out = append(out, entry)
	}
	return c.JSON(fiber.Map{"profiles": out})
}
