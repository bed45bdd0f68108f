// Package intent turns free-text launcher commands into typed intents.
package intent

import (
	"regexp"
	"strings"
	"time"
)

// Kind identifies what a command asks for.
type Kind int

const (
	Unknown Kind = iota
	Greet
	OpenApp
	MostUsed
	Streak
	ListReminders
	AddReminder
	GetTime
	GetDate
	Joke
	About
	Help
)

var kindNames = map[Kind]string{
	Unknown:       "unknown",
	Greet:         "greet",
	OpenApp:       "open_app",
	MostUsed:      "most_used",
	Streak:        "streak",
	ListReminders: "list_reminders",
	AddReminder:   "add_reminder",
	GetTime:       "get_time",
	GetDate:       "get_date",
	Joke:          "joke",
	About:         "about",
	Help:          "help",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Intent is a classified command. App is set for OpenApp; Task and Due for
// AddReminder.
type Intent struct {
	Kind Kind       `json:"action"`
	App  string     `json:"app,omitempty"`
	Task string     `json:"task,omitempty"`
	Due  *time.Time `json:"due,omitempty"`
}

// DefaultTask is used when a reminder command names no task.
const DefaultTask = "something"

var (
	// Greetings match whole words so app names like "YouTube" never read as "yo".
	greetingPattern = regexp.MustCompile(`\b(?:hello|hi|hey|yo|sup|what'?s up|good (?:morning|afternoon|evening)|how are you|how r u|how ru|how r you)\b`)
	taskPattern     = regexp.MustCompile(`remind(?:\s+me\b)?(?:\s+to\b)?\s*(.*)`)
	openVerbs       = []string{"open ", "launch ", "start "}
)

type rule struct {
	name  string
	match func(i *Interpreter, text string, apps []string) (Intent, bool)
}

// rules are evaluated in order and the first match wins. A text that fits
// several categories resolves to the earliest one listed here.
var rules = []rule{
	{"greeting", func(_ *Interpreter, t string, _ []string) (Intent, bool) {
		return Intent{Kind: Greet}, greetingPattern.MatchString(t)
	}},
	{"open app", func(_ *Interpreter, t string, apps []string) (Intent, bool) {
		app, ok := matchApp(t, apps)
		return Intent{Kind: OpenApp, App: app}, ok
	}},
	{"usage", func(_ *Interpreter, t string, _ []string) (Intent, bool) {
		return Intent{Kind: MostUsed}, containsAny(t, "most used", "what did i do most", "usage")
	}},
	{"streak", func(_ *Interpreter, t string, _ []string) (Intent, bool) {
		return Intent{Kind: Streak}, strings.Contains(t, "streak")
	}},
	{"list reminders", func(_ *Interpreter, t string, _ []string) (Intent, bool) {
		return Intent{Kind: ListReminders}, containsAny(t, "show reminders", "my reminders", "list reminders")
	}},
	{"add reminder", func(i *Interpreter, t string, _ []string) (Intent, bool) {
		if !strings.Contains(t, "remind me") && !strings.HasPrefix(t, "remind ") {
			return Intent{}, false
		}
		task := DefaultTask
		if m := taskPattern.FindStringSubmatch(t); m != nil {
			if s := strings.TrimSpace(m[1]); s != "" {
				task = s
			}
		}
		due := ResolveDue(t, i.now())
		return Intent{Kind: AddReminder, Task: task, Due: &due}, true
	}},
	{"time", func(_ *Interpreter, t string, _ []string) (Intent, bool) {
		return Intent{Kind: GetTime}, strings.Contains(t, "time") && containsAny(t, "what", "current")
	}},
	{"date", func(_ *Interpreter, t string, _ []string) (Intent, bool) {
		return Intent{Kind: GetDate}, containsAny(t, "date", "day is it")
	}},
	{"joke", func(_ *Interpreter, t string, _ []string) (Intent, bool) {
		return Intent{Kind: Joke}, strings.Contains(t, "joke")
	}},
	{"about", func(_ *Interpreter, t string, _ []string) (Intent, bool) {
		return Intent{Kind: About}, containsAny(t, "who created you", "what are you", "who are you")
	}},
	{"help", func(_ *Interpreter, t string, _ []string) (Intent, bool) {
		return Intent{Kind: Help}, containsAny(t, "help", "what can you do")
	}},
}

// Interpreter classifies commands. Now anchors reminder due times.
type Interpreter struct {
	Now func() time.Time
}

// NewInterpreter returns an interpreter on the wall clock.
func NewInterpreter() *Interpreter {
	return &Interpreter{Now: time.Now}
}

func (i *Interpreter) now() time.Time {
	if i == nil || i.Now == nil {
		return time.Now()
	}
	return i.Now()
}

// Classify normalizes text and returns the intent of the first matching rule.
// It never fails: anything unrecognised is Unknown.
func (i *Interpreter) Classify(text string, apps []string) Intent {
	t := Normalize(text)
	if t == "" {
		return Intent{Kind: Unknown}
	}
	for _, r := range rules {
		if in, ok := r.match(i, t, apps); ok {
			return in
		}
	}
	return Intent{Kind: Unknown}
}

// Normalize trims and lowercases a command.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// matchApp finds the app named after an open verb. The longest name wins so
// "my notes" is not mistaken for "notes"; ties keep the caller's order.
func matchApp(t string, apps []string) (string, bool) {
	start := -1
	for _, verb := range openVerbs {
		if idx := strings.Index(t, verb); idx >= 0 && (start < 0 || idx < start) {
			start = idx
		}
	}
	if start < 0 {
		return "", false
	}
	rest := t[start:]
	best, bestLen := "", 0
	for _, app := range apps {
		name := strings.ToLower(strings.TrimSpace(app))
		if name == "" || !strings.Contains(rest, name) {
			continue
		}
		if len(name) > bestLen {
			best, bestLen = app, len(name)
		}
	}
	return best, best != ""
}

func containsAny(t string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}
