package assistant

import "strings"

// escalateAfter is the number of consecutive greetings after which the
// responder switches to the "still here" pool.
const escalateAfter = 3

var (
	howAreYouReplies = []string{
		"Doing great! How about you?",
		"All good 🚀 Ready to help!",
		"I'm awesome, how are you?",
	}
	repeatedGreetingReplies = []string{
		"Haha, lots of hellos 😄",
		"Still here 👋 Want me to do something?",
		"Hello again! Ready when you are.",
	}
	greetingReplies = []string{
		"Hello 👋",
		"Hey! How's it going?",
		"Hi there!",
		"Good to see you!",
		"Yo 👊",
	}
)

// Picker returns an index in [0, n).
type Picker func(n int) int

// Conversation is the greeting state of one session.
type Conversation struct {
	LastGreeting string `json:"last_greeting"`
	GreetCount   int    `json:"greet_count"`
}

// Greet produces a greeting reply and advances the state. "How are you"
// questions get their own pool. After more than escalateAfter greetings in a
// row the reply acknowledges the repetition. Otherwise the previous reply is
// never repeated back to back.
func (c *Conversation) Greet(text string, pick Picker) string {
	c.GreetCount++
	lower := strings.ToLower(text)

	var reply string
	switch {
	case strings.Contains(lower, "how are") || strings.Contains(lower, "how r"):
		reply = choose(howAreYouReplies, pick)
	case c.GreetCount > escalateAfter:
		reply = choose(repeatedGreetingReplies, pick)
	default:
		pool := make([]string, 0, len(greetingReplies))
		for _, r := range greetingReplies {
			if r != c.LastGreeting {
				pool = append(pool, r)
			}
		}
		if len(pool) == 0 {
			pool = greetingReplies
		}
		reply = choose(pool, pick)
	}
	c.LastGreeting = reply
	return reply
}

// Interrupt ends a run of greetings.
func (c *Conversation) Interrupt() {
	c.GreetCount = 0
}

func choose(pool []string, pick Picker) string {
	i := pick(len(pool))
	if i < 0 || i >= len(pool) {
		i = 0
	}
	return pool[i]
}
