package ranking

import "fmt"

// Streak mirrors the profile streak: consecutive opens of one app.
type Streak struct {
	App string
	Len int
}

// active reports whether the streak is long enough to influence ranking.
func (s Streak) active() bool {
	return s.App != "" && s.Len >= 2
}

// SuggestInput carries everything Suggest looks at. Apps is the caller's
// available list in display order.
type SuggestInput struct {
	Usage  map[string]int
	Apps   []string
	Streak Streak
	Hour   int
}

// Suggestion is the head of the candidate ordering and the reason it won.
type Suggestion struct {
	App      string   `json:"app"`
	Reason   string   `json:"reason"`
	Ordering []string `json:"ordering"`
}

// Empty reports whether there was nothing to suggest.
func (s Suggestion) Empty() bool {
	return s.App == ""
}

// Suggest picks the primary app. Candidates are the day part's preferred apps
// that are available, with an active streak app moved to the front, then the
// most used available app, then everything else in input order.
func Suggest(in SuggestInput) Suggestion {
	if len(in.Apps) == 0 {
		return Suggestion{}
	}
	available := make(map[string]bool, len(in.Apps))
	for _, app := range in.Apps {
		available[app] = true
	}

	part := PartOfDay(in.Hour)
	tod := preferred[part]
	order := make([]string, 0, len(in.Apps))
	seen := make(map[string]bool, len(in.Apps))
	push := func(app string) {
		if !seen[app] {
			seen[app] = true
			order = append(order, app)
		}
	}

	streakApp := ""
	if in.Streak.active() && available[in.Streak.App] {
		streakApp = in.Streak.App
		push(streakApp)
	}
	for _, app := range tod {
		if available[app] {
			push(app)
		}
	}
	mostUsed := mostUsedOf(in.Usage, in.Apps)
	if mostUsed != "" {
		push(mostUsed)
	}
	for _, app := range in.Apps {
		push(app)
	}

	chosen := order[0]
	var reason string
	switch {
	case chosen == streakApp:
		reason = fmt.Sprintf("keep your streak going (%d×)!", in.Streak.Len)
	case contains(tod, chosen):
		reason = "great for the " + part.String()
	case chosen == mostUsed:
		reason = "you use this most"
	default:
		reason = "recommended for you"
	}
	return Suggestion{App: chosen, Reason: reason, Ordering: order}
}

// mostUsedOf returns the available app with the highest positive count. Ties
// go to the app listed first.
func mostUsedOf(usage map[string]int, apps []string) string {
	best, bestCount := "", 0
	for _, app := range apps {
		if n := usage[app]; n > bestCount {
			best, bestCount = app, n
		}
	}
	return best
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
