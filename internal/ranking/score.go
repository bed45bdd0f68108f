package ranking

import "sort"

const (
	streakWeight = 2
	dayPartBonus = 5
)

var (
	morningBoost = []string{"Workspace", "Study Planner", "My Notes"}
	eveningBoost = []string{"Creative Canvas", "Learning Zone", "Games"}
)

// Scored is an app with its dashboard score.
type Scored struct {
	App   string `json:"app"`
	Score int    `json:"score"`
}

// Score is usage count, plus twice the streak length for the streak app when
// the streak is longer than one, plus a bonus for apps suited to the hour:
// morning [6,12) and evening [18,23).
func Score(app string, usage map[string]int, streak Streak, hour int) int {
	score := usage[app]
	if streak.App == app && streak.Len > 1 {
		score += streak.Len * streakWeight
	}
	switch {
	case hour >= 6 && hour < 12 && contains(morningBoost, app):
		score += dayPartBonus
	case hour >= 18 && hour < 23 && contains(eveningBoost, app):
		score += dayPartBonus
	}
	return score
}

// Rank scores apps and sorts them by descending score. Equal scores keep
// their input order.
func Rank(apps []string, usage map[string]int, streak Streak, hour int) []Scored {
	out := make([]Scored, len(apps))
	for i, app := range apps {
		out[i] = Scored{App: app, Score: Score(app, usage, streak, hour)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
