// Package ranking orders launcher apps by time of day, streaks and usage.
package ranking

// DayPart is a time-of-day bucket.
type DayPart int

const (
	Morning DayPart = iota
	Afternoon
	Evening
)

func (d DayPart) String() string {
	switch d {
	case Morning:
		return "morning"
	case Afternoon:
		return "afternoon"
	default:
		return "evening"
	}
}

// PartOfDay buckets an hour: [6,12) morning, [12,18) afternoon, otherwise evening.
func PartOfDay(hour int) DayPart {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	default:
		return Evening
	}
}

var preferred = map[DayPart][]string{
	Morning:   {"Calendar", "News", "Study", "Notes"},
	Afternoon: {"Games", "YouTube", "Camera", "Music"},
	Evening:   {"Relaxation", "Sleep", "Books", "Music", "Notes"},
}

// Preferred lists the apps suited to a day part.
func Preferred(d DayPart) []string {
	return append([]string(nil), preferred[d]...)
}
