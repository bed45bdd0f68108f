package ranking

// App is a launcher entry.
type App struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var (
	childApps = []App{
		{"Creative Canvas", "🎨"}, {"Learning Zone", "🧠"}, {"Story Time", "🎬"},
		{"Photo Album", "🖼️"}, {"My Notes", "📝"},
	}
	teenApps = []App{
		{"Social Hub", "💬"}, {"Study Planner", "📚"}, {"Music Stream", "🎧"},
		{"Photo Booth", "📸"}, {"Web Browser", "🌐"},
	}
	adultApps = []App{
		{"Workspace", "💼"}, {"Mail", "📧"}, {"Calendar", "📅"},
		{"Finance Tracker", "🏦"}, {"Wellbeing", "📊"},
	}
)

// Catalog returns the apps offered to a user of the given age: under 13,
// under 18, or adult.
func Catalog(age int) []App {
	var src []App
	switch {
	case age < 13:
		src = childApps
	case age < 18:
		src = teenApps
	default:
		src = adultApps
	}
	return append([]App(nil), src...)
}

// Names extracts app names in order.
func Names(apps []App) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = a.Name
	}
	return out
}
