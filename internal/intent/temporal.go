package intent

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	offsetPattern    = regexp.MustCompile(`\bin\s+(\d+)\s+(minutes?|hours?)\b`)
	atClockPattern   = regexp.MustCompile(`\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	bareClockPattern = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
)

// ResolveDue extracts a due time from a reminder command. Precedence is
// tomorrow/today, then "in N minutes|hours", then an explicit clock time,
// then one hour from now. Offsets too large to represent use the default.
// Results are truncated to the minute in now's zone.
func ResolveDue(text string, now time.Time) time.Time {
	t := Normalize(text)
	switch {
	case strings.Contains(t, "tomorrow"):
		day := now.AddDate(0, 0, 1)
		base := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, now.Location())
		if h, m, ok := clock(t); ok {
			return atClock(day, h, m)
		}
		return base
	case strings.Contains(t, "today"):
		if h, m, ok := clock(t); ok {
			return atClock(now, h, m)
		}
		return truncateMinute(now).Add(time.Hour)
	}

	if m := offsetPattern.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			unit := time.Hour
			if strings.HasPrefix(m[2], "minute") {
				unit = time.Minute
			}
			if int64(n) <= math.MaxInt64/int64(unit) {
				return truncateMinute(now.Add(time.Duration(n) * unit))
			}
		}
	}
	if h, m, ok := clock(t); ok {
		return atClock(now, h, m)
	}
	return truncateMinute(now.Add(time.Hour))
}

// clock finds "at H[:MM][am|pm]" or a bare "H[:MM]am|pm" and returns a
// 24-hour time. Out-of-range values are ignored.
func clock(t string) (int, int, bool) {
	m := atClockPattern.FindStringSubmatch(t)
	if m == nil {
		m = bareClockPattern.FindStringSubmatch(t)
	}
	if m == nil {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	minute := 0
	if m[2] != "" {
		if minute, err = strconv.Atoi(m[2]); err != nil {
			return 0, 0, false
		}
	}
	switch m[3] {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func atClock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func truncateMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}
