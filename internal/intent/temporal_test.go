package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveDue(t *testing.T) {
	now := time.Date(2024, time.March, 14, 10, 20, 33, 500, time.UTC)
	at := func(day, hour, minute int) time.Time {
		return time.Date(2024, time.March, day, hour, minute, 0, 0, time.UTC)
	}
	cases := []struct {
		text string
		want time.Time
	}{
		{"remind me tomorrow", at(15, 9, 0)},
		{"remind me tomorrow at 5pm", at(15, 17, 0)},
		{"remind me tomorrow at 7:45 am", at(15, 7, 45)},
		{"study tomorrow 7pm", at(15, 19, 0)},
		{"remind me today", at(14, 11, 20)},
		{"remind me today at 6pm", at(14, 18, 0)},
		{"in 30 minutes", at(14, 10, 50)},
		{"in 1 minute", at(14, 10, 21)},
		{"in 2 hours", at(14, 12, 20)},
		{"at 12am", at(14, 0, 0)},
		{"at 12pm", at(14, 12, 0)},
		{"at 11:15", at(14, 11, 15)},
		{"at 9 pm", at(14, 21, 0)},
		{"call mom", at(14, 11, 20)},
		{"at 25", at(14, 11, 20)},
		{"at 10:75", at(14, 11, 20)},
		{"tomorrow at 99pm", at(15, 9, 0)},
		{"remind me in 99999999999 hours", at(14, 11, 20)},
		{"in 99999999999999999999 minutes", at(14, 11, 20)},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveDue(tc.text, now))
		})
	}
}

func TestResolveDuePrecedence(t *testing.T) {
	now := time.Date(2024, time.March, 14, 10, 20, 0, 0, time.UTC)

	// tomorrow beats a relative offset
	assert.Equal(t, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC),
		ResolveDue("in 5 minutes or tomorrow", now))
	// a relative offset beats an explicit clock
	assert.Equal(t, time.Date(2024, time.March, 14, 10, 25, 0, 0, time.UTC),
		ResolveDue("in 5 minutes, not at 3pm", now))
}

func TestResolveDueCrossesMonthAndKeepsZone(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, time.January, 31, 22, 0, 0, 0, zone)

	got := ResolveDue("tomorrow at 8am", now)
	assert.Equal(t, time.Date(2024, time.February, 1, 8, 0, 0, 0, zone), got)
	assert.Equal(t, zone, got.Location())
}
