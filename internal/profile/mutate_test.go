package profile

import (
	"testing"
	"time"
)

func TestRecordOpenBuildsStreak(t *testing.T) {
	p := withDefaults(UserProfile{Username: "ada", Age: 30})
	for i := 0; i < 3; i++ {
		p = RecordOpen(p, "Notes")
	}
	if p.Streak != (Streak{App: "Notes", Len: 3}) {
		t.Fatalf("expected Notes x3 streak, got %+v", p.Streak)
	}
	if p.UsageCounts["Notes"] != 3 || p.LastOpenedApp != "Notes" {
		t.Fatalf("unexpected bookkeeping: %+v", p)
	}

	p = RecordOpen(p, "Mail")
	if p.Streak != (Streak{App: "Mail", Len: 1}) {
		t.Fatalf("expected streak reset to Mail x1, got %+v", p.Streak)
	}
	if p.UsageCounts["Notes"] != 3 || p.UsageCounts["Mail"] != 1 {
		t.Fatalf("unexpected usage: %v", p.UsageCounts)
	}
}

func TestRecordOpenDoesNotMutateInput(t *testing.T) {
	before := withDefaults(UserProfile{Username: "ada", Age: 30})
	after := RecordOpen(before, "Notes")
	if len(before.UsageCounts) != 0 || before.LastOpenedApp != "" {
		t.Fatalf("input mutated: %+v", before)
	}
	if after.UsageCounts["Notes"] != 1 {
		t.Fatalf("expected count 1, got %d", after.UsageCounts["Notes"])
	}
}

func TestWithReminderRejectsEmptyText(t *testing.T) {
	p := withDefaults(UserProfile{Username: "ada", Age: 30})
	if _, _, err := WithReminder(p, "   ", nil, time.Now()); err != ErrEmptyReminder {
		t.Fatalf("expected ErrEmptyReminder, got %v", err)
	}
}

func TestSortRemindersUndatedLast(t *testing.T) {
	early := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)
	in := []Reminder{
		{Text: "someday"},
		{Text: "late", Due: &late},
		{Text: "also someday"},
		{Text: "early", Due: &early},
	}
	got := SortReminders(in)
	want := []string{"early", "late", "someday", "also someday"}
	for i, r := range got {
		if r.Text != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], r.Text)
		}
	}
	if in[0].Text != "someday" {
		t.Fatalf("input reordered")
	}
}

func TestMostUsedTieBreak(t *testing.T) {
	p := UserProfile{UsageCounts: map[string]int{"Mail": 4, "Calendar": 4, "Notes": 1}}
	app, n, ok := p.MostUsed()
	if !ok || app != "Calendar" || n != 4 {
		t.Fatalf("expected Calendar x4, got %s x%d (%v)", app, n, ok)
	}
	if _, _, ok := (UserProfile{}).MostUsed(); ok {
		t.Fatalf("expected no most used app for empty usage")
	}
}
