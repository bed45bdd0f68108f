package profile

import (
	"context"
	"errors"
	"testing"
	"time"
)

func openTestSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRoundTrip(t *testing.T) {
	repo := openTestSQLite(t)
	ctx := context.Background()

	due := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	p := withDefaults(UserProfile{
		Username:  "ada",
		Age:       34,
		PINHash:   "hash",
		FaceHash:  "1010",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, p); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	p = RecordOpen(p, "Mail")
	p, _, _ = WithReminder(p, "standup", &due, p.CreatedAt)
	if err := repo.Put(ctx, p); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := repo.Get(ctx, "ada")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UsageCounts["Mail"] != 1 || got.Streak.App != "Mail" || got.FaceHash != "1010" {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if len(got.Reminders) != 1 || got.Reminders[0].Due == nil || !got.Reminders[0].Due.Equal(due) {
		t.Fatalf("unexpected reminders: %+v", got.Reminders)
	}

	ok, err := repo.Exists(ctx, "ada")
	if err != nil || !ok {
		t.Fatalf("expected ada to exist: %v", err)
	}
	if _, err := repo.Get(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Put(ctx, UserProfile{Username: "bob", Age: 9}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on put, got %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("list: %v (%d)", err, len(all))
	}
}
