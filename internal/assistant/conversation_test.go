package assistant

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func first(int) int { return 0 }

func TestGreetAvoidsBackToBackRepeats(t *testing.T) {
	var c Conversation
	prev := ""
	for i := 0; i < escalateAfter; i++ {
		got := c.Greet("hello", first)
		if got == prev {
			t.Fatalf("greeting %d repeated %q", i, got)
		}
		prev = got
	}
}

func TestGreetEscalatesAfterRun(t *testing.T) {
	var c Conversation
	for i := 0; i < escalateAfter; i++ {
		c.Greet("hi", first)
	}
	if got := c.Greet("hi", first); got != repeatedGreetingReplies[0] {
		t.Fatalf("expected escalation reply, got %q", got)
	}

	c.Interrupt()
	if got := c.Greet("hi", first); got != greetingReplies[0] {
		t.Fatalf("expected default pool after interruption, got %q", got)
	}
}

func TestGreetHowAreYou(t *testing.T) {
	var c Conversation
	for i := 0; i < 5; i++ {
		c.Greet("hey", first)
	}
	if got := c.Greet("How are you?", first); got != howAreYouReplies[0] {
		t.Fatalf("expected how-are-you reply regardless of run length, got %q", got)
	}
	if got := c.Greet("how r u", func(n int) int { return n - 1 }); got != howAreYouReplies[2] {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestChooseClampsPicker(t *testing.T) {
	if got := choose([]string{"a", "b"}, func(int) int { return 7 }); got != "a" {
		t.Fatalf("expected clamp to first entry, got %q", got)
	}
}

func TestRedisConversationStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisConversationStore(client, time.Hour)
	ctx := context.Background()

	empty, err := store.Load(ctx, "missing")
	if err != nil || empty != (Conversation{}) {
		t.Fatalf("expected zero conversation, got %+v %v", empty, err)
	}

	want := Conversation{LastGreeting: "Hi there!", GreetCount: 2}
	if err := store.Save(ctx, "s1", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "s1")
	if err != nil || got != want {
		t.Fatalf("expected %+v, got %+v %v", want, got, err)
	}
	if ttl := mr.TTL(conversationPrefix + "s1"); ttl != time.Hour {
		t.Fatalf("expected ttl of one hour, got %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	expired, _ := store.Load(ctx, "s1")
	if expired != (Conversation{}) {
		t.Fatalf("expected conversation to expire, got %+v", expired)
	}
}
