package polish

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dualspace/launcher/internal/logging"
)

const rewritePrompt = "Rewrite the following as a friendly, concise feed card (keep emojis if present):\n\n"

// Options tune the breaker around the generator.
type Options struct {
	// Timeout bounds a single call. Zero means 5s.
	Timeout   time.Duration
	// TripAfter consecutive failures opens the breaker. Zero means 3.
	TripAfter uint32
	// Cooldown is how long the breaker stays open. Zero means 30s.
	Cooldown  time.Duration
}

// Polisher guards a Generator with a circuit breaker. A nil Polisher or one
// without a generator returns texts unchanged.
type Polisher struct {
	gen     Generator
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *slog.Logger
}

// NewPolisher wraps gen. gen may be nil.
func NewPolisher(gen Generator, logger *slog.Logger, opts Options) *Polisher {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.TripAfter == 0 {
		opts.TripAfter = 3
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 30 * time.Second
	}
	logger = logging.Component(logger, "polish")
	settings := gobreaker.Settings{
		Name:        "generative-text",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     opts.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.TripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}
	return &Polisher{
		gen:     gen,
		breaker: gobreaker.NewCircuitBreaker(settings),
		timeout: opts.Timeout,
		logger:  logger,
	}
}

// Enabled reports whether a generator is configured.
func (p *Polisher) Enabled() bool {
	return p != nil && p.gen != nil
}

// Generate runs the prompt through the breaker.
func (p *Polisher) Generate(ctx context.Context, prompt string) (string, error) {
	if !p.Enabled() {
		return "", ErrEmptyResponse
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	out, err := p.breaker.Execute(func() (interface{}, error) {
		text, err := p.gen.Generate(ctx, prompt)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			return nil, ErrEmptyResponse
		}
		return strings.TrimSpace(text), nil
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// Polish returns a crisper phrasing of text, or text itself on any failure.
func (p *Polisher) Polish(ctx context.Context, text string) string {
	if !p.Enabled() || strings.TrimSpace(text) == "" {
		return text
	}
	out, err := p.Generate(ctx, rewritePrompt+text)
	if err != nil {
		p.logger.Debug("polish fell back to original", slog.Any("error", err))
		return text
	}
	return out
}
