package profile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dualspace/launcher/internal/logging"
)

// Service funnels every profile mutation through one read-modify-write per
// event, serialized per username so concurrent opens never lose an update.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewService creates a profile service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logging.Component(logger, "profile"),
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *Service) lock(username string) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[username]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[username] = mu
	}
	s.locksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// Get loads a profile.
func (s *Service) Get(ctx context.Context, username string) (UserProfile, error) {
	return s.repo.Get(ctx, username)
}

// List loads every profile.
func (s *Service) List(ctx context.Context) ([]UserProfile, error) {
	return s.repo.List(ctx)
}

// Update applies fn to the stored profile and persists the result atomically
// with respect to other updates for the same username.
func (s *Service) Update(ctx context.Context, username string, fn func(UserProfile) (UserProfile, error)) (UserProfile, error) {
	unlock := s.lock(username)
	defer unlock()

	current, err := s.repo.Get(ctx, username)
	if err != nil {
		return UserProfile{}, err
	}
	next, err := fn(current)
	if err != nil {
		return UserProfile{}, err
	}
	if err := s.repo.Put(ctx, next); err != nil {
		return UserProfile{}, err
	}
	return next, nil
}

// Create stores a new profile. prepare runs once the username is known to be
// free and before the record is written; writers for the same username wait
// until Create returns. A prepare error aborts the creation.
func (s *Service) Create(ctx context.Context, p UserProfile, prepare func(context.Context) error) error {
	unlock := s.lock(p.Username)
	defer unlock()

	exists, err := s.repo.Exists(ctx, p.Username)
	if err != nil {
		return err
	}
	if exists {
		return ErrExists
	}
	if prepare != nil {
		if err := prepare(ctx); err != nil {
			return err
		}
	}
	return s.repo.Create(ctx, p)
}

// RecordAppOpen applies one app-open event to the stored profile.
func (s *Service) RecordAppOpen(ctx context.Context, username, app string) (UserProfile, error) {
	p, err := s.Update(ctx, username, func(p UserProfile) (UserProfile, error) {
		return RecordOpen(p, app), nil
	})
	if err != nil {
		return UserProfile{}, err
	}
	s.logger.Debug("app opened",
		slog.String("username", username),
		slog.String("app", app),
		slog.Int("streak", p.Streak.Len),
	)
	return p, nil
}

// AddReminder appends a reminder to the stored profile.
func (s *Service) AddReminder(ctx context.Context, username, text string, due *time.Time) (Reminder, error) {
	var added Reminder
	_, err := s.Update(ctx, username, func(p UserProfile) (UserProfile, error) {
		next, r, err := WithReminder(p, text, due, s.now().UTC())
		added = r
		return next, err
	})
	if err != nil {
		return Reminder{}, err
	}
	return added, nil
}

// Reminders returns the user's reminders sorted for display.
func (s *Service) Reminders(ctx context.Context, username string) ([]Reminder, error) {
	p, err := s.repo.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return SortReminders(p.Reminders), nil
}
