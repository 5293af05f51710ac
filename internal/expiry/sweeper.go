// Package expiry implements the background sweeper that removes idle
// sessions from stores that have no native expiry.
package expiry

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
)

// Option configures the sweeper.
type Option func(*Sweeper)

// WithInterval sets how often the sweeper scans the store.
func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		s.interval = d
	}
}

// WithIdleTTL sets how long a session may go without updates.
func WithIdleTTL(d time.Duration) Option {
	return func(s *Sweeper) {
		s.idleTTL = d
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// Sweeper periodically deletes sessions whose UpdatedAt is older than
// the idle TTL.
type Sweeper struct {
	store    domain.SessionStore
	log      *logger.Logger
	interval time.Duration
	idleTTL  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a sweeper for store.
func New(store domain.SessionStore, log *logger.Logger, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:    store,
		log:      log,
		interval: 10 * time.Minute,
		idleTTL:  24 * time.Hour,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background loop. Non-blocking.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("session sweeper already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.done = make(chan struct{})

	go s.loop(childCtx, s.done)

	s.log.Info("session sweeper started (interval=%s, idle ttl=%s)", s.interval, s.idleTTL)
}

// Stop shuts the loop down and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	done := s.done
	s.mu.Unlock()

	<-done
	s.log.Info("session sweeper stopped")
}

func (s *Sweeper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass and returns the number of sessions removed.
func (s *Sweeper) Sweep(ctx context.Context) int {
	sessions, err := s.store.List(ctx)
	if err != nil {
		s.log.Error("sweeper: listing sessions: %v", err)
		return 0
	}

	cutoff := s.now().Add(-s.idleTTL)
	removed := 0
	for _, session := range sessions {
		if !session.UpdatedAt.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, session.ID); err != nil {
			s.log.Error("sweeper: deleting session %s: %v", session.ID, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		s.log.Info("sweeper: removed %d idle session(s)", removed)
	} else {
		s.log.Debug("sweeper: %d session(s), none idle", len(sessions))
	}
	return removed
}
