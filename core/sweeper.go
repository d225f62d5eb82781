package core

import (
	"context"
	"sync"
	"time"

	"estateadmin/database"
	"estateadmin/logger"
)

// SessionSweeper periodically removes expired sessions and abandoned form drafts
// from the local database, and drops their cached collections.
type SessionSweeper struct {
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	interval time.Duration
	draftTTL time.Duration
	store    *Store

	mu       sync.Mutex
	isActive bool
}

// NewSessionSweeper creates a sweeper bound to appCtx.
func NewSessionSweeper(appCtx context.Context, interval, draftTTL time.Duration, store *Store) *SessionSweeper {
	ctx, cancel := context.WithCancel(appCtx)
	return &SessionSweeper{
		ctx:      ctx,
		cancel:   cancel,
		interval: interval,
		draftTTL: draftTTL,
		store:    store,
	}
}

// Start begins the sweep loop.
func (s *SessionSweeper) Start() {
	s.mu.Lock()
	if s.isActive {
		s.mu.Unlock()
		logger.Warn("SessionSweeper is already active.")
		return
	}
	s.isActive = true
	s.mu.Unlock()

	interval := s.interval
	if interval < time.Minute {
		logger.Info("SessionSweeper: configured interval (%s) is below the minimum, using 1m.", interval)
		interval = time.Minute
	}

	logger.Info("SessionSweeper starting, interval %s.", interval)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.isActive = false
			s.mu.Unlock()
			logger.Info("SessionSweeper goroutine finished.")
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.Sweep(time.Now())
		for {
			select {
			case <-s.ctx.Done():
				return
			case now := <-ticker.C:
				s.Sweep(now)
			}
		}
	}()
}

// Stop ends the sweep loop and waits for it to exit.
func (s *SessionSweeper) Stop() {
	logger.Info("SessionSweeper stopping...")
	s.cancel()
	s.wg.Wait()
	logger.Info("SessionSweeper stopped.")
}

// Sweep runs one cleanup pass.
func (s *SessionSweeper) Sweep(now time.Time) {
	expired, err := database.ExpiredSessionIDs(now)
	if err != nil {
		logger.Error("SessionSweeper: listing expired sessions failed: %v", err)
		return
	}
	for _, id := range expired {
		if s.store != nil {
			s.store.Forget(id)
		}
	}
	n, err := database.DeleteExpiredSessions(now)
	if err != nil {
		logger.Error("SessionSweeper: deleting expired sessions failed: %v", err)
	} else if n > 0 {
		logger.Info("SessionSweeper: removed %d expired sessions.", n)
	}

	if s.draftTTL > 0 {
		d, err := database.DeleteStaleDrafts(now.Add(-s.draftTTL))
		if err != nil {
			logger.Error("SessionSweeper: deleting stale drafts failed: %v", err)
		} else if d > 0 {
			logger.Info("SessionSweeper: removed %d stale drafts.", d)
		}
	}
}
