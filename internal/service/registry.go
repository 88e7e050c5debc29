package service

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/arecabot/internal/dialogue"
	"github.com/alexanderramin/arecabot/internal/domain"
)

// liveSession is one conversation's in-memory dialogue state. mu is held for
// the whole of a turn so turns within a conversation never interleave.
type liveSession struct {
	mu        sync.Mutex
	session   *dialogue.Session
	channel   domain.Channel
	persisted bool // conversation row exists
	lastUsed  time.Time
}

type registry struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*liveSession
}

func newRegistry(ttl time.Duration, now func() time.Time) *registry {
	return &registry{ttl: ttl, now: now, sessions: make(map[string]*liveSession)}
}

// acquire returns the session for id, creating it on first use, and marks it
// as used now so a concurrent sweep leaves it alone.
func (r *registry) acquire(id string, channel domain.Channel) *liveSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	ls, ok := r.sessions[id]
	if !ok {
		ls = &liveSession{session: dialogue.NewSession(), channel: channel}
		r.sessions[id] = ls
	}
	ls.lastUsed = r.now()
	return ls
}

func (r *registry) remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// sweep drops sessions idle longer than the ttl. A session in the middle of
// a turn is skipped. A non-positive ttl disables eviction.
func (r *registry) sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, ls := range r.sessions {
		if !ls.lastUsed.Before(cutoff) || !ls.mu.TryLock() {
			continue
		}
		delete(r.sessions, id)
		ls.mu.Unlock()
		evicted++
	}
	return evicted
}

// RunSweeper calls Sweep every interval until ctx is done. A non-positive
// interval returns immediately.
func RunSweeper(ctx context.Context, svc ChatService, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.Sweep()
		}
	}
}
