// Package notify records operator-facing notices: every notice is logged
// and the most recent ones are kept for GET /notifications.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nimblecrm/crm-console/internal/core/domain"
)

const defaultCapacity = 50

// Feed is a bounded ring of notices. It implements ports.Notifier.
type Feed struct {
	mu    sync.Mutex
	ring  []domain.Notice
	next  int
	full  bool
	log   zerolog.Logger
	clock func() time.Time
}

// NewFeed keeps up to capacity notices; capacity <= 0 uses defaultCapacity.
func NewFeed(capacity int, log zerolog.Logger) *Feed {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Feed{
		ring:  make([]domain.Notice, capacity),
		log:   log,
		clock: time.Now,
	}
}

func (f *Feed) Success(_ context.Context, msg string) {
	f.log.Info().Str("notice", string(domain.NoticeSuccess)).Msg(msg)
	f.push(domain.NoticeSuccess, msg)
}

func (f *Feed) Error(_ context.Context, msg string) {
	f.log.Warn().Str("notice", string(domain.NoticeError)).Msg(msg)
	f.push(domain.NoticeError, msg)
}

func (f *Feed) push(level domain.NoticeLevel, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ring[f.next] = domain.Notice{Level: level, Message: msg, At: f.clock().UTC()}
	f.next = (f.next + 1) % len(f.ring)
	if f.next == 0 {
		f.full = true
	}
}

// Recent returns up to limit notices, newest first. limit <= 0 returns all.
func (f *Feed) Recent(limit int) []domain.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := f.next
	if f.full {
		n = len(f.ring)
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]domain.Notice, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (f.next - 1 - i + len(f.ring)) % len(f.ring)
		out = append(out, f.ring[idx])
	}
	return out
}
