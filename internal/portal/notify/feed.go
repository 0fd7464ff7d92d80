package notify

import (
	"context"
	"sync"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

const (
	DefaultFeedSize   = 50
	subscriberBacklog = 16
)

// Feed keeps the most recent notifications of one workspace and forwards
// new ones to live subscribers. Slow subscribers miss notifications rather
// than stall the sender.
type Feed struct {
	mu     sync.Mutex
	buf    []domain.Notification
	size   int
	unread int
	subs   map[chan domain.Notification]struct{}
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{size: size, subs: make(map[chan domain.Notification]struct{})}
}

func (f *Feed) Notify(_ context.Context, n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.buf = append(f.buf, n)
	if len(f.buf) > f.size {
		f.buf = append([]domain.Notification(nil), f.buf[len(f.buf)-f.size:]...)
	}
	if f.unread < f.size {
		f.unread++
	}

	for ch := range f.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Recent returns up to limit notifications, newest first. limit <= 0
// returns everything retained.
func (f *Feed) Recent(limit int) []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	if limit <= 0 || limit > len(f.buf) {
		limit = len(f.buf)
	}
	out := make([]domain.Notification, 0, limit)
	for i := len(f.buf) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.buf[i])
	}
	return out
}

// Drain returns the notifications raised since the previous Drain, oldest
// first.
func (f *Feed) Drain() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := f.unread
	if n > len(f.buf) {
		n = len(f.buf)
	}
	out := append([]domain.Notification(nil), f.buf[len(f.buf)-n:]...)
	f.unread = 0
	return out
}

// Subscribe registers a live subscriber. The returned cancel function
// unregisters it and closes the channel; it is safe to call more than once
// and after Close.
func (f *Feed) Subscribe() (<-chan domain.Notification, func()) {
	ch := make(chan domain.Notification, subscriberBacklog)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
	}
}

// Close unregisters every subscriber.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		delete(f.subs, ch)
		close(ch)
	}
}
