// Package frame provides the "run once before the next repaint" scheduler
// the animation controllers hang their per-frame work on.
package frame

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ID identifies a pending frame request. The zero ID is never issued.
type ID uint64

// Callback receives the timestamp of the frame being flushed.
type Callback func(now time.Time)

// Scheduler holds one-shot frame callbacks until the next Flush.
//
// Callbacks registered while a flush is running are deferred to the next
// flush, so a callback that re-registers itself runs once per frame.
// CancelFrame is synchronous: once it returns, the callback will not run,
// even if the cancellation happens from inside the current flush.
type Scheduler struct {
	mu      sync.Mutex
	nextID  ID
	pending map[ID]Callback
	order   []ID

	frames atomic.Uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[ID]Callback)}
}

// RequestFrame registers cb to run on the next flush and returns its ID.
func (s *Scheduler) RequestFrame(cb Callback) ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.pending[id] = cb
	s.order = append(s.order, id)
	return id
}

// CancelFrame removes a pending request. Unknown or already-run IDs are
// ignored.
func (s *Scheduler) CancelFrame(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// Pending returns the number of callbacks waiting for the next flush.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Frames returns the number of flushes performed.
func (s *Scheduler) Frames() uint64 {
	return s.frames.Load()
}

// Flush runs every callback that was pending when Flush was called, in
// registration order, passing now. It returns the number of callbacks run.
func (s *Scheduler) Flush(now time.Time) int {
	s.mu.Lock()
	batch := s.order
	s.order = nil
	s.mu.Unlock()

	ran := 0
	for _, id := range batch {
		// Earlier callbacks in the batch may have cancelled this one.
		s.mu.Lock()
		cb, ok := s.pending[id]
		if ok {
			delete(s.pending, id)
		}
		s.mu.Unlock()

		if !ok {
			continue
		}
		cb(now)
		ran++
	}

	s.frames.Add(1)
	return ran
}

// Drive flushes s every interval until n frames have been flushed or ctx is
// cancelled. A non-positive n runs until ctx is done. It is the headless
// counterpart of the UI's tick-driven flush.
func Drive(ctx context.Context, s *Scheduler, interval time.Duration, n int) error {
	if interval <= 0 {
		return fmt.Errorf("frame interval must be positive, got %v", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; n <= 0 || i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.Flush(now)
		}
	}
	return nil
}
