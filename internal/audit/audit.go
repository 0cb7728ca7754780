// Package audit writes the append-only action log. Writes are best-effort;
// a failed insert is logged and swallowed, never surfaced to the request.
package audit

import (
	"context"
	"log"
	"sync"
	"time"
)

type Writer interface {
	InsertLog(ctx context.Context, user, action string) error
}

// Recorder suppresses a repeat of the identical (user, action) pair within
// a one-second window. The guard is in-memory only: per process, reset on
// restart, no cross-instance coordination.
type Recorder struct {
	w      Writer
	window time.Duration
	now    func() time.Time

	mu         sync.Mutex
	lastUser   string
	lastAction string
	lastAt     time.Time
}

func NewRecorder(w Writer) *Recorder {
	return &Recorder{w: w, window: time.Second, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, user, action string) {
	if user == "" {
		user = "system"
	}

	r.mu.Lock()
	now := r.now()
	if user == r.lastUser && action == r.lastAction && now.Sub(r.lastAt) < r.window {
		r.mu.Unlock()
		return
	}
	r.lastUser, r.lastAction, r.lastAt = user, action, now
	r.mu.Unlock()

	if err := r.w.InsertLog(ctx, user, action); err != nil {
		log.Printf("audit: %v", err)
	}
}
