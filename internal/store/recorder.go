package store

import (
	"context"
	"sync"
	"time"

	"github.com/phuslu/log"
)

// Recorder persists records in the background. Failures are logged and
// never reach the caller.
type Recorder struct {
	store   Store
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewRecorder(s Store, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Recorder{store: s, timeout: timeout}
}

// Record schedules r for persistence and returns immediately. Records
// submitted after Close are dropped.
func (rc *Recorder) Record(r Record) {
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		log.Warn().Str("region", r.Region).Msg("recorder closed, record dropped")
		return
	}
	rc.wg.Add(1)
	rc.mu.Unlock()

	go func() {
		defer rc.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), rc.timeout)
		defer cancel()
		if err := rc.store.Persist(ctx, r); err != nil {
			log.Warn().Err(err).Str("region", r.Region).Str("run_id", r.RunID).Msg("persist failed")
		}
	}()
}

// Close waits for in-flight records.
func (rc *Recorder) Close() {
	rc.mu.Lock()
	rc.closed = true
	rc.mu.Unlock()
	rc.wg.Wait()
}
