package demo

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/filelockd/filelockd/internal/audit"
	"github.com/filelockd/filelockd/internal/filelock"
	"github.com/filelockd/filelockd/internal/identity"
)

// Worker races with its peers for the same lock target, bumping a shared
// counter and appending a ledger entry on every hold. Running with
// Config.Mode == "nolock" skips locking entirely, producing a ledger
// VerifyLedger will reject, as a deliberate negative control.
type Worker struct {
	ID        int
	Config    *Config
	Target    string
	Auditor   *audit.Writer
	Ledger    *LedgerWriter
	StatePath string
	Rng       *rand.Rand
}

// Run executes the worker loop: acquire lock, bump counter, append ledger,
// release lock, sleep with jitter. Stops once the counter reaches
// Config.Target or the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	maxIter := w.Config.Target * 4 // safety bound, generous for nolock contention
	iter := 0

	for {
		iter++
		if iter > maxIter || ctx.Err() != nil {
			return nil
		}

		if w.Config.JitterMS > 0 {
			jitter := time.Duration(w.Rng.Intn(w.Config.JitterMS)) * time.Millisecond //nolint:gosec // demo jitter
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(jitter):
			}
		}

		var handle *filelock.ReleaseHandle
		if w.Config.Mode != "nolock" {
			h, err := w.acquire(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(10 * time.Millisecond):
				}
				continue
			}
			handle = h
		}

		acquiredAt := time.Now()

		seq, err := ReadCounter(w.StatePath)
		if err != nil {
			w.release(handle)
			return fmt.Errorf("worker %d: read counter: %w", w.ID, err)
		}
		if seq >= w.Config.Target {
			w.release(handle)
			return nil
		}

		if w.Config.HoldDelay > 0 {
			time.Sleep(time.Duration(w.Config.HoldDelay) * time.Millisecond)
		}

		id := identity.Current()
		entry := &LedgerEntry{
			Seq:        seq,
			WorkerID:   w.ID,
			Owner:      id.Owner,
			PID:        id.PID,
			AcquiredAt: acquiredAt,
			ReleasedAt: time.Now(),
		}

		if err := w.Ledger.Append(entry); err != nil {
			w.release(handle)
			return fmt.Errorf("worker %d: append ledger: %w", w.ID, err)
		}

		if err := WriteCounter(w.StatePath, seq+1); err != nil {
			w.release(handle)
			return fmt.Errorf("worker %d: write counter: %w", w.ID, err)
		}

		w.release(handle)
	}
}

func (w *Worker) acquire(ctx context.Context) (*filelock.ReleaseHandle, error) {
	acqCtx := ctx
	if w.Config.Timeout > 0 {
		var cancel context.CancelFunc
		acqCtx, cancel = context.WithTimeout(ctx, time.Duration(w.Config.Timeout)*time.Second)
		defer cancel()
	}
	return filelock.Lock(acqCtx, w.Target, filelock.Options{
		Stale:   time.Duration(w.Config.Stale) * time.Millisecond,
		Update:  time.Duration(w.Config.Update) * time.Millisecond,
		Retries: 30,
		Auditor: w.Auditor,
		OnCompromised: func(ce *filelock.CompromiseError) {
			fmt.Fprintf(os.Stderr, "worker %d: compromised: %v\n", w.ID, ce)
		},
	})
}

func (w *Worker) release(h *filelock.ReleaseHandle) {
	if h == nil {
		return
	}
	if err := h.Release(); err != nil {
		fmt.Fprintf(os.Stderr, "worker %d: release: %v\n", w.ID, err)
	}
}

// Coordinator manages the worker pool.
type Coordinator struct {
	Config    *Config
	Target    string
	Auditor   *audit.Writer
	Ledger    *LedgerWriter
	StatePath string
}

// Start spawns workers and waits for completion or context cancellation.
// Returns the number of workers that reported errors.
func (c *Coordinator) Start(ctx context.Context) int {
	type result struct {
		id  int
		err error
	}

	results := make(chan result, c.Config.Workers)

	for i := 0; i < c.Config.Workers; i++ {
		go func(id int) {
			w := &Worker{
				ID:        id,
				Config:    c.Config,
				Target:    c.Target,
				Auditor:   c.Auditor,
				Ledger:    c.Ledger,
				StatePath: c.StatePath,
				Rng:       rand.New(rand.NewSource(int64(c.Config.Seed) + int64(id))), //nolint:gosec // demo seeding
			}
			results <- result{id: id, err: w.Run(ctx)}
		}(i)
	}

	errCount := 0
	for i := 0; i < c.Config.Workers; i++ {
		r := <-results
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "worker %d error: %v\n", r.id, r.err)
			errCount++
		}
	}
	return errCount
}
