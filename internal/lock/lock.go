// Package lock provides a per-key FIFO mutual exclusion with bounded waits.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

// DefaultTimeout bounds how long a caller waits for its turn on a key.
const DefaultTimeout = 10 * time.Second

type ticket struct {
	done chan struct{}
}

// Keyed serialises work per key. Callers on the same key run one at a time in
// arrival order; different keys do not block each other. It is not reentrant:
// calling Do for a key from inside a Do on the same key deadlocks until timeout.
type Keyed struct {
	mu      sync.Mutex
	tails   map[string]*ticket
	depth   map[string]int
	timeout time.Duration

	// OnTimeout, when set, is called with the key of every timed out wait.
	OnTimeout func(key string)
}

func New(timeout time.Duration) *Keyed {
	return &Keyed{tails: make(map[string]*ticket), depth: make(map[string]int), timeout: timeout}
}

// Acquire waits for the key and returns the function releasing it. The wait
// ends early with ErrLockTimeout after the configured timeout, or with the
// context error if ctx is done first.
func (k *Keyed) Acquire(ctx context.Context, key string) (func(), error) {
	t := &ticket{done: make(chan struct{})}

	k.mu.Lock()
	prev := k.tails[key]
	k.tails[key] = t
	k.depth[key]++
	k.mu.Unlock()

	release := func() {
		close(t.done)
		k.mu.Lock()
		if k.tails[key] == t {
			delete(k.tails, key)
		}
		if k.depth[key]--; k.depth[key] <= 0 {
			delete(k.depth, key)
		}
		k.mu.Unlock()
	}

	if prev == nil {
		return release, nil
	}

	var timer <-chan time.Time
	if k.timeout > 0 {
		tm := time.NewTimer(k.timeout)
		defer tm.Stop()
		timer = tm.C
	}

	select {
	case <-prev.done:
		return release, nil
	case <-timer:
		k.abandon(prev, release)
		if k.OnTimeout != nil {
			k.OnTimeout(key)
		}
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
	case <-ctx.Done():
		k.abandon(prev, release)
		return nil, ctx.Err()
	}
}

// abandon keeps our place in the queue so later callers still wait for prev.
func (k *Keyed) abandon(prev *ticket, release func()) {
	go func() {
		<-prev.done
		release()
	}()
}

// Do runs fn while holding key. fn receives the caller's ctx.
func (k *Keyed) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	release, err := k.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

// Held reports whether any caller holds or waits for key.
func (k *Keyed) Held(key string) bool {
	return k.Len(key) > 0
}

// Len is the number of callers holding or queued on key.
func (k *Keyed) Len(key string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.depth[key]
}
