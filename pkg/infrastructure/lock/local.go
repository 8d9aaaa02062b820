package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/bidengine/pkg/domain/repositories"
)

// Local is a process-wide named lock. It honours context cancellation while
// waiting, which a bare sync.Mutex cannot.
type Local struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

var _ repositories.Locker = (*Local)(nil)

// NewLocal creates an empty set of named locks
func NewLocal() *Local {
	return &Local{slots: make(map[string]chan struct{})}
}

func (l *Local) slot(name string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[name]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[name] = ch
	}
	return ch
}

// Acquire blocks until the named lock is free or ctx is done
func (l *Local) Acquire(ctx context.Context, name string) (func(), error) {
	ch := l.slot(name)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to acquire lock %s: %w", name, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}
