// Package keyqueue runs operations one at a time per key, in submission order,
// while operations for different keys run concurrently.
package keyqueue

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOperationPanicked is returned to the submitter of an operation that panicked.
var ErrOperationPanicked = errors.New("keyqueue: operation panicked")

type turn struct {
	done chan struct{}
}

// Serializer is a per-key FIFO of pending operations. The map only holds the
// tail of each chain; an entry is removed when its tail completes.
type Serializer struct {
	mu    sync.Mutex
	tails map[string]*turn
}

// New returns an empty Serializer.
func New() *Serializer {
	return &Serializer{tails: make(map[string]*turn)}
}

// Do blocks until every operation previously submitted for key has finished,
// then runs op and returns its error. A failed or panicking op never blocks
// the operations queued behind it. Once submitted, op always runs.
func (s *Serializer) Do(key string, op func() error) error {
	me := &turn{done: make(chan struct{})}

	s.mu.Lock()
	prev := s.tails[key]
	s.tails[key] = me
	s.mu.Unlock()

	if prev != nil {
		<-prev.done
	}
	defer s.release(key, me)

	return run(op)
}

// Len reports the number of keys with pending or running work.
func (s *Serializer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tails)
}

func (s *Serializer) release(key string, me *turn) {
	s.mu.Lock()
	if s.tails[key] == me {
		delete(s.tails, key)
	}
	s.mu.Unlock()
	close(me.done)
}

func run(op func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrOperationPanicked, r)
		}
	}()
	return op()
}
