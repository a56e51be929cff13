// Package queue serializes writes to a store.Backend behind one worker.
//
// Set returns as soon as the write is queued. Writes are applied strictly in
// submission order, so two saves of the same key never overlap and the last
// one queued is the one that sticks. Reads wait for every write queued
// before them, which keeps read-after-write consistent for a single caller.
package queue

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Makepad-fr/tada/internal/store"
)

var ErrClosed = errors.New("queue closed")

const depth = 64

type opKind int

const (
	opSet opKind = iota
	opClear
	opBarrier
)

type op struct {
	kind  opKind
	key   string
	value []byte
	done  chan error
}

// Queue is a store.Backend.
type Queue struct {
	backend store.Backend
	log     *slog.Logger

	mu     sync.Mutex // guards closed and sends on ops
	closed bool
	ops    chan op

	errMu sync.Mutex
	err   error // first failed write since the last Flush

	wg sync.WaitGroup
}

func New(b store.Backend, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		backend: b,
		log:     logger,
		ops:     make(chan op, depth),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *Queue) run() {
	defer q.wg.Done()
	for o := range q.ops {
		switch o.kind {
		case opSet:
			if err := q.backend.Set(o.key, o.value); err != nil {
				q.log.Error("queued write failed", "key", o.key, "err", err)
				q.errMu.Lock()
				if q.err == nil {
					q.err = fmt.Errorf("queue: write %s: %w", o.key, err)
				}
				q.errMu.Unlock()
			}
		case opClear:
			o.done <- q.backend.Clear()
		case opBarrier:
			close(o.done)
		}
	}
}

func (q *Queue) submit(o op) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.ops <- o
	return nil
}

func (q *Queue) barrier() error {
	done := make(chan error)
	if err := q.submit(op{kind: opBarrier, done: done}); err != nil {
		return err
	}
	<-done
	return nil
}

// Set queues a write of a private copy of value.
func (q *Queue) Set(key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	return q.submit(op{kind: opSet, key: key, value: v})
}

func (q *Queue) Get(key string) ([]byte, error) {
	if err := q.barrier(); err != nil {
		return nil, err
	}
	return q.backend.Get(key)
}

func (q *Queue) Keys() ([]string, error) {
	if err := q.barrier(); err != nil {
		return nil, err
	}
	return q.backend.Keys()
}

// Clear runs in queue order and waits for the result.
func (q *Queue) Clear() error {
	done := make(chan error, 1)
	if err := q.submit(op{kind: opClear, done: done}); err != nil {
		return err
	}
	return <-done
}

// Flush waits for every queued write and returns the first write error
// seen since the previous Flush.
func (q *Queue) Flush() error {
	if err := q.barrier(); err != nil {
		return err
	}
	q.errMu.Lock()
	err := q.err
	q.err = nil
	q.errMu.Unlock()
	return err
}

// Close drains pending writes and stops the worker. It is safe to call
// more than once.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.ops)
	q.mu.Unlock()

	q.wg.Wait()
	q.errMu.Lock()
	defer q.errMu.Unlock()
	err := q.err
	q.err = nil
	return err
}
