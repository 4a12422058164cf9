// Package mutation runs server writes with lifecycle hooks and tracks their
// state, and provides the optimistic update transaction used by edits.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrPending = errors.New("mutation already pending")

type State int

const (
	StateIdle State = iota
	StatePending
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Hooks are called around the write. C is the value OnMutate hands to the
// other hooks, typically a rollback handle.
type Hooks[In, Out, C any] struct {
	// OnMutate runs before the write. An error aborts the mutation without
	// calling the write.
	OnMutate  func(ctx context.Context, in In) (C, error)
	OnError   func(ctx context.Context, err error, in In, c C)
	OnSuccess func(ctx context.Context, out Out, in In, c C)
	OnSettled func(ctx context.Context, out Out, err error, in In, c C)
}

type Mutation[In, Out, C any] struct {
	fn    func(ctx context.Context, in In) (Out, error)
	hooks Hooks[In, Out, C]

	mu    sync.Mutex
	state State
	err   error
	data  Out
}

func New[In, Out, C any](fn func(ctx context.Context, in In) (Out, error), hooks Hooks[In, Out, C]) *Mutation[In, Out, C] {
	return &Mutation[In, Out, C]{fn: fn, hooks: hooks}
}

// Mutate runs the write. Only one call may be pending at a time; a second
// call returns ErrPending.
func (m *Mutation[In, Out, C]) Mutate(ctx context.Context, in In) (Out, error) {
	var zero Out

	m.mu.Lock()
	if m.state == StatePending {
		m.mu.Unlock()
		return zero, ErrPending
	}
	m.state, m.err, m.data = StatePending, nil, zero
	m.mu.Unlock()

	var c C
	if m.hooks.OnMutate != nil {
		var err error
		if c, err = m.hooks.OnMutate(ctx, in); err != nil {
			err = fmt.Errorf("prepare mutation: %w", err)
			m.settle(zero, err)
			return zero, err
		}
	}

	out, err := m.fn(ctx, in)
	if err != nil {
		if m.hooks.OnError != nil {
			m.hooks.OnError(ctx, err, in, c)
		}
	} else if m.hooks.OnSuccess != nil {
		m.hooks.OnSuccess(ctx, out, in, c)
	}
	if m.hooks.OnSettled != nil {
		m.hooks.OnSettled(ctx, out, err, in, c)
	}

	m.settle(out, err)
	return out, err
}

func (m *Mutation[In, Out, C]) settle(out Out, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state, m.err = StateError, err
		return
	}
	m.state, m.data = StateSuccess, out
}

func (m *Mutation[In, Out, C]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mutation[In, Out, C]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Mutation[In, Out, C]) Data() Out {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// Reset returns a settled mutation to idle. It has no effect while pending.
func (m *Mutation[In, Out, C]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StatePending {
		return
	}
	var zero Out
	m.state, m.err, m.data = StateIdle, nil, zero
}
