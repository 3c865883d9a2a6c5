package workflow

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Operation is a snapshot of one extract, organize or compress run.
type Operation struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	State     State     `json:"state"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message,omitempty"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitzero"`

	// Err holds the cause of a failure for logging. It is never rendered.
	Err error `json:"-"`
}

// Slot holds the current operation of one front-end together with its
// result. The zero value is Idle.
//
// Starting a new operation replaces whatever the slot held before, including
// a finished result. Concurrent triggers are not serialized; the most recent
// Start owns the slot. Progress, Finish and Fail carry the ID returned by
// Start and are ignored once a newer operation has started.
type Slot[T any] struct {
	mu        sync.RWMutex
	op        Operation
	result    T
	hasResult bool
	listeners map[int]func(Operation)
	nextID    int
}

// Start moves the slot to Loading for a fresh operation of kind k and clears
// the previous result.
func (s *Slot[T]) Start(k Kind) Operation {
	s.mu.Lock()
	var zero T
	s.op = Operation{
		ID:        uuid.New(),
		Kind:      k,
		State:     Loading,
		StartedAt: time.Now(),
	}
	s.result, s.hasResult = zero, false
	op := s.op
	s.mu.Unlock()
	s.notify(op)
	return op
}

// SetProgress records a new percentage for the running operation id. Values
// lower than the current one are ignored.
func (s *Slot[T]) SetProgress(id uuid.UUID, percent int) {
	s.mu.Lock()
	if s.op.ID != id || s.op.State != Loading || percent <= s.op.Progress {
		s.mu.Unlock()
		return
	}
	s.op.Progress = min(percent, 100)
	op := s.op
	s.mu.Unlock()
	s.notify(op)
}

// Progress returns a ProgressFunc bound to operation id.
func (s *Slot[T]) Progress(id uuid.UUID) ProgressFunc {
	return func(percent int) { s.SetProgress(id, percent) }
}

// Finish stores result and moves operation id to Done. A stale id leaves the
// slot untouched and the current operation is returned.
func (s *Slot[T]) Finish(id uuid.UUID, result T) Operation {
	s.mu.Lock()
	if s.op.ID != id {
		op := s.op
		s.mu.Unlock()
		return op
	}
	s.op.State = Done
	s.op.Progress = 100
	s.op.EndedAt = time.Now()
	s.result, s.hasResult = result, true
	op := s.op
	s.mu.Unlock()
	s.notify(op)
	return op
}

// Fail moves operation id to Failed with the generic message for its kind.
// No result is kept. A stale id leaves the slot untouched.
func (s *Slot[T]) Fail(id uuid.UUID, err error) Operation {
	s.mu.Lock()
	if s.op.ID != id {
		op := s.op
		s.mu.Unlock()
		return op
	}
	var zero T
	s.op.State = Failed
	s.op.Message = FailureMessage(s.op.Kind)
	s.op.Err = err
	s.op.EndedAt = time.Now()
	s.result, s.hasResult = zero, false
	op := s.op
	s.mu.Unlock()
	s.notify(op)
	return op
}

// Snapshot returns the current operation.
func (s *Slot[T]) Snapshot() Operation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.op
}

// Result returns the result of a Done operation.
func (s *Slot[T]) Result() (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasResult {
		var zero T
		return zero, ErrNoResult
	}
	return s.result, nil
}

// Subscribe registers fn to receive every state or progress change and
// returns a function that removes it again. fn runs synchronously on the
// goroutine that made the change and must not block.
func (s *Slot[T]) Subscribe(fn func(Operation)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[int]func(Operation))
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Slot[T]) notify(op Operation) {
	s.mu.RLock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	listeners := make([]func(Operation), len(ids))
	for i, id := range ids {
		listeners[i] = s.listeners[id]
	}
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(op)
	}
}

// Run drives slot through one complete operation: Start, fn with a progress
// callback bound to the slot, then Finish or Fail.
func Run[T any](ctx context.Context, slot *Slot[T], k Kind, fn func(ctx context.Context, progress ProgressFunc) (T, error)) (T, error) {
	id := slot.Start(k).ID
	result, err := fn(ctx, slot.Progress(id))
	if err != nil {
		slot.Fail(id, err)
		var zero T
		return zero, err
	}
	slot.Finish(id, result)
	return result, nil
}
