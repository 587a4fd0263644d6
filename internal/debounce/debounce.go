// Package debounce delays writes keyed by item id. A newer value for the
// same id replaces the pending one, so only the last value is written.
package debounce

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/baiirun/things/internal/logger"
	"github.com/baiirun/things/internal/model"
)

// DefaultDelay is how long a completion toggle waits before it is saved.
const DefaultDelay = 3 * time.Second

type entry[V any] struct {
	timer *time.Timer
	value V
	fn    func(V) error
	gen   uint64
}

// Scheduler runs at most one pending write per id after a fixed delay.
// A zero delay runs writes immediately.
type Scheduler[V any] struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*entry[V]
	gen     uint64
	stopped bool
}

func New[V any](delay time.Duration) *Scheduler[V] {
	return &Scheduler[V]{
		delay:   delay,
		pending: make(map[string]*entry[V]),
	}
}

// Schedule arranges fn(value) to run after the delay, replacing any write
// still pending for id.
func (s *Scheduler[V]) Schedule(id string, value V, fn func(V) error) {
	s.mu.Lock()
	if old, ok := s.pending[id]; ok {
		old.timer.Stop()
		delete(s.pending, id)
		logger.Debug("deferred write replaced", zap.String("id", id))
	}
	if s.stopped || s.delay <= 0 {
		s.mu.Unlock()
		run(id, value, fn)
		return
	}

	s.gen++
	e := &entry[V]{value: value, fn: fn, gen: s.gen}
	gen := s.gen
	e.timer = time.AfterFunc(s.delay, func() { s.fire(id, gen) })
	s.pending[id] = e
	s.mu.Unlock()

	logger.Debug("deferred write scheduled", zap.String("id", id), zap.Duration("delay", s.delay))
}

// Cancel drops the write pending for id. It reports whether one was
// pending.
func (s *Scheduler[V]) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.pending[id]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.pending, id)
	logger.Debug("deferred write cancelled", zap.String("id", id))
	return true
}

// Pending returns the value waiting to be written for id.
func (s *Scheduler[V]) Pending(id string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.pending[id]; ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Flush runs every pending write now, in id order.
func (s *Scheduler[V]) Flush() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	entries := make([]*entry[V], 0, len(ids))
	for _, id := range ids {
		e := s.pending[id]
		e.timer.Stop()
		entries = append(entries, e)
	}
	clear(s.pending)
	s.mu.Unlock()

	for i, e := range entries {
		run(ids[i], e.value, e.fn)
	}
}

// Stop flushes pending writes. Writes scheduled afterwards run
// immediately.
func (s *Scheduler[V]) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.Flush()
}

func (s *Scheduler[V]) fire(id string, gen uint64) {
	s.mu.Lock()
	e, ok := s.pending[id]
	if !ok || e.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	s.mu.Unlock()

	run(id, e.value, e.fn)
}

func run[V any](id string, value V, fn func(V) error) {
	if err := fn(value); err != nil {
		logger.Error("deferred write failed", err, zap.String("id", id))
	}
}

// Updater is the store operation a deferred toggle ends in.
type Updater interface {
	Update(id string, opts ...model.Option) (model.Item, error)
}

// ToggleDone schedules the done flag of a task to be saved after the
// scheduler's delay. Toggling again before then replaces the pending value.
func ToggleDone(s *Scheduler[bool], st Updater, id string, done bool) {
	s.Schedule(id, done, func(v bool) error {
		_, err := st.Update(id, model.WithDone(v))
		return err
	})
}
