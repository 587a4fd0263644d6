package tui

import (
	"sync"

	"github.com/baiirun/things/internal/model"
	"github.com/baiirun/things/internal/views"
)

// result is one evaluation of the watched view.
type result struct {
	gen   uint64
	items []model.Item
}

// feed keeps a single views.Facade watch pointed at the list on screen.
// Only the newest result is buffered; results of a replaced watch are dropped.
type feed struct {
	mu     sync.Mutex
	gen    uint64
	cancel func()
	out    chan result
}

func newFeed() *feed {
	return &feed{out: make(chan result, 1)}
}

// watch replaces the current watch with one over view. The first result is
// delivered before watch returns.
func (f *feed) watch(v *views.Facade, view views.View) {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	cancel := v.Watch(view, func(items []model.Item) {
		f.push(result{gen: gen, items: items})
	})

	f.mu.Lock()
	if gen == f.gen {
		f.cancel = cancel
		cancel = nil
	}
	f.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (f *feed) push(r result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.gen != f.gen {
		return
	}
	select {
	case <-f.out:
	default:
	}
	f.out <- r
}

// current reports the generation of the active watch.
func (f *feed) current() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen
}

func (f *feed) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}
