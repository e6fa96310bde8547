// Package cells provides the reactive value containers the console is built
// around. A Cell holds one value; readers that want to be re-run when the
// value changes read it through Depend with a Dirty token. Writing the cell
// fires every token registered since the last write.
package cells

import "sync"

// Dirty is a one-shot invalidation token. A reader passes the same token to
// every Depend call of one render pass; the first cell written afterwards
// fires the token, which calls the notify function exactly once.
type Dirty struct {
	mu     sync.Mutex
	fired  bool
	notify func()
}

// NewDirty creates a token that calls notify on its first invalidation.
// notify may be nil.
func NewDirty(notify func()) *Dirty {
	return &Dirty{notify: notify}
}

// MarkDirty fires the token. Subsequent calls are no-ops.
func (d *Dirty) MarkDirty() {
	d.mu.Lock()
	if d.fired {
		d.mu.Unlock()
		return
	}
	d.fired = true
	notify := d.notify
	d.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// IsDirty reports whether the token has fired.
func (d *Dirty) IsDirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fired
}

// Cell holds a value of type T and the set of tokens to fire when it changes.
// Subscriptions are one-shot: a fired token is dropped, and the reader is
// expected to re-read (and so re-subscribe) with a fresh token.
type Cell[T any] struct {
	mu    sync.Mutex
	value T
	deps  map[*Dirty]struct{}
}

// NewCell creates a cell holding v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{value: v, deps: make(map[*Dirty]struct{})}
}

// Get returns the current value without subscribing.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Depend returns the current value and registers d to fire on the next Set.
// A nil token is allowed and behaves like Get.
func (c *Cell[T]) Depend(d *Dirty) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d != nil {
		c.deps[d] = struct{}{}
	}
	return c.value
}

// Set stores v and fires all registered tokens.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	c.value = v
	fired := c.deps
	c.deps = make(map[*Dirty]struct{})
	c.mu.Unlock()

	for d := range fired {
		d.MarkDirty()
	}
}
