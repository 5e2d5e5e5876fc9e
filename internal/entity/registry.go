package entity

import (
	"fmt"
	"sync"
)

// Handle identifies a host entity. The zero Handle is never issued.
type Handle struct {
	ID  uint32
	Gen uint32
}

func (h Handle) IsZero() bool { return h.ID == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("%d.%d", h.ID, h.Gen)
}

// Listener is notified after a handle has been destroyed.
type Listener interface {
	Forget(h Handle)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(h Handle)

func (f ListenerFunc) Forget(h Handle) { f(h) }

type slot struct {
	gen   uint32
	alive bool
	name  string
}

// Registry issues generational handles. Destroyed slots are reused with a
// bumped generation, so a stale handle never aliases a new entity.
type Registry struct {
	mu        sync.RWMutex
	slots     []slot
	free      []uint32
	listeners []Listener
}

func NewRegistry() *Registry {
	// slot 0 is reserved so the zero Handle stays invalid
	return &Registry{slots: make([]slot, 1)}
}

func (r *Registry) Create(name string) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.free); n > 0 {
		id := r.free[n-1]
		r.free = r.free[:n-1]
		s := &r.slots[id]
		s.gen++
		s.alive = true
		s.name = name
		return Handle{ID: id, Gen: s.gen}
	}

	id := uint32(len(r.slots))
	r.slots = append(r.slots, slot{gen: 1, alive: true, name: name})
	return Handle{ID: id, Gen: 1}
}

// Destroy invalidates h and notifies listeners. Destroying a dead or
// stale handle is a no-op and reports false.
func (r *Registry) Destroy(h Handle) bool {
	r.mu.Lock()
	if !r.aliveLocked(h) {
		r.mu.Unlock()
		return false
	}
	s := &r.slots[h.ID]
	s.alive = false
	s.name = ""
	r.free = append(r.free, h.ID)
	listeners := make([]Listener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		l.Forget(h)
	}
	return true
}

func (r *Registry) Alive(h Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.aliveLocked(h)
}

func (r *Registry) aliveLocked(h Handle) bool {
	if h.ID == 0 || int(h.ID) >= len(r.slots) {
		return false
	}
	s := r.slots[h.ID]
	return s.alive && s.gen == h.Gen
}

// Name returns the host name the handle was created with.
func (r *Registry) Name(h Handle) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.aliveLocked(h) {
		return "", false
	}
	return r.slots[h.ID].name, true
}

func (r *Registry) Subscribe(l Listener) {
	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots) - 1 - len(r.free)
}
