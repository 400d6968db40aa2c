package adapter

import (
	"sync"
	"sync/atomic"
)

// Registry maps adapter ids to adapters. Writes are serialized; reads load an
// immutable snapshot and never block.
type Registry struct {
	mu   sync.Mutex
	snap atomic.Pointer[snapshot]
}

type snapshot struct {
	order []Adapter
	byID  map[string]int
}

// NewRegistry returns a registry holding adapters, registered in order.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{}
	r.snap.Store(&snapshot{byID: map[string]int{}})
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds a. An adapter already registered under the same id is
// replaced and keeps its position in All.
func (r *Registry) Register(a Adapter) {
	if a == nil {
		panic("adapter: Register adapter is nil")
	}
	id := a.ID()
	if id == "" {
		panic("adapter: Register adapter with empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.load()
	next := &snapshot{
		order: append(make([]Adapter, 0, len(cur.order)+1), cur.order...),
		byID:  make(map[string]int, len(cur.byID)+1),
	}
	for k, v := range cur.byID {
		next.byID[k] = v
	}
	if pos, ok := next.byID[id]; ok {
		next.order[pos] = a
	} else {
		next.byID[id] = len(next.order)
		next.order = append(next.order, a)
	}
	r.snap.Store(next)
}

// Get looks up an adapter by id.
func (r *Registry) Get(id string) (Adapter, bool) {
	s := r.load()
	pos, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return s.order[pos], true
}

// All returns every registered adapter in registration order.
func (r *Registry) All() []Adapter {
	s := r.load()
	return append([]Adapter(nil), s.order...)
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	s := r.load()
	ids := make([]string, 0, len(s.order))
	for _, a := range s.order {
		ids = append(ids, a.ID())
	}
	return ids
}

func (r *Registry) load() *snapshot {
	if s := r.snap.Load(); s != nil {
		return s
	}
	return &snapshot{byID: map[string]int{}}
}
