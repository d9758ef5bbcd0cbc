package surface

import (
	"context"
	"sort"
	"sync"
)

// Registry keeps one running Surface per stable identity, so repeated
// lookups for the same id return the same state no matter how often the
// caller rebuilds its own view of it.
type Registry struct {
	ctx  context.Context
	base Options

	mu       sync.Mutex
	surfaces map[string]*entry
	onCreate func(*Surface)
}

type entry struct {
	surface *Surface
	cancel  context.CancelFunc
}

// NewRegistry creates a registry whose surfaces run until ctx is cancelled
// or they are removed. base is copied for every surface with ID replaced.
func NewRegistry(ctx context.Context, base Options) *Registry {
	return &Registry{
		ctx:      ctx,
		base:     base,
		surfaces: make(map[string]*entry),
	}
}

// OnCreate installs fn to configure every surface built after the call,
// before it starts running.
func (r *Registry) OnCreate(fn func(*Surface)) {
	r.mu.Lock()
	r.onCreate = fn
	r.mu.Unlock()
}

// Get returns the surface for id, building and starting it on first use.
func (r *Registry) Get(id string) (*Surface, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.surfaces[id]; ok {
		return e.surface, nil
	}

	opts := r.base
	opts.ID = id
	// Each surface needs its own clock and hub; sharing them would couple
	// unrelated gestures.
	opts.Clock = nil
	opts.Hub = nil
	opts.Logger = nil
	s, err := New(opts)
	if err != nil {
		return nil, err
	}

	if r.onCreate != nil {
		r.onCreate(s)
	}

	ctx, cancel := context.WithCancel(r.ctx)
	go s.Run(ctx)
	r.surfaces[id] = &entry{surface: s, cancel: cancel}
	return s, nil
}

// Remove stops and forgets the surface for id.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	e, ok := r.surfaces[id]
	delete(r.surfaces, id)
	r.mu.Unlock()

	if !ok {
		return false
	}
	e.cancel()
	<-e.surface.Done()
	return true
}

// IDs returns the registered identities in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.surfaces))
	for id := range r.surfaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
