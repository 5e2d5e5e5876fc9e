package performance

import (
	"github.com/san-kum/hydrodrag/internal/cache"
	"github.com/san-kum/hydrodrag/internal/entity"
)

type resolved struct {
	params   Parameters
	revision uint64
}

// Resolver merges the store's tiers and caches the result per vessel.
//
// By default a vessel keeps the parameters it was first resolved with.
// With live reload enabled, a vessel whose cached entry predates the
// store's current revision is resolved again on its next lookup.
type Resolver struct {
	store  *Store
	live   bool
	cached *cache.Cache[resolved]
}

type Option func(*Resolver)

func WithRegistry(reg *entity.Registry) Option {
	return func(r *Resolver) { r.cached.Watch(reg) }
}

func WithLiveReload(enabled bool) Option {
	return func(r *Resolver) { r.live = enabled }
}

func NewResolver(store *Store, opts ...Option) *Resolver {
	if store == nil {
		store = NewStore()
	}
	r := &Resolver{store: store, cached: cache.New[resolved](nil)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Store() *Store { return r.store }

// Resolve merges user > custom > default for class and completes the
// result with Generic. It never fails: unknown classes get Generic.
func (r *Resolver) Resolve(class string) Parameters {
	name := NormalizeName(class)
	user, custom, def := r.store.Tiers(name)
	merged := Merge(user, Merge(custom, def))
	return Fill(name, merged)
}

// ForVessel returns the cached parameters of a vessel, resolving them
// from class on first use.
func (r *Resolver) ForVessel(h entity.Handle, class string) Parameters {
	entry := r.cached.GetFunc(h, func(entity.Handle) resolved {
		return r.fresh(class)
	})
	if r.live && entry.revision != r.store.Revision() {
		entry = r.fresh(class)
		r.cached.Set(h, entry)
	}
	return entry.params
}

func (r *Resolver) fresh(class string) resolved {
	// read the revision first so a concurrent update forces another pass
	rev := r.store.Revision()
	return resolved{params: r.Resolve(class), revision: rev}
}

func (r *Resolver) Forget(h entity.Handle) { r.cached.Forget(h) }
