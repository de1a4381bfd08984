package ledger

import (
	"context"

	"golang.org/x/sync/singleflight"

	"budgetbuddy/internal/cache"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/persist"
)

// Registry hands out ledgers by email, keeping recently used ones loaded.
//
// Concurrent opens of the same email share one load. A ledger evicted from
// the cache is reloaded from storage on the next Open; a caller still holding
// the evicted instance keeps a working ledger, so confine each email to one
// session at a time.
type Registry struct {
	adapter *persist.Adapter
	opts    []Option
	cache   cache.Cache[*Ledger]
	group   singleflight.Group
}

func NewRegistry(adapter *persist.Adapter, c cache.Cache[*Ledger], opts ...Option) *Registry {
	return &Registry{
		adapter: adapter,
		opts:    opts,
		cache:   c,
	}
}

// Open returns the ledger for email, loading it on a cache miss.
func (r *Registry) Open(ctx context.Context, email string) *Ledger {
	email = core.NormalizeEmail(email)
	if l, ok := r.cache.Get(email); ok {
		return l
	}

	v, _, _ := r.group.Do(email, func() (any, error) {
		if l, ok := r.cache.Get(email); ok {
			return l, nil
		}
		l := Open(ctx, email, r.adapter, r.opts...)
		r.cache.Set(email, l)
		return l, nil
	})
	return v.(*Ledger)
}

// Forget drops email's ledger from the cache.
func (r *Registry) Forget(email string) {
	r.cache.Delete(core.NormalizeEmail(email))
}
