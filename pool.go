package refetch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/refetch-go/refetch/store"
)

// ErrPoolTypeMismatch is returned by FromPool when an identity key is already
// registered with a different value type.
var ErrPoolTypeMismatch = errors.New("refetch: pool entry has a different value type")

// member is the type-erased view of a pooled cache.
type member interface {
	Cancel()
	Status() Status
}

// Pool is a registry mapping identity keys to cache instances, so call sites
// that share a key reuse the same refresh state. Construct one explicitly and
// pass it to the call sites that need it; there is no package-level pool.
type Pool struct {
	mu      sync.Mutex
	members map[string]member
	order   []string
}

// NewPool creates an empty Pool.
func NewPool() *Pool {
	return &Pool{members: make(map[string]member)}
}

// FromPool returns the cache registered under key, creating and registering
// one with the given store and options on first use. The first caller's
// configuration wins; later callers' store and options are ignored. If the
// key is registered with a different value type, ErrPoolTypeMismatch is
// returned.
func FromPool[T any](p *Pool, key string, st store.Store, opts ...Option) (*Cache[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if m, ok := p.members[key]; ok {
		c, ok := m.(*Cache[T])
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrPoolTypeMismatch, key)
		}
		return c, nil
	}

	c := New[T](key, st, opts...)
	p.members[key] = c
	p.order = append(p.order, key)
	return c, nil
}

// CancelAll cancels pending refresh activity on every member. Stored cache
// entries are not deleted.
func (p *Pool) CancelAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range p.members {
		m.Cancel()
	}
}

// Status returns a snapshot of every member, in registration order.
func (p *Pool) Status() []Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Status, 0, len(p.order))
	for _, key := range p.order {
		out = append(out, p.members[key].Status())
	}
	return out
}

// Len returns the number of registered members.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.members)
}
