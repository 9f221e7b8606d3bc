// Package store holds the in-memory entity collections. Each collection is an
// independent map behind its own mutex; a lock is held only for the duration
// of the in-memory operation, never across pagination, hashing, or I/O.
package store

import (
	"sync"

	"github.com/google/uuid"

	"perfectapi/internal/domain"
)

// Collection is a keyed set of entities guarded by a single mutex. Values are
// cloned on the way in and out so callers can never alias stored state.
type Collection[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]V
	clone func(V) V
}

// NewCollection creates an empty collection. clone must produce a deep copy
// of a value.
func NewCollection[K comparable, V any](clone func(V) V) *Collection[K, V] {
	return &Collection[K, V]{
		items: make(map[K]V),
		clone: clone,
	}
}

// Get returns a copy of the entity for key, if present.
func (c *Collection[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return c.clone(v), true
}

// Put unconditionally upserts the entity under key.
func (c *Collection[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = c.clone(value)
}

// PutChecked upserts value under key unless conflict reports true for any
// entity stored under a different key. Check and write happen under one lock
// acquisition, so no concurrent write can interleave; on conflict nothing is
// written and domain.ErrConflict is returned.
func (c *Collection[K, V]) PutChecked(key K, value V, conflict func(existingKey K, existing V) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.items {
		if k == key {
			continue
		}
		if conflict(k, v) {
			return domain.ErrConflict
		}
	}
	c.items[key] = c.clone(value)
	return nil
}

// Delete removes the entity under key and reports whether anything was
// removed.
func (c *Collection[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	delete(c.items, key)
	return ok
}

// Snapshot returns a point-in-time copy of all entities. Callers filter,
// sort, and paginate the snapshot without holding the collection lock.
func (c *Collection[K, V]) Snapshot() []V {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]V, 0, len(c.items))
	for _, v := range c.items {
		out = append(out, c.clone(v))
	}
	return out
}

// Len returns the number of stored entities.
func (c *Collection[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Store owns the three entity collections and the product id sequence. The
// collections are mutually independent; no operation locks more than one.
type Store struct {
	Users    *Collection[uuid.UUID, domain.User]
	Products *Collection[int64, domain.Product]
	Orders   *Collection[uuid.UUID, domain.Order]

	seqMu      sync.Mutex
	productSeq int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		Users:    NewCollection[uuid.UUID](CloneUser),
		Products: NewCollection[int64](CloneProduct),
		Orders:   NewCollection[uuid.UUID](CloneOrder),
	}
}

// NextProductID returns the next value of the sequential, collection-scoped
// product id, starting at 1.
func (s *Store) NextProductID() int64 {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.productSeq++
	return s.productSeq
}

// CloneUser deep-copies a user, including the optional profile.
func CloneUser(u domain.User) domain.User {
	if u.Profile != nil {
		p := *u.Profile
		p.Interests = append([]string(nil), u.Profile.Interests...)
		u.Profile = &p
	}
	return u
}

// CloneProduct deep-copies a product, including tags and dimensions.
func CloneProduct(p domain.Product) domain.Product {
	p.Tags = append([]string(nil), p.Tags...)
	if p.Dimensions != nil {
		d := *p.Dimensions
		p.Dimensions = &d
	}
	return p
}

// CloneOrder deep-copies an order, including its line items.
func CloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}
