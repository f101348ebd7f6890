package memory

import "slices"

// Collection is an insertion ordered sequence of values addressed by key.
// Lookups are linear scans. Collection is not safe for concurrent use; Store
// guards it.
type Collection[K comparable, V any] struct {
	key   func(V) K
	items []V
}

func newCollection[K comparable, V any](key func(V) K) *Collection[K, V] {
	return &Collection[K, V]{key: key, items: make([]V, 0)}
}

// Append adds v at the end of the collection.
func (c *Collection[K, V]) Append(v V) {
	c.items = append(c.items, v)
}

// Find returns the value stored under k.
func (c *Collection[K, V]) Find(k K) (V, bool) {
	if i := c.index(k); i >= 0 {
		return c.items[i], true
	}
	var zero V
	return zero, false
}

// Replace overwrites the value stored under the key of v in place.
// It reports false when no such value exists.
func (c *Collection[K, V]) Replace(v V) bool {
	i := c.index(c.key(v))
	if i < 0 {
		return false
	}
	c.items[i] = v
	return true
}

// Remove deletes the value stored under k and returns it.
func (c *Collection[K, V]) Remove(k K) (V, bool) {
	i := c.index(k)
	if i < 0 {
		var zero V
		return zero, false
	}
	v := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	return v, true
}

// RemoveFunc deletes every value for which del returns true and reports how many were removed.
func (c *Collection[K, V]) RemoveFunc(del func(V) bool) int {
	n := len(c.items)
	c.items = slices.DeleteFunc(c.items, del)
	return n - len(c.items)
}

// All returns a copy of the values in insertion order. The result is never nil.
func (c *Collection[K, V]) All() []V {
	return append(make([]V, 0, len(c.items)), c.items...)
}

// Len returns the number of values.
func (c *Collection[K, V]) Len() int {
	return len(c.items)
}

func (c *Collection[K, V]) index(k K) int {
	return slices.IndexFunc(c.items, func(v V) bool {
		return c.key(v) == k
	})
}
