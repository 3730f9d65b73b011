// Package safe wraps sync primitives with typed interfaces.
package safe

import "sync"

// RMap is a typed wrapper around sync.Map for read-mostly registries:
// entries are written during package init or on first use and looked up on
// every encode and decode after that.
type RMap[K comparable, V any] struct {
	m sync.Map
}

func (m *RMap[K, V]) Get(key K) (value V, ok bool) {
	if v, loaded := m.m.Load(key); loaded {
		return v.(V), true
	}
	return value, false
}

func (m *RMap[K, V]) Set(key K, value V) {
	m.m.Store(key, value)
}

// GetOrSet returns the existing value for the key if present. Otherwise it
// stores and returns the given value. The loaded result is true if the
// value was loaded, false if stored.
func (m *RMap[K, V]) GetOrSet(key K, value V) (actual V, loaded bool) {
	if v, loaded := m.m.LoadOrStore(key, value); loaded {
		return v.(V), true
	}
	return value, false
}
