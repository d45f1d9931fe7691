// Package idmap provides an insertion-ordered map keyed by object id.
//
// It wraps a keylist.List, whose deletions rebuild the whole index. Here
// deletions only mark the key; marked entries are dropped in one linear
// compaction when the ordered values are next read, when a marked key is
// set again, or when marked entries outnumber live ones. Removing k of n
// entries therefore costs O(n + k) instead of O(n*k).
package idmap

import "cogentcore.org/core/base/keylist"

// Map is the zero-value-ready ordered map. It is not safe for concurrent use.
type Map[V any] struct {
	list keylist.List[string, V]
	dead map[string]struct{}
}

// Len returns the number of live entries.
func (m *Map[V]) Len() int { return m.list.Len() - len(m.dead) }

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	if _, gone := m.dead[key]; gone {
		var zero V
		return zero, false
	}
	return m.list.AtTry(key)
}

func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores v under key. A new key goes to the end; an existing one keeps
// its position.
func (m *Map[V]) Set(key string, v V) {
	if _, gone := m.dead[key]; gone {
		m.compact()
	}
	m.list.Set(key, v)
}

// Delete removes key and reports whether it was present.
func (m *Map[V]) Delete(key string) bool {
	if !m.Has(key) {
		return false
	}
	if m.dead == nil {
		m.dead = make(map[string]struct{})
	}
	m.dead[key] = struct{}{}
	if len(m.dead) > m.Len() {
		m.compact()
	}
	return true
}

// Values returns the live values in order. The slice is owned by the map
// and is valid until the next mutation.
func (m *Map[V]) Values() []V {
	m.compact()
	return m.list.Values
}

// Keys returns the live keys in order, under the same terms as Values.
func (m *Map[V]) Keys() []string {
	m.compact()
	return m.list.Keys
}

func (m *Map[V]) Reset() {
	m.list.Reset()
	clear(m.dead)
}

func (m *Map[V]) compact() {
	if len(m.dead) == 0 {
		return
	}
	keys, values := m.list.Keys, m.list.Values
	m.list.Reset()
	for i, k := range keys {
		if _, gone := m.dead[k]; gone {
			continue
		}
		m.list.Set(k, values[i])
	}
	clear(m.dead)
}
