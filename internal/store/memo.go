package store

// recordCache memoizes one derived record per key. Each entry captures the
// inputs the record was computed from; a lookup hits only when every
// captured input compares equal (pointer identity for entity records) to
// the freshly extracted ones. This is the input-identity memoization mode:
// a reducer that replaces an entity pointer invalidates exactly the
// records derived from it.
//
// Eviction is deliberately blunt: when the cache exceeds max entries it is
// flushed wholesale and refilled on demand. Reset clears it outright,
// which Dispatch does on logout.
type recordCache[K comparable, V any] struct {
	max     int
	entries map[K]*recordEntry[V]
}

type recordEntry[V any] struct {
	inputs []any
	value  V
}

func newRecordCache[K comparable, V any](max int) *recordCache[K, V] {
	return &recordCache[K, V]{max: max, entries: make(map[K]*recordEntry[V])}
}

func (c *recordCache[K, V]) lookup(key K, inputs ...any) (V, bool) {
	entry, ok := c.entries[key]
	if !ok || len(entry.inputs) != len(inputs) {
		var zero V
		return zero, false
	}
	for i, in := range inputs {
		if entry.inputs[i] != in {
			var zero V
			return zero, false
		}
	}
	return entry.value, true
}

func (c *recordCache[K, V]) store(key K, value V, inputs ...any) {
	if len(c.entries) >= c.max {
		clear(c.entries)
	}
	c.entries[key] = &recordEntry[V]{inputs: inputs, value: value}
}

func (c *recordCache[K, V]) reset() {
	clear(c.entries)
}

// listCache is the output-equality memoization mode for slice-returning
// selectors. The selector recomputes its projection on every call, which
// is cheap because the elements come out of a recordCache with stable
// pointers; coalesce then returns the previously cached slice whenever the
// fresh one is element-wise equal, so downstream consumers that skip work
// on slice identity are not spuriously invalidated.
type listCache[K comparable, E comparable] struct {
	entries map[K][]E
}

func newListCache[K comparable, E comparable]() *listCache[K, E] {
	return &listCache[K, E]{entries: make(map[K][]E)}
}

func (c *listCache[K, E]) coalesce(key K, fresh []E) []E {
	if cached, ok := c.entries[key]; ok && elementsEqual(cached, fresh) {
		return cached
	}
	c.entries[key] = fresh
	return fresh
}

func (c *listCache[K, E]) reset() {
	clear(c.entries)
}

func elementsEqual[E comparable](a, b []E) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
