package mapsh

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// KeysSorted returns the keys of the map sorted.
func KeysSorted[M ~map[K]V, K constraints.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// GroupBy groups the elements in s by key.
// The elements in each group keeps the order from s.
func GroupBy[S ~[]E, E any, K comparable](s S, key func(E) K) map[K]S {
	m := make(map[K]S)
	for _, e := range s {
		k := key(e)
		m[k] = append(m[k], e)
	}
	return m
}
