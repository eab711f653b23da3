package iterator

import (
	"cmp"
	"maps"
	"slices"
)

// Source is a rewindable pull sequence. HasMore reports whether Item and
// Key refer to an element; Advance moves to the next one and Rewind back to
// the first.
type Source interface {
	HasMore() bool
	Item() any
	Key() any
	Advance()
	Rewind()
}

// Cloner is implemented by sources that can hand out an independent cursor
// over the same elements. Pipelines derived with Filter or Map clone such
// sources so that each pipeline owns its position.
type Cloner interface {
	Clone() Source
}

func cloneSource(src Source) Source {
	if c, ok := src.(Cloner); ok {
		return c.Clone()
	}
	return src
}

// sliceSource implements Source for slices. Keys are indexes.
type sliceSource[T any] struct {
	items []T
	index int
}

// FromSlice returns a Source over items keyed by index. The slice is not copied.
func FromSlice[T any](items []T) Source {
	return &sliceSource[T]{items: items}
}

func (s *sliceSource[T]) HasMore() bool { return s.index < len(s.items) }
func (s *sliceSource[T]) Item() any     { return s.items[s.index] }
func (s *sliceSource[T]) Key() any      { return s.index }
func (s *sliceSource[T]) Advance()      { s.index++ }
func (s *sliceSource[T]) Rewind()       { s.index = 0 }

func (s *sliceSource[T]) Clone() Source {
	return &sliceSource[T]{items: s.items}
}

// mapSource implements Source for maps in ascending key order.
type mapSource[K cmp.Ordered, V any] struct {
	m     map[K]V
	keys  []K
	index int
}

// FromMap returns a Source over m in ascending key order. Keys are
// snapshotted when the source is created.
func FromMap[K cmp.Ordered, V any](m map[K]V) Source {
	return &mapSource[K, V]{m: m, keys: slices.Sorted(maps.Keys(m))}
}

func (s *mapSource[K, V]) HasMore() bool { return s.index < len(s.keys) }
func (s *mapSource[K, V]) Item() any     { return s.m[s.keys[s.index]] }
func (s *mapSource[K, V]) Key() any      { return s.keys[s.index] }
func (s *mapSource[K, V]) Advance()      { s.index++ }
func (s *mapSource[K, V]) Rewind()       { s.index = 0 }

func (s *mapSource[K, V]) Clone() Source {
	return &mapSource[K, V]{m: s.m, keys: s.keys}
}

// funcSource implements Source for an index generator.
type funcSource struct {
	n     int
	fn    func(i int) any
	index int
}

// FromFunc returns a Source of n elements where element i is fn(i). fn is
// called once per pull, so it should be deterministic for Rewind to replay
// the same elements.
func FromFunc(n int, fn func(i int) any) Source {
	return &funcSource{n: n, fn: fn}
}

func (s *funcSource) HasMore() bool { return s.index < s.n }
func (s *funcSource) Item() any     { return s.fn(s.index) }
func (s *funcSource) Key() any      { return s.index }
func (s *funcSource) Advance()      { s.index++ }
func (s *funcSource) Rewind()       { s.index = 0 }

func (s *funcSource) Clone() Source {
	return &funcSource{n: s.n, fn: s.fn}
}
