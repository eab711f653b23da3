package applicator

import (
	"fmt"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
)

// Walker steps through a run of stages against one fixed (item, extra) pair.
//
// HasNext consumes contiguous filters eagerly, so between calls the cursor
// always rests on a transform stage or past the end. Current evaluates the
// transform at the cursor and memoizes the result; Advance moves on. Once a
// filter rejects the value the walker reports no further stages until Rewind.
//
// A Walker owns its cursor and is not safe for concurrent use.
type Walker struct {
	stages []Stage
	extra  any

	original any
	seeded   bool // false when the seed itself was already rejected

	cursor   int
	memoized any
	rejected bool
}

// NewWalker returns a walker over the stages of e seeded with item.
func NewWalker(e Enumerator, item, extra any) *Walker {
	return newWalker(e.Stages(), item, extra, true)
}

func newWalker(stages []Stage, item, extra any, ok bool) *Walker {
	w := &Walker{
		stages:   stages,
		extra:    extra,
		original: item,
		seeded:   ok,
	}
	w.Rewind()
	return w
}

// Original returns the value the walker was seeded with.
func (w *Walker) Original() any {
	return w.original
}

// Extra returns the side information passed to every stage.
func (w *Walker) Extra() any {
	return w.extra
}

// HasNext reports whether the cursor rests on a transform stage, consuming
// any filter stages in front of it.
func (w *Walker) HasNext() bool {
	return w.hasNextWithin(NoLimit)
}

// hasNextWithin is HasNext restricted to stages positioned at or before
// limit. A negative limit means no restriction.
func (w *Walker) hasNextWithin(limit int) bool {
	for w.cursor < len(w.stages) && !w.rejected {
		st := w.stages[w.cursor]
		if limit >= 0 && st.Position > limit {
			return false
		}
		if st.Kind != KindFilter {
			return true
		}
		if !st.predicate(w.memoized, w.extra) {
			w.rejected = true
			w.memoized = nil
		}
		w.cursor++
	}
	return false
}

// Current evaluates the transform at the cursor against the memoized value,
// memoizes the result and returns it. It does not advance the cursor, and
// every call invokes the transform again.
func (w *Walker) Current() (any, error) {
	if w.rejected || w.cursor >= len(w.stages) {
		return nil, fmt.Errorf("applicator: walker at cursor %d: %w", w.cursor, lferrors.ErrExhausted)
	}
	st := w.stages[w.cursor]
	if st.Kind != KindTransform {
		return nil, fmt.Errorf("applicator: walker at filter stage %d, call HasNext first: %w", st.Position, lferrors.ErrExhausted)
	}
	w.memoized = st.transform(w.memoized, w.extra)
	return w.memoized, nil
}

// Advance moves the cursor to the next stage.
func (w *Walker) Advance() {
	w.cursor++
}

// Rewind resets the cursor and restores the seed value.
func (w *Walker) Rewind() {
	w.cursor = 0
	w.memoized = w.original
	w.rejected = !w.seeded
	if w.rejected {
		w.memoized = nil
	}
}

// Position returns the sequence position of the stage under the cursor, or
// -1 once the cursor is past the last stage.
func (w *Walker) Position() int {
	if w.cursor >= len(w.stages) {
		return -1
	}
	return w.stages[w.cursor].Position
}

// Stage returns the stage under the cursor.
func (w *Walker) Stage() (Stage, bool) {
	if w.cursor >= len(w.stages) {
		return Stage{}, false
	}
	return w.stages[w.cursor], true
}

// Remaining returns the number of stages at or after the cursor.
func (w *Walker) Remaining() int {
	return max(len(w.stages)-w.cursor, 0)
}

// Value returns the memoized value and whether it is still alive.
func (w *Walker) Value() (any, bool) {
	return w.memoized, !w.rejected
}

// Apply rewinds the walker and applies every stage positioned at or before
// breakAt, or all of them for NoLimit. The cursor is left just past the last
// applied stage, so stepping can resume from there.
func (w *Walker) Apply(breakAt int) (any, bool) {
	w.Rewind()
	for w.hasNextWithin(breakAt) {
		st := w.stages[w.cursor]
		w.memoized = st.transform(w.memoized, w.extra)
		w.Advance()
	}
	return w.Value()
}

// Applicator builds a new Applicator from the stages this walker steps
// through. Positions are renumbered from zero.
func (w *Walker) Applicator() *Applicator {
	return FromSequence(sequenceOf(w.stages))
}

func sequenceOf(stages []Stage) Sequence {
	var seq Sequence
	for _, st := range stages {
		switch st.Kind {
		case KindFilter:
			seq = seq.AppendFilter(st.predicate)
		case KindTransform:
			seq = seq.AppendTransform(st.transform)
		}
	}
	return seq
}
