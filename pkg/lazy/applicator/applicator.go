package applicator

import (
	"fmt"
	"sync"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
)

// Evaluator runs a composed stage chain. ok is false when a filter rejected
// the item somewhere along the chain.
type Evaluator func(item, extra any) (value any, ok bool)

// ContinuationFactory runs the folded prefix of a split chain and returns a
// fresh Walker over the remaining stages, seeded with the prefix result.
type ContinuationFactory func(item, extra any) *Walker

func identity(item, _ any) (any, bool) {
	return item, true
}

// Compile folds the stages of e left to right into a single Evaluator,
// starting from the identity.
func Compile(e Enumerator) Evaluator {
	return fold(e.Stages())
}

// CompileContinuation splits the stages of e after breakAt. Stages
// positioned at or before breakAt are folded into the prefix; the rest are
// handed to the Walker the factory returns.
//
// breakAt is clamped rather than rejected: NoLimit, any other negative value
// and anything at or beyond the last position fold the whole chain and
// leave an empty residual. Use ValidateBreak for a strict check.
func CompileContinuation(e Enumerator, breakAt int) ContinuationFactory {
	stages := e.Stages()
	split := splitIndex(stages, breakAt)
	prefix := fold(stages[:split])
	residual := stageList(stages[split:])

	return func(item, extra any) *Walker {
		value, ok := prefix(item, extra)
		return newWalker(residual, value, extra, ok)
	}
}

// ValidateBreak reports whether breakAt names a stage of e. NoLimit is
// always accepted.
func ValidateBreak(e Enumerator, breakAt int) error {
	if breakAt == NoLimit {
		return nil
	}
	stages := e.Stages()
	if breakAt < 0 || len(stages) == 0 || breakAt > stages[len(stages)-1].Position {
		return fmt.Errorf("applicator: break at %d with %d stages: %w",
			breakAt, len(stages), lferrors.ErrStageIndexOutOfRange)
	}
	return nil
}

func splitIndex(stages []Stage, breakAt int) int {
	if breakAt < 0 {
		return len(stages)
	}
	for i, st := range stages {
		if st.Position > breakAt {
			return i
		}
	}
	return len(stages)
}

func fold(stages []Stage) Evaluator {
	result := Evaluator(identity)
	for _, st := range stages {
		result = compose(result, st)
	}
	return result
}

func compose(inner Evaluator, st Stage) Evaluator {
	switch st.Kind {
	case KindFilter:
		predicate := st.predicate
		return func(item, extra any) (any, bool) {
			passed, ok := inner(item, extra)
			if !ok || !predicate(passed, extra) {
				return nil, false
			}
			return passed, true
		}
	case KindTransform:
		transform := st.transform
		return func(item, extra any) (any, bool) {
			passed, ok := inner(item, extra)
			if !ok {
				return nil, false
			}
			return transform(passed, extra), true
		}
	default:
		panic(fmt.Sprintf("applicator: stage %d has unknown kind %v", st.Position, st.Kind))
	}
}

// Applicator is an immutable stage sequence together with its compiled
// evaluator. Filter and Map return new applicators; an Applicator can be
// shared between goroutines.
type Applicator struct {
	seq Sequence

	once sync.Once
	eval Evaluator
}

// New returns an Applicator with no stages. It evaluates as the identity.
func New() *Applicator {
	return FromSequence(Sequence{})
}

// FromSequence wraps an existing Sequence.
func FromSequence(seq Sequence) *Applicator {
	return &Applicator{seq: seq}
}

// Filter returns a new Applicator with p appended as a filter stage.
func (a *Applicator) Filter(p Predicate) *Applicator {
	return FromSequence(a.seq.AppendFilter(p))
}

// Map returns a new Applicator with f appended as a transform stage.
func (a *Applicator) Map(f Transform) *Applicator {
	return FromSequence(a.seq.AppendTransform(f))
}

// Sequence returns the underlying stage sequence.
func (a *Applicator) Sequence() Sequence {
	return a.seq
}

// Len returns the number of stages in constant time.
func (a *Applicator) Len() int {
	return a.seq.Len()
}

// Stages implements Enumerator.
func (a *Applicator) Stages() []Stage {
	return a.seq.Stages()
}

// Evaluate runs the full chain on item. The chain is compiled on first use.
func (a *Applicator) Evaluate(item, extra any) (any, bool) {
	a.once.Do(func() { a.eval = Compile(a.seq) })
	return a.eval(item, extra)
}

// IsValid reports whether item survives every filter.
func (a *Applicator) IsValid(item, extra any) bool {
	_, ok := a.Evaluate(item, extra)
	return ok
}

// Partial returns the composition of the stages positioned at or before
// breakAt, or of all stages for NoLimit.
func (a *Applicator) Partial(breakAt int) Evaluator {
	stages := a.seq.stages
	return fold(stages[:splitIndex(stages, breakAt)])
}

// ComposeTransforms returns the composition of the transform stages only;
// filters are ignored.
func (a *Applicator) ComposeTransforms() Transform {
	var transforms []Transform
	for _, st := range a.seq.stages {
		if st.Kind == KindTransform {
			transforms = append(transforms, st.transform)
		}
	}
	return func(item, extra any) any {
		for _, f := range transforms {
			item = f(item, extra)
		}
		return item
	}
}

// Walker returns a Walker over every stage, seeded with item.
func (a *Applicator) Walker(item, extra any) *Walker {
	return NewWalker(a.seq, item, extra)
}

// Continuation returns a factory for walkers over the stages after breakAt.
// See CompileContinuation for how breakAt is clamped.
func (a *Applicator) Continuation(breakAt int) ContinuationFactory {
	return CompileContinuation(a.seq, breakAt)
}

// ValidateBreak reports whether breakAt names one of this applicator's stages.
func (a *Applicator) ValidateBreak(breakAt int) error {
	return ValidateBreak(a.seq, breakAt)
}

// Apply runs the stages positioned at or before breakAt on item and returns
// the intermediate value. It is Partial(breakAt)(item, extra) without
// keeping the evaluator around.
func (a *Applicator) Apply(item, extra any, breakAt int) (any, bool) {
	return a.Partial(breakAt)(item, extra)
}
