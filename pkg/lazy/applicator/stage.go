package applicator

import (
	"fmt"

	"github.com/vnykmshr/lazyflow/pkg/common/validation"
)

// NoLimit is the break point that never matches a stage position.
const NoLimit = -1

// Kind tags a stage as a filter or a transform.
type Kind uint8

const (
	// KindFilter gates a value without changing it.
	KindFilter Kind = iota + 1
	// KindTransform maps a value to a new value.
	KindTransform
)

func (k Kind) String() string {
	switch k {
	case KindFilter:
		return "filter"
	case KindTransform:
		return "transform"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Predicate decides whether value survives. extra is read-only side
// information supplied by the caller, typically the source key.
type Predicate func(value, extra any) bool

// Transform maps value to a new value. extra is the same side information a
// Predicate receives.
type Transform func(value, extra any) any

// Stage is one filter or transform at a fixed position of a Sequence.
type Stage struct {
	Position int
	Kind     Kind

	predicate Predicate
	transform Transform
}

func filterStage(position int, p Predicate) Stage {
	if err := validation.ValidateNotNilFunc("applicator", "predicate", p); err != nil {
		panic(err)
	}
	return Stage{Position: position, Kind: KindFilter, predicate: p}
}

func transformStage(position int, f Transform) Stage {
	if err := validation.ValidateNotNilFunc("applicator", "transform", f); err != nil {
		panic(err)
	}
	return Stage{Position: position, Kind: KindTransform, transform: f}
}

// Apply runs the stage against value. For a filter the value is passed
// through unchanged when the predicate accepts it; ok reports rejection.
func (s Stage) Apply(value, extra any) (result any, ok bool) {
	switch s.Kind {
	case KindFilter:
		if !s.predicate(value, extra) {
			return nil, false
		}
		return value, true
	case KindTransform:
		return s.transform(value, extra), true
	default:
		panic(fmt.Sprintf("applicator: stage %d has unknown kind %v", s.Position, s.Kind))
	}
}

// Predicate returns the filter payload, or nil for a transform stage.
func (s Stage) Predicate() Predicate { return s.predicate }

// Transform returns the transform payload, or nil for a filter stage.
func (s Stage) Transform() Transform { return s.transform }

func (s Stage) String() string {
	return fmt.Sprintf("%d:%s", s.Position, s.Kind)
}
