package applicator

import "slices"

// Enumerator exposes an ordered enumeration of tagged stages. It is all a
// Walker or the compiler needs to know about where stages come from.
type Enumerator interface {
	Stages() []Stage
}

// Sequence is an immutable, ordered record of stages. Appending returns a
// new Sequence; the receiver is never modified, so a Sequence can be shared
// freely between pipelines and goroutines.
type Sequence struct {
	stages []Stage
}

// AppendFilter returns a new Sequence with p appended as a filter stage.
func (s Sequence) AppendFilter(p Predicate) Sequence {
	return s.append(filterStage(len(s.stages), p))
}

// AppendTransform returns a new Sequence with f appended as a transform stage.
func (s Sequence) AppendTransform(f Transform) Sequence {
	return s.append(transformStage(len(s.stages), f))
}

func (s Sequence) append(st Stage) Sequence {
	stages := make([]Stage, len(s.stages), len(s.stages)+1)
	copy(stages, s.stages)
	return Sequence{stages: append(stages, st)}
}

// Len returns the number of stages.
func (s Sequence) Len() int {
	return len(s.stages)
}

// Stages returns the stages in ascending position order.
func (s Sequence) Stages() []Stage {
	return slices.Clone(s.stages)
}

// Filters returns the filter predicates keyed by position.
func (s Sequence) Filters() map[int]Predicate {
	filters := make(map[int]Predicate)
	for _, st := range s.stages {
		if st.Kind == KindFilter {
			filters[st.Position] = st.predicate
		}
	}
	return filters
}

// Transforms returns the transform functions keyed by position.
func (s Sequence) Transforms() map[int]Transform {
	transforms := make(map[int]Transform)
	for _, st := range s.stages {
		if st.Kind == KindTransform {
			transforms[st.Position] = st.transform
		}
	}
	return transforms
}

// stageList is a residual run of stages split off a Sequence. Positions keep
// the values they had in the parent sequence.
type stageList []Stage

func (l stageList) Stages() []Stage { return slices.Clone(l) }
