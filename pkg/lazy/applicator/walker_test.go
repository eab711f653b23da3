package applicator

import (
	"fmt"
	"testing"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/internal/testutil"
)

func scenario() *Applicator {
	return New().
		Filter(even).
		Map(square).
		Filter(over50).
		Map(func(v, extra any) any { return fmt.Sprintf("%v %v", extra, v) })
}

func TestWalkerSteps(t *testing.T) {
	w := scenario().Walker(8, 8)

	testutil.AssertEqual(t, w.HasNext(), true)
	testutil.AssertEqual(t, w.Position(), 1) // filter 0 consumed eagerly
	v, err := w.Current()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v.(int), 64)
	w.Advance()

	testutil.AssertEqual(t, w.HasNext(), true)
	testutil.AssertEqual(t, w.Position(), 3)
	v, err = w.Current()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v.(string), "8 64")
	w.Advance()

	testutil.AssertEqual(t, w.HasNext(), false)
	testutil.AssertEqual(t, w.Position(), -1)
	testutil.AssertEqual(t, w.Remaining(), 0)

	final, ok := w.Value()
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, final.(string), "8 64")
	testutil.AssertEqual(t, w.Original().(int), 8)
	testutil.AssertEqual(t, w.Extra().(int), 8)
}

func TestWalkerCurrentDoesNotAdvance(t *testing.T) {
	var c testutil.Counter
	a := New().Map(c.Transform(func(v, _ any) any { return v.(int) + 1 }))
	w := a.Walker(1, nil)

	testutil.AssertEqual(t, w.HasNext(), true)
	first, _ := w.Current()
	second, _ := w.Current()

	// Each call re-invokes the transform on the memoized value.
	testutil.AssertEqual(t, first.(int), 2)
	testutil.AssertEqual(t, second.(int), 3)
	testutil.AssertEqual(t, c.Calls(), int64(2))
	testutil.AssertEqual(t, w.Position(), 0)
}

func TestWalkerRejection(t *testing.T) {
	var c testutil.Counter
	a := New().
		Filter(even).
		Map(c.Transform(square)).
		Filter(c.Predicate(over50))
	w := a.Walker(3, nil)

	testutil.AssertEqual(t, w.HasNext(), false)
	_, ok := w.Value()
	testutil.AssertEqual(t, ok, false)
	testutil.AssertEqual(t, c.Calls(), int64(0))

	_, err := w.Current()
	testutil.AssertErrorIs(t, err, lferrors.ErrExhausted)

	// Stays rejected until rewound, and rewinding replays deterministically.
	testutil.AssertEqual(t, w.HasNext(), false)
	w.Rewind()
	testutil.AssertEqual(t, w.Position(), 0)
	testutil.AssertEqual(t, w.HasNext(), false)
}

func TestWalkerCurrentOnFilterIsAnError(t *testing.T) {
	w := New().Filter(even).Map(square).Walker(2, nil)

	_, err := w.Current()
	testutil.AssertErrorIs(t, err, lferrors.ErrExhausted)

	testutil.AssertEqual(t, w.HasNext(), true)
	v, err := w.Current()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v.(int), 4)
}

func TestWalkerTrailingFilters(t *testing.T) {
	a := New().Map(square).Filter(over50)

	w := a.Walker(9, nil)
	testutil.AssertEqual(t, w.HasNext(), true)
	_, _ = w.Current()
	w.Advance()
	testutil.AssertEqual(t, w.HasNext(), false)
	v, ok := w.Value()
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, v.(int), 81)

	w = a.Walker(3, nil)
	testutil.AssertEqual(t, w.HasNext(), true)
	_, _ = w.Current()
	w.Advance()
	testutil.AssertEqual(t, w.HasNext(), false)
	_, ok = w.Value()
	testutil.AssertEqual(t, ok, false)
}

func TestWalkerApply(t *testing.T) {
	a := scenario()

	tests := []struct {
		name    string
		item    int
		breakAt int
		want    any
		wantOK  bool
	}{
		{"no limit", 8, NoLimit, "8 64", true},
		{"break on first filter", 8, 0, 8, true},
		{"break on square", 8, 1, 64, true},
		{"break on second filter", 8, 2, 64, true},
		{"break on last", 8, 3, "8 64", true},
		{"break past end", 8, 10, "8 64", true},
		{"rejected by first filter", 7, NoLimit, nil, false},
		{"rejected by second filter", 6, NoLimit, nil, false},
		{"rejection after break is not seen", 6, 1, 36, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.Walker(tt.item, tt.item)
			got, ok := w.Apply(tt.breakAt)
			testutil.AssertEqual(t, ok, tt.wantOK)
			testutil.AssertEqual(t, got, tt.want)
		})
	}
}

func TestWalkerApplyThenResume(t *testing.T) {
	w := scenario().Walker(10, 10)

	v, ok := w.Apply(1)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, v.(int), 100)

	testutil.AssertEqual(t, w.HasNext(), true)
	testutil.AssertEqual(t, w.Position(), 3)
	v, err := w.Current()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v.(string), "10 100")

	// Apply always starts over.
	v, ok = w.Apply(NoLimit)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, v.(string), "10 100")
}

func TestWalkerStage(t *testing.T) {
	w := scenario().Walker(8, 8)
	st, ok := w.Stage()
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, st.Kind, KindFilter)

	w.Apply(NoLimit)
	_, ok = w.Stage()
	testutil.AssertEqual(t, ok, false)
}

func TestWalkerApplicator(t *testing.T) {
	next := scenario().Continuation(1)(8, 8)
	rebuilt := next.Applicator()

	testutil.AssertEqual(t, rebuilt.Len(), 2)
	v, ok := rebuilt.Evaluate(64, 8)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, v.(string), "8 64")
	testutil.AssertEqual(t, rebuilt.IsValid(49, 7), false)
}
