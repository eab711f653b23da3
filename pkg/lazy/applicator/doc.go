/*
Package applicator composes ordered filter and transform stages and lets a
caller step through, or split, the resulting chain.

A Sequence is an immutable record of stages. Every append returns a new
Sequence and gives the new stage a position equal to the number of stages
already present, so positions are strictly increasing along a lineage:

	seq := applicator.Sequence{}.
		AppendFilter(applicator.Pred(func(n int) bool { return n%2 == 0 })).
		AppendTransform(applicator.Fn(func(n int) int { return n * n }))

An Applicator wraps a Sequence and compiles it, on first use, into one
Evaluator by folding the stages left to right from the identity. Filters gate
a value without changing it; transforms replace it. Rejection is explicit: an
Evaluator returns ok == false and every later stage is skipped. A transform
that returns 0 or "" produces a real value; use Truthy or TruthyPredicate
where loose emptiness rules are wanted.

	a := applicator.New().
		Filter(applicator.Pred(func(n int) bool { return n%2 == 0 })).
		Map(applicator.Fn(func(n int) int { return n * n }))

	v, ok := a.Evaluate(8, nil) // 64, true
	_, ok = a.Evaluate(7, nil)  // nil, false

Stepping:

A Walker evaluates one (item, extra) pair stage by stage. HasNext consumes
filters eagerly and stops on the next transform; Current evaluates that
transform and memoizes the result; Advance moves on.

	w := a.Walker(8, nil)
	for w.HasNext() {
		v, _ := w.Current()
		fmt.Println(w.Position(), v)
		w.Advance()
	}

Continuations:

Continuation(k) splits the chain after position k. The returned factory runs
stages 0..k immediately and hands back a fresh Walker over the rest, seeded
with the intermediate value. Running that walker to completion yields the
same value as Evaluate on the whole chain.

	next := a.Continuation(0)(8, nil)
	fmt.Println(next.Original()) // 8, the filter passed it through
	fmt.Println(next.Apply(applicator.NoLimit)) // 64 true

Out of range break points are clamped to "fold everything"; ValidateBreak
reports them as errors.ErrStageIndexOutOfRange for callers that prefer to fail.
*/
package applicator
