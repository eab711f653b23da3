/*
Package lazyflow provides lazy, composable filter and transform pipelines.

A pipeline is an ordered chain of filter and transform stages applied to
elements pulled one at a time from a source. Nothing runs until a value is
asked for, filters stop the chain as soon as they reject, and every value
is computed once per position.

Stage chains (pkg/lazy/applicator):
  - Sequence: immutable, copy-on-append list of stages
  - Walker: steps through the stages of one element and exposes
    intermediate values
  - Applicator: compiles a chain into a single evaluator and splits it
    into a folded prefix and a resumable continuation

Pipelines (pkg/lazy/iterator):
  - Pipeline: pull iteration with Valid, Current, Advance and Rewind,
    Reduce, Materialize and range-over-func through All
  - FromSlice, FromMap, FromFunc: in-memory sources

Sources and scheduling:
  - sources/redislist: paged source over a Redis list
  - scheduling/refresh: re-runs a pipeline on a cron schedule

Example usage:

	import (
		"github.com/vnykmshr/lazyflow/pkg/lazy/applicator"
		"github.com/vnykmshr/lazyflow/pkg/lazy/iterator"
	)

	p := iterator.On(iterator.FromSlice(orders)).
		Filter(applicator.Pred(func(o Order) bool { return o.Open })).
		Map(applicator.Fn(func(o Order) string { return o.ID }))

	for _, id := range p.All() {
		fmt.Println(id)
	}
*/
package lazyflow
