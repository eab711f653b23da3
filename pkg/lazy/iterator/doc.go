/*
Package iterator provides the lazy pipeline: a pull-based view over a Source
that runs every element through an applicator's stage chain on demand.

Nothing is evaluated when a pipeline is built. Each call to Valid pulls
elements from the source until one survives every filter, caches the
transformed value and stops. Current and Key then read the cache, so a
value is never computed twice for the same position.

# Basic Usage

	p := iterator.On(iterator.FromSlice([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10})).
		Filter(func(v, _ any) bool { return v.(int)%2 == 0 }).
		Map(func(v, _ any) any { return v.(int) * v.(int) }).
		Filter(func(v, _ any) bool { return v.(int) > 50 }).
		Map(func(v, key any) any { return fmt.Sprintf("%v %v", key, v) })

	for _, v := range p.All() {
		fmt.Println(v) // "8 64", then "10 100"
	}

The second argument of every stage function is the source key of the
element being evaluated.

# Sources

FromSlice, FromMap and FromFunc cover in-memory data. Any type implementing
Source can be used; sources that also implement Cloner give every derived
pipeline its own cursor, otherwise derived pipelines share one.

# Observability

OnWithConfig accepts a zerolog logger and a metrics registry. Rewinds and
source exhaustion are logged at debug level; pulled, emitted and rejected
items are counted per pipeline name.

# Thread Safety

A Pipeline is not safe for concurrent use. Applicators are immutable and may
be shared between pipelines running on different goroutines.
*/
package iterator
