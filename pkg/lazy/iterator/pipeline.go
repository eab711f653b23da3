package iterator

import (
	"fmt"
	"iter"

	"github.com/rs/zerolog"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/common/logging"
	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/lazy/applicator"
	"github.com/vnykmshr/lazyflow/pkg/metrics"
)

// Config holds pipeline configuration options. Derived pipelines inherit
// the configuration of the pipeline they were built from.
type Config struct {
	// Name labels log lines and metrics.
	Name string

	// Logger receives debug events on rewind and exhaustion. The zero value
	// discards everything.
	Logger zerolog.Logger

	// Metrics enables Prometheus counters when non-nil.
	Metrics *metrics.Registry
}

// DefaultConfig returns a configuration with no logging and no metrics.
func DefaultConfig() Config {
	return Config{
		Name:   "default",
		Logger: logging.Nop(),
	}
}

// Pipeline lazily applies an applicator's stage chain to the elements of a
// Source. It is pulled with Valid, Current, Advance and Rewind:
//
//	for p.Rewind(); p.Valid(); p.Advance() {
//		v, _ := p.Current()
//		...
//	}
//
// Filter and Map return new pipelines; the receiver never changes. Each
// pipeline owns its cached value and is not safe for concurrent use.
type Pipeline struct {
	source Source
	app    *applicator.Applicator
	config Config

	logger   zerolog.Logger
	counters *metrics.PipelineCounters

	cached    any
	hasCached bool

	pulled, emitted int
}

// On creates a Pipeline with no stages over src.
func On(src Source) *Pipeline {
	return OnWithConfig(src, DefaultConfig())
}

// OnWithConfig creates a Pipeline with no stages over src using config.
func OnWithConfig(src Source, config Config) *Pipeline {
	return newPipeline(src, applicator.New(), config)
}

func newPipeline(src Source, app *applicator.Applicator, config Config) *Pipeline {
	if err := validation.ValidateNotNil("iterator", "source", src); err != nil {
		panic(err)
	}
	if config.Name == "" {
		config.Name = DefaultConfig().Name
	}
	return &Pipeline{
		source: src,
		app:    app,
		config: config,
		logger: logging.Component(config.Logger, "iterator").
			With().Str(logging.FieldPipeline, config.Name).Logger(),
		counters: config.Metrics.Pipeline(config.Name),
	}
}

// Filter returns a new pipeline that also drops elements rejected by p.
func (p *Pipeline) Filter(pred applicator.Predicate) *Pipeline {
	return p.With(p.app.Filter(pred))
}

// FilterTruthy returns a new pipeline that drops elements for which f
// returns a falsy value (see applicator.Truthy).
func (p *Pipeline) FilterTruthy(f func(value, extra any) any) *Pipeline {
	return p.Filter(applicator.TruthyPredicate(f))
}

// Map returns a new pipeline that also transforms elements with f.
func (p *Pipeline) Map(f applicator.Transform) *Pipeline {
	return p.With(p.app.Map(f))
}

// With returns a new pipeline over the same elements that uses app in place
// of the receiver's stage chain.
func (p *Pipeline) With(app *applicator.Applicator) *Pipeline {
	return newPipeline(cloneSource(p.source), app, p.config)
}

// Applicator returns the stage chain applied to every element.
func (p *Pipeline) Applicator() *applicator.Applicator {
	return p.app
}

// Valid reports whether an element survived the stage chain at the current
// position, pulling from the source until one does. A value that is already
// cached is reused without touching the source.
func (p *Pipeline) Valid() bool {
	if p.hasCached {
		return true
	}
	for p.source.HasMore() {
		p.pulled++
		if p.counters != nil {
			p.counters.Pulled.Inc()
		}

		value, ok := p.app.Evaluate(p.source.Item(), p.source.Key())
		if ok {
			p.cached, p.hasCached = value, true
			p.emitted++
			if p.counters != nil {
				p.counters.Emitted.Inc()
			}
			return true
		}

		if p.counters != nil {
			p.counters.Rejected.Inc()
		}
		p.source.Advance()
	}

	p.logger.Debug().
		Int(logging.FieldPulled, p.pulled).
		Int(logging.FieldEmitted, p.emitted).
		Int(logging.FieldRejected, p.pulled-p.emitted).
		Msg("source exhausted")
	return false
}

// Current returns the value at the current position, searching for one as
// Valid does when nothing is cached. It returns errors.ErrExhausted when no
// element survives.
func (p *Pipeline) Current() (any, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("iterator: pipeline %q: %w", p.config.Name, lferrors.ErrExhausted)
	}
	return p.cached, nil
}

// Key returns the source key of the current element.
func (p *Pipeline) Key() any {
	if !p.Valid() {
		return nil
	}
	return p.source.Key()
}

// Advance drops the cached value and moves the source one element forward.
// The search for the next surviving element is left to the next Valid.
func (p *Pipeline) Advance() {
	p.cached, p.hasCached = nil, false
	p.source.Advance()
}

// Rewind drops the cached value and moves the source back to its first
// element. Stage evaluation always restarts from scratch.
func (p *Pipeline) Rewind() {
	p.logger.Debug().
		Int(logging.FieldPulled, p.pulled).
		Int(logging.FieldEmitted, p.emitted).
		Msg("rewind")

	p.cached, p.hasCached = nil, false
	p.pulled, p.emitted = 0, 0
	p.source.Rewind()
	if p.counters != nil {
		p.counters.Rewinds.Inc()
	}
}

// Err returns the error that ended the source early, for sources that can
// fail while being read and report it through an Err method. It is nil for
// the in-memory sources.
func (p *Pipeline) Err() error {
	if f, ok := p.source.(interface{ Err() error }); ok {
		return f.Err()
	}
	return nil
}

// All rewinds the pipeline and yields every surviving (key, value) pair.
func (p *Pipeline) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for p.Rewind(); p.Valid(); p.Advance() {
			if !yield(p.source.Key(), p.cached) {
				return
			}
		}
	}
}

// Reduce rewinds the pipeline and folds every surviving value, in source
// order, into initial.
func (p *Pipeline) Reduce(fn func(acc, value, key any) any, initial any) any {
	acc := initial
	for key, value := range p.All() {
		acc = fn(acc, value, key)
	}
	return acc
}

// Materialize rewinds the pipeline and collects every surviving value in
// source order.
func (p *Pipeline) Materialize() []any {
	values := []any{}
	for _, value := range p.All() {
		values = append(values, value)
	}
	return values
}

// Collect materializes p into a []T. It fails on the first value that is
// not a T.
func Collect[T any](p *Pipeline) ([]T, error) {
	var out []T
	for key, value := range p.All() {
		v, ok := value.(T)
		if !ok {
			var zero T
			return out, fmt.Errorf("iterator: value %v at key %v is %T, not %T", value, key, value, zero)
		}
		out = append(out, v)
	}
	return out, nil
}

// ReduceTo is Reduce with a typed accumulator.
func ReduceTo[A any](p *Pipeline, initial A, fn func(acc A, value, key any) A) A {
	acc := initial
	for key, value := range p.All() {
		acc = fn(acc, value, key)
	}
	return acc
}
