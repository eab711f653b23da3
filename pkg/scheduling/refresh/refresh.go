package refresh

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/common/logging"
	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/lazy/iterator"
	"github.com/vnykmshr/lazyflow/pkg/metrics"
)

// Sink receives the values of one refresh.
type Sink func(ctx context.Context, values []any) error

// Config holds refresher configuration.
type Config struct {
	// Name labels log lines and metrics (defaults to "default").
	Name string

	// Schedule is a cron expression. Five fields, an optional leading
	// seconds field and descriptors such as "@every 5m" are accepted.
	Schedule string

	// Pipeline is rewound and materialized on every run.
	Pipeline *iterator.Pipeline

	// Sink receives the materialized values. It may be nil when only
	// LastResult is used.
	Sink Sink

	// Location is the time zone the schedule is interpreted in (defaults to time.Local).
	Location *time.Location

	// Timeout bounds each scheduled run (defaults to 30s). RunNow uses the
	// caller's context instead.
	Timeout time.Duration

	// Logger receives run and failure events.
	Logger zerolog.Logger

	// Metrics enables the refresh metrics when non-nil.
	Metrics *metrics.Registry
}

// DefaultConfig returns a configuration with the default name and timeout.
func DefaultConfig() Config {
	return Config{
		Name:     "default",
		Location: time.Local,
		Timeout:  30 * time.Second,
		Logger:   logging.Nop(),
	}
}

var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Refresher re-runs a pipeline on a cron schedule and hands each result to
// a sink. Runs never overlap: a tick that fires while a run is in progress
// is skipped, and RunNow waits for it.
type Refresher struct {
	name     string
	pipeline *iterator.Pipeline
	sink     Sink
	timeout  time.Duration
	logger   zerolog.Logger
	metrics  *metrics.Registry
	cron     *cron.Cron

	runMu sync.Mutex

	mu       sync.RWMutex
	running  bool
	last     []any
	lastRun  time.Time
	lastErr  error
	runCount int64
}

// New creates a Refresher. The schedule is parsed here; nothing runs until
// Start or RunNow is called.
func New(config Config) (*Refresher, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	config = applyConfigDefaults(config)

	schedule, err := parser.Parse(config.Schedule)
	if err != nil {
		return nil, lferrors.NewValidationError("refresh", "schedule", config.Schedule, err.Error()).
			WithHint(`use five cron fields or a descriptor such as "@every 1m"`)
	}

	logger := logging.Component(config.Logger, "refresh").
		With().Str("refresher", config.Name).Logger()

	r := &Refresher{
		name:     config.Name,
		pipeline: config.Pipeline,
		sink:     config.Sink,
		timeout:  config.Timeout,
		logger:   logger,
		metrics:  config.Metrics,
	}
	r.cron = cron.New(
		cron.WithLocation(config.Location),
		cron.WithLogger(cronLogger{logger}),
		cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
	)
	r.cron.Schedule(schedule, cron.FuncJob(r.scheduledRun))
	return r, nil
}

func validateConfig(config Config) error {
	if err := validation.ValidateNotEmpty("refresh", "schedule", config.Schedule); err != nil {
		return err
	}
	if config.Pipeline == nil {
		return lferrors.NewValidationError("refresh", "pipeline", nil, "cannot be nil").
			WithHint("build one with iterator.On")
	}
	if config.Timeout < 0 {
		return lferrors.NewValidationError("refresh", "timeout", config.Timeout, "must not be negative")
	}
	return nil
}

func applyConfigDefaults(config Config) Config {
	defaults := DefaultConfig()
	if config.Name == "" {
		config.Name = defaults.Name
	}
	if config.Location == nil {
		config.Location = defaults.Location
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	return config
}

// Start begins running the pipeline on schedule.
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("refresher %q already running, call Stop() first", r.name)
	}
	r.running = true
	r.cron.Start()
	r.logger.Info().Msg("refresher started")
	return nil
}

// Stop stops the schedule. The returned channel is closed once a run that
// is in progress has finished.
func (r *Refresher) Stop() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		done := make(chan struct{})
		close(done)
		return done
	}
	r.running = false
	r.logger.Info().Msg("refresher stopped")
	return r.cron.Stop().Done()
}

// Running reports whether the schedule is active.
func (r *Refresher) Running() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

// RunNow runs the pipeline once, outside the schedule, and returns the sink
// error if any.
func (r *Refresher) RunNow(ctx context.Context) error {
	return r.run(ctx)
}

// LastResult returns the values of the last run and when it finished. The
// slice is a copy.
func (r *Refresher) LastResult() ([]any, time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.last), r.lastRun
}

// LastError returns the error of the last run, or nil if it succeeded.
func (r *Refresher) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Runs returns the number of runs so far, failed ones included.
func (r *Refresher) Runs() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.runCount
}

func (r *Refresher) scheduledRun() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	_ = r.run(ctx)
}

func (r *Refresher) run(ctx context.Context) error {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	start := time.Now()
	values := r.pipeline.Materialize()

	err := r.pipeline.Err()
	if err == nil {
		err = ctx.Err()
	}
	if err == nil && r.sink != nil {
		err = r.sink(ctx, values)
	}
	if err != nil {
		err = lferrors.NewOperationError("refresh", "run", err).WithContext(r.name)
	}
	elapsed := time.Since(start)

	r.mu.Lock()
	r.runCount++
	r.lastErr = err
	if err == nil {
		r.last, r.lastRun = values, time.Now()
	}
	r.mu.Unlock()

	r.observe(len(values), elapsed, err)
	return err
}

func (r *Refresher) observe(items int, elapsed time.Duration, err error) {
	if r.metrics != nil {
		r.metrics.RefreshRuns.WithLabelValues(r.name).Inc()
		r.metrics.RefreshDuration.WithLabelValues(r.name).Observe(elapsed.Seconds())
		if err != nil {
			r.metrics.RefreshFailures.WithLabelValues(r.name).Inc()
		} else {
			r.metrics.RefreshItems.WithLabelValues(r.name).Set(float64(items))
		}
	}

	if err != nil {
		r.logger.Error().Err(err).
			Int64(logging.FieldDuration, elapsed.Milliseconds()).
			Msg("refresh failed")
		return
	}
	r.logger.Info().
		Int(logging.FieldEmitted, items).
		Int64(logging.FieldDuration, elapsed.Milliseconds()).
		Msg("refresh completed")
}

// cronLogger routes cron's own messages to zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
