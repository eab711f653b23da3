package testutil

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"
	"time"
)

// TestTimeout is the default timeout for tests
const TestTimeout = 5 * time.Second

// WithTimeout creates a context with the default test timeout
func WithTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), TestTimeout)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorIs fails the test unless errors.Is(err, target)
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("got error %v, want %v", err, target)
	}
}

// AssertEqual fails the test if got != want
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// AssertSliceEqual fails the test unless got and want hold the same elements in order
func AssertSliceEqual[T comparable](t *testing.T, got, want []T) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// AssertPanics fails the test unless fn panics
func AssertPanics(t *testing.T, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Fatal("expected panic, got none")
		}
	}()
	fn()
	return nil
}

// Eventually polls cond every tick until it holds or timeout elapses
func Eventually(t *testing.T, cond func() bool, timeout, tick time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %v", timeout)
		}
		time.Sleep(tick)
	}
}

// Counter counts calls made through the stage functions it wraps.
type Counter struct {
	calls atomic.Int64
}

// Calls returns the number of recorded calls.
func (c *Counter) Calls() int64 {
	return c.calls.Load()
}

// Reset zeroes the counter.
func (c *Counter) Reset() {
	c.calls.Store(0)
}

// Predicate wraps p so each call is counted.
func (c *Counter) Predicate(p func(value, extra any) bool) func(value, extra any) bool {
	return func(value, extra any) bool {
		c.calls.Add(1)
		return p(value, extra)
	}
}

// Transform wraps f so each call is counted.
func (c *Counter) Transform(f func(value, extra any) any) func(value, extra any) any {
	return func(value, extra any) any {
		c.calls.Add(1)
		return f(value, extra)
	}
}
