package redislist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/lazyflow/internal/testutil"
	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/lazy/applicator"
	"github.com/vnykmshr/lazyflow/pkg/lazy/iterator"
)

func fill(f *testutil.FakeList, key string, n int) {
	for i := 0; i < n; i++ {
		f.RPush(key, strconv.Itoa(i))
	}
}

func newSource(t *testing.T, f *testutil.FakeList, pageSize int64) *Source {
	t.Helper()
	src, err := New(context.Background(), Config{Client: f, Key: "events", PageSize: pageSize})
	require.NoError(t, err)
	return src
}

func TestConfigValidation(t *testing.T) {
	f := testutil.NewFakeList()
	ctx := context.Background()

	tests := []struct {
		name   string
		config Config
	}{
		{"nil client", Config{Key: "k"}},
		{"empty key", Config{Client: f}},
		{"negative page size", Config{Client: f, Key: "k", PageSize: -1}},
		{"negative timeout", Config{Client: f, Key: "k", Timeout: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(ctx, tt.config)
			require.Error(t, err)
			assert.True(t, lferrors.IsValidationError(err))
		})
	}
}

func TestDefaultsApplied(t *testing.T) {
	src := newSource(t, testutil.NewFakeList(), 0)
	assert.Equal(t, DefaultConfig().PageSize, src.config.PageSize)
	assert.Equal(t, DefaultConfig().Timeout, src.config.Timeout)
}

func TestNewReportsUnreachableServer(t *testing.T) {
	f := testutil.NewFakeList()
	f.SetError(errors.New("connection refused"))

	_, err := New(context.Background(), Config{Client: f, Key: "events"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redislist.new failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestReadsInPages(t *testing.T) {
	f := testutil.NewFakeList()
	fill(f, "events", 7)
	src := newSource(t, f, 3)
	assert.Equal(t, int64(7), src.Len())

	var keys, items []any
	for ; src.HasMore(); src.Advance() {
		keys = append(keys, src.Key())
		items = append(items, src.Item())
	}

	assert.Equal(t, []any{0, 1, 2, 3, 4, 5, 6}, keys)
	assert.Equal(t, []any{"0", "1", "2", "3", "4", "5", "6"}, items)
	assert.Equal(t, 3, f.RangeCalls())
	assert.NoError(t, src.Err())
}

func TestExactMultipleOfPageSize(t *testing.T) {
	f := testutil.NewFakeList()
	fill(f, "events", 4)
	src := newSource(t, f, 2)

	n := 0
	for ; src.HasMore(); src.Advance() {
		n++
	}
	assert.Equal(t, 4, n)
	assert.Equal(t, 3, f.RangeCalls())
	assert.False(t, src.HasMore())
	assert.Equal(t, 3, f.RangeCalls())
}

func TestEmptyList(t *testing.T) {
	f := testutil.NewFakeList()
	src := newSource(t, f, 10)
	assert.False(t, src.HasMore())
	assert.Equal(t, int64(0), src.Len())
}

func TestRewindRereads(t *testing.T) {
	f := testutil.NewFakeList()
	fill(f, "events", 3)
	src := newSource(t, f, 10)

	for ; src.HasMore(); src.Advance() {
	}
	f.RPush("events", "3")
	src.Rewind()

	assert.Equal(t, int64(4), src.Len())
	n := 0
	for ; src.HasMore(); src.Advance() {
		n++
	}
	assert.Equal(t, 4, n)
}

func TestFetchErrorEndsSequence(t *testing.T) {
	f := testutil.NewFakeList()
	fill(f, "events", 5)
	src := newSource(t, f, 2)

	require.True(t, src.HasMore())
	src.Advance()
	src.Advance()
	f.SetError(errors.New("timeout"))

	assert.False(t, src.HasMore())
	require.Error(t, src.Err())
	assert.Contains(t, src.Err().Error(), "LRANGE events 2 3")

	f.SetError(nil)
	src.Rewind()
	assert.NoError(t, src.Err())
	assert.True(t, src.HasMore())
}

func TestCloneHasOwnCursor(t *testing.T) {
	f := testutil.NewFakeList()
	fill(f, "events", 3)
	src := newSource(t, f, 10)

	require.True(t, src.HasMore())
	src.Advance()

	clone := src.Clone()
	require.True(t, clone.HasMore())
	assert.Equal(t, 0, clone.Key())
	assert.Equal(t, 1, src.Key())
}

func TestPipelineOverRedisList(t *testing.T) {
	f := testutil.NewFakeList()
	fill(f, "events", 11)
	src := newSource(t, f, 4)

	p := iterator.On(src).
		Map(applicator.Fn(func(s string) int { n, _ := strconv.Atoi(s); return n })).
		Filter(applicator.Pred(func(n int) bool { return n%2 == 0 })).
		Map(applicator.Fn(func(n int) int { return n * n })).
		Filter(applicator.Pred(func(n int) bool { return n > 50 })).
		Map(func(v, key any) any { return fmt.Sprintf("%v %v", key, v) })

	assert.Equal(t, []any{"8 64", "10 100"}, p.Materialize())
	assert.Equal(t, []any{"8 64", "10 100"}, p.Materialize())
	assert.NoError(t, p.Err())
}

func TestPipelineSurfacesReadErrors(t *testing.T) {
	f := testutil.NewFakeList()
	fill(f, "events", 3)
	src := newSource(t, f, 10)
	p := iterator.On(src)

	f.SetError(errors.New("loading"))
	assert.Empty(t, p.Materialize())
	assert.Error(t, p.Err())
}
