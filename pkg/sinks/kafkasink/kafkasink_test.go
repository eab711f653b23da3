package kafkasink

import (
	"context"
	"errors"
	"sync"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/lazy/applicator"
	"github.com/vnykmshr/lazyflow/pkg/lazy/iterator"
	"github.com/vnykmshr/lazyflow/pkg/scheduling/refresh"
)

type fakeWriter struct {
	mu      sync.Mutex
	batches [][]kafkago.Message
	err     error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.batches = append(w.batches, msgs)
	return nil
}

func header(m kafkago.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestNewRequiresWriter(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.True(t, lferrors.IsValidationError(err))
}

func TestPublishEncodesEachValue(t *testing.T) {
	w := &fakeWriter{}
	s, err := New(Config{
		Writer: w,
		Topic:  "squares",
		Key:    func(_ any, i int) []byte { return []byte{byte('a' + i)} },
	})
	require.NoError(t, err)

	require.NoError(t, s.Publish(context.Background(), []any{64, map[string]int{"n": 100}}))
	require.Len(t, w.batches, 1)

	msgs := w.batches[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, "64", string(msgs[0].Value))
	assert.JSONEq(t, `{"n":100}`, string(msgs[1].Value))
	assert.Equal(t, "squares", msgs[0].Topic)
	assert.Equal(t, []byte("b"), msgs[1].Key)

	assert.Equal(t, "0", header(msgs[0], HeaderIndex))
	assert.Equal(t, "1", header(msgs[1], HeaderIndex))
	assert.Equal(t, "2", header(msgs[1], HeaderCount))
	assert.NotEmpty(t, header(msgs[0], HeaderBatch))
	assert.Equal(t, header(msgs[0], HeaderBatch), header(msgs[1], HeaderBatch))
}

func TestBatchesGetDistinctIDs(t *testing.T) {
	w := &fakeWriter{}
	s, err := New(Config{Writer: w})
	require.NoError(t, err)

	require.NoError(t, s.Publish(context.Background(), []any{"a"}))
	require.NoError(t, s.Publish(context.Background(), []any{"b"}))
	assert.NotEqual(t, header(w.batches[0][0], HeaderBatch), header(w.batches[1][0], HeaderBatch))
}

func TestEmptyBatchWritesNothing(t *testing.T) {
	w := &fakeWriter{}
	s, err := New(Config{Writer: w})
	require.NoError(t, err)

	require.NoError(t, s.Publish(context.Background(), nil))
	assert.Empty(t, w.batches)
}

func TestEncodeError(t *testing.T) {
	w := &fakeWriter{}
	s, err := New(Config{Writer: w})
	require.NoError(t, err)

	err = s.Publish(context.Background(), []any{func() {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafkasink.encode failed")
	assert.Empty(t, w.batches)
}

func TestWriteError(t *testing.T) {
	boom := errors.New("leader not available")
	s, err := New(Config{Writer: &fakeWriter{err: boom}})
	require.NoError(t, err)

	err = s.Publish(context.Background(), []any{1})
	assert.ErrorIs(t, err, boom)
}

func TestAsRefreshSink(t *testing.T) {
	w := &fakeWriter{}
	s, err := New(Config{Writer: w})
	require.NoError(t, err)

	p := iterator.On(iterator.FromSlice([]int{1, 2, 3, 4})).
		Filter(applicator.Pred(func(n int) bool { return n%2 == 0 }))
	r, err := refresh.New(refresh.Config{Schedule: "@every 1h", Pipeline: p, Sink: s.Publish})
	require.NoError(t, err)

	require.NoError(t, r.RunNow(context.Background()))
	require.Len(t, w.batches, 1)
	assert.Equal(t, "2", string(w.batches[0][0].Value))
	assert.Equal(t, "4", string(w.batches[0][1].Value))
}
