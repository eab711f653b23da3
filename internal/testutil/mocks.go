package testutil

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// FakeList is an in-memory stand-in for the LIST commands of a Redis client.
// It answers LLEN and LRANGE the way Redis does, including negative indexes,
// and records how many LRANGE round trips were made.
type FakeList struct {
	mu     sync.Mutex
	lists  map[string][]string
	ranges int
	err    error
}

// NewFakeList creates an empty FakeList.
func NewFakeList() *FakeList {
	return &FakeList{lists: make(map[string][]string)}
}

// RPush appends values to the list stored at key.
func (f *FakeList) RPush(key string, values ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[key] = append(f.lists[key], values...)
}

// SetError makes every following command fail with err. Pass nil to recover.
func (f *FakeList) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// RangeCalls returns the number of LRANGE commands served.
func (f *FakeList) RangeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ranges
}

// LLen implements the LLEN command.
func (f *FakeList) LLen(ctx context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewIntCmd(ctx, "llen", key)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	cmd.SetVal(int64(len(f.lists[key])))
	return cmd
}

// LRange implements the LRANGE command.
func (f *FakeList) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ranges++
	cmd := redis.NewStringSliceCmd(ctx, "lrange", key, start, stop)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}

	list := f.lists[key]
	n := int64(len(list))
	if start < 0 {
		start = max(n+start, 0)
	}
	if stop < 0 {
		stop = n + stop
	}
	stop = min(stop, n-1)
	if start > stop || start >= n {
		cmd.SetVal([]string{})
		return cmd
	}
	cmd.SetVal(append([]string(nil), list[start:stop+1]...))
	return cmd
}
