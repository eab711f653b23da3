package redislist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/lazy/iterator"
)

// ListClient is the subset of redis.Cmdable a Source needs. *redis.Client,
// *redis.ClusterClient and redis.UniversalClient all satisfy it.
type ListClient interface {
	LLen(ctx context.Context, key string) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// Config holds configuration for a Redis list source.
type Config struct {
	// Client issues the LLEN and LRANGE commands.
	Client ListClient

	// Key is the Redis key of the list.
	Key string

	// PageSize is the number of elements fetched per LRANGE (defaults to 100).
	PageSize int64

	// Timeout bounds every Redis command (defaults to 500ms).
	Timeout time.Duration
}

// DefaultConfig returns a configuration with the default page size and timeout.
func DefaultConfig() Config {
	return Config{
		PageSize: 100,
		Timeout:  500 * time.Millisecond,
	}
}

func applyConfigDefaults(config Config) Config {
	defaults := DefaultConfig()
	if config.PageSize == 0 {
		config.PageSize = defaults.PageSize
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	return config
}

func validateConfig(config Config) error {
	if err := validation.ValidateNotNil("redislist", "client", config.Client); err != nil {
		return err
	}
	if err := validation.ValidateNotEmpty("redislist", "key", config.Key); err != nil {
		return err
	}
	if config.PageSize < 0 {
		return lferrors.NewValidationError("redislist", "page_size", config.PageSize, "must be positive").
			WithHint("leave it zero for the default of 100")
	}
	if config.Timeout < 0 {
		return lferrors.NewValidationError("redislist", "timeout", config.Timeout, "must not be negative")
	}
	return nil
}

// Source is an iterator.Source over the elements of a Redis list. Elements
// are read lazily, one LRANGE page at a time; keys are list indexes.
//
// The list is read as it is when each page is fetched. Elements pushed while
// a Source is being consumed show up if they land after the current page.
// A Source is not safe for concurrent use; Clone hands out a new cursor.
type Source struct {
	ctx    context.Context
	config Config

	page   []string
	start  int64 // list index of page[0]
	index  int64
	done   bool
	err    error
	length int64
}

var (
	_ iterator.Source = (*Source)(nil)
	_ iterator.Cloner = (*Source)(nil)
)

// New creates a Source reading the list at config.Key. ctx is used for every
// command the Source issues. New checks the list with LLEN so an unreachable
// server is reported here rather than as an empty sequence.
func New(ctx context.Context, config Config) (*Source, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	config = applyConfigDefaults(config)

	s := &Source{ctx: ctx, config: config}
	length, err := s.llen()
	if err != nil {
		return nil, lferrors.NewOperationError("redislist", "new", err).WithContext(config.Key)
	}
	s.length = length
	return s, nil
}

// Len returns the list length reported by LLEN when the Source was created
// or last rewound.
func (s *Source) Len() int64 {
	return s.length
}

// Err returns the error that ended the sequence early, if any. It is cleared
// by Rewind.
func (s *Source) Err() error {
	return s.err
}

// HasMore reports whether Item and Key refer to an element, fetching the
// next page when the current one is used up. A failed fetch ends the
// sequence and is reported by Err.
func (s *Source) HasMore() bool {
	if s.index-s.start < int64(len(s.page)) {
		return true
	}
	if s.done {
		return false
	}
	return s.fetch()
}

// Item returns the current element.
func (s *Source) Item() any {
	return s.page[s.index-s.start]
}

// Key returns the list index of the current element.
func (s *Source) Key() any {
	return int(s.index)
}

// Advance moves to the next element.
func (s *Source) Advance() {
	s.index++
}

// Rewind moves back to the head of the list and drops the buffered page.
func (s *Source) Rewind() {
	s.page, s.start, s.index = nil, 0, 0
	s.done, s.err = false, nil
	if length, err := s.llen(); err == nil {
		s.length = length
	}
}

// Clone returns a Source over the same list with its own cursor.
func (s *Source) Clone() iterator.Source {
	return &Source{ctx: s.ctx, config: s.config, length: s.length}
}

func (s *Source) fetch() bool {
	ctx, cancel := context.WithTimeout(s.ctx, s.config.Timeout)
	defer cancel()

	start := s.index
	stop := start + s.config.PageSize - 1
	page, err := s.config.Client.LRange(ctx, s.config.Key, start, stop).Result()
	if err != nil {
		s.page, s.done = nil, true
		s.err = fmt.Errorf("redislist: LRANGE %s %d %d: %w", s.config.Key, start, stop, err)
		return false
	}

	s.page, s.start = page, start
	if int64(len(page)) < s.config.PageSize {
		s.done = true
	}
	return len(page) > 0
}

func (s *Source) llen() (int64, error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.config.Timeout)
	defer cancel()
	return s.config.Client.LLen(ctx, s.config.Key).Result()
}
