package gormrows

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/lazy/iterator"
)

// Config holds configuration for a query source.
type Config struct {
	// DB is the query to page through, e.g. db.Model(&Order{}).Where("status = ?", "open").
	DB *gorm.DB

	// OrderBy must give a stable order for paging to be consistent (defaults to "id").
	OrderBy string

	// PageSize is the number of rows fetched per query (defaults to 100).
	PageSize int

	// Timeout bounds every page query (defaults to 5s).
	Timeout time.Duration
}

// DefaultConfig returns a configuration with the default order, page size
// and timeout.
func DefaultConfig() Config {
	return Config{
		OrderBy:  "id",
		PageSize: 100,
		Timeout:  5 * time.Second,
	}
}

func applyConfigDefaults(config Config) Config {
	defaults := DefaultConfig()
	if config.OrderBy == "" {
		config.OrderBy = defaults.OrderBy
	}
	if config.PageSize == 0 {
		config.PageSize = defaults.PageSize
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	return config
}

func validateConfig(config Config) error {
	if config.DB == nil {
		return lferrors.NewValidationError("gormrows", "db", nil, "cannot be nil").
			WithHint("pass a *gorm.DB scoped to the rows to read")
	}
	if config.PageSize != 0 {
		if err := validation.ValidatePositive("gormrows", "page_size", config.PageSize); err != nil {
			return err
		}
	}
	if config.Timeout < 0 {
		return lferrors.NewValidationError("gormrows", "timeout", config.Timeout, "must not be negative")
	}
	return nil
}

// Source is an iterator.Source over the rows of a GORM query, scanned into
// values of T. Rows are read with LIMIT/OFFSET one page at a time; keys are
// row offsets within the query.
type Source[T any] struct {
	ctx    context.Context
	config Config

	page  []T
	start int
	index int
	done  bool
	err   error
}

var (
	_ iterator.Source = (*Source[struct{}])(nil)
	_ iterator.Cloner = (*Source[struct{}])(nil)
)

// New creates a Source over config.DB. No query runs until the first pull.
func New[T any](ctx context.Context, config Config) (*Source[T], error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return &Source[T]{ctx: ctx, config: applyConfigDefaults(config)}, nil
}

// Err returns the query error that ended the sequence early, if any. It is
// cleared by Rewind.
func (s *Source[T]) Err() error {
	return s.err
}

// HasMore reports whether Item and Key refer to a row, querying the next
// page when the current one is used up.
func (s *Source[T]) HasMore() bool {
	if s.index-s.start < len(s.page) {
		return true
	}
	if s.done {
		return false
	}
	return s.fetch()
}

// Item returns the current row.
func (s *Source[T]) Item() any {
	return s.page[s.index-s.start]
}

// Key returns the offset of the current row.
func (s *Source[T]) Key() any {
	return s.index
}

// Advance moves to the next row.
func (s *Source[T]) Advance() {
	s.index++
}

// Rewind moves back to the first row and drops the buffered page.
func (s *Source[T]) Rewind() {
	s.page, s.start, s.index = nil, 0, 0
	s.done, s.err = false, nil
}

// Clone returns a Source over the same query with its own cursor.
func (s *Source[T]) Clone() iterator.Source {
	return &Source[T]{ctx: s.ctx, config: s.config}
}

func (s *Source[T]) fetch() bool {
	ctx, cancel := context.WithTimeout(s.ctx, s.config.Timeout)
	defer cancel()

	var rows []T
	err := s.config.DB.Session(&gorm.Session{}).
		WithContext(ctx).
		Order(s.config.OrderBy).
		Offset(s.index).
		Limit(s.config.PageSize).
		Find(&rows).Error
	if err != nil {
		s.page, s.done = nil, true
		s.err = fmt.Errorf("gormrows: page at offset %d: %w", s.index, err)
		return false
	}

	s.page, s.start = rows, s.index
	if len(rows) < s.config.PageSize {
		s.done = true
	}
	return len(rows) > 0
}
