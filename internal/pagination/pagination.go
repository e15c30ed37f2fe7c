// Package pagination splits ordered sequences into numbered, fixed-size pages.
package pagination

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// DefaultPageSize is the page size used when a caller does not configure one.
const DefaultPageSize = 10

// Sequence is a finite, ordered and restartable source of items. Implementations
// evaluate lazily: nothing is read until Count or Slice is called.
type Sequence[T any] interface {
	Count(ctx context.Context) (int64, error)
	Slice(ctx context.Context, offset, limit int) ([]T, error)
}

// Page is one slice of a sequence plus its position in the whole. NextPage and
// PreviousPage are 0, and omitted from JSON, at either end.
type Page[T any] struct {
	Items        []T   `json:"items"`
	Number       int   `json:"number"`
	PageSize     int   `json:"page_size"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	HasNext      bool  `json:"has_next"`
	HasPrevious  bool  `json:"has_previous"`
	NextPage     int   `json:"next_page,omitempty"`
	PreviousPage int   `json:"previous_page,omitempty"`
}

// ErrInvalidPageSize is returned when pageSize is not positive.
var ErrInvalidPageSize = errors.New("pagination: page size must be positive")

// ParsePageNumber reads a raw ?page= value. Absent or non-numeric input yields 1.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// TotalPages is the number of pages count items occupy. An empty sequence still has one page.
func TotalPages(count int64, pageSize int) int {
	if count <= 0 {
		return 1
	}
	return int((count + int64(pageSize) - 1) / int64(pageSize))
}

// Clamp resolves a requested page number against totalPages. Numbers past the end,
// and numbers below 1, resolve to the last page.
func Clamp(number, totalPages int) int {
	if number < 1 || number > totalPages {
		return totalPages
	}
	return number
}

// Paginate returns page number of seq. The result never errors on an out-of-range
// number and never comes back empty while seq has items.
func Paginate[T any](ctx context.Context, seq Sequence[T], pageSize, number int) (*Page[T], error) {
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}

	count, err := seq.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalPages := TotalPages(count, pageSize)
	number = Clamp(number, totalPages)

	page := &Page[T]{
		Items:       []T{},
		Number:      number,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  count,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
	if page.HasNext {
		page.NextPage = number + 1
	}
	if page.HasPrevious {
		page.PreviousPage = number - 1
	}
	if count == 0 {
		return page, nil
	}

	items, err := seq.Slice(ctx, (number-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	if items != nil {
		page.Items = items
	}
	return page, nil
}

// SliceSequence adapts an in-memory slice to Sequence.
type SliceSequence[T any] []T

// Count returns the slice length.
func (s SliceSequence[T]) Count(_ context.Context) (int64, error) {
	return int64(len(s)), nil
}

// Slice returns a copy of s[offset:offset+limit], truncated at the end of s.
func (s SliceSequence[T]) Slice(_ context.Context, offset, limit int) ([]T, error) {
	if offset >= len(s) || offset < 0 {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	out := make([]T, end-offset)
	copy(out, s[offset:end])
	return out, nil
}
