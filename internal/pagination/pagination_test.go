package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) SliceSequence[int] {
	s := make(SliceSequence[int], n)
	for i := range s {
		s[i] = i
	}
	return s
}

func TestParsePageNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"2", 2},
		{" 3 ", 3},
		{"1.5", 1},
		{"-4", -4},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePageNumber(tt.raw))
		})
	}
}

func TestPaginate_ThirteenItems(t *testing.T) {
	ctx := context.Background()
	s := seq(13)

	p1, err := Paginate[int](ctx, s, 10, 1)
	require.NoError(t, err)
	assert.Len(t, p1.Items, 10)
	assert.Equal(t, 2, p1.TotalPages)
	assert.True(t, p1.HasNext)
	assert.False(t, p1.HasPrevious)
	assert.Equal(t, 2, p1.NextPage)
	assert.Equal(t, 0, p1.PreviousPage)

	p2, err := Paginate[int](ctx, s, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, p2.Items)
	assert.False(t, p2.HasNext)
	assert.True(t, p2.HasPrevious)
	assert.Equal(t, 0, p2.NextPage)
	assert.Equal(t, 1, p2.PreviousPage)

	p3, err := Paginate[int](ctx, s, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, p2, p3, "page past the end clamps to the last page")
}

func TestPaginate_BelowOneResolvesToLastPage(t *testing.T) {
	p, err := Paginate[int](context.Background(), seq(25), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, []int{20, 21, 22, 23, 24}, p.Items)
}

func TestPaginate_Empty(t *testing.T) {
	p, err := Paginate[int](context.Background(), seq(0), 10, 5)
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrevious)
}

func TestPaginate_InvalidPageSize(t *testing.T) {
	_, err := Paginate[int](context.Background(), seq(3), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
}

func TestPaginate_PartitionProperty(t *testing.T) {
	ctx := context.Background()
	for n := 1; n <= 40; n++ {
		for size := 1; size <= 12; size++ {
			s := seq(n)
			first, err := Paginate[int](ctx, s, size, 1)
			require.NoError(t, err)

			var joined []int
			for number := 1; number <= first.TotalPages; number++ {
				p, err := Paginate[int](ctx, s, size, number)
				require.NoError(t, err)
				assert.Equal(t, number, p.Number)
				joined = append(joined, p.Items...)
			}
			assert.Equal(t, []int(s), joined, "n=%d size=%d", n, size)
		}
	}
}

func TestPaginate_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := seq(17)
	a, err := Paginate[int](ctx, s, 5, 2)
	require.NoError(t, err)
	b, err := Paginate[int](ctx, s, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

type failingSeq struct{ countErr, sliceErr error }

func (f failingSeq) Count(context.Context) (int64, error) { return 5, f.countErr }
func (f failingSeq) Slice(context.Context, int, int) ([]int, error) {
	return nil, f.sliceErr
}

func TestPaginate_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := Paginate[int](context.Background(), failingSeq{countErr: boom}, 2, 1)
	assert.ErrorIs(t, err, boom)

	_, err = Paginate[int](context.Background(), failingSeq{sliceErr: boom}, 2, 1)
	assert.ErrorIs(t, err, boom)
}
