// Package repository provides the data store and feed queries over GORM.
package repository

import (
	"context"
	"errors"

	"yatube/internal/models"
	"yatube/internal/pagination"

	"gorm.io/gorm"
)

// newestFirst is the total order shared by every post and comment listing.
const newestFirst = "created_at DESC, id DESC"

// querySequence is a lazy pagination.Sequence over a GORM model. Each call to
// Count or Slice runs a fresh query, so results reflect the committed state at
// call time and the sequence can be walked any number of times.
type querySequence[M any] struct {
	db       *gorm.DB
	filter   func(*gorm.DB) *gorm.DB
	preloads []string
}

func newQuerySequence[M any](db *gorm.DB, filter func(*gorm.DB) *gorm.DB, preloads ...string) *querySequence[M] {
	return &querySequence[M]{db: db, filter: filter, preloads: preloads}
}

func (s *querySequence[M]) base(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx).Model(new(M))
	if s.filter != nil {
		q = s.filter(q)
	}
	return q
}

func (s *querySequence[M]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.base(ctx).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (s *querySequence[M]) Slice(ctx context.Context, offset, limit int) ([]*M, error) {
	q := s.base(ctx)
	for _, p := range s.preloads {
		q = q.Preload(p)
	}
	items := []*M{}
	if err := q.Order(newestFirst).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

var _ pagination.Sequence[*models.Post] = (*querySequence[models.Post])(nil)

// notFoundOr maps gorm.ErrRecordNotFound to a NOT_FOUND AppError and anything
// else to INTERNAL_ERROR.
func notFoundOr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
