package queries

import (
	"context"
	"log/slog"
	"time"

	"artisan-store/internal/infra"
	"artisan-store/internal/infra/cache"
	"artisan-store/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCategoryNotFound = errs.New("category not found")

const categoriesCacheKey = "categories:all"

type CategoryView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CategoryQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CategoryView, error)
	List(ctx context.Context) ([]*CategoryView, error)
}

type CategoryReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CategoryView, error)
	FindAll(ctx context.Context) ([]*CategoryView, error)
}

type categoryQueriesImpl struct {
	readStore CategoryReadStore
	cache     cache.Cache
	cacheTTL  time.Duration
}

func NewCategoryQueries(readStore CategoryReadStore, c cache.Cache, cacheTTL time.Duration) CategoryQueries {
	return &categoryQueriesImpl{
		readStore: readStore,
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

func (q *categoryQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CategoryView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *categoryQueriesImpl) List(ctx context.Context) ([]*CategoryView, error) {
	var cached []*CategoryView
	if err := cache.GetJSON(ctx, q.cache, categoriesCacheKey, &cached); err == nil {
		return cached, nil
	}

	views, err := q.readStore.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, q.cache, categoriesCacheKey, views, q.cacheTTL); err != nil {
		slog.Warn("failed to cache categories", "error", err.Error())
	}

	return views, nil
}
