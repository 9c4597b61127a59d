package cache

import (
	"context"
	"time"

	"gasbook/backend/internal/domain"
)

// CategoryCache holds a store's category catalog. The catalog only
// changes when a store is seeded, so lookups on the posting path can
// skip the database most of the time.
type CategoryCache interface {
	Get(ctx context.Context, key string) ([]domain.TxCategory, bool, error)
	Set(ctx context.Context, key string, categories []domain.TxCategory, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type NoopCategoryCache struct{}

func (NoopCategoryCache) Get(_ context.Context, _ string) ([]domain.TxCategory, bool, error) {
	return nil, false, nil
}

func (NoopCategoryCache) Set(_ context.Context, _ string, _ []domain.TxCategory, _ time.Duration) error {
	return nil
}

func (NoopCategoryCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
