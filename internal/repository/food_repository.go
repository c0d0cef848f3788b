package repository

import (
	"context"

	"github.com/spec-kit/dineware-service/internal/domain"
)

// UpsertResult reports the outcome of an update-or-insert.
type UpsertResult struct {
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

// FoodRepository encapsulates food persistence.
type FoodRepository interface {
	Find(ctx context.Context, query FoodQuery) ([]domain.Food, error)
	GetByID(ctx context.Context, id string) (*domain.Food, error)
	Create(ctx context.Context, food *domain.Food) error
	Upsert(ctx context.Context, id string, food domain.Food) (UpsertResult, error)
	IncrementPurchaseCount(ctx context.Context, id string, by int) error
}

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	ListByBuyer(ctx context.Context, email string) ([]domain.Order, error)
	Delete(ctx context.Context, id string) (int64, error)
}
