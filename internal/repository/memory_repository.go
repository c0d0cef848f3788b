package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dineware-service/internal/domain"
)

// MemoryFoodRepository keeps foods in process memory. It evaluates FoodQuery
// with the same semantics as the database backends.
type MemoryFoodRepository struct {
	mu    sync.RWMutex
	order []string
	foods map[string]domain.Food
}

// NewMemoryFoodRepository returns an empty in-memory food store.
func NewMemoryFoodRepository() *MemoryFoodRepository {
	return &MemoryFoodRepository{foods: make(map[string]domain.Food)}
}

func (r *MemoryFoodRepository) Find(_ context.Context, query FoodQuery) ([]domain.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query.NameContains)
	result := []domain.Food{}
	for _, id := range r.order {
		food := r.foods[id]
		if needle != "" && !strings.Contains(strings.ToLower(food.FoodName), needle) {
			continue
		}
		if query.Origin != nil && food.FoodOrigin != *query.Origin {
			continue
		}
		if query.OwnerEmail != nil && food.Email != *query.OwnerEmail {
			continue
		}
		result = append(result, food)
	}

	if key := sortKey(query.SortField); key != nil {
		switch query.Sort {
		case domain.SortAscending:
			sort.SliceStable(result, func(i, j int) bool { return key(result[i]) < key(result[j]) })
		case domain.SortDescending:
			sort.SliceStable(result, func(i, j int) bool { return key(result[i]) > key(result[j]) })
		}
	}
	if query.Limit > 0 && len(result) > query.Limit {
		result = result[:query.Limit]
	}
	return result, nil
}

func sortKey(field string) func(domain.Food) float64 {
	switch field {
	case domain.FieldPrice:
		return func(f domain.Food) float64 { return f.Price }
	case domain.FieldPurchaseCount:
		return func(f domain.Food) float64 { return float64(f.PurchaseCount) }
	default:
		return nil
	}
}

func (r *MemoryFoodRepository) GetByID(_ context.Context, id string) (*domain.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	food, ok := r.foods[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &food, nil
}

func (r *MemoryFoodRepository) Create(_ context.Context, food *domain.Food) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	food.ID = uuid.NewString()
	r.foods[food.ID] = *food
	r.order = append(r.order, food.ID)
	return nil
}

func (r *MemoryFoodRepository) Upsert(_ context.Context, id string, food domain.Food) (UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// id may alias a request buffer; the map outlives the request.
	id = strings.Clone(id)
	fields := food.UpdateFields()
	current, ok := r.foods[id]
	if !ok {
		fields.ID = id
		r.foods[id] = fields
		r.order = append(r.order, id)
		return UpsertResult{UpsertedID: id}, nil
	}

	merged := mergeFood(current, fields)
	modified := int64(0)
	if merged != current {
		modified = 1
	}
	r.foods[id] = merged
	return UpsertResult{MatchedCount: 1, ModifiedCount: modified}, nil
}

func (r *MemoryFoodRepository) IncrementPurchaseCount(_ context.Context, id string, by int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	food, ok := r.foods[id]
	if !ok {
		return pgx.ErrNoRows
	}
	food.PurchaseCount += by
	r.foods[id] = food
	return nil
}

// mergeFood applies the non-zero fields of update onto current, like a $set.
func mergeFood(current, update domain.Food) domain.Food {
	if update.FoodName != "" {
		current.FoodName = update.FoodName
	}
	if update.FoodImage != "" {
		current.FoodImage = update.FoodImage
	}
	if update.FoodCategory != "" {
		current.FoodCategory = update.FoodCategory
	}
	if update.FoodOrigin != "" {
		current.FoodOrigin = update.FoodOrigin
	}
	if update.Description != "" {
		current.Description = update.Description
	}
	if update.Price != 0 {
		current.Price = update.Price
	}
	if update.Quantity != 0 {
		current.Quantity = update.Quantity
	}
	if update.OwnerName != "" {
		current.OwnerName = update.OwnerName
	}
	if update.Email != "" {
		current.Email = update.Email
	}
	return current
}

// MemoryOrderRepository keeps orders in process memory.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	order  []string
	orders map[string]domain.Order
}

// NewMemoryOrderRepository returns an empty in-memory order store.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[string]domain.Order)}
}

func (r *MemoryOrderRepository) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = uuid.NewString()
	r.orders[order.ID] = *order
	r.order = append(r.order, order.ID)
	return nil
}

func (r *MemoryOrderRepository) ListByBuyer(_ context.Context, email string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.Order{}
	for _, id := range r.order {
		if order, ok := r.orders[id]; ok && order.BuyerEmail == email {
			result = append(result, order)
		}
	}
	return result, nil
}

func (r *MemoryOrderRepository) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return 0, nil
	}
	delete(r.orders, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}
