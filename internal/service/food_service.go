package service

import (
	"context"
	"strings"

	"github.com/spec-kit/dineware-service/internal/domain"
	"github.com/spec-kit/dineware-service/internal/repository"
	apperrors "github.com/spec-kit/dineware-service/pkg/util"
)

// FoodService coordinates food listing and catalogue edits.
type FoodService struct {
	foods repository.FoodRepository
}

// NewFoodService constructs the service.
func NewFoodService(foods repository.FoodRepository) *FoodService {
	return &FoodService{foods: foods}
}

// List validates the listing parameters and runs the resulting query.
// Validation failures return before the store is touched.
func (s *FoodService) List(ctx context.Context, params repository.FoodListParams) ([]domain.Food, error) {
	query, err := repository.BuildFoodQuery(params)
	if err != nil {
		return nil, err
	}
	return s.foods.Find(ctx, query)
}

// TopSelling returns the most purchased foods.
func (s *FoodService) TopSelling(ctx context.Context) ([]domain.Food, error) {
	return s.foods.Find(ctx, repository.TopSellingQuery())
}

// Get fetches a single food.
func (s *FoodService) Get(ctx context.Context, id string) (*domain.Food, error) {
	return s.foods.GetByID(ctx, id)
}

// ListByOwner returns the foods added by email.
func (s *FoodService) ListByOwner(ctx context.Context, email string) ([]domain.Food, error) {
	return s.foods.Find(ctx, repository.OwnerQuery(email))
}

// Create adds a food owned by ownerEmail.
func (s *FoodService) Create(ctx context.Context, ownerEmail string, food *domain.Food) error {
	food.FoodName = strings.TrimSpace(food.FoodName)
	if food.FoodName == "" {
		return apperrors.NewValidationError("foodName required", nil)
	}
	if food.Price < 0 {
		return apperrors.NewValidationError("price must not be negative", nil)
	}
	switch food.Email {
	case "":
		food.Email = ownerEmail
	case ownerEmail:
	default:
		return apperrors.NewForbidden("forbidden access")
	}
	food.PurchaseCount = 0
	return s.foods.Create(ctx, food)
}

// Update overwrites the provided fields of a food, inserting it when the id is unknown.
func (s *FoodService) Update(ctx context.Context, id string, food domain.Food) (repository.UpsertResult, error) {
	if strings.TrimSpace(id) == "" {
		return repository.UpsertResult{}, apperrors.NewValidationError("id required", nil)
	}
	if food.UpdateFields() == (domain.Food{}) {
		return repository.UpsertResult{}, apperrors.NewValidationError("no fields to update", nil)
	}
	if food.Price < 0 {
		return repository.UpsertResult{}, apperrors.NewValidationError("price must not be negative", nil)
	}
	return s.foods.Upsert(ctx, id, food)
}
