package repository

import (
	"strings"

	"github.com/spec-kit/dineware-service/internal/domain"
	apperrors "github.com/spec-kit/dineware-service/pkg/util"
)

// TopSellingLimit is the number of foods returned by the top-selling listing.
const TopSellingLimit = 6

// FoodListParams carries the raw query parameters of a food listing.
type FoodListParams struct {
	Search string
	Filter string
	Sort   string
}

// FoodQuery is a validated, store-independent food listing query.
// All set constraints must hold for an item to match.
type FoodQuery struct {
	NameContains string
	Origin       *string
	OwnerEmail   *string
	SortField    string
	Sort         domain.SortDirection
	Limit        int
}

// BuildFoodQuery validates listing parameters and turns them into a FoodQuery.
// An unknown sort token is rejected before any store access.
func BuildFoodQuery(params FoodListParams) (FoodQuery, error) {
	direction, err := domain.ParseSortDirection(params.Sort)
	if err != nil {
		return FoodQuery{}, apperrors.NewValidationError("invalid sort value", map[string]any{
			"sort":    params.Sort,
			"allowed": []string{string(domain.SortAscending), string(domain.SortDescending)},
		})
	}

	query := FoodQuery{NameContains: strings.TrimSpace(params.Search)}
	if origin := strings.TrimSpace(params.Filter); origin != "" {
		query.Origin = &origin
	}
	if direction != domain.SortNone {
		query.SortField = domain.FieldPrice
		query.Sort = direction
	}
	return query, nil
}

// TopSellingQuery lists the most purchased foods first.
func TopSellingQuery() FoodQuery {
	return FoodQuery{
		SortField: domain.FieldPurchaseCount,
		Sort:      domain.SortDescending,
		Limit:     TopSellingLimit,
	}
}

// OwnerQuery lists the foods added by email.
func OwnerQuery(email string) FoodQuery {
	return FoodQuery{OwnerEmail: &email}
}
