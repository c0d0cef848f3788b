package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/dineware-service/internal/api/dto"
	"github.com/spec-kit/dineware-service/internal/auth"
	"github.com/spec-kit/dineware-service/internal/domain"
	"github.com/spec-kit/dineware-service/internal/repository"
	"github.com/spec-kit/dineware-service/internal/service"
	apperrors "github.com/spec-kit/dineware-service/pkg/util"
)

// FoodsHandler exposes the food catalogue.
type FoodsHandler struct {
	foods *service.FoodService
}

// NewFoodsHandler constructs handler.
func NewFoodsHandler(foods *service.FoodService) *FoodsHandler {
	return &FoodsHandler{foods: foods}
}

// List handles GET /foods?search=&filter=&sort=.
func (h *FoodsHandler) List(c *fiber.Ctx) error {
	foods, err := h.foods.List(c.UserContext(), repository.FoodListParams{
		Search: c.Query("search"),
		Filter: c.Query("filter"),
		Sort:   c.Query("sort"),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewListResponse(foods))
}

// TopSelling handles GET /foods/top-selling.
func (h *FoodsHandler) TopSelling(c *fiber.Ctx) error {
	foods, err := h.foods.TopSelling(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewListResponse(foods))
}

// Get handles GET /food/:id.
func (h *FoodsHandler) Get(c *fiber.Ctx) error {
	food, err := h.foods.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": food})
}

// ListByOwner handles GET /foods/:email. Ownership is enforced by the route.
func (h *FoodsHandler) ListByOwner(c *fiber.Ctx) error {
	foods, err := h.foods.ListByOwner(c.UserContext(), auth.RouteParam(c, "email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewListResponse(foods))
}

// Create handles POST /add-food.
func (h *FoodsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized access")
	}

	var food domain.Food
	if err := c.BodyParser(&food); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.foods.Create(c.UserContext(), identity.Email, &food); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.InsertResponse{InsertedID: food.ID},
	})
}

// Update handles PUT /food/update/:id.
func (h *FoodsHandler) Update(c *fiber.Ctx) error {
	var food domain.Food
	if err := c.BodyParser(&food); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.foods.Update(c.UserContext(), utils.CopyString(c.Params("id")), food)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}
