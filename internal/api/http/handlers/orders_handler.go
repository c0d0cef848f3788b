package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dineware-service/internal/api/dto"
	"github.com/spec-kit/dineware-service/internal/auth"
	"github.com/spec-kit/dineware-service/internal/domain"
	"github.com/spec-kit/dineware-service/internal/service"
	apperrors "github.com/spec-kit/dineware-service/pkg/util"
)

// OrdersHandler exposes purchase endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// Place handles POST /orders.
func (h *OrdersHandler) Place(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized access")
	}

	var order domain.Order
	if err := c.BodyParser(&order); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.orders.Place(c.UserContext(), identity.Email, &order); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.InsertResponse{InsertedID: order.ID},
	})
}

// ListByBuyer handles GET /orders/:email. Ownership is enforced by the route.
func (h *OrdersHandler) ListByBuyer(c *fiber.Ctx) error {
	orders, err := h.orders.ListByBuyer(c.UserContext(), auth.RouteParam(c, "email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewListResponse(orders))
}

// Delete handles DELETE /orders/delete/:id.
func (h *OrdersHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.orders.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.DeleteResponse{DeletedCount: deleted},
	})
}
