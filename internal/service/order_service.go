package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/dineware-service/internal/domain"
	"github.com/spec-kit/dineware-service/internal/events"
	"github.com/spec-kit/dineware-service/internal/repository"
	apperrors "github.com/spec-kit/dineware-service/pkg/util"
)

// OrderService coordinates order placement and lookup.
type OrderService struct {
	orders     repository.OrderRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewOrderService constructs the service.
func NewOrderService(orders repository.OrderRepository, dispatcher events.Dispatcher, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{orders: orders, dispatcher: dispatcher, logger: logger}
}

// Place stores an order for buyerEmail and announces it.
func (s *OrderService) Place(ctx context.Context, buyerEmail string, order *domain.Order) error {
	order.FoodID = strings.TrimSpace(order.FoodID)
	if order.FoodID == "" {
		return apperrors.NewValidationError("foodId required", nil)
	}
	if order.Quantity < 0 {
		return apperrors.NewValidationError("quantity must not be negative", nil)
	}
	if order.Quantity == 0 {
		order.Quantity = 1
	}
	switch order.BuyerEmail {
	case "":
		order.BuyerEmail = buyerEmail
	case buyerEmail:
	default:
		return apperrors.NewForbidden("forbidden access")
	}
	order.CreatedAt = time.Now().UTC()

	if err := s.orders.Create(ctx, order); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:  events.EventOrderPlaced,
		Actor: buyerEmail,
		Payload: events.OrderPlacedPayload{
			OrderID:    order.ID,
			FoodID:     order.FoodID,
			Quantity:   order.Quantity,
			BuyerEmail: order.BuyerEmail,
		},
	})
	return nil
}

// ListByBuyer returns the orders placed by email.
func (s *OrderService) ListByBuyer(ctx context.Context, email string) ([]domain.Order, error) {
	return s.orders.ListByBuyer(ctx, email)
}

// Delete removes an order and reports how many documents were deleted.
// Purchase counters are left as they are.
func (s *OrderService) Delete(ctx context.Context, id string) (int64, error) {
	if strings.TrimSpace(id) == "" {
		return 0, apperrors.NewValidationError("id required", nil)
	}
	return s.orders.Delete(ctx, id)
}

// publishEvent never fails the request; subscriber errors are logged.
func (s *OrderService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event subscribers failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
