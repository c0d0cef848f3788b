package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/dineware-service/internal/events"
	"github.com/spec-kit/dineware-service/internal/repository"
)

// PurchaseTracker keeps food purchase counters in step with placed orders.
type PurchaseTracker struct {
	dispatcher events.Dispatcher
	foods      repository.FoodRepository
	logger     *zap.Logger
}

// NewPurchaseTracker creates the tracker.
func NewPurchaseTracker(dispatcher events.Dispatcher, foods repository.FoodRepository, logger *zap.Logger) *PurchaseTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseTracker{dispatcher: dispatcher, foods: foods, logger: logger}
}

// RegisterHandlers subscribes to events.
func (t *PurchaseTracker) RegisterHandlers() {
	if t.dispatcher == nil {
		return
	}
	t.dispatcher.Subscribe(events.EventOrderPlaced, t.handleOrderPlaced)
}

func (t *PurchaseTracker) handleOrderPlaced(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderPlacedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	if err := t.foods.IncrementPurchaseCount(ctx, payload.FoodID, payload.Quantity); err != nil {
		return fmt.Errorf("increment purchase count of %s: %w", payload.FoodID, err)
	}
	t.logger.Debug("OrderPlaced",
		zap.String("order_id", payload.OrderID),
		zap.String("food_id", payload.FoodID),
		zap.Int("quantity", payload.Quantity))
	return nil
}
