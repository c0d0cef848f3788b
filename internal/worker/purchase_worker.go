package worker

import (
	"github.com/spec-kit/dineware-service/internal/service"
)

// StartPurchaseWorker registers the purchase counter on the event bus.
func StartPurchaseWorker(tracker *service.PurchaseTracker) {
	if tracker == nil {
		return
	}
	tracker.RegisterHandlers()
}
