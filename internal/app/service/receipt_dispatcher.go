package service

import (
	"context"
	"time"

	"github.com/threadline-shop/threadline-backend/internal/app/repository"
	"github.com/threadline-shop/threadline-backend/pkg/logger"
	"github.com/threadline-shop/threadline-backend/pkg/mailer"
)

const (
	receiptMaxAttempts = 3
	receiptBaseBackoff = time.Second
)

// receiptDispatcher sends the order confirmation email off the request
// path. Delivery is fire and forget: the order is already committed, so a
// mail failure is logged and retried but never surfaces to the customer.
type receiptDispatcher struct {
	orderRepo   repository.OrderRepository
	mailer      mailer.Mailer
	maxAttempts int
	baseBackoff time.Duration
}

func NewReceiptDispatcher(orderRepo repository.OrderRepository, m mailer.Mailer) Dispatcher {
	return &receiptDispatcher{
		orderRepo:   orderRepo,
		mailer:      m,
		maxAttempts: receiptMaxAttempts,
		baseBackoff: receiptBaseBackoff,
	}
}

func (d *receiptDispatcher) Dispatch(orderID uint) {
	go func() {
		if err := d.DispatchSync(context.Background(), orderID); err != nil {
			logger.Error("Order receipt delivery gave up", err, map[string]interface{}{
				"order_id": orderID,
				"attempts": d.maxAttempts,
			})
		}
	}()
}

// DispatchSync loads the order with its customer and attempts delivery,
// backing off exponentially between attempts.
func (d *receiptDispatcher) DispatchSync(ctx context.Context, orderID uint) error {
	order, err := d.orderRepo.FindByID(orderID)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		lastErr = d.mailer.SendOrderReceipt(ctx, order.User.Email, order.User.Name, order)
		if lastErr == nil {
			logger.Info("Order receipt delivered", map[string]interface{}{
				"order_id": orderID,
				"attempt":  attempt,
			})
			return nil
		}

		logger.Warn("Order receipt delivery failed", map[string]interface{}{
			"order_id": orderID,
			"attempt":  attempt,
			"error":    lastErr.Error(),
		})

		if attempt < d.maxAttempts {
			backoff := d.baseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}
