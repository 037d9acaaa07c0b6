package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/pkg/kv"
	"github.com/threadline-shop/threadline-backend/pkg/logger"
)

const guestCartKeyPrefix = "guest_cart:"

// GuestCartRepository stores anonymous carts as JSON documents in a
// key-value store with a TTL. Get returns nil when the cart does not
// exist or has expired.
type GuestCartRepository interface {
	Get(ctx context.Context, id string) (*model.GuestCart, error)
	Save(ctx context.Context, cart *model.GuestCart) error
	Delete(ctx context.Context, id string) error
}

type guestCartRepository struct {
	store kv.Store
	ttl   time.Duration
}

func NewGuestCartRepository(store kv.Store, ttl time.Duration) GuestCartRepository {
	return &guestCartRepository{store: store, ttl: ttl}
}

func (r *guestCartRepository) Get(ctx context.Context, id string) (*model.GuestCart, error) {
	raw, found, err := r.store.Get(ctx, guestCartKeyPrefix+id)
	if err != nil {
		logger.Error("Failed to load guest cart", err, map[string]interface{}{
			"guest_cart_id": id,
		})
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var cart model.GuestCart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		logger.Error("Failed to decode guest cart", err, map[string]interface{}{
			"guest_cart_id": id,
		})
		return nil, fmt.Errorf("failed to decode guest cart %s: %w", id, err)
	}
	cart.ID = id

	logger.Debug("Guest cart loaded", map[string]interface{}{
		"guest_cart_id": id,
		"item_count":    len(cart.Items),
	})
	return &cart, nil
}

func (r *guestCartRepository) Save(ctx context.Context, cart *model.GuestCart) error {
	cart.UpdatedAt = time.Now()

	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode guest cart %s: %w", cart.ID, err)
	}

	if err := r.store.Set(ctx, guestCartKeyPrefix+cart.ID, string(raw), r.ttl); err != nil {
		logger.Error("Failed to save guest cart", err, map[string]interface{}{
			"guest_cart_id": cart.ID,
		})
		return err
	}

	logger.Debug("Guest cart saved", map[string]interface{}{
		"guest_cart_id": cart.ID,
		"item_count":    len(cart.Items),
	})
	return nil
}

func (r *guestCartRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, guestCartKeyPrefix+id); err != nil {
		logger.Error("Failed to delete guest cart", err, map[string]interface{}{
			"guest_cart_id": id,
		})
		return err
	}

	logger.Debug("Guest cart deleted", map[string]interface{}{
		"guest_cart_id": id,
	})
	return nil
}
