package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/internal/app/pricing"
	"github.com/threadline-shop/threadline-backend/internal/app/repository"
	"github.com/threadline-shop/threadline-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrGuestCartNotFound = errors.New("guest cart not found")

// GuestSyncResult is the outcome of folding a guest cart into a user cart.
// Failed lines stay behind in the guest cart so nothing is silently lost.
type GuestSyncResult struct {
	CartItems []model.CartItem  `json:"cartItems"`
	Failed    []FailedGuestItem `json:"failed,omitempty"`
}

type GuestCartService interface {
	GetCart(ctx context.Context, guestID string) (*model.GuestCart, error)
	AddItem(ctx context.Context, guestID string, productID uint, size model.Size, quantity int) (*model.GuestCart, error)
	UpdateItem(ctx context.Context, guestID string, productID uint, size model.Size, quantity int) (*model.GuestCart, error)
	RemoveItem(ctx context.Context, guestID string, productID uint, size model.Size) (*model.GuestCart, error)
	ClearCart(ctx context.Context, guestID string) error
	SyncToUser(ctx context.Context, guestID string, userID uint) (*GuestSyncResult, error)
}

type guestCartService struct {
	guestRepo   repository.GuestCartRepository
	productRepo repository.ProductRepository
	cartService CartService
}

func NewGuestCartService(
	guestRepo repository.GuestCartRepository,
	productRepo repository.ProductRepository,
	cartService CartService,
) GuestCartService {
	return &guestCartService{
		guestRepo:   guestRepo,
		productRepo: productRepo,
		cartService: cartService,
	}
}

// GetCart returns the guest cart, creating an empty one when guestID is
// blank. The generated ID travels back to the client, which sends it on
// subsequent requests.
func (s *guestCartService) GetCart(ctx context.Context, guestID string) (*model.GuestCart, error) {
	if guestID == "" {
		cart := &model.GuestCart{ID: uuid.NewString(), Items: []model.GuestLineItem{}}
		if err := s.guestRepo.Save(ctx, cart); err != nil {
			return nil, err
		}
		logger.Info("New guest cart issued", map[string]interface{}{
			"guest_cart_id": cart.ID,
		})
		return cart, nil
	}

	cart, err := s.guestRepo.Get(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		// Expired or unknown ID, start fresh under the same ID
		cart = &model.GuestCart{ID: guestID, Items: []model.GuestLineItem{}}
	}
	return cart, nil
}

func (s *guestCartService) AddItem(ctx context.Context, guestID string, productID uint, size model.Size, quantity int) (*model.GuestCart, error) {
	logger.Info("Adding item to guest cart", map[string]interface{}{
		"guest_cart_id": guestID,
		"product_id":    productID,
		"size":          size,
		"quantity":      quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.HasSize(size) {
		return nil, ErrSizeNotAvailable
	}

	cart, err := s.GetCart(ctx, guestID)
	if err != nil {
		return nil, err
	}

	if idx := cart.FindItem(productID, size); idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, model.GuestLineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Size:      size,
			Quantity:  quantity,
			Price:     pricing.Amount(product.Price),
			ImageURL:  product.ImageURL,
		})
	}

	if err := s.guestRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem sets a line's quantity; zero removes the line.
func (s *guestCartService) UpdateItem(ctx context.Context, guestID string, productID uint, size model.Size, quantity int) (*model.GuestCart, error) {
	logger.Info("Updating guest cart item", map[string]interface{}{
		"guest_cart_id": guestID,
		"product_id":    productID,
		"size":          size,
		"quantity":      quantity,
	})

	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.guestRepo.Get(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrGuestCartNotFound
	}

	idx := cart.FindItem(productID, size)
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}

	if quantity == 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	if err := s.guestRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes a line. Missing lines are ignored.
func (s *guestCartService) RemoveItem(ctx context.Context, guestID string, productID uint, size model.Size) (*model.GuestCart, error) {
	cart, err := s.guestRepo.Get(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrGuestCartNotFound
	}

	if idx := cart.FindItem(productID, size); idx >= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		if err := s.guestRepo.Save(ctx, cart); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

func (s *guestCartService) ClearCart(ctx context.Context, guestID string) error {
	logger.Info("Clearing guest cart", map[string]interface{}{
		"guest_cart_id": guestID,
	})
	return s.guestRepo.Delete(ctx, guestID)
}

// SyncToUser merges the guest cart into the freshly authenticated user's
// cart. Lines that merged successfully leave the guest cart; rejected lines
// are written back so the client can surface them. A fully merged guest
// cart is deleted.
func (s *guestCartService) SyncToUser(ctx context.Context, guestID string, userID uint) (*GuestSyncResult, error) {
	logger.Info("Syncing guest cart to user", map[string]interface{}{
		"guest_cart_id": guestID,
		"user_id":       userID,
	})

	cart, err := s.guestRepo.Get(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		cartItems, err := s.cartService.GetUserCart(userID)
		if err != nil {
			return nil, err
		}
		return &GuestSyncResult{CartItems: cartItems}, nil
	}

	cartItems, failed, err := s.cartService.MergeGuestItems(userID, cart.Items)
	if err != nil {
		return nil, err
	}

	if len(failed) == 0 {
		if err := s.guestRepo.Delete(ctx, guestID); err != nil {
			// The merge already happened; a stale guest cart expires on its own
			logger.Warn("Failed to delete guest cart after full merge", map[string]interface{}{
				"guest_cart_id": guestID,
				"error":         err.Error(),
			})
		}
	} else {
		remaining := make([]model.GuestLineItem, 0, len(failed))
		for _, f := range failed {
			remaining = append(remaining, f.Item)
		}
		cart.Items = remaining
		if err := s.guestRepo.Save(ctx, cart); err != nil {
			logger.Warn("Failed to rewrite guest cart with rejected lines", map[string]interface{}{
				"guest_cart_id": guestID,
				"error":         err.Error(),
			})
		}
	}

	return &GuestSyncResult{CartItems: cartItems, Failed: failed}, nil
}
