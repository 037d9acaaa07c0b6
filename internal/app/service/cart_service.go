package service

import (
	"errors"

	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/internal/app/repository"
	"github.com/threadline-shop/threadline-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartAccessDenied = errors.New("cart item belongs to another user")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrSizeNotAvailable = errors.New("size not available for this product")
)

// FailedGuestItem records one guest cart line that could not be merged
// into the user's cart, with the reason it was rejected.
type FailedGuestItem struct {
	Item   model.GuestLineItem `json:"item"`
	Reason string              `json:"reason"`
}

type CartService interface {
	GetUserCart(userID uint) ([]model.CartItem, error)
	AddToCart(userID, productID uint, size model.Size, quantity int) ([]model.CartItem, error)
	UpdateCartItem(userID, cartItemID uint, quantity int) ([]model.CartItem, error)
	RemoveFromCart(userID, cartItemID uint) error
	ClearCart(userID uint) error
	MergeGuestItems(userID uint, items []model.GuestLineItem) ([]model.CartItem, []FailedGuestItem, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetUserCart(userID uint) ([]model.CartItem, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return cartItems, nil
}

// AddToCart inserts a new cart line or, when the user already has the same
// product in the same size, folds the quantity into the existing line.
func (s *cartService) AddToCart(userID, productID uint, size model.Size, quantity int) ([]model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"size":       size,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	if !product.HasSize(size) {
		logger.Warn("Cannot add to cart: size not offered", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"size":       size,
			"offered":    product.Sizes,
		})
		return nil, ErrSizeNotAvailable
	}

	existingItem, err := s.cartRepo.FindByUserProductSize(userID, productID, size)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	if existingItem != nil {
		logger.Debug("Merging into existing cart item", map[string]interface{}{
			"cart_item_id": existingItem.ID,
			"old_qty":      existingItem.Quantity,
			"added_qty":    quantity,
		})
		existingItem.Quantity += quantity
		if err := s.cartRepo.Update(existingItem); err != nil {
			logger.Error("Failed to update cart item", err, map[string]interface{}{
				"cart_item_id": existingItem.ID,
			})
			return nil, err
		}
	} else {
		cartItem := &model.CartItem{
			UserID:    userID,
			ProductID: productID,
			Size:      size,
			Quantity:  quantity,
		}
		if err := s.cartRepo.Create(cartItem); err != nil {
			logger.Error("Failed to create cart item", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, err
		}

		logger.Info("Cart item added successfully", map[string]interface{}{
			"cart_item_id": cartItem.ID,
		})
	}

	return s.cartRepo.FindByUserID(userID)
}

// UpdateCartItem sets the quantity of an existing line. A zero quantity
// removes the line.
func (s *cartService) UpdateCartItem(userID, cartItemID uint, quantity int) ([]model.CartItem, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})

	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return nil, ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return nil, err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return nil, ErrCartAccessDenied
	}

	if quantity == 0 {
		if err := s.cartRepo.Delete(cartItemID); err != nil {
			logger.Error("Failed to delete cart item", err, map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return nil, err
		}
		logger.Info("Cart item removed via zero quantity", map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return s.cartRepo.FindByUserID(userID)
	}

	cartItem.Quantity = quantity
	if err := s.cartRepo.Update(cartItem); err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return nil, err
	}

	logger.Info("Cart item updated successfully", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return s.cartRepo.FindByUserID(userID)
}

// RemoveFromCart deletes a cart line. Removing a line that no longer
// exists is not an error.
func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("Cart item already gone", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return nil
		}
		logger.Error("Failed to fetch cart item for removal", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item removal denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return ErrCartAccessDenied
	}

	if err := s.cartRepo.Delete(cartItemID); err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	return nil
}

// MergeGuestItems folds a guest cart into the user's cart, one line at a
// time. A rejected line (unknown product, bad size, bad quantity) does not
// stop the remaining lines from merging; rejected lines come back with the
// reason so the caller can keep them in the guest cart.
func (s *cartService) MergeGuestItems(userID uint, items []model.GuestLineItem) ([]model.CartItem, []FailedGuestItem, error) {
	logger.Info("Merging guest cart into user cart", map[string]interface{}{
		"user_id":    userID,
		"item_count": len(items),
	})

	var failed []FailedGuestItem
	for _, item := range items {
		quantity := item.Units()
		if quantity < 1 {
			// Guest lines from older clients may omit quantity
			quantity = 1
		}
		_, err := s.AddToCart(userID, item.ProductID, item.Size, quantity)
		if err == nil {
			continue
		}

		// Repository failures abort the merge; rejected lines are recorded
		switch {
		case errors.Is(err, ErrProductNotFound),
			errors.Is(err, ErrSizeNotAvailable),
			errors.Is(err, ErrInvalidQuantity):
			logger.Warn("Guest cart line rejected during merge", map[string]interface{}{
				"user_id":    userID,
				"product_id": item.ProductID,
				"size":       item.Size,
				"reason":     err.Error(),
			})
			failed = append(failed, FailedGuestItem{Item: item, Reason: err.Error()})
		default:
			logger.Error("Guest cart merge aborted", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": item.ProductID,
			})
			return nil, failed, err
		}
	}

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, failed, err
	}

	logger.Info("Guest cart merge finished", map[string]interface{}{
		"user_id":      userID,
		"merged_count": len(items) - len(failed),
		"failed_count": len(failed),
	})
	return cartItems, failed, nil
}
