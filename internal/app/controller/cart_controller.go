package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/internal/app/pricing"
	"github.com/threadline-shop/threadline-backend/internal/app/service"
	apperrors "github.com/threadline-shop/threadline-backend/internal/errors"
	"github.com/threadline-shop/threadline-backend/internal/middleware"
)

type CartController struct {
	cartService      service.CartService
	guestCartService service.GuestCartService
}

func NewCartController(cartService service.CartService, guestCartService service.GuestCartService) *CartController {
	return &CartController{
		cartService:      cartService,
		guestCartService: guestCartService,
	}
}

type AddToCartRequest struct {
	ProductID uint       `json:"product_id" binding:"required"`
	Size      model.Size `json:"size" binding:"required"`
	Quantity  int        `json:"quantity" binding:"required,gt=0"`
}

// UpdateCartRequest uses a pointer so that quantity zero, which removes the
// line, survives binding.
type UpdateCartRequest struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

type SyncCartRequest struct {
	GuestCartID string `json:"guest_cart_id" binding:"required"`
}

func cartResponse(cartItems []model.CartItem) gin.H {
	return gin.H{
		"cart_items": cartItems,
		"count":      len(cartItems),
		"total":      pricing.CartTotal(cartItems),
	}
}

// GetCart returns the authenticated user's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cartItems, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cartItems))
}

// AddToCart adds a product in a size to the user's cart, merging with an
// existing line for the same product and size
// POST /api/v1/cart/items
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cart item data")
		return
	}

	cartItems, err := ctrl.cartService.AddToCart(userID, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrSizeNotAvailable):
			apperrors.BadRequest(c, apperrors.ProductInvalidSize, "This size is not available for the product")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must be at least 1")
		default:
			log.Error("Failed to add item to cart", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": req.ProductID,
		"size":       req.Size,
	})

	c.JSON(http.StatusOK, cartResponse(cartItems))
}

// UpdateCartItem sets the quantity of a cart line. Quantity zero removes it.
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cartItemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cart update data")
		return
	}

	cartItems, err := ctrl.cartService.UpdateCartItem(userID, uint(cartItemID), *req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		case errors.Is(err, service.ErrCartAccessDenied):
			apperrors.Forbidden(c, "This cart item belongs to another user")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must not be negative")
		default:
			log.Error("Failed to update cart item", err, map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": cartItemID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, cartResponse(cartItems))
}

// RemoveFromCart deletes a cart line. Removing a line that is already gone
// succeeds.
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cartItemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, uint(cartItemID)); err != nil {
		if errors.Is(err, service.ErrCartAccessDenied) {
			apperrors.Forbidden(c, "This cart item belongs to another user")
			return
		}
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
		})
		apperrors.InternalError(c, "")
		return
	}

	cartItems, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart after removal", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cartItems))
}

// ClearCart removes every line from the user's cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Cart cleared", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":    "Cart cleared successfully",
		"cart_items": []model.CartItem{},
		"count":      0,
		"total":      0,
	})
}

// SyncGuestCart merges a guest cart into the authenticated user's cart.
// Lines that can no longer be fulfilled are reported back instead of
// failing the whole merge.
// POST /api/v1/cart/sync
func (ctrl *CartController) SyncGuestCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req SyncCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid sync request")
		return
	}

	result, err := ctrl.guestCartService.SyncToUser(c.Request.Context(), req.GuestCartID, userID)
	if err != nil {
		log.Error("Failed to sync guest cart", err, map[string]interface{}{
			"user_id":       userID,
			"guest_cart_id": req.GuestCartID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Guest cart synced", map[string]interface{}{
		"user_id":      userID,
		"merged_count": len(result.CartItems),
		"failed_count": len(result.Failed),
	})

	response := cartResponse(result.CartItems)
	response["failed"] = result.Failed
	c.JSON(http.StatusOK, response)
}
