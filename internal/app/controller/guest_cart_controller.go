package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/internal/app/pricing"
	"github.com/threadline-shop/threadline-backend/internal/app/service"
	apperrors "github.com/threadline-shop/threadline-backend/internal/errors"
	"github.com/threadline-shop/threadline-backend/internal/middleware"
)

// GuestCartIDHeader carries the client-issued guest cart ID on anonymous
// cart requests. A query parameter fallback exists for clients that cannot
// set headers.
const GuestCartIDHeader = "X-Guest-Cart-ID"

type GuestCartController struct {
	guestCartService service.GuestCartService
}

func NewGuestCartController(guestCartService service.GuestCartService) *GuestCartController {
	return &GuestCartController{guestCartService: guestCartService}
}

type GuestCartItemRequest struct {
	ProductID uint       `json:"product_id" binding:"required"`
	Size      model.Size `json:"size" binding:"required"`
	Quantity  int        `json:"quantity" binding:"required,gt=0"`
}

type GuestCartUpdateRequest struct {
	ProductID uint       `json:"product_id" binding:"required"`
	Size      model.Size `json:"size" binding:"required"`
	Quantity  *int       `json:"quantity" binding:"required,gte=0"`
}

func guestCartID(c *gin.Context) string {
	if id := c.GetHeader(GuestCartIDHeader); id != "" {
		return id
	}
	return c.Query("guest_cart_id")
}

func guestCartResponse(cart *model.GuestCart) gin.H {
	return gin.H{
		"guest_cart_id": cart.ID,
		"items":         cart.Items,
		"count":         len(cart.Items),
		"total":         pricing.CartTotal(cart.Items),
	}
}

// GetCart returns the guest cart, issuing a fresh one when no ID is sent
// GET /api/v1/guest/cart
func (ctrl *GuestCartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cart, err := ctrl.guestCartService.GetCart(c.Request.Context(), guestCartID(c))
	if err != nil {
		log.Error("Failed to fetch guest cart", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, guestCartResponse(cart))
}

// AddItem adds a product in a size to the guest cart
// POST /api/v1/guest/cart/items
func (ctrl *GuestCartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GuestCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cart item data")
		return
	}

	cart, err := ctrl.guestCartService.AddItem(c.Request.Context(), guestCartID(c), req.ProductID, req.Size, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrSizeNotAvailable):
			apperrors.BadRequest(c, apperrors.ProductInvalidSize, "This size is not available for the product")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must be at least 1")
		default:
			log.Error("Failed to add item to guest cart", err, map[string]interface{}{
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, guestCartResponse(cart))
}

// UpdateItem sets the quantity of a guest cart line. Quantity zero removes it.
// PUT /api/v1/guest/cart/items
func (ctrl *GuestCartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GuestCartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cart update data")
		return
	}

	cart, err := ctrl.guestCartService.UpdateItem(c.Request.Context(), guestCartID(c), req.ProductID, req.Size, *req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGuestCartNotFound):
			apperrors.NotFound(c, apperrors.CartGuestNotFound, "Guest cart not found")
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		default:
			log.Error("Failed to update guest cart item", err, map[string]interface{}{
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, guestCartResponse(cart))
}

// RemoveItem deletes a guest cart line identified by product and size
// DELETE /api/v1/guest/cart/items
func (ctrl *GuestCartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req struct {
		ProductID uint       `json:"product_id" binding:"required"`
		Size      model.Size `json:"size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cart item data")
		return
	}

	cart, err := ctrl.guestCartService.RemoveItem(c.Request.Context(), guestCartID(c), req.ProductID, req.Size)
	if err != nil {
		if errors.Is(err, service.ErrGuestCartNotFound) {
			apperrors.NotFound(c, apperrors.CartGuestNotFound, "Guest cart not found")
			return
		}
		log.Error("Failed to remove guest cart item", err, map[string]interface{}{
			"product_id": req.ProductID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, guestCartResponse(cart))
}

// ClearCart drops the guest cart entirely
// DELETE /api/v1/guest/cart
func (ctrl *GuestCartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id := guestCartID(c)
	if id == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Guest cart ID is required")
		return
	}

	if err := ctrl.guestCartService.ClearCart(c.Request.Context(), id); err != nil {
		log.Error("Failed to clear guest cart", err, map[string]interface{}{
			"guest_cart_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Guest cart cleared successfully",
	})
}
