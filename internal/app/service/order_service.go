package service

import (
	"errors"

	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/internal/app/repository"
	"github.com/threadline-shop/threadline-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderAccessDenied    = errors.New("order belongs to another user")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrEmptyShippingAddress = errors.New("shipping address is required")
	ErrProductUnavailable   = errors.New("a cart product is no longer available")
)

// Dispatcher hands a finished order off for asynchronous receipt delivery.
type Dispatcher interface {
	Dispatch(orderID uint)
}

type OrderService interface {
	CreateOrderFromCart(userID uint, shippingAddress string) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	dispatcher  Dispatcher
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	dispatcher Dispatcher,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		dispatcher:  dispatcher,
	}
}

// CreateOrderFromCart turns the user's cart into an order. Each order item
// snapshots the product's name, size and unit price at purchase time, so
// later catalog edits never change what the customer agreed to pay. The
// cart clear after a successful insert is best effort.
func (s *orderService) CreateOrderFromCart(userID uint, shippingAddress string) (*model.Order, error) {
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id": userID,
	})

	if shippingAddress == "" {
		logger.Warn("Order rejected: missing shipping address", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyShippingAddress
	}

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartItems) == 0 {
		logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	var totalPrice float64
	orderItems := make([]model.OrderItem, 0, len(cartItems))
	for _, cartItem := range cartItems {
		product := cartItem.Product
		if product.ID == 0 {
			// Preload came back empty, the product was deleted under the cart
			fresh, err := s.productRepo.FindByID(cartItem.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					logger.Warn("Order rejected: cart references missing product", map[string]interface{}{
						"user_id":    userID,
						"product_id": cartItem.ProductID,
					})
					return nil, ErrProductUnavailable
				}
				logger.Error("Failed to fetch product during order creation", err, map[string]interface{}{
					"user_id":    userID,
					"product_id": cartItem.ProductID,
				})
				return nil, err
			}
			product = *fresh
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Size:      cartItem.Size,
			Quantity:  cartItem.Quantity,
			UnitPrice: product.Price,
		})
		totalPrice += product.Price * float64(cartItem.Quantity)
	}

	order := &model.Order{
		UserID:          userID,
		TotalPrice:      totalPrice,
		ShippingAddress: shippingAddress,
		Status:          model.OrderStatusPending,
		OrderItems:      orderItems,
	}

	if err := s.orderRepo.Create(order); err != nil {
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Warn("Order created but cart clear failed", map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(order.ID)
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id":    order.ID,
		"user_id":     userID,
		"total_price": order.TotalPrice,
		"item_count":  len(order.OrderItems),
	})
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderAccessDenied
	}

	return order, nil
}
