package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/internal/app/repository"
	"github.com/threadline-shop/threadline-backend/internal/app/service"
	"github.com/threadline-shop/threadline-backend/internal/db"
	"gorm.io/gorm"
)

func setupOrderControllerTest(t *testing.T) (*OrderController, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, nil)
	orderController := NewOrderController(orderService)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Test Buyer",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:     "Floral Summer Dress",
		Price:    44.50,
		Category: model.CategoryWomen,
		Sizes:    []model.Size{model.SizeS, model.SizeM, model.SizeL},
		Stock:    10,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return orderController, router, testDB, user, product
}

func TestOrderController_CreateOrder_Success(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	testDB.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Size:      model.SizeM,
		Quantity:  2,
	})

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreateOrder(c)
	})

	body, _ := json.Marshal(CreateOrderRequest{
		ShippingAddress: "12 Elm Street, Springfield",
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	order := response["order"].(map[string]interface{})
	assert.InDelta(t, 89.00, order["total_price"], 0.001) // 44.50 * 2
	assert.Equal(t, "pending", order["status"])

	// Ordering empties the cart
	var count int64
	testDB.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestOrderController_CreateOrder_EmptyCart(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreateOrder(c)
	})

	body, _ := json.Marshal(CreateOrderRequest{
		ShippingAddress: "12 Elm Street, Springfield",
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CART_EMPTY")
}

func TestOrderController_CreateOrder_MissingAddress(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	testDB.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Size:      model.SizeM,
		Quantity:  1,
	})

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreateOrder(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ORDER_ADDRESS_EMPTY")

	// Cart survives a failed order attempt
	var count int64
	testDB.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestOrderController_GetOrders(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	testDB.Create(&model.Order{
		UserID:          user.ID,
		TotalPrice:      44.50,
		ShippingAddress: "12 Elm Street",
		Status:          model.OrderStatusPending,
		OrderItems: []model.OrderItem{{
			ProductID: product.ID,
			Name:      product.Name,
			Size:      model.SizeM,
			Quantity:  1,
			UnitPrice: product.Price,
		}},
	})

	router.GET("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrders(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, float64(1), response["count"])
}

func TestOrderController_GetOrder_OtherUsersOrder(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	other := &model.User{
		Email:        "other-buyer@example.com",
		PasswordHash: "hash",
		Name:         "Other Buyer",
		Role:         model.RoleUser,
	}
	testDB.Create(other)

	order := &model.Order{
		UserID:          other.ID,
		TotalPrice:      44.50,
		ShippingAddress: "99 Oak Avenue",
		Status:          model.OrderStatusPending,
		OrderItems: []model.OrderItem{{
			ProductID: product.ID,
			Name:      product.Name,
			Size:      model.SizeS,
			Quantity:  1,
			UnitPrice: product.Price,
		}},
	}
	testDB.Create(order)

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrder(c)
	})

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderController_GetOrder_NotFound(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrder(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ORDER_NOT_FOUND")
}
