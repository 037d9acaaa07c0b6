package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/internal/app/repository"
	"github.com/threadline-shop/threadline-backend/internal/app/service"
	"github.com/threadline-shop/threadline-backend/internal/db"
	"github.com/threadline-shop/threadline-backend/pkg/kv"
	"gorm.io/gorm"
)

func setupGuestCartControllerTest(t *testing.T) (*GuestCartController, *gin.Engine, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo)
	guestRepo := repository.NewGuestCartRepository(kv.NewMemoryStore(), time.Hour)
	guestCartService := service.NewGuestCartService(guestRepo, productRepo, cartService)
	controller := NewGuestCartController(guestCartService)

	product := &model.Product{
		Name:     "Slim Fit Denim Jeans",
		Price:    59.99,
		Category: model.CategoryMen,
		Sizes:    []model.Size{model.SizeM, model.SizeL, model.SizeXL},
		Stock:    10,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return controller, router, testDB, product
}

func TestGuestCartController_GetCart_IssuesID(t *testing.T) {
	controller, router, _, _ := setupGuestCartControllerTest(t)

	router.GET("/guest/cart", controller.GetCart)

	req := httptest.NewRequest(http.MethodGet, "/guest/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.NotEmpty(t, response["guest_cart_id"])
	assert.Equal(t, float64(0), response["count"])
}

func TestGuestCartController_AddItem_ThenFetchByHeader(t *testing.T) {
	controller, router, _, product := setupGuestCartControllerTest(t)

	router.GET("/guest/cart", controller.GetCart)
	router.POST("/guest/cart/items", controller.AddItem)

	body, _ := json.Marshal(GuestCartItemRequest{
		ProductID: product.ID,
		Size:      model.SizeL,
		Quantity:  2,
	})
	req := httptest.NewRequest(http.MethodPost, "/guest/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	cartID := response["guest_cart_id"].(string)
	require.NotEmpty(t, cartID)
	assert.InDelta(t, 119.98, response["total"], 0.001) // 59.99 * 2

	// Same cart comes back when the client presents the issued ID
	req = httptest.NewRequest(http.MethodGet, "/guest/cart", nil)
	req.Header.Set(GuestCartIDHeader, cartID)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, cartID, response["guest_cart_id"])
	assert.Equal(t, float64(1), response["count"])
}

func TestGuestCartController_AddItem_SizeNotOffered(t *testing.T) {
	controller, router, _, product := setupGuestCartControllerTest(t)

	router.POST("/guest/cart/items", controller.AddItem)

	body, _ := json.Marshal(GuestCartItemRequest{
		ProductID: product.ID,
		Size:      model.SizeS,
		Quantity:  1,
	})
	req := httptest.NewRequest(http.MethodPost, "/guest/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_INVALID_SIZE")
}

func TestGuestCartController_UpdateItem_ZeroRemoves(t *testing.T) {
	controller, router, _, product := setupGuestCartControllerTest(t)

	router.POST("/guest/cart/items", controller.AddItem)
	router.PUT("/guest/cart/items", controller.UpdateItem)

	body, _ := json.Marshal(GuestCartItemRequest{
		ProductID: product.ID,
		Size:      model.SizeM,
		Quantity:  1,
	})
	req := httptest.NewRequest(http.MethodPost, "/guest/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	cartID := response["guest_cart_id"].(string)

	zero := 0
	updateBody, _ := json.Marshal(GuestCartUpdateRequest{
		ProductID: product.ID,
		Size:      model.SizeM,
		Quantity:  &zero,
	})
	req = httptest.NewRequest(http.MethodPut, "/guest/cart/items", bytes.NewReader(updateBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(GuestCartIDHeader, cartID)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])
}

func TestGuestCartController_UpdateItem_UnknownCart(t *testing.T) {
	controller, router, _, product := setupGuestCartControllerTest(t)

	router.PUT("/guest/cart/items", controller.UpdateItem)

	one := 1
	body, _ := json.Marshal(GuestCartUpdateRequest{
		ProductID: product.ID,
		Size:      model.SizeM,
		Quantity:  &one,
	})
	req := httptest.NewRequest(http.MethodPut, "/guest/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(GuestCartIDHeader, "no-such-cart")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CART_GUEST_NOT_FOUND")
}

func TestGuestCartController_ClearCart_RequiresID(t *testing.T) {
	controller, router, _, _ := setupGuestCartControllerTest(t)

	router.DELETE("/guest/cart", controller.ClearCart)

	req := httptest.NewRequest(http.MethodDelete, "/guest/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
