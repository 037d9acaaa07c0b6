package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/internal/app/repository"
	"github.com/threadline-shop/threadline-backend/internal/db"
	"github.com/threadline-shop/threadline-backend/pkg/kv"
	"gorm.io/gorm"
)

func setupGuestCartServiceTest(t *testing.T) (GuestCartService, CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	guestRepo := repository.NewGuestCartRepository(kv.NewMemoryStore(), time.Hour)

	cartService := NewCartService(cartRepo, productRepo)
	guestService := NewGuestCartService(guestRepo, productRepo, cartService)

	user := &model.User{
		Email:        "shopper@example.com",
		PasswordHash: "hash",
		Name:         "Test Shopper",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:     "Kids Hooded Sweatshirt",
		Price:    29.99,
		Category: model.CategoryKids,
		Sizes:    []model.Size{model.SizeS, model.SizeM},
		Stock:    40,
	}
	testDB.Create(product)

	return guestService, cartService, user, product, testDB
}

func TestGuestCartService_GetCart_IssuesNewID(t *testing.T) {
	guestService, _, _, _, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	cart, err := guestService.GetCart(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, cart.ID)
	assert.Len(t, cart.Items, 0)

	// The same ID returns the same cart
	again, err := guestService.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestGuestCartService_AddItem(t *testing.T) {
	guestService, _, _, product, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	cart, err := guestService.GetCart(ctx, "")
	require.NoError(t, err)

	cart, err = guestService.AddItem(ctx, cart.ID, product.ID, model.SizeM, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, product.Name, cart.Items[0].Name)
	assert.InDelta(t, 29.99, cart.Items[0].UnitPrice(), 0.001)

	// Same product and size merges
	cart, err = guestService.AddItem(ctx, cart.ID, product.ID, model.SizeM, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	// Different size is a new line
	cart, err = guestService.AddItem(ctx, cart.ID, product.ID, model.SizeS, 1)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestGuestCartService_AddItem_Validation(t *testing.T) {
	guestService, _, _, product, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	_, err := guestService.AddItem(ctx, "g1", 9999, model.SizeM, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = guestService.AddItem(ctx, "g1", product.ID, model.SizeXXL, 1)
	assert.ErrorIs(t, err, ErrSizeNotAvailable)

	_, err = guestService.AddItem(ctx, "g1", product.ID, model.SizeM, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestGuestCartService_UpdateItem(t *testing.T) {
	guestService, _, _, product, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	cart, err := guestService.AddItem(ctx, "g1", product.ID, model.SizeM, 2)
	require.NoError(t, err)

	cart, err = guestService.UpdateItem(ctx, cart.ID, product.ID, model.SizeM, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, cart.Items[0].Quantity)

	// Zero quantity removes the line
	cart, err = guestService.UpdateItem(ctx, cart.ID, product.ID, model.SizeM, 0)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 0)
}

func TestGuestCartService_UpdateItem_Missing(t *testing.T) {
	guestService, _, _, product, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	_, err := guestService.UpdateItem(ctx, "nope", product.ID, model.SizeM, 1)
	assert.ErrorIs(t, err, ErrGuestCartNotFound)

	cart, err := guestService.AddItem(ctx, "g1", product.ID, model.SizeM, 1)
	require.NoError(t, err)

	_, err = guestService.UpdateItem(ctx, cart.ID, product.ID, model.SizeS, 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestGuestCartService_RemoveItem(t *testing.T) {
	guestService, _, _, product, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	cart, err := guestService.AddItem(ctx, "g1", product.ID, model.SizeM, 2)
	require.NoError(t, err)

	cart, err = guestService.RemoveItem(ctx, cart.ID, product.ID, model.SizeM)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 0)

	// Removing again is a no-op
	cart, err = guestService.RemoveItem(ctx, cart.ID, product.ID, model.SizeM)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 0)
}

func TestGuestCartService_SyncToUser_FullMerge(t *testing.T) {
	guestService, cartService, user, product, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	cart, err := guestService.AddItem(ctx, "g1", product.ID, model.SizeM, 2)
	require.NoError(t, err)

	result, err := guestService.SyncToUser(ctx, cart.ID, user.ID)
	require.NoError(t, err)
	assert.Len(t, result.Failed, 0)
	require.Len(t, result.CartItems, 1)
	assert.Equal(t, 2, result.CartItems[0].Quantity)

	// Fully merged guest cart is deleted
	fresh, err := guestService.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, fresh.Items, 0)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 1)
}

func TestGuestCartService_SyncToUser_PartialMerge(t *testing.T) {
	guestService, _, user, product, testDB := setupGuestCartServiceTest(t)
	ctx := context.Background()

	cart, err := guestService.AddItem(ctx, "g1", product.ID, model.SizeM, 1)
	require.NoError(t, err)

	// Delete the product so its line is rejected during sync, then add a
	// healthy product for the other line
	healthy := &model.Product{
		Name:     "Classic Crew Neck T-Shirt",
		Price:    19.99,
		Category: model.CategoryUnisex,
		Sizes:    []model.Size{model.SizeM},
		Stock:    10,
	}
	testDB.Create(healthy)
	cart, err = guestService.AddItem(ctx, cart.ID, healthy.ID, model.SizeM, 1)
	require.NoError(t, err)

	testDB.Unscoped().Delete(&model.Product{}, product.ID)

	result, err := guestService.SyncToUser(ctx, cart.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, product.ID, result.Failed[0].Item.ProductID)
	require.Len(t, result.CartItems, 1)
	assert.Equal(t, healthy.ID, result.CartItems[0].ProductID)

	// Rejected line stays behind in the guest cart
	remaining, err := guestService.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, remaining.Items, 1)
	assert.Equal(t, product.ID, remaining.Items[0].ProductID)
}

func TestGuestCartService_SyncToUser_EmptyGuestCart(t *testing.T) {
	guestService, cartService, user, product, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	_, err := cartService.AddToCart(user.ID, product.ID, model.SizeM, 1)
	require.NoError(t, err)

	result, err := guestService.SyncToUser(ctx, "never-existed", user.ID)
	require.NoError(t, err)
	assert.Len(t, result.Failed, 0)
	assert.Len(t, result.CartItems, 1)
}
