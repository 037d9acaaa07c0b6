package model

import (
	"encoding/json"
	"time"

	"github.com/threadline-shop/threadline-backend/internal/app/pricing"
)

// GuestLineItem is one line of an anonymous visitor's cart. Unlike a
// server cart line it embeds the product name and price snapshotted at
// add time, so it can be displayed without a catalog join.
type GuestLineItem struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Size      Size   `json:"size"`
	Quantity  int    `json:"quantity"`
	// Price is the embedded unit price. ProductPrice is the field name an
	// older client generation serialized; kept readable for carts written
	// before the rename.
	Price        pricing.Amount `json:"price,omitempty"`
	ProductPrice pricing.Amount `json:"product_price,omitempty"`
	ImageURL     string         `json:"image_url,omitempty"`
}

// UnmarshalJSON tolerates the shapes guest carts show up in: quantity may
// be spelled "qty", prices may be strings with currency symbols. Absent
// quantity decodes to zero; write paths that need a floor apply it there.
func (i *GuestLineItem) UnmarshalJSON(data []byte) error {
	type raw struct {
		ProductID    uint           `json:"product_id"`
		Name         string         `json:"name"`
		Size         Size           `json:"size"`
		Quantity     *int           `json:"quantity"`
		Qty          *int           `json:"qty"`
		Price        pricing.Amount `json:"price"`
		ProductPrice pricing.Amount `json:"product_price"`
		ImageURL     string         `json:"image_url"`
	}

	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}

	i.ProductID = r.ProductID
	i.Name = r.Name
	i.Size = r.Size
	i.Price = r.Price
	i.ProductPrice = r.ProductPrice
	i.ImageURL = r.ImageURL

	switch {
	case r.Quantity != nil:
		i.Quantity = *r.Quantity
	case r.Qty != nil:
		i.Quantity = *r.Qty
	default:
		i.Quantity = 0
	}
	return nil
}

// UnitPrice applies the guest-line fallback chain: embedded price, then
// the legacy field, then zero.
func (i GuestLineItem) UnitPrice() float64 {
	if i.Price != 0 {
		return float64(i.Price)
	}
	if i.ProductPrice != 0 {
		return float64(i.ProductPrice)
	}
	return 0
}

func (i GuestLineItem) Units() int {
	return i.Quantity
}

// GuestCart is the server-held cart of an anonymous visitor, keyed by a
// client-issued opaque ID and stored as JSON in the key-value store.
type GuestCart struct {
	ID        string          `json:"id"`
	Items     []GuestLineItem `json:"items"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FindItem returns the index of the line matching (productID, size), or -1.
func (c *GuestCart) FindItem(productID uint, size Size) int {
	for idx, item := range c.Items {
		if item.ProductID == productID && item.Size == size {
			return idx
		}
	}
	return -1
}
