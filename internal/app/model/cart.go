package model

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is one line of a user's cart. At most one live row exists per
// (user, product, size); adds for an existing pair merge into it.
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Size      Size           `gorm:"type:varchar(5);not null" json:"size"`
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// UnitPrice resolves the display price of a server cart line from the
// joined product. Lines whose product failed to resolve price at zero.
func (i CartItem) UnitPrice() float64 {
	return i.Product.Price
}

func (i CartItem) Units() int {
	return i.Quantity
}
