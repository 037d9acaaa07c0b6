package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryMen    ProductCategory = "Men"
	CategoryWomen  ProductCategory = "Women"
	CategoryKids   ProductCategory = "Kids"
	CategoryUnisex ProductCategory = "Unisex"
)

type Size string

const (
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// ValidCategory reports whether c is one of the catalog categories.
func ValidCategory(c ProductCategory) bool {
	switch c {
	case CategoryMen, CategoryWomen, CategoryKids, CategoryUnisex:
		return true
	}
	return false
}

// ValidSize reports whether s is a recognized garment size.
func ValidSize(s Size) bool {
	switch s {
	case SizeS, SizeM, SizeL, SizeXL, SizeXXL:
		return true
	}
	return false
}

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       float64         `gorm:"not null" json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    ProductCategory `gorm:"type:varchar(20);index" json:"category"`
	Sizes       []Size          `gorm:"serializer:json;type:text" json:"sizes"`
	Stock       int             `gorm:"default:0" json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// HasSize reports whether the product is offered in the given size.
func (p *Product) HasSize(s Size) bool {
	for _, have := range p.Sizes {
		if have == s {
			return true
		}
	}
	return false
}
