package service

import (
	"errors"

	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/internal/app/repository"
	"github.com/threadline-shop/threadline-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidCategory = errors.New("invalid product category")
	ErrInvalidSize     = errors.New("invalid size")
)

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products []model.Product
	Page     int
	Pages    int
	Total    int64
	HasMore  bool
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter, page, limit int) (*ProductPage, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(filter repository.ProductFilter, page, limit int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}

	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	logger.Debug("Listing products", map[string]interface{}{
		"page":  page,
		"limit": limit,
	})

	total, err := s.productRepo.CountWithFilter(filter)
	if err != nil {
		logger.Error("Failed to count products", err, nil)
		return nil, err
	}

	products, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return nil, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	logger.Info("Products listed successfully", map[string]interface{}{
		"page":  page,
		"pages": pages,
		"total": total,
		"count": len(products),
	})

	return &ProductPage{
		Products: products,
		Page:     page,
		Pages:    pages,
		Total:    total,
		HasMore:  page < pages,
	}, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"name":     product.Name,
		"category": product.Category,
		"price":    product.Price,
	})

	if !model.ValidCategory(product.Category) {
		return ErrInvalidCategory
	}
	for _, size := range product.Sizes {
		if !model.ValidSize(size) {
			return ErrInvalidSize
		}
	}

	return s.productRepo.Create(product)
}

func (s *productService) UpdateProduct(product *model.Product) error {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if _, err := s.GetProductByID(product.ID); err != nil {
		return err
	}

	if !model.ValidCategory(product.Category) {
		return ErrInvalidCategory
	}
	for _, size := range product.Sizes {
		if !model.ValidSize(size) {
			return ErrInvalidSize
		}
	}

	return s.productRepo.Update(product)
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.GetProductByID(id); err != nil {
		return err
	}

	return s.productRepo.Delete(id)
}
