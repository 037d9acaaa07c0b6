package db

import (
	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedProducts(); err != nil {
		logger.Error("Failed to seed products", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedProducts inserts a small starter catalog when the products table is empty.
// The real catalog is loaded through cmd/seed from a spreadsheet export.
func seedProducts() error {
	var count int64
	if err := DB.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Products already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding starter catalog...")

	products := []model.Product{
		{
			Name:        "Classic Crew Neck T-Shirt",
			Description: "Soft combed cotton tee with a relaxed fit.",
			Price:       19.99,
			Category:    model.CategoryUnisex,
			Sizes:       []model.Size{model.SizeS, model.SizeM, model.SizeL, model.SizeXL},
			Stock:       120,
		},
		{
			Name:        "Slim Fit Denim Jeans",
			Description: "Stretch denim with a mid-rise slim cut.",
			Price:       59.99,
			Category:    model.CategoryMen,
			Sizes:       []model.Size{model.SizeM, model.SizeL, model.SizeXL, model.SizeXXL},
			Stock:       80,
		},
		{
			Name:        "Floral Summer Dress",
			Description: "Lightweight viscose dress with a floral print.",
			Price:       44.50,
			Category:    model.CategoryWomen,
			Sizes:       []model.Size{model.SizeS, model.SizeM, model.SizeL},
			Stock:       60,
		},
		{
			Name:        "Kids Hooded Sweatshirt",
			Description: "Warm fleece-lined hoodie with a kangaroo pocket.",
			Price:       29.99,
			Category:    model.CategoryKids,
			Sizes:       []model.Size{model.SizeS, model.SizeM},
			Stock:       100,
		},
	}

	totalInserted := 0
	for _, product := range products {
		if err := DB.Create(&product).Error; err != nil {
			logger.Error("Failed to create product", err, map[string]interface{}{
				"product": product.Name,
			})
			return err
		}
		totalInserted++
	}

	logger.Info("Starter catalog seeded successfully", map[string]interface{}{
		"total_products": totalInserted,
	})

	return nil
}
