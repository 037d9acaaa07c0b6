package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/threadline-shop/threadline-backend/config"
	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/internal/app/repository"
	"github.com/threadline-shop/threadline-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports a product catalog from an XLSX sheet with the columns:
// name, description, price, image_url, category, sizes, stock.
// Sizes are pipe-separated, e.g. "S|M|L".

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Products to import: %d (skipped %d invalid rows)\n", len(products), skipped)
	if len(products) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 7 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		priceStr := strings.TrimSpace(row[2])
		imageURL := strings.TrimSpace(row[3])
		categoryStr := strings.TrimSpace(row[4])
		sizesStr := strings.TrimSpace(row[5])
		stockStr := strings.TrimSpace(row[6])

		if name == "" || priceStr == "" || categoryStr == "" || sizesStr == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}

		category := model.ProductCategory(categoryStr)
		if !model.ValidCategory(category) {
			skipped++
			continue
		}

		sizes, ok := parseSizes(sizesStr)
		if !ok {
			skipped++
			continue
		}

		stock := 0
		if stockStr != "" {
			stock, err = strconv.Atoi(stockStr)
			if err != nil || stock < 0 {
				skipped++
				continue
			}
		}

		products = append(products, model.Product{
			Name:        name,
			Description: description,
			Price:       price,
			ImageURL:    imageURL,
			Category:    category,
			Sizes:       sizes,
			Stock:       stock,
		})
	}

	return products, skipped, nil
}

func parseSizes(s string) ([]model.Size, bool) {
	parts := strings.Split(s, "|")
	sizes := make([]model.Size, 0, len(parts))
	for _, p := range parts {
		size := model.Size(strings.TrimSpace(p))
		if !model.ValidSize(size) {
			return nil, false
		}
		sizes = append(sizes, size)
	}
	if len(sizes) == 0 {
		return nil, false
	}
	return sizes, true
}
