package database

import (
	"context"
	"fmt"
	"log"

	"shoemart/internal/models"
	"shoemart/internal/repositories"

	"github.com/shopspring/decimal"
)

// SampleProducts returns the catalog a fresh store is seeded with.
func SampleProducts() []models.ProductInput {
	product := func(name string, price int64, category, image, description string) models.ProductInput {
		p := decimal.NewFromInt(price)
		return models.ProductInput{Name: name, Price: &p, Category: category, Image: image, Description: description}
	}
	return []models.ProductInput{
		product("Nike Air Max", 120, "Running", "NikeAir.jpg", "Comfortable running shoes with excellent cushioning"),
		product("Ultraboost", 220, "Running", "ultraboost.jpg", "Premium running shoes with boost technology"),
		product("Jordans", 100, "Basketball", "Jordans.webp", "Classic basketball shoes with iconic style"),
		product("Vans", 90, "Casual", "vans.webp", "Casual lifestyle shoes perfect for everyday wear"),
		product("Nike Pegasus", 110, "Running", "Pegasus.jpg", "Versatile running shoes for all distances"),
		product("Vomero", 140, "Running", "Vomero.webp", "Max cushioning for long-distance running"),
	}
}

// Seed inserts SampleProducts when the catalog is empty and reports how many
// products were added.
func Seed(ctx context.Context, repo repositories.ProductRepository) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Printf("[database] Catalog already contains %d products", count)
		return 0, nil
	}

	added := 0
	for _, p := range SampleProducts() {
		if _, err := repo.Create(ctx, p); err != nil {
			return added, fmt.Errorf("failed to seed product %s: %w", p.Name, err)
		}
		added++
	}
	log.Printf("[database] Seeded %d sample products", added)
	return added, nil
}
