package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shoemart/internal/models"
	"shoemart/internal/validation"
)

// DefaultRelatedLimit is how many related products GetRelated returns when
// the caller does not ask for a specific number.
const DefaultRelatedLimit = 4

// ProductStore is a storage engine for products. Implementations order
// listings by name ascending, then created_at, then id.
type ProductStore interface {
	Insert(ctx context.Context, product *models.Product) error
	Find(ctx context.Context, query models.ProductQuery) ([]models.Product, error)
	// FindByID returns (nil, nil) when the product does not exist.
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	// Replace overwrites every mutable field and reports whether a product
	// with that id existed.
	Replace(ctx context.Context, product *models.Product) (bool, error)
	Remove(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ProductRepository defines the validated data access contract for products.
type ProductRepository interface {
	Create(ctx context.Context, input models.ProductInput) (string, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, bool, error)
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	GetCategories(ctx context.Context) ([]string, error)
	GetRelated(ctx context.Context, product models.Product, limit int) ([]models.Product, error)
	Update(ctx context.Context, id string, input models.ProductInput) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type productRepository struct {
	store ProductStore
	now   func() time.Time
}

// NewProductRepository creates a ProductRepository backed by store.
func NewProductRepository(store ProductStore) ProductRepository {
	return &productRepository{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *productRepository) Create(ctx context.Context, input models.ProductInput) (string, error) {
	input = validation.NormalizeProduct(input)
	if err := validation.ValidateProduct(input); err != nil {
		return "", err
	}

	now := r.now()
	product := &models.Product{
		Name:        input.Name,
		Price:       *input.Price,
		Category:    input.Category,
		Image:       input.Image,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.store.Insert(ctx, product); err != nil {
		return "", &models.StorageError{Op: "create product", Err: err}
	}
	return product.ID, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, "get all products", models.ProductQuery{})
}

func (r *productRepository) GetByID(ctx context.Context, id string) (models.Product, bool, error) {
	product, err := r.store.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, false, &models.StorageError{Op: fmt.Sprintf("get product by ID %s", id), Err: err}
	}
	if product == nil {
		return models.Product{}, false, nil
	}
	return *product, true, nil
}

func (r *productRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return []models.Product{}, nil
	}
	return r.find(ctx, "get products by category", models.ProductQuery{Category: category})
}

// Search treats an empty or whitespace-only query as "match everything".
func (r *productRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	return r.find(ctx, "search products", models.ProductQuery{Search: strings.TrimSpace(query)})
}

func (r *productRepository) GetCategories(ctx context.Context) ([]string, error) {
	categories, err := r.store.Categories(ctx)
	if err != nil {
		return nil, &models.StorageError{Op: "get categories", Err: err}
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (r *productRepository) GetRelated(ctx context.Context, product models.Product, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	return r.find(ctx, "get related products", models.ProductQuery{
		Category:  product.Category,
		ExcludeID: product.ID,
		Limit:     limit,
	})
}

func (r *productRepository) Update(ctx context.Context, id string, input models.ProductInput) error {
	input = validation.NormalizeProduct(input)
	if err := validation.ValidateProduct(input); err != nil {
		return err
	}

	existing, err := r.store.FindByID(ctx, id)
	if err != nil {
		return &models.StorageError{Op: "update product", Err: err}
	}
	if existing == nil {
		return &models.NotFoundError{Entity: "product", ID: id}
	}

	existing.Name = input.Name
	existing.Price = *input.Price
	existing.Category = input.Category
	existing.Image = input.Image
	existing.Description = input.Description
	existing.UpdatedAt = r.now()

	found, err := r.store.Replace(ctx, existing)
	if err != nil {
		return &models.StorageError{Op: "update product", Err: err}
	}
	if !found {
		return &models.NotFoundError{Entity: "product", ID: id}
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := r.store.Remove(ctx, id)
	if err != nil {
		return false, &models.StorageError{Op: "delete product", Err: err}
	}
	return removed, nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.store.Count(ctx)
	if err != nil {
		return 0, &models.StorageError{Op: "count products", Err: err}
	}
	return n, nil
}

func (r *productRepository) find(ctx context.Context, op string, query models.ProductQuery) ([]models.Product, error) {
	products, err := r.store.Find(ctx, query)
	if err != nil {
		return nil, &models.StorageError{Op: op, Err: err}
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
