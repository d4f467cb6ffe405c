package services

import (
	"context"
	"strings"

	"shoemart/internal/models"
	"shoemart/internal/repositories"
	"shoemart/pkg/metrics"
)

// FeaturedLimit is the number of products shown on the home page.
const FeaturedLimit = 6

// HomePage is the data behind the storefront landing page.
type HomePage struct {
	Featured   []models.Product `json:"featured_products"`
	Categories []string         `json:"categories"`
}

// ShopPage is the full product listing, optionally narrowed to one category.
type ShopPage struct {
	Products         []models.Product `json:"products"`
	Categories       []string         `json:"categories"`
	SelectedCategory string           `json:"selected_category,omitempty"`
}

// ProductDetail is one product together with others from its category.
type ProductDetail struct {
	Product models.Product   `json:"product"`
	Related []models.Product `json:"related_products"`
}

// SearchResult holds the products matching a search query.
type SearchResult struct {
	Query    string           `json:"query"`
	Products []models.Product `json:"products"`
	Count    int              `json:"count"`
}

// CatalogService handles business logic related to the product catalog.
type CatalogService struct {
	repo repositories.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ProductRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// Home returns the featured products and every category in use.
func (s *CatalogService) Home(ctx context.Context) (*HomePage, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) > FeaturedLimit {
		products = products[:FeaturedLimit]
	}
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &HomePage{Featured: products, Categories: categories}, nil
}

// Shop lists all products, or only those in category when it is not blank.
func (s *CatalogService) Shop(ctx context.Context, category string) (*ShopPage, error) {
	category = strings.TrimSpace(category)

	var (
		products []models.Product
		err      error
	)
	if category == "" {
		products, err = s.repo.GetAll(ctx)
	} else {
		products, err = s.repo.GetByCategory(ctx, category)
	}
	if err != nil {
		return nil, err
	}

	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &ShopPage{Products: products, Categories: categories, SelectedCategory: category}, nil
}

// ProductsByCategory lists the products in category.
func (s *CatalogService) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.repo.GetByCategory(ctx, category)
}

// Categories lists the distinct categories of stored products.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.GetCategories(ctx)
}

// GetProduct retrieves a single product, or a NotFoundError.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (models.Product, error) {
	product, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if !found {
		return models.Product{}, &models.NotFoundError{Entity: "product", ID: id}
	}
	return product, nil
}

// ProductDetail returns a product with up to DefaultRelatedLimit related products.
func (s *CatalogService) ProductDetail(ctx context.Context, id string) (*ProductDetail, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	related, err := s.repo.GetRelated(ctx, product, repositories.DefaultRelatedLimit)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: product, Related: related}, nil
}

// Search finds products whose name, description or category contain query.
func (s *CatalogService) Search(ctx context.Context, query string) (*SearchResult, error) {
	products, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	metrics.RecordSearch(len(products))
	return &SearchResult{Query: strings.TrimSpace(query), Products: products, Count: len(products)}, nil
}

// CreateProduct validates and stores a product, returning the stored record.
func (s *CatalogService) CreateProduct(ctx context.Context, input models.ProductInput) (models.Product, error) {
	id, err := s.repo.Create(ctx, input)
	if err != nil {
		return models.Product{}, err
	}
	return s.GetProduct(ctx, id)
}

// UpdateProduct replaces a product's fields, returning the stored record.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input models.ProductInput) (models.Product, error) {
	if err := s.repo.Update(ctx, id, input); err != nil {
		return models.Product{}, err
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct deletes a product by its ID. Deleting an unknown id is a
// NotFoundError so the API can answer 404.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return &models.NotFoundError{Entity: "product", ID: id}
	}
	return nil
}
