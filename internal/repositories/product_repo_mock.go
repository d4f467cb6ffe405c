package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"shoemart/internal/models"

	"github.com/google/uuid"
)

// MockProductStore is an in-memory implementation of ProductStore.
type MockProductStore struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductStore creates a new instance of MockProductStore.
func NewMockProductStore() *MockProductStore {
	return &MockProductStore{
		products: make(map[string]models.Product),
	}
}

// Insert adds a new product.
func (s *MockProductStore) Insert(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	s.products[product.ID] = *product
	return nil
}

// Find returns the products matching query ordered by name.
func (s *MockProductStore) Find(_ context.Context, query models.ProductQuery) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category := foldKey(query.Category)
	needle := foldKey(query.Search)

	productList := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if query.ExcludeID != "" && p.ID == query.ExcludeID {
			continue
		}
		if category != "" && foldKey(p.Category) != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(foldKey(p.Name), needle) &&
			!strings.Contains(foldKey(p.Description), needle) &&
			!strings.Contains(foldKey(p.Category), needle) {
			continue
		}
		productList = append(productList, p)
	}

	sort.Slice(productList, func(i, j int) bool {
		a, b := productList[i], productList[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	if query.Limit > 0 && len(productList) > query.Limit {
		productList = productList[:query.Limit]
	}
	return productList, nil
}

// FindByID returns a product by its ID, or nil when absent.
func (s *MockProductStore) FindByID(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

// Categories returns the distinct categories in use, alphabetically.
func (s *MockProductStore) Categories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := make([]string, 0, len(models.Categories))
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// Replace modifies an existing product.
func (s *MockProductStore) Replace(_ context.Context, product *models.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return false, nil
	}
	updated := *product
	updated.CreatedAt = existing.CreatedAt
	s.products[product.ID] = updated
	return true, nil
}

// Remove deletes a product by its ID.
func (s *MockProductStore) Remove(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

// Count returns the number of stored products.
func (s *MockProductStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.products)), nil
}
