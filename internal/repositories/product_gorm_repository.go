package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shoemart/internal/models"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// GORMProductStore is a GORM implementation of ProductStore. It works with
// both the sqlite and postgres drivers.
type GORMProductStore struct {
	db *gorm.DB
}

// NewGORMProductStore creates a new instance of GORMProductStore.
func NewGORMProductStore(db *gorm.DB) *GORMProductStore {
	return &GORMProductStore{
		db: db,
	}
}

// Insert creates a new product row.
func (s *GORMProductStore) Insert(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	setFolded(product)
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// Find lists products matching query, ordered by name.
func (s *GORMProductStore) Find(ctx context.Context, query models.ProductQuery) ([]models.Product, error) {
	tx := s.db.WithContext(ctx).Model(&models.Product{})

	if query.Category != "" {
		tx = tx.Where("category_folded = ?", foldKey(query.Category))
	}
	if query.Search != "" {
		pattern := "%" + escapeLike(foldKey(query.Search)) + "%"
		tx = tx.Where(
			`(name_folded LIKE ? ESCAPE '\' OR description_folded LIKE ? ESCAPE '\' OR category_folded LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
	if query.ExcludeID != "" {
		tx = tx.Where("id <> ?", query.ExcludeID)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	var products []models.Product
	if err := tx.Order("name ASC").Order("created_at ASC").Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a single product, or nil when none has that id.
func (s *GORMProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Categories returns the distinct categories in use, alphabetically.
func (s *GORMProductStore) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Replace overwrites the mutable columns of an existing product.
func (s *GORMProductStore) Replace(ctx context.Context, product *models.Product) (bool, error) {
	setFolded(product)
	// A map keeps zero values such as a price of 0 in the UPDATE.
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":               product.Name,
			"price":              product.Price,
			"category":           product.Category,
			"image":              product.Image,
			"description":        product.Description,
			"name_folded":        product.NameFolded,
			"category_folded":    product.CategoryFolded,
			"description_folded": product.DescriptionFolded,
			"updated_at":         product.UpdatedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// RefreshFolded fills the folded search columns of rows written before
// those columns existed. It returns the number of rows updated.
func (s *GORMProductStore) RefreshFolded(ctx context.Context) (int, error) {
	var stale []models.Product
	err := s.db.WithContext(ctx).
		Where("name_folded = ''").
		Find(&stale).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find products without search keys: %w", err)
	}
	for i := range stale {
		p := &stale[i]
		setFolded(p)
		err := s.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"name_folded":        p.NameFolded,
				"category_folded":    p.CategoryFolded,
				"description_folded": p.DescriptionFolded,
			}).Error
		if err != nil {
			return i, fmt.Errorf("failed to refresh search keys of product %s: %w", p.ID, err)
		}
	}
	return len(stale), nil
}

// Remove permanently deletes a product.
func (s *GORMProductStore) Remove(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Count returns the number of stored products.
func (s *GORMProductStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// foldKey case-folds s with full Unicode folding, e.g. "Élan" -> "élan".
func foldKey(s string) string {
	return cases.Fold().String(s)
}

func setFolded(p *models.Product) {
	p.NameFolded = foldKey(p.Name)
	p.CategoryFolded = foldKey(p.Category)
	p.DescriptionFolded = foldKey(p.Description)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
