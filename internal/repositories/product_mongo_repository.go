package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"shoemart/internal/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// productDocument is the BSON shape of a product. Ids stay ObjectIDs inside
// the collection and are exposed as hex strings.
type productDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Price       primitive.Decimal128 `bson:"price"`
	Category    string               `bson:"category"`
	Image       string               `bson:"image"`
	Description string               `bson:"description"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

func (d productDocument) toModel() (models.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to decode price of product %s: %w", d.ID.Hex(), err)
	}
	return models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       price,
		Category:    d.Category,
		Image:       d.Image,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// MongoProductStore is a MongoDB implementation of ProductStore.
type MongoProductStore struct {
	coll *mongo.Collection
}

// NewMongoProductStore creates a store over the "products" collection of db.
func NewMongoProductStore(db *mongo.Database) *MongoProductStore {
	return &MongoProductStore{
		coll: db.Collection("products"),
	}
}

// EnsureIndexes creates the category and price indexes. Search is a
// case-insensitive regex scan, which a text index cannot serve.
func (s *MongoProductStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

// Insert stores a new product document and sets product.ID.
func (s *MongoProductStore) Insert(ctx context.Context, product *models.Product) error {
	price, err := primitive.ParseDecimal128(product.Price.String())
	if err != nil {
		return fmt.Errorf("failed to encode price: %w", err)
	}
	oid := primitive.NewObjectID()
	doc := productDocument{
		ID:          oid,
		Name:        product.Name,
		Price:       price,
		Category:    product.Category,
		Image:       product.Image,
		Description: product.Description,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	product.ID = oid.Hex()
	return nil
}

// Find lists products matching query, ordered by name.
func (s *MongoProductStore) Find(ctx context.Context, query models.ProductQuery) ([]models.Product, error) {
	filter := bson.M{}
	if query.Category != "" {
		filter["category"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(query.Category) + "$", Options: "i"}
	}
	if query.Search != "" {
		needle := primitive.Regex{Pattern: regexp.QuoteMeta(query.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": needle},
			bson.M{"description": needle},
			bson.M{"category": needle},
		}
	}
	if query.ExcludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(query.ExcludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "name", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	})
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		product, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// FindByID returns the product with the given hex id, or nil when absent.
// Ids that are not valid ObjectIDs can never exist and are reported as absent.
func (s *MongoProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc productDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	product, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories returns the distinct categories in use, alphabetically.
func (s *MongoProductStore) Categories(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if c, ok := v.(string); ok {
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// Replace overwrites the mutable fields of an existing product.
func (s *MongoProductStore) Replace(ctx context.Context, product *models.Product) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return false, nil
	}
	price, err := primitive.ParseDecimal128(product.Price.String())
	if err != nil {
		return false, fmt.Errorf("failed to encode price: %w", err)
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        product.Name,
		"price":       price,
		"category":    product.Category,
		"image":       product.Image,
		"description": product.Description,
		"updatedAt":   product.UpdatedAt,
	}})
	if err != nil {
		return false, fmt.Errorf("failed to update product: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// Remove permanently deletes a product document.
func (s *MongoProductStore) Remove(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// Count returns the number of product documents.
func (s *MongoProductStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
