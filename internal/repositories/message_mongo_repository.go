package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shoemart/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type messageDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Email     string               `bson:"email"`
	Phone     string               `bson:"phone,omitempty"`
	Topic     string               `bson:"topic"`
	Message   string               `bson:"message"`
	Status    models.MessageStatus `bson:"status"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func (d messageDocument) toModel() models.Message {
	return models.Message{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Topic:     d.Topic,
		Message:   d.Message,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoMessageStore is a MongoDB implementation of MessageStore.
type MongoMessageStore struct {
	coll *mongo.Collection
}

// NewMongoMessageStore creates a store over the "messages" collection of db.
func NewMongoMessageStore(db *mongo.Database) *MongoMessageStore {
	return &MongoMessageStore{
		coll: db.Collection("messages"),
	}
}

// EnsureIndexes creates the status, createdAt and email indexes.
func (s *MongoMessageStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}
	return nil
}

// Insert stores a new message document and sets message.ID.
func (s *MongoMessageStore) Insert(ctx context.Context, message *models.Message) error {
	oid := primitive.NewObjectID()
	doc := messageDocument{
		ID:        oid,
		Name:      message.Name,
		Email:     message.Email,
		Phone:     message.Phone,
		Topic:     message.Topic,
		Message:   message.Message,
		Status:    message.Status,
		CreatedAt: message.CreatedAt,
		UpdatedAt: message.UpdatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	message.ID = oid.Hex()
	return nil
}

// Find lists messages matching query, newest first.
func (s *MongoMessageStore) Find(ctx context.Context, query models.MessageQuery) ([]models.Message, error) {
	filter := bson.M{}
	if query.Topic != "" {
		filter["topic"] = query.Topic
	}
	if query.Status != "" {
		filter["status"] = query.Status
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find messages: %w", err)
	}
	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	messages := make([]models.Message, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, doc.toModel())
	}
	return messages, nil
}

// FindByID returns the message with the given hex id, or nil when absent.
func (s *MongoMessageStore) FindByID(ctx context.Context, id string) (*models.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc messageDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get message by ID %s: %w", id, err)
	}
	message := doc.toModel()
	return &message, nil
}

// SetStatus changes only the status of a message.
func (s *MongoMessageStore) SetStatus(ctx context.Context, id string, status models.MessageStatus, at time.Time) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": at,
	}})
	if err != nil {
		return false, fmt.Errorf("failed to update message status: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// Remove permanently deletes a message document.
func (s *MongoMessageStore) Remove(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("failed to delete message: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// Count returns the number of message documents.
func (s *MongoMessageStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}
