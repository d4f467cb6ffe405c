package repositories

import (
	"context"
	"fmt"
	"time"

	"shoemart/internal/models"
	"shoemart/internal/validation"
)

// DefaultRecentLimit is used by GetRecent when the limit is not positive.
const DefaultRecentLimit = 10

// MessageStore is a storage engine for contact messages. Implementations
// order listings newest first, ties broken by id descending.
type MessageStore interface {
	Insert(ctx context.Context, message *models.Message) error
	Find(ctx context.Context, query models.MessageQuery) ([]models.Message, error)
	// FindByID returns (nil, nil) when the message does not exist.
	FindByID(ctx context.Context, id string) (*models.Message, error)
	// SetStatus reports whether a message with that id existed.
	SetStatus(ctx context.Context, id string, status models.MessageStatus, at time.Time) (bool, error)
	Remove(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// MessageRepository defines the validated data access contract for contact messages.
type MessageRepository interface {
	Create(ctx context.Context, input models.MessageInput) (string, error)
	GetAll(ctx context.Context) ([]models.Message, error)
	GetByID(ctx context.Context, id string) (models.Message, bool, error)
	GetRecent(ctx context.Context, limit int) ([]models.Message, error)
	GetByTopic(ctx context.Context, topic string) ([]models.Message, error)
	GetByStatus(ctx context.Context, status models.MessageStatus) ([]models.Message, error)
	Delete(ctx context.Context, id string) (bool, error)
	MarkRead(ctx context.Context, id string) error
	MarkReplied(ctx context.Context, id string) error
	MarkArchived(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type messageRepository struct {
	store MessageStore
	now   func() time.Time
}

// NewMessageRepository creates a MessageRepository backed by store.
func NewMessageRepository(store MessageStore) MessageRepository {
	return &messageRepository{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *messageRepository) Create(ctx context.Context, input models.MessageInput) (string, error) {
	input = validation.NormalizeMessage(input)
	if err := validation.ValidateMessage(input); err != nil {
		return "", err
	}

	now := r.now()
	message := &models.Message{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Topic:     input.Topic,
		Message:   input.Message,
		Status:    models.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.Insert(ctx, message); err != nil {
		return "", &models.StorageError{Op: "create message", Err: err}
	}
	return message.ID, nil
}

func (r *messageRepository) GetAll(ctx context.Context) ([]models.Message, error) {
	return r.find(ctx, "get all messages", models.MessageQuery{})
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (models.Message, bool, error) {
	message, err := r.store.FindByID(ctx, id)
	if err != nil {
		return models.Message{}, false, &models.StorageError{Op: fmt.Sprintf("get message by ID %s", id), Err: err}
	}
	if message == nil {
		return models.Message{}, false, nil
	}
	return *message, true, nil
}

// GetRecent falls back to DefaultRecentLimit when limit is not positive.
func (r *messageRepository) GetRecent(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return r.find(ctx, "get recent messages", models.MessageQuery{Limit: limit})
}

func (r *messageRepository) GetByTopic(ctx context.Context, topic string) ([]models.Message, error) {
	if topic == "" {
		return []models.Message{}, nil
	}
	return r.find(ctx, "get messages by topic", models.MessageQuery{Topic: topic})
}

func (r *messageRepository) GetByStatus(ctx context.Context, status models.MessageStatus) ([]models.Message, error) {
	if status == "" {
		return []models.Message{}, nil
	}
	return r.find(ctx, "get messages by status", models.MessageQuery{Status: status})
}

func (r *messageRepository) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := r.store.Remove(ctx, id)
	if err != nil {
		return false, &models.StorageError{Op: "delete message", Err: err}
	}
	return removed, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, models.StatusRead)
}

func (r *messageRepository) MarkReplied(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, models.StatusReplied)
}

func (r *messageRepository) MarkArchived(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, models.StatusArchived)
}

func (r *messageRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.store.Count(ctx)
	if err != nil {
		return 0, &models.StorageError{Op: "count messages", Err: err}
	}
	return n, nil
}

func (r *messageRepository) setStatus(ctx context.Context, id string, status models.MessageStatus) error {
	found, err := r.store.SetStatus(ctx, id, status, r.now())
	if err != nil {
		return &models.StorageError{Op: fmt.Sprintf("mark message %s as %s", id, status), Err: err}
	}
	if !found {
		return &models.NotFoundError{Entity: "message", ID: id}
	}
	return nil
}

func (r *messageRepository) find(ctx context.Context, op string, query models.MessageQuery) ([]models.Message, error) {
	messages, err := r.store.Find(ctx, query)
	if err != nil {
		return nil, &models.StorageError{Op: op, Err: err}
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}
