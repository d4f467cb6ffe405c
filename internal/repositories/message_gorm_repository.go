package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shoemart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMessageStore is a GORM implementation of MessageStore.
type GORMMessageStore struct {
	db *gorm.DB
}

// NewGORMMessageStore creates a new instance of GORMMessageStore.
func NewGORMMessageStore(db *gorm.DB) *GORMMessageStore {
	return &GORMMessageStore{
		db: db,
	}
}

// Insert creates a new message row.
func (s *GORMMessageStore) Insert(ctx context.Context, message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// Find lists messages matching query, newest first.
func (s *GORMMessageStore) Find(ctx context.Context, query models.MessageQuery) ([]models.Message, error) {
	tx := s.db.WithContext(ctx).Model(&models.Message{})
	if query.Topic != "" {
		tx = tx.Where("topic = ?", query.Topic)
	}
	if query.Status != "" {
		tx = tx.Where("status = ?", query.Status)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	var messages []models.Message
	if err := tx.Order("created_at DESC").Order("id DESC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to find messages: %w", err)
	}
	return messages, nil
}

// FindByID retrieves a single message, or nil when none has that id.
func (s *GORMMessageStore) FindByID(ctx context.Context, id string) (*models.Message, error) {
	var message models.Message
	if err := s.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get message by ID %s: %w", id, err)
	}
	return &message, nil
}

// SetStatus changes only the status of a message.
func (s *GORMMessageStore) SetStatus(ctx context.Context, id string, status models.MessageStatus, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": at})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update message status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Remove permanently deletes a message.
func (s *GORMMessageStore) Remove(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Message{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete message: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Count returns the number of stored messages.
func (s *GORMMessageStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Message{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}
