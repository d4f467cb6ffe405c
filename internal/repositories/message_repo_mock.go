package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"shoemart/internal/models"

	"github.com/google/uuid"
)

// MockMessageStore is an in-memory implementation of MessageStore.
type MockMessageStore struct {
	messages map[string]models.Message
	mu       sync.RWMutex
}

// NewMockMessageStore creates a new instance of MockMessageStore.
func NewMockMessageStore() *MockMessageStore {
	return &MockMessageStore{
		messages: make(map[string]models.Message),
	}
}

// Insert adds a new message.
func (s *MockMessageStore) Insert(_ context.Context, message *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	s.messages[message.ID] = *message
	return nil
}

// Find returns the messages matching query, newest first.
func (s *MockMessageStore) Find(_ context.Context, query models.MessageQuery) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messageList := make([]models.Message, 0, len(s.messages))
	for _, m := range s.messages {
		if query.Topic != "" && m.Topic != query.Topic {
			continue
		}
		if query.Status != "" && m.Status != query.Status {
			continue
		}
		messageList = append(messageList, m)
	}

	sort.Slice(messageList, func(i, j int) bool {
		a, b := messageList[i], messageList[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	if query.Limit > 0 && len(messageList) > query.Limit {
		messageList = messageList[:query.Limit]
	}
	return messageList, nil
}

// FindByID returns a message by its ID, or nil when absent.
func (s *MockMessageStore) FindByID(_ context.Context, id string) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	message, ok := s.messages[id]
	if !ok {
		return nil, nil
	}
	return &message, nil
}

// SetStatus updates the status of a message.
func (s *MockMessageStore) SetStatus(_ context.Context, id string, status models.MessageStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return false, nil
	}
	message.Status = status
	message.UpdatedAt = at
	s.messages[id] = message
	return true, nil
}

// Remove deletes a message by its ID.
func (s *MockMessageStore) Remove(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[id]; !ok {
		return false, nil
	}
	delete(s.messages, id)
	return true, nil
}

// Count returns the number of stored messages.
func (s *MockMessageStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.messages)), nil
}
