package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shoemart/internal/models"
	"shoemart/internal/repositories"
	"shoemart/internal/services"
	"shoemart/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMessageRepository is a mock implementation of repositories.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, input models.MessageInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockMessageRepository) GetAll(ctx context.Context) ([]models.Message, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id string) (models.Message, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Message), args.Bool(1), args.Error(2)
}

func (m *MockMessageRepository) GetRecent(ctx context.Context, limit int) ([]models.Message, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageRepository) GetByTopic(ctx context.Context, topic string) ([]models.Message, error) {
	args := m.Called(ctx, topic)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageRepository) GetByStatus(ctx context.Context, status models.MessageStatus) ([]models.Message, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMessageRepository) MarkReplied(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMessageRepository) MarkArchived(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMessageRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ repositories.MessageRepository = (*MockMessageRepository)(nil)

// MockPublisher is a mock implementation of services.MessagePublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishMessageReceived(event rabbitmq.MessageReceivedEvent) error {
	return m.Called(event).Error(0)
}

func storedMessage() models.Message {
	return models.Message{
		ID:        "msg-1",
		Name:      "Jo",
		Email:     "jo@example.com",
		Topic:     "Help",
		Message:   "hi",
		Status:    models.StatusNew,
		CreatedAt: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestContactService_Submit(t *testing.T) {
	ctx := context.Background()
	input := models.MessageInput{Name: "Jo", Email: "jo@example.com", Topic: "Help", Message: "hi"}
	msg := storedMessage()
	wantEvent := rabbitmq.MessageReceivedEvent{
		ID:         "msg-1",
		Name:       "Jo",
		Email:      "jo@example.com",
		Topic:      "Help",
		Status:     "new",
		ReceivedAt: msg.CreatedAt,
	}

	t.Run("publishes event", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockPub := new(MockPublisher)
		service := services.NewContactService(mockRepo, mockPub)

		mockRepo.On("Create", ctx, input).Return("msg-1", nil).Once()
		mockRepo.On("GetByID", ctx, "msg-1").Return(msg, true, nil).Once()
		mockPub.On("PublishMessageReceived", wantEvent).Return(nil).Once()

		got, err := service.Submit(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, msg, got)
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("publish failure does not fail submission", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockPub := new(MockPublisher)
		service := services.NewContactService(mockRepo, mockPub)

		mockRepo.On("Create", ctx, input).Return("msg-1", nil).Once()
		mockRepo.On("GetByID", ctx, "msg-1").Return(msg, true, nil).Once()
		mockPub.On("PublishMessageReceived", wantEvent).Return(fmt.Errorf("broker unreachable")).Once()

		got, err := service.Submit(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "msg-1", got.ID)
		mockPub.AssertExpectations(t)
	})

	t.Run("without publisher", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		service := services.NewContactService(mockRepo, nil)

		mockRepo.On("Create", ctx, input).Return("msg-1", nil).Once()
		mockRepo.On("GetByID", ctx, "msg-1").Return(msg, true, nil).Once()

		_, err := service.Submit(ctx, input)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("stored message survives a failed re-read", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockPub := new(MockPublisher)
		service := services.NewContactService(mockRepo, mockPub)

		raw := models.MessageInput{Name: " Jo ", Email: "Jo@Example.com", Topic: "Help", Message: "hi"}
		mockRepo.On("Create", ctx, raw).Return("msg-1", nil).Once()
		mockRepo.On("GetByID", ctx, "msg-1").Return(models.Message{}, false, fmt.Errorf("connection reset")).Once()
		mockPub.On("PublishMessageReceived", mock.MatchedBy(func(e rabbitmq.MessageReceivedEvent) bool {
			return e.ID == "msg-1" && e.Email == "jo@example.com"
		})).Return(nil).Once()

		got, err := service.Submit(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, "msg-1", got.ID)
		assert.Equal(t, "Jo", got.Name)
		assert.Equal(t, "jo@example.com", got.Email)
		assert.Equal(t, models.StatusNew, got.Status)
		assert.False(t, got.CreatedAt.IsZero())
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("invalid input is not published", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockPub := new(MockPublisher)
		service := services.NewContactService(mockRepo, mockPub)

		verr := &models.ValidationError{Violations: []models.FieldViolation{{Field: "email", Reason: "must be a valid email address"}}}
		bad := models.MessageInput{Name: "Jo", Email: "bad-email", Topic: "Help", Message: "hi"}
		mockRepo.On("Create", ctx, bad).Return("", verr).Once()

		_, err := service.Submit(ctx, bad)
		assert.ErrorIs(t, err, verr)
		mockPub.AssertNotCalled(t, "PublishMessageReceived", mock.Anything)
	})
}

func TestContactService_ListMessages(t *testing.T) {
	ctx := context.Background()
	msgs := []models.Message{storedMessage()}

	t.Run("all", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockRepo.On("GetAll", ctx).Return(msgs, nil).Once()
		got, err := services.NewContactService(mockRepo, nil).ListMessages(ctx, "", "")
		require.NoError(t, err)
		assert.Equal(t, msgs, got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("topic", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockRepo.On("GetByTopic", ctx, "Help").Return(msgs, nil).Once()
		got, err := services.NewContactService(mockRepo, nil).ListMessages(ctx, " Help ", " ")
		require.NoError(t, err)
		assert.Equal(t, msgs, got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("topic and status together", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		_, err := services.NewContactService(mockRepo, nil).ListMessages(ctx, "Help", "read")
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"status"}, verr.Fields())
		mockRepo.AssertNotCalled(t, "GetByTopic", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "GetByStatus", mock.Anything, mock.Anything)
	})

	t.Run("status", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockRepo.On("GetByStatus", ctx, models.StatusArchived).Return([]models.Message{}, nil).Once()
		got, err := services.NewContactService(mockRepo, nil).ListMessages(ctx, "", "Archived")
		require.NoError(t, err)
		assert.Empty(t, got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		_, err := services.NewContactService(mockRepo, nil).ListMessages(ctx, "", "spam")
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"status"}, verr.Fields())
	})
}

func TestContactService_SetStatus(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockMessageRepository)
	service := services.NewContactService(mockRepo, nil)

	replied := storedMessage()
	replied.Status = models.StatusReplied

	mockRepo.On("MarkReplied", ctx, "msg-1").Return(nil).Once()
	mockRepo.On("GetByID", ctx, "msg-1").Return(replied, true, nil).Once()
	got, err := service.SetStatus(ctx, "msg-1", models.StatusReplied)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReplied, got.Status)

	nf := &models.NotFoundError{Entity: "message", ID: "missing"}
	mockRepo.On("MarkArchived", ctx, "missing").Return(nf).Once()
	_, err = service.SetStatus(ctx, "missing", models.StatusArchived)
	assert.ErrorIs(t, err, nf)

	_, err = service.SetStatus(ctx, "msg-1", models.StatusNew)
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
	mockRepo.AssertExpectations(t)
}

func TestContactService_DeleteAndRecent(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockMessageRepository)
	service := services.NewContactService(mockRepo, nil)

	mockRepo.On("Delete", ctx, "msg-1").Return(true, nil).Once()
	mockRepo.On("Delete", ctx, "msg-1").Return(false, nil).Once()
	require.NoError(t, service.DeleteMessage(ctx, "msg-1"))
	var nf *models.NotFoundError
	assert.ErrorAs(t, service.DeleteMessage(ctx, "msg-1"), &nf)

	mockRepo.On("GetRecent", ctx, 5).Return([]models.Message{storedMessage()}, nil).Once()
	recent, err := service.RecentMessages(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
	mockRepo.AssertExpectations(t)
}
