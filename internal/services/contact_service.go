package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"shoemart/internal/models"
	"shoemart/internal/repositories"
	"shoemart/internal/validation"
	"shoemart/pkg/metrics"
	"shoemart/pkg/rabbitmq"
)

// MessagePublisher announces newly received contact messages.
type MessagePublisher interface {
	PublishMessageReceived(event rabbitmq.MessageReceivedEvent) error
}

// ContactService handles business logic related to contact messages.
type ContactService struct {
	repo      repositories.MessageRepository
	publisher MessagePublisher // may be nil
}

// NewContactService creates a new ContactService. publisher may be nil, in
// which case no events are sent.
func NewContactService(repo repositories.MessageRepository, publisher MessagePublisher) *ContactService {
	return &ContactService{
		repo:      repo,
		publisher: publisher,
	}
}

// Submit stores a contact form submission and announces it. A failed
// announcement is logged and does not fail the submission.
func (s *ContactService) Submit(ctx context.Context, input models.MessageInput) (models.Message, error) {
	id, err := s.repo.Create(ctx, input)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			metrics.RecordContactMessage("invalid")
		} else {
			metrics.RecordContactMessage("failed")
		}
		return models.Message{}, err
	}
	metrics.RecordContactMessage("accepted")

	message, err := s.GetMessage(ctx, id)
	if err != nil {
		// The message is stored; answer from the submitted fields.
		log.Printf("[contact] Failed to re-read message %s: %v", id, err)
		message = submittedMessage(id, input)
	}

	if s.publisher != nil {
		event := rabbitmq.MessageReceivedEvent{
			ID:         message.ID,
			Name:       message.Name,
			Email:      message.Email,
			Topic:      message.Topic,
			Status:     string(message.Status),
			ReceivedAt: message.CreatedAt,
		}
		if err := s.publisher.PublishMessageReceived(event); err != nil {
			log.Printf("[contact] Failed to publish event for message %s: %v", message.ID, err)
		} else {
			log.Printf("[contact] Published event for message %s", message.ID)
		}
	}
	return message, nil
}

// submittedMessage is the record Create stores for input, minus what only
// the store knows exactly.
func submittedMessage(id string, input models.MessageInput) models.Message {
	in := validation.NormalizeMessage(input)
	now := time.Now().UTC()
	return models.Message{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Topic:     in.Topic,
		Message:   in.Message,
		Status:    models.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ListMessages returns messages newest first, filtered by topic or by
// status. Filtering by both at once is rejected; with neither, every
// message is returned.
func (s *ContactService) ListMessages(ctx context.Context, topic, status string) ([]models.Message, error) {
	topic = strings.TrimSpace(topic)
	status = strings.TrimSpace(status)

	switch {
	case topic != "" && status != "":
		return nil, &models.ValidationError{Violations: []models.FieldViolation{
			{Field: "status", Reason: "cannot be combined with topic"},
		}}
	case topic != "":
		return s.repo.GetByTopic(ctx, topic)
	case status != "":
		st := models.MessageStatus(strings.ToLower(status))
		if !st.IsValid() {
			return nil, &models.ValidationError{Violations: []models.FieldViolation{
				{Field: "status", Reason: "must be one of: new, read, replied, archived"},
			}}
		}
		return s.repo.GetByStatus(ctx, st)
	default:
		return s.repo.GetAll(ctx)
	}
}

// RecentMessages returns at most limit of the newest messages.
func (s *ContactService) RecentMessages(ctx context.Context, limit int) ([]models.Message, error) {
	return s.repo.GetRecent(ctx, limit)
}

// GetMessage retrieves a single message, or a NotFoundError.
func (s *ContactService) GetMessage(ctx context.Context, id string) (models.Message, error) {
	message, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Message{}, err
	}
	if !found {
		return models.Message{}, &models.NotFoundError{Entity: "message", ID: id}
	}
	return message, nil
}

// DeleteMessage deletes a message by its ID, or returns a NotFoundError.
func (s *ContactService) DeleteMessage(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return &models.NotFoundError{Entity: "message", ID: id}
	}
	return nil
}

// SetStatus moves a message to status and returns the updated record.
func (s *ContactService) SetStatus(ctx context.Context, id string, status models.MessageStatus) (models.Message, error) {
	var err error
	switch status {
	case models.StatusRead:
		err = s.repo.MarkRead(ctx, id)
	case models.StatusReplied:
		err = s.repo.MarkReplied(ctx, id)
	case models.StatusArchived:
		err = s.repo.MarkArchived(ctx, id)
	default:
		return models.Message{}, &models.ValidationError{Violations: []models.FieldViolation{
			{Field: "status", Reason: "must be one of: read, replied, archived"},
		}}
	}
	if err != nil {
		return models.Message{}, err
	}
	return s.GetMessage(ctx, id)
}
