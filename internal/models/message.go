package models

import (
	"encoding/json"
	"time"
)

// MessageStatus is the handling state of a contact message.
type MessageStatus string

const (
	StatusNew      MessageStatus = "new"
	StatusRead     MessageStatus = "read"
	StatusReplied  MessageStatus = "replied"
	StatusArchived MessageStatus = "archived"
)

// MessageStatuses lists every valid status.
var MessageStatuses = []MessageStatus{StatusNew, StatusRead, StatusReplied, StatusArchived}

// IsValid reports whether s is a known status.
func (s MessageStatus) IsValid() bool {
	for _, status := range MessageStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// Message represents a message submitted through the contact form.
type Message struct {
	ID        string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string        `json:"name" gorm:"type:varchar(100);not null"`
	Email     string        `json:"email" gorm:"type:varchar(255);not null;index"`
	Phone     string        `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Topic     string        `json:"topic" gorm:"type:varchar(100);not null;index"`
	Message   string        `json:"message" gorm:"type:varchar(1000);not null"`
	Status    MessageStatus `json:"status" gorm:"type:varchar(16);not null;default:new;index"`
	CreatedAt time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TableName returns the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// FormattedDate renders the creation time like "October 19, 2026, 03:04 PM".
func (m Message) FormattedDate() string {
	return m.CreatedAt.Format("January 2, 2006, 03:04 PM")
}

// MarshalJSON adds the display field formatted_date.
func (m Message) MarshalJSON() ([]byte, error) {
	type message Message
	return json.Marshal(struct {
		message
		FormattedDate string `json:"formatted_date"`
	}{
		message:       message(m),
		FormattedDate: m.FormattedDate(),
	})
}

// MessageInput is the candidate field set submitted through the contact form.
type MessageInput struct {
	Name    string `json:"name" form:"name" validate:"required,max=100"`
	Email   string `json:"email" form:"email" validate:"required,max=255,contact_email"`
	Phone   string `json:"phone" form:"phone" validate:"omitempty,max=20"`
	Topic   string `json:"topic" form:"topic" validate:"required,max=100"`
	Message string `json:"message" form:"message" validate:"required,max=1000"`
}

// MessageQuery narrows a message listing. Zero values mean "no constraint".
type MessageQuery struct {
	Topic  string
	Status MessageStatus
	Limit  int
}
