package chat

import (
	"time"

	"github.com/google/uuid"
)

// Status is the delivery outcome of a user-originated message. Bot messages
// carry no status.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusError     Status = "error"
)

// Message is a single entry in the conversation, in insertion order.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status,omitempty"`
}

// NewUserMessage creates a pending outgoing message.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		IsUser:    true,
		Timestamp: time.Now(),
		Status:    StatusSent,
	}
}

// NewBotMessage creates a reply from the answer service.
func NewBotMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Speaker is the transcript label for the message origin.
func (m Message) Speaker() string {
	if m.IsUser {
		return "You"
	}
	return "Assistant"
}
