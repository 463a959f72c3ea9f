package bus

import "time"

// InboundMessage is a question received from a chat channel.
type InboundMessage struct {
	Channel   string
	SenderID  string
	ChatID    string
	MessageID string
	Content   string
	Timestamp time.Time
}

// SenderKey identifies the asking user across messages.
func (m *InboundMessage) SenderKey() string {
	return m.Channel + ":" + m.SenderID
}

// OutboundMessage is a reply to deliver to a chat channel.
type OutboundMessage struct {
	Channel string
	ChatID  string
	Content string
	ReplyTo string
}
