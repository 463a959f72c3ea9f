package bus

import (
	"context"
	"log/slog"
	"sync"
)

// Discord caps messages at 2000 characters; leave headroom for the
// truncation marker.
const truncateAt = 1900

// OutboundHandler is a callback for outbound replies on a specific channel.
type OutboundHandler func(ctx context.Context, msg *OutboundMessage) error

// MessageBus decouples chat channels from the responder using Go channels.
type MessageBus struct {
	Inbound  chan *InboundMessage
	Outbound chan *OutboundMessage

	mu          sync.RWMutex
	subscribers map[string][]OutboundHandler
}

// NewMessageBus creates a message bus with buffered queues.
func NewMessageBus() *MessageBus {
	return &MessageBus{
		Inbound:     make(chan *InboundMessage, 64),
		Outbound:    make(chan *OutboundMessage, 64),
		subscribers: make(map[string][]OutboundHandler),
	}
}

// PublishInbound hands a question from a channel to the responder.
func (b *MessageBus) PublishInbound(msg *InboundMessage) {
	b.Inbound <- msg
}

// PublishOutbound hands a reply from the responder to channels.
func (b *MessageBus) PublishOutbound(msg *OutboundMessage) {
	b.Outbound <- msg
}

// Subscribe registers a handler for outbound replies on a specific channel.
func (b *MessageBus) Subscribe(channel string, handler OutboundHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[channel] = append(b.subscribers[channel], handler)
}

// DispatchOutbound reads from the outbound queue and dispatches to
// subscribers. Blocks until ctx is cancelled.
func (b *MessageBus) DispatchOutbound(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-b.Outbound:
			b.mu.RLock()
			handlers := b.subscribers[msg.Channel]
			b.mu.RUnlock()
			for _, h := range handlers {
				if err := h(ctx, msg); err != nil {
					slog.Warn("dispatch outbound failed, attempting recovery", "channel", msg.Channel, "err", err)
					b.recoverSend(ctx, h, msg)
				}
			}
		}
	}
}

// recoverSend retries a failed delivery with progressively simpler
// messages, ending with a short notice so the user knows something went
// wrong.
func (b *MessageBus) recoverSend(ctx context.Context, h OutboundHandler, original *OutboundMessage) {
	if len(original.Content) > truncateAt {
		truncated := &OutboundMessage{
			Channel: original.Channel,
			ChatID:  original.ChatID,
			ReplyTo: original.ReplyTo,
			Content: original.Content[:truncateAt] + "\n\n[message truncated]",
		}
		if err := h(ctx, truncated); err == nil {
			slog.Info("recovery: sent truncated reply", "channel", original.Channel)
			return
		}
	}

	fallback := &OutboundMessage{
		Channel: original.Channel,
		ChatID:  original.ChatID,
		Content: "Sorry, I ran into a technical issue and couldn't deliver my response. Please try again.",
	}
	if err := h(ctx, fallback); err != nil {
		slog.Error("recovery failed, unable to notify user", "channel", original.Channel, "err", err)
	}
}
