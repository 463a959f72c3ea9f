package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/cdpchat/cdpchat/internal/bus"
	"github.com/cdpchat/cdpchat/internal/chat"
)

// Responder consumes questions from the bus, resolves them against the
// answer service, and publishes replies. Each sender keeps a selected
// platform across messages.
type Responder struct {
	bus      *bus.MessageBus
	answerer chat.Answerer
	fallback chat.Platform

	mu        sync.Mutex
	platforms map[string]chat.Platform
}

// NewResponder creates a responder answering with the given default
// platform for senders who have not picked one.
func NewResponder(b *bus.MessageBus, answerer chat.Answerer, fallback chat.Platform) *Responder {
	if fallback == "" {
		fallback = chat.PlatformOther
	}
	return &Responder{
		bus:       b,
		answerer:  answerer,
		fallback:  fallback,
		platforms: make(map[string]chat.Platform),
	}
}

// Run processes inbound messages until ctx is cancelled.
func (r *Responder) Run(ctx context.Context) {
	slog.Info("Responder started", "platform", r.fallback)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Responder stopping")
			return
		case msg := <-r.bus.Inbound:
			resp, err := r.processMessage(ctx, msg)
			if err != nil {
				slog.Error("processing message", "err", err)
				r.bus.PublishOutbound(&bus.OutboundMessage{
					Channel: msg.Channel,
					ChatID:  msg.ChatID,
					Content: apology(err),
					ReplyTo: msg.MessageID,
				})
				continue
			}
			if resp != nil {
				r.bus.PublishOutbound(resp)
			}
		}
	}
}

func (r *Responder) processMessage(ctx context.Context, msg *bus.InboundMessage) (*bus.OutboundMessage, error) {
	preview := msg.Content
	if len(preview) > 80 {
		preview = preview[:80] + "..."
	}
	slog.Info("Processing message", "channel", msg.Channel, "sender", msg.SenderID, "preview", preview)

	if reply, handled := r.handleCommand(msg); handled {
		return reply, nil
	}

	platform := r.platformFor(msg.SenderKey())
	answer, err := r.answerer.Answer(ctx, msg.Content, platform.Wire())
	if err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}

	slog.Info("Response", "channel", msg.Channel, "preview", truncate(answer, 120))

	return &bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: answer,
		ReplyTo: msg.MessageID,
	}, nil
}

// handleCommand intercepts "platform: <name>" messages that switch the
// sender's platform context.
func (r *Responder) handleCommand(msg *bus.InboundMessage) (*bus.OutboundMessage, bool) {
	trimmed := strings.TrimSpace(msg.Content)
	if !strings.HasPrefix(strings.ToLower(trimmed), "platform:") {
		return nil, false
	}

	reply := func(content string) *bus.OutboundMessage {
		return &bus.OutboundMessage{
			Channel: msg.Channel,
			ChatID:  msg.ChatID,
			Content: content,
			ReplyTo: msg.MessageID,
		}
	}

	name := strings.TrimSpace(trimmed[len("platform:"):])
	if name == "" {
		current := r.platformFor(msg.SenderKey())
		return reply(fmt.Sprintf("You're asking about %s. Switch with `platform: <name>` (%s).",
			current, platformNames())), true
	}

	platform, ok := chat.ParsePlatform(name)
	if !ok {
		return reply(fmt.Sprintf("I don't know the platform %q. Valid platforms: %s.",
			name, platformNames())), true
	}

	r.mu.Lock()
	r.platforms[msg.SenderKey()] = platform
	r.mu.Unlock()
	slog.Info("Platform switched", "sender", msg.SenderKey(), "platform", platform)

	return reply(fmt.Sprintf("Got it, I'll answer your questions about %s.", platform)), true
}

func (r *Responder) platformFor(senderKey string) chat.Platform {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.platforms[senderKey]; ok {
		return p
	}
	return r.fallback
}

func platformNames() string {
	all := append(chat.Platforms(), chat.PlatformOther)
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// apology turns a resolution failure into a reply the sender can act on,
// surfacing server-provided detail when there is any.
func apology(err error) string {
	var userErr interface{ UserMessage() string }
	if errors.As(err, &userErr) {
		if detail := strings.TrimSpace(userErr.UserMessage()); detail != "" {
			return "Sorry, the answer service reported a problem: " + detail
		}
	}
	return "Sorry, I ran into an error answering that. Please try again."
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
