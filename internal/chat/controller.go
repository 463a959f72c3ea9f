package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Answerer produces a reply for a question asked in a platform context.
type Answerer interface {
	Answer(ctx context.Context, question, platform string) (string, error)
}

// Delivery is the terminal outcome of one send, correlated to the
// originating message and session epoch.
type Delivery struct {
	MessageID  string
	Generation uint64
	Reply      string
	Notice     string // user-facing failure text, empty on success
}

// Controller turns user input into answer-service requests and commits the
// results back to the store. Send may be called again while earlier requests
// are still in flight; each request is tracked by its own message id and
// resolved independently, so replies can land out of send order.
//
// Send, Deliver and AppendReply must run on the store's goroutine (the UI
// update loop). The resolve func returned by Send is the only part that may
// run elsewhere; it never touches the store.
type Controller struct {
	store      *Store
	answerer   Answerer
	replyDelay time.Duration
}

// NewController creates a controller over the given store and answer source.
func NewController(store *Store, answerer Answerer, replyDelay time.Duration) *Controller {
	return &Controller{store: store, answerer: answerer, replyDelay: replyDelay}
}

// ReplyDelay is the pause between a message turning delivered and its reply
// appearing. Pure presentation; zero disables it.
func (c *Controller) ReplyDelay() time.Duration {
	return c.replyDelay
}

// Send appends a pending user message for the given input and returns a
// resolve func that performs exactly one answer-service request. Empty and
// whitespace-only input is ignored (ok is false). Pass the resolved
// Delivery to Deliver on the update loop.
func (c *Controller) Send(ctx context.Context, text string) (Message, func() Delivery, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, nil, false
	}

	msg := NewUserMessage(text)
	c.store.Append(msg)

	gen := c.store.Generation()
	platform := c.store.SelectedPlatform().Wire()

	resolve := func() Delivery {
		reply, err := c.answerer.Answer(ctx, text, platform)
		if err == nil && strings.TrimSpace(reply) == "" {
			err = errors.New("empty response")
		}
		if err != nil {
			slog.Warn("answer request failed", "id", msg.ID, "error", err)
			return Delivery{MessageID: msg.ID, Generation: gen, Notice: describeFailure(err)}
		}
		return Delivery{MessageID: msg.ID, Generation: gen, Reply: reply}
	}
	return msg, resolve, true
}

// Deliver commits a completed request: the originating message flips to
// delivered or error. On success the bot reply is returned for appending
// after ReplyDelay; on failure the returned notice is shown to the user.
// Deliveries from before a clear are dropped.
func (c *Controller) Deliver(d Delivery) (*Message, string) {
	if d.Generation != c.store.Generation() {
		return nil, ""
	}
	if d.Notice != "" {
		c.store.UpdateStatus(d.MessageID, StatusError)
		return nil, d.Notice
	}
	c.store.UpdateStatus(d.MessageID, StatusDelivered)
	reply := NewBotMessage(d.Reply)
	return &reply, ""
}

// AppendReply adds the delayed bot message unless the session was cleared
// after the request began.
func (c *Controller) AppendReply(gen uint64, reply Message) {
	if gen != c.store.Generation() {
		return
	}
	c.store.Append(reply)
}

func describeFailure(err error) string {
	var uf interface{ UserMessage() string }
	if errors.As(err, &uf) {
		if msg := uf.UserMessage(); msg != "" {
			return msg
		}
	}
	return "Sorry, something went wrong. Please try again."
}
