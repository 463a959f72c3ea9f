package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cdpchat/cdpchat/internal/bus"
	"github.com/cdpchat/cdpchat/internal/chat"
)

type answerCall struct {
	question string
	platform string
}

type fakeAnswerer struct {
	fn    func(question, platform string) (string, error)
	calls []answerCall
}

func (f *fakeAnswerer) Answer(_ context.Context, question, platform string) (string, error) {
	f.calls = append(f.calls, answerCall{question, platform})
	if f.fn != nil {
		return f.fn(question, platform)
	}
	return "the answer", nil
}

func inbound(content string) *bus.InboundMessage {
	return &bus.InboundMessage{
		Channel:   "discord",
		SenderID:  "42",
		ChatID:    "chan-1",
		MessageID: "msg-1",
		Content:   content,
		Timestamp: time.Now(),
	}
}

func TestProcessMessageAnswers(t *testing.T) {
	f := &fakeAnswerer{}
	r := NewResponder(bus.NewMessageBus(), f, "")

	resp, err := r.processMessage(context.Background(), inbound("How do I add a source?"))
	if err != nil {
		t.Fatalf("processMessage: %v", err)
	}
	if resp.Channel != "discord" || resp.ChatID != "chan-1" || resp.ReplyTo != "msg-1" {
		t.Errorf("reply routing = %+v", resp)
	}
	if resp.Content != "the answer" {
		t.Errorf("content = %q", resp.Content)
	}
	if len(f.calls) != 1 || f.calls[0].platform != "Other" {
		t.Errorf("calls = %+v, want one with platform Other", f.calls)
	}
}

func TestPlatformCommandSwitchesContext(t *testing.T) {
	f := &fakeAnswerer{}
	r := NewResponder(bus.NewMessageBus(), f, chat.PlatformOther)

	resp, err := r.processMessage(context.Background(), inbound("platform: segment"))
	if err != nil {
		t.Fatalf("processMessage: %v", err)
	}
	if !strings.Contains(resp.Content, "Segment") {
		t.Errorf("confirmation = %q", resp.Content)
	}
	if len(f.calls) != 0 {
		t.Fatalf("command reached the answerer: %+v", f.calls)
	}

	if _, err := r.processMessage(context.Background(), inbound("How do I add a source?")); err != nil {
		t.Fatalf("processMessage: %v", err)
	}
	if len(f.calls) != 1 || f.calls[0].platform != "Segment" {
		t.Errorf("calls = %+v, want one with platform Segment", f.calls)
	}
}

func TestPlatformCommandRejectsUnknown(t *testing.T) {
	f := &fakeAnswerer{}
	r := NewResponder(bus.NewMessageBus(), f, chat.PlatformLytics)

	resp, err := r.processMessage(context.Background(), inbound("platform: hubspot"))
	if err != nil {
		t.Fatalf("processMessage: %v", err)
	}
	if !strings.Contains(resp.Content, "Valid platforms") {
		t.Errorf("reply = %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "mParticle") {
		t.Errorf("reply %q does not list the platforms", resp.Content)
	}

	// The sender's platform is unchanged.
	if _, err := r.processMessage(context.Background(), inbound("a question")); err != nil {
		t.Fatalf("processMessage: %v", err)
	}
	if len(f.calls) != 1 || f.calls[0].platform != "Lytics" {
		t.Errorf("calls = %+v, want one with platform Lytics", f.calls)
	}
}

func TestPlatformCommandShowsCurrent(t *testing.T) {
	r := NewResponder(bus.NewMessageBus(), &fakeAnswerer{}, chat.PlatformZeotap)

	resp, err := r.processMessage(context.Background(), inbound("platform:"))
	if err != nil {
		t.Fatalf("processMessage: %v", err)
	}
	if !strings.Contains(resp.Content, "Zeotap") {
		t.Errorf("reply = %q", resp.Content)
	}
}

func TestSendersKeepSeparatePlatforms(t *testing.T) {
	f := &fakeAnswerer{}
	r := NewResponder(bus.NewMessageBus(), f, chat.PlatformOther)

	alice := inbound("platform: segment")
	alice.SenderID = "alice"
	if _, err := r.processMessage(context.Background(), alice); err != nil {
		t.Fatal(err)
	}

	bob := inbound("a question")
	bob.SenderID = "bob"
	if _, err := r.processMessage(context.Background(), bob); err != nil {
		t.Fatal(err)
	}
	if len(f.calls) != 1 || f.calls[0].platform != "Other" {
		t.Errorf("calls = %+v, want bob on the default platform", f.calls)
	}
}

func TestApologySurfacesServerDetail(t *testing.T) {
	plain := errors.New("dial tcp: connection refused")
	if got := apology(plain); got != "Sorry, I ran into an error answering that. Please try again." {
		t.Errorf("plain apology = %q", got)
	}

	detailed := &detailErr{detail: "Internal server error"}
	wrapped := errors.Join(errors.New("answer question"), detailed)
	if got := apology(wrapped); !strings.Contains(got, "Internal server error") {
		t.Errorf("detailed apology = %q", got)
	}
}

type detailErr struct{ detail string }

func (e *detailErr) Error() string       { return "server error: " + e.detail }
func (e *detailErr) UserMessage() string { return e.detail }

func TestRunPublishesRepliesAndApologies(t *testing.T) {
	b := bus.NewMessageBus()
	f := &fakeAnswerer{fn: func(q, p string) (string, error) {
		if strings.Contains(q, "fail") {
			return "", errors.New("boom")
		}
		return "here's how", nil
	}}
	r := NewResponder(b, f, chat.PlatformSegment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *bus.OutboundMessage, 2)
	b.Subscribe("discord", func(ctx context.Context, m *bus.OutboundMessage) error {
		got <- m
		return nil
	})

	go r.Run(ctx)
	go b.DispatchOutbound(ctx)

	b.PublishInbound(inbound("how do I start?"))
	first := waitOutbound(t, got)
	if first.Content != "here's how" || first.ReplyTo != "msg-1" {
		t.Fatalf("reply = %+v", first)
	}

	b.PublishInbound(inbound("please fail"))
	second := waitOutbound(t, got)
	if !strings.HasPrefix(second.Content, "Sorry, I ran into an error") {
		t.Fatalf("apology = %q", second.Content)
	}
}

func waitOutbound(t *testing.T, ch chan *bus.OutboundMessage) *bus.OutboundMessage {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound message")
		return nil
	}
}
