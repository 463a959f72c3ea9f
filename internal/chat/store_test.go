package chat_test

import (
	"errors"
	"testing"

	"github.com/cdpchat/cdpchat/internal/chat"
)

// memArchive is an in-memory Archive for tests.
type memArchive struct {
	state   chat.State
	hasData bool
	saves   int
	clears  int
	loadErr error
}

func (a *memArchive) Load() (chat.State, error) {
	if a.loadErr != nil {
		return chat.State{}, a.loadErr
	}
	if !a.hasData {
		return chat.State{Preferences: chat.DefaultPreferences()}, nil
	}
	return a.state, nil
}

func (a *memArchive) Save(st chat.State) error {
	a.state = st
	a.hasData = true
	a.saves++
	return nil
}

func (a *memArchive) Clear() error {
	a.state = chat.State{Preferences: chat.DefaultPreferences()}
	a.hasData = false
	a.clears++
	return nil
}

func TestAppendKeepsOrderAndPersists(t *testing.T) {
	arch := &memArchive{}
	store := chat.NewStore(arch)

	first := chat.NewUserMessage("hello")
	second := chat.NewBotMessage("hi there")
	store.Append(first)
	store.Append(second)

	msgs := store.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].ID != first.ID || msgs[1].ID != second.ID {
		t.Error("messages out of insertion order")
	}
	if arch.saves != 2 {
		t.Errorf("got %d archive saves, want 2", arch.saves)
	}
	if len(arch.state.Messages) != 2 {
		t.Errorf("archive holds %d messages, want 2", len(arch.state.Messages))
	}
}

func TestUpdateStatusTargetsPendingUserMessages(t *testing.T) {
	arch := &memArchive{}
	store := chat.NewStore(arch)

	first := chat.NewUserMessage("first question")
	reply := chat.NewBotMessage("an answer")
	second := chat.NewUserMessage("second question")
	store.Append(first)
	store.Append(reply)
	store.Append(second)

	store.UpdateStatus(second.ID, chat.StatusDelivered)
	store.UpdateStatus(first.ID, chat.StatusError)

	msgs := store.Messages()
	if got := msgs[2].Status; got != chat.StatusDelivered {
		t.Errorf("second message status = %q, want delivered", got)
	}
	if got := msgs[0].Status; got != chat.StatusError {
		t.Errorf("first message status = %q, want error", got)
	}

	// Delivered and error are terminal.
	store.UpdateStatus(second.ID, chat.StatusError)
	if got := store.Messages()[2].Status; got != chat.StatusDelivered {
		t.Errorf("terminal status overwritten: got %q", got)
	}

	// Unknown ids and bot messages are no-ops.
	store.UpdateStatus("no-such-id", chat.StatusDelivered)
	store.UpdateStatus(reply.ID, chat.StatusDelivered)
	if got := store.Messages()[1].Status; got != "" {
		t.Errorf("bot message gained status %q", got)
	}
}

func TestClearReplacesSession(t *testing.T) {
	arch := &memArchive{}
	store := chat.NewStore(arch)
	store.SetPlatform(chat.PlatformLytics)
	store.SetPreferences(chat.Preferences{AutoScroll: false, Notifications: false})
	store.Append(chat.NewUserMessage("to be removed"))

	gen := store.Generation()
	store.Clear()

	if len(store.Messages()) != 0 {
		t.Error("messages survived clear")
	}
	if store.SelectedPlatform() != "" {
		t.Errorf("platform survived clear: %q", store.SelectedPlatform())
	}
	if store.Preferences() != chat.DefaultPreferences() {
		t.Errorf("preferences not reset: %+v", store.Preferences())
	}
	if store.Generation() == gen {
		t.Error("generation did not advance on clear")
	}
	if arch.clears != 1 {
		t.Errorf("got %d archive clears, want 1", arch.clears)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	arch := &memArchive{}
	store := chat.NewStore(arch)
	store.SetPlatform(chat.PlatformSegment)

	sent := chat.NewUserMessage("How do I set up a source?")
	store.Append(sent)
	store.UpdateStatus(sent.ID, chat.StatusDelivered)
	store.Append(chat.NewBotMessage("Open the Sources page and click Add Source."))

	restored := chat.NewStore(arch)
	restored.Restore()

	want := store.Messages()
	got := restored.Messages()
	if len(got) != len(want) {
		t.Fatalf("restored %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d changed across restore:\ngot  %+v\nwant %+v", i, got[i], want[i])
		}
	}
	if restored.SelectedPlatform() != chat.PlatformSegment {
		t.Errorf("platform = %q, want Segment", restored.SelectedPlatform())
	}
}

func TestRestoreToleratesUnreadableArchive(t *testing.T) {
	arch := &memArchive{loadErr: errors.New("corrupt")}
	store := chat.NewStore(arch)
	store.Restore()

	if len(store.Messages()) != 0 {
		t.Error("expected empty conversation")
	}
	if store.Preferences() != chat.DefaultPreferences() {
		t.Error("expected default preferences")
	}
}

func TestRestoreFreshArchiveIsEmpty(t *testing.T) {
	store := chat.NewStore(&memArchive{})
	store.Restore()

	if len(store.Messages()) != 0 {
		t.Error("fresh archive should restore to an empty list")
	}
	if store.SelectedPlatform() != "" {
		t.Error("fresh archive should have no platform selection")
	}
}
