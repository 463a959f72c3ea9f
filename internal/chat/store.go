package chat

import "log/slog"

// Preferences are the user-tunable chat behaviors.
type Preferences struct {
	AutoScroll    bool `json:"autoScroll"`
	Notifications bool `json:"notifications"`
}

// DefaultPreferences returns the out-of-the-box preference set.
func DefaultPreferences() Preferences {
	return Preferences{AutoScroll: true, Notifications: true}
}

// State is everything an archive persists between runs.
type State struct {
	Messages         []Message   `json:"chatHistory"`
	SelectedPlatform Platform    `json:"selectedPlatform,omitempty"`
	Preferences      Preferences `json:"preferences"`
}

// Archive persists conversation state. Load must tolerate missing or corrupt
// data by returning an empty state with default preferences rather than
// failing the caller.
type Archive interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

// Store owns the ordered message list and session state. It is the only
// place messages are mutated, and all mutation happens on a single
// goroutine (the UI update loop), so the store does no locking.
type Store struct {
	archive    Archive
	messages   []Message
	platform   Platform
	prefs      Preferences
	generation uint64
}

// NewStore creates an empty store backed by the given archive.
func NewStore(archive Archive) *Store {
	return &Store{archive: archive, prefs: DefaultPreferences()}
}

// Restore reads persisted state. Missing or unreadable data yields an empty
// conversation and defaults; Restore never fails.
func (s *Store) Restore() {
	st, err := s.archive.Load()
	if err != nil {
		slog.Warn("discarding unreadable chat history", "error", err)
		s.messages = nil
		s.platform = ""
		s.prefs = DefaultPreferences()
		return
	}
	s.messages = st.Messages
	s.platform = st.SelectedPlatform
	s.prefs = st.Preferences
}

// Messages returns the conversation in insertion order. Callers must not
// mutate the returned slice.
func (s *Store) Messages() []Message {
	return s.messages
}

// Append adds a message to the end of the list and persists.
func (s *Store) Append(m Message) {
	s.messages = append(s.messages, m)
	s.persist()
}

// UpdateStatus rewrites the status of the user message with the given id.
// Only pending (sent) messages are updated; delivered and error are
// terminal. Unknown ids are a no-op.
func (s *Store) UpdateStatus(id string, status Status) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		m := &s.messages[i]
		if !m.IsUser || m.ID != id {
			continue
		}
		if m.Status == StatusSent {
			m.Status = status
			s.persist()
		}
		return
	}
}

// Clear fully replaces the session with an empty one: messages gone,
// platform unselected, preferences back to defaults, archive wiped. The
// generation counter advances so results of requests issued before the
// clear are discarded on arrival.
func (s *Store) Clear() {
	s.messages = nil
	s.platform = ""
	s.prefs = DefaultPreferences()
	s.generation++
	if err := s.archive.Clear(); err != nil {
		slog.Warn("failed to clear chat archive", "error", err)
	}
}

// Generation identifies the current session epoch. It changes on Clear.
func (s *Store) Generation() uint64 {
	return s.generation
}

// SelectedPlatform returns the current vendor selection, or "" when none.
func (s *Store) SelectedPlatform() Platform {
	return s.platform
}

// SetPlatform records the vendor selection and persists.
func (s *Store) SetPlatform(p Platform) {
	s.platform = p
	s.persist()
}

// Preferences returns the current preference set.
func (s *Store) Preferences() Preferences {
	return s.prefs
}

// SetPreferences records new preferences and persists.
func (s *Store) SetPreferences(p Preferences) {
	s.prefs = p
	s.persist()
}

func (s *Store) persist() {
	st := State{
		Messages:         s.messages,
		SelectedPlatform: s.platform,
		Preferences:      s.prefs,
	}
	if err := s.archive.Save(st); err != nil {
		slog.Warn("failed to persist chat state", "error", err)
	}
}
