package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cdpchat/cdpchat/internal/chat"
)

const (
	historyFile  = "chatHistory.jsonl"
	platformFile = "selectedPlatform.json"
	prefsFile    = "preferences.json"
)

// FileArchive persists conversation state under a directory: the message
// list as JSONL with a metadata first line, the platform selection and
// preferences as small JSON files. It implements chat.Archive.
type FileArchive struct {
	dir       string
	mu        sync.Mutex
	createdAt time.Time
}

// NewFileArchive creates an archive rooted at dir, creating it if needed.
func NewFileArchive(dir string) *FileArchive {
	os.MkdirAll(dir, 0o755)
	return &FileArchive{dir: dir}
}

// Load reads persisted state. Absent files yield an empty state with
// default preferences; corrupt history lines are skipped.
func (a *FileArchive) Load() (chat.State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := chat.State{Preferences: chat.DefaultPreferences()}

	msgs, err := a.loadHistory()
	if err != nil {
		return st, err
	}
	st.Messages = msgs
	st.SelectedPlatform = a.loadPlatform()
	st.Preferences = a.loadPreferences()
	return st, nil
}

// Save rewrites all persisted state. An empty platform selection removes
// its file.
func (a *FileArchive) Save(st chat.State) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.createdAt.IsZero() {
		a.createdAt = time.Now()
	}

	if err := a.saveHistory(st.Messages); err != nil {
		return err
	}
	if err := a.savePlatform(st.SelectedPlatform); err != nil {
		return err
	}
	return a.savePreferences(st.Preferences)
}

// Clear removes every persisted file. The next Load yields an empty state.
func (a *FileArchive) Clear() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.createdAt = time.Time{}
	var firstErr error
	for _, name := range []string{historyFile, platformFile, prefsFile} {
		if err := os.Remove(filepath.Join(a.dir, name)); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// HasState reports whether any persisted state exists on disk. A fresh
// profile has none.
func (a *FileArchive) HasState() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, name := range []string{historyFile, platformFile, prefsFile} {
		if _, err := os.Stat(filepath.Join(a.dir, name)); err == nil {
			return true
		}
	}
	return false
}

func (a *FileArchive) loadHistory() ([]chat.Message, error) {
	f, err := os.Open(filepath.Join(a.dir, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open chat history: %w", err)
	}
	defer f.Close()

	var msgs []chat.Message
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB buffer
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			continue
		}
		if raw["_type"] == "metadata" {
			if ts, ok := raw["created_at"].(string); ok {
				a.createdAt, _ = time.Parse(time.RFC3339, ts)
			}
			continue
		}
		var msg chat.Message
		if json.Unmarshal([]byte(line), &msg) != nil || msg.ID == "" {
			continue
		}
		msgs = append(msgs, msg)
	}
	if err := scanner.Err(); err != nil {
		return msgs, fmt.Errorf("read chat history: %w", err)
	}
	return msgs, nil
}

func (a *FileArchive) saveHistory(msgs []chat.Message) error {
	f, err := os.Create(filepath.Join(a.dir, historyFile))
	if err != nil {
		return fmt.Errorf("create chat history: %w", err)
	}
	defer f.Close()

	// Metadata line
	meta := map[string]any{
		"_type":      "metadata",
		"created_at": a.createdAt.Format(time.RFC3339),
		"updated_at": time.Now().Format(time.RFC3339),
	}
	metaJSON, _ := json.Marshal(meta)
	f.Write(metaJSON)
	f.WriteString("\n")

	for _, msg := range msgs {
		line, _ := json.Marshal(msg)
		f.Write(line)
		f.WriteString("\n")
	}
	return nil
}

func (a *FileArchive) loadPlatform() chat.Platform {
	data, err := os.ReadFile(filepath.Join(a.dir, platformFile))
	if err != nil {
		return ""
	}
	var s string
	if json.Unmarshal(data, &s) != nil {
		return ""
	}
	p, ok := chat.ParsePlatform(s)
	if !ok {
		return ""
	}
	return p
}

func (a *FileArchive) savePlatform(p chat.Platform) error {
	path := filepath.Join(a.dir, platformFile)
	if p == "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	data, _ := json.Marshal(string(p))
	return os.WriteFile(path, data, 0o644)
}

func (a *FileArchive) loadPreferences() chat.Preferences {
	data, err := os.ReadFile(filepath.Join(a.dir, prefsFile))
	if err != nil {
		return chat.DefaultPreferences()
	}
	var p chat.Preferences
	if json.Unmarshal(data, &p) != nil {
		return chat.DefaultPreferences()
	}
	return p
}

func (a *FileArchive) savePreferences(p chat.Preferences) error {
	data, _ := json.MarshalIndent(p, "", "  ")
	return os.WriteFile(filepath.Join(a.dir, prefsFile), data, 0o644)
}
