package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cdpchat/cdpchat/internal/chat"
)

// Transcript renders messages as a flat text transcript, one
// "Speaker (timestamp): content" entry per message in insertion order.
func Transcript(msgs []chat.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		fmt.Fprintf(&b, "%s (%s): %s\n", m.Speaker(), m.Timestamp.Format("2006-01-02 15:04:05"), m.Content)
	}
	return b.String()
}

// ExportTranscript writes the transcript to a timestamped text file in dir
// and returns its path.
func ExportTranscript(dir string, msgs []chat.Message) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("cdpchat-transcript-%s.txt", time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(Transcript(msgs)), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}
