package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/cdpchat/cdpchat/internal/chat"
)

const Logo = "💬"
const Version = "0.1.0"

var (
	Accent = lipgloss.Color("#00D4FF")
	Subtle = lipgloss.Color("#555555")
	Green  = lipgloss.Color("#04B575")
	Red    = lipgloss.Color("#FF4444")

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	BoldStyle  = lipgloss.NewStyle().Bold(true)
	BotLabel   = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	UserLabel  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#AAAAAA"))
	ErrStyle   = lipgloss.NewStyle().Foreground(Red)
	OkStyle    = lipgloss.NewStyle().Foreground(Green).Bold(true)
	DimStyle   = lipgloss.NewStyle().Foreground(Subtle)
	ToastStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00"))
)

func StatusBadge(ok bool) string {
	if ok {
		return OkStyle.Render("✓")
	}
	return DimStyle.Render("✗")
}

// StatusMark renders the delivery tick shown next to a user message.
func StatusMark(s chat.Status) string {
	switch s {
	case chat.StatusSent:
		return DimStyle.Render("✓")
	case chat.StatusDelivered:
		return OkStyle.Render("✓✓")
	case chat.StatusError:
		return ErrStyle.Render("✗")
	}
	return ""
}
