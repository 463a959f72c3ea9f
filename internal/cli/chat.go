package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cdpchat/cdpchat/internal/bus"
	"github.com/cdpchat/cdpchat/internal/chat"
	"github.com/cdpchat/cdpchat/internal/history"
)

const toastDuration = 4 * time.Second

// --- message types ---

// deliveryMsg carries the terminal outcome of one send back onto the
// update loop, where all store mutation happens.
type deliveryMsg struct {
	delivery chat.Delivery
}

// replyMsg appends a delayed bot reply.
type replyMsg struct {
	gen   uint64
	reply chat.Message
}

type toastExpireMsg struct {
	seq int
}

// resetMsg is the clear-chat broadcast arriving at the panel.
type resetMsg struct{}

// --- chat config ---

// ChatConfig holds display and behavior settings for the chat TUI.
type ChatConfig struct {
	Endpoint  string // status bar label: endpoint or "built-in"
	ExportDir string
}

// --- interactive chat model ---

type chatModel struct {
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	store  *chat.Store
	ctrl   *chat.Controller
	resets *bus.ResetNotifier
	resetc <-chan struct{}
	ctx    context.Context

	inFlight int
	toast    string
	toastSeq int

	picking bool
	picker  selectModel

	ready    bool
	width    int
	height   int
	endpoint string
	exports  string
}

func newChatModel(ctx context.Context, store *chat.Store, ctrl *chat.Controller, resets *bus.ResetNotifier, cfg ChatConfig) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about your CDP..."
	ti.Focus()
	ti.CharLimit = 0
	ti.Prompt = "❯ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(Accent)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Accent)

	return chatModel{
		input:    ti,
		spinner:  sp,
		store:    store,
		ctrl:     ctrl,
		resets:   resets,
		resetc:   resets.Subscribe(),
		ctx:      ctx,
		endpoint: cfg.Endpoint,
		exports:  cfg.ExportDir,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink, m.waitForReset())
}

// waitForReset blocks on the broadcast channel and turns the signal into
// a bubbletea message.
func (m chatModel) waitForReset() tea.Cmd {
	ch := m.resetc
	return func() tea.Msg {
		<-ch
		return resetMsg{}
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// header(1) + divider(1) + viewport + divider(1) + input(1) + toast(1) + status(1)
		vpHeight := msg.Height - 6
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = msg.Width - 4
		m.viewport.SetContent(m.renderHistory())
		return m, nil

	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.sendInput()
		case tea.KeyCtrlP:
			m.picking = true
			m.picker = newSelectModel("Which CDP are you asking about?", platformChoices())
			return m, nil
		case tea.KeyCtrlL:
			// Header-level clear: broadcast so every panel resets itself.
			m.resets.Broadcast()
			return m, nil
		case tea.KeyCtrlE:
			return m.exportTranscript()
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case deliveryMsg:
		if m.inFlight > 0 {
			m.inFlight--
		}
		reply, notice := m.ctrl.Deliver(msg.delivery)
		var cmds []tea.Cmd
		if notice != "" {
			cmds = append(cmds, m.showToast(notice))
		}
		if reply != nil {
			gen := msg.delivery.Generation
			if delay := m.ctrl.ReplyDelay(); delay > 0 {
				r := *reply
				cmds = append(cmds, tea.Tick(delay, func(time.Time) tea.Msg {
					return replyMsg{gen: gen, reply: r}
				}))
			} else {
				m.ctrl.AppendReply(gen, *reply)
			}
		}
		m.refreshViewport()
		return m, tea.Batch(cmds...)

	case replyMsg:
		m.ctrl.AppendReply(msg.gen, msg.reply)
		m.refreshViewport()
		return m, nil

	case resetMsg:
		m.store.Clear()
		m.refreshViewport()
		return m, tea.Batch(m.showToast("Chat cleared"), m.waitForReset())

	case toastExpireMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.inFlight > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sendInput starts one request for the typed text. The input stays usable
// while earlier requests are in flight; each resolves independently.
func (m chatModel) sendInput() (tea.Model, tea.Cmd) {
	_, resolve, ok := m.ctrl.Send(m.ctx, m.input.Value())
	if !ok {
		return m, nil
	}
	m.input.SetValue("")
	m.inFlight++
	m.refreshViewport()
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return deliveryMsg{delivery: resolve()}
	})
}

func (m chatModel) updatePicker(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	updated, _ := m.picker.Update(key)
	m.picker = updated.(selectModel)
	if !m.picker.chosen {
		return m, nil
	}
	m.picking = false
	if !m.picker.canceled {
		if m.picker.cursor < len(chat.Platforms()) {
			m.store.SetPlatform(chat.Platforms()[m.picker.cursor])
		} else {
			m.store.SetPlatform("")
		}
	}
	m.refreshViewport()
	return m, nil
}

func (m chatModel) exportTranscript() (tea.Model, tea.Cmd) {
	msgs := m.store.Messages()
	if len(msgs) == 0 {
		return m, m.showToast("Nothing to export")
	}
	path, err := history.ExportTranscript(m.exports, msgs)
	if err != nil {
		return m, m.showToast("Export failed: " + err.Error())
	}
	return m, m.showToast("Transcript saved to " + path)
}

// showToast sets the transient notification line, honoring the
// notifications preference, and schedules its expiry.
func (m *chatModel) showToast(text string) tea.Cmd {
	if !m.store.Preferences().Notifications {
		return nil
	}
	m.toast = text
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpireMsg{seq: seq}
	})
}

func (m *chatModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	if m.store.Preferences().AutoScroll {
		m.viewport.GotoBottom()
	}
}

func (m chatModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	divider := DimStyle.Render(strings.Repeat("─", m.width))

	body := m.viewport.View()
	if m.picking {
		body = m.picker.View()
		if pad := m.viewport.Height - lipgloss.Height(body); pad > 0 {
			body += strings.Repeat("\n", pad)
		}
	}

	inputLine := " " + m.input.View()
	if m.inFlight > 0 {
		inputLine = fmt.Sprintf(" %s %s", m.spinner.View(), m.input.View())
	}

	toastLine := ""
	if m.toast != "" {
		toastLine = " " + ToastStyle.Render(m.toast)
	}

	return m.renderHeader() + "\n" +
		divider + "\n" +
		body + "\n" +
		divider + "\n" +
		inputLine + "\n" +
		toastLine + "\n" +
		m.renderStatusBar()
}

func (m chatModel) renderHeader() string {
	title := TitleStyle.Render(fmt.Sprintf(" %s cdpchat", Logo))
	if p := m.store.SelectedPlatform(); p != "" {
		title += DimStyle.Render(" · ") + BoldStyle.Render(p.String())
	}
	return title
}

func (m chatModel) renderHistory() string {
	msgs := m.store.Messages()
	if len(msgs) == 0 {
		return m.renderWelcome()
	}

	var sb strings.Builder
	for _, msg := range msgs {
		sb.WriteString("\n")
		label := BotLabel.Render("Assistant")
		if msg.IsUser {
			label = UserLabel.Render("You")
			if mark := StatusMark(msg.Status); mark != "" {
				label += " " + mark
			}
		}
		sb.WriteString("  " + label + " " + DimStyle.Render(msg.Timestamp.Format("15:04")) + "\n")
		for _, line := range strings.Split(msg.Content, "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}
	return sb.String()
}

func (m chatModel) renderWelcome() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  " + TitleStyle.Render("CDP Support Chat") + "\n\n")
	sb.WriteString("  Ask about Segment, mParticle, Lytics or Zeotap.\n\n")
	sb.WriteString(DimStyle.Render("  ctrl+p pick platform · ctrl+l clear chat · ctrl+e export · esc quit") + "\n")
	return sb.String()
}

func (m chatModel) renderStatusBar() string {
	platform := "no platform"
	if p := m.store.SelectedPlatform(); p != "" {
		platform = p.String()
	}
	left := DimStyle.Render(" " + platform)
	right := DimStyle.Render(m.endpoint + " ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func platformChoices() []string {
	choices := make([]string, 0, len(chat.Platforms())+1)
	for _, p := range chat.Platforms() {
		choices = append(choices, p.String())
	}
	return append(choices, "None — general questions")
}

// RunChat starts the interactive chat TUI.
func RunChat(ctx context.Context, store *chat.Store, ctrl *chat.Controller, resets *bus.ResetNotifier, cfg ChatConfig) error {
	m := newChatModel(ctx, store, ctrl, resets, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
