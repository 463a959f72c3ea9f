package channel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/cdpchat/cdpchat/internal/bus"
	"github.com/cdpchat/cdpchat/internal/config"
)

// Discord bridges Discord onto the message bus. The discordgo session
// handles gateway heartbeats and reconnects itself.
type Discord struct {
	cfg     config.DiscordConfig
	bus     *bus.MessageBus
	session *discordgo.Session

	typingMu     sync.Mutex
	typingCancel map[string]context.CancelFunc
}

// NewDiscord creates a new Discord channel.
func NewDiscord(cfg config.DiscordConfig, b *bus.MessageBus) *Discord {
	return &Discord{
		cfg:          cfg,
		bus:          b,
		typingCancel: make(map[string]context.CancelFunc),
	}
}

func (d *Discord) Name() string { return "discord" }

// Start opens the gateway session and blocks until ctx is cancelled.
func (d *Discord) Start(ctx context.Context) error {
	if d.cfg.Token == "" {
		return fmt.Errorf("discord bot token not configured")
	}

	session, err := discordgo.New("Bot " + d.cfg.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent

	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Discord gateway ready", "user", r.User.Username)
	})
	session.AddHandler(d.onMessageCreate)

	d.session = session
	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}

	<-ctx.Done()
	return ctx.Err()
}

// Stop closes the gateway session.
func (d *Discord) Stop() error {
	d.typingMu.Lock()
	for _, cancel := range d.typingCancel {
		cancel()
	}
	d.typingCancel = make(map[string]context.CancelFunc)
	d.typingMu.Unlock()

	if d.session != nil {
		return d.session.Close()
	}
	return nil
}

// Send delivers a reply, referencing the asking message when known.
func (d *Discord) Send(_ context.Context, msg *bus.OutboundMessage) error {
	defer d.stopTyping(msg.ChatID)

	if d.session == nil {
		return fmt.Errorf("discord session not started")
	}

	send := &discordgo.MessageSend{Content: msg.Content}
	if msg.ReplyTo != "" {
		send.Reference = &discordgo.MessageReference{
			MessageID: msg.ReplyTo,
			ChannelID: msg.ChatID,
		}
		send.AllowedMentions = &discordgo.MessageAllowedMentions{RepliedUser: false}
	}

	if _, err := d.session.ChannelMessageSendComplex(msg.ChatID, send); err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

func (d *Discord) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	if m.Author.ID == "" || m.ChannelID == "" {
		return
	}
	if !IsAllowed(m.Author.ID, d.cfg.AllowFrom) {
		return
	}

	content := m.Content
	if content == "" {
		content = "[empty message]"
	}

	d.startTyping(m.ChannelID)

	d.bus.PublishInbound(&bus.InboundMessage{
		Channel:   "discord",
		SenderID:  m.Author.ID,
		ChatID:    m.ChannelID,
		MessageID: m.ID,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// startTyping keeps the typing indicator alive until the reply goes out.
func (d *Discord) startTyping(channelID string) {
	d.stopTyping(channelID)

	typingCtx, cancel := context.WithCancel(context.Background())
	d.typingMu.Lock()
	d.typingCancel[channelID] = cancel
	d.typingMu.Unlock()

	go func() {
		for {
			d.session.ChannelTyping(channelID)

			select {
			case <-typingCtx.Done():
				return
			case <-time.After(8 * time.Second):
			}
		}
	}()
}

func (d *Discord) stopTyping(channelID string) {
	d.typingMu.Lock()
	defer d.typingMu.Unlock()
	if cancel, ok := d.typingCancel[channelID]; ok {
		cancel()
		delete(d.typingCancel, channelID)
	}
}
