package config

import "time"

// Config is the root configuration for cdpchat.
type Config struct {
	Server    ServerConfig    `json:"server"`
	Chat      ChatConfig      `json:"chat"`
	Channels  ChannelsConfig  `json:"channels"`
	KB        KBConfig        `json:"kb"`
	Heartbeat HeartbeatConfig `json:"heartbeat"`
	Log       LogConfig       `json:"log"`
}

// ServerConfig selects which answer service deployment clients talk to.
type ServerConfig struct {
	Mode           string `json:"mode"`
	ProdURL        string `json:"prodUrl"`
	DevURL         string `json:"devUrl"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// BaseURL returns the endpoint for the selected mode.
func (s ServerConfig) BaseURL() string {
	if s.Mode == "prod" && s.ProdURL != "" {
		return s.ProdURL
	}
	return s.DevURL
}

// Timeout returns the per-request timeout.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ChatConfig holds interactive chat settings.
type ChatConfig struct {
	Platform     string            `json:"platform"`
	ReplyDelayMs int               `json:"replyDelayMs"`
	Preferences  PreferencesConfig `json:"preferences"`
}

// ReplyDelay returns the pause before a resolved reply appears, giving the
// conversation a natural rhythm. Zero shows replies immediately.
func (c ChatConfig) ReplyDelay() time.Duration {
	return time.Duration(c.ReplyDelayMs) * time.Millisecond
}

// PreferencesConfig seeds chat preferences for a fresh profile. Once the
// chat stores its own preferences those win.
type PreferencesConfig struct {
	AutoScroll    bool `json:"autoScroll"`
	Notifications bool `json:"notifications"`
}

// ChannelsConfig holds all channel configurations.
type ChannelsConfig struct {
	Discord DiscordConfig `json:"discord"`
}

// DiscordConfig holds Discord channel settings.
type DiscordConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom"`
}

// KBConfig holds answer service settings for serve mode.
type KBConfig struct {
	Listen      string     `json:"listen"`
	CORSOrigins []string   `json:"corsOrigins"`
	Docs        DocsConfig `json:"docs"`
}

// DocsConfig controls the documentation index.
type DocsConfig struct {
	StartupFetch bool   `json:"startupFetch"`
	RefreshCron  string `json:"refreshCron"`
}

// HeartbeatConfig holds availability probe settings for gateway mode.
type HeartbeatConfig struct {
	Enabled         bool `json:"enabled"`
	IntervalMinutes int  `json:"intervalMinutes"`
}

// Interval returns the probe interval.
func (h HeartbeatConfig) Interval() time.Duration {
	return time.Duration(h.IntervalMinutes) * time.Minute
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// FilePath returns the configured log file, or fallback when none is set.
func (l LogConfig) FilePath(fallback string) string {
	if l.File != "" {
		return l.File
	}
	return fallback
}

// DefaultConfig returns a Config with sensible defaults: a local answer
// service and the browser origins it historically served.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Mode:           "dev",
			DevURL:         "http://localhost:8000",
			TimeoutSeconds: 30,
		},
		Chat: ChatConfig{
			ReplyDelayMs: 600,
			Preferences:  PreferencesConfig{AutoScroll: true, Notifications: true},
		},
		KB: KBConfig{
			Listen: ":8000",
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://localhost:5174",
				"http://localhost:5175",
				"http://localhost:5176",
				"http://localhost:5177",
				"http://localhost:5178",
				"https://cdpchat.github.io",
			},
			Docs: DocsConfig{StartupFetch: true, RefreshCron: "0 3 * * *"},
		},
		Heartbeat: HeartbeatConfig{Enabled: true, IntervalMinutes: 5},
		Log:       LogConfig{Level: "info"},
	}
}
