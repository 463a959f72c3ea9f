package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// envDiscordToken overrides channels.discord.token so the secret can stay
// out of the config file.
const envDiscordToken = "CDPCHAT_DISCORD_TOKEN"

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(homeDir(), ".cdpchat", "config.json")
}

// DataDir returns the cdpchat data directory, creating it if needed.
func DataDir() string {
	dir := filepath.Join(homeDir(), ".cdpchat")
	os.MkdirAll(dir, 0o755)
	return dir
}

// Load reads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads configuration from a specific path. The returned Config
// is always usable; on error it carries the defaults merged with whatever
// could be applied.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	// Parse into a generic map first so snake_case keys from hand-edited
	// files still land on the camelCase struct tags.
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	converted, _ := convertKeys(raw).(map[string]any)

	for _, key := range CheckUnknownFields(converted) {
		slog.Warn("unknown config key", "key", key)
	}

	reData, _ := json.Marshal(converted)
	if err := json.Unmarshal(reData, cfg); err != nil {
		return cfg, fmt.Errorf("apply config: %w", err)
	}

	// Backstop values that must never be empty.
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "dev"
	}
	if cfg.Server.DevURL == "" {
		cfg.Server.DevURL = "http://localhost:8000"
	}
	if cfg.Server.TimeoutSeconds <= 0 {
		cfg.Server.TimeoutSeconds = 30
	}
	if cfg.KB.Listen == "" {
		cfg.KB.Listen = ":8000"
	}
	if cfg.Heartbeat.IntervalMinutes <= 0 {
		cfg.Heartbeat.IntervalMinutes = 5
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if token := os.Getenv(envDiscordToken); token != "" {
		cfg.Channels.Discord.Token = token
	}
}

// Save writes configuration to the default path.
func Save(cfg *Config) error {
	return SaveTo(cfg, ConfigPath())
}

// SaveTo writes configuration to a specific path.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Upgrade reloads the config file and rewrites it, normalizing key style
// and adding fields introduced since it was written. User values win.
func Upgrade() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// convertKeys rewrites snake_case map keys to camelCase recursively, so
// both key styles unmarshal onto the struct tags.
func convertKeys(data any) any {
	switch v := data.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, val := range v {
			result[snakeToCamel(k)] = convertKeys(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = convertKeys(item)
		}
		return result
	default:
		return data
	}
}

func snakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp"
	}
	return home
}
