package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/cdpchat/cdpchat/internal/chat"
)

// Validate checks the configuration for invalid or missing values.
func (c *Config) Validate() error {
	if errs := c.validate(); len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c *Config) validate() []string {
	var errs []string

	switch c.Server.Mode {
	case "", "dev", "prod":
	default:
		errs = append(errs, fmt.Sprintf("server.mode %q must be dev or prod", c.Server.Mode))
	}
	if c.Server.Mode == "prod" && c.Server.ProdURL == "" {
		errs = append(errs, "server.prodUrl is required when server.mode is prod")
	}
	if c.Server.TimeoutSeconds < 0 {
		errs = append(errs, "server.timeoutSeconds must be non-negative")
	}

	if c.Chat.ReplyDelayMs < 0 {
		errs = append(errs, "chat.replyDelayMs must be non-negative")
	}
	if c.Chat.Platform != "" {
		if _, ok := chat.ParsePlatform(c.Chat.Platform); !ok {
			errs = append(errs, fmt.Sprintf("chat.platform %q is not a known platform", c.Chat.Platform))
		}
	}

	dc := c.Channels.Discord
	if dc.Enabled && dc.Token == "" {
		errs = append(errs, "channels.discord.token is required when discord is enabled")
	}

	if expr := c.KB.Docs.RefreshCron; expr != "" && len(strings.Fields(expr)) != 5 {
		errs = append(errs, fmt.Sprintf("kb.docs.refreshCron %q must have 5 fields", expr))
	}

	if c.Heartbeat.Enabled && c.Heartbeat.IntervalMinutes <= 0 {
		errs = append(errs, "heartbeat.intervalMinutes must be positive when enabled")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}

	return errs
}

// CheckUnknownFields walks the raw config map and returns paths of any keys
// that do not correspond to known Config struct fields.
func CheckUnknownFields(raw map[string]any) []string {
	result := checkUnknownFields(raw, reflect.TypeOf(Config{}), "")
	sort.Strings(result)
	return result
}

func checkUnknownFields(data map[string]any, t reflect.Type, prefix string) []string {
	if t.Kind() != reflect.Struct {
		return nil
	}

	known := jsonFieldMap(t)
	var unknown []string
	for key, val := range data {
		ft, ok := known[key]
		if !ok {
			unknown = append(unknown, joinPath(prefix, key))
			continue
		}
		if nested, ok := val.(map[string]any); ok {
			unknown = append(unknown, checkUnknownFields(nested, ft, joinPath(prefix, key))...)
		}
	}
	return unknown
}

func jsonFieldMap(t reflect.Type) map[string]reflect.Type {
	m := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name != "" {
			m[name] = f.Type
		}
	}
	return m
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
