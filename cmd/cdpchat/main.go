package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cdpchat/cdpchat/internal/bus"
	"github.com/cdpchat/cdpchat/internal/channel"
	"github.com/cdpchat/cdpchat/internal/chat"
	"github.com/cdpchat/cdpchat/internal/cli"
	"github.com/cdpchat/cdpchat/internal/config"
	"github.com/cdpchat/cdpchat/internal/gateway"
	"github.com/cdpchat/cdpchat/internal/heartbeat"
	"github.com/cdpchat/cdpchat/internal/history"
	"github.com/cdpchat/cdpchat/internal/kb"
	"github.com/cdpchat/cdpchat/internal/logging"
	"github.com/cdpchat/cdpchat/internal/refresh"
)

func main() {
	cmd := "chat"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "chat":
		cmdChat()
	case "serve":
		cmdServe()
	case "gateway":
		cmdGateway()
	case "status":
		cmdStatus()
	case "onboard":
		cli.RunOnboard()
	case "export":
		cmdExport()
	case "version", "--version", "-v":
		fmt.Println(cli.TitleStyle.Render(
			fmt.Sprintf("  %s cdpchat v%s", cli.Logo, cli.Version),
		))
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	dim := cli.DimStyle.Render
	fmt.Println()
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("  %s cdpchat", cli.Logo)) + dim(" — CDP Support Chat"))
	fmt.Println()
	fmt.Println("  " + cli.BoldStyle.Render("Usage"))
	fmt.Println()
	fmt.Printf("    cdpchat %-14s %s\n", "chat", dim("Interactive chat (default)"))
	fmt.Printf("    cdpchat %-14s %s\n", "chat --local", dim("Chat against the built-in knowledge base"))
	fmt.Printf("    cdpchat %-14s %s\n", "serve", dim("Run the answer service"))
	fmt.Printf("    cdpchat %-14s %s\n", "gateway", dim("Run the Discord gateway"))
	fmt.Printf("    cdpchat %-14s %s\n", "status", dim("Show configuration"))
	fmt.Printf("    cdpchat %-14s %s\n", "onboard", dim("Initialize setup"))
	fmt.Printf("    cdpchat %-14s %s\n", "export", dim("Write the chat transcript"))
	fmt.Printf("    cdpchat %-14s %s\n", "version", dim("Show version"))
	fmt.Println()
}

// --- chat command ---

func cmdChat() {
	cfg := mustLoadConfig()

	// The TUI owns the terminal; logs go to a file.
	logFile := cfg.Log.FilePath(filepath.Join(config.DataDir(), "cdpchat.log"))
	logging.SetupFile(logFile, logging.ParseLevel(cfg.Log.Level))

	archive := history.NewFileArchive(config.DataDir())
	store := chat.NewStore(archive)

	// Config values seed a fresh profile only; persisted state wins.
	fresh := !archive.HasState()
	store.Restore()
	if fresh {
		store.SetPreferences(chat.Preferences{
			AutoScroll:    cfg.Chat.Preferences.AutoScroll,
			Notifications: cfg.Chat.Preferences.Notifications,
		})
	}
	if store.SelectedPlatform() == "" && cfg.Chat.Platform != "" {
		if p, ok := chat.ParsePlatform(cfg.Chat.Platform); ok {
			store.SetPlatform(p)
		}
	}

	var answerer chat.Answerer
	endpoint := cfg.Server.BaseURL()
	if hasFlag("--local", "-local") {
		answerer = kb.NewEngine(nil)
		endpoint = "built-in"
	} else {
		answerer = kb.NewClient(cfg.Server.BaseURL(), cfg.Server.Timeout())
	}

	ctrl := chat.NewController(store, answerer, cfg.Chat.ReplyDelay())
	resets := bus.NewResetNotifier()

	err := cli.RunChat(context.Background(), store, ctrl, resets, cli.ChatConfig{
		Endpoint:  endpoint,
		ExportDir: mustWorkDir(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// --- serve command ---

func cmdServe() {
	cfg := mustLoadConfig()
	logging.Setup(os.Stderr, logging.ParseLevel(cfg.Log.Level), true)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	index := kb.NewDocIndex()
	engine := kb.NewEngine(index)
	fetcher := kb.NewFetcher(cfg.Server.Timeout())

	if cfg.KB.Docs.StartupFetch {
		go fetcher.RefreshAll(ctx, index)
	}
	if expr := cfg.KB.Docs.RefreshCron; expr != "" {
		sched := refresh.NewScheduler(expr, func(ctx context.Context) {
			fetcher.RefreshAll(ctx, index)
		})
		go sched.Run(ctx)
	}

	if err := kb.NewServer(engine, cfg.KB.CORSOrigins).Run(ctx, cfg.KB.Listen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// --- gateway command ---

func cmdGateway() {
	cfg := mustLoadConfig()
	logging.Setup(os.Stderr, logging.ParseLevel(cfg.Log.Level), true)

	fmt.Println()
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("  %s cdpchat Gateway", cli.Logo)))
	fmt.Println()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	msgBus := bus.NewMessageBus()
	client := kb.NewClient(cfg.Server.BaseURL(), cfg.Server.Timeout())

	fallback, _ := chat.ParsePlatform(cfg.Chat.Platform)
	responder := gateway.NewResponder(msgBus, client, fallback)

	var discord *channel.Discord
	if cfg.Channels.Discord.Enabled {
		discord = channel.NewDiscord(cfg.Channels.Discord, msgBus)
		msgBus.Subscribe("discord", func(ctx context.Context, msg *bus.OutboundMessage) error {
			return discord.Send(ctx, msg)
		})
		fmt.Println("  " + cli.OkStyle.Render("✓") + " Discord")
	} else {
		fmt.Println("  " + cli.DimStyle.Render("✗") + " Discord " + cli.DimStyle.Render("(not enabled)"))
	}
	fmt.Println()

	go msgBus.DispatchOutbound(ctx)
	go responder.Run(ctx)

	if cfg.Heartbeat.Enabled {
		hb := heartbeat.NewService(cfg.Heartbeat.Interval(), client.Health)
		go hb.Run(ctx)
	}

	if discord != nil {
		go func() {
			if err := discord.Start(ctx); err != nil && ctx.Err() == nil {
				slog.Error("Discord channel error", "err", err)
			}
		}()
	}

	fmt.Println(cli.DimStyle.Render("  Press Ctrl+C to stop"))
	<-ctx.Done()
	fmt.Println("\n  Shutting down...")
	if discord != nil {
		discord.Stop()
	}
}

// --- status command ---

func cmdStatus() {
	cfg, _ := config.Load()
	cli.RunStatus(cfg)
}

// --- export command ---

func cmdExport() {
	archive := history.NewFileArchive(config.DataDir())
	state, err := archive.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if len(state.Messages) == 0 {
		fmt.Println(cli.DimStyle.Render("  No chat history to export"))
		return
	}

	path, err := history.ExportTranscript(mustWorkDir(), state.Messages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	fmt.Println("  " + cli.OkStyle.Render("✓") + " Transcript saved to " + cli.DimStyle.Render(path))
}

// --- helpers ---

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
	}
	return cfg
}

func mustWorkDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return config.DataDir()
	}
	return wd
}

func hasFlag(names ...string) bool {
	for _, arg := range os.Args[2:] {
		for _, n := range names {
			if arg == n {
				return true
			}
		}
	}
	return false
}
