package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cdpchat/cdpchat/internal/config"
	"github.com/cdpchat/cdpchat/internal/kb"
)

// RunStatus displays configuration, saved history, and answer-service
// reachability with styled output.
func RunStatus(cfg *config.Config) {
	cfgPath := config.ConfigPath()
	dataDir := config.DataDir()

	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("  %s cdpchat Status", Logo)))
	fmt.Println()

	fmt.Printf("  %-12s %s  %s\n", "Config", StatusBadge(fileExists(cfgPath)), DimStyle.Render(cfgPath))

	historyPath := filepath.Join(dataDir, "chatHistory.jsonl")
	fmt.Printf("  %-12s %s  %s\n", "History", StatusBadge(fileExists(historyPath)), DimStyle.Render(historyPath))

	fmt.Printf("  %-12s %s %s\n", "Endpoint", cfg.Server.BaseURL(), DimStyle.Render("("+cfg.Server.Mode+")"))
	if cfg.Chat.Platform != "" {
		fmt.Printf("  %-12s %s\n", "Platform", cfg.Chat.Platform)
	}
	fmt.Println()

	fmt.Println("  " + BoldStyle.Render("Answer service"))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := kb.NewClient(cfg.Server.BaseURL(), cfg.Server.Timeout()).Health(ctx)
	if err != nil {
		fmt.Printf("    %s  unreachable %s\n", StatusBadge(false), DimStyle.Render(err.Error()))
	} else {
		fmt.Printf("    %s  healthy\n", StatusBadge(true))
	}
	fmt.Println()

	fmt.Println("  " + BoldStyle.Render("Channels"))
	fmt.Printf("    %s  Discord\n", StatusBadge(cfg.Channels.Discord.Enabled))
	fmt.Println()

	fmt.Println("  " + BoldStyle.Render("Documentation"))
	fmt.Printf("    %s  startup fetch\n", StatusBadge(cfg.KB.Docs.StartupFetch))
	if cfg.KB.Docs.RefreshCron != "" {
		fmt.Printf("    %s  refresh %s\n", StatusBadge(true), DimStyle.Render(cfg.KB.Docs.RefreshCron))
	} else {
		fmt.Printf("    %s  refresh %s\n", StatusBadge(false), DimStyle.Render("(not scheduled)"))
	}
	fmt.Println()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
