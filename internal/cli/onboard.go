package cli

import (
	"fmt"
	"os"

	"github.com/cdpchat/cdpchat/internal/chat"
	"github.com/cdpchat/cdpchat/internal/config"
)

// RunOnboard runs the setup wizard: create or upgrade the config file,
// then pick the default platform and the answer-service endpoint mode.
func RunOnboard() {
	cfgPath := config.ConfigPath()
	var cfg *config.Config

	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("  %s cdpchat Onboard", Logo)))
	fmt.Println()

	if _, err := os.Stat(cfgPath); err == nil {
		choice, err := runSelect(
			fmt.Sprintf("Config already exists at %s", DimStyle.Render(cfgPath)),
			[]string{
				"Upgrade — add new fields, keep existing values",
				"Overwrite — replace with fresh defaults",
				"Skip — do not modify config",
			})
		if err != nil {
			fail(err)
		}

		switch choice {
		case 0:
			upgraded, err := config.Upgrade()
			if err != nil {
				fail(err)
			}
			cfg = upgraded
			fmt.Println("  " + OkStyle.Render("✓") + " Upgraded config")
		case 1:
			cfg = config.DefaultConfig()
			if err := config.Save(cfg); err != nil {
				fail(err)
			}
			fmt.Println("  " + OkStyle.Render("✓") + " Overwritten config")
		default:
			fmt.Println("  " + DimStyle.Render("Config unchanged"))
			cfg, _ = config.Load()
		}
	} else {
		cfg = config.DefaultConfig()
		fmt.Println("  " + OkStyle.Render("✓") + " Creating config at " + DimStyle.Render(cfgPath))
	}

	if choice, err := runSelect("Default platform", platformChoices()); err != nil {
		fail(err)
	} else if choice >= 0 && choice < len(chat.Platforms()) {
		cfg.Chat.Platform = chat.Platforms()[choice].String()
	} else {
		cfg.Chat.Platform = ""
	}

	if choice, err := runSelect("Answer service", []string{
		"dev — local answer service (cdpchat serve)",
		"prod — hosted endpoint",
	}); err != nil {
		fail(err)
	} else if choice == 1 {
		cfg.Server.Mode = "prod"
	} else {
		cfg.Server.Mode = "dev"
	}

	if err := config.Save(cfg); err != nil {
		fail(err)
	}

	fmt.Println()
	fmt.Println(OkStyle.Render("  cdpchat is ready!"))
	fmt.Println()
	fmt.Println(DimStyle.Render("  Next steps:"))
	fmt.Println(DimStyle.Render("  1. Start the answer service: cdpchat serve"))
	fmt.Println(DimStyle.Render("  2. Chat: cdpchat chat"))
	if cfg.Server.Mode == "prod" {
		fmt.Println(DimStyle.Render("  3. Set server.prodUrl in " + cfgPath))
	}
	fmt.Println()
}

func fail(err error) {
	fmt.Println("  " + ErrStyle.Render("Error: "+err.Error()))
	os.Exit(1)
}
