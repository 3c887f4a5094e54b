package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/corey/tally/internal/app"
	"github.com/spf13/cobra"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: "Shows project root, resolved paths and the effective settings (config file plus flags).\n" +
		"With --init, writes the defaults to .tally/config.yaml; global flags given alongside\n" +
		"(--alphabet, --strict, --no-fold, --workers) are written in place of the defaults they override.",
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the default settings, with any global flag overrides, to .tally/config.yaml")
}

func runConfig(cmd *cobra.Command, args []string) error {
	paths, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if configInit {
		if _, err := os.Stat(paths.Config); err == nil {
			return fmt.Errorf("%s already exists", paths.Config)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := paths.EnsureDirs(); err != nil {
			return err
		}
		if err := app.SaveConfig(paths.Config, cfg); err != nil {
			return err
		}
		fmt.Printf("⚡ wrote %s\n", paths.Config)
		return nil
	}

	configStatus := fmt.Sprintf("%s✗ defaults%s", colorYellow, colorReset)
	if _, err := os.Stat(paths.Config); err == nil {
		configStatus = fmt.Sprintf("%s✓ %s%s", colorGreen, paths.Config, colorReset)
	}

	fmt.Printf("%s⚡ tally config%s\n", colorBold, colorReset)
	fmt.Printf("  Root:       %s\n", paths.Root)
	fmt.Printf("  DB:         %s\n", paths.DB)
	fmt.Printf("  Log:        %s\n", paths.WatchLog)
	fmt.Printf("  Config:     %s\n", configStatus)
	fmt.Printf("  Alphabet:   %s (%d symbols)\n", cfg.Alphabet, len(cfg.Alphabet))
	fmt.Printf("  Case fold:  %t\n", cfg.CaseFold)
	fmt.Printf("  Strict:     %t\n", cfg.Strict)
	fmt.Printf("  Workers:    %d\n", cfg.Workers)
	fmt.Printf("  DB timeout: %s\n", cfg.DBTimeout)
	return nil
}
