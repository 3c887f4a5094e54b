package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/tally/internal/adapters/bbolt"
	"github.com/corey/tally/internal/adapters/fsnotify"
	"github.com/corey/tally/internal/app"
	"github.com/corey/tally/internal/ports"
	"github.com/spf13/cobra"
)

var (
	watchPatterns []string
	watchVocab    string
	watchSave     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] FILE...",
	Short: "Keep counts live while files change",
	Long: "Counts the files, then rescans each file whenever it is written, created or removed\n" +
		"and prints the new totals. Runs until interrupted. Events go to .tally/log/watch.log.",
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringArrayVarP(&watchPatterns, "pattern", "p", nil, "Pattern to count (repeatable)")
	watchCmd.Flags().StringVarP(&watchVocab, "vocab", "v", "", "Stored vocabulary to count")
	watchCmd.Flags().BoolVar(&watchSave, "save", false, "Store every update as the vocabulary's report")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchSave && watchVocab == "" {
		return fmt.Errorf("--save needs --vocab")
	}
	paths, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	counter, err := resolveCounter(paths, cfg, watchVocab, watchPatterns)
	if err != nil {
		return err
	}

	if err := paths.EnsureDirs(); err != nil {
		return err
	}
	logFile, err := os.OpenFile(paths.WatchLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, nil))

	var store *bbolt.Store
	if watchSave {
		if store, err = openStore(paths, cfg); err != nil {
			return err
		}
		defer store.Close()
	}

	onUpdate := func(r *ports.Report) {
		fmt.Print(formatUpdate(r))
		if store == nil {
			return
		}
		if err := store.SaveReport(watchVocab, r); err != nil {
			fmt.Fprintf(os.Stderr, "warning: save report: %v\n", err)
			logger.Error("save report failed", "vocabulary", watchVocab, "err", err)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	w := app.NewWatch(counter, fw, logger, onUpdate)
	if err := w.Start(args); err != nil {
		fw.Stop()
		return err
	}
	fmt.Printf("%s⚡ watching %s%s — Ctrl-C to stop\n", colorBold, plural(len(args), "file"), colorReset)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\n⚡ stopping...")
	logger.Info("stopped")
	return w.Stop()
}
