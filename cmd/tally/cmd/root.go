package cmd

import (
	"fmt"
	"os"

	"github.com/corey/tally/internal/adapters/bbolt"
	"github.com/corey/tally/internal/app"
	"github.com/spf13/cobra"
)

var (
	flagAlphabet string
	flagStrict   bool
	flagNoFold   bool
	flagWorkers  int
	flagColor    string
)

var rootCmd = &cobra.Command{
	Use:           "tally",
	Short:         "tally — multi-pattern occurrence counter",
	Long:          "Counts every (overlapping) occurrence of each pattern of a vocabulary in texts and files.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !useColor(flagColor) {
			disableColor()
		}
	},
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagAlphabet, "alphabet", "", "Letters of the alphabet, in symbol order (overrides config)")
	pf.BoolVar(&flagStrict, "strict", false, "Reject bytes outside the alphabet instead of skipping them")
	pf.BoolVar(&flagNoFold, "no-fold", false, "Treat upper and lower case as different letters")
	pf.IntVar(&flagWorkers, "workers", 0, "Files scanned in parallel (overrides config)")
	pf.StringVar(&flagColor, "color", "auto", "Colorize output: auto, always, never")

	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads .tally/config.yaml and applies the global flags on top.
func loadConfig(cmd *cobra.Command) (*app.Paths, app.Config, error) {
	paths := app.NewPaths(projectRoot())
	cfg, err := app.LoadConfig(paths.Config)
	if err != nil {
		return nil, cfg, err
	}

	f := cmd.Flags()
	if f.Changed("alphabet") {
		cfg.Alphabet = flagAlphabet
	}
	if f.Changed("strict") {
		cfg.Strict = flagStrict
	}
	if f.Changed("no-fold") {
		cfg.CaseFold = !flagNoFold
	}
	if f.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if err := cfg.Validate(); err != nil {
		return nil, cfg, err
	}
	return paths, cfg, nil
}

// openStore opens .tally/tally.db, creating the directory on first use.
// Lock timeouts come back with guidance on finding the holder.
func openStore(paths *app.Paths, cfg app.Config) (*bbolt.Store, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s: %w", paths.Root, err)
	}
	store, err := bbolt.Open(paths.DB, cfg.DBTimeout)
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%w\n%s", err, diagnoseDBLock(paths))
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

// resolveCounter compiles either the ad-hoc patterns or the stored
// vocabulary. Exactly one of the two must be given.
func resolveCounter(paths *app.Paths, cfg app.Config, vocab string, patterns []string) (*app.Counter, error) {
	switch {
	case vocab != "" && len(patterns) > 0:
		return nil, fmt.Errorf("use either --vocab or --pattern, not both")
	case vocab != "":
		store, err := openStore(paths, cfg)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return app.LoadCounter(store, cfg, vocab)
	case len(patterns) > 0:
		return app.NewCounter(cfg, "", patterns)
	}
	return nil, fmt.Errorf("no patterns: pass --vocab NAME or --pattern PAT")
}
