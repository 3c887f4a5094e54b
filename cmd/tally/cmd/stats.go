package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	statsPatterns []string
	statsVocab    string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the size of a compiled vocabulary",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringArrayVarP(&statsPatterns, "pattern", "p", nil, "Pattern to compile (repeatable)")
	statsCmd.Flags().StringVarP(&statsVocab, "vocab", "v", "", "Stored vocabulary to compile")
}

func runStats(cmd *cobra.Command, args []string) error {
	paths, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	counter, err := resolveCounter(paths, cfg, statsVocab, statsPatterns)
	if err != nil {
		return err
	}
	fmt.Print(formatStats(counter.Name(), counter.Stats()))
	return nil
}
