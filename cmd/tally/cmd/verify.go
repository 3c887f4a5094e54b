package cmd

import (
	"fmt"

	"github.com/corey/tally/internal/adapters/ahocorasick"
	"github.com/spf13/cobra"
)

var (
	verifyPatterns []string
	verifyVocab    string
)

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] FILE...",
	Short: "Cross-check counts against an independent matcher",
	Long: "Counts the files with tally's automaton and with a reference Aho-Corasick implementation\n" +
		"and compares every pattern. Exits 1 if any count differs.",
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringArrayVarP(&verifyPatterns, "pattern", "p", nil, "Pattern to check (repeatable)")
	verifyCmd.Flags().StringVarP(&verifyVocab, "vocab", "v", "", "Stored vocabulary to check")
}

func runVerify(cmd *cobra.Command, args []string) error {
	paths, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	counter, err := resolveCounter(paths, cfg, verifyVocab, verifyPatterns)
	if err != nil {
		return err
	}

	ref := ahocorasick.NewReference(counter.Patterns(), counter.Alphabet().CaseFolding())
	v, err := counter.Verify(ref, args)
	if err != nil {
		return err
	}

	fmt.Print(formatVerification(v))
	if !v.OK() {
		return exitError{code: 1, msg: fmt.Sprintf("verify: %s disagree", plural(len(v.Mismatches), "pattern"))}
	}
	return nil
}
