package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/corey/tally/internal/app"
	"github.com/spf13/cobra"
)

var vocabFile string

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Manage stored vocabularies",
}

var vocabAddCmd = &cobra.Command{
	Use:   "add NAME [PATTERN...]",
	Short: "Store a vocabulary",
	Long: "Stores the patterns under NAME, replacing any previous list and its report.\n" +
		"Patterns come from the arguments or from --file (one per line, '#' comments; '-' reads stdin).\n" +
		"Blank lines in --file are skipped; to add the empty pattern, which counts every scanned\n" +
		"letter, pass \"\" as an argument.",
	Args: cobra.MinimumNArgs(1),
	RunE: runVocabAdd,
}

var vocabListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored vocabularies",
	Args:  cobra.NoArgs,
	RunE:  runVocabList,
}

var vocabShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show the patterns of a vocabulary",
	Args:  cobra.ExactArgs(1),
	RunE:  runVocabShow,
}

var vocabRmCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Delete a vocabulary and its report",
	Args:  cobra.ExactArgs(1),
	RunE:  runVocabRm,
}

func init() {
	vocabAddCmd.Flags().StringVarP(&vocabFile, "file", "f", "", "Read patterns from a file, '-' for stdin")

	vocabCmd.AddCommand(vocabAddCmd)
	vocabCmd.AddCommand(vocabListCmd)
	vocabCmd.AddCommand(vocabShowCmd)
	vocabCmd.AddCommand(vocabRmCmd)
}

func runVocabAdd(cmd *cobra.Command, args []string) error {
	name, patterns := args[0], args[1:]
	if vocabFile != "" {
		more, err := readPatternFile(vocabFile)
		if err != nil {
			return err
		}
		patterns = append(patterns, more...)
	}
	if len(patterns) == 0 {
		return fmt.Errorf("no patterns: pass them as arguments or with --file")
	}

	paths, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(paths, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := app.AddVocabulary(store, cfg, name, patterns); err != nil {
		return err
	}
	fmt.Printf("⚡ stored %s (%s)\n", name, plural(len(patterns), "pattern"))
	return nil
}

func readPatternFile(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return app.ReadPatterns(r)
}

func runVocabList(cmd *cobra.Command, args []string) error {
	paths, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(paths, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := store.ListVocabularies()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("⚡ no vocabularies — add one with: tally vocab add NAME PATTERN...")
		return nil
	}
	for _, name := range names {
		patterns, err := store.LoadVocabulary(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %s%s%s  %s%s%s\n", colorCyan, name, colorReset, colorGray, plural(len(patterns), "pattern"), colorReset)
	}
	return nil
}

func runVocabShow(cmd *cobra.Command, args []string) error {
	paths, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(paths, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	patterns, err := store.LoadVocabulary(args[0])
	if err != nil {
		return err
	}
	if patterns == nil {
		return fmt.Errorf("%q: %w", args[0], app.ErrVocabularyNotFound)
	}
	fmt.Print(formatVocab(args[0], patterns))
	return nil
}

func runVocabRm(cmd *cobra.Command, args []string) error {
	paths, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(paths, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteVocabulary(args[0]); err != nil {
		return err
	}
	fmt.Printf("⚡ removed %s\n", args[0])
	return nil
}
