package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/corey/tally/internal/ports"
	"github.com/spf13/cobra"
)

var (
	countPatterns []string
	countVocab    string
	countText     string
	countJSON     bool
	countSave     bool
)

var countCmd = &cobra.Command{
	Use:   "count [flags] [FILE...]",
	Short: "Count pattern occurrences",
	Long: "Counts every occurrence of each pattern, overlaps included, in --text, the given files, or piped stdin.\n" +
		"Bytes outside the alphabet separate words unless --strict is set.",
	RunE: runCount,
}

func init() {
	countCmd.Flags().StringArrayVarP(&countPatterns, "pattern", "p", nil, "Pattern to count (repeatable)")
	countCmd.Flags().StringVarP(&countVocab, "vocab", "v", "", "Stored vocabulary to count")
	countCmd.Flags().StringVarP(&countText, "text", "t", "", "Text to scan instead of files")
	countCmd.Flags().BoolVar(&countJSON, "json", false, "Print the report as JSON")
	countCmd.Flags().BoolVar(&countSave, "save", false, "Store the report with the vocabulary")
}

func runCount(cmd *cobra.Command, args []string) error {
	if countSave && countVocab == "" {
		return fmt.Errorf("--save needs --vocab")
	}
	paths, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	counter, err := resolveCounter(paths, cfg, countVocab, countPatterns)
	if err != nil {
		return err
	}

	var report *ports.Report
	switch {
	case cmd.Flags().Changed("text"):
		if len(args) > 0 {
			return fmt.Errorf("use either --text or files, not both")
		}
		report, err = counter.CountText(countText)
	case len(args) > 0:
		report, err = counter.CountFiles(args)
	case !isTerminal(os.Stdin):
		data, rerr := io.ReadAll(os.Stdin)
		if rerr != nil {
			return fmt.Errorf("read stdin: %w", rerr)
		}
		report, err = counter.CountText(string(data))
		if err == nil {
			report.Sources = []string{"<stdin>"}
		}
	default:
		return fmt.Errorf("nothing to scan: pass --text, files, or pipe stdin")
	}
	if err != nil {
		return err
	}

	if countSave {
		store, err := openStore(paths, cfg)
		if err != nil {
			return err
		}
		err = store.SaveReport(countVocab, report)
		store.Close()
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}

	if countJSON {
		return printJSON(report)
	}
	fmt.Print(formatReport(report))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
