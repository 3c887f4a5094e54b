package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report NAME",
	Short: "Show the last saved report of a vocabulary",
	Long:  "Shows the report stored by 'tally count --save' or 'tally watch --save'.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the report as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	paths, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(paths, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := store.LoadReport(args[0])
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("no report for %q: run tally count -v %s --save FILE...", args[0], args[0])
	}
	if reportJSON {
		return printJSON(report)
	}
	fmt.Print(formatSavedReport(report))
	return nil
}
