package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rezonia/efactura-reconciler/internal/processor"
)

var (
	strictCheck bool
	checkAll    bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Report documents that do not reconcile cleanly",
	Long: `Run the reconciliation engine and report anomalies:

  - documents that cannot be parsed or lack their totals
  - lines skipped for missing or non-numeric amounts
  - rows whose totals differ from the payable amount

Examples:
  efactura-reconciler check
  efactura-reconciler check dlds/ --strict
  efactura-reconciler check --all -f json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&strictCheck, "strict", false, "Exit with an error when any document is anomalous")
	checkCmd.Flags().BoolVar(&checkAll, "all", false, "List every document, not only anomalous ones")
}

// CheckResult is the check outcome of one document
type CheckResult struct {
	Source      string   `json:"source"`
	DocumentID  string   `json:"document_id,omitempty"`
	BaseType    string   `json:"base_type,omitempty"`
	Rows        int      `json:"rows"`
	Absorbed    int      `json:"absorbed,omitempty"`
	Skipped     int      `json:"skipped,omitempty"`
	PayableDiff string   `json:"payable_diff,omitempty"`
	Anomalous   bool     `json:"anomalous"`
	Warnings    []string `json:"warnings,omitempty"`
	Error       string   `json:"error,omitempty"`
}

func newCheckResult(r *processor.Result) CheckResult {
	out := CheckResult{
		Source:    r.Source,
		Anomalous: r.Anomalous(),
		Warnings:  r.Warnings,
	}
	if r.Document != nil {
		out.DocumentID = r.Document.ID
	}
	if r.Error != nil {
		out.Error = r.Error.Error()
	}
	if rep := r.Report; rep != nil {
		out.BaseType = rep.BaseType.String()
		out.Rows = len(rep.Rows)
		out.Absorbed = len(rep.Absorbed)
		out.Skipped = len(rep.Skipped)
		out.PayableDiff = rep.PayableDiff.StringFixed(2)
	}
	return out
}

func runCheck(cmd *cobra.Command, args []string) error {
	results, err := runBatch(cmd.Context(), args, processor.Request{})
	if err != nil {
		return err
	}

	selected := results
	if !checkAll {
		selected = processor.Anomalies(results)
	}
	checks := make([]CheckResult, 0, len(selected))
	for _, r := range selected {
		checks = append(checks, newCheckResult(r))
	}

	if err := renderChecks(cmd.OutOrStdout(), checks, len(results)); err != nil {
		return err
	}

	if anomalies := len(processor.Anomalies(results)); strictCheck && anomalies > 0 {
		return fmt.Errorf("%d of %d documents are anomalous", anomalies, len(results))
	}
	return nil
}

func renderChecks(w io.Writer, checks []CheckResult, total int) error {
	if outputFormat == formatJSON {
		return outputJSON(w, checks)
	}

	anomalous := 0
	for _, c := range checks {
		if c.Anomalous {
			anomalous++
			fmt.Fprintf(w, "✗ %s %s\n", c.Source, c.DocumentID)
		} else {
			fmt.Fprintf(w, "✓ %s %s: %s, %d rows\n", c.Source, c.DocumentID, c.BaseType, c.Rows)
		}
		if c.Error != "" {
			fmt.Fprintf(w, "  - %s\n", c.Error)
		}
		for _, warning := range c.Warnings {
			fmt.Fprintf(w, "  ⚠ %s\n", warning)
		}
	}
	fmt.Fprintf(w, "%d of %d documents anomalous\n", anomalous, total)
	return nil
}
