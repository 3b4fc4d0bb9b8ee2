package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rezonia/efactura-reconciler/internal/model"
	"github.com/rezonia/efactura-reconciler/internal/processor"
	"github.com/rezonia/efactura-reconciler/internal/summary"
)

var summaryFilter filterFlags

var summaryCmd = &cobra.Command{
	Use:   "summary [paths...]",
	Short: "Payable amount of each selected document",
	Long: `List the number, supplier, dates and payable amount of the documents
matching an invoice number or supplier name, sorted by issue date.

Examples:
  efactura-reconciler summary --supplier farma
  efactura-reconciler summary --invoice-number FD-2024 --start-date 2024-01-01 -f csv`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryFilter.register(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	filter, err := summaryFilter.filter()
	if err != nil {
		return err
	}
	if err := filter.RequireSelector(); err != nil {
		return err
	}

	results, err := runBatch(cmd.Context(), args, processor.Request{Filter: filter, ParseOnly: true})
	if err != nil {
		return err
	}

	rows, skipped := summary.BuildRows(processor.Documents(successful(results)))
	for _, err := range skipped {
		log.Warn().Err(err).Msg("document left out of the summary")
	}
	if len(rows) == 0 {
		return model.ErrNoDocuments
	}
	return renderSummary(cmd.OutOrStdout(), rows)
}
