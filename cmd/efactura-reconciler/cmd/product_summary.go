package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rezonia/efactura-reconciler/internal/model"
	"github.com/rezonia/efactura-reconciler/internal/processor"
)

var productSummaryFilter filterFlags

var productSummaryCmd = &cobra.Command{
	Use:   "product-summary [paths...]",
	Short: "Per-product rows reconciled to the document totals",
	Long: `Reconcile every line of the selected invoices and credit notes.

Each row carries the line's net value, VAT, discount and total. Within a
document the totals add up to the payable amount; credit note rows are negative.
Synthetic discount lines (negative quantity, named "discount" or "reducere")
are folded into the other lines instead of being listed.

Examples:
  efactura-reconciler product-summary
  efactura-reconciler product-summary dlds/4211.zip -f json
  efactura-reconciler product-summary --start-date 2024-03-01 --end-date 2024-03-31`,
	RunE: runProductSummary,
}

func init() {
	rootCmd.AddCommand(productSummaryCmd)
	productSummaryFilter.register(productSummaryCmd)
}

func runProductSummary(cmd *cobra.Command, args []string) error {
	filter, err := productSummaryFilter.filter()
	if err != nil {
		return err
	}

	results, err := runBatch(cmd.Context(), args, processor.Request{Filter: filter})
	if err != nil {
		return err
	}
	results = successful(results)
	if len(results) == 0 {
		return model.ErrNoDocuments
	}

	for _, r := range results {
		for _, w := range r.Warnings {
			printVerbose("  %s: %s\n", r.Document.ID, w)
		}
	}
	return renderProductSummary(cmd.OutOrStdout(), processor.ProductSummaryRows(results))
}
