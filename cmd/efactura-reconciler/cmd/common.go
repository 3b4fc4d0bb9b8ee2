package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rezonia/efactura-reconciler/internal/logger"
	"github.com/rezonia/efactura-reconciler/internal/model"
	"github.com/rezonia/efactura-reconciler/internal/processor"
	"github.com/rezonia/efactura-reconciler/internal/reconcile"
	"github.com/rezonia/efactura-reconciler/internal/summary"
)

// filterFlags are the document selectors shared by the report commands
type filterFlags struct {
	invoiceNumber string
	supplier      string
	startDate     string
	endDate       string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.invoiceNumber, "invoice-number", "", "Keep documents whose number contains this text")
	cmd.Flags().StringVar(&f.supplier, "supplier", "", "Keep documents whose supplier name contains this text")
	cmd.Flags().StringVar(&f.startDate, "start-date", "", "Keep documents issued on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.endDate, "end-date", "", "Keep documents issued on or before this date (YYYY-MM-DD)")
}

func (f *filterFlags) filter() (summary.Filter, error) {
	out := summary.Filter{
		InvoiceNumber: f.invoiceNumber,
		Supplier:      f.supplier,
	}
	var err error
	if out.Start, err = parseDateFlag("start-date", f.startDate); err != nil {
		return out, err
	}
	if out.End, err = parseDateFlag("end-date", f.endDate); err != nil {
		return out, err
	}
	return out, out.Validate()
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, model.NewValidationError(name, value, "date", "expected YYYY-MM-DD")
	}
	return &t, nil
}

func newPipeline() *processor.Pipeline {
	l := logger.WithComponent("processor")
	rec := reconcile.NewReconciler(appConfig.Reconcile(), reconcile.WithLogger(logger.WithComponent("reconcile")))
	return processor.NewPipeline(
		processor.WithReconciler(rec),
		processor.WithWorkers(appConfig.Workers),
		processor.WithLogger(l),
	)
}

// inputFiles expands the arguments, or the download directory when there are none
func inputFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{appConfig.DownloadDir}
	}
	files, err := processor.CollectFiles(args)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no XML or ZIP files found in %v", args)
	}
	printVerbose("Found %d files to process\n", len(files))
	return files, nil
}

// runBatch processes the inputs and returns every result, failures included
func runBatch(ctx context.Context, args []string, req processor.Request) ([]*processor.Result, error) {
	files, err := inputFiles(args)
	if err != nil {
		return nil, err
	}
	results, err := newPipeline().ProcessFiles(ctx, files, req)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Error != nil {
			printVerbose("  Error: %s: %v\n", r.Source, r.Error)
		}
	}
	return results, nil
}

// successful drops failed results; their errors were already logged
func successful(results []*processor.Result) []*processor.Result {
	out := make([]*processor.Result, 0, len(results))
	for _, r := range results {
		if r.Error == nil {
			out = append(out, r)
		} else {
			log.Warn().Err(r.Error).Str("source", r.Source).Msg("document left out of the report")
		}
	}
	return out
}
