package efactura

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/rezonia/efactura-reconciler/internal/model"
	"github.com/rezonia/efactura-reconciler/internal/processor"
	"github.com/rezonia/efactura-reconciler/internal/reconcile"
	"github.com/rezonia/efactura-reconciler/internal/summary"
)

// Processor parses and reconciles documents. It is safe for concurrent use.
type Processor struct {
	pipeline *processor.Pipeline
	options  Options
}

// NewProcessor creates a new processor with the given options
func NewProcessor(opts Options) *Processor {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	rec := reconcile.NewReconciler(opts.reconcileConfig(), reconcile.WithLogger(opts.Logger))
	return &Processor{
		pipeline: processor.NewPipeline(
			processor.WithReconciler(rec),
			processor.WithWorkers(opts.Workers),
			processor.WithLogger(opts.Logger),
		),
		options: opts,
	}
}

// NewDefaultProcessor creates a processor with default options
func NewDefaultProcessor() *Processor {
	return NewProcessor(DefaultOptions())
}

// Parse decodes a UBL Invoice or CreditNote without reconciling it
func (p *Processor) Parse(ctx context.Context, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &model.ParseError{Kind: model.KindUnknown, Message: "failed to read input", Cause: err}
	}
	return p.pipeline.Parse(ctx, data)
}

// ProcessXML parses and reconciles one UBL document
func (p *Processor) ProcessXML(ctx context.Context, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &model.ParseError{Kind: model.KindUnknown, Message: "failed to read input", Cause: err}
	}
	if format := processor.DetectFormat(data); format != processor.FormatXML {
		return nil, fmt.Errorf("%w: %s input", processor.ErrUnsupportedFormat, format)
	}

	res := p.pipeline.ProcessXMLBytes(ctx, data)
	if res.Error != nil {
		return nil, res.Error
	}
	return newResult(res), nil
}

// ProcessBatch processes inputs concurrently, at most Options.Workers at a time.
// Results keep the order of inputs; a failed input leaves a nil entry and the
// first failure is returned once every input has been processed.
func (p *Processor) ProcessBatch(ctx context.Context, inputs []io.Reader) ([]*Result, error) {
	results := make([]*Result, len(inputs))

	var g errgroup.Group
	g.SetLimit(p.options.Workers)
	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := p.ProcessXML(ctx, input)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	return results, g.Wait()
}

// Summarize reduces documents to summary rows sorted by issue date and number
func Summarize(docs []*Document) ([]SummaryRow, []error) {
	return summary.BuildRows(docs)
}

func newResult(res *processor.Result) *Result {
	return &Result{
		Document:    res.Document,
		BaseType:    res.Report.BaseType,
		Rows:        res.Report.Rows,
		Skipped:     res.Report.Skipped,
		Warnings:    res.Warnings,
		Mismatch:    res.Report.Mismatch,
		PayableDiff: res.Report.PayableDiff,
	}
}
