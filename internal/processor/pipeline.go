package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/rezonia/efactura-reconciler/internal/model"
	"github.com/rezonia/efactura-reconciler/internal/parser/ubl"
	"github.com/rezonia/efactura-reconciler/internal/reconcile"
	"github.com/rezonia/efactura-reconciler/internal/summary"
)

// Format represents the input file format
type Format int

const (
	FormatUnknown Format = iota
	FormatXML
	FormatZIP
	FormatPDF
)

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatZIP:
		return "zip"
	case FormatPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte("PK\x03\x04")
	pdfMagic = []byte("%PDF-")
)

// DetectFormat detects the input format from its leading bytes
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatZIP
	case bytes.HasPrefix(data, pdfMagic):
		return FormatPDF
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return FormatXML
	}
	return FormatUnknown
}

// Result is the outcome of processing one document
type Result struct {
	// Source names the file, or archive:entry, the document came from
	Source   string
	Document *model.Document
	// Report is nil when the document was only parsed or could not be reconciled
	Report   *reconcile.Report
	Warnings []string
	Error    error
}

// Anomalous reports whether the document failed or reconciled with skipped lines or a payable mismatch
func (r *Result) Anomalous() bool {
	return r.Error != nil || (r.Report != nil && r.Report.Anomalous())
}

// Pipeline parses UBL documents and reconciles their lines
type Pipeline struct {
	registry   *ubl.Registry
	reconciler *reconcile.Reconciler
	workers    int
	log        zerolog.Logger
}

// Option configures the pipeline
type Option func(*Pipeline)

// WithRegistry sets the parser registry
func WithRegistry(r *ubl.Registry) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.registry = r
		}
	}
}

// WithReconciler sets the reconciliation engine
func WithReconciler(r *reconcile.Reconciler) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.reconciler = r
		}
	}
}

// WithWorkers bounds the number of files processed concurrently
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// DefaultWorkers is the batch concurrency when none is configured
const DefaultWorkers = 8

// NewPipeline creates a processing pipeline
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: ubl.NewRegistry(),
		workers:  DefaultWorkers,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.reconciler == nil {
		p.reconciler = reconcile.NewReconciler(reconcile.DefaultConfig(), reconcile.WithLogger(p.log))
	}
	return p
}

// Reconciler returns the engine used by the pipeline
func (p *Pipeline) Reconciler() *reconcile.Reconciler {
	return p.reconciler
}

// Parse decodes a single UBL document
func (p *Pipeline) Parse(ctx context.Context, data []byte) (*model.Document, error) {
	doc, err := p.registry.Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("XML parsing failed: %w", err)
	}
	return doc, nil
}

// ProcessXML parses and reconciles one document read from r
func (p *Pipeline) ProcessXML(ctx context.Context, r io.Reader) *Result {
	data, err := io.ReadAll(r)
	if err != nil {
		return &Result{Error: fmt.Errorf("failed to read input: %w", err)}
	}
	return p.ProcessXMLBytes(ctx, data)
}

// ProcessXMLBytes parses and reconciles one document
func (p *Pipeline) ProcessXMLBytes(ctx context.Context, data []byte) *Result {
	doc, err := p.Parse(ctx, data)
	if err != nil {
		return &Result{Error: err}
	}
	return p.reconcile(doc)
}

func (p *Pipeline) reconcile(doc *model.Document) *Result {
	result := &Result{Source: doc.SourceFile, Document: doc}

	report, err := p.reconciler.Reconcile(doc)
	if err != nil {
		result.Error = err
		return result
	}
	result.Report = report

	for _, le := range report.Skipped {
		result.Warnings = append(result.Warnings, le.Error())
	}
	for _, lc := range report.Absorbed {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("line %s (%s) absorbed as discount", lc.LineID, lc.Product))
	}
	if report.Mismatch {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("rows differ from payable amount by %s", report.PayableDiff.StringFixed(2)))
	}
	return result
}

// Request selects what happens to each parsed document
type Request struct {
	// Filter drops non-matching documents before reconciliation
	Filter summary.Filter
	// ParseOnly leaves Result.Report nil
	ParseOnly bool
}

// ProcessBytes processes an XML document or a ZIP archive of documents.
// Documents rejected by the request filter yield no result.
func (p *Pipeline) ProcessBytes(ctx context.Context, source string, data []byte, req Request) []*Result {
	switch format := DetectFormat(data); format {
	case FormatXML:
		if r := p.processOne(ctx, source, data, req); r != nil {
			return []*Result{r}
		}
		return nil

	case FormatZIP:
		entries, err := ReadZip(data)
		if err != nil {
			return []*Result{{Source: source, Error: err}}
		}
		results := make([]*Result, 0, len(entries))
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return append(results, &Result{Source: source, Error: err})
			}
			if r := p.processOne(ctx, source+":"+e.Name, e.Data, req); r != nil {
				results = append(results, r)
			}
		}
		return results

	default:
		return []*Result{{
			Source: source,
			Error:  fmt.Errorf("%w: %s input", ErrUnsupportedFormat, format),
		}}
	}
}

// ErrUnsupportedFormat is returned for inputs that are neither UBL XML nor ZIP
var ErrUnsupportedFormat = errors.New("unsupported file format")

func (p *Pipeline) processOne(ctx context.Context, source string, data []byte, req Request) *Result {
	doc, err := p.Parse(ctx, data)
	if err != nil {
		p.log.Error().Err(err).Str("source", source).Msg("skipping unparsable document")
		return &Result{Source: source, Error: err}
	}
	doc.SourceFile = source
	if !req.Filter.Match(doc) {
		return nil
	}
	if req.ParseOnly {
		return &Result{Source: source, Document: doc}
	}
	return p.reconcile(doc)
}
