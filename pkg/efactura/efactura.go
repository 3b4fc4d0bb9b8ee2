// Package efactura provides a public API for reconciling Romanian e-Factura
// (UBL 2.1) invoices and credit notes.
//
// Each document line is turned into a row of net value, VAT, discount and
// total whose sums match the document's tax-exclusive amount, tax amount and
// payable amount to the cent.
//
// Example usage:
//
//	proc := efactura.NewDefaultProcessor()
//	result, err := proc.ProcessXML(ctx, reader)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, row := range result.Rows {
//	    fmt.Println(row.Product, row.TotalPerLine)
//	}
package efactura

import (
	"github.com/rezonia/efactura-reconciler/internal/model"
	"github.com/rezonia/efactura-reconciler/internal/reconcile"
)

// Re-export core types for public API
type (
	Document          = model.Document
	DocumentKind      = model.DocumentKind
	Party             = model.Party
	Attachment        = model.Attachment
	ProductSummaryRow = model.ProductSummaryRow
	SummaryRow        = model.SummaryRow
	BaseType          = reconcile.BaseType
	LinePredicate     = reconcile.LinePredicate
	LineComputation   = reconcile.LineComputation
)

// Re-export document kinds
const (
	KindInvoice    = model.KindInvoice
	KindCreditNote = model.KindCreditNote
)

// Re-export base types
const (
	BaseAlreadyNet         = reconcile.BaseAlreadyNet
	BaseGrossNeedsDiscount = reconcile.BaseGrossNeedsDiscount
	BaseUseDistribution    = reconcile.BaseUseDistribution
)

// Re-export error types
type (
	ParseError      = model.ParseError
	LineError       = model.LineError
	TotalsError     = model.TotalsError
	ValidationError = model.ValidationError
)

// Re-export sentinel errors
var (
	ErrUnsupportedDocument = model.ErrUnsupportedDocument
	ErrNoDocuments         = model.ErrNoDocuments
)
