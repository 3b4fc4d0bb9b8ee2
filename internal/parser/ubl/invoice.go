package ubl

import (
	"context"
	"io"

	"github.com/rezonia/efactura-reconciler/internal/model"
)

// InvoiceAdapter parses UBL 2.1 Invoice documents
type InvoiceAdapter struct{}

// NewInvoiceAdapter creates a new Invoice adapter
func NewInvoiceAdapter() *InvoiceAdapter {
	return &InvoiceAdapter{}
}

// Kind returns model.KindInvoice
func (a *InvoiceAdapter) Kind() model.DocumentKind {
	return model.KindInvoice
}

// CanParse checks the root element is Invoice, in any namespace
func (a *InvoiceAdapter) CanParse(content []byte) bool {
	name, err := RootName(content)
	return err == nil && name == string(model.KindInvoice)
}

// Parse parses Invoice XML into a Document
func (a *InvoiceAdapter) Parse(ctx context.Context, r io.Reader) (*model.Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError(model.KindInvoice, "content", "failed to read content", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := decodeDocument(model.KindInvoice, content)
	if err != nil {
		return nil, err
	}
	doc, err := convertDocument(model.KindInvoice, raw, content)
	if err != nil {
		return nil, err
	}

	doc.InvoiceLines = make([]model.InvoiceLine, len(raw.InvoiceLines))
	for i, l := range raw.InvoiceLines {
		doc.InvoiceLines[i] = model.InvoiceLine{
			LineBase:         convertLine(l.lineXML),
			InvoicedQuantity: convertQuantity(l.InvoicedQuantity),
		}
	}
	return doc, nil
}
