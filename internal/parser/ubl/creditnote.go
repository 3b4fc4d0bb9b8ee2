package ubl

import (
	"context"
	"io"

	"github.com/rezonia/efactura-reconciler/internal/model"
)

// CreditNoteAdapter parses UBL 2.1 CreditNote documents.
// Amounts in a credit note are positive; the sign is applied downstream.
type CreditNoteAdapter struct{}

// NewCreditNoteAdapter creates a new CreditNote adapter
func NewCreditNoteAdapter() *CreditNoteAdapter {
	return &CreditNoteAdapter{}
}

// Kind returns model.KindCreditNote
func (a *CreditNoteAdapter) Kind() model.DocumentKind {
	return model.KindCreditNote
}

// CanParse checks the root element is CreditNote
func (a *CreditNoteAdapter) CanParse(content []byte) bool {
	name, err := RootName(content)
	return err == nil && name == string(model.KindCreditNote)
}

// Parse parses CreditNote XML into a Document
func (a *CreditNoteAdapter) Parse(ctx context.Context, r io.Reader) (*model.Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError(model.KindCreditNote, "content", "failed to read content", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := decodeDocument(model.KindCreditNote, content)
	if err != nil {
		return nil, err
	}
	doc, err := convertDocument(model.KindCreditNote, raw, content)
	if err != nil {
		return nil, err
	}

	doc.CreditNoteLines = make([]model.CreditNoteLine, len(raw.CreditNoteLines))
	for i, l := range raw.CreditNoteLines {
		doc.CreditNoteLines[i] = model.CreditNoteLine{
			LineBase:         convertLine(l.lineXML),
			CreditedQuantity: convertQuantity(l.CreditedQuantity),
		}
	}
	return doc, nil
}
