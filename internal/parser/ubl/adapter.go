package ubl

import (
	"bytes"
	"context"
	"io"

	"github.com/rezonia/efactura-reconciler/internal/model"
)

// Adapter parses one UBL document variant into a model.Document
type Adapter interface {
	// Parse parses XML content into a Document
	Parse(ctx context.Context, r io.Reader) (*model.Document, error)

	// CanParse returns true if adapter can handle this content
	CanParse(content []byte) bool

	// Kind returns the document variant produced by the adapter
	Kind() model.DocumentKind
}

// Registry holds all registered adapters
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates registry with the Invoice and CreditNote adapters
func NewRegistry() *Registry {
	return &Registry{
		adapters: []Adapter{
			NewInvoiceAdapter(),
			NewCreditNoteAdapter(),
		},
	}
}

// Detect picks the adapter for the document's root element
func (r *Registry) Detect(content []byte) (Adapter, error) {
	for _, a := range r.adapters {
		if a.CanParse(content) {
			return a, nil
		}
	}

	name := "unknown"
	if root, err := RootName(content); err == nil {
		name = root
	}
	return nil, model.NewParseError(model.KindUnknown, "root", "unsupported root element "+name, model.ErrUnsupportedDocument)
}

// Parse parses XML using the matching adapter
func (r *Registry) Parse(ctx context.Context, content []byte) (*model.Document, error) {
	adapter, err := r.Detect(content)
	if err != nil {
		return nil, err
	}
	return adapter.Parse(ctx, bytes.NewReader(content))
}

// RegisterAdapter adds a custom adapter to the registry.
// Custom adapters take priority over the built-in ones.
func (r *Registry) RegisterAdapter(a Adapter) {
	r.adapters = append([]Adapter{a}, r.adapters...)
}

// GetAdapter returns the adapter for a document kind
func (r *Registry) GetAdapter(kind model.DocumentKind) Adapter {
	for _, a := range r.adapters {
		if a.Kind() == kind {
			return a
		}
	}
	return nil
}
