package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/efactura-reconciler/internal/model"
)

func newInvoice() *model.Document {
	return &model.Document{
		Kind:      model.KindInvoice,
		ID:        "FIMCGB8202",
		IssueDate: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		Supplier:  model.Party{Name: "  Gursk Trading SRL ", CompanyID: "RO123"},
		TaxAmount: model.NewAmount("141.54"),
		MonetaryTotal: &model.MonetaryTotal{
			TaxExclusiveAmount: model.NewAmount("744.96"),
			TaxInclusiveAmount: model.NewAmount("886.50"),
			PayableAmount:      model.NewAmount("886.50"),
		},
		InvoiceLines: []model.InvoiceLine{
			{
				LineBase:         model.LineBase{ID: "1", Item: model.Item{Name: "Cable"}},
				InvoicedQuantity: &model.Quantity{Value: "10", UnitCode: "H87"},
			},
			{
				LineBase:         model.LineBase{ID: "2", Item: model.Item{Name: "Plug"}},
				InvoicedQuantity: &model.Quantity{Value: "5", UnitCode: "H87"},
			},
		},
	}
}

func TestDocumentKind_Sign(t *testing.T) {
	assert.True(t, model.KindInvoice.Sign().Equal(decimal.NewFromInt(1)))
	assert.True(t, model.KindCreditNote.Sign().Equal(decimal.NewFromInt(-1)))
}

func TestDocument_Lines(t *testing.T) {
	doc := newInvoice()
	lines := doc.Lines()
	require.Len(t, lines, 2)

	assert.Equal(t, "1", lines[0].Base().ID)
	assert.Equal(t, "10", lines[0].Quantity().Value)
	assert.Equal(t, "H87", lines[1].Quantity().UnitCode)

	// Lines share storage with the document
	lines[0].Base().Item.Name = "Renamed"
	assert.Equal(t, "Renamed", doc.InvoiceLines[0].Item.Name)
}

func TestDocument_Lines_CreditNote(t *testing.T) {
	doc := &model.Document{
		Kind: model.KindCreditNote,
		CreditNoteLines: []model.CreditNoteLine{
			{
				LineBase:         model.LineBase{ID: "1"},
				CreditedQuantity: &model.Quantity{Value: "1"},
			},
		},
		// Invoice lines on a credit note are ignored
		InvoiceLines: []model.InvoiceLine{{LineBase: model.LineBase{ID: "x"}}},
	}

	lines := doc.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].Quantity().Value)
	assert.True(t, doc.IsCreditNote())
}

func TestDocument_Lines_UnknownKind(t *testing.T) {
	doc := &model.Document{Kind: model.KindUnknown}
	assert.Empty(t, doc.Lines())
}

func TestDocument_Currency(t *testing.T) {
	doc := newInvoice()
	assert.Equal(t, "RON", doc.Currency())

	doc.CurrencyCode = "EUR"
	assert.Equal(t, "EUR", doc.Currency())
}

func TestParty_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		party    model.Party
		expected string
	}{
		{"party name", model.Party{Name: " Acme ", RegistrationName: "Acme SRL"}, "Acme"},
		{"registration name fallback", model.Party{RegistrationName: "Acme SRL"}, "Acme SRL"},
		{"blank name falls back", model.Party{Name: "   ", RegistrationName: "Acme SRL"}, "Acme SRL"},
		{"unknown", model.Party{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.party.DisplayName())
		})
	}
}

func TestDocument_Totals(t *testing.T) {
	doc := newInvoice()

	payable, err := doc.PayableAmount()
	require.NoError(t, err)
	assert.True(t, payable.Equal(decimal.RequireFromString("886.50")))

	taxExcl, err := doc.TaxExclusiveAmount()
	require.NoError(t, err)
	assert.True(t, taxExcl.Equal(decimal.RequireFromString("744.96")))

	taxIncl, err := doc.TaxInclusiveAmount()
	require.NoError(t, err)
	assert.True(t, taxIncl.Equal(decimal.RequireFromString("886.50")))
}

func TestDocument_TaxExclusiveFallback(t *testing.T) {
	doc := newInvoice()
	doc.MonetaryTotal.TaxExclusiveAmount = nil

	taxExcl, err := doc.TaxExclusiveAmount()
	require.NoError(t, err)
	assert.True(t, taxExcl.Equal(decimal.RequireFromString("744.96")))
}

func TestDocument_MissingTotals(t *testing.T) {
	doc := newInvoice()
	doc.MonetaryTotal = nil

	_, err := doc.TaxExclusiveAmount()
	require.Error(t, err)

	var totalsErr *model.TotalsError
	require.True(t, errors.As(err, &totalsErr))
	assert.Equal(t, "FIMCGB8202", totalsErr.DocumentID)
	assert.Equal(t, "PayableAmount", totalsErr.Field)
}

func TestDocument_NonNumericTotals(t *testing.T) {
	doc := newInvoice()
	doc.TaxAmount = model.NewAmount("n/a")

	_, err := doc.TaxTotal()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TaxAmount")
}

func TestUnitLabel(t *testing.T) {
	assert.Equal(t, "H87 (Piece)", model.UnitLabel("H87"))
	assert.Equal(t, "XYZ", model.UnitLabel("XYZ"))
	assert.Equal(t, "-", model.UnitLabel(""))
}
