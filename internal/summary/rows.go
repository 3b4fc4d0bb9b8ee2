package summary

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	moneydec "github.com/rezonia/efactura-reconciler/internal/decimal"
	"github.com/rezonia/efactura-reconciler/internal/model"
)

// NewRow reduces a document to its summary row; credit notes carry a negative payable
func NewRow(doc *model.Document) (model.SummaryRow, error) {
	payable, err := doc.PayableAmount()
	if err != nil {
		return model.SummaryRow{}, err
	}
	return model.SummaryRow{
		DocumentNumber: doc.ID,
		Supplier:       doc.SupplierName(),
		IssueDate:      doc.IssueDate,
		DueDate:        doc.DueDate,
		PayableAmount:  moneydec.RoundCents(payable.Mul(doc.Kind.Sign())),
		Currency:       doc.Currency(),
		IsCreditNote:   doc.IsCreditNote(),
	}, nil
}

// BuildRows returns the rows sorted by issue date then document number.
// Documents without a payable amount are returned in skipped.
func BuildRows(docs []*model.Document) (rows []model.SummaryRow, skipped []error) {
	rows = make([]model.SummaryRow, 0, len(docs))
	for _, doc := range docs {
		row, err := NewRow(doc)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		rows = append(rows, row)
	}

	slices.SortStableFunc(rows, func(a, b model.SummaryRow) int {
		if c := a.IssueDate.Compare(b.IssueDate); c != 0 {
			return c
		}
		return strings.Compare(a.DocumentNumber, b.DocumentNumber)
	})
	return rows, skipped
}

// TotalsByCurrency sums payable amounts per currency
func TotalsByCurrency(rows []model.SummaryRow) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, r := range rows {
		sum, ok := totals[r.Currency]
		if !ok {
			sum = decimal.Zero
		}
		totals[r.Currency] = sum.Add(r.PayableAmount)
	}
	return totals
}
