package reconcile_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/efactura-reconciler/internal/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decs(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = d(v)
	}
	return out
}

func amount(v string) *model.Amount {
	return &model.Amount{Value: v, CurrencyID: "RON"}
}

func qty(v string) *model.Quantity {
	return &model.Quantity{Value: v, UnitCode: "H87"}
}

// lineBase builds a priced line; empty strings leave the element out
func lineBase(id, name, price, lineExt, percent string) model.LineBase {
	lb := model.LineBase{
		ID:   id,
		Item: model.Item{Name: name, SellerItemID: "SKU-" + id, TaxPercent: percent},
	}
	if price != "" {
		lb.Price = &model.Price{PriceAmount: amount(price)}
	}
	if lineExt != "" {
		lb.LineExtensionAmount = amount(lineExt)
	}
	return lb
}

func invLine(id, name, quantity, price, lineExt, percent string) model.InvoiceLine {
	return model.InvoiceLine{
		LineBase:         lineBase(id, name, price, lineExt, percent),
		InvoicedQuantity: qty(quantity),
	}
}

func cnLine(id, name, quantity, price, lineExt, percent string) model.CreditNoteLine {
	return model.CreditNoteLine{
		LineBase:         lineBase(id, name, price, lineExt, percent),
		CreditedQuantity: qty(quantity),
	}
}

func totals(taxExclusive, taxInclusive, payable string) *model.MonetaryTotal {
	mt := &model.MonetaryTotal{PayableAmount: amount(payable)}
	if taxExclusive != "" {
		mt.TaxExclusiveAmount = amount(taxExclusive)
	}
	if taxInclusive != "" {
		mt.TaxInclusiveAmount = amount(taxInclusive)
	}
	return mt
}

func issueDate() time.Time {
	return time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
}

// fakeDiscountInvoice carries a "DISCOUNT 10%" line of -1 x 82.77 whose amount
// has already been taken out of the header totals.
func fakeDiscountInvoice() *model.Document {
	return &model.Document{
		Kind:          model.KindInvoice,
		ID:            "FD-2024-001",
		IssueDate:     issueDate(),
		CurrencyCode:  "RON",
		Supplier:      model.Party{Name: "Depozit Farma SRL"},
		TaxAmount:     amount("141.54"),
		MonetaryTotal: totals("744.96", "886.50", "886.50"),
		InvoiceLines: []model.InvoiceLine{
			invLine("1", "Paracetamol 500mg", "10", "23.5290", "235.29", "19"),
			invLine("2", "Vitamina C 1000mg", "5", "12.6060", "63.03", "19"),
			invLine("3", "Ibuprofen 400mg", "10", "12.6050", "126.05", "19"),
			invLine("4", "Magneziu B6", "40", "10.0840", "403.36", "19"),
			invLine("5", "DISCOUNT 10%", "-1", "82.77", "-82.77", "19"),
		},
	}
}

func creditNote() *model.Document {
	return &model.Document{
		Kind:          model.KindCreditNote,
		ID:            "CN-77",
		IssueDate:     issueDate(),
		CurrencyCode:  "RON",
		Supplier:      model.Party{RegistrationName: "Retur Distributie SA"},
		TaxAmount:     amount("111.61"),
		MonetaryTotal: totals("587.40", "699.01", "699.01"),
		CreditNoteLines: []model.CreditNoteLine{
			cnLine("1", "Retur marfa", "1", "587.40", "587.40", "19"),
		},
	}
}

// simpleInvoice is an already net invoice of two lines with a 9% and a 19% rate
func simpleInvoice() *model.Document {
	return &model.Document{
		Kind:          model.KindInvoice,
		ID:            "INV-100",
		IssueDate:     issueDate(),
		Supplier:      model.Party{Name: "Alfa SRL"},
		TaxAmount:     amount("28.00"),
		MonetaryTotal: totals("200.00", "228.00", "228.00"),
		InvoiceLines: []model.InvoiceLine{
			invLine("1", "Carte", "2", "50.00", "100.00", "9"),
			invLine("2", "Pix", "10", "10.00", "100.00", "19"),
		},
	}
}

func sumTotals(rows []model.ProductSummaryRow) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.TotalPerLine)
	}
	return sum
}
