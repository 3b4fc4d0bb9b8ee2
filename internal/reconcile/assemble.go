package reconcile

import (
	"github.com/shopspring/decimal"

	moneydec "github.com/rezonia/efactura-reconciler/internal/decimal"
	"github.com/rezonia/efactura-reconciler/internal/model"
)

// Targets are the authoritative header totals of a document, unsigned
type Targets struct {
	TaxExclusive decimal.Decimal
	TaxTotal     decimal.Decimal
	TaxInclusive decimal.Decimal
	Payable      decimal.Decimal
}

// DocumentTargets reads the header totals. A document without a payable amount
// cannot be reconciled and yields a *model.TotalsError.
func DocumentTargets(doc *model.Document) (Targets, error) {
	var t Targets
	var err error
	if t.Payable, err = doc.PayableAmount(); err != nil {
		return Targets{}, err
	}
	if t.TaxTotal, err = doc.TaxTotal(); err != nil {
		return Targets{}, err
	}
	if t.TaxExclusive, err = doc.TaxExclusiveAmount(); err != nil {
		return Targets{}, err
	}
	if t.TaxInclusive, err = doc.TaxInclusiveAmount(); err != nil {
		return Targets{}, err
	}
	return t, nil
}

// Report is the outcome of reconciling one document
type Report struct {
	DocumentID string
	Kind       model.DocumentKind
	BaseType   BaseType
	Rows       []model.ProductSummaryRow
	Absorbed   []LineComputation
	Skipped    []*model.LineError

	// PayableDiff is sum(TotalPerLine) minus the signed payable amount
	PayableDiff decimal.Decimal
	Mismatch    bool
}

// Anomalous reports whether the document had a skipped line or a payable mismatch
func (r *Report) Anomalous() bool {
	return len(r.Skipped) > 0 || r.Mismatch
}

// ReconcileBase spreads the gap between the summed FinalNet and target over the
// lines, weighted by absolute raw amount, when it exceeds tolerance.
func ReconcileBase(lines []LineComputation, target, tolerance decimal.Decimal) []LineComputation {
	out := make([]LineComputation, len(lines))
	copy(out, lines)

	sum := decimal.Zero
	for _, lc := range out {
		sum = sum.Add(lc.FinalNet)
	}
	diff := target.Sub(sum)
	if diff.Abs().LessThanOrEqual(tolerance) {
		return out
	}

	weights := make([]decimal.Decimal, len(out))
	for i, lc := range out {
		weights[i] = lc.RawAmount.Abs()
	}
	for i, adj := range Distribute(diff, weights) {
		out[i].FinalNet = out[i].FinalNet.Add(adj)
	}
	return out
}

// ComputeVAT returns FinalNet * VATRate / 100 per line, unrounded
func ComputeVAT(lines []LineComputation) []decimal.Decimal {
	vats := make([]decimal.Decimal, len(lines))
	for i, lc := range lines {
		vats[i] = moneydec.Percent(lc.FinalNet, lc.VATRate)
	}
	return vats
}

// Reconcile runs every stage for one document.
// Only a document lacking its header totals returns an error; malformed lines
// are reported in Report.Skipped and a payable mismatch in Report.Mismatch.
func (r *Reconciler) Reconcile(doc *model.Document) (*Report, error) {
	targets, err := DocumentTargets(doc)
	if err != nil {
		return nil, err
	}

	extraction := r.Extract(doc)
	report := &Report{
		DocumentID:  doc.ID,
		Kind:        doc.Kind,
		Absorbed:    extraction.Absorbed,
		Skipped:     extraction.Skipped,
		PayableDiff: decimal.Zero,
	}
	if len(extraction.Lines) == 0 {
		r.log.Debug().Str("document", doc.ID).Msg("document has no lines")
		report.Rows = []model.ProductSummaryRow{}
		return report, nil
	}

	report.BaseType = DetectBaseType(extraction.Lines, targets.TaxExclusive, r.cfg.DetectTolerance)
	if report.BaseType == BaseUseDistribution {
		r.log.Debug().
			Str("document", doc.ID).
			Str("supplier", doc.SupplierName()).
			Msg("line amounts match neither net nor gross reading, distributing residual")
	}

	lines := ApplyBaseType(extraction.Lines, report.BaseType)
	lines = ReconcileBase(lines, targets.TaxExclusive, r.cfg.ReconcileTolerance)
	vats := ComputeVAT(lines)

	sign := doc.Kind.Sign()
	signedNets := make([]decimal.Decimal, len(lines))
	signedVATs := make([]decimal.Decimal, len(lines))
	for i, lc := range lines {
		signedNets[i] = lc.FinalNet.Mul(sign)
		signedVATs[i] = vats[i].Mul(sign)
	}
	nets := AdjustToTarget(signedNets, targets.TaxExclusive.Mul(sign))
	vatValues := AdjustToTarget(signedVATs, targets.TaxTotal.Mul(sign))

	report.Rows = r.assemble(doc, targets, lines, nets, vatValues)
	r.verify(doc, targets, report)
	return report, nil
}

func (r *Reconciler) assemble(doc *model.Document, t Targets, lines []LineComputation, nets, vats []decimal.Decimal) []model.ProductSummaryRow {
	sign := doc.Kind.Sign()
	supplier := doc.SupplierName()
	currency := doc.Currency()
	totalPayable := moneydec.RoundCents(t.Payable.Mul(sign))
	totalInvoice := moneydec.RoundCents(t.TaxInclusive.Mul(sign))

	rows := make([]model.ProductSummaryRow, len(lines))
	for i, lc := range lines {
		value := moneydec.RoundCents(lc.RawAmount.Mul(sign))
		discount := nets[i].Sub(value)
		rows[i] = model.ProductSummaryRow{
			Supplier:       supplier,
			DocumentNumber: doc.ID,
			IssueDate:      doc.IssueDate,
			Currency:       currency,
			IsCreditNote:   doc.IsCreditNote(),
			TotalInvoice:   totalInvoice,
			TotalPayable:   totalPayable,
			Product:        lc.Product,
			ProductCode:    lc.ProductCode,
			Quantity:       lc.Quantity,
			UnitOfMeasure:  lc.UnitOfMeasure,
			UnitPrice:      lc.UnitPrice,
			Value:          value,
			VATRate:        lc.VATRate,
			VATValue:       vats[i],
			DiscountRate:   moneydec.Ratio(discount, lc.RawAmount),
			DiscountValue:  discount,
			TotalPerLine:   nets[i].Add(vats[i]),
		}
	}
	return rows
}

func (r *Reconciler) verify(doc *model.Document, t Targets, report *Report) {
	sum := decimal.Zero
	for _, row := range report.Rows {
		sum = sum.Add(row.TotalPerLine)
	}
	expected := moneydec.RoundCents(t.Payable.Mul(doc.Kind.Sign()))
	report.PayableDiff = sum.Sub(expected)
	if report.PayableDiff.Abs().GreaterThan(r.cfg.PayableTolerance) {
		report.Mismatch = true
		r.log.Warn().
			Str("document", doc.ID).
			Str("rows_total", sum.StringFixed(2)).
			Str("payable", expected.StringFixed(2)).
			Msg("rounding mismatch against payable amount")
	}
}

// BuildProductSummaryRows reconciles documents in order and concatenates their rows.
// Documents whose totals are missing are logged and left out.
func (r *Reconciler) BuildProductSummaryRows(docs []*model.Document) ([]model.ProductSummaryRow, []*Report) {
	rows := make([]model.ProductSummaryRow, 0)
	reports := make([]*Report, 0, len(docs))
	for _, doc := range docs {
		report, err := r.Reconcile(doc)
		if err != nil {
			r.log.Error().Err(err).Str("document", doc.ID).Msg("cannot reconcile document")
			continue
		}
		reports = append(reports, report)
		rows = append(rows, report.Rows...)
	}
	return rows, reports
}
