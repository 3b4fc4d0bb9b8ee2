package reconcile

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	moneydec "github.com/rezonia/efactura-reconciler/internal/decimal"
	"github.com/rezonia/efactura-reconciler/internal/model"
)

var errNoPricing = errors.New("line has neither a price nor a line extension amount")

// LineComputation holds the figures of one line while it moves through the stages.
// Stages copy it; FinalNet is set once by ApplyBaseType and afterwards only adjusted.
type LineComputation struct {
	LineID        string
	Product       string
	ProductCode   string
	UnitOfMeasure string

	Quantity  decimal.Decimal
	UnitPrice decimal.NullDecimal
	VATRate   decimal.Decimal

	// RawAmount is UnitPrice * Quantity, the gross value
	RawAmount decimal.Decimal
	// LineExtAmount is the declared LineExtensionAmount, net or gross depending on the issuer
	LineExtAmount decimal.Decimal
	// LineDiscountAbs is the magnitude of the line level allowances
	LineDiscountAbs decimal.Decimal
	LineCharge      decimal.Decimal

	FinalNet decimal.Decimal
}

// Extraction is the output of the extract stage
type Extraction struct {
	Lines []LineComputation
	// Absorbed holds synthetic discount lines that are not emitted as rows
	Absorbed []LineComputation
	Skipped  []*model.LineError
}

// ExtractLine reads one invoice or credit note line.
// Absent optional fields default to zero; present but non-numeric fields make the line malformed.
func ExtractLine(documentID string, line model.Line) (LineComputation, error) {
	base := line.Base()
	lc := LineComputation{
		LineID:      base.ID,
		Product:     strings.TrimSpace(base.Item.Name),
		ProductCode: strings.TrimSpace(base.Item.SellerItemID),
		Quantity:    decimal.Zero,
		VATRate:     decimal.Zero,
		RawAmount:   decimal.Zero,
	}
	if lc.Product == "" {
		lc.Product = "Unknown"
	}

	fail := func(field string, err error) (LineComputation, error) {
		return LineComputation{}, model.NewLineError(documentID, base.ID, field, "malformed line", err)
	}

	if q := line.Quantity(); q != nil {
		v, err := q.Decimal()
		if err != nil {
			return fail("Quantity", err)
		}
		lc.Quantity = v
		lc.UnitOfMeasure = strings.TrimSpace(q.UnitCode)
	}

	lineExt := decimal.Zero
	if base.LineExtensionAmount != nil {
		v, err := base.LineExtensionAmount.Decimal()
		if err != nil {
			return fail("LineExtensionAmount", err)
		}
		lineExt = v
	}
	lc.LineExtAmount = lineExt

	switch {
	case base.Price != nil && base.Price.PriceAmount != nil:
		price, err := base.Price.PriceAmount.Decimal()
		if err != nil {
			return fail("PriceAmount", err)
		}
		if bq := base.Price.BaseQuantity; bq != nil {
			per, err := bq.Decimal()
			if err != nil {
				return fail("BaseQuantity", err)
			}
			if !per.IsZero() && !per.Equal(decimal.NewFromInt(1)) {
				price = price.Div(per)
			}
		}
		lc.UnitPrice = decimal.NewNullDecimal(price)
	case base.LineExtensionAmount == nil:
		return fail("PriceAmount", errNoPricing)
	case !lc.Quantity.IsZero():
		lc.UnitPrice = decimal.NewNullDecimal(lineExt.Div(lc.Quantity))
	}

	if lc.UnitPrice.Valid {
		lc.RawAmount = lc.UnitPrice.Decimal.Mul(lc.Quantity)
	}

	if pct := strings.TrimSpace(base.Item.TaxPercent); pct != "" {
		v, err := moneydec.FromString(pct)
		if err != nil {
			return fail("Percent", err)
		}
		lc.VATRate = v
	}

	allowances, err := parseAllowances(base.AllowanceCharges)
	if err != nil {
		return fail("AllowanceCharge", err)
	}
	discount, charge := SplitAllowances(allowances)
	lc.LineDiscountAbs = discount.Abs()
	lc.LineCharge = charge

	return lc, nil
}

// Extract runs ExtractLine over every line of the document.
// Malformed lines are logged and skipped; lines matched by the fake discount
// predicate are set aside so that their amount is redistributed.
func (r *Reconciler) Extract(doc *model.Document) Extraction {
	var out Extraction
	for _, line := range doc.Lines() {
		lc, err := ExtractLine(doc.ID, line)
		if err != nil {
			var lineErr *model.LineError
			if !errors.As(err, &lineErr) {
				lineErr = model.NewLineError(doc.ID, line.Base().ID, "line", "malformed line", err)
			}
			r.log.Error().Err(err).
				Str("document", doc.ID).
				Str("line", lineErr.LineID).
				Msg("skipping malformed line")
			out.Skipped = append(out.Skipped, lineErr)
			continue
		}

		if r.cfg.FakeDiscount.Match(lc) {
			r.log.Debug().
				Str("document", doc.ID).
				Str("line", lc.LineID).
				Str("product", lc.Product).
				Str("amount", lc.LineExtAmount.String()).
				Msg("absorbing discount line")
			out.Absorbed = append(out.Absorbed, lc)
			continue
		}

		out.Lines = append(out.Lines, lc)
	}
	return out
}
