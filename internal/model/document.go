package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	moneydec "github.com/rezonia/efactura-reconciler/internal/decimal"
)

// DocumentKind discriminates the UBL document variant
type DocumentKind string

const (
	KindInvoice    DocumentKind = "Invoice"
	KindCreditNote DocumentKind = "CreditNote"
	KindUnknown    DocumentKind = "Unknown"
)

// DefaultCurrency is used when a document omits DocumentCurrencyCode
const DefaultCurrency = "RON"

// Sign returns +1 for invoices and -1 for credit notes
func (k DocumentKind) Sign() decimal.Decimal {
	if k == KindCreditNote {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// Amount is a monetary element as written in the XML.
// A nil *Amount means the element was absent.
type Amount struct {
	Value      string `json:"value"`
	CurrencyID string `json:"currency_id,omitempty"`
}

// Decimal parses the amount value
func (a *Amount) Decimal() (decimal.Decimal, error) {
	return moneydec.FromString(a.Value)
}

// NewAmount builds an amount from its textual value
func NewAmount(value string) *Amount {
	return &Amount{Value: value}
}

// Quantity is a quantity element with its unit code
type Quantity struct {
	Value    string `json:"value"`
	UnitCode string `json:"unit_code,omitempty"`
}

// Decimal parses the quantity value
func (q *Quantity) Decimal() (decimal.Decimal, error) {
	return moneydec.FromString(q.Value)
}

// AllowanceCharge is a line or document level discount (allowance) or surcharge (charge)
type AllowanceCharge struct {
	ChargeIndicator bool    `json:"charge_indicator"`
	Reason          string  `json:"reason,omitempty"`
	Amount          *Amount `json:"amount,omitempty"`
}

// Item describes the product on a line
type Item struct {
	Name         string `json:"name"`
	SellerItemID string `json:"seller_item_id,omitempty"`
	TaxCategory  string `json:"tax_category,omitempty"`
	// TaxPercent is empty when ClassifiedTaxCategory/Percent is absent
	TaxPercent string `json:"tax_percent,omitempty"`
}

// Price is the declared unit price
type Price struct {
	PriceAmount  *Amount   `json:"price_amount,omitempty"`
	BaseQuantity *Quantity `json:"base_quantity,omitempty"`
}

// LineBase holds the fields shared by invoice and credit note lines
type LineBase struct {
	ID                  string            `json:"id"`
	Note                string            `json:"note,omitempty"`
	LineExtensionAmount *Amount           `json:"line_extension_amount,omitempty"`
	Item                Item              `json:"item"`
	Price               *Price            `json:"price,omitempty"`
	AllowanceCharges    []AllowanceCharge `json:"allowance_charges,omitempty"`
}

// Line is implemented by InvoiceLine and CreditNoteLine.
// The two variants differ only in the element carrying the quantity.
type Line interface {
	Base() *LineBase
	Quantity() *Quantity
}

// InvoiceLine is a cac:InvoiceLine
type InvoiceLine struct {
	LineBase
	InvoicedQuantity *Quantity `json:"invoiced_quantity,omitempty"`
}

// Base returns the shared line fields
func (l *InvoiceLine) Base() *LineBase { return &l.LineBase }

// Quantity returns cbc:InvoicedQuantity
func (l *InvoiceLine) Quantity() *Quantity { return l.InvoicedQuantity }

// CreditNoteLine is a cac:CreditNoteLine
type CreditNoteLine struct {
	LineBase
	CreditedQuantity *Quantity `json:"credited_quantity,omitempty"`
}

// Base returns the shared line fields
func (l *CreditNoteLine) Base() *LineBase { return &l.LineBase }

// Quantity returns cbc:CreditedQuantity
func (l *CreditNoteLine) Quantity() *Quantity { return l.CreditedQuantity }

// Party is a supplier or customer party
type Party struct {
	Name             string `json:"name,omitempty"`
	RegistrationName string `json:"registration_name,omitempty"`
	CompanyID        string `json:"company_id,omitempty"`
	VATID            string `json:"vat_id,omitempty"`
	City             string `json:"city,omitempty"`
	Country          string `json:"country,omitempty"`
}

// DisplayName resolves PartyName, then the legal registration name, then "Unknown"
func (p Party) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	if name := strings.TrimSpace(p.RegistrationName); name != "" {
		return name
	}
	return "Unknown"
}

// MonetaryTotal is cac:LegalMonetaryTotal
type MonetaryTotal struct {
	LineExtensionAmount   *Amount `json:"line_extension_amount,omitempty"`
	TaxExclusiveAmount    *Amount `json:"tax_exclusive_amount,omitempty"`
	TaxInclusiveAmount    *Amount `json:"tax_inclusive_amount,omitempty"`
	AllowanceTotalAmount  *Amount `json:"allowance_total_amount,omitempty"`
	ChargeTotalAmount     *Amount `json:"charge_total_amount,omitempty"`
	PrepaidAmount         *Amount `json:"prepaid_amount,omitempty"`
	PayableRoundingAmount *Amount `json:"payable_rounding_amount,omitempty"`
	PayableAmount         *Amount `json:"payable_amount,omitempty"`
}

// Attachment is an embedded binary object from AdditionalDocumentReference
type Attachment struct {
	ReferenceID string `json:"reference_id,omitempty"`
	Filename    string `json:"filename,omitempty"`
	MimeCode    string `json:"mime_code,omitempty"`
	// Content is the base64 text as found in the document
	Content string `json:"-"`
}

// Document is a parsed UBL Invoice or CreditNote.
// Kind selects which of InvoiceLines / CreditNoteLines is populated.
type Document struct {
	Kind         DocumentKind `json:"kind"`
	ID           string       `json:"id"`
	IssueDate    time.Time    `json:"issue_date"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
	CurrencyCode string       `json:"currency_code"`

	Supplier Party `json:"supplier"`
	Customer Party `json:"customer"`

	// TaxAmount is the document-currency cac:TaxTotal/cbc:TaxAmount
	TaxAmount     *Amount        `json:"tax_amount,omitempty"`
	MonetaryTotal *MonetaryTotal `json:"monetary_total,omitempty"`

	AllowanceCharges []AllowanceCharge `json:"allowance_charges,omitempty"`
	Attachments      []Attachment      `json:"attachments,omitempty"`

	InvoiceLines    []InvoiceLine    `json:"invoice_lines,omitempty"`
	CreditNoteLines []CreditNoteLine `json:"credit_note_lines,omitempty"`

	// Metadata
	RawXML     []byte `json:"-"`
	SourceFile string `json:"source_file,omitempty"`
}

// Lines returns the lines of the populated variant
func (d *Document) Lines() []Line {
	switch d.Kind {
	case KindInvoice:
		lines := make([]Line, len(d.InvoiceLines))
		for i := range d.InvoiceLines {
			lines[i] = &d.InvoiceLines[i]
		}
		return lines
	case KindCreditNote:
		lines := make([]Line, len(d.CreditNoteLines))
		for i := range d.CreditNoteLines {
			lines[i] = &d.CreditNoteLines[i]
		}
		return lines
	default:
		return nil
	}
}

// IsCreditNote reports whether the document reverses a prior invoice
func (d *Document) IsCreditNote() bool {
	return d.Kind == KindCreditNote
}

// Currency returns the document currency, defaulting to RON
func (d *Document) Currency() string {
	if d.CurrencyCode == "" {
		return DefaultCurrency
	}
	return d.CurrencyCode
}

// SupplierName resolves the supplier's display name
func (d *Document) SupplierName() string {
	return d.Supplier.DisplayName()
}

// PayableAmount parses LegalMonetaryTotal/PayableAmount
func (d *Document) PayableAmount() (decimal.Decimal, error) {
	if d.MonetaryTotal == nil || d.MonetaryTotal.PayableAmount == nil {
		return decimal.Zero, NewTotalsError(d.ID, "PayableAmount", "document has no payable amount")
	}
	v, err := d.MonetaryTotal.PayableAmount.Decimal()
	if err != nil {
		return decimal.Zero, NewTotalsError(d.ID, "PayableAmount", "payable amount is not numeric: "+err.Error())
	}
	return v, nil
}

// TaxTotal parses the document tax amount; an absent TaxTotal means no VAT
func (d *Document) TaxTotal() (decimal.Decimal, error) {
	if d.TaxAmount == nil {
		return decimal.Zero, nil
	}
	v, err := d.TaxAmount.Decimal()
	if err != nil {
		return decimal.Zero, NewTotalsError(d.ID, "TaxAmount", "tax amount is not numeric: "+err.Error())
	}
	return v, nil
}

// TaxExclusiveAmount parses TaxExclusiveAmount, falling back to payable minus tax when absent
func (d *Document) TaxExclusiveAmount() (decimal.Decimal, error) {
	payable, err := d.PayableAmount()
	if err != nil {
		return decimal.Zero, err
	}
	if d.MonetaryTotal.TaxExclusiveAmount == nil {
		tax, err := d.TaxTotal()
		if err != nil {
			return decimal.Zero, err
		}
		return payable.Sub(tax), nil
	}
	v, err := d.MonetaryTotal.TaxExclusiveAmount.Decimal()
	if err != nil {
		return decimal.Zero, NewTotalsError(d.ID, "TaxExclusiveAmount", "tax exclusive amount is not numeric: "+err.Error())
	}
	return v, nil
}

// TaxInclusiveAmount parses TaxInclusiveAmount, falling back to the payable amount when absent
func (d *Document) TaxInclusiveAmount() (decimal.Decimal, error) {
	payable, err := d.PayableAmount()
	if err != nil {
		return decimal.Zero, err
	}
	if d.MonetaryTotal.TaxInclusiveAmount == nil {
		return payable, nil
	}
	v, err := d.MonetaryTotal.TaxInclusiveAmount.Decimal()
	if err != nil {
		return decimal.Zero, NewTotalsError(d.ID, "TaxInclusiveAmount", "tax inclusive amount is not numeric: "+err.Error())
	}
	return v, nil
}
