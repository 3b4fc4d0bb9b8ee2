package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSummaryRow is the reconciled figures of one document line.
// Monetary values are signed: credit note rows are negative.
type ProductSummaryRow struct {
	Supplier       string    `json:"supplier"`
	DocumentNumber string    `json:"document_number"`
	IssueDate      time.Time `json:"issue_date"`
	Currency       string    `json:"currency"`
	IsCreditNote   bool      `json:"is_credit_note"`

	TotalInvoice decimal.Decimal `json:"total_invoice"`
	TotalPayable decimal.Decimal `json:"total_payable"`

	Product       string              `json:"product"`
	ProductCode   string              `json:"product_code,omitempty"`
	Quantity      decimal.Decimal     `json:"quantity"`
	UnitOfMeasure string              `json:"unit_of_measure,omitempty"`
	UnitPrice     decimal.NullDecimal `json:"unit_price"`

	Value         decimal.Decimal `json:"value"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	VATValue      decimal.Decimal `json:"vat_value"`
	DiscountRate  decimal.Decimal `json:"discount_rate"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	TotalPerLine  decimal.Decimal `json:"total_per_line"`
}

// SummaryRow is the document level summary
type SummaryRow struct {
	DocumentNumber string          `json:"document_number"`
	Supplier       string          `json:"supplier"`
	IssueDate      time.Time       `json:"issue_date"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	PayableAmount  decimal.Decimal `json:"payable_amount"`
	Currency       string          `json:"currency"`
	IsCreditNote   bool            `json:"is_credit_note"`
}
