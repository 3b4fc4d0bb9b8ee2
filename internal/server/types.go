package server

import (
	"github.com/rezonia/efactura-reconciler/internal/attachment"
	"github.com/rezonia/efactura-reconciler/internal/model"
	"github.com/rezonia/efactura-reconciler/internal/parser/ubl"
)

// ProductSummaryResponse is the response for the product-summary endpoint
type ProductSummaryResponse struct {
	Documents []DocumentReport          `json:"documents"`
	Rows      []model.ProductSummaryRow `json:"rows"`
	Warnings  []string                  `json:"warnings,omitempty"`
}

// DocumentReport is the reconciliation outcome of one document in the request
type DocumentReport struct {
	Source      string   `json:"source,omitempty"`
	DocumentID  string   `json:"document_id"`
	Kind        string   `json:"kind"`
	BaseType    string   `json:"base_type"`
	Rows        int      `json:"rows"`
	Absorbed    int      `json:"absorbed,omitempty"`
	Skipped     int      `json:"skipped,omitempty"`
	PayableDiff string   `json:"payable_diff"`
	Mismatch    bool     `json:"mismatch"`
	Warnings    []string `json:"warnings,omitempty"`
}

// SummaryResponse is the response for the summary endpoint
type SummaryResponse struct {
	Rows []model.SummaryRow `json:"rows"`
}

// InfoResponse is the response for info endpoint
type InfoResponse struct {
	Format      string            `json:"format"`
	Size        int               `json:"size"`
	Kind        string            `json:"kind,omitempty"`
	DocumentID  string            `json:"document_id,omitempty"`
	Supplier    string            `json:"supplier,omitempty"`
	Outline     *ubl.Outline      `json:"outline,omitempty"`
	Attachments []attachment.Info `json:"attachments,omitempty"`
	Entries     []string          `json:"entries,omitempty"`
	Pages       int               `json:"pages,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error    string   `json:"error"`
	Details  string   `json:"details,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
