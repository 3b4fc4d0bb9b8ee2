package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/efactura-reconciler/internal/model"
	"github.com/rezonia/efactura-reconciler/internal/summary"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

func outputJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func money(d decimal.Decimal, currency string) string {
	return d.StringFixed(2) + " " + currency
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}

func formatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return "-"
	}
	return p.Decimal.String()
}

var productSummaryHeader = []string{
	"supplier", "document_number", "issue_date", "currency", "total_payable",
	"product", "product_code", "quantity", "unit_of_measure", "unit_price",
	"value", "vat_rate", "vat_value", "discount_rate", "discount_value", "total_per_line",
}

func renderProductSummary(w io.Writer, rows []model.ProductSummaryRow) error {
	switch outputFormat {
	case formatJSON:
		return outputJSON(w, rows)

	case formatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(productSummaryHeader); err != nil {
			return err
		}
		for _, r := range rows {
			price := ""
			if r.UnitPrice.Valid {
				price = r.UnitPrice.Decimal.String()
			}
			record := []string{
				r.Supplier, r.DocumentNumber, r.IssueDate.Format(time.DateOnly), r.Currency, r.TotalPayable.StringFixed(2),
				r.Product, r.ProductCode, r.Quantity.String(), r.UnitOfMeasure, price,
				r.Value.StringFixed(2), r.VATRate.StringFixed(2), r.VATValue.StringFixed(2),
				r.DiscountRate.StringFixed(2), r.DiscountValue.StringFixed(2), r.TotalPerLine.StringFixed(2),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "SUPPLIER\tNUMBER\tDATE\tPAYABLE\tPRODUCT\tCODE\tQTY\tU.M.\tPRICE\tVALUE\tVAT %\tVAT\tDISC %\tDISCOUNT\tTOTAL\t")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s%%\t%s\t%s\t\n",
				r.Supplier,
				r.DocumentNumber,
				r.IssueDate.Format(time.DateOnly),
				money(r.TotalPayable, r.Currency),
				r.Product,
				dash(r.ProductCode),
				r.Quantity.String(),
				model.UnitLabel(r.UnitOfMeasure),
				formatPrice(r.UnitPrice),
				money(r.Value, r.Currency),
				r.VATRate.StringFixed(2),
				money(r.VATValue, r.Currency),
				r.DiscountRate.Abs().StringFixed(2),
				money(r.DiscountValue, r.Currency),
				money(r.TotalPerLine, r.Currency),
			)
		}
		return tw.Flush()
	}
}

var summaryHeader = []string{"document_number", "supplier", "issue_date", "due_date", "payable_amount", "currency", "is_credit_note"}

func renderSummary(w io.Writer, rows []model.SummaryRow) error {
	switch outputFormat {
	case formatJSON:
		return outputJSON(w, rows)

	case formatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(summaryHeader); err != nil {
			return err
		}
		for _, r := range rows {
			due := ""
			if r.DueDate != nil {
				due = r.DueDate.Format(time.DateOnly)
			}
			record := []string{
				r.DocumentNumber, r.Supplier, r.IssueDate.Format(time.DateOnly), due,
				r.PayableAmount.StringFixed(2), r.Currency, strconv.FormatBool(r.IsCreditNote),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NUMBER\tSUPPLIER\tISSUE DATE\tDUE DATE\tPAYABLE")
		fmt.Fprintln(tw, "------\t--------\t----------\t--------\t-------")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				r.DocumentNumber,
				r.Supplier,
				r.IssueDate.Format(time.DateOnly),
				formatDate(r.DueDate),
				money(r.PayableAmount, r.Currency),
			)
		}
		totals := summary.TotalsByCurrency(rows)
		currencies := make([]string, 0, len(totals))
		for c := range totals {
			currencies = append(currencies, c)
		}
		slices.Sort(currencies)
		for _, c := range currencies {
			fmt.Fprintf(tw, "\tTOTAL\t\t\t%s\n", money(totals[c], c))
		}
		return tw.Flush()
	}
}
