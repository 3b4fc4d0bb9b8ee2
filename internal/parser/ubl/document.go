package ubl

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/rezonia/efactura-reconciler/internal/model"
)

// UBL 2.1 structures shared by Invoice and CreditNote.
// Tags carry no namespace so cbc/cac prefixes resolve by local name.

type amountXML struct {
	Value      string `xml:",chardata"`
	CurrencyID string `xml:"currencyID,attr"`
}

type quantityXML struct {
	Value    string `xml:",chardata"`
	UnitCode string `xml:"unitCode,attr"`
}

type partyXML struct {
	PartyName *struct {
		Name string `xml:"Name"`
	} `xml:"PartyName"`
	PostalAddress struct {
		CityName string `xml:"CityName"`
		Country  struct {
			IdentificationCode string `xml:"IdentificationCode"`
		} `xml:"Country"`
	} `xml:"PostalAddress"`
	PartyTaxScheme []struct {
		CompanyID string `xml:"CompanyID"`
	} `xml:"PartyTaxScheme"`
	PartyLegalEntity struct {
		RegistrationName string `xml:"RegistrationName"`
		CompanyID        string `xml:"CompanyID"`
	} `xml:"PartyLegalEntity"`
}

type partyRefXML struct {
	Party partyXML `xml:"Party"`
}

type allowanceChargeXML struct {
	ChargeIndicator string     `xml:"ChargeIndicator"`
	Reason          string     `xml:"AllowanceChargeReason"`
	Amount          *amountXML `xml:"Amount"`
}

type itemXML struct {
	Name                      string `xml:"Name"`
	SellersItemIdentification struct {
		ID string `xml:"ID"`
	} `xml:"SellersItemIdentification"`
	ClassifiedTaxCategory struct {
		ID      string `xml:"ID"`
		Percent string `xml:"Percent"`
	} `xml:"ClassifiedTaxCategory"`
}

type priceXML struct {
	PriceAmount  *amountXML   `xml:"PriceAmount"`
	BaseQuantity *quantityXML `xml:"BaseQuantity"`
}

type lineXML struct {
	ID                  string               `xml:"ID"`
	Note                []string             `xml:"Note"`
	LineExtensionAmount *amountXML           `xml:"LineExtensionAmount"`
	AllowanceCharge     []allowanceChargeXML `xml:"AllowanceCharge"`
	Item                itemXML              `xml:"Item"`
	Price               *priceXML            `xml:"Price"`
}

type invoiceLineXML struct {
	lineXML
	InvoicedQuantity *quantityXML `xml:"InvoicedQuantity"`
}

type creditNoteLineXML struct {
	lineXML
	CreditedQuantity *quantityXML `xml:"CreditedQuantity"`
}

type taxTotalXML struct {
	TaxAmount *amountXML `xml:"TaxAmount"`
}

type monetaryTotalXML struct {
	LineExtensionAmount   *amountXML `xml:"LineExtensionAmount"`
	TaxExclusiveAmount    *amountXML `xml:"TaxExclusiveAmount"`
	TaxInclusiveAmount    *amountXML `xml:"TaxInclusiveAmount"`
	AllowanceTotalAmount  *amountXML `xml:"AllowanceTotalAmount"`
	ChargeTotalAmount     *amountXML `xml:"ChargeTotalAmount"`
	PrepaidAmount         *amountXML `xml:"PrepaidAmount"`
	PayableRoundingAmount *amountXML `xml:"PayableRoundingAmount"`
	PayableAmount         *amountXML `xml:"PayableAmount"`
}

type documentReferenceXML struct {
	ID         string `xml:"ID"`
	Attachment *struct {
		Embedded *struct {
			Value    string `xml:",chardata"`
			MimeCode string `xml:"mimeCode,attr"`
			Filename string `xml:"filename,attr"`
		} `xml:"EmbeddedDocumentBinaryObject"`
	} `xml:"Attachment"`
}

type documentXML struct {
	XMLName                     xml.Name
	ID                          string                 `xml:"ID"`
	IssueDate                   string                 `xml:"IssueDate"`
	DueDate                     string                 `xml:"DueDate"`
	DocumentCurrencyCode        string                 `xml:"DocumentCurrencyCode"`
	AdditionalDocumentReference []documentReferenceXML `xml:"AdditionalDocumentReference"`
	AccountingSupplierParty     partyRefXML            `xml:"AccountingSupplierParty"`
	AccountingCustomerParty     partyRefXML            `xml:"AccountingCustomerParty"`
	PaymentMeans                []struct {
		PaymentDueDate string `xml:"PaymentDueDate"`
	} `xml:"PaymentMeans"`
	AllowanceCharge    []allowanceChargeXML `xml:"AllowanceCharge"`
	TaxTotal           []taxTotalXML        `xml:"TaxTotal"`
	LegalMonetaryTotal *monetaryTotalXML    `xml:"LegalMonetaryTotal"`
	InvoiceLines       []invoiceLineXML     `xml:"InvoiceLine"`
	CreditNoteLines    []creditNoteLineXML  `xml:"CreditNoteLine"`
}

func decodeDocument(kind model.DocumentKind, content []byte) (*documentXML, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.CharsetReader = charsetReader

	var doc documentXML
	if err := dec.Decode(&doc); err != nil {
		return nil, model.NewParseError(kind, "xml", "failed to parse XML", err)
	}
	if doc.XMLName.Local != string(kind) {
		return nil, model.NewParseError(kind, "root", "unexpected root element "+doc.XMLName.Local, model.ErrUnsupportedDocument)
	}
	return &doc, nil
}

// convertDocument maps the decoded header; lines are filled by the adapters
func convertDocument(kind model.DocumentKind, doc *documentXML, rawXML []byte) (*model.Document, error) {
	id := strings.TrimSpace(doc.ID)
	if id == "" {
		return nil, model.NewParseError(kind, "ID", "document has no ID", nil)
	}

	issued, err := parseDate(doc.IssueDate)
	if err != nil {
		return nil, model.NewParseError(kind, "IssueDate", "invalid issue date", err)
	}

	result := &model.Document{
		Kind:             kind,
		ID:               id,
		IssueDate:        issued,
		CurrencyCode:     strings.TrimSpace(doc.DocumentCurrencyCode),
		Supplier:         convertParty(doc.AccountingSupplierParty.Party),
		Customer:         convertParty(doc.AccountingCustomerParty.Party),
		AllowanceCharges: convertAllowanceCharges(doc.AllowanceCharge),
		Attachments:      convertAttachments(doc.AdditionalDocumentReference),
		RawXML:           rawXML,
	}

	result.DueDate = parseOptionalDate(doc.DueDate)
	for _, pm := range doc.PaymentMeans {
		if result.DueDate != nil {
			break
		}
		result.DueDate = parseOptionalDate(pm.PaymentDueDate)
	}

	result.TaxAmount = selectTaxAmount(doc.TaxTotal, result.CurrencyCode)
	if mt := doc.LegalMonetaryTotal; mt != nil {
		result.MonetaryTotal = &model.MonetaryTotal{
			LineExtensionAmount:   convertAmount(mt.LineExtensionAmount),
			TaxExclusiveAmount:    convertAmount(mt.TaxExclusiveAmount),
			TaxInclusiveAmount:    convertAmount(mt.TaxInclusiveAmount),
			AllowanceTotalAmount:  convertAmount(mt.AllowanceTotalAmount),
			ChargeTotalAmount:     convertAmount(mt.ChargeTotalAmount),
			PrepaidAmount:         convertAmount(mt.PrepaidAmount),
			PayableRoundingAmount: convertAmount(mt.PayableRoundingAmount),
			PayableAmount:         convertAmount(mt.PayableAmount),
		}
	}

	return result, nil
}

// selectTaxAmount prefers the TaxTotal expressed in the document currency.
// Documents in a foreign currency carry a second TaxTotal in the tax currency.
func selectTaxAmount(totals []taxTotalXML, currency string) *model.Amount {
	var first *model.Amount
	for _, tt := range totals {
		if tt.TaxAmount == nil {
			continue
		}
		amount := convertAmount(tt.TaxAmount)
		if currency != "" && strings.EqualFold(amount.CurrencyID, currency) {
			return amount
		}
		if first == nil {
			first = amount
		}
	}
	return first
}

func convertAmount(a *amountXML) *model.Amount {
	if a == nil {
		return nil
	}
	return &model.Amount{
		Value:      strings.TrimSpace(a.Value),
		CurrencyID: strings.TrimSpace(a.CurrencyID),
	}
}

func convertQuantity(q *quantityXML) *model.Quantity {
	if q == nil {
		return nil
	}
	return &model.Quantity{
		Value:    strings.TrimSpace(q.Value),
		UnitCode: strings.TrimSpace(q.UnitCode),
	}
}

func convertParty(p partyXML) model.Party {
	party := model.Party{
		RegistrationName: strings.TrimSpace(p.PartyLegalEntity.RegistrationName),
		CompanyID:        strings.TrimSpace(p.PartyLegalEntity.CompanyID),
		City:             strings.TrimSpace(p.PostalAddress.CityName),
		Country:          strings.TrimSpace(p.PostalAddress.Country.IdentificationCode),
	}
	if p.PartyName != nil {
		party.Name = strings.TrimSpace(p.PartyName.Name)
	}
	for _, ts := range p.PartyTaxScheme {
		if id := strings.TrimSpace(ts.CompanyID); id != "" {
			party.VATID = id
			break
		}
	}
	return party
}

func convertAllowanceCharges(entries []allowanceChargeXML) []model.AllowanceCharge {
	if len(entries) == 0 {
		return nil
	}
	out := make([]model.AllowanceCharge, len(entries))
	for i, e := range entries {
		out[i] = model.AllowanceCharge{
			ChargeIndicator: strings.EqualFold(strings.TrimSpace(e.ChargeIndicator), "true"),
			Reason:          strings.TrimSpace(e.Reason),
			Amount:          convertAmount(e.Amount),
		}
	}
	return out
}

func convertAttachments(refs []documentReferenceXML) []model.Attachment {
	var out []model.Attachment
	for _, ref := range refs {
		if ref.Attachment == nil || ref.Attachment.Embedded == nil {
			continue
		}
		emb := ref.Attachment.Embedded
		out = append(out, model.Attachment{
			ReferenceID: strings.TrimSpace(ref.ID),
			Filename:    strings.TrimSpace(emb.Filename),
			MimeCode:    strings.TrimSpace(emb.MimeCode),
			Content:     emb.Value,
		})
	}
	return out
}

func convertLine(l lineXML) model.LineBase {
	base := model.LineBase{
		ID:                  strings.TrimSpace(l.ID),
		Note:                strings.TrimSpace(strings.Join(l.Note, " ")),
		LineExtensionAmount: convertAmount(l.LineExtensionAmount),
		AllowanceCharges:    convertAllowanceCharges(l.AllowanceCharge),
		Item: model.Item{
			Name:         strings.TrimSpace(l.Item.Name),
			SellerItemID: strings.TrimSpace(l.Item.SellersItemIdentification.ID),
			TaxCategory:  strings.TrimSpace(l.Item.ClassifiedTaxCategory.ID),
			TaxPercent:   strings.TrimSpace(l.Item.ClassifiedTaxCategory.Percent),
		},
	}
	if l.Price != nil {
		base.Price = &model.Price{
			PriceAmount:  convertAmount(l.Price.PriceAmount),
			BaseQuantity: convertQuantity(l.Price.BaseQuantity),
		}
	}
	return base
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	formats := []string{
		"2006-01-02",
		"2006-01-02Z07:00",
		"2006-01-02T15:04:05",
		"02.01.2006",
		"02/01/2006",
		time.RFC3339,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse date: %q", s)
}

func parseOptionalDate(s string) *time.Time {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil
	}
	return &t
}
