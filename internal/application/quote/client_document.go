package quote

import (
	"context"
	"time"

	"github.com/chantier/backend/internal/domain/quote"
	"github.com/shopspring/decimal"
)

// ClientDocument is the client-facing projection of a quote. The type has no
// field for cost entries, margins or cost-sec totals, so internal cost data
// cannot leak into a rendered document by construction.
type ClientDocument struct {
	Number          string                     `json:"number"`
	ClientName      string                     `json:"client_name"`
	Object          string                     `json:"object"`
	ValidityDate    *time.Time                 `json:"validity_date,omitempty"`
	PaymentTerms    string                     `json:"payment_terms,omitempty"`
	Lots            []ClientDocumentLot        `json:"lots"`
	TotalHT         decimal.Decimal            `json:"total_ht"`
	TotalTTC        decimal.Decimal            `json:"total_ttc"`
	RetentionPct    int                        `json:"retenue_garantie_pct"`
	RetentionAmount decimal.Decimal            `json:"retenue_garantie"`
	NetPayable      decimal.Decimal            `json:"net_a_payer"`
	VentilationTVA  []quote.VATVentilationLine `json:"ventilation_tva,omitempty"`
	Presentation    quote.PresentationOptions  `json:"presentation"`
}

// ClientDocumentLot is one lot of the client-facing document
type ClientDocumentLot struct {
	Code     string               `json:"code"`
	Label    string               `json:"label"`
	TotalHT  *decimal.Decimal     `json:"total_ht,omitempty"`
	TotalTTC *decimal.Decimal     `json:"total_ttc,omitempty"`
	Lines    []ClientDocumentLine `json:"lines"`
}

// ClientDocumentLine is one line of the client-facing document. Unit prices
// are omitted when the presentation options hide them.
type ClientDocumentLine struct {
	Designation string           `json:"designation"`
	Unit        string           `json:"unit"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPriceHT *decimal.Decimal `json:"unit_price_ht,omitempty"`
	VATRate     decimal.Decimal  `json:"vat_rate"`
	MontantHT   decimal.Decimal  `json:"montant_ht"`
	MontantTTC  decimal.Decimal  `json:"montant_ttc"`
}

// PDFRenderer renders a client document to a PDF byte stream
type PDFRenderer interface {
	Render(ctx context.Context, doc ClientDocument) ([]byte, error)
}

// ToClientDocument projects a quote onto its client-facing document,
// honoring the quote's presentation options
func ToClientDocument(q *quote.Quote) ClientDocument {
	doc := ClientDocument{
		Number:          q.Number,
		ClientName:      q.ClientName,
		Object:          q.Object,
		ValidityDate:    q.ValidityDate,
		PaymentTerms:    q.PaymentTerms,
		Lots:            make([]ClientDocumentLot, 0, len(q.Lots)),
		TotalHT:         q.TotalHT(),
		TotalTTC:        q.TotalTTC(),
		RetentionPct:    q.RetentionPct,
		RetentionAmount: q.RetentionAmount(),
		NetPayable:      q.NetPayable(),
		Presentation:    q.Presentation,
	}

	if q.Presentation.ShowVATDetail {
		doc.VentilationTVA = q.VentilationTVA()
	}

	for i := range q.Lots {
		lot := &q.Lots[i]
		docLot := ClientDocumentLot{
			Code:  lot.Code,
			Label: lot.Label,
			Lines: make([]ClientDocumentLine, 0, len(lot.Lines)),
		}
		if q.Presentation.ShowLotSubtotals {
			ht := lot.TotalHT()
			ttc := lot.TotalTTC()
			docLot.TotalHT = &ht
			docLot.TotalTTC = &ttc
		}
		for j := range lot.Lines {
			line := &lot.Lines[j]
			docLine := ClientDocumentLine{
				Designation: line.Designation,
				Unit:        line.Unit,
				Quantity:    line.Quantity,
				VATRate:     line.VATRate,
				MontantHT:   line.MontantHT,
				MontantTTC:  line.MontantTTC,
			}
			if q.Presentation.ShowUnitPrices {
				pu := line.UnitPriceHT
				docLine.UnitPriceHT = &pu
			}
			docLot.Lines = append(docLot.Lines, docLine)
		}
		doc.Lots = append(doc.Lots, docLot)
	}

	return doc
}
