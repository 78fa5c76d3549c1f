package quote

import (
	"time"

	"github.com/chantier/backend/internal/domain/quote"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateQuoteRequest represents a request to create a new quote
type CreateQuoteRequest struct {
	ClientName   string     `json:"client_name" binding:"required,min=1,max=200"`
	Object       string     `json:"object" binding:"max=500"`
	RetentionPct *int       `json:"retenue_garantie_pct"`
	ValidityDate *time.Time `json:"validity_date"`
	CommercialID *uuid.UUID `json:"commercial_id"`
	AuthorID     uuid.UUID  `json:"-"`
}

// AddLotRequest represents a request to add a lot to a quote
type AddLotRequest struct {
	Code     string     `json:"code" binding:"required,min=1,max=50"`
	Label    string     `json:"label" binding:"required,min=1,max=200"`
	ParentID *uuid.UUID `json:"parent_id"`
	AuthorID uuid.UUID  `json:"-"`
}

// AddLineRequest represents a request to add a line to a quote lot
type AddLineRequest struct {
	LotID       uuid.UUID       `json:"lot_id" binding:"required"`
	Designation string          `json:"designation" binding:"required,min=1,max=500"`
	Unit        string          `json:"unit" binding:"required,min=1,max=20"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPriceHT decimal.Decimal `json:"unit_price_ht" binding:"required"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	ArticleID   *uuid.UUID      `json:"article_id"`
	AuthorID    uuid.UUID       `json:"-"`
}

// AddCostEntryRequest represents a request to itemize a cost under a line
type AddCostEntryRequest struct {
	LineID     uuid.UUID       `json:"line_id" binding:"required"`
	Category   string          `json:"category" binding:"required"`
	Label      string          `json:"label" binding:"required,min=1,max=200"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price" binding:"required"`
	Trade      string          `json:"trade"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	AuthorID   uuid.UUID       `json:"-"`
}

// TransitionRequest represents a workflow action on a quote
type TransitionRequest struct {
	Action   string    `json:"action" binding:"required"`
	Role     string    `json:"role" binding:"required"`
	Motive   string    `json:"motive" binding:"max=500"`
	AuthorID uuid.UUID `json:"-"`
}

// AssignResponsibleRequest represents a request to assign a commercial or a
// conducteur de travaux to a quote
type AssignResponsibleRequest struct {
	CommercialID *uuid.UUID `json:"commercial_id"`
	ConducteurID *uuid.UUID `json:"conducteur_id"`
	AuthorID     uuid.UUID  `json:"-"`
}

// CostEntryResponse represents a cost entry in API responses
type CostEntryResponse struct {
	ID         uuid.UUID       `json:"id"`
	Category   string          `json:"category"`
	Label      string          `json:"label"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Trade      string          `json:"trade,omitempty"`
	HourlyRate decimal.Decimal `json:"hourly_rate,omitempty"`
	Total      decimal.Decimal `json:"total"`
}

// QuoteLineResponse represents a quote line in API responses
type QuoteLineResponse struct {
	ID          uuid.UUID            `json:"id"`
	Designation string               `json:"designation"`
	Unit        string               `json:"unit"`
	Quantity    decimal.Decimal      `json:"quantity"`
	UnitPriceHT decimal.Decimal      `json:"unit_price_ht"`
	VATRate     decimal.Decimal      `json:"vat_rate"`
	MontantHT   decimal.Decimal      `json:"montant_ht"`
	MontantTTC  decimal.Decimal      `json:"montant_ttc"`
	MarginPct   *decimal.Decimal     `json:"margin_pct,omitempty"`
	ArticleID   *uuid.UUID           `json:"article_id,omitempty"`
	CostEntries []CostEntryResponse  `json:"cost_entries"`
	Breakdown   *quote.CostBreakdown `json:"breakdown,omitempty"`
}

// QuoteLotResponse represents a quote lot in API responses
type QuoteLotResponse struct {
	ID        uuid.UUID           `json:"id"`
	Code      string              `json:"code"`
	Label     string              `json:"label"`
	Order     int                 `json:"order"`
	ParentID  *uuid.UUID          `json:"parent_id,omitempty"`
	MarginPct *decimal.Decimal    `json:"margin_pct,omitempty"`
	TotalHT   decimal.Decimal     `json:"total_ht"`
	TotalTTC  decimal.Decimal     `json:"total_ttc"`
	CostSec   decimal.Decimal     `json:"cost_sec"`
	Lines     []QuoteLineResponse `json:"lines"`
}

// QuoteResponse is the full internal view of a quote, cost data included
type QuoteResponse struct {
	ID              uuid.UUID                  `json:"id"`
	Number          string                     `json:"number"`
	ClientName      string                     `json:"client_name"`
	Object          string                     `json:"object"`
	Status          string                     `json:"status"`
	ValidityDate    *time.Time                 `json:"validity_date,omitempty"`
	RetentionPct    int                        `json:"retenue_garantie_pct"`
	CommercialID    *uuid.UUID                 `json:"commercial_id,omitempty"`
	ConducteurID    *uuid.UUID                 `json:"conducteur_id,omitempty"`
	Lots            []QuoteLotResponse         `json:"lots"`
	TotalHT         decimal.Decimal            `json:"total_ht"`
	TotalTTC        decimal.Decimal            `json:"total_ttc"`
	CostSec         decimal.Decimal            `json:"cost_sec"`
	RetentionAmount decimal.Decimal            `json:"retenue_garantie"`
	NetPayable      decimal.Decimal            `json:"net_a_payer"`
	MarginPct       *decimal.Decimal           `json:"margin_pct,omitempty"`
	VentilationTVA  []quote.VATVentilationLine `json:"ventilation_tva"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// QuoteListResponse represents a list item for quotes
type QuoteListResponse struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number"`
	ClientName   string          `json:"client_name"`
	Object       string          `json:"object"`
	Status       string          `json:"status"`
	TotalHT      decimal.Decimal `json:"total_ht"`
	TotalTTC     decimal.Decimal `json:"total_ttc"`
	CommercialID *uuid.UUID      `json:"commercial_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToQuoteResponse converts a quote aggregate to its full internal view
func ToQuoteResponse(q *quote.Quote) QuoteResponse {
	lots := make([]QuoteLotResponse, 0, len(q.Lots))
	for i := range q.Lots {
		lots = append(lots, toLotResponse(&q.Lots[i]))
	}

	resp := QuoteResponse{
		ID:              q.ID,
		Number:          q.Number,
		ClientName:      q.ClientName,
		Object:          q.Object,
		Status:          string(q.Status),
		ValidityDate:    q.ValidityDate,
		RetentionPct:    q.RetentionPct,
		CommercialID:    q.CommercialID,
		ConducteurID:    q.ConducteurID,
		Lots:            lots,
		TotalHT:         q.TotalHT(),
		TotalTTC:        q.TotalTTC(),
		CostSec:         q.CostSec(),
		RetentionAmount: q.RetentionAmount(),
		NetPayable:      q.NetPayable(),
		VentilationTVA:  q.VentilationTVA(),
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
	if margin, ok := q.Margin(); ok {
		resp.MarginPct = &margin
	}
	return resp
}

func toLotResponse(lot *quote.QuoteLot) QuoteLotResponse {
	lines := make([]QuoteLineResponse, 0, len(lot.Lines))
	for i := range lot.Lines {
		lines = append(lines, toLineResponse(&lot.Lines[i]))
	}
	return QuoteLotResponse{
		ID:        lot.ID,
		Code:      lot.Code,
		Label:     lot.Label,
		Order:     lot.Order,
		ParentID:  lot.ParentID,
		MarginPct: lot.MarginPct,
		TotalHT:   lot.TotalHT(),
		TotalTTC:  lot.TotalTTC(),
		CostSec:   lot.CostSec(),
		Lines:     lines,
	}
}

func toLineResponse(line *quote.QuoteLine) QuoteLineResponse {
	entries := make([]CostEntryResponse, 0, len(line.CostEntries))
	for i := range line.CostEntries {
		e := &line.CostEntries[i]
		entries = append(entries, CostEntryResponse{
			ID:         e.ID,
			Category:   string(e.Category),
			Label:      e.Label,
			Quantity:   e.Quantity,
			UnitPrice:  e.UnitPrice,
			Trade:      e.Trade,
			HourlyRate: e.HourlyRate,
			Total:      e.Total(),
		})
	}

	resp := QuoteLineResponse{
		ID:          line.ID,
		Designation: line.Designation,
		Unit:        line.Unit,
		Quantity:    line.Quantity,
		UnitPriceHT: line.UnitPriceHT,
		VATRate:     line.VATRate,
		MontantHT:   line.MontantHT,
		MontantTTC:  line.MontantTTC,
		MarginPct:   line.MarginPct,
		ArticleID:   line.ArticleID,
		CostEntries: entries,
	}
	if len(line.CostEntries) > 0 {
		breakdown := line.Breakdown()
		resp.Breakdown = &breakdown
	}
	return resp
}

// ToQuoteListResponse converts a quote to its list view
func ToQuoteListResponse(q *quote.Quote) QuoteListResponse {
	return QuoteListResponse{
		ID:           q.ID,
		Number:       q.Number,
		ClientName:   q.ClientName,
		Object:       q.Object,
		Status:       string(q.Status),
		TotalHT:      q.TotalHT(),
		TotalTTC:     q.TotalTTC(),
		CommercialID: q.CommercialID,
		CreatedAt:    q.CreatedAt,
	}
}
