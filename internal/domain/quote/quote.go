package quote

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/chantier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PresentationOptions controls which figures are shown on the client-facing
// document. Internal cost data is never part of that document regardless of
// these options.
type PresentationOptions struct {
	ShowUnitPrices   bool `json:"show_unit_prices"`
	ShowLotSubtotals bool `json:"show_lot_subtotals"`
	ShowVATDetail    bool `json:"show_vat_detail"`
}

// VATVentilationLine is one rate -> base -> VAT triple of the quote's VAT
// ventilation table
type VATVentilationLine struct {
	Rate decimal.Decimal `json:"rate"`
	Base decimal.Decimal `json:"base"`
	VAT  decimal.Decimal `json:"vat"`
}

// Quote is the devis aggregate root: a priced proposal sent to a client prior
// to contract. Totals are always the fold of its lots' totals; downstream
// consumers never re-derive them.
type Quote struct {
	shared.BaseAggregateRoot
	Number              string
	ClientName          string
	Object              string
	Status              QuoteStatus
	ValidityDate        *time.Time
	RetentionPct        int
	GlobalTargetMargin  *decimal.Decimal
	SegmentTargetMargin map[string]decimal.Decimal `gorm:"serializer:json"`
	OverheadCoeff       decimal.Decimal
	ProductivityCoeff   decimal.Decimal
	Presentation        PresentationOptions `gorm:"serializer:json"`
	PaymentTerms        string
	CommercialID        *uuid.UUID
	ConducteurID        *uuid.UUID
	Lots                []QuoteLot
	SubmittedAt         *time.Time
	SentAt              *time.Time
	SeenAt              *time.Time
	NegotiationAt       *time.Time
	AcceptedAt          *time.Time
	RefusedAt           *time.Time
	LostAt              *time.Time
	ExpiredAt           *time.Time
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a new quote in BROUILLON status. The retention percentage
// is validated through the GaranteeRetention value object: anything outside
// {0, 5} fails construction.
func NewQuote(number, clientName, object string, retentionPct int) (*Quote, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewInvalidValueError("Quote number cannot be empty")
	}
	if strings.TrimSpace(clientName) == "" {
		return nil, shared.NewInvalidValueError("Client name cannot be empty")
	}
	if _, err := valueobject.NewGaranteeRetention(retentionPct); err != nil {
		return nil, err
	}

	quote := &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            strings.TrimSpace(number),
		ClientName:        strings.TrimSpace(clientName),
		Object:            strings.TrimSpace(object),
		Status:            StatusBrouillon,
		RetentionPct:      retentionPct,
		OverheadCoeff:     decimal.NewFromInt(1),
		ProductivityCoeff: decimal.NewFromInt(1),
		Lots:              make([]QuoteLot, 0),
	}

	quote.AddDomainEvent(NewQuoteCreatedEvent(quote))

	return quote, nil
}

// Retention returns the garantee retention value object
func (q *Quote) Retention() valueobject.GaranteeRetention {
	// RetentionPct was validated at construction
	retention, _ := valueobject.NewGaranteeRetention(q.RetentionPct)
	return retention
}

// SetRetention changes the retention percentage, subject to the same
// statutory validation as construction
func (q *Quote) SetRetention(retentionPct int) error {
	if !q.CanModify() {
		return transitionRejected(q.Status, "Cannot change retention on a non-draft quote")
	}
	if _, err := valueobject.NewGaranteeRetention(retentionPct); err != nil {
		return err
	}
	q.RetentionPct = retentionPct
	q.UpdatedAt = time.Now()
	return nil
}

// SetValidityDate sets the date until which the quote stands
func (q *Quote) SetValidityDate(date time.Time) {
	q.ValidityDate = &date
	q.UpdatedAt = time.Now()
}

// SetTargetMargins sets the global and per-segment target margin rates
func (q *Quote) SetTargetMargins(global *decimal.Decimal, perSegment map[string]decimal.Decimal) error {
	if global != nil && global.IsNegative() {
		return shared.NewInvalidValueError("Global target margin cannot be negative")
	}
	for segment, margin := range perSegment {
		if margin.IsNegative() {
			return shared.NewInvalidValueError("Target margin for segment " + segment + " cannot be negative")
		}
	}
	q.GlobalTargetMargin = global
	q.SegmentTargetMargin = perSegment
	q.UpdatedAt = time.Now()
	return nil
}

// SetCoefficients sets the overhead and productivity coefficients
func (q *Quote) SetCoefficients(overhead, productivity decimal.Decimal) error {
	if overhead.LessThanOrEqual(decimal.Zero) || productivity.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidValueError("Coefficients must be positive")
	}
	q.OverheadCoeff = overhead
	q.ProductivityCoeff = productivity
	q.UpdatedAt = time.Now()
	return nil
}

// SetPresentation sets the client-document presentation options
func (q *Quote) SetPresentation(options PresentationOptions) {
	q.Presentation = options
	q.UpdatedAt = time.Now()
}

// SetPaymentTerms sets the moyens de paiement text
func (q *Quote) SetPaymentTerms(terms string) {
	q.PaymentTerms = terms
	q.UpdatedAt = time.Now()
}

// AssignCommercial assigns the commercial responsible for the quote
func (q *Quote) AssignCommercial(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewInvalidValueError("Commercial ID cannot be empty")
	}
	q.CommercialID = &userID
	q.UpdatedAt = time.Now()
	q.AddDomainEvent(NewQuoteResponsibleAssignedEvent(q, "commercial", userID))
	return nil
}

// AssignConducteur assigns the conducteur de travaux responsible for the quote
func (q *Quote) AssignConducteur(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewInvalidValueError("Conducteur ID cannot be empty")
	}
	q.ConducteurID = &userID
	q.UpdatedAt = time.Now()
	q.AddDomainEvent(NewQuoteResponsibleAssignedEvent(q, "conducteur", userID))
	return nil
}

// CanModify returns true while the quote content is editable
func (q *Quote) CanModify() bool {
	return q.Status == StatusBrouillon
}

// AddLot appends a lot to the quote
func (q *Quote) AddLot(code, label string) (*QuoteLot, error) {
	if !q.CanModify() {
		return nil, transitionRejected(q.Status, "Cannot add lots to a non-draft quote")
	}
	for _, lot := range q.Lots {
		if lot.Code == strings.TrimSpace(code) {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Lot code already exists on this quote")
		}
	}

	lot, err := NewQuoteLot(q.ID, code, label, len(q.Lots)+1)
	if err != nil {
		return nil, err
	}

	q.Lots = append(q.Lots, *lot)
	q.UpdatedAt = time.Now()

	return lot, nil
}

// GetLot returns a lot by its ID
func (q *Quote) GetLot(lotID uuid.UUID) *QuoteLot {
	for idx := range q.Lots {
		if q.Lots[idx].ID == lotID {
			return &q.Lots[idx]
		}
	}
	return nil
}

// AddLine creates a line inside one of the quote's lots
func (q *Quote) AddLine(lotID uuid.UUID, designation, unit string, quantity, unitPriceHT, vatRate decimal.Decimal) (*QuoteLine, error) {
	if !q.CanModify() {
		return nil, transitionRejected(q.Status, "Cannot add lines to a non-draft quote")
	}
	lot := q.GetLot(lotID)
	if lot == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Lot not found on this quote")
	}

	line, err := NewQuoteLine(lotID, designation, unit, quantity, unitPriceHT, vatRate)
	if err != nil {
		return nil, err
	}

	lot.Lines = append(lot.Lines, *line)
	q.UpdatedAt = time.Now()

	return line, nil
}

// TotalHT is the sum of the lots' HT totals
func (q *Quote) TotalHT() decimal.Decimal {
	total := decimal.Zero
	for idx := range q.Lots {
		total = total.Add(q.Lots[idx].TotalHT())
	}
	return total
}

// TotalTTC is the sum of the lots' TTC totals
func (q *Quote) TotalTTC() decimal.Decimal {
	total := decimal.Zero
	for idx := range q.Lots {
		total = total.Add(q.Lots[idx].TotalTTC())
	}
	return total
}

// CostSec is the sum of the lots' raw cost totals
func (q *Quote) CostSec() decimal.Decimal {
	total := decimal.Zero
	for idx := range q.Lots {
		total = total.Add(q.Lots[idx].CostSec())
	}
	return total
}

// RetentionAmount is the garantee retention computed on the HT total
func (q *Quote) RetentionAmount() decimal.Decimal {
	return q.Retention().AmountOn(q.TotalHT())
}

// NetPayable is the TTC total minus the retention (retention on HT)
func (q *Quote) NetPayable() decimal.Decimal {
	return q.Retention().NetPayable(q.TotalTTC(), q.TotalHT())
}

// Margin is the quote's site margin against its raw cost; undefined when the
// HT total is not positive
func (q *Quote) Margin() (decimal.Decimal, bool) {
	return valueobject.SiteMargin(q.TotalHT(), q.CostSec())
}

// VentilationTVA builds the rate -> base -> VAT triples over all lines.
// Per-line VAT amounts are already rounded, so the ventilation sums rounded
// values and stays consistent with the TTC totals.
func (q *Quote) VentilationTVA() []VATVentilationLine {
	type acc struct {
		base decimal.Decimal
		vat  decimal.Decimal
	}
	byRate := make(map[string]*acc)
	rates := make(map[string]decimal.Decimal)

	for lotIdx := range q.Lots {
		for lineIdx := range q.Lots[lotIdx].Lines {
			line := &q.Lots[lotIdx].Lines[lineIdx]
			key := line.VATRate.String()
			entry, ok := byRate[key]
			if !ok {
				entry = &acc{base: decimal.Zero, vat: decimal.Zero}
				byRate[key] = entry
				rates[key] = line.VATRate
			}
			entry.base = entry.base.Add(line.MontantHT)
			entry.vat = entry.vat.Add(line.VATAmount())
		}
	}

	keys := make([]string, 0, len(byRate))
	for key := range byRate {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return rates[keys[i]].LessThan(rates[keys[j]])
	})

	ventilation := make([]VATVentilationLine, 0, len(keys))
	for _, key := range keys {
		ventilation = append(ventilation, VATVentilationLine{
			Rate: rates[key],
			Base: byRate[key].base,
			VAT:  byRate[key].vat,
		})
	}
	return ventilation
}

// transition moves the quote to the target status after checking the topology
func (q *Quote) transition(target QuoteStatus, stamp **time.Time) error {
	if !q.Status.CanTransitionTo(target) {
		return transitionRejected(q.Status, fmt.Sprintf("Cannot move quote from %s to %s", q.Status, target))
	}

	from := q.Status
	now := time.Now()
	q.Status = target
	if stamp != nil {
		*stamp = &now
	}
	q.UpdatedAt = now

	if target == StatusAccepte {
		q.AddDomainEvent(NewQuoteAcceptedEvent(q))
	} else {
		q.AddDomainEvent(NewQuoteStatusChangedEvent(q, from))
	}

	return nil
}

// Submit sends the draft quote into validation
func (q *Quote) Submit() error {
	return q.transition(StatusEnValidation, &q.SubmittedAt)
}

// Validate approves the quote and marks it sent to the client
func (q *Quote) Validate() error {
	return q.transition(StatusEnvoye, &q.SentAt)
}

// ReturnToDraft sends a quote in validation back to draft
func (q *Quote) ReturnToDraft() error {
	return q.transition(StatusBrouillon, nil)
}

// MarkSeen records that the client viewed the quote
func (q *Quote) MarkSeen() error {
	return q.transition(StatusVu, &q.SeenAt)
}

// StartNegotiation moves the quote into negotiation
func (q *Quote) StartNegotiation() error {
	return q.transition(StatusEnNegociation, &q.NegotiationAt)
}

// Accept marks the quote accepted by the client. Terminal.
func (q *Quote) Accept() error {
	return q.transition(StatusAccepte, &q.AcceptedAt)
}

// Refuse marks the quote refused by the client. Terminal.
func (q *Quote) Refuse() error {
	return q.transition(StatusRefuse, &q.RefusedAt)
}

// MarkLost marks the quote as lost to a competitor. Terminal.
func (q *Quote) MarkLost() error {
	return q.transition(StatusPerdu, &q.LostAt)
}

// Expire marks the quote expired past its validity date. Terminal.
func (q *Quote) Expire() error {
	return q.transition(StatusExpire, &q.ExpiredAt)
}

// Apply dispatches a workflow action to the matching transition
func (q *Quote) Apply(action Action) error {
	switch action {
	case ActionSoumettre:
		return q.Submit()
	case ActionValider:
		return q.Validate()
	case ActionRetournerBrouillon:
		return q.ReturnToDraft()
	case ActionMarquerVu:
		return q.MarkSeen()
	case ActionNegociation:
		return q.StartNegotiation()
	case ActionAccepter:
		return q.Accept()
	case ActionRefuser:
		return q.Refuse()
	case ActionPerdu:
		return q.MarkLost()
	case ActionExpirer:
		return q.Expire()
	}
	return shared.NewInvalidValueError("Unknown workflow action: " + string(action))
}

// IsTerminal returns true when the quote reached an outcome status
func (q *Quote) IsTerminal() bool {
	return q.Status.IsTerminal()
}

func transitionRejected(current QuoteStatus, message string) *shared.DomainError {
	return shared.NewDomainError(shared.CodeTransitionNotAllowed, message+" (current status: "+string(current)+")")
}
