package quote

import (
	"context"

	"github.com/chantier/backend/internal/domain/journal"
	"github.com/chantier/backend/internal/domain/quote"
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// QuoteService handles quote-related business operations
type QuoteService struct {
	quoteRepo      quote.QuoteRepository
	journalRepo    journal.EntryRepository
	guard          *quote.WorkflowGuard
	eventPublisher shared.EventPublisher
	pdfRenderer    PDFRenderer
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quoteRepo quote.QuoteRepository,
	journalRepo journal.EntryRepository,
	guard *quote.WorkflowGuard,
) *QuoteService {
	return &QuoteService{
		quoteRepo:   quoteRepo,
		journalRepo: journalRepo,
		guard:       guard,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetPDFRenderer sets the renderer used for client documents
func (s *QuoteService) SetPDFRenderer(renderer PDFRenderer) {
	s.pdfRenderer = renderer
}

// Create creates a new quote in BROUILLON status
func (s *QuoteService) Create(ctx context.Context, req CreateQuoteRequest) (*QuoteResponse, error) {
	number, err := s.quoteRepo.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}

	retentionPct := 0
	if req.RetentionPct != nil {
		retentionPct = *req.RetentionPct
	}

	q, err := quote.NewQuote(number, req.ClientName, req.Object, retentionPct)
	if err != nil {
		return nil, err
	}

	if req.ValidityDate != nil {
		q.SetValidityDate(*req.ValidityDate)
	}
	if req.CommercialID != nil {
		if err := q.AssignCommercial(*req.CommercialID); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	if err := s.appendJournal(ctx, q.ID, "creation", req.AuthorID, nil, map[string]string{
		"numero": q.Number,
		"client": q.ClientName,
		"statut": string(q.Status),
	}, ""); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, q)

	resp := ToQuoteResponse(q)
	return &resp, nil
}

// GetByID retrieves a quote by ID with its full internal detail
func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToQuoteResponse(q)
	return &resp, nil
}

// Search lists quotes matching the filter with the total match count
func (s *QuoteService) Search(ctx context.Context, filter quote.SearchFilter) ([]QuoteListResponse, int64, error) {
	quotes, err := s.quoteRepo.Search(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.quoteRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]QuoteListResponse, 0, len(quotes))
	for i := range quotes {
		items = append(items, ToQuoteListResponse(&quotes[i]))
	}
	return items, total, nil
}

// AddLot adds a lot to a draft quote
func (s *QuoteService) AddLot(ctx context.Context, quoteID uuid.UUID, req AddLotRequest) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	lot, err := q.AddLot(req.Code, req.Label)
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		if err := lot.SetParent(*req.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	if err := s.appendJournal(ctx, q.ID, "ajout_lot", req.AuthorID, nil, map[string]string{
		"code":  lot.Code,
		"label": lot.Label,
	}, ""); err != nil {
		return nil, err
	}

	resp := ToQuoteResponse(q)
	return &resp, nil
}

// AddLine adds a line to a lot of a draft quote
func (s *QuoteService) AddLine(ctx context.Context, quoteID uuid.UUID, req AddLineRequest) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	line, err := q.AddLine(req.LotID, req.Designation, req.Unit, req.Quantity, req.UnitPriceHT, req.VATRate)
	if err != nil {
		return nil, err
	}
	if req.ArticleID != nil {
		if err := line.LinkArticle(*req.ArticleID); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	if err := s.appendJournal(ctx, q.ID, "ajout_ligne", req.AuthorID, nil, map[string]string{
		"designation": line.Designation,
		"montant_ht":  line.MontantHT.StringFixed(2),
	}, ""); err != nil {
		return nil, err
	}

	resp := ToQuoteResponse(q)
	return &resp, nil
}

// AddCostEntry itemizes a cost under a line of a draft quote
func (s *QuoteService) AddCostEntry(ctx context.Context, quoteID uuid.UUID, req AddCostEntryRequest) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if !q.CanModify() {
		return nil, shared.NewDomainError(shared.CodeTransitionNotAllowed, "Quote can only be modified in BROUILLON status")
	}

	line := findLine(q, req.LineID)
	if line == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Quote line not found")
	}

	category := quote.CostCategory(req.Category)
	var entry *quote.CostEntry
	if category == quote.CostCategoryLabor {
		entry, err = quote.NewLaborCostEntry(line.ID, req.Label, req.Trade, req.Quantity, req.HourlyRate)
	} else {
		entry, err = quote.NewCostEntry(line.ID, category, req.Label, req.Quantity, req.UnitPrice)
	}
	if err != nil {
		return nil, err
	}
	if err := line.AddCostEntry(entry); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	if err := s.appendJournal(ctx, q.ID, "ajout_cout", req.AuthorID, nil, map[string]string{
		"categorie": string(entry.Category),
		"label":     entry.Label,
		"total":     entry.Total().StringFixed(2),
	}, ""); err != nil {
		return nil, err
	}

	resp := ToQuoteResponse(q)
	return &resp, nil
}

// Transition applies a workflow action to a quote. The guard authorizes the
// role first, then the state machine decides whether the transition exists
// from the current status.
func (s *QuoteService) Transition(ctx context.Context, quoteID uuid.UUID, req TransitionRequest) (*QuoteResponse, error) {
	role := quote.Role(req.Role)
	if !role.IsValid() {
		return nil, shared.NewInvalidValueError("Unknown role: " + req.Role)
	}
	action := quote.Action(req.Action)
	if !action.IsValid() {
		return nil, shared.NewInvalidValueError("Unknown workflow action: " + req.Action)
	}

	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	totalHT := q.TotalHT()
	if err := s.guard.Authorize(role, action, &totalHT); err != nil {
		return nil, err
	}

	oldStatus := q.Status
	if err := q.Apply(action); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	if err := s.appendJournal(ctx, q.ID, "changement_statut", req.AuthorID,
		map[string]string{"statut": string(oldStatus)},
		map[string]string{"statut": string(q.Status)},
		req.Motive); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, q)

	resp := ToQuoteResponse(q)
	return &resp, nil
}

// AssignResponsible assigns the commercial or the conducteur de travaux
func (s *QuoteService) AssignResponsible(ctx context.Context, quoteID uuid.UUID, req AssignResponsibleRequest) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	newValues := make(map[string]string)
	if req.CommercialID != nil {
		if err := q.AssignCommercial(*req.CommercialID); err != nil {
			return nil, err
		}
		newValues["commercial_id"] = req.CommercialID.String()
	}
	if req.ConducteurID != nil {
		if err := q.AssignConducteur(*req.ConducteurID); err != nil {
			return nil, err
		}
		newValues["conducteur_id"] = req.ConducteurID.String()
	}
	if len(newValues) == 0 {
		return nil, shared.NewInvalidValueError("No responsible to assign")
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	if err := s.appendJournal(ctx, q.ID, "affectation_responsable", req.AuthorID, nil, newValues, ""); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, q)

	resp := ToQuoteResponse(q)
	return &resp, nil
}

// RenderClientPDF renders the client-facing document of a quote. The
// projection carries no cost entry, margin or cost-sec data.
func (s *QuoteService) RenderClientPDF(ctx context.Context, quoteID uuid.UUID) ([]byte, error) {
	if s.pdfRenderer == nil {
		return nil, shared.NewDomainError("NOT_CONFIGURED", "No PDF renderer configured")
	}

	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	return s.pdfRenderer.Render(ctx, ToClientDocument(q))
}

// History lists the journal entries of a quote, most recent first
func (s *QuoteService) History(ctx context.Context, quoteID uuid.UUID, offset, limit int) ([]journal.Entry, int64, error) {
	entries, err := s.journalRepo.FindByEntity(ctx, journal.EntityDevis, quoteID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.journalRepo.CountByEntity(ctx, journal.EntityDevis, quoteID)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *QuoteService) appendJournal(ctx context.Context, quoteID uuid.UUID, action string, authorID uuid.UUID, oldValues, newValues map[string]string, motive string) error {
	entry, err := journal.NewEntry(journal.EntityDevis, quoteID, action, authorID, oldValues, newValues, motive, nil)
	if err != nil {
		return err
	}
	return s.journalRepo.Append(ctx, entry)
}

func (s *QuoteService) publishEvents(ctx context.Context, q *quote.Quote) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range q.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			// the operation already succeeded; a failed publish is not fatal
			continue
		}
	}
	q.ClearDomainEvents()
}

func findLine(q *quote.Quote, lineID uuid.UUID) *quote.QuoteLine {
	for i := range q.Lots {
		for j := range q.Lots[i].Lines {
			if q.Lots[i].Lines[j].ID == lineID {
				return &q.Lots[i].Lines[j]
			}
		}
	}
	return nil
}
