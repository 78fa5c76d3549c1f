package quote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SearchFilter is the filter set shared by quote list and count queries
type SearchFilter struct {
	ClientName   string        // substring match on client name
	Statuses     []QuoteStatus // one or more statuses
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	MinHT        *decimal.Decimal
	MaxHT        *decimal.Decimal
	CommercialID *uuid.UUID
	ConducteurID *uuid.UUID
	Search       string // free text across number, client, object
	Offset       int
	Limit        int
}

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	// FindByID finds a quote by ID with its lots, lines and cost entries
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)

	// FindByNumber finds a quote by its number
	FindByNumber(ctx context.Context, number string) (*Quote, error)

	// ExistsByNumber checks if a quote number is already taken
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// Search finds quotes matching the filter, paginated
	Search(ctx context.Context, filter SearchFilter) ([]Quote, error)

	// Count counts quotes matching the same filter set as Search
	Count(ctx context.Context, filter SearchFilter) (int64, error)

	// CountByStatus returns per-status quote counts
	CountByStatus(ctx context.Context) (map[QuoteStatus]int64, error)

	// SumHTByStatus returns per-status HT totals
	SumHTByStatus(ctx context.Context) (map[QuoteStatus]decimal.Decimal, error)

	// Save creates or updates a quote with its lots and lines
	Save(ctx context.Context, q *Quote) error

	// GenerateNumber generates the next unique quote number
	GenerateNumber(ctx context.Context) (string, error)
}
