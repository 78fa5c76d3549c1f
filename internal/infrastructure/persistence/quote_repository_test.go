package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chantier/backend/internal/domain/quote"
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// newTestQuote builds a draft quote with one lot, one line and one labor
// cost entry
func newTestQuote(t *testing.T, number, client string) *quote.Quote {
	t.Helper()

	q, err := quote.NewQuote(number, client, "Réfection toiture", 5)
	require.NoError(t, err)

	lot, err := q.AddLot("LOT-01", "Couverture")
	require.NoError(t, err)

	line, err := q.AddLine(lot.ID, "Dépose tuiles", "m2", dec(t, "120"), dec(t, "35"), dec(t, "20"))
	require.NoError(t, err)

	entry, err := quote.NewLaborCostEntry(line.ID, "Couvreur", "couvreur", dec(t, "16"), dec(t, "42"))
	require.NoError(t, err)
	require.NoError(t, line.AddCostEntry(entry))

	q.ClearDomainEvents()
	return q
}

func TestGormQuoteRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	q := newTestQuote(t, "DEV-2026-001", "SCI Les Érables")
	require.NoError(t, repo.Save(ctx, q))

	t.Run("round-trips the full aggregate", func(t *testing.T) {
		found, err := repo.FindByID(ctx, q.ID)
		require.NoError(t, err)

		assert.Equal(t, "DEV-2026-001", found.Number)
		assert.Equal(t, quote.StatusBrouillon, found.Status)
		require.Len(t, found.Lots, 1)
		require.Len(t, found.Lots[0].Lines, 1)
		require.Len(t, found.Lots[0].Lines[0].CostEntries, 1)

		line := found.Lots[0].Lines[0]
		assert.True(t, line.MontantHT.Equal(dec(t, "4200")), "got %s", line.MontantHT)
		assert.Equal(t, "couvreur", line.CostEntries[0].Trade)
	})

	t.Run("finds by number", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "DEV-2026-001")
		require.NoError(t, err)
		assert.Equal(t, q.ID, found.ID)
	})

	t.Run("not found maps to domain error", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exists by number", func(t *testing.T) {
		exists, err := repo.ExistsByNumber(ctx, "DEV-2026-001")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByNumber(ctx, "DEV-2026-999")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("deletes children removed from the aggregate", func(t *testing.T) {
		found, err := repo.FindByID(ctx, q.ID)
		require.NoError(t, err)

		line := &found.Lots[0].Lines[0]
		entryID := line.CostEntries[0].ID
		require.NoError(t, line.RemoveCostEntry(entryID))
		require.NoError(t, repo.Save(ctx, found))

		again, err := repo.FindByID(ctx, q.ID)
		require.NoError(t, err)
		assert.Empty(t, again.Lots[0].Lines[0].CostEntries)
	})
}

func TestGormQuoteRepository_Search(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	small := newTestQuote(t, "DEV-2026-001", "SCI Les Érables")
	big := newTestQuote(t, "DEV-2026-002", "Mairie de Vannes")
	_, err := big.AddLine(big.Lots[0].ID, "Charpente neuve", "m2", dec(t, "200"), dec(t, "410"), dec(t, "20"))
	require.NoError(t, err)
	require.NoError(t, big.Submit())
	big.ClearDomainEvents()

	require.NoError(t, repo.Save(ctx, small))
	require.NoError(t, repo.Save(ctx, big))

	t.Run("by client name substring", func(t *testing.T) {
		quotes, err := repo.Search(ctx, quote.SearchFilter{ClientName: "érables"})
		require.NoError(t, err)
		require.Len(t, quotes, 1)
		assert.Equal(t, "DEV-2026-001", quotes[0].Number)
	})

	t.Run("by status", func(t *testing.T) {
		quotes, err := repo.Search(ctx, quote.SearchFilter{Statuses: []quote.QuoteStatus{quote.StatusEnValidation}})
		require.NoError(t, err)
		require.Len(t, quotes, 1)
		assert.Equal(t, "DEV-2026-002", quotes[0].Number)
	})

	t.Run("by amount range over derived totals", func(t *testing.T) {
		min := dec(t, "50000")
		quotes, err := repo.Search(ctx, quote.SearchFilter{MinHT: &min})
		require.NoError(t, err)
		require.Len(t, quotes, 1)
		assert.Equal(t, "DEV-2026-002", quotes[0].Number)

		count, err := repo.Count(ctx, quote.SearchFilter{MinHT: &min})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("free text search hits the object", func(t *testing.T) {
		quotes, err := repo.Search(ctx, quote.SearchFilter{Search: "toiture"})
		require.NoError(t, err)
		assert.Len(t, quotes, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		quotes, err := repo.Search(ctx, quote.SearchFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, quotes, 1)

		quotes, err = repo.Search(ctx, quote.SearchFilter{Offset: 1, Limit: 5})
		require.NoError(t, err)
		assert.Len(t, quotes, 1)
	})
}

func TestGormQuoteRepository_DashboardAggregates(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	first := newTestQuote(t, "DEV-2026-001", "SCI Les Érables")
	second := newTestQuote(t, "DEV-2026-002", "Mairie de Vannes")
	sent := newTestQuote(t, "DEV-2026-003", "SARL Bâti Ouest")
	require.NoError(t, sent.Submit())
	require.NoError(t, sent.Validate())
	sent.ClearDomainEvents()

	for _, q := range []*quote.Quote{first, second, sent} {
		require.NoError(t, repo.Save(ctx, q))
	}

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[quote.StatusBrouillon])
	assert.Equal(t, int64(1), counts[quote.StatusEnvoye])

	sums, err := repo.SumHTByStatus(ctx)
	require.NoError(t, err)
	assert.True(t, sums[quote.StatusBrouillon].Equal(dec(t, "8400")), "got %s", sums[quote.StatusBrouillon])
	assert.True(t, sums[quote.StatusEnvoye].Equal(dec(t, "4200")), "got %s", sums[quote.StatusEnvoye])
}

func TestGormQuoteRepository_GenerateNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	year := time.Now().Year()

	number, err := repo.GenerateNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("DEV-%d-001", year), number)

	q := newTestQuote(t, fmt.Sprintf("DEV-%d-007", year), "SCI Les Érables")
	require.NoError(t, repo.Save(ctx, q))

	number, err = repo.GenerateNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("DEV-%d-008", year), number)
}
