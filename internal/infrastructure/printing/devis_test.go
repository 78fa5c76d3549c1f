package printing

import (
	"testing"
	"time"

	quoteapp "github.com/chantier/backend/internal/application/quote"
	"github.com/chantier/backend/internal/domain/quote"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderedQuote(t *testing.T) *quote.Quote {
	t.Helper()

	q, err := quote.NewQuote("DEV-2026-042", "SCI Les Érables", "Réfection toiture", 5)
	require.NoError(t, err)

	validity := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	q.ValidityDate = &validity
	q.PaymentTerms = "30 % à la commande, solde à réception"

	lot, err := q.AddLot("LOT-01", "Couverture")
	require.NoError(t, err)

	_, err = q.AddLine(lot.ID, "Tuiles terre cuite", "m2",
		decimal.NewFromInt(120), decimal.NewFromInt(35), decimal.NewFromInt(20))
	require.NoError(t, err)

	return q
}

func newDevisRenderer(t *testing.T) *DevisPDFRenderer {
	t.Helper()
	r, err := NewDevisPDFRenderer(nil)
	require.NoError(t, err)
	return r
}

func TestDevisPDFRenderer_RenderHTML(t *testing.T) {
	t.Run("renders quote header and lines", func(t *testing.T) {
		q := newRenderedQuote(t)
		html, err := newDevisRenderer(t).RenderHTML(quoteapp.ToClientDocument(q))
		require.NoError(t, err)

		assert.Contains(t, html, "DEV-2026-042")
		assert.Contains(t, html, "SCI Les Érables")
		assert.Contains(t, html, "Réfection toiture")
		assert.Contains(t, html, "Tuiles terre cuite")
		assert.Contains(t, html, "15/10/2026")
		assert.Contains(t, html, "4 200,00")
	})

	t.Run("hides unit prices when presentation says so", func(t *testing.T) {
		q := newRenderedQuote(t)
		q.Presentation.ShowUnitPrices = false

		html, err := newDevisRenderer(t).RenderHTML(quoteapp.ToClientDocument(q))
		require.NoError(t, err)

		assert.NotContains(t, html, "PU HT")
		assert.NotContains(t, html, "35,00")
	})

	t.Run("shows unit prices and VAT detail when enabled", func(t *testing.T) {
		q := newRenderedQuote(t)
		q.Presentation.ShowUnitPrices = true
		q.Presentation.ShowVATDetail = true

		html, err := newDevisRenderer(t).RenderHTML(quoteapp.ToClientDocument(q))
		require.NoError(t, err)

		assert.Contains(t, html, "PU HT")
		assert.Contains(t, html, "35,00")
		assert.Contains(t, html, "Base HT")
		assert.Contains(t, html, "20 %")
	})

	t.Run("shows retention block for retained quotes", func(t *testing.T) {
		q := newRenderedQuote(t)
		html, err := newDevisRenderer(t).RenderHTML(quoteapp.ToClientDocument(q))
		require.NoError(t, err)

		assert.Contains(t, html, "Retenue de garantie")
		assert.Contains(t, html, "Net")
	})

	t.Run("omits retention block without retention", func(t *testing.T) {
		q, err := quote.NewQuote("DEV-2026-043", "Mairie de Vence", "", 0)
		require.NoError(t, err)

		html, err := newDevisRenderer(t).RenderHTML(quoteapp.ToClientDocument(q))
		require.NoError(t, err)

		assert.NotContains(t, html, "Retenue de garantie")
	})

	t.Run("never contains cost data", func(t *testing.T) {
		q := newRenderedQuote(t)
		line := &q.Lots[0].Lines[0]
		entry, err := quote.NewLaborCostEntry(line.ID, "Couvreur", "couvreur",
			decimal.NewFromInt(16), decimal.NewFromInt(42))
		require.NoError(t, err)
		require.NoError(t, line.AddCostEntry(entry))

		html, err := newDevisRenderer(t).RenderHTML(quoteapp.ToClientDocument(q))
		require.NoError(t, err)

		assert.NotContains(t, html, "Couvreur")
		assert.NotContains(t, html, "672") // 16h x 42
	})
}

func TestTemplateFormatting(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00 €"},
		{"1234.5", "1 234,50 €"},
		{"1234567.89", "1 234 567,89 €"},
		{"-42000", "-42 000,00 €"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, formatEuros(d))
	}

	assert.Equal(t, "5,5 %", formatPercent(decimal.NewFromFloat(5.5)))
	assert.Equal(t, "120", formatQuantity(decimal.NewFromInt(120)))
}
