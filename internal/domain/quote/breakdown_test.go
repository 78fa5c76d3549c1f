package quote

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestNewCostEntry(t *testing.T) {
	lineID := uuid.New()

	t.Run("creates a materials entry", func(t *testing.T) {
		entry, err := NewCostEntry(lineID, CostCategoryMaterials, "Parpaings", d("800"), d("3.50"))
		require.NoError(t, err)
		assert.Equal(t, CostCategoryMaterials, entry.Category)
		assert.True(t, d("2800").Equal(entry.Total()))
		assert.False(t, entry.IsLabor())
	})

	t.Run("rejects labor category", func(t *testing.T) {
		_, err := NewCostEntry(lineID, CostCategoryLabor, "Maçon", d("10"), d("42"))
		require.Error(t, err)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := NewCostEntry(lineID, CostCategory("OVERHEAD"), "x", d("1"), d("1"))
		require.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewCostEntry(lineID, CostCategoryMaterials, "x", decimal.Zero, d("1"))
		require.Error(t, err)
	})

	t.Run("rejects negative unit price", func(t *testing.T) {
		_, err := NewCostEntry(lineID, CostCategoryMaterials, "x", d("1"), d("-1"))
		require.Error(t, err)
	})

	t.Run("rejects missing line", func(t *testing.T) {
		_, err := NewCostEntry(uuid.Nil, CostCategoryMaterials, "x", d("1"), d("1"))
		require.Error(t, err)
	})
}

func TestNewLaborCostEntry(t *testing.T) {
	lineID := uuid.New()

	t.Run("creates a labor entry with trade and rate", func(t *testing.T) {
		entry, err := NewLaborCostEntry(lineID, "Gros oeuvre", "maçon", d("120"), d("42"))
		require.NoError(t, err)
		assert.True(t, entry.IsLabor())
		assert.Equal(t, "maçon", entry.Trade)
		assert.True(t, d("42").Equal(entry.HourlyRate))
		assert.True(t, d("5040").Equal(entry.Total()))
	})

	t.Run("rejects empty trade", func(t *testing.T) {
		_, err := NewLaborCostEntry(lineID, "x", "  ", d("8"), d("40"))
		require.Error(t, err)
	})
}

func TestDecompose(t *testing.T) {
	lineID := uuid.New()

	mustEntry := func(e *CostEntry, err error) CostEntry {
		require.NoError(t, err)
		return *e
	}

	t.Run("matches the reference decomposition", func(t *testing.T) {
		// LABOR 120h x 42 + MATERIALS 800 x 3.50 + MATERIALS 2 x 85
		entries := []CostEntry{
			mustEntry(NewLaborCostEntry(lineID, "Gros oeuvre", "maçon", d("120"), d("42"))),
			mustEntry(NewCostEntry(lineID, CostCategoryMaterials, "Parpaings", d("800"), d("3.50"))),
			mustEntry(NewCostEntry(lineID, CostCategoryMaterials, "Linteaux", d("2"), d("85"))),
		}

		breakdown := Decompose(entries)

		assert.True(t, d("5040").Equal(breakdown.Labor))
		assert.True(t, d("2970").Equal(breakdown.Materials))
		assert.True(t, d("8010").Equal(breakdown.CostSec))
		assert.True(t, breakdown.Subcontract.IsZero())
		assert.True(t, breakdown.Equipment.IsZero())
		assert.True(t, breakdown.Travel.IsZero())
	})

	t.Run("preserves labor details", func(t *testing.T) {
		entries := []CostEntry{
			mustEntry(NewLaborCostEntry(lineID, "a", "maçon", d("10"), d("40"))),
			mustEntry(NewLaborCostEntry(lineID, "b", "coffreur", d("5"), d("45"))),
		}

		breakdown := Decompose(entries)

		require.Len(t, breakdown.LaborDetails, 2)
		assert.Equal(t, "maçon", breakdown.LaborDetails[0].Trade)
		assert.True(t, d("40").Equal(breakdown.LaborDetails[0].HourlyRate))
		assert.Equal(t, "coffreur", breakdown.LaborDetails[1].Trade)
		assert.True(t, d("225").Equal(breakdown.LaborDetails[1].Total))
	})

	t.Run("empty input yields zero totals", func(t *testing.T) {
		breakdown := Decompose(nil)
		assert.True(t, breakdown.CostSec.IsZero())
		assert.Empty(t, breakdown.LaborDetails)
	})

	t.Run("reflects removals immediately", func(t *testing.T) {
		entries := []CostEntry{
			mustEntry(NewCostEntry(lineID, CostCategoryEquipment, "Grue", d("1"), d("1200"))),
			mustEntry(NewCostEntry(lineID, CostCategoryTravel, "Déplacements", d("4"), d("55"))),
		}

		full := Decompose(entries)
		assert.True(t, d("1420").Equal(full.CostSec))

		reduced := Decompose(entries[:1])
		assert.True(t, d("1200").Equal(reduced.CostSec))
		assert.True(t, reduced.Travel.IsZero())
	})

	t.Run("is order independent", func(t *testing.T) {
		a := mustEntry(NewCostEntry(lineID, CostCategoryMaterials, "a", d("3"), d("10")))
		b := mustEntry(NewCostEntry(lineID, CostCategorySubcontract, "b", d("1"), d("500")))

		forward := Decompose([]CostEntry{a, b})
		backward := Decompose([]CostEntry{b, a})

		assert.True(t, forward.CostSec.Equal(backward.CostSec))
		assert.True(t, forward.Materials.Equal(backward.Materials))
		assert.True(t, forward.Subcontract.Equal(backward.Subcontract))
	})
}

func TestCostBreakdown_ByCategory(t *testing.T) {
	lineID := uuid.New()
	entry, err := NewCostEntry(lineID, CostCategoryTravel, "x", d("2"), d("30"))
	require.NoError(t, err)

	breakdown := Decompose([]CostEntry{*entry})

	assert.True(t, d("60").Equal(breakdown.ByCategory(CostCategoryTravel)))
	assert.True(t, breakdown.ByCategory(CostCategoryLabor).IsZero())
	assert.True(t, breakdown.ByCategory(CostCategory("BOGUS")).IsZero())
}
