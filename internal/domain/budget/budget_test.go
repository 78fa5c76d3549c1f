package budget

import (
	"testing"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBudget(t *testing.T) *Budget {
	b, err := NewBudget(uuid.New(), d("100000"), 5, d("80"), d("5000"))
	require.NoError(t, err)
	return b
}

func TestNewBudget(t *testing.T) {
	t.Run("valid budget", func(t *testing.T) {
		b := createTestBudget(t)
		assert.True(t, d("100000").Equal(b.InitialHT))
		assert.Equal(t, 5, b.RetentionPct)
		assert.True(t, d("100000").Equal(b.CurrentAmount()))

		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBudgetCreated, events[0].EventType())
	})

	t.Run("missing chantier fails", func(t *testing.T) {
		_, err := NewBudget(uuid.Nil, d("100000"), 0, d("80"), d("5000"))
		assertInvalidValue(t, err)
	})

	t.Run("negative initial amount fails", func(t *testing.T) {
		_, err := NewBudget(uuid.New(), d("-1"), 0, d("80"), d("5000"))
		assertInvalidValue(t, err)
	})

	t.Run("retention rate outside 0 or 5 fails", func(t *testing.T) {
		for _, rate := range []int{-5, 1, 3, 10} {
			_, err := NewBudget(uuid.New(), d("100000"), rate, d("80"), d("5000"))
			assertInvalidValue(t, err)
		}
	})

	t.Run("alert threshold bounds", func(t *testing.T) {
		_, err := NewBudget(uuid.New(), d("100000"), 0, d("0"), d("5000"))
		assertInvalidValue(t, err)
		_, err = NewBudget(uuid.New(), d("100000"), 0, d("101"), d("5000"))
		assertInvalidValue(t, err)
	})
}

func TestBudget_Update(t *testing.T) {
	t.Run("one change per modified field", func(t *testing.T) {
		b := createTestBudget(t)
		b.ClearDomainEvents()

		newInitial := d("120000")
		newThreshold := d("90")
		changes, err := b.Update(Changes{InitialHT: &newInitial, AlertThresholdPct: &newThreshold})
		require.NoError(t, err)
		require.Len(t, changes, 2)

		assert.Equal(t, "montant_initial_ht", changes[0].Field)
		assert.Equal(t, "100000", changes[0].Old)
		assert.Equal(t, "120000", changes[0].New)
		assert.Equal(t, "seuil_alerte_pct", changes[1].Field)

		events := b.GetDomainEvents()
		require.Len(t, events, 2)
		for _, ev := range events {
			assert.Equal(t, EventTypeBudgetUpdated, ev.EventType())
		}
	})

	t.Run("unchanged value yields no change", func(t *testing.T) {
		b := createTestBudget(t)
		b.ClearDomainEvents()

		same := d("100000")
		changes, err := b.Update(Changes{InitialHT: &same})
		require.NoError(t, err)
		assert.Empty(t, changes)
		assert.Empty(t, b.GetDomainEvents())
	})

	t.Run("invalid retention rejected", func(t *testing.T) {
		b := createTestBudget(t)
		bad := 7
		_, err := b.Update(Changes{RetentionPct: &bad})
		assertInvalidValue(t, err)
	})
}

func TestBudget_Amendments(t *testing.T) {
	t.Run("validated amendments move the current amount", func(t *testing.T) {
		b := createTestBudget(t)
		validator := uuid.New()

		first, err := b.CreateAmendment("AV-001", "Fondations renforcées", d("15000"), "Surcoût gros oeuvre")
		require.NoError(t, err)
		second, err := b.CreateAmendment("AV-002", "Suppression lot peinture", d("-4000"), "Lot retiré du marché")
		require.NoError(t, err)

		// drafts do not count
		assert.True(t, d("100000").Equal(b.CurrentAmount()))

		_, err = b.ValidateAmendment(first.ID, validator)
		require.NoError(t, err)
		assert.True(t, d("115000").Equal(b.CurrentAmount()))

		_, err = b.ValidateAmendment(second.ID, validator)
		require.NoError(t, err)
		assert.True(t, d("111000").Equal(b.CurrentAmount()))
	})

	t.Run("duplicate number rejected", func(t *testing.T) {
		b := createTestBudget(t)
		_, err := b.CreateAmendment("AV-001", "Premier", d("1000"), "")
		require.NoError(t, err)

		_, err = b.CreateAmendment("AV-001", "Doublon", d("2000"), "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeAlreadyExists, domainErr.Code)
	})

	t.Run("validation is one way", func(t *testing.T) {
		b := createTestBudget(t)
		amendment, err := b.CreateAmendment("AV-001", "Motif", d("1000"), "")
		require.NoError(t, err)

		_, err = b.ValidateAmendment(amendment.ID, uuid.New())
		require.NoError(t, err)

		_, err = b.ValidateAmendment(amendment.ID, uuid.New())
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeAlreadyFinalized, domainErr.Code)
	})

	t.Run("unknown amendment", func(t *testing.T) {
		b := createTestBudget(t)
		_, err := b.ValidateAmendment(uuid.New(), uuid.New())
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotFound, domainErr.Code)
	})
}

func TestBudget_EvaluateThresholds(t *testing.T) {
	t.Run("below threshold raises nothing", func(t *testing.T) {
		b := createTestBudget(t)
		raised, err := b.EvaluateThresholds(d("50000"), d("30000"))
		require.NoError(t, err)
		assert.Empty(t, raised)
	})

	t.Run("engaged crossing raises one alert", func(t *testing.T) {
		b := createTestBudget(t)
		b.ClearDomainEvents()

		raised, err := b.EvaluateThresholds(d("85000"), d("30000"))
		require.NoError(t, err)
		require.Len(t, raised, 1)
		assert.Equal(t, AlertSeuilEngage, raised[0].Type)
		assert.Equal(t, "85.00", raised[0].PctReached.StringFixed(2))

		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeAlertRaised, events[0].EventType())
	})

	t.Run("both kinds can fire together", func(t *testing.T) {
		b := createTestBudget(t)
		raised, err := b.EvaluateThresholds(d("95000"), d("82000"))
		require.NoError(t, err)
		require.Len(t, raised, 2)
		assert.Equal(t, AlertSeuilEngage, raised[0].Type)
		assert.Equal(t, AlertSeuilRealise, raised[1].Type)
	})

	t.Run("pending alert is not raised twice", func(t *testing.T) {
		b := createTestBudget(t)
		raised, err := b.EvaluateThresholds(d("85000"), d("0"))
		require.NoError(t, err)
		require.Len(t, raised, 1)

		again, err := b.EvaluateThresholds(d("90000"), d("0"))
		require.NoError(t, err)
		assert.Empty(t, again)
	})

	t.Run("acknowledged alert reopens the check", func(t *testing.T) {
		b := createTestBudget(t)
		raised, err := b.EvaluateThresholds(d("85000"), d("0"))
		require.NoError(t, err)
		require.Len(t, raised, 1)

		_, err = b.AcknowledgeAlert(raised[0].ID, uuid.New())
		require.NoError(t, err)

		again, err := b.EvaluateThresholds(d("95000"), d("0"))
		require.NoError(t, err)
		require.Len(t, again, 1)
	})

	t.Run("amendments widen the envelope", func(t *testing.T) {
		b := createTestBudget(t)
		amendment, err := b.CreateAmendment("AV-001", "Extension", d("20000"), "")
		require.NoError(t, err)
		_, err = b.ValidateAmendment(amendment.ID, uuid.New())
		require.NoError(t, err)

		// 85000 / 120000 = 70.83% < 80%
		raised, err := b.EvaluateThresholds(d("85000"), d("0"))
		require.NoError(t, err)
		assert.Empty(t, raised)
	})
}

func TestBudget_AcknowledgeAlert(t *testing.T) {
	b := createTestBudget(t)
	raised, err := b.EvaluateThresholds(d("85000"), d("0"))
	require.NoError(t, err)
	require.Len(t, raised, 1)
	user := uuid.New()

	alert, err := b.AcknowledgeAlert(raised[0].ID, user)
	require.NoError(t, err)
	assert.True(t, alert.IsAcknowledged())
	assert.Equal(t, user, *alert.AcknowledgedBy)

	_, err = b.AcknowledgeAlert(raised[0].ID, user)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeAlreadyFinalized, domainErr.Code)
}

func TestBudget_Allocations(t *testing.T) {
	b := createTestBudget(t)
	line, err := NewBudgetCostLine(b.ID, "Gros oeuvre")
	require.NoError(t, err)
	require.NoError(t, b.AddCostLine(line))

	t.Run("percentage within bounds", func(t *testing.T) {
		allocation, err := b.AddAllocation(uuid.New(), line.ID, d("60"))
		require.NoError(t, err)
		assert.Equal(t, b.ChantierID, allocation.ChantierID)
		assert.True(t, d("60").Equal(allocation.Percentage))
	})

	t.Run("percentage out of bounds rejected", func(t *testing.T) {
		_, err := b.AddAllocation(uuid.New(), line.ID, d("100.01"))
		assertInvalidValue(t, err)
		_, err = b.AddAllocation(uuid.New(), line.ID, d("-1"))
		assertInvalidValue(t, err)
	})

	t.Run("foreign cost line rejected", func(t *testing.T) {
		_, err := b.AddAllocation(uuid.New(), uuid.New(), d("50"))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotFound, domainErr.Code)
	})

	t.Run("cost line from another budget rejected", func(t *testing.T) {
		other, err := NewBudgetCostLine(uuid.New(), "Autre budget")
		require.NoError(t, err)
		addErr := b.AddCostLine(other)
		assertInvalidValue(t, addErr)
	})
}
