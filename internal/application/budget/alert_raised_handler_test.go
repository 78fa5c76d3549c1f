package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/chantier/backend/internal/domain/budget"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type capturingNotifier struct {
	notifications []AlertNotification
	err           error
}

func (n *capturingNotifier) Notify(_ context.Context, notification AlertNotification) error {
	if n.err != nil {
		return n.err
	}
	n.notifications = append(n.notifications, notification)
	return nil
}

func newAlertRaisedEvent(t *testing.T) *budget.AlertRaisedEvent {
	t.Helper()

	b, err := budget.NewBudget(uuid.New(), decimal.NewFromInt(100000), 5,
		decimal.NewFromInt(80), decimal.NewFromInt(5000))
	require.NoError(t, err)

	alerts, err := b.EvaluateThresholds(decimal.NewFromInt(98000), decimal.NewFromInt(10000))
	require.NoError(t, err)
	require.NotEmpty(t, alerts)

	return budget.NewAlertRaisedEvent(b, &alerts[0])
}

func TestAlertRaisedHandler_Handle(t *testing.T) {
	t.Run("forwards alert to notifier", func(t *testing.T) {
		notifier := &capturingNotifier{}
		handler := NewAlertRaisedHandler(zaptest.NewLogger(t)).WithNotifier(notifier)

		event := newAlertRaisedEvent(t)
		require.NoError(t, handler.Handle(context.Background(), event))

		require.Len(t, notifier.notifications, 1)
		sent := notifier.notifications[0]
		assert.Equal(t, event.BudgetID.String(), sent.BudgetID)
		assert.Equal(t, string(budget.AlertSeuilEngage), sent.AlertType)
		assert.NotEmpty(t, sent.Message)
	})

	t.Run("works without a notifier", func(t *testing.T) {
		handler := NewAlertRaisedHandler(zaptest.NewLogger(t))
		require.NoError(t, handler.Handle(context.Background(), newAlertRaisedEvent(t)))
	})

	t.Run("propagates notifier failure", func(t *testing.T) {
		notifier := &capturingNotifier{err: errors.New("channel down")}
		handler := NewAlertRaisedHandler(zaptest.NewLogger(t)).WithNotifier(notifier)

		err := handler.Handle(context.Background(), newAlertRaisedEvent(t))
		require.Error(t, err)
	})

	t.Run("rejects unrelated events", func(t *testing.T) {
		handler := NewAlertRaisedHandler(zaptest.NewLogger(t))

		b, err := budget.NewBudget(uuid.New(), decimal.NewFromInt(1000), 0,
			decimal.NewFromInt(80), decimal.NewFromInt(500))
		require.NoError(t, err)

		err = handler.Handle(context.Background(), budget.NewBudgetCreatedEvent(b))
		require.Error(t, err)
	})
}
