package budget

import (
	"context"
	"fmt"

	"github.com/chantier/backend/internal/domain/budget"
	"github.com/chantier/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AlertNotifier delivers budget alerts to an external channel. Implementations
// can target in-app notifications, email, or SMS.
type AlertNotifier interface {
	Notify(ctx context.Context, notification AlertNotification) error
}

// AlertNotification is the payload handed to notifiers when a budget alert
// fires
type AlertNotification struct {
	BudgetID   string `json:"budget_id"`
	AlertID    string `json:"alert_id"`
	AlertType  string `json:"alert_type"`
	PctReached string `json:"pct_reached"`
	Message    string `json:"message"`
}

// AlertRaisedHandler reacts to AlertRaised events by logging them and, when a
// notifier is configured, forwarding them to the notification channel
type AlertRaisedHandler struct {
	logger   *zap.Logger
	notifier AlertNotifier
}

// NewAlertRaisedHandler creates a new handler for budget alert events
func NewAlertRaisedHandler(logger *zap.Logger) *AlertRaisedHandler {
	return &AlertRaisedHandler{logger: logger}
}

// WithNotifier sets the notifier used to deliver alerts
func (h *AlertRaisedHandler) WithNotifier(notifier AlertNotifier) *AlertRaisedHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *AlertRaisedHandler) EventTypes() []string {
	return []string{budget.EventTypeAlertRaised}
}

// Handle processes an AlertRaised event
func (h *AlertRaisedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	raised, ok := event.(*budget.AlertRaisedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", budget.EventTypeAlertRaised),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			budget.EventTypeAlertRaised, event.EventType())
	}

	h.logger.Warn("budget alert raised",
		zap.String("budget_id", raised.BudgetID.String()),
		zap.String("alert_id", raised.AlertID.String()),
		zap.String("alert_type", string(raised.AlertType)),
		zap.String("pct_reached", raised.PctReached.String()),
		zap.String("message", raised.Message),
	)

	if h.notifier == nil {
		return nil
	}

	notification := AlertNotification{
		BudgetID:   raised.BudgetID.String(),
		AlertID:    raised.AlertID.String(),
		AlertType:  string(raised.AlertType),
		PctReached: raised.PctReached.String(),
		Message:    raised.Message,
	}
	if err := h.notifier.Notify(ctx, notification); err != nil {
		h.logger.Error("failed to deliver budget alert notification",
			zap.String("budget_id", notification.BudgetID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

var _ shared.EventHandler = (*AlertRaisedHandler)(nil)
