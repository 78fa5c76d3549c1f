package quote

import "github.com/chantier/backend/internal/domain/shared"

// QuoteStatus represents the lifecycle status of a quote (devis)
type QuoteStatus string

const (
	StatusBrouillon     QuoteStatus = "BROUILLON"
	StatusEnValidation  QuoteStatus = "EN_VALIDATION"
	StatusEnvoye        QuoteStatus = "ENVOYE"
	StatusVu            QuoteStatus = "VU"
	StatusEnNegociation QuoteStatus = "EN_NEGOCIATION"
	StatusAccepte       QuoteStatus = "ACCEPTE"
	StatusRefuse        QuoteStatus = "REFUSE"
	StatusPerdu         QuoteStatus = "PERDU"
	StatusExpire        QuoteStatus = "EXPIRE"
)

// transitions is the explicit topology of the quote state machine, keyed by
// current status. Outcome statuses (ACCEPTE, REFUSE, PERDU, EXPIRE) are
// reachable from any post-send status; terminal statuses map to nothing.
var transitions = map[QuoteStatus][]QuoteStatus{
	StatusBrouillon:     {StatusEnValidation},
	StatusEnValidation:  {StatusEnvoye, StatusBrouillon},
	StatusEnvoye:        {StatusVu, StatusEnNegociation, StatusAccepte, StatusRefuse, StatusPerdu, StatusExpire},
	StatusVu:            {StatusEnNegociation, StatusAccepte, StatusRefuse, StatusPerdu, StatusExpire},
	StatusEnNegociation: {StatusAccepte, StatusRefuse, StatusPerdu, StatusExpire},
	StatusAccepte:       {},
	StatusRefuse:        {},
	StatusPerdu:         {},
	StatusExpire:        {},
}

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true for outcome statuses that admit no further transition
func (s QuoteStatus) IsTerminal() bool {
	switch s {
	case StatusAccepte, StatusRefuse, StatusPerdu, StatusExpire:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a QuoteStatus, rejecting unknown values
func ParseStatus(raw string) (QuoteStatus, error) {
	s := QuoteStatus(raw)
	if !s.IsValid() {
		return "", shared.NewInvalidValueError("Unknown quote status: " + raw)
	}
	return s, nil
}
