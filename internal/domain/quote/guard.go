package quote

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Role is a workflow actor role
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleConducteur   Role = "conducteur"
	RoleCommercial   Role = "commercial"
	RoleChefChantier Role = "chef_chantier"
	RoleCompagnon    Role = "compagnon"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleConducteur, RoleCommercial, RoleChefChantier, RoleCompagnon:
		return true
	}
	return false
}

// Action is a workflow action on a quote. The guard authorizes actions; the
// state machine decides which actions are reachable from the current status.
type Action string

const (
	ActionValider            Action = "valider"
	ActionSoumettre          Action = "soumettre"
	ActionAccepter           Action = "accepter"
	ActionRefuser            Action = "refuser"
	ActionPerdu              Action = "perdu"
	ActionExpirer            Action = "expirer"
	ActionMarquerVu          Action = "marquer_vu"
	ActionNegociation        Action = "negociation"
	ActionRetournerBrouillon Action = "retourner_brouillon"
)

// IsValid checks if the action is known
func (a Action) IsValid() bool {
	_, ok := allActions[a]
	return ok
}

var allActions = map[Action]struct{}{
	ActionValider:            {},
	ActionSoumettre:          {},
	ActionAccepter:           {},
	ActionRefuser:            {},
	ActionPerdu:              {},
	ActionExpirer:            {},
	ActionMarquerVu:          {},
	ActionNegociation:        {},
	ActionRetournerBrouillon: {},
}

// rolePermissions is the role x action permission table. It is independent of
// the state machine topology: the guard says who may do what, the transition
// table says when.
var rolePermissions = map[Role]map[Action]bool{
	RoleAdmin: {
		ActionValider: true, ActionSoumettre: true, ActionAccepter: true,
		ActionRefuser: true, ActionPerdu: true, ActionExpirer: true,
		ActionMarquerVu: true, ActionNegociation: true, ActionRetournerBrouillon: true,
	},
	// expirer is reserved to the system acting as admin
	RoleConducteur: {
		ActionValider: true, ActionSoumettre: true, ActionAccepter: true,
		ActionRefuser: true, ActionPerdu: true,
		ActionMarquerVu: true, ActionNegociation: true, ActionRetournerBrouillon: true,
	},
	// a commercial never decides acceptance or loss
	RoleCommercial: {
		ActionValider: true, ActionSoumettre: true, ActionRefuser: true,
		ActionMarquerVu: true, ActionNegociation: true, ActionRetournerBrouillon: true,
	},
	RoleChefChantier: {},
	RoleCompagnon:    {},
}

// DefaultValidationThreshold is the HT amount (EUR) above which only an admin
// may validate a quote
var DefaultValidationThreshold = decimal.NewFromInt(50000)

// TransitionNotAllowedError is returned when the workflow guard rejects an
// action. It carries the offending role and action, and the amount threshold
// when the amount guard was the rejecting rule.
type TransitionNotAllowedError struct {
	Role      Role
	Action    Action
	Threshold *decimal.Decimal
}

// Error implements the error interface
func (e *TransitionNotAllowedError) Error() string {
	if e.Threshold != nil {
		return fmt.Sprintf("role %q may not perform action %q on an amount of %s or more", e.Role, e.Action, e.Threshold.StringFixed(2))
	}
	return fmt.Sprintf("role %q may not perform action %q", e.Role, e.Action)
}

// WorkflowGuard authorizes workflow actions based on role and, for
// validation, the quote amount. It is layered on top of the status state
// machine, never merged into it.
type WorkflowGuard struct {
	validationThreshold decimal.Decimal
}

// NewWorkflowGuard creates a guard with the default validation threshold
func NewWorkflowGuard() *WorkflowGuard {
	return &WorkflowGuard{validationThreshold: DefaultValidationThreshold}
}

// NewWorkflowGuardWithThreshold creates a guard with a custom validation threshold
func NewWorkflowGuardWithThreshold(threshold decimal.Decimal) *WorkflowGuard {
	return &WorkflowGuard{validationThreshold: threshold}
}

// Authorize checks whether the role may perform the action. For valider,
// montantHT (when supplied) must stay below the threshold for any role except
// admin; a nil montantHT skips the amount check.
func (g *WorkflowGuard) Authorize(role Role, action Action, montantHT *decimal.Decimal) error {
	allowed, ok := rolePermissions[role]
	if !ok || !allowed[action] {
		return &TransitionNotAllowedError{Role: role, Action: action}
	}

	if action == ActionValider && role != RoleAdmin && montantHT != nil {
		if montantHT.GreaterThanOrEqual(g.validationThreshold) {
			threshold := g.validationThreshold
			return &TransitionNotAllowedError{Role: role, Action: action, Threshold: &threshold}
		}
	}

	return nil
}
