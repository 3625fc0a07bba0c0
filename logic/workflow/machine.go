package workflow

import (
	"time"

	"contractflow/types"
)

// transitions is the full workflow graph. Approved and rejected are terminal.
// Uploaded can go straight to analyzed (admin-initiated analysis without
// assignment), and approval may skip the explicit reviewed step when analysis
// alone is sufficient.
var transitions = map[types.Status][]types.Status{
	types.StatusUploaded: {types.StatusAssigned, types.StatusAnalyzed},
	types.StatusAssigned: {types.StatusAnalyzed},
	types.StatusAnalyzed: {types.StatusReviewed, types.StatusApproved, types.StatusRejected},
	types.StatusReviewed: {types.StatusApproved, types.StatusRejected},
}

// CanTransition reports whether the edge from -> to exists in the graph.
func CanTransition(from, to types.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Default comments recorded when approve/reject is called without one.
// The recorded comment is never empty.
const (
	DefaultApproveComment = "Approved without additional comments"
	DefaultRejectComment  = "Rejected without additional comments"
)

// DefaultComment returns the substitute comment for a decision status.
func DefaultComment(target types.Status) string {
	if target == types.StatusRejected {
		return DefaultRejectComment
	}
	return DefaultApproveComment
}

// Authorize validates that actor may move the contract to target. The edge is
// checked first, then role permission:
//
//   - assignment requires admin or creator;
//   - analysis and review require admin, creator or legal assistant, and a
//     legal assistant only ever acts on contracts assigned to them;
//   - approve/reject require admin or creator, or the assignee when the actor
//     is a legal assistant.
//
// Assignment binding is checked against the persisted contract, never against
// anything the caller claims.
func Authorize(c *types.Contract, actor types.Actor, target types.Status) error {
	if !CanTransition(c.Status, target) {
		// Re-running analysis on an already analyzed contract is permitted:
		// it only fills missing languages and re-reconciles risk, it never
		// replaces a stored result.
		if !(c.Status == types.StatusAnalyzed && target == types.StatusAnalyzed) {
			return types.ErrInvalidTransition
		}
	}

	switch target {
	case types.StatusAssigned:
		if !isPrivileged(actor.Role) {
			return types.ErrForbidden
		}
	case types.StatusAnalyzed, types.StatusReviewed:
		switch {
		case isPrivileged(actor.Role):
		case actor.Role == types.RoleLegalAssistant && isAssignee(c, actor):
		default:
			return types.ErrForbidden
		}
	case types.StatusApproved, types.StatusRejected:
		switch {
		case isPrivileged(actor.Role):
		case actor.Role == types.RoleLegalAssistant && isAssignee(c, actor):
		default:
			return types.ErrForbidden
		}
	default:
		return types.ErrInvalidTransition
	}
	return nil
}

// Apply mutates the contract for an authorized transition, recording who,
// when and why. Callers are expected to have run Authorize first.
func Apply(c *types.Contract, actor types.Actor, target types.Status, comment string, now time.Time) {
	c.Status = target
	c.UpdatedAt = now

	switch target {
	case types.StatusAssigned:
		c.AssignedAt = &now
	case types.StatusApproved, types.StatusRejected:
		if comment == "" {
			comment = DefaultComment(target)
		}
		actorID := actor.ID
		c.ApprovedBy = &actorID
		c.ApprovalComment = comment
	}
}

func isPrivileged(role types.Role) bool {
	return role == types.RoleAdmin || role == types.RoleCreator
}

func isAssignee(c *types.Contract, actor types.Actor) bool {
	return c.AssignedTo != nil && *c.AssignedTo == actor.ID
}
