// Package workflow owns the ticket status state machine. The legal moves are a
// declarative adjacency table keyed by (role, fromStatus); any pair not listed
// has zero outgoing transitions for that role.
package workflow

import (
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

// staffTransitions is the forward-progress graph shared by company_admin and
// company_staff (their scoping differs upstream in the authorization engine,
// not here). completed, invoiced and cancelled are terminal: once reached,
// neither company role can move the ticket again. Invoicing a completed
// ticket is a platform_admin action via the override path.
var staffTransitions = map[models.TicketStatus][]models.TicketStatus{
	models.StatusNew:             {models.StatusNeedsInfo, models.StatusScheduled, models.StatusCancelled},
	models.StatusNeedsInfo:       {models.StatusNew, models.StatusScheduled, models.StatusCancelled},
	models.StatusScheduled:       {models.StatusDispatched, models.StatusNeedsInfo, models.StatusCancelled},
	models.StatusDispatched:      {models.StatusOnSite, models.StatusScheduled, models.StatusCancelled},
	models.StatusOnSite:          {models.StatusInProgress, models.StatusDispatched},
	models.StatusInProgress:      {models.StatusWaitingApproval, models.StatusCompleted, models.StatusOnSite},
	models.StatusWaitingApproval: {models.StatusCompleted, models.StatusScheduled, models.StatusCancelled},
}

// AllowedTransitions returns the set of statuses the role may move a ticket to
// from the current status. Residents never drive status; platform_admin has an
// administrative override to any other status (support/correction path, not
// part of the normal workflow graph).
func AllowedTransitions(current models.TicketStatus, role models.Role) []models.TicketStatus {
	switch role {
	case models.RolePlatformAdmin:
		out := make([]models.TicketStatus, 0, len(models.AllTicketStatuses)-1)
		for _, s := range models.AllTicketStatuses {
			if s != current {
				out = append(out, s)
			}
		}
		return out
	case models.RoleCompanyAdmin, models.RoleCompanyStaff:
		return append([]models.TicketStatus{}, staffTransitions[current]...)
	}
	return nil
}

// CanTransition reports whether role may move a ticket from one status to
// another.
func CanTransition(role models.Role, from, to models.TicketStatus) bool {
	for _, s := range AllowedTransitions(from, role) {
		if s == to {
			return true
		}
	}
	return false
}

// TerminalForStaff reports whether staff-level actors have no outgoing
// transition from the status.
func TerminalForStaff(s models.TicketStatus) bool {
	return len(staffTransitions[s]) == 0
}
