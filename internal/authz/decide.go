package authz

import (
	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

type Action string

const (
	ActionCreate     Action = "create"
	ActionRead       Action = "read"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionTransition Action = "transition"
)

type ResourceType string

const (
	ResourceCompany         ResourceType = "company"
	ResourceUser            ResourceType = "user"
	ResourceBuilding        ResourceType = "building"
	ResourceSpace           ResourceType = "space"
	ResourceOccupant        ResourceType = "occupant"
	ResourceEntitlement     ResourceType = "building_entitlement"
	ResourceInvitation      ResourceType = "invitation"
	ResourceTicket          ResourceType = "ticket"
	ResourceTicketStatusLog ResourceType = "ticket_status_log"
)

// ResourceRef carries the pre-resolved scoping facts of one resource. Callers
// fill in whatever applies: a ticket has a company, building, space and
// creator; a user resource sets OwnerUserID to the user's own id.
type ResourceRef struct {
	Type            ResourceType
	ID              uuid.UUID
	CompanyID       *uuid.UUID
	BuildingID      *uuid.UUID
	SpaceID         *uuid.UUID
	OwnerUserID     *uuid.UUID
	CreatedByUserID *uuid.UUID
}

// Decision is the engine's verdict. Every Deny carries a reason. Conceal is
// set when the caller has no read visibility into the resource at all, so the
// handler should answer 404 rather than 403 to avoid leaking existence.
type Decision struct {
	Allowed bool
	Reason  string
	Conceal bool
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// Decide resolves whether the caller may perform action on the referenced
// resource. Stateless and deny-by-default: any (role, resource, action) triple
// not explicitly granted below is denied.
func Decide(ctx CallerContext, action Action, res ResourceRef) Decision {
	d := decide(ctx, action, res)
	if !d.Allowed && action != ActionRead {
		// A caller who cannot even read the resource must not learn that it
		// exists from the denial.
		if read := decide(ctx, ActionRead, res); !read.Allowed {
			d.Conceal = true
		}
	} else if !d.Allowed && action == ActionRead {
		d.Conceal = true
	}
	return d
}

func decide(ctx CallerContext, action Action, res ResourceRef) Decision {
	if ctx.Role == models.RolePlatformAdmin {
		return allow()
	}

	switch res.Type {
	case ResourceCompany:
		return decideCompany(ctx, action, res)
	case ResourceUser:
		return decideUser(ctx, action, res)
	case ResourceBuilding:
		return decideBuilding(ctx, action, res)
	case ResourceSpace:
		return decideSpace(ctx, action, res)
	case ResourceOccupant:
		return decideOccupant(ctx, action, res)
	case ResourceEntitlement:
		return decideEntitlement(ctx, action, res)
	case ResourceInvitation:
		return decideInvitation(ctx, action, res)
	case ResourceTicket:
		return decideTicket(ctx, action, res)
	case ResourceTicketStatusLog:
		return decideStatusLog(ctx, action, res)
	}
	return deny("unknown resource type")
}

func sameCompany(ctx CallerContext, res ResourceRef) bool {
	return res.CompanyID != nil && ctx.SameCompany(*res.CompanyID)
}

func entitled(ctx CallerContext, res ResourceRef) bool {
	return res.BuildingID != nil && ctx.EntitledTo(*res.BuildingID)
}

func isSelf(ctx CallerContext, res ResourceRef) bool {
	return res.OwnerUserID != nil && *res.OwnerUserID == ctx.UserID
}

func decideCompany(ctx CallerContext, action Action, res ResourceRef) Decision {
	if action == ActionRead && sameCompany(ctx, res) {
		return allow()
	}
	return deny("company access restricted to the caller's own company, read only")
}

func decideUser(ctx CallerContext, action Action, res ResourceRef) Decision {
	switch ctx.Role {
	case models.RoleCompanyAdmin:
		if sameCompany(ctx, res) {
			return allow()
		}
		return deny("company_admin may manage users only within their own company")
	case models.RoleCompanyStaff:
		if action == ActionRead && sameCompany(ctx, res) {
			return allow()
		}
		if isSelf(ctx, res) && (action == ActionRead || action == ActionUpdate) {
			return allow()
		}
		return deny("company_staff may only read users within their own company")
	case models.RoleResident:
		if isSelf(ctx, res) && (action == ActionRead || action == ActionUpdate) {
			return allow()
		}
		return deny("residents may only read or update their own profile")
	}
	return deny("user access denied")
}

func decideBuilding(ctx CallerContext, action Action, res ResourceRef) Decision {
	switch ctx.Role {
	case models.RoleCompanyAdmin:
		if sameCompany(ctx, res) {
			return allow()
		}
		return deny("company_admin may manage buildings only within their own company")
	case models.RoleCompanyStaff:
		// A building ref carries its own id in both ID and BuildingID.
		if action == ActionRead && (entitled(ctx, res) || ctx.EntitledTo(res.ID)) {
			return allow()
		}
		return deny("company_staff may read only buildings they are entitled to")
	case models.RoleResident:
		if action == ActionRead && res.ID != uuid.Nil && ctx.OccupiesBuilding(res.ID) {
			return allow()
		}
		return deny("residents may read only buildings they occupy a space in")
	}
	return deny("building access denied")
}

func decideSpace(ctx CallerContext, action Action, res ResourceRef) Decision {
	switch ctx.Role {
	case models.RoleCompanyAdmin:
		if sameCompany(ctx, res) {
			return allow()
		}
		return deny("company_admin may manage spaces only within their own company's buildings")
	case models.RoleCompanyStaff:
		if action == ActionRead && entitled(ctx, res) {
			return allow()
		}
		return deny("company_staff may read only spaces in entitled buildings")
	case models.RoleResident:
		if action == ActionRead && res.ID != uuid.Nil && ctx.OccupiesSpace(res.ID) {
			return allow()
		}
		return deny("residents may read only their own space")
	}
	return deny("space access denied")
}

func decideOccupant(ctx CallerContext, action Action, res ResourceRef) Decision {
	switch ctx.Role {
	case models.RoleCompanyAdmin:
		if sameCompany(ctx, res) {
			return allow()
		}
		return deny("company_admin may manage occupants only within their own company's spaces")
	case models.RoleCompanyStaff:
		if action == ActionRead && entitled(ctx, res) {
			return allow()
		}
		return deny("company_staff may read only occupants in entitled buildings")
	case models.RoleResident:
		if isSelf(ctx, res) && (action == ActionRead || action == ActionUpdate) {
			return allow()
		}
		return deny("residents may only read or update their own occupant record")
	}
	return deny("occupant access denied")
}

func decideEntitlement(ctx CallerContext, action Action, res ResourceRef) Decision {
	switch ctx.Role {
	case models.RoleCompanyAdmin:
		if sameCompany(ctx, res) {
			return allow()
		}
		return deny("company_admin may manage entitlements only within their own company")
	case models.RoleCompanyStaff:
		if action == ActionRead && isSelf(ctx, res) {
			return allow()
		}
		return deny("company_staff may read only their own entitlements")
	}
	return deny("entitlement access denied")
}

func decideInvitation(ctx CallerContext, action Action, res ResourceRef) Decision {
	if ctx.Role == models.RoleCompanyAdmin {
		if sameCompany(ctx, res) {
			return allow()
		}
		return deny("company_admin may manage invitations only within their own company")
	}
	return deny("invitation access denied")
}

func decideTicket(ctx CallerContext, action Action, res ResourceRef) Decision {
	switch ctx.Role {
	case models.RoleCompanyAdmin:
		if sameCompany(ctx, res) {
			return allow()
		}
		return deny("company_admin may manage tickets only within their own company's buildings")
	case models.RoleCompanyStaff:
		if entitled(ctx, res) {
			return allow()
		}
		return deny("company_staff may manage only tickets in entitled buildings")
	case models.RoleResident:
		switch action {
		case ActionCreate:
			if res.SpaceID != nil && ctx.OccupiesSpace(*res.SpaceID) &&
				res.CreatedByUserID != nil && *res.CreatedByUserID == ctx.UserID {
				return allow()
			}
			return deny("residents may create tickets only for a space they occupy")
		case ActionRead:
			if res.CreatedByUserID != nil && *res.CreatedByUserID == ctx.UserID {
				return allow()
			}
			return deny("residents may read only their own tickets")
		}
		return deny("residents may not edit ticket status or assignment")
	}
	return deny("ticket access denied")
}

func decideStatusLog(ctx CallerContext, action Action, res ResourceRef) Decision {
	if action != ActionRead {
		return deny("the status log is append-only and written only by the workflow engine")
	}
	switch ctx.Role {
	case models.RoleCompanyAdmin:
		if sameCompany(ctx, res) {
			return allow()
		}
		return deny("company_admin may read only their own company's status logs")
	case models.RoleCompanyStaff:
		if entitled(ctx, res) {
			return allow()
		}
		return deny("company_staff may read only status logs of entitled buildings")
	case models.RoleResident:
		if res.CreatedByUserID != nil && *res.CreatedByUserID == ctx.UserID {
			return allow()
		}
		return deny("residents may read only their own tickets' status log")
	}
	return deny("status log access denied")
}
