package routes

const (
	// Health
	Health = "/health"

	// Auth (public)
	AuthLogin = "/api/v1/auth/login"

	// Companies
	Companies   = "/api/v1/companies"
	CompanyByID = "/api/v1/companies/{id}"

	// Users
	Users    = "/api/v1/users"
	UserByID = "/api/v1/users/{id}"

	// Buildings
	Buildings    = "/api/v1/buildings"
	BuildingByID = "/api/v1/buildings/{id}"

	// Spaces
	Spaces    = "/api/v1/spaces"
	SpaceByID = "/api/v1/spaces/{id}"

	// Occupants and claim tokens
	Occupants      = "/api/v1/occupants"
	OccupantByID   = "/api/v1/occupants/{id}"
	OccupantInvite = "/api/v1/occupants/{id}/invite"
	ClaimsRedeem   = "/api/v1/claims/redeem" // public

	// Invitations
	Invitations       = "/api/v1/invitations"
	InvitationByID    = "/api/v1/invitations/{id}"
	InvitationResend  = "/api/v1/invitations/{id}/resend"
	InvitationsRedeem = "/api/v1/invitations/redeem" // public

	// Entitlements
	Entitlements    = "/api/v1/entitlements"
	EntitlementByID = "/api/v1/entitlements/{id}"

	// Tickets
	Tickets          = "/api/v1/tickets"
	TicketByID       = "/api/v1/tickets/{id}"
	TicketTransition = "/api/v1/tickets/{id}/transition"
	TicketHistory    = "/api/v1/tickets/{id}/history"
)
