package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	tfrequire "github.com/stretchr/testify/require"

	"github.com/marcobasurco/Plumbtix-sub001/internal/authz"
	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

func listFixture() (*TicketService, uuid.UUID, uuid.UUID, uuid.UUID) {
	companyID := uuid.New()
	buildingA := uuid.New()
	buildingB := uuid.New()

	tickets := &stubTicketRepo{
		companyOf: map[uuid.UUID]uuid.UUID{buildingA: companyID, buildingB: companyID},
		tickets: []*models.Ticket{
			{ID: uuid.New(), TicketNumber: 1001, BuildingID: buildingA, CreatedByUserID: uuid.New(), Status: models.StatusNew},
			{ID: uuid.New(), TicketNumber: 1002, BuildingID: buildingA, CreatedByUserID: uuid.New(), Status: models.StatusScheduled},
			{ID: uuid.New(), TicketNumber: 1003, BuildingID: buildingB, CreatedByUserID: uuid.New(), Status: models.StatusNew},
		},
	}
	svc := NewTicketService(tickets, &stubStatusLogRepo{}, newStubBuildingRepo(), nil, newStubUserRepo(), nil, nil)
	return svc, companyID, buildingA, buildingB
}

func TestListTicketsStaffWithoutEntitlements(t *testing.T) {
	svc, companyID, _, buildingB := listFixture()

	staff := authz.CallerContext{
		UserID:    uuid.New(),
		Role:      models.RoleCompanyStaff,
		CompanyID: &companyID,
	}

	out, err := svc.ListTickets(context.Background(), staff, dtos.ListTicketsQuery{})
	tfrequire.NoError(t, err)
	tfrequire.Empty(t, out)

	// A building filter must not widen an empty entitlement set.
	out, err = svc.ListTickets(context.Background(), staff, dtos.ListTicketsQuery{BuildingID: &buildingB})
	tfrequire.NoError(t, err)
	tfrequire.Empty(t, out)
}

func TestListTicketsStaffScopedToEntitlements(t *testing.T) {
	svc, companyID, buildingA, buildingB := listFixture()

	staff := authz.CallerContext{
		UserID:              uuid.New(),
		Role:                models.RoleCompanyStaff,
		CompanyID:           &companyID,
		EntitledBuildingIDs: []uuid.UUID{buildingA},
	}

	out, err := svc.ListTickets(context.Background(), staff, dtos.ListTicketsQuery{})
	tfrequire.NoError(t, err)
	tfrequire.Len(t, out, 2)
	for _, ticket := range out {
		tfrequire.Equal(t, buildingA, ticket.BuildingID)
	}

	// Requesting a building outside the entitled set intersects to nothing.
	out, err = svc.ListTickets(context.Background(), staff, dtos.ListTicketsQuery{BuildingID: &buildingB})
	tfrequire.NoError(t, err)
	tfrequire.Empty(t, out)
}

func TestListTicketsAdminSeesWholeCompany(t *testing.T) {
	svc, companyID, _, _ := listFixture()

	admin := authz.CallerContext{
		UserID:    uuid.New(),
		Role:      models.RoleCompanyAdmin,
		CompanyID: &companyID,
	}

	out, err := svc.ListTickets(context.Background(), admin, dtos.ListTicketsQuery{})
	tfrequire.NoError(t, err)
	tfrequire.Len(t, out, 3)
}

func TestListTicketsResidentOwnOnly(t *testing.T) {
	svc, _, buildingA, _ := listFixture()

	resident := authz.CallerContext{
		UserID:              uuid.New(),
		Role:                models.RoleResident,
		ResidentBuildingIDs: []uuid.UUID{buildingA},
	}

	out, err := svc.ListTickets(context.Background(), resident, dtos.ListTicketsQuery{})
	tfrequire.NoError(t, err)
	tfrequire.Empty(t, out, "resident created none of the fixture tickets")
}
