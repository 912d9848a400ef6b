package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/authz"
	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type CompanyService struct {
	companies repositories.CompanyRepository
}

func NewCompanyService(companies repositories.CompanyRepository) *CompanyService {
	return &CompanyService{companies: companies}
}

// CreateCompany provisions a new tenant. Platform admins only.
func (s *CompanyService) CreateCompany(ctx context.Context, actor authz.CallerContext, req dtos.CreateCompanyRequest) (*models.Company, error) {
	ref := authz.ResourceRef{Type: authz.ResourceCompany}
	if err := require(actor, authz.ActionCreate, ref, "company"); err != nil {
		return nil, err
	}

	company := &models.Company{
		ID:       uuid.New(),
		Name:     req.Name,
		Slug:     req.Slug,
		Settings: req.Settings,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.ConflictError("a company with this slug already exists")
		}
		return nil, utils.InternalError(err)
	}
	return company, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, actor authz.CallerContext, id uuid.UUID) (*models.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if company == nil {
		return nil, utils.NotFoundError("company not found")
	}

	ref := authz.ResourceRef{Type: authz.ResourceCompany, ID: company.ID, CompanyID: &company.ID}
	if err := require(actor, authz.ActionRead, ref, "company"); err != nil {
		return nil, err
	}
	return company, nil
}

// ListCompanies returns every tenant for a platform admin, or the caller's own
// company as a single-element list otherwise.
func (s *CompanyService) ListCompanies(ctx context.Context, actor authz.CallerContext) ([]*models.Company, error) {
	if actor.Role == models.RolePlatformAdmin {
		out, err := s.companies.ListAll(ctx)
		if err != nil {
			return nil, utils.InternalError(err)
		}
		return out, nil
	}
	if actor.CompanyID == nil {
		return []*models.Company{}, nil
	}
	company, err := s.companies.GetByID(ctx, *actor.CompanyID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if company == nil {
		return []*models.Company{}, nil
	}
	return []*models.Company{company}, nil
}

func (s *CompanyService) UpdateCompany(ctx context.Context, actor authz.CallerContext, id uuid.UUID, req dtos.UpdateCompanyRequest) (*models.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if company == nil {
		return nil, utils.NotFoundError("company not found")
	}

	ref := authz.ResourceRef{Type: authz.ResourceCompany, ID: company.ID, CompanyID: &company.ID}
	if err := require(actor, authz.ActionUpdate, ref, "company"); err != nil {
		return nil, err
	}

	if err := s.companies.UpdateWithRetry(ctx, id, func(c *models.Company) error {
		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.Settings != nil {
			c.Settings = req.Settings
		}
		return nil
	}); err != nil {
		return nil, utils.InternalError(err)
	}
	return s.companies.GetByID(ctx, id)
}

// DeleteCompany refuses while buildings still reference the company.
func (s *CompanyService) DeleteCompany(ctx context.Context, actor authz.CallerContext, id uuid.UUID) error {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return utils.InternalError(err)
	}
	if company == nil {
		return utils.NotFoundError("company not found")
	}

	ref := authz.ResourceRef{Type: authz.ResourceCompany, ID: company.ID, CompanyID: &company.ID}
	if err := require(actor, authz.ActionDelete, ref, "company"); err != nil {
		return err
	}

	hasBuildings, err := s.companies.HasBuildings(ctx, id)
	if err != nil {
		return utils.InternalError(err)
	}
	if hasBuildings {
		return utils.DependencyExistsError("company still has buildings")
	}

	if err := s.companies.Delete(ctx, id); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return utils.DependencyExistsError("company still has dependent records")
		}
		return utils.InternalError(err)
	}
	return nil
}
