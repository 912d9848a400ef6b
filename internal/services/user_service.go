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

type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func userRef(u *models.User) authz.ResourceRef {
	return authz.ResourceRef{
		Type:        authz.ResourceUser,
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		OwnerUserID: &u.ID,
	}
}

// CreateUser provisions an account directly, without an invitation. Company
// admins create staff within their company; platform admins create anyone.
func (s *UserService) CreateUser(ctx context.Context, actor authz.CallerContext, req dtos.CreateUserRequest) (*models.User, error) {
	if !models.ValidRole(req.Role) {
		return nil, utils.ValidationError("unknown role")
	}
	if req.Role == models.RolePlatformAdmin && req.CompanyID != nil {
		return nil, utils.ValidationError("platform admins do not belong to a company")
	}
	if req.Role != models.RolePlatformAdmin && req.CompanyID == nil {
		return nil, utils.ValidationError("company_id is required for this role")
	}

	ref := authz.ResourceRef{Type: authz.ResourceUser, CompanyID: req.CompanyID}
	if err := require(actor, authz.ActionCreate, ref, "user"); err != nil {
		return nil, err
	}

	email := utils.NormalizeEmail(req.Email)
	if !utils.IsValidEmail(email) {
		return nil, utils.ValidationError("invalid email address")
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.InternalError(err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         req.Role,
		CompanyID:    req.CompanyID,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.ConflictError("a user with this email already exists")
		}
		return nil, utils.InternalError(err)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, actor authz.CallerContext, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if user == nil {
		return nil, utils.NotFoundError("user not found")
	}
	if err := require(actor, authz.ActionRead, userRef(user), "user"); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns the caller's company roster. Platform admins pick the
// company; everyone else is pinned to their own.
func (s *UserService) ListUsers(ctx context.Context, actor authz.CallerContext, companyID *uuid.UUID) ([]*models.User, error) {
	target := companyID
	if actor.Role != models.RolePlatformAdmin {
		target = actor.CompanyID
	}
	if target == nil {
		return nil, utils.ValidationError("company_id is required")
	}

	ref := authz.ResourceRef{Type: authz.ResourceUser, CompanyID: target}
	if err := require(actor, authz.ActionRead, ref, "user"); err != nil {
		return nil, err
	}

	out, err := s.users.ListByCompanyID(ctx, *target)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	return out, nil
}

func (s *UserService) UpdateUser(ctx context.Context, actor authz.CallerContext, id uuid.UUID, req dtos.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if user == nil {
		return nil, utils.NotFoundError("user not found")
	}
	if err := require(actor, authz.ActionUpdate, userRef(user), "user"); err != nil {
		return nil, err
	}

	var hash string
	if req.Password != nil {
		if hash, err = utils.HashPassword(*req.Password); err != nil {
			return nil, utils.InternalError(err)
		}
	}
	if req.Phone != nil && *req.Phone != "" && !utils.IsE164(*req.Phone) {
		return nil, utils.ValidationError("phone must be E.164 formatted")
	}

	if err := s.users.UpdateWithRetry(ctx, id, func(u *models.User) error {
		if req.FullName != nil {
			u.FullName = *req.FullName
		}
		if req.Phone != nil {
			u.Phone = req.Phone
		}
		if req.Password != nil {
			u.PasswordHash = hash
		}
		return nil
	}); err != nil {
		return nil, utils.InternalError(err)
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, actor authz.CallerContext, id uuid.UUID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return utils.InternalError(err)
	}
	if user == nil {
		return utils.NotFoundError("user not found")
	}
	if err := require(actor, authz.ActionDelete, userRef(user), "user"); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return utils.DependencyExistsError("user still has dependent records")
		}
		return utils.InternalError(err)
	}
	return nil
}
