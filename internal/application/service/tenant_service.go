package service

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/pkg/apperror"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// TenantService manages business tenants and their branches
type TenantService struct {
	tenantRepo repository.TenantRepository
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository) *TenantService {
	return &TenantService{tenantRepo: tenantRepo}
}

// CreateTenantInput represents the create tenant input
type CreateTenantInput struct {
	Name    string
	Slug    string
	Address string
	Phone   string
	TaxID   string
}

// CreateTenant creates a new business tenant
func (s *TenantService) CreateTenant(ctx context.Context, input *CreateTenantInput) (*entity.Tenant, error) {
	if input.Name == "" {
		return nil, apperror.NewUnprocessableError("Tenant name is required")
	}
	if !slugPattern.MatchString(input.Slug) {
		return nil, apperror.NewUnprocessableError("Slug must be lowercase alphanumeric with hyphens")
	}

	exists, err := s.tenantRepo.SlugExists(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflictError("Slug already taken")
	}

	tenant := &entity.Tenant{
		Name:    input.Name,
		Slug:    input.Slug,
		Address: input.Address,
		Phone:   input.Phone,
		TaxID:   input.TaxID,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// GetTenant retrieves a tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return tenant, nil
}

// UpdateTenantInput represents the update tenant input
type UpdateTenantInput struct {
	Name    *string
	Address *string
	Phone   *string
	TaxID   *string
}

// UpdateTenant updates tenant profile fields; the slug is immutable
func (s *TenantService) UpdateTenant(ctx context.Context, id uuid.UUID, input *UpdateTenantInput) (*entity.Tenant, error) {
	tenant, err := s.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		tenant.Name = *input.Name
	}
	if input.Address != nil {
		tenant.Address = *input.Address
	}
	if input.Phone != nil {
		tenant.Phone = *input.Phone
	}
	if input.TaxID != nil {
		tenant.TaxID = *input.TaxID
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// ListBranches lists the branches of a tenant
func (s *TenantService) ListBranches(ctx context.Context, tenantID uuid.UUID) ([]entity.Branch, error) {
	if _, err := s.GetTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	return s.tenantRepo.ListBranches(ctx, tenantID)
}

// CreateBranchInput represents the create branch input
type CreateBranchInput struct {
	TenantID uuid.UUID
	Name     string
	Address  string
}

// CreateBranch creates a new branch under a tenant
func (s *TenantService) CreateBranch(ctx context.Context, input *CreateBranchInput) (*entity.Branch, error) {
	if input.Name == "" {
		return nil, apperror.NewUnprocessableError("Branch name is required")
	}
	if _, err := s.GetTenant(ctx, input.TenantID); err != nil {
		return nil, err
	}

	branch := &entity.Branch{
		TenantID: input.TenantID,
		Name:     input.Name,
		Address:  input.Address,
	}
	if err := s.tenantRepo.CreateBranch(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}
