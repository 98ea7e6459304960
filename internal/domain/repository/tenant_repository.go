package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
)

// TenantRepository defines the interface for tenant data operations
type TenantRepository interface {
	// Create creates a new tenant
	Create(ctx context.Context, tenant *entity.Tenant) error

	// GetByID retrieves a tenant by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)

	// GetBySlug retrieves a tenant by its slug identifier
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)

	// Update updates an existing tenant
	Update(ctx context.Context, tenant *entity.Tenant) error

	// SlugExists checks if a slug is already taken
	SlugExists(ctx context.Context, slug string) (bool, error)

	// ListBranches retrieves the branches of a tenant
	ListBranches(ctx context.Context, tenantID uuid.UUID) ([]entity.Branch, error)

	// CreateBranch creates a new branch under a tenant
	CreateBranch(ctx context.Context, branch *entity.Branch) error

	// GetBranchByID retrieves a branch by ID
	GetBranchByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
}
