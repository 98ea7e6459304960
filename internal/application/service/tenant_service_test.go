package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateTenantStoresProfileFields(t *testing.T) {
	t.Parallel()

	repo := newFakeTenantRepo()
	svc := NewTenantService(repo)

	tenant, err := svc.CreateTenant(context.Background(), &CreateTenantInput{
		Name:    "Corner Store",
		Slug:    "corner-store",
		Address: "12 Main Rd",
		Phone:   "0211234567",
		TaxID:   "VAT-99887",
	})
	require.NoError(t, err)
	require.Equal(t, "12 Main Rd", tenant.Address)
	require.Equal(t, "0211234567", tenant.Phone)
	require.Equal(t, "VAT-99887", tenant.TaxID)

	stored, err := repo.GetByID(context.Background(), tenant.ID)
	require.NoError(t, err)
	require.Equal(t, "12 Main Rd", stored.Address)
}

func TestCreateTenantValidatesSlug(t *testing.T) {
	t.Parallel()

	repo := newFakeTenantRepo()
	svc := NewTenantService(repo)

	_, err := svc.CreateTenant(context.Background(), &CreateTenantInput{Name: "Shop", Slug: "Bad Slug!"})
	require.Error(t, err)

	_, err = svc.CreateTenant(context.Background(), &CreateTenantInput{Name: "Shop", Slug: "shop"})
	require.NoError(t, err)

	// Slug is unique
	_, err = svc.CreateTenant(context.Background(), &CreateTenantInput{Name: "Other", Slug: "shop"})
	require.Error(t, err)
}

func TestUpdateTenantPartialFields(t *testing.T) {
	t.Parallel()

	repo := newFakeTenantRepo()
	svc := NewTenantService(repo)

	tenant, err := svc.CreateTenant(context.Background(), &CreateTenantInput{
		Name:    "Corner Store",
		Slug:    "corner-store",
		Address: "12 Main Rd",
		Phone:   "0211234567",
	})
	require.NoError(t, err)

	newAddress := "99 Long St"
	updated, err := svc.UpdateTenant(context.Background(), tenant.ID, &UpdateTenantInput{
		Address: &newAddress,
	})
	require.NoError(t, err)
	require.Equal(t, "99 Long St", updated.Address)
	// Untouched fields keep their values
	require.Equal(t, "0211234567", updated.Phone)
	require.Equal(t, "Corner Store", updated.Name)
}

func TestCreateBranch(t *testing.T) {
	t.Parallel()

	repo := newFakeTenantRepo()
	svc := NewTenantService(repo)

	tenant, err := svc.CreateTenant(context.Background(), &CreateTenantInput{Name: "Shop", Slug: "shop"})
	require.NoError(t, err)

	branch, err := svc.CreateBranch(context.Background(), &CreateBranchInput{
		TenantID: tenant.ID,
		Name:     "Downtown",
		Address:  "5 Market Sq",
	})
	require.NoError(t, err)
	require.Equal(t, "5 Market Sq", branch.Address)

	branches, err := svc.ListBranches(context.Background(), tenant.ID)
	require.NoError(t, err)
	require.Len(t, branches, 1)

	_, err = svc.CreateBranch(context.Background(), &CreateBranchInput{TenantID: tenant.ID})
	require.Error(t, err)
}
