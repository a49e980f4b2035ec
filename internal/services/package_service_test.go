package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guidely/internal/models"
	"guidely/internal/utils"
)

func newPackageTestEnv(t *testing.T) (PackageService, *fakePackageRepo) {
	t.Helper()
	repo := newFakePackageRepo()
	return NewPackageService(repo, testLogger(t)), repo
}

func validPackageRequest() *PackageRequest {
	return &PackageRequest{
		Title:  "Jaipur Heritage Walk",
		City:   "Jaipur",
		Places: []string{"Amber Fort", "Hawa Mahal"},
		Images: []string{"jaipur.jpg"},
		Price:  5000,
	}
}

func TestCreatePackage(t *testing.T) {
	service, _ := newPackageTestEnv(t)

	pkg, err := service.CreatePackage(context.Background(), validPackageRequest())
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusActive, pkg.Status, "new packages are live immediately")
	assert.False(t, pkg.ID.IsZero())
}

func TestCreatePackage_Validation(t *testing.T) {
	service, _ := newPackageTestEnv(t)

	request := validPackageRequest()
	request.Price = 0
	_, err := service.CreatePackage(context.Background(), request)
	require.Error(t, err)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
}

func TestListPackages_PublicForcedActive(t *testing.T) {
	service, repo := newPackageTestEnv(t)
	ctx := context.Background()

	active, err := service.CreatePackage(ctx, validPackageRequest())
	require.NoError(t, err)
	request := validPackageRequest()
	request.Title = "Udaipur Lake Tour"
	inactive, err := service.CreatePackage(ctx, request)
	require.NoError(t, err)
	_, err = service.SetPackageStatus(ctx, inactive.ID, models.PackageStatusInactive)
	require.NoError(t, err)

	// A non-admin asking for inactive packages still only gets active ones.
	listed, total, err := service.ListPackages(ctx, nil, &models.PackageFilter{Status: models.PackageStatusInactive}, models.RoleTourist)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, active.ID, listed[0].ID)
	require.NotNil(t, repo.lastListFilter)
	assert.Equal(t, models.PackageStatusActive, repo.lastListFilter.Status)

	// Admins keep their filter.
	listed, total, err = service.ListPackages(ctx, nil, &models.PackageFilter{Status: models.PackageStatusInactive}, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, inactive.ID, listed[0].ID)
}

func TestSetPackageStatus_UnknownStatus(t *testing.T) {
	service, _ := newPackageTestEnv(t)

	pkg, err := service.CreatePackage(context.Background(), validPackageRequest())
	require.NoError(t, err)

	_, err = service.SetPackageStatus(context.Background(), pkg.ID, models.PackageStatus("archived"))
	require.Error(t, err)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
}

func TestSetFeatured(t *testing.T) {
	service, _ := newPackageTestEnv(t)
	ctx := context.Background()

	pkg, err := service.CreatePackage(ctx, validPackageRequest())
	require.NoError(t, err)
	require.False(t, pkg.Featured)

	updated, err := service.SetFeatured(ctx, pkg.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Featured)
}
