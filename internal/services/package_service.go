package services

import (
	"context"

	"guidely/internal/models"
	"guidely/internal/repositories/interfaces"
	"guidely/internal/utils"
	"guidely/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PackageService interface {
	CreatePackage(ctx context.Context, request *PackageRequest) (*models.Package, error)
	GetPackage(ctx context.Context, id primitive.ObjectID) (*models.Package, error)
	UpdatePackage(ctx context.Context, id primitive.ObjectID, request *PackageRequest) (*models.Package, error)
	DeletePackage(ctx context.Context, id primitive.ObjectID) error
	ListPackages(ctx context.Context, params *utils.PaginationParams, filter *models.PackageFilter, callerRole models.AccountRole) ([]*models.Package, int64, error)
	SetPackageStatus(ctx context.Context, id primitive.ObjectID, status models.PackageStatus) (*models.Package, error)
	SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) (*models.Package, error)
}

type PackageRequest struct {
	Title      string   `json:"title" validate:"required,min=3,max=200"`
	City       string   `json:"city" validate:"required"`
	Places     []string `json:"places" validate:"required,min=1,dive,required"`
	Images     []string `json:"images" validate:"required,min=1,dive,required"`
	Price      float64  `json:"price" validate:"required,gt=0"`
	Inclusions []string `json:"inclusions"`
	Exclusions []string `json:"exclusions"`
	Featured   bool     `json:"featured"`
}

type packageService struct {
	packageRepo interfaces.PackageRepository
	logger      *logger.Logger
}

func NewPackageService(packageRepo interfaces.PackageRepository, log *logger.Logger) PackageService {
	return &packageService{
		packageRepo: packageRepo,
		logger:      log,
	}
}

func (s *packageService) CreatePackage(ctx context.Context, request *PackageRequest) (*models.Package, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	pkg := &models.Package{
		Title:      utils.SanitizeString(request.Title),
		City:       request.City,
		Places:     request.Places,
		Images:     request.Images,
		Price:      request.Price,
		Inclusions: request.Inclusions,
		Exclusions: request.Exclusions,
		Featured:   request.Featured,
		Status:     models.PackageStatusActive,
	}

	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}

	s.logger.WithField("package_id", pkg.ID.Hex()).Info("package created")
	return pkg, nil
}

func (s *packageService) GetPackage(ctx context.Context, id primitive.ObjectID) (*models.Package, error) {
	return s.packageRepo.GetByID(ctx, id)
}

func (s *packageService) UpdatePackage(ctx context.Context, id primitive.ObjectID, request *PackageRequest) (*models.Package, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	updates := map[string]interface{}{
		"title":      utils.SanitizeString(request.Title),
		"city":       request.City,
		"places":     request.Places,
		"images":     request.Images,
		"price":      request.Price,
		"inclusions": request.Inclusions,
		"exclusions": request.Exclusions,
		"featured":   request.Featured,
	}

	if err := s.packageRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	return s.packageRepo.GetByID(ctx, id)
}

func (s *packageService) DeletePackage(ctx context.Context, id primitive.ObjectID) error {
	return s.packageRepo.Delete(ctx, id)
}

// ListPackages forces the active filter for non-admin callers: inactive
// packages never leak into public listings no matter what the query
// string asks for.
func (s *packageService) ListPackages(ctx context.Context, params *utils.PaginationParams, filter *models.PackageFilter, callerRole models.AccountRole) ([]*models.Package, int64, error) {
	if filter == nil {
		filter = &models.PackageFilter{}
	}
	if callerRole != models.RoleAdmin {
		filter.Status = models.PackageStatusActive
	}

	return s.packageRepo.List(ctx, params, filter)
}

func (s *packageService) SetPackageStatus(ctx context.Context, id primitive.ObjectID, status models.PackageStatus) (*models.Package, error) {
	if status != models.PackageStatusActive && status != models.PackageStatusInactive {
		return nil, utils.NewValidation("unknown package status")
	}

	if err := s.packageRepo.Update(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}

	return s.packageRepo.GetByID(ctx, id)
}

func (s *packageService) SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) (*models.Package, error) {
	if err := s.packageRepo.Update(ctx, id, map[string]interface{}{"featured": featured}); err != nil {
		return nil, err
	}

	return s.packageRepo.GetByID(ctx, id)
}
