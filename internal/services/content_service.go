package services

import (
	"context"
	"regexp"
	"strings"

	"guidely/internal/models"
	"guidely/internal/repositories/interfaces"
	"guidely/internal/utils"
	"guidely/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContentService interface {
	CreateBlog(ctx context.Context, author primitive.ObjectID, request *BlogRequest) (*models.Blog, error)
	GetBlog(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error)
	UpdateBlog(ctx context.Context, id primitive.ObjectID, request *BlogRequest) (*models.Blog, error)
	DeleteBlog(ctx context.Context, id primitive.ObjectID) error
	ListBlogs(ctx context.Context, params *utils.PaginationParams, status models.BlogStatus, callerRole models.AccountRole) ([]*models.Blog, int64, error)

	CreateLead(ctx context.Context, request *LeadRequest) (*models.Lead, error)
	ListLeads(ctx context.Context, params *utils.PaginationParams, status models.LeadStatus) ([]*models.Lead, int64, error)
	UpdateLeadStatus(ctx context.Context, id primitive.ObjectID, status models.LeadStatus) (*models.Lead, error)
}

type BlogRequest struct {
	Title      string `json:"title" validate:"required,min=3,max=200"`
	Content    string `json:"content" validate:"required"`
	CoverImage string `json:"cover_image"`
	Status     string `json:"status" validate:"omitempty,oneof=draft published"`
}

type LeadRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}

type contentService struct {
	blogRepo interfaces.BlogRepository
	leadRepo interfaces.LeadRepository
	logger   *logger.Logger
}

func NewContentService(blogRepo interfaces.BlogRepository, leadRepo interfaces.LeadRepository, log *logger.Logger) ContentService {
	return &contentService{
		blogRepo: blogRepo,
		leadRepo: leadRepo,
		logger:   log,
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

func (s *contentService) CreateBlog(ctx context.Context, author primitive.ObjectID, request *BlogRequest) (*models.Blog, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	status := models.BlogStatusDraft
	if request.Status != "" {
		status = models.BlogStatus(request.Status)
	}

	blog := &models.Blog{
		Title:      utils.SanitizeString(request.Title),
		Slug:       slugify(request.Title),
		Content:    request.Content,
		CoverImage: request.CoverImage,
		Author:     author,
		Status:     status,
	}

	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

func (s *contentService) GetBlog(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	return s.blogRepo.GetByID(ctx, id)
}

func (s *contentService) GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	return s.blogRepo.GetBySlug(ctx, slug)
}

func (s *contentService) UpdateBlog(ctx context.Context, id primitive.ObjectID, request *BlogRequest) (*models.Blog, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	updates := map[string]interface{}{
		"title":       utils.SanitizeString(request.Title),
		"slug":        slugify(request.Title),
		"content":     request.Content,
		"cover_image": request.CoverImage,
	}
	if request.Status != "" {
		updates["status"] = models.BlogStatus(request.Status)
	}

	if err := s.blogRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	return s.blogRepo.GetByID(ctx, id)
}

func (s *contentService) DeleteBlog(ctx context.Context, id primitive.ObjectID) error {
	return s.blogRepo.Delete(ctx, id)
}

// ListBlogs restricts non-admins to published posts.
func (s *contentService) ListBlogs(ctx context.Context, params *utils.PaginationParams, status models.BlogStatus, callerRole models.AccountRole) ([]*models.Blog, int64, error) {
	if callerRole != models.RoleAdmin {
		status = models.BlogStatusPublished
	}
	return s.blogRepo.List(ctx, params, status)
}

func (s *contentService) CreateLead(ctx context.Context, request *LeadRequest) (*models.Lead, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	lead := &models.Lead{
		Name:    utils.SanitizeString(request.Name),
		Email:   utils.NormalizeEmail(request.Email),
		Phone:   request.Phone,
		Message: utils.SanitizeString(request.Message),
		Status:  models.LeadStatusNew,
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}

	s.logger.WithField("lead_id", lead.ID.Hex()).Info("lead captured")
	return lead, nil
}

func (s *contentService) ListLeads(ctx context.Context, params *utils.PaginationParams, status models.LeadStatus) ([]*models.Lead, int64, error) {
	return s.leadRepo.List(ctx, params, status)
}

func (s *contentService) UpdateLeadStatus(ctx context.Context, id primitive.ObjectID, status models.LeadStatus) (*models.Lead, error) {
	switch status {
	case models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusClosed:
	default:
		return nil, utils.NewValidation("unknown lead status")
	}

	if err := s.leadRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.leadRepo.GetByID(ctx, id)
}
