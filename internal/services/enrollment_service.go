package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"guidely/internal/models"
	"guidely/internal/repositories/interfaces"
	"guidely/internal/utils"
	"guidely/pkg/logger"
	"guidely/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EnrollmentService interface {
	CreateEnrollment(ctx context.Context, request *EnrollmentRequest) (*models.GuideEnrollment, error)
	GetEnrollment(ctx context.Context, id primitive.ObjectID) (*models.GuideEnrollment, error)
	ListEnrollments(ctx context.Context, params *utils.PaginationParams, status models.EnrollmentStatus) ([]*models.GuideEnrollment, int64, error)

	// VerifyEnrollment is the admin review step: documents checked, an
	// enrollment-fee order is created and a payment link emailed. The
	// enrollment moves to payment_pending; the paid webhook or checkout
	// verification completes it.
	VerifyEnrollment(ctx context.Context, id primitive.ObjectID) (*models.GuideEnrollment, error)

	// SettleEnrollmentPayment finishes the pipeline once the fee is paid:
	// the enrollment becomes verified and a guide account is provisioned.
	SettleEnrollmentPayment(ctx context.Context, enrollmentID primitive.ObjectID) error
}

// EnrollmentDocument is one uploaded file from the multipart form.
type EnrollmentDocument struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type EnrollmentRequest struct {
	Name      string   `json:"name" validate:"required,min=2,max=100"`
	Email     string   `json:"email" validate:"required,email"`
	Phone     string   `json:"phone" validate:"required"`
	City      string   `json:"city" validate:"required"`
	Languages []string `json:"languages" validate:"required,min=1,dive,required"`
	Documents []*EnrollmentDocument
}

type enrollmentService struct {
	enrollmentRepo interfaces.EnrollmentRepository
	paymentService PaymentService
	authService    AuthService
	notification   NotificationService
	storage        storage.Provider
	frontendURL    string
	logger         *logger.Logger
}

func NewEnrollmentService(
	enrollmentRepo interfaces.EnrollmentRepository,
	paymentService PaymentService,
	authService AuthService,
	notification NotificationService,
	storageProvider storage.Provider,
	frontendURL string,
	log *logger.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		paymentService: paymentService,
		authService:    authService,
		notification:   notification,
		storage:        storageProvider,
		frontendURL:    frontendURL,
		logger:         log,
	}
}

func (s *enrollmentService) CreateEnrollment(ctx context.Context, request *EnrollmentRequest) (*models.GuideEnrollment, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	enrollment := &models.GuideEnrollment{
		Name:      utils.SanitizeString(request.Name),
		Email:     utils.NormalizeEmail(request.Email),
		Phone:     request.Phone,
		City:      request.City,
		Languages: request.Languages,
		Status:    models.EnrollmentStatusUnverified,
	}

	for _, doc := range request.Documents {
		url, err := s.storeDocument(ctx, enrollment.Email, doc)
		if err != nil {
			return nil, err
		}
		switch doc.Field {
		case "license":
			enrollment.LicenseDoc = url
		case "aadhar":
			enrollment.AadharDoc = url
		case "photo":
			enrollment.PhotoDoc = url
		}
	}

	if enrollment.LicenseDoc == "" || enrollment.AadharDoc == "" || enrollment.PhotoDoc == "" {
		return nil, utils.NewValidation("license, aadhar and photo documents are required")
	}

	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	s.logger.WithField("enrollment_id", enrollment.ID.Hex()).Info("guide enrollment submitted")
	return enrollment, nil
}

func (s *enrollmentService) storeDocument(ctx context.Context, email string, doc *EnrollmentDocument) (string, error) {
	key := fmt.Sprintf("enrollments/%s/%s_%s", email, doc.Field, doc.Filename)

	uploaded, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      doc.Reader,
		ContentType: doc.ContentType,
		Size:        doc.Size,
	})
	if err != nil {
		return "", utils.NewServer("failed to store enrollment document", err)
	}

	return uploaded.URL, nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, id primitive.ObjectID) (*models.GuideEnrollment, error) {
	return s.enrollmentRepo.GetByID(ctx, id)
}

func (s *enrollmentService) ListEnrollments(ctx context.Context, params *utils.PaginationParams, status models.EnrollmentStatus) ([]*models.GuideEnrollment, int64, error) {
	return s.enrollmentRepo.List(ctx, params, status)
}

func (s *enrollmentService) VerifyEnrollment(ctx context.Context, id primitive.ObjectID) (*models.GuideEnrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if enrollment.Status != models.EnrollmentStatusUnverified {
		return nil, utils.NewUnprocessable(fmt.Sprintf("enrollment is already %s", enrollment.Status))
	}

	order, err := s.paymentService.CreateEnrollmentOrder(ctx, enrollment, utils.GuideEnrollmentFee)
	if err != nil {
		return nil, err
	}

	paymentLink := fmt.Sprintf("%s/enroll/pay?order=%s", s.frontendURL, order.OrderID)
	if !s.notification.SendPaymentLinkEmail(ctx, enrollment.Name, enrollment.Email, order.Amount, paymentLink) {
		return nil, utils.NewServer("failed to send payment link email", nil)
	}

	err = s.enrollmentRepo.Update(ctx, enrollment.ID, map[string]interface{}{
		"status": models.EnrollmentStatusPaymentPending,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("enrollment_id", enrollment.ID.Hex()).Info("enrollment approved, payment requested")
	return s.enrollmentRepo.GetByID(ctx, enrollment.ID)
}

func (s *enrollmentService) SettleEnrollmentPayment(ctx context.Context, enrollmentID primitive.ObjectID) error {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return err
	}

	if enrollment.Status == models.EnrollmentStatusVerified {
		return nil
	}
	if enrollment.Status != models.EnrollmentStatusPaymentPending {
		return utils.NewUnprocessable("enrollment fee is not payable in its current state")
	}

	account, err := s.authService.CreateGuideAccount(ctx, &CreateGuideRequest{
		Name:      enrollment.Name,
		Email:     enrollment.Email,
		Phone:     enrollment.Phone,
		City:      enrollment.City,
		Languages: enrollment.Languages,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	err = s.enrollmentRepo.Update(ctx, enrollment.ID, map[string]interface{}{
		"status":      models.EnrollmentStatusVerified,
		"account_id":  account.ID,
		"verified_at": now,
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"enrollment_id": enrollment.ID.Hex(),
		"account_id":    account.ID.Hex(),
	}).Info("enrollment verified, guide account provisioned")

	return nil
}
