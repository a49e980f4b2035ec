package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"guidely/internal/config"
	"guidely/internal/models"
	"guidely/internal/utils"
	"guidely/pkg/storage"
)

type fakeEnrollmentRepo struct {
	mu          sync.Mutex
	enrollments map[primitive.ObjectID]*models.GuideEnrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: map[primitive.ObjectID]*models.GuideEnrollment{}}
}

func (r *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.GuideEnrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.enrollments {
		if existing.Email == enrollment.Email {
			return utils.NewConflict("enrollment already submitted for this email")
		}
	}
	enrollment.ID = primitive.NewObjectID()
	enrollment.CreatedAt = time.Now()
	enrollment.UpdatedAt = enrollment.CreatedAt
	clone := *enrollment
	r.enrollments[enrollment.ID] = &clone
	return nil
}

func (r *fakeEnrollmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.GuideEnrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	enrollment, ok := r.enrollments[id]
	if !ok {
		return nil, utils.NewNotFound("enrollment")
	}
	clone := *enrollment
	return &clone, nil
}

func (r *fakeEnrollmentRepo) GetByEmail(ctx context.Context, email string) (*models.GuideEnrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, enrollment := range r.enrollments {
		if enrollment.Email == email {
			clone := *enrollment
			return &clone, nil
		}
	}
	return nil, utils.NewNotFound("enrollment")
}

func (r *fakeEnrollmentRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	enrollment, ok := r.enrollments[id]
	if !ok {
		return utils.NewNotFound("enrollment")
	}
	if status, ok := updates["status"].(models.EnrollmentStatus); ok {
		enrollment.Status = status
	}
	if accountID, ok := updates["account_id"].(primitive.ObjectID); ok {
		enrollment.AccountID = &accountID
	}
	enrollment.UpdatedAt = time.Now()
	return nil
}

func (r *fakeEnrollmentRepo) List(ctx context.Context, params *utils.PaginationParams, status models.EnrollmentStatus) ([]*models.GuideEnrollment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.GuideEnrollment
	for _, enrollment := range r.enrollments {
		if status != "" && enrollment.Status != status {
			continue
		}
		clone := *enrollment
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

type fakeStorage struct {
	mu   sync.Mutex
	keys []string
}

func (s *fakeStorage) Upload(ctx context.Context, request *storage.UploadRequest) (*storage.UploadResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, request.Key)
	return &storage.UploadResponse{
		Key:  request.Key,
		URL:  "https://files.example.com/" + request.Key,
		Size: request.Size,
	}, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error { return nil }

func (s *fakeStorage) GetURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "https://files.example.com/" + key, nil
}

func (s *fakeStorage) FileExists(ctx context.Context, key string) (bool, error) { return true, nil }

type enrollmentTestEnv struct {
	service     EnrollmentService
	enrollments *fakeEnrollmentRepo
	payments    *paymentTestEnv
	accounts    *fakeAccountRepo
	notifier    *fakeNotifier
	storage     *fakeStorage
}

func newEnrollmentTestEnv(t *testing.T) *enrollmentTestEnv {
	t.Helper()
	env := &enrollmentTestEnv{
		enrollments: newFakeEnrollmentRepo(),
		payments:    newPaymentTestEnv(t),
		accounts:    newFakeAccountRepo(),
		storage:     &fakeStorage{},
	}
	env.notifier = env.payments.notifier

	security := &config.SecurityConfig{
		JWTSecret:     "test-jwt-secret-key-123456789",
		JWTTokenTTL:   time.Hour,
		ResetTokenTTL: 15 * time.Minute,
	}
	authService := NewAuthService(env.accounts, newMapTokenCache(), env.notifier, security, "https://app.example.com", testLogger(t))

	env.service = NewEnrollmentService(env.enrollments, env.payments.service, authService, env.notifier, env.storage, "https://app.example.com", testLogger(t))
	env.payments.service.SetEnrollmentSettler(env.service)
	return env
}

func enrollmentRequest() *EnrollmentRequest {
	return &EnrollmentRequest{
		Name:      "Ravi Kumar",
		Email:     "ravi@example.com",
		Phone:     "+919812345678",
		City:      "Jaipur",
		Languages: []string{"hindi", "english"},
		Documents: []*EnrollmentDocument{
			{Field: "license", Filename: "license.pdf", ContentType: "application/pdf", Size: 1024, Reader: strings.NewReader("license")},
			{Field: "aadhar", Filename: "aadhar.pdf", ContentType: "application/pdf", Size: 1024, Reader: strings.NewReader("aadhar")},
			{Field: "photo", Filename: "photo.jpg", ContentType: "image/jpeg", Size: 1024, Reader: strings.NewReader("photo")},
		},
	}
}

func TestCreateEnrollment(t *testing.T) {
	env := newEnrollmentTestEnv(t)

	enrollment, err := env.service.CreateEnrollment(context.Background(), enrollmentRequest())
	require.NoError(t, err)

	assert.Equal(t, models.EnrollmentStatusUnverified, enrollment.Status)
	assert.Contains(t, enrollment.LicenseDoc, "enrollments/ravi@example.com/license_license.pdf")
	assert.NotEmpty(t, enrollment.AadharDoc)
	assert.NotEmpty(t, enrollment.PhotoDoc)
	assert.Len(t, env.storage.keys, 3)
}

func TestCreateEnrollment_MissingDocument(t *testing.T) {
	env := newEnrollmentTestEnv(t)

	request := enrollmentRequest()
	request.Documents = request.Documents[:2] // no photo
	_, err := env.service.CreateEnrollment(context.Background(), request)
	require.Error(t, err)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
}

func TestEnrollmentPipeline(t *testing.T) {
	env := newEnrollmentTestEnv(t)
	ctx := context.Background()

	enrollment, err := env.service.CreateEnrollment(ctx, enrollmentRequest())
	require.NoError(t, err)

	// Admin approval opens the fee order and emails the payment link.
	approved, err := env.service.VerifyEnrollment(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusPaymentPending, approved.Status)
	require.Len(t, env.notifier.paymentLinkEmails, 1)
	assert.Equal(t, "ravi@example.com", env.notifier.paymentLinkEmails[0])

	// Approving twice is rejected.
	_, err = env.service.VerifyEnrollment(ctx, enrollment.ID)
	require.Error(t, err)

	// The fee is paid through the regular checkout verification.
	transaction, err := env.payments.transactions.GetByOrderID(ctx, "order_001")
	require.NoError(t, err)
	require.Equal(t, enrollment.ID, transaction.ReferenceID)
	env.payments.gateway.markPaid(transaction.GatewayOrderID)

	_, err = env.payments.service.VerifyPayment(ctx, &VerifyPaymentRequest{
		OrderID:   transaction.GatewayOrderID,
		PaymentID: "pay_001",
		Signature: fakeSign(transaction.GatewayOrderID, "pay_001"),
	})
	require.NoError(t, err)

	// Settlement provisions the guide account and closes the enrollment.
	settled, err := env.service.GetEnrollment(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusVerified, settled.Status)
	require.NotNil(t, settled.AccountID)

	account, err := env.accounts.GetByID(ctx, *settled.AccountID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuide, account.Role)
	assert.Equal(t, "ravi@example.com", account.Email)
	assert.Equal(t, []string{"ravi@example.com"}, env.notifier.credentialEmails)
}

func TestSettleEnrollmentPayment_Idempotent(t *testing.T) {
	env := newEnrollmentTestEnv(t)
	ctx := context.Background()

	enrollment, err := env.service.CreateEnrollment(ctx, enrollmentRequest())
	require.NoError(t, err)
	_, err = env.service.VerifyEnrollment(ctx, enrollment.ID)
	require.NoError(t, err)

	require.NoError(t, env.service.SettleEnrollmentPayment(ctx, enrollment.ID))
	// Redelivered settlement does not create a second account.
	require.NoError(t, env.service.SettleEnrollmentPayment(ctx, enrollment.ID))
	assert.Len(t, env.notifier.credentialEmails, 1)
}

func TestSettleEnrollmentPayment_Unapproved(t *testing.T) {
	env := newEnrollmentTestEnv(t)
	ctx := context.Background()

	enrollment, err := env.service.CreateEnrollment(ctx, enrollmentRequest())
	require.NoError(t, err)

	err = env.service.SettleEnrollmentPayment(ctx, enrollment.ID)
	require.Error(t, err)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindUnprocessable, appErr.Kind)
}
