package services

import (
	"context"
	"fmt"
	"time"

	"guidely/internal/config"
	"guidely/internal/models"
	"guidely/internal/repositories/interfaces"
	"guidely/internal/utils"
	"guidely/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// TokenCache is the slice of the redis cache the auth service needs for
// password reset tokens.
type TokenCache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

type AuthService interface {
	Signup(ctx context.Context, request *SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, request *ResetPasswordRequest) (*AuthResponse, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error

	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.Account, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *UpdateProfileRequest) (*models.Account, error)

	CreateGuideAccount(ctx context.Context, request *CreateGuideRequest) (*models.Account, error)
	UpdateAccountStatus(ctx context.Context, id primitive.ObjectID, request *AccountStatusRequest) (*models.Account, error)
	ListAccounts(ctx context.Context, params *utils.PaginationParams, role models.AccountRole) ([]*models.Account, int64, error)
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

type UpdateProfileRequest struct {
	Name      string   `json:"name" validate:"omitempty,min=2,max=100"`
	Phone     string   `json:"phone"`
	City      string   `json:"city"`
	Languages []string `json:"languages"`
}

type CreateGuideRequest struct {
	Name      string   `json:"name" validate:"required,min=2,max=100"`
	Email     string   `json:"email" validate:"required,email"`
	Phone     string   `json:"phone" validate:"required"`
	City      string   `json:"city" validate:"required"`
	Languages []string `json:"languages" validate:"required,min=1,dive,required"`
}

type AccountStatusRequest struct {
	IsActive *bool  `json:"is_active"`
	Role     string `json:"role" validate:"omitempty,oneof=tourist guide admin"`
}

type AuthResponse struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

type authService struct {
	accountRepo  interfaces.AccountRepository
	cache        TokenCache
	notification NotificationService
	security     *config.SecurityConfig
	frontendURL  string
	logger       *logger.Logger
}

func NewAuthService(
	accountRepo interfaces.AccountRepository,
	tokenCache TokenCache,
	notification NotificationService,
	security *config.SecurityConfig,
	frontendURL string,
	log *logger.Logger,
) AuthService {
	return &authService{
		accountRepo:  accountRepo,
		cache:        tokenCache,
		notification: notification,
		security:     security,
		frontendURL:  frontendURL,
		logger:       log,
	}
}

func (s *authService) Signup(ctx context.Context, request *SignupRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewServer("failed to hash password", err)
	}

	account := &models.Account{
		Name:     utils.SanitizeString(request.Name),
		Email:    utils.NormalizeEmail(request.Email),
		Phone:    request.Phone,
		Password: string(hash),
		Role:     models.RoleTourist,
		IsActive: true,
		Status:   models.AccountStatusNonVerified,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.WithUserID(account.ID).Info("account created")
	s.notification.SendWelcomeEmail(ctx, account.Name, account.Email)

	return s.issueSession(account)
}

// Login deliberately reports the same Unauthorized for an unknown email
// and a wrong password.
func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	account, err := s.accountRepo.GetByEmail(ctx, utils.NormalizeEmail(request.Email))
	if err != nil {
		return nil, utils.NewUnauthorized(utils.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(request.Password)); err != nil {
		return nil, utils.NewUnauthorized(utils.ErrInvalidCredentials)
	}

	if !account.IsActive {
		return nil, utils.NewUnauthorized("account is deactivated")
	}

	return s.issueSession(account)
}

// ForgotPassword succeeds silently for unknown emails so the endpoint
// cannot be used to probe which addresses are registered.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.accountRepo.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		s.logger.WithField("email", utils.MaskEmail(email)).Info("password reset requested for unknown email")
		return nil
	}

	token := utils.GeneratePasswordResetToken()
	key := utils.CacheResetTokenPrefix + token
	if err := s.cache.Set(ctx, key, account.ID.Hex(), s.security.ResetTokenTTL); err != nil {
		return utils.NewServer("failed to store reset token", err)
	}

	resetLink := utils.CreatePasswordResetLink(s.frontendURL, token)
	if !s.notification.SendPasswordResetEmail(ctx, account.Name, account.Email, resetLink) {
		return utils.NewServer("failed to send reset email", nil)
	}

	s.logger.WithUserID(account.ID).Info("password reset email sent")
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, request *ResetPasswordRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	key := utils.CacheResetTokenPrefix + request.Token
	var userIDHex string
	if err := s.cache.Get(ctx, key, &userIDHex); err != nil {
		return nil, utils.NewUnauthorized("reset token is invalid or expired")
	}

	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, utils.NewUnauthorized("reset token is invalid or expired")
	}

	account, err := s.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewServer("failed to hash password", err)
	}

	if err := s.accountRepo.UpdatePassword(ctx, account.ID, string(hash)); err != nil {
		return nil, err
	}

	// Single use.
	_ = s.cache.Delete(ctx, key)

	s.logger.WithUserID(account.ID).Info("password reset completed")
	return s.issueSession(account)
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return utils.NewValidation(utils.ErrValidationFailed)
	}

	account, err := s.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	// GetByID projects the hash out; fetch it through the credential path.
	withCredential, err := s.accountRepo.GetByEmail(ctx, account.Email)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(withCredential.Password), []byte(request.CurrentPassword)); err != nil {
		return utils.NewUnauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.NewServer("failed to hash password", err)
	}

	return s.accountRepo.UpdatePassword(ctx, userID, string(hash))
}

func (s *authService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return account.Sanitize(), nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *UpdateProfileRequest) (*models.Account, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	updates := map[string]interface{}{}
	if request.Name != "" {
		updates["name"] = utils.SanitizeString(request.Name)
	}
	if request.Phone != "" {
		updates["phone"] = request.Phone
	}
	if request.City != "" {
		updates["city"] = request.City
	}
	if len(request.Languages) > 0 {
		updates["languages"] = request.Languages
	}

	if len(updates) > 0 {
		if err := s.accountRepo.Update(ctx, userID, updates); err != nil {
			return nil, err
		}
	}

	return s.GetProfile(ctx, userID)
}

// CreateGuideAccount provisions a guide with a generated password and
// emails the credentials. Guides come from the enrollment pipeline or
// directly from an admin.
func (s *authService) CreateGuideAccount(ctx context.Context, request *CreateGuideRequest) (*models.Account, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	password := utils.GenerateRandomPassword(utils.GuidePasswordLength)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewServer("failed to hash password", err)
	}

	account := &models.Account{
		Name:      utils.SanitizeString(request.Name),
		Email:     utils.NormalizeEmail(request.Email),
		Phone:     request.Phone,
		Password:  string(hash),
		Role:      models.RoleGuide,
		IsActive:  true,
		Status:    models.AccountStatusVerified,
		City:      request.City,
		Languages: request.Languages,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if !s.notification.SendGuideCredentialsEmail(ctx, account.Name, account.Email, password) {
		s.logger.WithUserID(account.ID).Error("guide created but credentials email failed")
	}

	s.logger.WithUserID(account.ID).Info("guide account created")
	return account.Sanitize(), nil
}

func (s *authService) UpdateAccountStatus(ctx context.Context, id primitive.ObjectID, request *AccountStatusRequest) (*models.Account, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidation(utils.ErrValidationFailed)
	}

	updates := map[string]interface{}{}
	if request.IsActive != nil {
		updates["is_active"] = *request.IsActive
	}
	if request.Role != "" {
		updates["role"] = models.AccountRole(request.Role)
	}
	if len(updates) == 0 {
		return nil, utils.NewValidation("no changes requested")
	}

	if err := s.accountRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, id)
}

func (s *authService) ListAccounts(ctx context.Context, params *utils.PaginationParams, role models.AccountRole) ([]*models.Account, int64, error) {
	return s.accountRepo.List(ctx, params, role)
}

func (s *authService) issueSession(account *models.Account) (*AuthResponse, error) {
	token, err := utils.GenerateToken(
		account.ID,
		string(account.Role),
		account.Email,
		account.Name,
		s.security.JWTSecret,
		s.security.JWTTokenTTL,
	)
	if err != nil {
		return nil, utils.NewServer(fmt.Sprintf("failed to sign token for %s", account.ID.Hex()), err)
	}

	return &AuthResponse{
		Token:   token,
		Account: account.Sanitize(),
	}, nil
}
