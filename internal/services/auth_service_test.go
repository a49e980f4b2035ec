package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guidely/internal/config"
	"guidely/internal/models"
	"guidely/internal/utils"
)

type authTestEnv struct {
	service  AuthService
	accounts *fakeAccountRepo
	cache    *mapTokenCache
	notifier *fakeNotifier
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	env := &authTestEnv{
		accounts: newFakeAccountRepo(),
		cache:    newMapTokenCache(),
		notifier: &fakeNotifier{},
	}
	security := &config.SecurityConfig{
		JWTSecret:     "test-jwt-secret-key-123456789",
		JWTTokenTTL:   time.Hour,
		ResetTokenTTL: 15 * time.Minute,
	}
	env.service = NewAuthService(env.accounts, env.cache, env.notifier, security, "https://app.example.com", testLogger(t))
	return env
}

func (env *authTestEnv) signup(t *testing.T, email, password string) *AuthResponse {
	t.Helper()
	response, err := env.service.Signup(context.Background(), &SignupRequest{
		Name:     "Asha Verma",
		Email:    email,
		Phone:    "+919876543210",
		Password: password,
	})
	require.NoError(t, err)
	return response
}

func TestSignup(t *testing.T) {
	env := newAuthTestEnv(t)

	response := env.signup(t, "asha@example.com", "secret-password")
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, models.RoleTourist, response.Account.Role)
	assert.True(t, response.Account.IsActive)
	assert.Empty(t, response.Account.Password, "responses never carry the hash")
	assert.Equal(t, []string{"asha@example.com"}, env.notifier.welcomeEmails)

	claims, err := utils.ValidateToken(response.Token, "test-jwt-secret-key-123456789")
	require.NoError(t, err)
	assert.Equal(t, response.Account.ID.Hex(), claims.UserID)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := newAuthTestEnv(t)
	env.signup(t, "asha@example.com", "secret-password")

	_, err := env.service.Signup(context.Background(), &SignupRequest{
		Name:     "Other Person",
		Email:    "Asha@Example.com", // normalized before the uniqueness check
		Password: "another-password",
	})
	require.Error(t, err)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindConflict, appErr.Kind)
}

func TestLogin(t *testing.T) {
	env := newAuthTestEnv(t)
	env.signup(t, "asha@example.com", "secret-password")

	response, err := env.service.Login(context.Background(), &LoginRequest{
		Email:    "asha@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, response.Token)
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	env := newAuthTestEnv(t)
	env.signup(t, "asha@example.com", "secret-password")

	// Unknown email and wrong password must be the same error so the
	// endpoint cannot confirm which addresses are registered.
	_, unknownErr := env.service.Login(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret-password",
	})
	_, wrongErr := env.service.Login(context.Background(), &LoginRequest{
		Email:    "asha@example.com",
		Password: "not-the-password",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())

	var appErr *utils.AppError
	require.ErrorAs(t, wrongErr, &appErr)
	assert.Equal(t, utils.KindUnauthorized, appErr.Kind)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	env := newAuthTestEnv(t)
	response := env.signup(t, "asha@example.com", "secret-password")

	require.NoError(t, env.accounts.SetActive(context.Background(), response.Account.ID, false))

	_, err := env.service.Login(context.Background(), &LoginRequest{
		Email:    "asha@example.com",
		Password: "secret-password",
	})
	require.Error(t, err)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindUnauthorized, appErr.Kind)
}

func TestForgotPassword_UnknownEmailSilent(t *testing.T) {
	env := newAuthTestEnv(t)

	err := env.service.ForgotPassword(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Empty(t, env.notifier.resetLinks)
}

func TestForgotPassword_EmailFailureIsFatal(t *testing.T) {
	env := newAuthTestEnv(t)
	env.signup(t, "asha@example.com", "secret-password")
	env.notifier.failResetEmail = true

	err := env.service.ForgotPassword(context.Background(), "asha@example.com")
	require.Error(t, err)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindServer, appErr.Kind)
}

func TestResetPasswordFlow(t *testing.T) {
	env := newAuthTestEnv(t)
	env.signup(t, "asha@example.com", "secret-password")
	ctx := context.Background()

	require.NoError(t, env.service.ForgotPassword(ctx, "asha@example.com"))
	require.Len(t, env.notifier.resetLinks, 1)

	// The token rides in the emailed link's query string.
	link := env.notifier.resetLinks[0]
	require.Contains(t, link, "?token=")
	token := link[strings.Index(link, "?token=")+len("?token="):]
	require.NotEmpty(t, token)

	response, err := env.service.ResetPassword(ctx, &ResetPasswordRequest{
		Token:    token,
		Password: "brand-new-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, response.Token)

	// Old credential stops working, new one logs in.
	_, err = env.service.Login(ctx, &LoginRequest{Email: "asha@example.com", Password: "secret-password"})
	assert.Error(t, err)
	_, err = env.service.Login(ctx, &LoginRequest{Email: "asha@example.com", Password: "brand-new-password"})
	assert.NoError(t, err)

	// Single use: the same token is rejected the second time.
	_, err = env.service.ResetPassword(ctx, &ResetPasswordRequest{
		Token:    token,
		Password: "yet-another-password",
	})
	require.Error(t, err)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindUnauthorized, appErr.Kind)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	env := newAuthTestEnv(t)

	_, err := env.service.ResetPassword(context.Background(), &ResetPasswordRequest{
		Token:    "never-issued",
		Password: "brand-new-password",
	})
	require.Error(t, err)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindUnauthorized, appErr.Kind)
}

func TestChangePassword(t *testing.T) {
	env := newAuthTestEnv(t)
	response := env.signup(t, "asha@example.com", "secret-password")
	ctx := context.Background()

	err := env.service.ChangePassword(ctx, response.Account.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong-current",
		NewPassword:     "brand-new-password",
	})
	require.Error(t, err)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindUnauthorized, appErr.Kind)

	err = env.service.ChangePassword(ctx, response.Account.ID, &ChangePasswordRequest{
		CurrentPassword: "secret-password",
		NewPassword:     "brand-new-password",
	})
	require.NoError(t, err)

	_, err = env.service.Login(ctx, &LoginRequest{Email: "asha@example.com", Password: "brand-new-password"})
	assert.NoError(t, err)
}

func TestCreateGuideAccount(t *testing.T) {
	env := newAuthTestEnv(t)

	guide, err := env.service.CreateGuideAccount(context.Background(), &CreateGuideRequest{
		Name:      "Ravi Kumar",
		Email:     "ravi@example.com",
		Phone:     "+919812345678",
		City:      "Jaipur",
		Languages: []string{"hindi", "english"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuide, guide.Role)
	assert.Equal(t, models.AccountStatusVerified, guide.Status)
	assert.True(t, guide.IsActive)
	assert.Empty(t, guide.Password)
	assert.Equal(t, []string{"ravi@example.com"}, env.notifier.credentialEmails)
}
