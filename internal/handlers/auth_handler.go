package handlers

import (
	"guidely/internal/config"
	"guidely/internal/models"
	"guidely/internal/services"
	"guidely/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	security    *config.SecurityConfig
}

func NewAuthHandler(authService services.AuthService, security *config.SecurityConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		security:    security,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var request services.SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.Signup(c.Request.Context(), &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.setSessionCookie(c, response.Token)
	utils.CreatedResponse(c, "Account created successfully", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request services.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.setSessionCookie(c, response.Token)
	utils.SuccessResponse(c, "Logged in successfully", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(utils.AuthCookieName, "", -1, "/", "", false, true)
	utils.SuccessResponse(c, "Logged out successfully", nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var request struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), request.Email); err != nil {
		utils.RespondError(c, err)
		return
	}

	// Same response whether or not the email is registered.
	utils.SuccessResponse(c, "If the email is registered, a reset link has been sent", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var request services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.ResetPassword(c.Request.Context(), &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.setSessionCookie(c, response.Token)
	utils.SuccessResponse(c, "Password reset successfully", response)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &request); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Password changed successfully", nil)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	account, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved", account)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	account, err := h.authService.UpdateProfile(c.Request.Context(), userID, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated", account)
}

// CreateGuide provisions a guide account directly (admin only).
func (h *AuthHandler) CreateGuide(c *gin.Context) {
	var request services.CreateGuideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	account, err := h.authService.CreateGuideAccount(c.Request.Context(), &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Guide account created", account)
}

func (h *AuthHandler) UpdateAccountStatus(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request services.AccountStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	account, err := h.authService.UpdateAccountStatus(c.Request.Context(), id, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Account updated", account)
}

func (h *AuthHandler) ListAccounts(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	role := models.AccountRole(c.Query("role"))

	accounts, total, err := h.authService.ListAccounts(c.Request.Context(), params, role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Accounts retrieved", accounts, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(utils.AuthCookieName, token, int(h.security.JWTTokenTTL.Seconds()), "/", "", false, true)
}
