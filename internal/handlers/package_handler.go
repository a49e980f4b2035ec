package handlers

import (
	"strconv"

	"guidely/internal/models"
	"guidely/internal/services"
	"guidely/internal/utils"

	"github.com/gin-gonic/gin"
)

type PackageHandler struct {
	packageService services.PackageService
}

func NewPackageHandler(packageService services.PackageService) *PackageHandler {
	return &PackageHandler{
		packageService: packageService,
	}
}

func (h *PackageHandler) Create(c *gin.Context) {
	var request services.PackageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	pkg, err := h.packageService.CreatePackage(c.Request.Context(), &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Package created", pkg)
}

func (h *PackageHandler) Get(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	pkg, err := h.packageService.GetPackage(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Package retrieved", pkg)
}

func (h *PackageHandler) Update(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request services.PackageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	pkg, err := h.packageService.UpdatePackage(c.Request.Context(), id, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Package updated", pkg)
}

func (h *PackageHandler) Delete(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.packageService.DeletePackage(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Package deleted", nil)
}

// List is public; the status filter only takes effect for admins.
func (h *PackageHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := &models.PackageFilter{
		Status: models.PackageStatus(c.Query("status")),
		City:   c.Query("city"),
	}
	if raw := c.Query("featured"); raw != "" {
		if featured, err := strconv.ParseBool(raw); err == nil {
			filter.Featured = &featured
		}
	}

	packages, total, err := h.packageService.ListPackages(c.Request.Context(), params, filter, currentRole(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Packages retrieved", packages, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *PackageHandler) SetStatus(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		Status string `json:"status" binding:"required,oneof=active inactive"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	pkg, err := h.packageService.SetPackageStatus(c.Request.Context(), id, models.PackageStatus(request.Status))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Package status updated", pkg)
}

func (h *PackageHandler) SetFeatured(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		Featured bool `json:"featured"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	pkg, err := h.packageService.SetFeatured(c.Request.Context(), id, request.Featured)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Package updated", pkg)
}
