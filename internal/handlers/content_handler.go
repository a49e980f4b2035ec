package handlers

import (
	"guidely/internal/models"
	"guidely/internal/services"
	"guidely/internal/utils"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
	}
}

func (h *ContentHandler) CreateBlog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.BlogRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	blog, err := h.contentService.CreateBlog(c.Request.Context(), userID, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Blog created", blog)
}

// GetBlog resolves by ObjectID, falling back to slug lookup.
func (h *ContentHandler) GetBlog(c *gin.Context) {
	key := c.Param("id")

	if id, err := parseHex(key); err == nil {
		blog, err := h.contentService.GetBlog(c.Request.Context(), id)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, "Blog retrieved", blog)
		return
	}

	blog, err := h.contentService.GetBlogBySlug(c.Request.Context(), key)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Blog retrieved", blog)
}

func (h *ContentHandler) UpdateBlog(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request services.BlogRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	blog, err := h.contentService.UpdateBlog(c.Request.Context(), id, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Blog updated", blog)
}

func (h *ContentHandler) DeleteBlog(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteBlog(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Blog deleted", nil)
}

func (h *ContentHandler) ListBlogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.BlogStatus(c.Query("status"))

	blogs, total, err := h.contentService.ListBlogs(c.Request.Context(), params, status, currentRole(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Blogs retrieved", blogs, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *ContentHandler) CreateLead(c *gin.Context) {
	var request services.LeadRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	lead, err := h.contentService.CreateLead(c.Request.Context(), &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Thanks, we will reach out soon", lead)
}

func (h *ContentHandler) ListLeads(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.LeadStatus(c.Query("status"))

	leads, total, err := h.contentService.ListLeads(c.Request.Context(), params, status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Leads retrieved", leads, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *ContentHandler) UpdateLeadStatus(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		Status string `json:"status" binding:"required,oneof=new contacted closed"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	lead, err := h.contentService.UpdateLeadStatus(c.Request.Context(), id, models.LeadStatus(request.Status))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Lead updated", lead)
}
