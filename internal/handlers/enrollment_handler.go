package handlers

import (
	"strings"

	"guidely/internal/models"
	"guidely/internal/services"
	"guidely/internal/utils"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
	}
}

// Create accepts a multipart form: text fields plus license, aadhar and
// photo document files.
func (h *EnrollmentHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Multipart form required")
		return
	}

	request := &services.EnrollmentRequest{
		Name:      c.PostForm("name"),
		Email:     c.PostForm("email"),
		Phone:     c.PostForm("phone"),
		City:      c.PostForm("city"),
		Languages: splitCSV(c.PostForm("languages")),
	}

	for _, field := range []string{"license", "aadhar", "photo"} {
		files := form.File[field]
		if len(files) == 0 {
			continue
		}
		header := files[0]
		file, err := header.Open()
		if err != nil {
			utils.BadRequestResponse(c, "Unable to read "+field+" document")
			return
		}
		defer file.Close()

		request.Documents = append(request.Documents, &services.EnrollmentDocument{
			Field:       field,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		})
	}

	enrollment, err := h.enrollmentService.CreateEnrollment(c.Request.Context(), request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Enrollment submitted for review", enrollment)
}

func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.GetEnrollment(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Enrollment retrieved", enrollment)
}

func (h *EnrollmentHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.EnrollmentStatus(c.Query("status"))

	enrollments, total, err := h.enrollmentService.ListEnrollments(c.Request.Context(), params, status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Enrollments retrieved", enrollments, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *EnrollmentHandler) Verify(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.VerifyEnrollment(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Enrollment approved, payment link sent", enrollment)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
