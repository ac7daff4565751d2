package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtrack-ai/internal/apperror"
	"github.com/justsurfingit/jobtrack-ai/internal/dtos"
	"github.com/justsurfingit/jobtrack-ai/internal/middleware"
	"github.com/justsurfingit/jobtrack-ai/internal/services"
)

// ApplicationHandler serves /applications. Every route runs behind
// middleware.RequireUser.
type ApplicationHandler struct {
	ApplicationService *services.ApplicationService
	InboxService       *services.InboxService
}

func NewApplicationHandler(apps *services.ApplicationService, inbox *services.InboxService) *ApplicationHandler {
	return &ApplicationHandler{
		ApplicationService: apps,
		InboxService:       inbox,
	}
}

func appID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 63)
	if err != nil {
		return 0, apperror.ValidationFailed("id", "application id must be a positive integer")
	}
	return uint(id), nil
}

// Create is POST /applications/
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req dtos.ApplicationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteError(c, bindError(err))
		return
	}
	user := middleware.CurrentUser(c)
	app, err := h.ApplicationService.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// List is GET /applications/
func (h *ApplicationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	apps, err := h.ApplicationService.List(c.Request.Context(), user.ID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// Update is PATCH /applications/:id
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, err := appID(c)
	if err != nil {
		WriteError(c, err)
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		WriteError(c, bindError(err))
		return
	}
	patch, err := dtos.DecodeApplicationPatch(raw)
	if err != nil {
		WriteError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	app, err := h.ApplicationService.Update(c.Request.Context(), id, user.ID, patch)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Delete is DELETE /applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, err := appID(c)
	if err != nil {
		WriteError(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.ApplicationService.Delete(c.Request.Context(), id, user.ID); err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Application deleted forever"})
}

// AnalyzeJD is POST /applications/:id/analyze-jd
func (h *ApplicationHandler) AnalyzeJD(c *gin.Context) {
	id, err := appID(c)
	if err != nil {
		WriteError(c, err)
		return
	}
	var req dtos.JDAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteError(c, bindError(err))
		return
	}

	user := middleware.CurrentUser(c)
	result, err := h.ApplicationService.AnalyzeJobDescription(c.Request.Context(), id, user.ID, *req.JobDesc)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.AnalysisResponse{Analysis: result.Text, Degraded: result.Degraded()})
}

// TailorResume is POST /applications/:id/tailor-resume
func (h *ApplicationHandler) TailorResume(c *gin.Context) {
	id, err := appID(c)
	if err != nil {
		WriteError(c, err)
		return
	}
	var req dtos.TailorResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteError(c, bindError(err))
		return
	}

	user := middleware.CurrentUser(c)
	result, err := h.ApplicationService.TailorResume(c.Request.Context(), id, user.ID, *req.Resume)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.SuggestionsResponse{Suggestions: result.Text, Degraded: result.Degraded()})
}

// Rejection is POST /applications/:id/rejection
func (h *ApplicationHandler) Rejection(c *gin.Context) {
	id, err := appID(c)
	if err != nil {
		WriteError(c, err)
		return
	}
	var req dtos.RejectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteError(c, bindError(err))
		return
	}

	user := middleware.CurrentUser(c)
	result, err := h.ApplicationService.AnalyzeRejection(c.Request.Context(), id, user.ID, *req.Email)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.AnalysisResponse{Analysis: result.Text, Degraded: result.Degraded()})
}

// SuggestJobs is GET /applications/suggest-jobs?user_skills=...
func (h *ApplicationHandler) SuggestJobs(c *gin.Context) {
	skills, ok := c.GetQuery("user_skills")
	if !ok {
		WriteError(c, apperror.ValidationFailed("user_skills", "user_skills query parameter is required"))
		return
	}
	result := h.ApplicationService.SuggestJobs(c.Request.Context(), skills)
	c.JSON(http.StatusOK, dtos.SuggestionsResponse{Suggestions: result.Text, Degraded: result.Degraded()})
}

// ExportPDF is GET /applications/:id/export-pdf
func (h *ApplicationHandler) ExportPDF(c *gin.Context) {
	id, err := appID(c)
	if err != nil {
		WriteError(c, err)
		return
	}
	resp, err := h.ApplicationService.ExportPDF(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Emails is GET /applications/:id/emails
func (h *ApplicationHandler) Emails(c *gin.Context) {
	id, err := appID(c)
	if err != nil {
		WriteError(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	emails, err := h.InboxService.FindEmails(c.Request.Context(), id, user.ID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, emails)
}
