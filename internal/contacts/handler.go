package contacts

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Akshayn8055/VoxForms/internal/models"
	"github.com/Akshayn8055/VoxForms/pkg/response"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubmitRequest is the body for the public POST /contact.
type SubmitRequest struct {
	FirstName              string `json:"first_name"`
	LastName               string `json:"last_name"`
	Email                  string `json:"email"`
	Company                string `json:"company"`
	Industry               string `json:"industry"`
	Phone                  string `json:"phone"`
	Message                string `json:"message"`
	Priority               string `json:"priority"`
	PreferredContactMethod string `json:"preferred_contact_method"`
	BudgetRange            string `json:"budget_range"`
	Timeline               string `json:"timeline"`
}

// Validate checks required fields and returns a user-facing message on failure.
func (r *SubmitRequest) Validate() string {
	if strings.TrimSpace(r.FirstName) == "" {
		return "first name is required"
	}
	if strings.TrimSpace(r.LastName) == "" {
		return "last name is required"
	}
	if strings.TrimSpace(r.Email) == "" {
		return "email is required"
	}
	if !emailRe.MatchString(r.Email) {
		return "please enter a valid email address"
	}
	if len(strings.TrimSpace(r.Message)) < 10 {
		return "message must be at least 10 characters"
	}
	return ""
}

// UpdateStatusRequest is the body for PATCH /admin/contacts/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Handler handles contact submission HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a contacts handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Submit handles the public POST /contact.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := req.Validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	method := req.PreferredContactMethod
	if method == "" {
		method = "email"
	}

	sub := &models.ContactSubmission{
		FirstName:              strings.TrimSpace(req.FirstName),
		LastName:               strings.TrimSpace(req.LastName),
		Email:                  strings.TrimSpace(req.Email),
		Company:                strings.TrimSpace(req.Company),
		Industry:               req.Industry,
		Phone:                  strings.TrimSpace(req.Phone),
		Message:                strings.TrimSpace(req.Message),
		Priority:               priority,
		PreferredContactMethod: method,
		BudgetRange:            req.BudgetRange,
		Timeline:               req.Timeline,
		Source:                 "website",
		Status:                 models.SubmissionNew,
	}
	created, err := h.repo.Create(c.Request.Context(), sub)
	if err != nil {
		h.logger.Error("create contact submission", zap.Error(err))
		response.Internal(c, "failed to submit message")
		return
	}
	response.Created(c, gin.H{"id": created.ID, "message": "Thank you for your message. We will get back to you soon."})
}

// List handles GET /admin/contacts?status=... (admin only).
func (h *Handler) List(c *gin.Context) {
	status := models.SubmissionStatus(c.Query("status"))
	if status != "" && !models.ValidSubmissionStatus(status) {
		response.BadRequest(c, "invalid status filter")
		return
	}
	list, err := h.repo.List(c.Request.Context(), status)
	if err != nil {
		response.Internal(c, "failed to list submissions")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /admin/contacts/:id (admin only).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid submission id")
		return
	}
	sub, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "submission not found")
		return
	}
	response.OK(c, sub)
}

// UpdateStatus handles PATCH /admin/contacts/:id/status (admin only).
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid submission id")
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status := models.SubmissionStatus(req.Status)
	if !models.ValidSubmissionStatus(status) {
		response.BadRequest(c, "invalid status")
		return
	}
	sub, err := h.repo.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "submission not found")
			return
		}
		response.Internal(c, "failed to update submission")
		return
	}
	response.OK(c, sub)
}

// Delete handles DELETE /admin/contacts/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid submission id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete submission")
		return
	}
	response.NoContent(c)
}
