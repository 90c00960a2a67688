package forms

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Akshayn8055/VoxForms/internal/middleware"
	"github.com/Akshayn8055/VoxForms/internal/models"
	"github.com/Akshayn8055/VoxForms/pkg/response"
)

// AddFieldRequest is the body for POST /forms/:id/fields.
type AddFieldRequest struct {
	Type string `json:"type" binding:"required"`
}

// UpdateMetaRequest is the body for PATCH /forms/:id.
type UpdateMetaRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// SaveRequest is the body for POST /forms/:id/save.
type SaveRequest struct {
	IsPublic bool `json:"is_public"`
}

// Handler handles form HTTP endpoints.
type Handler struct {
	registry *Registry
	repo     *Repository
	cache    *PublicCache
	logger   *zap.Logger
}

// NewHandler creates a forms handler.
func NewHandler(registry *Registry, repo *Repository, cache *PublicCache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registry: registry, repo: repo, cache: cache, logger: logger}
}

// Create handles POST /forms: opens a builder over a new empty document.
func (h *Handler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	bs := h.registry.Create(userID)
	response.Created(c, bs.Store.Document())
}

// List handles GET /forms: the caller's saved forms.
func (h *Handler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list forms")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /forms/:id: the live builder document, opening the
// builder from the saved row when needed.
func (h *Handler) GetByID(c *gin.Context) {
	bs, ok := h.session(c)
	if !ok {
		return
	}
	response.OK(c, bs.Store.Document())
}

// UpdateMeta handles PATCH /forms/:id (name/description).
func (h *Handler) UpdateMeta(c *gin.Context) {
	bs, ok := h.session(c)
	if !ok {
		return
	}
	var req UpdateMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Name != nil {
		bs.Store.SetName(*req.Name)
	}
	if req.Description != nil {
		bs.Store.SetDescription(*req.Description)
	}
	response.OK(c, bs.Store.Document())
}

// AddField handles POST /forms/:id/fields.
func (h *Handler) AddField(c *gin.Context) {
	bs, ok := h.session(c)
	if !ok {
		return
	}
	var req AddFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	field, err := bs.Store.AddField(models.FieldType(req.Type))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, field)
}

// UpdateField handles PATCH /forms/:id/fields/:fieldId.
func (h *Handler) UpdateField(c *gin.Context) {
	bs, ok := h.session(c)
	if !ok {
		return
	}
	fieldID, err := uuid.Parse(c.Param("fieldId"))
	if err != nil {
		response.BadRequest(c, "invalid field id")
		return
	}
	var upd models.FieldUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	field, err := bs.Store.UpdateField(fieldID, upd)
	if err != nil {
		if errors.Is(err, ErrFieldNotFound) {
			response.NotFound(c, "field not found")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, field)
}

// DeleteField handles DELETE /forms/:id/fields/:fieldId.
func (h *Handler) DeleteField(c *gin.Context) {
	bs, ok := h.session(c)
	if !ok {
		return
	}
	fieldID, err := uuid.Parse(c.Param("fieldId"))
	if err != nil {
		response.BadRequest(c, "invalid field id")
		return
	}
	if err := bs.Store.DeleteField(fieldID); err != nil {
		response.NotFound(c, "field not found")
		return
	}
	response.NoContent(c)
}

// Save handles POST /forms/:id/save. Persists the document, assigns the
// share URL and invalidates the public cache.
func (h *Handler) Save(c *gin.Context) {
	bs, ok := h.session(c)
	if !ok {
		return
	}
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	doc, err := bs.Store.Save(c.Request.Context(), req.IsPublic)
	if err != nil {
		if errors.Is(err, ErrUnnamed) {
			response.BadRequest(c, "please provide a form name")
			return
		}
		h.logger.Error("save form", zap.Error(err), zap.String("form_id", bs.FormID.String()))
		response.Internal(c, "failed to save form")
		return
	}
	h.cache.Invalidate(c.Request.Context(), doc.ID.String())
	response.OK(c, doc)
}

// CloseBuilder handles POST /forms/:id/close: discards the in-memory
// builder without persisting.
func (h *Handler) CloseBuilder(c *gin.Context) {
	bs, ok := h.session(c)
	if !ok {
		return
	}
	h.registry.Close(bs.FormID)
	response.NoContent(c)
}

// Delete handles DELETE /forms/:id: removes the saved form and any open
// builder session.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid form id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	doc, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "form not found")
		return
	}
	if doc.OwnerID != userID {
		response.Forbidden(c, "only the owner can delete this form")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete form")
		return
	}
	h.registry.Close(id)
	h.cache.Invalidate(c.Request.Context(), id.String())
	response.NoContent(c)
}

// GetShared handles GET /form/:id: the public shared view, served from the
// Redis cache when warm.
func (h *Handler) GetShared(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid form id")
		return
	}
	if doc := h.cache.Get(c.Request.Context(), id.String()); doc != nil {
		response.OK(c, doc)
		return
	}
	doc, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil || !doc.IsPublic {
		response.NotFound(c, "form not found")
		return
	}
	h.cache.Set(c.Request.Context(), doc)
	response.OK(c, doc)
}

// session resolves the :id param to an open builder session owned by the
// caller, writing the error response itself on failure.
func (h *Handler) session(c *gin.Context) (*BuilderSession, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid form id")
		return nil, false
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	bs, err := h.registry.Open(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(c, "form is owned by another user")
		case errors.Is(err, pgx.ErrNoRows):
			response.NotFound(c, "form not found")
		default:
			h.logger.Error("open builder", zap.Error(err), zap.String("form_id", id.String()))
			response.Internal(c, "failed to open form")
		}
		return nil, false
	}
	return bs, true
}
