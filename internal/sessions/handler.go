package sessions

import (
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Akshayn8055/VoxForms/internal/forms"
	"github.com/Akshayn8055/VoxForms/internal/middleware"
	"github.com/Akshayn8055/VoxForms/internal/models"
	"github.com/Akshayn8055/VoxForms/internal/speech"
	"github.com/Akshayn8055/VoxForms/internal/voice"
	"github.com/Akshayn8055/VoxForms/pkg/queue"
	"github.com/Akshayn8055/VoxForms/pkg/response"
	"github.com/Akshayn8055/VoxForms/pkg/storage"
)

// MaxAudioUpload is the maximum accepted audio payload (15MB).
const MaxAudioUpload = 15 * 1024 * 1024

// CancelRequest is the body for POST /forms/:id/voice/cancel.
type CancelRequest struct {
	SessionID string `json:"session_id" binding:"required,uuid"`
}

// CompleteResponse is the payload for a finished voice session.
type CompleteResponse struct {
	SessionID         uuid.UUID            `json:"session_id"`
	Transcript        string               `json:"transcript,omitempty"`
	NoSpeech          bool                 `json:"no_speech"`
	FieldsAdded       int                  `json:"fields_added"`
	ConfirmationAudio string               `json:"confirmation_audio,omitempty"` // base64 MP3
	Form              *models.FormDocument `json:"form"`
}

// Handler handles voice session HTTP endpoints.
type Handler struct {
	registry *forms.Registry
	repo     *Repository
	queue    *queue.Queue
	s3       *storage.S3
	audioDir string
	logger   *zap.Logger
}

// NewHandler creates a voice sessions handler. audioDir is where captured
// audio is spooled before archival; empty means the system temp dir. q and
// s3 may be nil, which disables archival and audio playback respectively.
func NewHandler(registry *forms.Registry, repo *Repository, q *queue.Queue, s3 *storage.S3, audioDir string, logger *zap.Logger) *Handler {
	if audioDir == "" {
		audioDir = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registry: registry, repo: repo, queue: q, s3: s3, audioDir: audioDir, logger: logger}
}

// Start handles POST /forms/:id/voice/start: begins a recording session.
func (h *Handler) Start(c *gin.Context) {
	bs, ok := h.session(c)
	if !ok {
		return
	}
	sessionID, err := bs.Controller.Start()
	if err != nil {
		response.Conflict(c, "a voice session is already active for this form")
		return
	}
	response.Created(c, gin.H{"session_id": sessionID, "state": voice.StateRecording})
}

// Cancel handles POST /forms/:id/voice/cancel: stops recording and releases
// the capture slot without processing.
func (h *Handler) Cancel(c *gin.Context) {
	bs, ok := h.session(c)
	if !ok {
		return
	}
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	sessionID, _ := uuid.Parse(req.SessionID)
	if err := bs.Controller.Cancel(sessionID); err != nil {
		response.NotFound(c, "no such voice session")
		return
	}
	response.OK(c, gin.H{"session_id": sessionID, "state": voice.StateIdle})
}

// Complete handles POST /forms/:id/voice/complete: multipart audio upload
// for the active session. Runs transcription and interpretation, merges the
// delta, records the session, and queues the raw audio for archival.
func (h *Handler) Complete(c *gin.Context) {
	bs, ok := h.session(c)
	if !ok {
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	sessionID, err := uuid.Parse(c.PostForm("session_id"))
	if err != nil {
		response.BadRequest(c, "invalid session_id")
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		response.BadRequest(c, "audio file is required")
		return
	}
	if fileHeader.Size > MaxAudioUpload {
		response.BadRequest(c, "audio file too large")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.ValidAudioType(contentType, fileHeader.Filename) {
		response.BadRequest(c, "unsupported audio format")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read audio upload")
		return
	}
	defer file.Close()
	audio, err := io.ReadAll(io.LimitReader(file, MaxAudioUpload+1))
	if err != nil {
		response.Internal(c, "failed to read audio upload")
		return
	}

	result, err := bs.Controller.Complete(c.Request.Context(), sessionID, audio, contentType)
	if err != nil {
		h.recordFailure(c, bs.FormID, userID, sessionID, err)
		switch {
		case errors.Is(err, voice.ErrSessionSuperseded), errors.Is(err, voice.ErrNoSession):
			response.Conflict(c, "voice session is no longer active")
		case errors.Is(err, speech.ErrRateLimited):
			response.ServiceUnavailable(c, speech.UserMessage(err))
		case errors.Is(err, speech.ErrInvalidAudio):
			response.BadRequest(c, speech.UserMessage(err))
		default:
			response.ServiceUnavailable(c, speech.UserMessage(err))
		}
		return
	}

	record := &models.VoiceSession{
		ID:          sessionID,
		FormID:      bs.FormID,
		UserID:      userID,
		Transcript:  result.Transcript,
		FieldsAdded: result.FieldsAdded,
		Status:      models.VoiceSessionCompleted,
	}
	if result.NoSpeech {
		record.Status = models.VoiceSessionNoSpeech
	}
	if err := h.repo.Create(c.Request.Context(), record); err != nil {
		h.logger.Error("record voice session", zap.Error(err), zap.String("session_id", sessionID.String()))
	}

	h.archiveAudio(c, bs.FormID, sessionID, audio, contentType)

	resp := CompleteResponse{
		SessionID:   sessionID,
		Transcript:  result.Transcript,
		NoSpeech:    result.NoSpeech,
		FieldsAdded: result.FieldsAdded,
		Form:        result.Document,
	}
	if len(result.Confirmation) > 0 {
		resp.ConfirmationAudio = base64.StdEncoding.EncodeToString(result.Confirmation)
	}
	if result.NoSpeech {
		response.OK(c, gin.H{"session_id": sessionID, "no_speech": true, "message": "No speech detected. Please try speaking more clearly.", "form": result.Document})
		return
	}
	response.OK(c, resp)
}

// AudioURL handles GET /forms/:id/voice/audio?session_id=...: returns a
// pre-signed download URL for the archived capture.
func (h *Handler) AudioURL(c *gin.Context) {
	bs, ok := h.session(c)
	if !ok {
		return
	}
	if h.s3 == nil {
		response.ServiceUnavailable(c, "audio storage is not configured")
		return
	}
	sessionID, err := uuid.Parse(c.Query("session_id"))
	if err != nil {
		response.BadRequest(c, "invalid session_id")
		return
	}
	sess, err := h.repo.GetByID(c.Request.Context(), sessionID)
	if err != nil || sess.FormID != bs.FormID {
		response.NotFound(c, "no such voice session")
		return
	}
	if sess.AudioS3Key == "" {
		response.NotFound(c, "session audio is not archived yet")
		return
	}
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), h.s3.AudioBucket(), sess.AudioS3Key, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign audio download", zap.Error(err), zap.String("session_id", sessionID.String()))
		response.Internal(c, "failed to generate download URL")
		return
	}
	response.OK(c, gin.H{"url": url, "expires_in": int(h.s3.PresignExpire().Seconds())})
}

// History handles GET /forms/:id/voice/sessions.
func (h *Handler) History(c *gin.Context) {
	bs, ok := h.session(c)
	if !ok {
		return
	}
	list, err := h.repo.ListByForm(c.Request.Context(), bs.FormID)
	if err != nil {
		response.Internal(c, "failed to list voice sessions")
		return
	}
	response.OK(c, list)
}

// recordFailure persists a failed session row; best effort.
func (h *Handler) recordFailure(c *gin.Context, formID, userID, sessionID uuid.UUID, cause error) {
	status := models.VoiceSessionFailed
	if errors.Is(cause, voice.ErrSessionSuperseded) || errors.Is(cause, voice.ErrNoSession) {
		status = models.VoiceSessionCancelled
	}
	rec := &models.VoiceSession{
		ID:     sessionID,
		FormID: formID,
		UserID: userID,
		Status: status,
		Error:  speech.UserMessage(cause),
	}
	if err := h.repo.Create(c.Request.Context(), rec); err != nil {
		h.logger.Warn("record failed voice session", zap.Error(err))
	}
}

// archiveAudio spools the capture to disk and queues the S3 archival job.
func (h *Handler) archiveAudio(c *gin.Context, formID, sessionID uuid.UUID, audio []byte, contentType string) {
	if h.queue == nil {
		return
	}
	ext := ".webm"
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	path := filepath.Join(h.audioDir, sessionID.String()+ext)
	if err := os.WriteFile(path, audio, 0o600); err != nil {
		h.logger.Warn("spool session audio", zap.Error(err), zap.String("session_id", sessionID.String()))
		return
	}
	err := h.queue.EnqueueAudioArchive(c.Request.Context(), queue.AudioArchivePayload{
		SessionID:   sessionID,
		FormID:      formID,
		Path:        path,
		ContentType: contentType,
	})
	if err != nil {
		h.logger.Warn("enqueue audio archive", zap.Error(err), zap.String("session_id", sessionID.String()))
	}
}

// session resolves the :id param to an open builder session owned by the
// caller, writing the error response itself on failure.
func (h *Handler) session(c *gin.Context) (*forms.BuilderSession, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid form id")
		return nil, false
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	bs, err := h.registry.Open(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, forms.ErrNotOwner):
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
