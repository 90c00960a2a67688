package forms

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Akshayn8055/VoxForms/internal/models"
	"github.com/Akshayn8055/VoxForms/internal/speech"
	"github.com/Akshayn8055/VoxForms/internal/voice"
)

// ErrNotOwner means the form belongs to another user.
var ErrNotOwner = errors.New("form is owned by another user")

// BuilderSession is one open builder: the live document store plus its
// voice session controller.
type BuilderSession struct {
	FormID     uuid.UUID
	OwnerID    uuid.UUID
	Store      *Store
	Controller *voice.Controller
}

// Registry holds open builder sessions per form (thread-safe). The
// document store inside a session is the authoritative copy until the
// builder is closed; closing without saving discards in-memory changes but
// never touches the persisted row.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*BuilderSession

	repo     *Repository
	baseURL  string
	primary  speech.Transcriber
	fallback speech.Transcriber
	synth    speech.Synthesizer
	logger   *zap.Logger
}

// NewRegistry creates a builder session registry.
func NewRegistry(repo *Repository, shareBaseURL string, primary, fallback speech.Transcriber, synth speech.Synthesizer, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*BuilderSession),
		repo:     repo,
		baseURL:  shareBaseURL,
		primary:  primary,
		fallback: fallback,
		synth:    synth,
		logger:   logger,
	}
}

// Create opens a builder over a fresh empty document owned by ownerID.
// The document is not persisted until its first save.
func (reg *Registry) Create(ownerID uuid.UUID) *BuilderSession {
	doc := models.NewFormDocument(uuid.New(), ownerID, time.Now())
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.open(doc)
}

// Open returns the builder session for formID, loading the saved document
// when no builder is open yet. The caller's identity must match the owner.
func (reg *Registry) Open(ctx context.Context, formID, userID uuid.UUID) (*BuilderSession, error) {
	reg.mu.RLock()
	bs := reg.sessions[formID.String()]
	reg.mu.RUnlock()
	if bs != nil {
		if bs.OwnerID != userID {
			return nil, ErrNotOwner
		}
		return bs, nil
	}

	doc, err := reg.repo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != userID {
		return nil, ErrNotOwner
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if existing := reg.sessions[formID.String()]; existing != nil {
		return existing, nil
	}
	return reg.open(doc), nil
}

// open registers a session; callers hold the write lock.
func (reg *Registry) open(doc *models.FormDocument) *BuilderSession {
	store := NewStore(doc, reg.repo, reg.baseURL)
	bs := &BuilderSession{
		FormID:     doc.ID,
		OwnerID:    doc.OwnerID,
		Store:      store,
		Controller: voice.NewController(store, reg.primary, reg.fallback, reg.synth, reg.logger),
	}
	reg.sessions[doc.ID.String()] = bs
	reg.logger.Debug("builder session opened", zap.String("form_id", doc.ID.String()))
	return bs
}

// Get returns an already-open session, or nil.
func (reg *Registry) Get(formID uuid.UUID) *BuilderSession {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.sessions[formID.String()]
}

// Close discards the builder session for formID. Unsaved in-memory changes
// are dropped; the persisted document is untouched.
func (reg *Registry) Close(formID uuid.UUID) {
	reg.mu.Lock()
	bs := reg.sessions[formID.String()]
	delete(reg.sessions, formID.String())
	reg.mu.Unlock()
	if bs != nil {
		reg.logger.Debug("builder session closed", zap.String("form_id", formID.String()))
	}
}
