// Package forms holds the form-document store used by the builder, the
// registry of open builder sessions, and the persistence layer for saved
// forms.
package forms

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Akshayn8055/VoxForms/internal/models"
	"github.com/Akshayn8055/VoxForms/internal/voice"
)

var (
	// ErrUnnamed is returned by Save when the document has no name.
	ErrUnnamed = errors.New("form name is required")
	// ErrFieldNotFound means the field id does not exist in the document.
	ErrFieldNotFound = errors.New("field not found")
	// ErrInvalidFieldType means the requested type is not in the taxonomy.
	ErrInvalidFieldType = errors.New("invalid field type")
)

// Persister saves a document. Implemented by Repository.
type Persister interface {
	Upsert(ctx context.Context, doc *models.FormDocument) error
}

// Store holds the authoritative in-memory document for one open builder.
// It is the single mutation point shared by manual UI actions and the voice
// interpreter's deltas; every mutation refreshes UpdatedAt to a strictly
// later timestamp.
type Store struct {
	mu        sync.Mutex
	doc       *models.FormDocument
	persister Persister
	baseURL   string
	now       func() time.Time
	ids       func() uuid.UUID
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock injects a clock for deterministic tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithIDs injects a field id source for deterministic tests.
func WithIDs(ids func() uuid.UUID) StoreOption {
	return func(s *Store) { s.ids = ids }
}

// NewStore wraps an existing document. shareBaseURL is the public origin
// used to derive share links at save time.
func NewStore(doc *models.FormDocument, persister Persister, shareBaseURL string, opts ...StoreOption) *Store {
	s := &Store{
		doc:       doc,
		persister: persister,
		baseURL:   strings.TrimRight(shareBaseURL, "/"),
		now:       time.Now,
		ids:       uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Document returns a snapshot of the current document.
func (s *Store) Document() *models.FormDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() *models.FormDocument {
	cp := *s.doc
	cp.Fields = make([]models.FormField, len(s.doc.Fields))
	copy(cp.Fields, s.doc.Fields)
	return &cp
}

// touch refreshes UpdatedAt, bumping by a nanosecond when the clock has not
// advanced so the timestamp is strictly later than before the mutation.
func (s *Store) touch() {
	now := s.now()
	if !now.After(s.doc.UpdatedAt) {
		now = s.doc.UpdatedAt.Add(time.Nanosecond)
	}
	s.doc.UpdatedAt = now
}

// AddField appends a field of the given type with taxonomy defaults, the
// way the builder's manual controls do.
func (s *Store) AddField(t models.FieldType) (models.FormField, error) {
	if !models.ValidFieldType(t) {
		return models.FormField{}, ErrInvalidFieldType
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f := models.FormField{
		ID:          s.ids(),
		Type:        t,
		Label:       models.Capitalize(string(t)) + " Field",
		Placeholder: "Enter " + string(t),
	}
	if t.HasOptions() {
		f.Options = models.DefaultOptions()
	}
	s.doc.Fields = append(s.doc.Fields, f)
	s.touch()
	return f, nil
}

// UpdateField applies a partial update. Changing the type keeps the options
// invariant: select/radio gain placeholder options, other types lose them.
func (s *Store) UpdateField(id uuid.UUID, upd models.FieldUpdate) (*models.FormField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.doc.FieldByID(id)
	if f == nil {
		return nil, ErrFieldNotFound
	}
	if upd.Type != nil {
		if !models.ValidFieldType(*upd.Type) {
			return nil, ErrInvalidFieldType
		}
		f.Type = *upd.Type
		if f.Type.HasOptions() {
			if len(f.Options) == 0 {
				f.Options = models.DefaultOptions()
			}
		} else {
			f.Options = nil
		}
	}
	if upd.Label != nil {
		f.Label = *upd.Label
	}
	if upd.Placeholder != nil {
		f.Placeholder = *upd.Placeholder
	}
	if upd.Required != nil {
		f.Required = *upd.Required
	}
	if upd.Options != nil && f.Type.HasOptions() {
		f.Options = upd.Options
	}
	if upd.Description != nil {
		f.Description = *upd.Description
	}
	s.touch()
	cp := *f
	return &cp, nil
}

// DeleteField removes a field by id.
func (s *Store) DeleteField(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.doc.Fields[:0]
	found := false
	for _, f := range s.doc.Fields {
		if f.ID == id {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	if !found {
		return ErrFieldNotFound
	}
	s.doc.Fields = kept
	s.touch()
	return nil
}

// SetName updates the document name.
func (s *Store) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Name = name
	s.touch()
}

// SetDescription updates the document description.
func (s *Store) SetDescription(desc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Description = desc
	s.touch()
}

// ApplyDelta merges an interpretation delta into the document.
func (s *Store) ApplyDelta(d voice.Delta) *models.FormDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Name = d.Name
	s.doc.Description = d.Description
	s.doc.Fields = d.Fields
	s.touch()
	return s.snapshot()
}

// Save persists the document and assigns its share URL, derived from the
// document id so it is stable across re-saves. isPublic is settable only
// here. An unnamed document is a validation error and nothing is persisted.
func (s *Store) Save(ctx context.Context, isPublic bool) (*models.FormDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(s.doc.Name) == "" {
		return nil, ErrUnnamed
	}
	staged := s.snapshot()
	staged.IsPublic = isPublic
	staged.ShareURL = s.baseURL + "/form/" + staged.ID.String()
	now := s.now()
	if !now.After(staged.UpdatedAt) {
		now = staged.UpdatedAt.Add(time.Nanosecond)
	}
	staged.UpdatedAt = now
	if err := s.persister.Upsert(ctx, staged); err != nil {
		return nil, err
	}
	s.doc.IsPublic = staged.IsPublic
	s.doc.ShareURL = staged.ShareURL
	s.doc.UpdatedAt = staged.UpdatedAt
	return s.snapshot(), nil
}
