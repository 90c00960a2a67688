package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Akshayn8055/VoxForms/internal/models"
	"github.com/Akshayn8055/VoxForms/internal/speech"
)

// State is the voice session interaction state.
type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateProcessing State = "processing"
	StateError      State = "error"
)

var (
	// ErrSessionActive is returned by Start while a session is not idle.
	ErrSessionActive = errors.New("a voice session is already active")
	// ErrSessionSuperseded means the session was cancelled and a newer one
	// has started; its late result is discarded.
	ErrSessionSuperseded = errors.New("voice session superseded")
	// ErrNoSession means Complete/Cancel referenced an unknown session.
	ErrNoSession = errors.New("no such voice session")
)

// Event is a session state change delivered to subscribers.
type Event struct {
	SessionID uuid.UUID `json:"session_id"`
	State     State     `json:"state"`
	Detail    string    `json:"detail,omitempty"`
}

// Result is the outcome of a completed session.
type Result struct {
	SessionID    uuid.UUID           `json:"session_id"`
	Transcript   string              `json:"transcript"`
	NoSpeech     bool                `json:"no_speech"`
	FieldsAdded  int                 `json:"fields_added"`
	Confirmation []byte              `json:"-"`
	Document     *models.FormDocument `json:"document"`
}

// DocumentStore is the slice of the form document store the controller
// mutates. Implemented by forms.Store.
type DocumentStore interface {
	Document() *models.FormDocument
	ApplyDelta(d Delta) *models.FormDocument
}

// Controller owns the capture -> transcription -> interpretation cycle for
// one open builder. All mutation happens under its lock; at most one
// session is in flight at a time.
type Controller struct {
	mu          sync.Mutex
	state       State
	sessionID   uuid.UUID
	generation  uint64
	store       DocumentStore
	interpreter *Interpreter
	primary     speech.Transcriber
	fallback    speech.Transcriber
	synth       speech.Synthesizer
	ids         func() uuid.UUID
	logger      *zap.Logger

	subMu sync.Mutex
	subs  map[chan Event]struct{}
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithIDGenerator injects a deterministic session/field id source.
func WithIDGenerator(ids func() uuid.UUID) ControllerOption {
	return func(c *Controller) { c.ids = ids }
}

// NewController creates a session controller over the given document store
// and speech backends. fallback and synth may be nil.
func NewController(store DocumentStore, primary, fallback speech.Transcriber, synth speech.Synthesizer, logger *zap.Logger, opts ...ControllerOption) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		state:   StateIdle,
		store:   store,
		primary: primary,
		fallback: fallback,
		synth:   synth,
		ids:     uuid.New,
		logger:  logger,
		subs:    make(map[chan Event]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.interpreter = NewInterpreter(c.ids)
	return c
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start begins a new recording session. Only one session may be active;
// Start while not idle is rejected.
func (c *Controller) Start() (uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return uuid.Nil, ErrSessionActive
	}
	c.generation++
	c.sessionID = c.ids()
	c.state = StateRecording
	c.publish(Event{SessionID: c.sessionID, State: StateRecording})
	return c.sessionID, nil
}

// Cancel releases the capture slot. An in-flight transcription is not
// interrupted; its result is applied later unless a new session has begun.
func (c *Controller) Cancel(sessionID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionID != sessionID {
		return ErrNoSession
	}
	if c.state == StateRecording {
		c.state = StateIdle
		c.publish(Event{SessionID: sessionID, State: StateIdle, Detail: "cancelled"})
	}
	return nil
}

// Complete finishes a session with captured audio: transcription, then
// interpretation against the document as of the moment transcription
// completes, then confirmation synthesis. Failures transition through the
// error state back to idle and leave the document untouched.
func (c *Controller) Complete(ctx context.Context, sessionID uuid.UUID, audio []byte, mimeType string) (*Result, error) {
	c.mu.Lock()
	if c.sessionID != sessionID {
		c.mu.Unlock()
		if c.generation > 0 {
			return nil, ErrSessionSuperseded
		}
		return nil, ErrNoSession
	}
	generation := c.generation
	c.state = StateProcessing
	c.publish(Event{SessionID: sessionID, State: StateProcessing})
	c.mu.Unlock()

	transcript, err := c.transcribe(ctx, audio, mimeType)
	if err != nil {
		c.fail(sessionID, err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		// A newer session started while transcription was in flight.
		return nil, ErrSessionSuperseded
	}
	defer func() {
		c.state = StateIdle
		c.publish(Event{SessionID: sessionID, State: StateIdle})
	}()

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return &Result{SessionID: sessionID, NoSpeech: true, Document: c.store.Document()}, nil
	}

	delta := c.interpreter.Interpret(transcript, c.store.Document())
	doc := c.store.ApplyDelta(delta)

	res := &Result{
		SessionID:   sessionID,
		Transcript:  transcript,
		FieldsAdded: delta.Added,
		Document:    doc,
	}
	if c.synth != nil {
		msg := fmt.Sprintf("Form updated successfully. Added %d new fields.", delta.Added)
		audioOut, synthErr := c.synth.Synthesize(ctx, msg)
		if synthErr != nil {
			// Confirmation playback is optional; never blocks the mutation.
			c.logger.Warn("confirmation synthesis failed", zap.Error(synthErr))
		} else {
			res.Confirmation = audioOut
		}
	}
	return res, nil
}

// transcribe picks the configured backend: the primary remote service, or
// the fallback recognizer when the primary is misconfigured or absent.
func (c *Controller) transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	t := c.primary
	if (t == nil || !t.Available()) && c.fallback != nil && c.fallback.Available() {
		t = c.fallback
	}
	if t == nil || !t.Available() {
		return "", speech.ErrNotConfigured
	}
	c.logger.Debug("transcribing", zap.String("backend", t.Name()), zap.Int("bytes", len(audio)))
	return t.Transcribe(ctx, audio, mimeType)
}

func (c *Controller) fail(sessionID uuid.UUID, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publish(Event{SessionID: sessionID, State: StateError, Detail: speech.UserMessage(err)})
	if c.sessionID == sessionID {
		c.state = StateIdle
		c.publish(Event{SessionID: sessionID, State: StateIdle})
	}
	c.logger.Warn("voice session failed", zap.String("session_id", sessionID.String()), zap.Error(err))
}

// Subscribe registers an event listener. The returned cancel func must be
// called to release it. Slow subscribers drop events rather than block the
// session.
func (c *Controller) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	c.subMu.Lock()
	c.subs[ch] = struct{}{}
	c.subMu.Unlock()
	return ch, func() {
		c.subMu.Lock()
		delete(c.subs, ch)
		c.subMu.Unlock()
	}
}

func (c *Controller) publish(ev Event) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Summary describes the document for spoken read-back.
func Summary(doc *models.FormDocument) string {
	name := doc.Name
	if name == "" {
		name = "Untitled Form"
	}
	labels := make([]string, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		labels = append(labels, f.Label)
	}
	s := fmt.Sprintf("Your form %q contains %d fields: %s.", name, len(doc.Fields), strings.Join(labels, ", "))
	if doc.Description != "" {
		s += " Description: " + doc.Description
	}
	return s
}
