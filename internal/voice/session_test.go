package voice

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akshayn8055/VoxForms/internal/models"
	"github.com/Akshayn8055/VoxForms/internal/speech"
)

type fakeStore struct {
	doc *models.FormDocument
}

func newFakeStore() *fakeStore {
	return &fakeStore{doc: models.NewFormDocument(uuid.New(), uuid.New(), time.Now())}
}

func (s *fakeStore) Document() *models.FormDocument { return s.doc }

func (s *fakeStore) ApplyDelta(d Delta) *models.FormDocument {
	s.doc.Name = d.Name
	s.doc.Description = d.Description
	s.doc.Fields = d.Fields
	return s.doc
}

type fakeTranscriber struct {
	text      string
	err       error
	available bool
	calls     int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}
func (f *fakeTranscriber) Available() bool { return f.available }
func (f *fakeTranscriber) Name() string    { return "fake" }

type fakeSynth struct {
	audio []byte
	err   error
}

func (f *fakeSynth) Synthesize(_ context.Context, _ string) ([]byte, error) {
	return f.audio, f.err
}

func TestControllerLifecycle(t *testing.T) {
	t.Run("start rejects concurrent session", func(t *testing.T) {
		c := NewController(newFakeStore(), &fakeTranscriber{available: true}, nil, nil, nil)
		_, err := c.Start()
		require.NoError(t, err)
		_, err = c.Start()
		assert.ErrorIs(t, err, ErrSessionActive)
	})

	t.Run("complete applies interpretation", func(t *testing.T) {
		store := newFakeStore()
		tr := &fakeTranscriber{text: "add an email field", available: true}
		c := NewController(store, tr, nil, nil, nil)

		id, err := c.Start()
		require.NoError(t, err)
		res, err := c.Complete(context.Background(), id, []byte("audio"), "audio/webm")
		require.NoError(t, err)

		assert.Equal(t, 1, res.FieldsAdded)
		assert.False(t, res.NoSpeech)
		require.Len(t, store.doc.Fields, 1)
		assert.Equal(t, models.FieldEmail, store.doc.Fields[0].Type)
		assert.Equal(t, StateIdle, c.State())
	})

	t.Run("empty transcript reports no speech", func(t *testing.T) {
		store := newFakeStore()
		c := NewController(store, &fakeTranscriber{text: "   ", available: true}, nil, nil, nil)

		id, _ := c.Start()
		res, err := c.Complete(context.Background(), id, nil, "audio/webm")
		require.NoError(t, err)
		assert.True(t, res.NoSpeech)
		assert.Empty(t, store.doc.Fields)
	})

	t.Run("transcription failure returns to idle without mutation", func(t *testing.T) {
		store := newFakeStore()
		c := NewController(store, &fakeTranscriber{err: speech.ErrAuth, available: true}, nil, nil, nil)

		id, _ := c.Start()
		_, err := c.Complete(context.Background(), id, nil, "audio/webm")
		assert.ErrorIs(t, err, speech.ErrAuth)
		assert.Equal(t, StateIdle, c.State())
		assert.Empty(t, store.doc.Fields)

		// The slot is free again.
		_, err = c.Start()
		assert.NoError(t, err)
	})

	t.Run("unknown session id", func(t *testing.T) {
		c := NewController(newFakeStore(), &fakeTranscriber{available: true}, nil, nil, nil)
		_, err := c.Complete(context.Background(), uuid.New(), nil, "audio/webm")
		assert.ErrorIs(t, err, ErrNoSession)
	})
}

func TestControllerCancel(t *testing.T) {
	t.Run("cancel releases recording slot", func(t *testing.T) {
		c := NewController(newFakeStore(), &fakeTranscriber{available: true}, nil, nil, nil)
		id, _ := c.Start()
		require.NoError(t, c.Cancel(id))
		assert.Equal(t, StateIdle, c.State())
		_, err := c.Start()
		assert.NoError(t, err)
	})

	t.Run("cancelled session may still complete before a new one starts", func(t *testing.T) {
		store := newFakeStore()
		c := NewController(store, &fakeTranscriber{text: "add an email field", available: true}, nil, nil, nil)
		id, _ := c.Start()
		require.NoError(t, c.Cancel(id))

		res, err := c.Complete(context.Background(), id, nil, "audio/webm")
		require.NoError(t, err)
		assert.Equal(t, 1, res.FieldsAdded)
	})

	t.Run("late result discarded once a newer session begins", func(t *testing.T) {
		store := newFakeStore()
		c := NewController(store, &fakeTranscriber{text: "add an email field", available: true}, nil, nil, nil)
		first, _ := c.Start()
		require.NoError(t, c.Cancel(first))
		_, err := c.Start()
		require.NoError(t, err)

		_, err = c.Complete(context.Background(), first, nil, "audio/webm")
		assert.ErrorIs(t, err, ErrSessionSuperseded)
		assert.Empty(t, store.doc.Fields)
	})
}

func TestControllerTranscriberSelection(t *testing.T) {
	t.Run("fallback used when primary unavailable", func(t *testing.T) {
		primary := &fakeTranscriber{available: false}
		fallback := &fakeTranscriber{text: "add a phone number", available: true}
		c := NewController(newFakeStore(), primary, fallback, nil, nil)

		id, _ := c.Start()
		res, err := c.Complete(context.Background(), id, nil, "audio/webm")
		require.NoError(t, err)
		assert.Equal(t, 1, res.FieldsAdded)
		assert.Zero(t, primary.calls)
		assert.Equal(t, 1, fallback.calls)
	})

	t.Run("no backend configured", func(t *testing.T) {
		c := NewController(newFakeStore(), &fakeTranscriber{available: false}, nil, nil, nil)
		id, _ := c.Start()
		_, err := c.Complete(context.Background(), id, nil, "audio/webm")
		assert.ErrorIs(t, err, speech.ErrNotConfigured)
	})
}

func TestControllerConfirmation(t *testing.T) {
	t.Run("confirmation audio attached", func(t *testing.T) {
		c := NewController(newFakeStore(), &fakeTranscriber{text: "add an email field", available: true}, nil, &fakeSynth{audio: []byte("mp3")}, nil)
		id, _ := c.Start()
		res, err := c.Complete(context.Background(), id, nil, "audio/webm")
		require.NoError(t, err)
		assert.Equal(t, []byte("mp3"), res.Confirmation)
	})

	t.Run("synthesis failure does not fail the session", func(t *testing.T) {
		c := NewController(newFakeStore(), &fakeTranscriber{text: "add an email field", available: true}, nil, &fakeSynth{err: speech.ErrRateLimited}, nil)
		id, _ := c.Start()
		res, err := c.Complete(context.Background(), id, nil, "audio/webm")
		require.NoError(t, err)
		assert.Nil(t, res.Confirmation)
		assert.Equal(t, 1, res.FieldsAdded)
	})
}

func TestControllerEvents(t *testing.T) {
	c := NewController(newFakeStore(), &fakeTranscriber{text: "add an email field", available: true}, nil, nil, nil)
	events, cancel := c.Subscribe()
	defer cancel()

	id, _ := c.Start()
	_, err := c.Complete(context.Background(), id, nil, "audio/webm")
	require.NoError(t, err)

	var states []State
	for len(events) > 0 {
		states = append(states, (<-events).State)
	}
	assert.Equal(t, []State{StateRecording, StateProcessing, StateIdle}, states)
}

func TestSummary(t *testing.T) {
	doc := models.NewFormDocument(uuid.New(), uuid.New(), time.Now())
	doc.Name = "Feedback"
	doc.Description = "Customer feedback"
	doc.Fields = []models.FormField{
		models.NewFormField(uuid.New(), models.FieldText, "Full Name"),
		models.NewFormField(uuid.New(), models.FieldEmail, "Email Address"),
	}
	s := Summary(doc)
	assert.Contains(t, s, `"Feedback"`)
	assert.Contains(t, s, "2 fields")
	assert.Contains(t, s, "Full Name, Email Address")
	assert.Contains(t, s, "Description: Customer feedback")
}
