package forms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akshayn8055/VoxForms/internal/models"
	"github.com/Akshayn8055/VoxForms/internal/voice"
)

type fakePersister struct {
	saved []*models.FormDocument
	err   error
}

func (p *fakePersister) Upsert(_ context.Context, doc *models.FormDocument) error {
	if p.err != nil {
		return p.err
	}
	p.saved = append(p.saved, doc)
	return nil
}

func newTestStore(t *testing.T, p Persister) *Store {
	t.Helper()
	doc := models.NewFormDocument(uuid.New(), uuid.New(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewStore(doc, p, "https://forms.example.com/")
}

func TestStoreAddField(t *testing.T) {
	t.Run("defaults by type", func(t *testing.T) {
		s := newTestStore(t, &fakePersister{})
		f, err := s.AddField(models.FieldText)
		require.NoError(t, err)
		assert.Equal(t, "Text Field", f.Label)
		assert.Equal(t, "Enter text", f.Placeholder)
		assert.Nil(t, f.Options)
		assert.False(t, f.Required)
	})

	t.Run("select gets placeholder options", func(t *testing.T) {
		s := newTestStore(t, &fakePersister{})
		f, err := s.AddField(models.FieldSelect)
		require.NoError(t, err)
		assert.Equal(t, []string{"Option 1", "Option 2", "Option 3"}, f.Options)
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		s := newTestStore(t, &fakePersister{})
		_, err := s.AddField(models.FieldType("bogus"))
		assert.ErrorIs(t, err, ErrInvalidFieldType)
	})

	t.Run("updated timestamp strictly advances", func(t *testing.T) {
		s := newTestStore(t, &fakePersister{})
		before := s.Document().UpdatedAt
		_, err := s.AddField(models.FieldText)
		require.NoError(t, err)
		assert.True(t, s.Document().UpdatedAt.After(before))
	})
}

func TestStoreUpdateField(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		s := newTestStore(t, &fakePersister{})
		f, _ := s.AddField(models.FieldText)

		label := "Given Name"
		req := true
		got, err := s.UpdateField(f.ID, models.FieldUpdate{Label: &label, Required: &req})
		require.NoError(t, err)
		assert.Equal(t, "Given Name", got.Label)
		assert.True(t, got.Required)
		assert.Equal(t, f.Placeholder, got.Placeholder)
	})

	t.Run("type change to select gains options", func(t *testing.T) {
		s := newTestStore(t, &fakePersister{})
		f, _ := s.AddField(models.FieldText)

		typ := models.FieldSelect
		got, err := s.UpdateField(f.ID, models.FieldUpdate{Type: &typ})
		require.NoError(t, err)
		assert.Equal(t, []string{"Option 1", "Option 2", "Option 3"}, got.Options)
	})

	t.Run("type change away from select drops options", func(t *testing.T) {
		s := newTestStore(t, &fakePersister{})
		f, _ := s.AddField(models.FieldRadio)

		typ := models.FieldNumber
		got, err := s.UpdateField(f.ID, models.FieldUpdate{Type: &typ})
		require.NoError(t, err)
		assert.Nil(t, got.Options)
	})

	t.Run("options ignored on non-option type", func(t *testing.T) {
		s := newTestStore(t, &fakePersister{})
		f, _ := s.AddField(models.FieldText)

		got, err := s.UpdateField(f.ID, models.FieldUpdate{Options: []string{"a", "b"}})
		require.NoError(t, err)
		assert.Nil(t, got.Options)
	})

	t.Run("unknown field", func(t *testing.T) {
		s := newTestStore(t, &fakePersister{})
		_, err := s.UpdateField(uuid.New(), models.FieldUpdate{})
		assert.ErrorIs(t, err, ErrFieldNotFound)
	})
}

func TestStoreDeleteField(t *testing.T) {
	s := newTestStore(t, &fakePersister{})
	f1, _ := s.AddField(models.FieldText)
	f2, _ := s.AddField(models.FieldEmail)

	require.NoError(t, s.DeleteField(f1.ID))
	doc := s.Document()
	require.Len(t, doc.Fields, 1)
	assert.Equal(t, f2.ID, doc.Fields[0].ID)

	assert.ErrorIs(t, s.DeleteField(f1.ID), ErrFieldNotFound)
}

func TestStoreApplyDelta(t *testing.T) {
	s := newTestStore(t, &fakePersister{})
	_, _ = s.AddField(models.FieldText)

	delta := voice.Delta{
		Name:        "Feedback",
		Description: "About feedback",
		Fields:      []models.FormField{models.NewFormField(uuid.New(), models.FieldEmail, "Email Address")},
		Added:       1,
	}
	doc := s.ApplyDelta(delta)
	assert.Equal(t, "Feedback", doc.Name)
	require.Len(t, doc.Fields, 1)
	assert.Equal(t, models.FieldEmail, doc.Fields[0].Type)
}

func TestStoreSave(t *testing.T) {
	t.Run("unnamed document rejected", func(t *testing.T) {
		p := &fakePersister{}
		s := newTestStore(t, p)
		_, err := s.Save(context.Background(), false)
		assert.ErrorIs(t, err, ErrUnnamed)
		assert.Empty(t, p.saved)
	})

	t.Run("share url derived from id", func(t *testing.T) {
		p := &fakePersister{}
		s := newTestStore(t, p)
		s.SetName("Feedback")

		doc, err := s.Save(context.Background(), true)
		require.NoError(t, err)
		assert.True(t, doc.IsPublic)
		assert.Equal(t, "https://forms.example.com/form/"+doc.ID.String(), doc.ShareURL)
		require.Len(t, p.saved, 1)
	})

	t.Run("share url stable across re-saves", func(t *testing.T) {
		p := &fakePersister{}
		s := newTestStore(t, p)
		s.SetName("Feedback")

		first, err := s.Save(context.Background(), true)
		require.NoError(t, err)
		s.SetName("Feedback v2")
		second, err := s.Save(context.Background(), true)
		require.NoError(t, err)
		assert.Equal(t, first.ShareURL, second.ShareURL)
		assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	})

	t.Run("persist failure leaves document untouched", func(t *testing.T) {
		p := &fakePersister{err: errors.New("db down")}
		s := newTestStore(t, p)
		s.SetName("Feedback")
		before := s.Document()

		_, err := s.Save(context.Background(), true)
		require.Error(t, err)
		after := s.Document()
		assert.False(t, after.IsPublic)
		assert.Empty(t, after.ShareURL)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	})
}

func TestDocumentSnapshotIsolation(t *testing.T) {
	s := newTestStore(t, &fakePersister{})
	_, _ = s.AddField(models.FieldText)

	snap := s.Document()
	snap.Fields[0].Label = "mutated"
	snap.Name = "mutated"

	doc := s.Document()
	assert.Equal(t, "Text Field", doc.Fields[0].Label)
	assert.NotEqual(t, "mutated", doc.Name)
}
