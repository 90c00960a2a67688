package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldTypeTaxonomy(t *testing.T) {
	t.Run("all declared types valid", func(t *testing.T) {
		for _, ft := range FieldTypes {
			assert.True(t, ValidFieldType(ft), string(ft))
		}
		assert.Len(t, FieldTypes, 15)
	})

	t.Run("unknown type invalid", func(t *testing.T) {
		assert.False(t, ValidFieldType(FieldType("image")))
	})

	t.Run("only select and radio carry options", func(t *testing.T) {
		for _, ft := range FieldTypes {
			want := ft == FieldSelect || ft == FieldRadio
			assert.Equal(t, want, ft.HasOptions(), string(ft))
		}
	})
}

func TestNewFormField(t *testing.T) {
	t.Run("explicit label", func(t *testing.T) {
		f := NewFormField(uuid.New(), FieldText, "job title")
		assert.Equal(t, "job title", f.Label)
		assert.Equal(t, "Enter job title", f.Placeholder)
	})

	t.Run("label falls back to type default", func(t *testing.T) {
		f := NewFormField(uuid.New(), FieldEmail, "")
		assert.Equal(t, "Email Address", f.Label)
		assert.Equal(t, "Enter email address", f.Placeholder)
	})

	t.Run("type without named default capitalizes", func(t *testing.T) {
		f := NewFormField(uuid.New(), FieldURL, "")
		assert.Equal(t, "Url", f.Label)
	})

	t.Run("select gets placeholder options", func(t *testing.T) {
		f := NewFormField(uuid.New(), FieldSelect, "Size")
		assert.Equal(t, []string{"Option 1", "Option 2", "Option 3"}, f.Options)
	})

	t.Run("text carries no options", func(t *testing.T) {
		f := NewFormField(uuid.New(), FieldText, "Name")
		assert.Nil(t, f.Options)
	})
}

func TestFieldByID(t *testing.T) {
	doc := NewFormDocument(uuid.New(), uuid.New(), time.Now())
	f := NewFormField(uuid.New(), FieldText, "Name")
	doc.Fields = []FormField{f}

	got := doc.FieldByID(f.ID)
	require.NotNil(t, got)
	assert.Equal(t, "Name", got.Label)

	assert.Nil(t, doc.FieldByID(uuid.New()))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Text", Capitalize("text"))
	assert.Equal(t, "", Capitalize(""))
}
