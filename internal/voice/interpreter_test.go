package voice

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akshayn8055/VoxForms/internal/models"
)

func seqIDs() func() uuid.UUID {
	n := byte(0)
	return func() uuid.UUID {
		n++
		return uuid.UUID{n}
	}
}

func emptyDoc() *models.FormDocument {
	return models.NewFormDocument(uuid.New(), uuid.New(), time.Now())
}

func TestInterpretFieldCreation(t *testing.T) {
	it := NewInterpreter(seqIDs())

	t.Run("single email field", func(t *testing.T) {
		d := it.Interpret("Add an email field", emptyDoc())
		require.Len(t, d.Fields, 1)
		assert.Equal(t, 1, d.Added)
		assert.Equal(t, models.FieldEmail, d.Fields[0].Type)
		assert.Equal(t, "Email Address", d.Fields[0].Label)
		assert.Equal(t, "Enter email address", d.Fields[0].Placeholder)
		assert.False(t, d.Fields[0].Required)
	})

	t.Run("several fields from one utterance", func(t *testing.T) {
		d := it.Interpret("add a name field, add an email field and add a phone number", emptyDoc())
		require.Len(t, d.Fields, 3)
		types := []models.FieldType{d.Fields[0].Type, d.Fields[1].Type, d.Fields[2].Type}
		assert.ElementsMatch(t, []models.FieldType{models.FieldText, models.FieldEmail, models.FieldTel}, types)
	})

	t.Run("required keyword marks created fields", func(t *testing.T) {
		d := it.Interpret("add an email field which is required", emptyDoc())
		require.Len(t, d.Fields, 1)
		assert.True(t, d.Fields[0].Required)
	})

	t.Run("mandatory keyword also works", func(t *testing.T) {
		d := it.Interpret("add a phone number, it is mandatory", emptyDoc())
		require.Len(t, d.Fields, 1)
		assert.True(t, d.Fields[0].Required)
	})

	t.Run("existing fields are preserved", func(t *testing.T) {
		doc := emptyDoc()
		doc.Fields = []models.FormField{models.NewFormField(uuid.New(), models.FieldText, "Full Name")}
		d := it.Interpret("add an email field", doc)
		require.Len(t, d.Fields, 2)
		assert.Equal(t, "Full Name", d.Fields[0].Label)
	})

	t.Run("unrecognized transcript is a no-op", func(t *testing.T) {
		doc := emptyDoc()
		doc.Name = "Survey"
		d := it.Interpret("the weather is nice today", doc)
		assert.Empty(t, d.Fields)
		assert.Equal(t, 0, d.Added)
		assert.Equal(t, "Survey", d.Name)
	})
}

func TestInterpretNaming(t *testing.T) {
	it := NewInterpreter(seqIDs())

	t.Run("explicit called clause", func(t *testing.T) {
		d := it.Interpret("create a form called Customer Feedback", emptyDoc())
		assert.Equal(t, "customer feedback", d.Name)
	})

	t.Run("creation phrase names unnamed document", func(t *testing.T) {
		d := it.Interpret("create a job application form", emptyDoc())
		assert.Equal(t, "job application", d.Name)
	})

	t.Run("creation phrase does not rename", func(t *testing.T) {
		doc := emptyDoc()
		doc.Name = "Existing"
		d := it.Interpret("create a job application form", doc)
		assert.Equal(t, "Existing", d.Name)
	})

	t.Run("description clause", func(t *testing.T) {
		d := it.Interpret("make a survey about customer satisfaction", emptyDoc())
		assert.Equal(t, "customer satisfaction", d.Description)
	})

	t.Run("blank keeps current metadata", func(t *testing.T) {
		doc := emptyDoc()
		doc.Name = "Survey"
		doc.Description = "Old description"
		d := it.Interpret("add an email field", doc)
		assert.Equal(t, "Survey", d.Name)
		assert.Equal(t, "Old description", d.Description)
	})
}

func TestInterpretOptions(t *testing.T) {
	it := NewInterpreter(seqIDs())

	t.Run("options attach to new select field", func(t *testing.T) {
		d := it.Interpret("add a dropdown field for size, the options are small, medium, large", emptyDoc())
		require.Len(t, d.Fields, 1)
		assert.Equal(t, models.FieldSelect, d.Fields[0].Type)
		assert.Equal(t, []string{"small", "medium", "large"}, d.Fields[0].Options)
	})

	t.Run("select without options gets defaults", func(t *testing.T) {
		d := it.Interpret("add a dropdown field for color", emptyDoc())
		require.Len(t, d.Fields, 1)
		assert.Equal(t, []string{"Option 1", "Option 2", "Option 3"}, d.Fields[0].Options)
	})

	t.Run("standalone options clause targets last document field", func(t *testing.T) {
		doc := emptyDoc()
		doc.Fields = []models.FormField{models.NewFormField(uuid.New(), models.FieldRadio, "Size")}
		d := it.Interpret("the options are small and large", doc)
		require.Len(t, d.Fields, 1)
		assert.Equal(t, []string{"small", "large"}, d.Fields[0].Options)
	})

	t.Run("options clause ignored when last field has no options", func(t *testing.T) {
		doc := emptyDoc()
		doc.Fields = []models.FormField{models.NewFormField(uuid.New(), models.FieldText, "Name")}
		d := it.Interpret("the options are a, b", doc)
		require.Len(t, d.Fields, 1)
		assert.Nil(t, d.Fields[0].Options)
	})
}

func TestInterpretMakeRequired(t *testing.T) {
	it := NewInterpreter(seqIDs())

	t.Run("retrofits by label substring", func(t *testing.T) {
		doc := emptyDoc()
		doc.Fields = []models.FormField{
			models.NewFormField(uuid.New(), models.FieldEmail, "Email Address"),
			models.NewFormField(uuid.New(), models.FieldText, "Company"),
		}
		d := it.Interpret("make the email field required", doc)
		require.Len(t, d.Fields, 2)
		assert.True(t, d.Fields[0].Required)
		assert.False(t, d.Fields[1].Required)
	})

	t.Run("broad substring hits every matching field", func(t *testing.T) {
		doc := emptyDoc()
		doc.Fields = []models.FormField{
			models.NewFormField(uuid.New(), models.FieldText, "First Name"),
			models.NewFormField(uuid.New(), models.FieldText, "Last Name"),
		}
		d := it.Interpret("make the name field required", doc)
		assert.True(t, d.Fields[0].Required)
		assert.True(t, d.Fields[1].Required)
	})
}

func TestInterpretRemove(t *testing.T) {
	it := NewInterpreter(seqIDs())

	t.Run("removes by label substring", func(t *testing.T) {
		doc := emptyDoc()
		doc.Fields = []models.FormField{
			models.NewFormField(uuid.New(), models.FieldEmail, "Email Address"),
			models.NewFormField(uuid.New(), models.FieldText, "Company"),
		}
		d := it.Interpret("remove the company field", doc)
		require.Len(t, d.Fields, 1)
		assert.Equal(t, "Email Address", d.Fields[0].Label)
	})

	t.Run("broad match drops all name variants", func(t *testing.T) {
		doc := emptyDoc()
		doc.Fields = []models.FormField{
			models.NewFormField(uuid.New(), models.FieldText, "First Name"),
			models.NewFormField(uuid.New(), models.FieldText, "Last Name"),
			models.NewFormField(uuid.New(), models.FieldEmail, "Email Address"),
		}
		d := it.Interpret("delete the name field", doc)
		require.Len(t, d.Fields, 1)
		assert.Equal(t, "Email Address", d.Fields[0].Label)
	})

	t.Run("no matching label leaves fields intact", func(t *testing.T) {
		doc := emptyDoc()
		doc.Fields = []models.FormField{models.NewFormField(uuid.New(), models.FieldText, "Company")}
		d := it.Interpret("remove the phone field", doc)
		assert.Len(t, d.Fields, 1)
	})
}

func TestInterpretDoesNotMutateDocument(t *testing.T) {
	it := NewInterpreter(seqIDs())
	doc := emptyDoc()
	doc.Fields = []models.FormField{models.NewFormField(uuid.New(), models.FieldText, "Company")}

	_ = it.Interpret("remove the company field and add an email field", doc)

	require.Len(t, doc.Fields, 1)
	assert.Equal(t, "Company", doc.Fields[0].Label)
}
