package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Akshayn8055/VoxForms/internal/models"
)

func patternFor(t *testing.T, ft models.FieldType, defaultLabel string) FieldPattern {
	t.Helper()
	for _, p := range FieldPatterns {
		if p.Type == ft && p.DefaultLabel == defaultLabel {
			return p
		}
	}
	t.Fatalf("no pattern for %s %q", ft, defaultLabel)
	return FieldPattern{}
}

func TestFieldPatternLabels(t *testing.T) {
	t.Run("captured name wins", func(t *testing.T) {
		p := FieldPatterns[0] // generic text field with capture
		labels := p.Labels("add a text field for job title")
		assert.Equal(t, []string{"job title"}, labels)
	})

	t.Run("default label when no capture group", func(t *testing.T) {
		p := patternFor(t, models.FieldEmail, "Email Address")
		labels := p.Labels("please add an email field to the form")
		assert.Equal(t, []string{"Email Address"}, labels)
	})

	t.Run("no match returns nil", func(t *testing.T) {
		p := patternFor(t, models.FieldTel, "Phone Number")
		assert.Nil(t, p.Labels("make the form public"))
	})

	t.Run("repeated phrasing yields repeated labels", func(t *testing.T) {
		p := patternFor(t, models.FieldText, "First Name")
		labels := p.Labels("add a first name field and then add a first name field")
		assert.Len(t, labels, 2)
	})

	t.Run("quoted capture is unquoted", func(t *testing.T) {
		p := FieldPatterns[0]
		labels := p.Labels(`add a field called "favorite color"`)
		assert.Equal(t, []string{"favorite color"}, labels)
	})
}

func TestExtractOptions(t *testing.T) {
	t.Run("comma separated", func(t *testing.T) {
		opts := ExtractOptions("the options are red, green, blue")
		assert.Equal(t, []string{"red", "green", "blue"}, opts)
	})

	t.Run("spoken connectives", func(t *testing.T) {
		opts := ExtractOptions("choices include small and medium or large")
		assert.Equal(t, []string{"small", "medium", "large"}, opts)
	})

	t.Run("mixed separators with blanks dropped", func(t *testing.T) {
		opts := ExtractOptions("options are yes, , no and  maybe")
		assert.Equal(t, []string{"yes", "no", "maybe"}, opts)
	})

	t.Run("no clause returns nil", func(t *testing.T) {
		assert.Nil(t, ExtractOptions("add a dropdown field for size"))
	})
}
