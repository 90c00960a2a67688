package contacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSubmit() SubmitRequest {
	return SubmitRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Message:   "I would like a demo of the voice builder.",
	}
}

func TestSubmitRequestValidate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		req := validSubmit()
		assert.Empty(t, req.Validate())
	})

	t.Run("first name required", func(t *testing.T) {
		req := validSubmit()
		req.FirstName = "  "
		assert.Equal(t, "first name is required", req.Validate())
	})

	t.Run("last name required", func(t *testing.T) {
		req := validSubmit()
		req.LastName = ""
		assert.Equal(t, "last name is required", req.Validate())
	})

	t.Run("email required", func(t *testing.T) {
		req := validSubmit()
		req.Email = ""
		assert.Equal(t, "email is required", req.Validate())
	})

	t.Run("email format", func(t *testing.T) {
		req := validSubmit()
		req.Email = "not-an-email"
		assert.Equal(t, "please enter a valid email address", req.Validate())
	})

	t.Run("message minimum length", func(t *testing.T) {
		req := validSubmit()
		req.Message = "too short"
		assert.Equal(t, "message must be at least 10 characters", req.Validate())
	})

	t.Run("message length counts trimmed text", func(t *testing.T) {
		req := validSubmit()
		req.Message = "   short    "
		assert.Equal(t, "message must be at least 10 characters", req.Validate())
	})
}
