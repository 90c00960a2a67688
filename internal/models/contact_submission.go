package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus tracks a contact submission through the dashboard workflow.
type SubmissionStatus string

const (
	SubmissionNew        SubmissionStatus = "new"
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionResolved   SubmissionStatus = "resolved"
	SubmissionArchived   SubmissionStatus = "archived"
)

// ValidSubmissionStatus reports whether s is a known status.
func ValidSubmissionStatus(s SubmissionStatus) bool {
	switch s {
	case SubmissionNew, SubmissionInProgress, SubmissionResolved, SubmissionArchived:
		return true
	}
	return false
}

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID                     uuid.UUID        `json:"id"`
	FirstName              string           `json:"first_name"`
	LastName               string           `json:"last_name"`
	Email                  string           `json:"email"`
	Company                string           `json:"company,omitempty"`
	Industry               string           `json:"industry,omitempty"`
	Phone                  string           `json:"phone,omitempty"`
	Message                string           `json:"message"`
	Priority               string           `json:"priority"`
	PreferredContactMethod string           `json:"preferred_contact_method"`
	BudgetRange            string           `json:"budget_range,omitempty"`
	Timeline               string           `json:"timeline,omitempty"`
	Source                 string           `json:"source"`
	Status                 SubmissionStatus `json:"status"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
}
