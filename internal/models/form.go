package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FieldType is the input type of a form field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldDate     FieldType = "date"
	FieldNumber   FieldType = "number"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
	FieldFile     FieldType = "file"
	FieldURL      FieldType = "url"
	FieldTime     FieldType = "time"
	FieldRange    FieldType = "range"
	FieldColor    FieldType = "color"
	FieldPassword FieldType = "password"
)

// FieldTypes lists all supported field types in display order.
var FieldTypes = []FieldType{
	FieldText, FieldEmail, FieldTel, FieldDate, FieldNumber,
	FieldTextarea, FieldSelect, FieldCheckbox, FieldRadio, FieldFile,
	FieldURL, FieldTime, FieldRange, FieldColor, FieldPassword,
}

// ValidFieldType reports whether t is one of the supported field types.
func ValidFieldType(t FieldType) bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// HasOptions reports whether the type carries an options list.
// Options are defined if and only if the type is select or radio.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldRadio
}

// defaultLabels holds labels for commonly-voiced field types. Types not
// listed here fall back to the capitalized type name.
var defaultLabels = map[FieldType]string{
	FieldEmail:    "Email Address",
	FieldTel:      "Phone Number",
	FieldDate:     "Date",
	FieldNumber:   "Number",
	FieldTextarea: "Comments",
	FieldFile:     "File Upload",
}

// DefaultLabel returns the default display label for a field type.
func DefaultLabel(t FieldType) string {
	if l, ok := defaultLabels[t]; ok {
		return l
	}
	return Capitalize(string(t))
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// DefaultOptions returns the placeholder options assigned to a new
// select/radio field when none are spoken.
func DefaultOptions() []string {
	return []string{"Option 1", "Option 2", "Option 3"}
}

// FieldValidation holds optional validation constraints. Declared for
// forward compatibility; the voice interpreter never populates it.
type FieldValidation struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Message string   `json:"message,omitempty"`
}

// FormField is one input element of a form document.
type FormField struct {
	ID          uuid.UUID        `json:"id"`
	Type        FieldType        `json:"type"`
	Label       string           `json:"label"`
	Placeholder string           `json:"placeholder,omitempty"`
	Required    bool             `json:"required"`
	Options     []string         `json:"options,omitempty"`
	Validation  *FieldValidation `json:"validation,omitempty"`
	Description string           `json:"description,omitempty"`
}

// NewFormField builds a field of the given type with defaulting rules
// applied: label from the type taxonomy when empty, placeholder derived
// from the label, and three placeholder options for select/radio.
func NewFormField(id uuid.UUID, t FieldType, label string) FormField {
	if label == "" {
		label = DefaultLabel(t)
	}
	f := FormField{
		ID:          id,
		Type:        t,
		Label:       label,
		Placeholder: "Enter " + strings.ToLower(label),
	}
	if t.HasOptions() {
		f.Options = DefaultOptions()
	}
	return f
}

// FieldUpdate is a partial update to a field. Nil members are left unchanged.
type FieldUpdate struct {
	Type        *FieldType `json:"type,omitempty"`
	Label       *string    `json:"label,omitempty"`
	Placeholder *string    `json:"placeholder,omitempty"`
	Required    *bool      `json:"required,omitempty"`
	Options     []string   `json:"options,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// FormDocument is a form under construction or saved by a user.
// Field order is display order; voice-added fields append at the end.
type FormDocument struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Fields      []FormField `json:"fields"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	IsPublic    bool        `json:"is_public"`
	ShareURL    string      `json:"share_url,omitempty"`
}

// NewFormDocument creates an empty document owned by ownerID.
func NewFormDocument(id, ownerID uuid.UUID, now time.Time) *FormDocument {
	return &FormDocument{
		ID:        id,
		OwnerID:   ownerID,
		Fields:    []FormField{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FieldByID returns the field with the given id, or nil.
func (d *FormDocument) FieldByID(id uuid.UUID) *FormField {
	for i := range d.Fields {
		if d.Fields[i].ID == id {
			return &d.Fields[i]
		}
	}
	return nil
}
