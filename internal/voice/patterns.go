// Package voice implements the voice-command core: the pattern library
// mapping spoken phrasings to field-creation intents, the transcript
// interpreter that turns a transcript into a form-document delta, and the
// session controller that drives the capture -> transcription ->
// interpretation cycle.
package voice

import (
	"regexp"
	"strings"

	"github.com/Akshayn8055/VoxForms/internal/models"
)

// FieldPattern binds one recognized phrasing to a field-creation intent.
// The matcher optionally captures a spoken field name; when the capture is
// absent or empty the label falls back to DefaultLabel, then to the type's
// default from the field taxonomy.
type FieldPattern struct {
	Matcher      *regexp.Regexp
	Type         models.FieldType
	DefaultLabel string
}

// FieldPatterns is the recognized phrase table in priority order. Patterns
// are matched against the full lowercased transcript and are non-exclusive:
// one transcript may fire several patterns, and each pattern is applied
// repeatedly, so a transcript naming the same construct twice yields two
// fields.
var FieldPatterns = []FieldPattern{
	// Text fields
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*(?:text|input)?\s*field\s+(?:for|called|named)\s*["']?([^"']+)["']?`), Type: models.FieldText},
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*name\s*field`), Type: models.FieldText, DefaultLabel: "Full Name"},
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*first\s*name\s*field`), Type: models.FieldText, DefaultLabel: "First Name"},
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*last\s*name\s*field`), Type: models.FieldText, DefaultLabel: "Last Name"},
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*address\s*field`), Type: models.FieldText, DefaultLabel: "Address"},
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*company\s*field`), Type: models.FieldText, DefaultLabel: "Company"},

	// Email
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*email\s*(?:field|address)?`), Type: models.FieldEmail, DefaultLabel: "Email Address"},

	// Phone
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*phone\s*(?:number|field)?`), Type: models.FieldTel, DefaultLabel: "Phone Number"},

	// Date
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*(?:date|birthday|birth\s*date)\s*field`), Type: models.FieldDate, DefaultLabel: "Date"},

	// Number
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*(?:number|age|quantity)\s*field`), Type: models.FieldNumber, DefaultLabel: "Number"},

	// Textarea
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*(?:textarea|text\s*area|comment|message|description)\s*field`), Type: models.FieldTextarea, DefaultLabel: "Comments"},

	// Select
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*(?:dropdown|select|choice)\s*field\s+(?:for|called|named)\s*["']?([^"']+)["']?`), Type: models.FieldSelect},

	// Checkbox
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*checkbox\s*(?:field)?\s*(?:for|called|named)\s*["']?([^"']+)["']?`), Type: models.FieldCheckbox},

	// Radio
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*radio\s*(?:button|field)?\s*(?:for|called|named)\s*["']?([^"']+)["']?`), Type: models.FieldRadio},

	// File upload
	{Matcher: regexp.MustCompile(`(?:add|include|create)\s+(?:a|an)?\s*(?:file|upload)\s*field`), Type: models.FieldFile, DefaultLabel: "File Upload"},
}

// Labels returns one label per non-overlapping match of the pattern in the
// lowercased transcript, resolving the capture fallback chain per match.
func (p FieldPattern) Labels(transcript string) []string {
	matches := p.Matcher.FindAllStringSubmatch(transcript, -1)
	if matches == nil {
		return nil
	}
	labels := make([]string, 0, len(matches))
	for _, m := range matches {
		label := ""
		if len(m) > 1 {
			label = strings.TrimSpace(m[1])
		}
		if label == "" {
			label = p.DefaultLabel
		}
		if label == "" {
			label = models.DefaultLabel(p.Type)
		}
		labels = append(labels, label)
	}
	return labels
}

var (
	optionsClauseRe = regexp.MustCompile(`(?:options|choices)\s+(?:are|include)?\s*["']?([^"']+)["']?`)
	optionsSplitRe  = regexp.MustCompile(`,|\sand\s|\sor\s`)
)

// ExtractOptions pulls the option list from an "options are/include ..."
// clause, split on commas and the spoken connectives "and"/"or", trimmed,
// with empty entries dropped. Returns nil when no clause is present.
func ExtractOptions(transcript string) []string {
	m := optionsClauseRe.FindStringSubmatch(transcript)
	if m == nil {
		return nil
	}
	var opts []string
	for _, part := range optionsSplitRe.Split(m[1], -1) {
		if p := strings.TrimSpace(part); p != "" {
			opts = append(opts, p)
		}
	}
	return opts
}
