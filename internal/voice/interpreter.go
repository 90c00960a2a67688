package voice

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Akshayn8055/VoxForms/internal/models"
)

var (
	namedClauseRe = regexp.MustCompile(`(?:create|make|build)?\s*(?:a|an)?\s*(?:form|survey)?\s*(?:called|named|titled)\s*["']?([^"']+)["']?`)
	formNameRe    = regexp.MustCompile(`(?:create|make|build)\s+(?:a|an)?\s*([^.]+?)\s*form`)
	descClauseRe  = regexp.MustCompile(`(?:description|about|for)\s*["']?([^"']+)["']?`)
	makeRequired  = regexp.MustCompile(`make\s+(?:the\s+)?([^"']+?)\s+(?:field\s+)?required`)
	removeFieldRe = regexp.MustCompile(`(?:remove|delete)\s+(?:the\s+)?([^"']+?)\s*field`)
)

// Delta is the partial document update produced by one interpretation pass.
// Fields is the complete resulting field list, not just the additions;
// Added counts the fields created by this pass.
type Delta struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Fields      []models.FormField `json:"fields"`
	Added       int                `json:"added"`
}

// Interpreter parses transcripts against the pattern library and an
// existing document. It is stateless apart from the injected id generator.
type Interpreter struct {
	ids func() uuid.UUID
}

// NewInterpreter creates an interpreter. ids may be nil, in which case
// random UUIDs are used.
func NewInterpreter(ids func() uuid.UUID) *Interpreter {
	if ids == nil {
		ids = uuid.New
	}
	return &Interpreter{ids: ids}
}

// Interpret maps a raw transcript onto the current document, producing the
// delta to merge. A transcript matching nothing is a valid no-op, not an
// error. Processing order is fixed (name, description, field creation,
// options clause, required retrofit, removal) and each step operates on
// the cumulative in-progress field list.
func (it *Interpreter) Interpret(transcript string, doc *models.FormDocument) Delta {
	lower := strings.ToLower(strings.TrimSpace(transcript))

	fields := make([]models.FormField, len(doc.Fields))
	copy(fields, doc.Fields)

	name := it.extractName(lower, doc)
	description := ""
	if m := descClauseRe.FindStringSubmatch(lower); m != nil {
		description = strings.TrimSpace(m[1])
	}

	// A single utterance mentioning "required" anywhere marks every field
	// it creates as required.
	required := strings.Contains(lower, "required") || strings.Contains(lower, "mandatory")

	added := 0
	for _, p := range FieldPatterns {
		for _, label := range p.Labels(lower) {
			f := models.NewFormField(it.ids(), p.Type, label)
			f.Required = required
			fields = append(fields, f)
			added++
		}
	}

	// "the options are A, B and C" retargets the most recently added
	// select/radio field in the whole document, so a standalone follow-up
	// command augments a field created by a prior utterance.
	if opts := ExtractOptions(lower); opts != nil && len(fields) > 0 {
		last := &fields[len(fields)-1]
		if last.Type.HasOptions() {
			last.Options = opts
		}
	}

	if strings.Contains(lower, "make") && strings.Contains(lower, "required") {
		if m := makeRequired.FindStringSubmatch(lower); m != nil {
			phrase := strings.TrimSpace(m[1])
			for i := range fields {
				if strings.Contains(strings.ToLower(fields[i].Label), phrase) {
					fields[i].Required = true
				}
			}
		}
	}

	if strings.Contains(lower, "remove") || strings.Contains(lower, "delete") {
		if m := removeFieldRe.FindStringSubmatch(lower); m != nil {
			phrase := strings.TrimSpace(m[1])
			kept := fields[:0]
			for _, f := range fields {
				// Broad substring match: "remove the name field" also drops
				// "First Name" and "Last Name".
				if !strings.Contains(strings.ToLower(f.Label), phrase) {
					kept = append(kept, f)
				}
			}
			fields = kept
		}
	}

	if name == "" {
		name = doc.Name
	}
	if description == "" {
		description = doc.Description
	}
	return Delta{Name: name, Description: description, Fields: fields, Added: added}
}

// extractName looks for an explicit called/named/titled clause, falling back
// to the phrase preceding "form" when the transcript carries a creation verb
// and the document is still unnamed.
func (it *Interpreter) extractName(lower string, doc *models.FormDocument) string {
	if m := namedClauseRe.FindStringSubmatch(lower); m != nil {
		return strings.TrimSpace(m[1])
	}
	if strings.Contains(lower, "form") && doc.Name == "" {
		if m := formNameRe.FindStringSubmatch(lower); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
