// Package schema validates résumé documents supplied as JSON.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"resumeai/internal/types"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchema string

var compiled = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(resumeSchema))
})

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every schema violation of a document
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("resume validation failed:")
	for _, err := range ve.Errors {
		fmt.Fprintf(&sb, " %s: %s;", err.Field, err.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Fields returns the offending field paths
func (ve *ValidationError) Fields() []string {
	out := make([]string, len(ve.Errors))
	for i, e := range ve.Errors {
		out[i] = e.Field
	}
	return out
}

// ValidateResumeJSON checks data against the résumé schema. Schema violations
// are reported as *ValidationError, malformed JSON as a plain error.
func ValidateResumeJSON(data []byte) error {
	s, err := compiled()
	if err != nil {
		return fmt.Errorf("failed to load resume schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to read resume JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

// DecodeResume validates data and decodes it into a Resume. Documents
// without fullText get one assembled from their fields, and missing raw
// sections are derived from the populated ones. An absent yearsExperience
// becomes types.DefaultYearsExperience; an explicit 0 is kept.
func DecodeResume(data []byte) (types.Resume, error) {
	if err := ValidateResumeJSON(data); err != nil {
		return types.Resume{}, err
	}
	var r types.Resume
	if err := json.Unmarshal(data, &r); err != nil {
		return types.Resume{}, fmt.Errorf("failed to decode resume: %w", err)
	}
	var stated struct {
		YearsExperience *int `json:"yearsExperience"`
	}
	if err := json.Unmarshal(data, &stated); err == nil && stated.YearsExperience == nil {
		r.YearsExperience = types.DefaultYearsExperience
	}
	Normalize(&r)
	return r, nil
}

// Normalize fills the derived fields of a structured résumé.
func Normalize(r *types.Resume) {
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Experience == nil {
		r.Experience = []types.ExperienceEntry{}
	}
	if len(r.RawSections) == 0 {
		r.RawSections = deriveSections(r)
	}
	if strings.TrimSpace(r.FullText) == "" {
		r.FullText = assembleText(r)
	}
}

func deriveSections(r *types.Resume) map[string]string {
	sections := make(map[string]string)
	add := func(name, text string) {
		if text = strings.TrimSpace(text); text != "" {
			sections[name] = text
		}
	}
	add("summary", r.Summary)
	add("skills", strings.Join(r.Skills, ", "))
	add("experience", experienceText(r.Experience))
	add("education", r.Education)
	add("projects", r.Projects)
	add("certifications", r.Certifications)
	return sections
}

func experienceText(entries []types.ExperienceEntry) string {
	var lines []string
	for _, e := range entries {
		for _, s := range []string{e.Company, e.Role, e.Dates} {
			if s != "" {
				lines = append(lines, s)
			}
		}
		for _, b := range e.Bullets {
			lines = append(lines, "• "+b)
		}
	}
	return strings.Join(lines, "\n")
}

func assembleText(r *types.Resume) string {
	var parts []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	add(r.Name)
	add(strings.Join([]string{r.Contact.Email, r.Contact.Phone, r.Contact.Location}, " "))
	add(r.Summary)
	add(strings.Join(r.Skills, ", "))
	add(experienceText(r.Experience))
	add(r.Education)
	add(r.Projects)
	add(r.Certifications)
	return strings.Join(parts, "\n")
}
