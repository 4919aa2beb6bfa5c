package formatters

import (
	"fmt"
	"slices"
	"strings"

	"resumeai/internal/types"
)

// ProfileTextFormatter renders a JD profile as plain text
type ProfileTextFormatter struct{}

func (f *ProfileTextFormatter) Format(data any) (string, error) {
	p, ok := data.(types.JDProfile)
	if !ok {
		return "", fmt.Errorf("expected JDProfile, got %T", data)
	}
	var out strings.Builder
	writeProfileText(&out, p)
	return out.String(), nil
}

func (f *ProfileTextFormatter) SupportedType() string { return "JDProfile" }

func writeProfileText(out *strings.Builder, p types.JDProfile) {
	out.WriteString("=== JOB DESCRIPTION ANALYSIS ===\n\n")
	fmt.Fprintf(out, "Title: %s\n", orNone(p.JobTitle))
	fmt.Fprintf(out, "Domain: %s\n", p.Domain)
	fmt.Fprintf(out, "Experience Level: %s\n\n", p.ExperienceLevel)

	writeTextList(out, "Technical Skills", p.TechnicalSkills)
	writeTextList(out, "Soft Skills", p.SoftSkills)
	writeTextList(out, "Keywords", p.Keywords)
	writeTextList(out, "Action Verbs", p.ActionVerbs)

	if len(p.SkillsByCategory) > 0 {
		out.WriteString("Skills by Category:\n")
		for _, cat := range sortedKeys(p.SkillsByCategory) {
			fmt.Fprintf(out, "  %s: %s\n", cat, strings.Join(p.SkillsByCategory[cat], ", "))
		}
		out.WriteString("\n")
	}
}

// ResumeTextFormatter renders a résumé as plain text
type ResumeTextFormatter struct{}

func (f *ResumeTextFormatter) Format(data any) (string, error) {
	r, ok := data.(types.Resume)
	if !ok {
		return "", fmt.Errorf("expected Resume, got %T", data)
	}
	var out strings.Builder
	writeResumeText(&out, r, "RESUME")
	return out.String(), nil
}

func (f *ResumeTextFormatter) SupportedType() string { return "Resume" }

func writeResumeText(out *strings.Builder, r types.Resume, title string) {
	fmt.Fprintf(out, "=== %s ===\n\n", title)
	if r.Name != "" {
		out.WriteString(r.Name + "\n")
	}
	if contact := contactLine(r.Contact); contact != "" {
		out.WriteString(contact + "\n")
	}
	fmt.Fprintf(out, "Years of Experience: %d\n\n", r.YearsExperience)

	if r.Summary != "" {
		out.WriteString("Summary:\n" + r.Summary + "\n\n")
	}
	if len(r.Skills) > 0 {
		out.WriteString("Skills:\n" + strings.Join(r.Skills, ", ") + "\n\n")
	}
	if len(r.Experience) > 0 {
		out.WriteString("Experience:\n")
		for _, e := range r.Experience {
			out.WriteString("  " + entryHeading(e) + "\n")
			for _, b := range e.Bullets {
				out.WriteString("    - " + b + "\n")
			}
		}
		out.WriteString("\n")
	}
	for _, s := range []struct{ title, body string }{
		{"Education", r.Education},
		{"Projects", r.Projects},
		{"Certifications", r.Certifications},
	} {
		if s.body != "" {
			fmt.Fprintf(out, "%s:\n%s\n\n", s.title, s.body)
		}
	}
}

// ReportTextFormatter renders an ATS report as plain text
type ReportTextFormatter struct{}

func (f *ReportTextFormatter) Format(data any) (string, error) {
	r, ok := data.(types.ATSReport)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}
	var out strings.Builder
	out.WriteString("=== ATS SCORE ===\n")
	fmt.Fprintf(&out, "Score: %d/100 (Grade %s)\n\n", r.Total, r.Grade)
	writeBreakdownText(&out, r.Breakdown)
	return out.String(), nil
}

func (f *ReportTextFormatter) SupportedType() string { return "ATSReport" }

func writeBreakdownText(out *strings.Builder, b types.ATSBreakdown) {
	for _, c := range categories(b) {
		fmt.Fprintf(out, "%s: %d/%d\n", c.title, c.score.Score, c.score.Max)
		if len(c.score.Matched) > 0 {
			fmt.Fprintf(out, "  Matched: %s\n", strings.Join(c.score.Matched, ", "))
		}
		if len(c.score.Missing) > 0 {
			fmt.Fprintf(out, "  Missing: %s\n", strings.Join(c.score.Missing, ", "))
		}
	}
	fmt.Fprintf(out, "Format: %d/%d\n", b.Format.Score, b.Format.Max)
}

// OptimizeTextFormatter renders an optimization result as plain text
type OptimizeTextFormatter struct{}

func (f *OptimizeTextFormatter) Format(data any) (string, error) {
	r, ok := data.(types.OptimizeResult)
	if !ok {
		return "", fmt.Errorf("expected OptimizeResult, got %T", data)
	}
	var out strings.Builder
	writeOptimizeText(&out, r)
	return out.String(), nil
}

func (f *OptimizeTextFormatter) SupportedType() string { return "OptimizeResult" }

func writeOptimizeText(out *strings.Builder, r types.OptimizeResult) {
	out.WriteString("=== ATS IMPROVEMENT ===\n")
	fmt.Fprintf(out, "Before: %d/100\n", r.ATS.Before)
	fmt.Fprintf(out, "After:  %d/100 (Grade %s)\n\n", r.ATS.After, r.ATS.Grade)
	writeBreakdownText(out, r.ATS.Breakdown)
	out.WriteString("\n")

	writeTextList(out, "Keywords Added", r.KeywordsAdded)
	writeTextList(out, "Keywords Already Present", r.KeywordsExisting)

	writeResumeText(out, r.Optimized, "OPTIMIZED RESUME")
}

// BatchTextFormatter renders batch optimization results as plain text
type BatchTextFormatter struct{}

func (f *BatchTextFormatter) Format(data any) (string, error) {
	b, ok := data.(types.BatchResult)
	if !ok {
		return "", fmt.Errorf("expected BatchResult, got %T", data)
	}
	var out strings.Builder
	for _, item := range b.Items {
		fmt.Fprintf(&out, "##### JOB DESCRIPTION %d #####\n", item.Index+1)
		if item.Result == nil {
			fmt.Fprintf(&out, "Error: %s\n\n", item.Error)
			continue
		}
		if item.Result.JDAnalysis.JobTitle != "" {
			fmt.Fprintf(&out, "Title: %s\n", item.Result.JDAnalysis.JobTitle)
		}
		writeOptimizeText(&out, *item.Result)
	}
	return out.String(), nil
}

func (f *BatchTextFormatter) SupportedType() string { return "BatchResult" }

func writeTextList(out *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n  %s\n\n", title, strings.Join(items, ", "))
}

type category struct {
	title string
	score *types.CategoryScore
}

// categories lists the scored categories in display order, skipping absent ones.
func categories(b types.ATSBreakdown) []category {
	var out []category
	for _, c := range []category{
		{"Technical Skills", b.TechnicalSkills},
		{"Keywords", b.Keywords},
		{"Soft Skills", b.SoftSkills},
	} {
		if c.score != nil {
			out = append(out, c)
		}
	}
	return out
}

func contactLine(c types.Contact) string {
	parts := slices.DeleteFunc(
		[]string{c.Email, c.Phone, c.Location, c.LinkedIn, c.GitHub},
		func(s string) bool { return s == "" })
	return strings.Join(parts, " | ")
}

func entryHeading(e types.ExperienceEntry) string {
	parts := slices.DeleteFunc(
		[]string{e.Role, e.Company, e.Dates},
		func(s string) bool { return s == "" })
	if len(parts) == 0 {
		return "(untitled position)"
	}
	return strings.Join(parts, " | ")
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func orNone(s string) string {
	if s == "" {
		return "(not detected)"
	}
	return s
}
