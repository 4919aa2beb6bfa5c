package formatters

import (
	"fmt"
	"strings"

	"resumeai/internal/types"
)

// ProfileMarkdownFormatter renders a JD profile as markdown
type ProfileMarkdownFormatter struct{}

func (f *ProfileMarkdownFormatter) Format(data any) (string, error) {
	p, ok := data.(types.JDProfile)
	if !ok {
		return "", fmt.Errorf("expected JDProfile, got %T", data)
	}
	var out strings.Builder
	out.WriteString("# Job Description Analysis\n\n")
	fmt.Fprintf(&out, "**Title:** %s  \n", orNone(p.JobTitle))
	fmt.Fprintf(&out, "**Domain:** %s  \n", p.Domain)
	fmt.Fprintf(&out, "**Experience Level:** %s\n\n", p.ExperienceLevel)

	writeMarkdownList(&out, "Technical Skills", p.TechnicalSkills)
	writeMarkdownList(&out, "Soft Skills", p.SoftSkills)
	writeMarkdownList(&out, "Keywords", p.Keywords)
	writeMarkdownList(&out, "Action Verbs", p.ActionVerbs)

	if len(p.SkillsByCategory) > 0 {
		out.WriteString("## Skills by Category\n\n")
		out.WriteString("| Category | Skills |\n|---|---|\n")
		for _, cat := range sortedKeys(p.SkillsByCategory) {
			fmt.Fprintf(&out, "| %s | %s |\n", cat, strings.Join(p.SkillsByCategory[cat], ", "))
		}
		out.WriteString("\n")
	}
	return out.String(), nil
}

func (f *ProfileMarkdownFormatter) SupportedType() string { return "JDProfile" }

// ResumeMarkdownFormatter renders a résumé as markdown
type ResumeMarkdownFormatter struct{}

func (f *ResumeMarkdownFormatter) Format(data any) (string, error) {
	r, ok := data.(types.Resume)
	if !ok {
		return "", fmt.Errorf("expected Resume, got %T", data)
	}
	var out strings.Builder
	writeResumeMarkdown(&out, r, "#")
	return out.String(), nil
}

func (f *ResumeMarkdownFormatter) SupportedType() string { return "Resume" }

// writeResumeMarkdown renders r with its title at heading level h.
func writeResumeMarkdown(out *strings.Builder, r types.Resume, h string) {
	name := r.Name
	if name == "" {
		name = "Resume"
	}
	fmt.Fprintf(out, "%s %s\n\n", h, name)
	if contact := contactLine(r.Contact); contact != "" {
		out.WriteString(contact + "\n\n")
	}

	sub := h + "#"
	if r.Summary != "" {
		fmt.Fprintf(out, "%s Summary\n\n%s\n\n", sub, r.Summary)
	}
	if len(r.Skills) > 0 {
		fmt.Fprintf(out, "%s Skills\n\n%s\n\n", sub, strings.Join(r.Skills, " · "))
	}
	if len(r.Experience) > 0 {
		fmt.Fprintf(out, "%s Experience\n\n", sub)
		for _, e := range r.Experience {
			fmt.Fprintf(out, "**%s**\n\n", entryHeading(e))
			for _, b := range e.Bullets {
				fmt.Fprintf(out, "- %s\n", b)
			}
			out.WriteString("\n")
		}
	}
	for _, s := range []struct{ title, body string }{
		{"Education", r.Education},
		{"Projects", r.Projects},
		{"Certifications", r.Certifications},
	} {
		if s.body != "" {
			fmt.Fprintf(out, "%s %s\n\n%s\n\n", sub, s.title, s.body)
		}
	}
}

// ReportMarkdownFormatter renders an ATS report as markdown
type ReportMarkdownFormatter struct{}

func (f *ReportMarkdownFormatter) Format(data any) (string, error) {
	r, ok := data.(types.ATSReport)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}
	var out strings.Builder
	out.WriteString("# ATS Score\n\n")
	fmt.Fprintf(&out, "**Score:** %d/100 (Grade %s)\n\n", r.Total, r.Grade)
	writeBreakdownMarkdown(&out, r.Breakdown)
	return out.String(), nil
}

func (f *ReportMarkdownFormatter) SupportedType() string { return "ATSReport" }

func writeBreakdownMarkdown(out *strings.Builder, b types.ATSBreakdown) {
	out.WriteString("| Category | Score | Matched | Missing |\n|---|---|---|---|\n")
	for _, c := range categories(b) {
		fmt.Fprintf(out, "| %s | %d/%d | %s | %s |\n", c.title, c.score.Score, c.score.Max,
			strings.Join(c.score.Matched, ", "), strings.Join(c.score.Missing, ", "))
	}
	fmt.Fprintf(out, "| Format | %d/%d | | |\n\n", b.Format.Score, b.Format.Max)
}

// OptimizeMarkdownFormatter renders an optimization result as markdown
type OptimizeMarkdownFormatter struct{}

func (f *OptimizeMarkdownFormatter) Format(data any) (string, error) {
	r, ok := data.(types.OptimizeResult)
	if !ok {
		return "", fmt.Errorf("expected OptimizeResult, got %T", data)
	}
	var out strings.Builder
	writeOptimizeMarkdown(&out, r, "#")
	return out.String(), nil
}

func (f *OptimizeMarkdownFormatter) SupportedType() string { return "OptimizeResult" }

func writeOptimizeMarkdown(out *strings.Builder, r types.OptimizeResult, h string) {
	fmt.Fprintf(out, "%s ATS Improvement\n\n", h)
	fmt.Fprintf(out, "**Before:** %d/100 → **After:** %d/100 (Grade %s)\n\n", r.ATS.Before, r.ATS.After, r.ATS.Grade)
	writeBreakdownMarkdown(out, r.ATS.Breakdown)

	writeMarkdownList(out, "Keywords Added", r.KeywordsAdded)
	writeMarkdownList(out, "Keywords Already Present", r.KeywordsExisting)

	writeResumeMarkdown(out, r.Optimized, h+"#")
}

// BatchMarkdownFormatter renders batch optimization results as markdown
type BatchMarkdownFormatter struct{}

func (f *BatchMarkdownFormatter) Format(data any) (string, error) {
	b, ok := data.(types.BatchResult)
	if !ok {
		return "", fmt.Errorf("expected BatchResult, got %T", data)
	}
	var out strings.Builder
	out.WriteString("# Batch Optimization\n\n")
	for _, item := range b.Items {
		title := fmt.Sprintf("Job Description %d", item.Index+1)
		if item.Result != nil && item.Result.JDAnalysis.JobTitle != "" {
			title += ": " + item.Result.JDAnalysis.JobTitle
		}
		fmt.Fprintf(&out, "## %s\n\n", title)
		if item.Result == nil {
			fmt.Fprintf(&out, "> **Error:** %s\n\n", item.Error)
			continue
		}
		writeOptimizeMarkdown(&out, *item.Result, "###")
	}
	return out.String(), nil
}

func (f *BatchMarkdownFormatter) SupportedType() string { return "BatchResult" }

func writeMarkdownList(out *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "- %s\n", item)
	}
	out.WriteString("\n")
}
