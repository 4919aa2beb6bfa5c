// Package optimizer composes the analyzer, rewriter, insertion engine and
// scorer into the résumé optimization pipeline.
package optimizer

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"resumeai/internal/analyzer"
	"resumeai/internal/errors"
	"resumeai/internal/insertion"
	"resumeai/internal/rewriter"
	"resumeai/internal/scoring"
	"resumeai/internal/taxonomy"
	"resumeai/internal/types"
	"resumeai/internal/utils"
)

const (
	minBulletLength     = 5
	maxInsertLength     = 160
	insertionCandidates = 12
	minDiffTermLength   = 3
	maxDiffTerms        = 15

	insufficientJD = "insufficient job description"
)

// Optimizer is immutable after construction and safe for concurrent use.
type Optimizer struct {
	tax      *taxonomy.Taxonomy
	analyzer *analyzer.Analyzer
	rewriter *rewriter.Rewriter
	inserter *insertion.Engine
	scorer   *scoring.Scorer
	picker   rewriter.Picker
}

// Option configures an Optimizer
type Option func(*Optimizer)

// WithPicker sets the random source used for verb and template choices.
func WithPicker(p rewriter.Picker) Option {
	return func(o *Optimizer) {
		if p != nil {
			o.picker = p
		}
	}
}

// New builds an optimizer over tax.
func New(tax *taxonomy.Taxonomy, opts ...Option) *Optimizer {
	o := &Optimizer{
		tax:      tax,
		analyzer: analyzer.New(tax),
		inserter: insertion.New(),
		scorer:   scoring.New(),
		picker:   rewriter.DefaultPicker(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.rewriter = rewriter.New(tax, o.picker)
	return o
}

// WithRandom returns a copy of o drawing from p. The compiled analyzer is
// shared. A nil p returns o itself.
func (o *Optimizer) WithRandom(p rewriter.Picker) *Optimizer {
	if p == nil {
		return o
	}
	clone := *o
	clone.picker = p
	clone.rewriter = rewriter.New(o.tax, p)
	return &clone
}

// Taxonomy returns the taxonomy the optimizer was built from.
func (o *Optimizer) Taxonomy() *taxonomy.Taxonomy { return o.tax }

// Analyze extracts the profile of a job description.
func (o *Optimizer) Analyze(jdText string) types.JDProfile {
	return o.analyzer.Analyze(jdText)
}

// Score rates resume against profile.
func (o *Optimizer) Score(resume types.Resume, profile types.JDProfile) types.ATSReport {
	return o.scorer.Score(resume, profile)
}

// RequireProfile rejects the empty profile produced for insufficient text.
func RequireProfile(profile types.JDProfile) error {
	if profile.IsEmpty() {
		return errors.NewValidationError(errors.ErrCodeJDTooShort,
			"insufficient job description: at least 50 characters are required", nil)
	}
	return nil
}

// Optimize rewrites resume towards profile and reports the score change.
// The input résumé is not modified.
func (o *Optimizer) Optimize(resume types.Resume, profile types.JDProfile) types.OptimizeResult {
	before := o.scorer.Score(resume, profile)

	summary := rewriteSummary(resume, profile, o.picker)
	skills := o.optimizeSkills(resume.Skills, profile)
	experience := o.optimizeExperience(resume.Experience, profile)

	optimized := types.Resume{
		Name:            resume.Name,
		Contact:         resume.Contact,
		Summary:         summary,
		Skills:          skills,
		Experience:      experience,
		ExperienceRaw:   resume.ExperienceRaw,
		Education:       resume.Education,
		Projects:        resume.Projects,
		Certifications:  resume.Certifications,
		RawSections:     maps.Clone(resume.RawSections),
		YearsExperience: resume.YearsExperience,
		SourceFormat:    resume.SourceFormat,
		JDTitle:         profile.JobTitle,
		Domain:          profile.Domain,
	}

	parts := []string{summary, strings.Join(skills, " ")}
	for _, entry := range experience {
		parts = append(parts, entry.Bullets...)
	}
	optimizedText := strings.ToLower(strings.Join(parts, " "))
	optimized.FullText = optimizedText + " " + resume.FullText

	after := o.scorer.Score(optimized, profile)

	terms := slices.Concat(profile.TechnicalSkills, profile.Keywords)
	diff := keywordDiff(resume.FullText, optimizedText, terms)

	return types.OptimizeResult{
		Optimized: optimized,
		ATS: types.ATSComparison{
			Before:    before.Total,
			After:     after.Total,
			Grade:     after.Grade,
			Breakdown: after.Breakdown,
		},
		KeywordsAdded:    diff.Added,
		KeywordsExisting: diff.AlreadyHad,
		JDAnalysis:       profile,
	}
}

// optimizeSkills keeps every résumé skill and adds JD skills whose primary
// category the candidate already covers.
func (o *Optimizer) optimizeSkills(resumeSkills []string, profile types.JDProfile) []string {
	covered := make(map[string]bool)
	lowered := make([]string, len(resumeSkills))
	for i, s := range resumeSkills {
		lowered[i] = strings.ToLower(s)
		for _, c := range o.tax.CategoriesOf(s) {
			covered[c] = true
		}
	}
	joined := strings.Join(lowered, " ")

	out := slices.Clone(resumeSkills)
	for _, s := range profile.TechnicalSkills {
		if strings.Contains(joined, strings.ToLower(s)) {
			continue
		}
		if c, ok := o.tax.PrimaryCategory(s); ok && covered[c] {
			out = append(out, s)
		}
	}
	return utils.DedupeFold(out)
}

func (o *Optimizer) optimizeExperience(entries []types.ExperienceEntry, profile types.JDProfile) []types.ExperienceEntry {
	candidates := profile.TechnicalSkills[:min(insertionCandidates, len(profile.TechnicalSkills))]
	tracker := insertion.NewTracker()

	out := make([]types.ExperienceEntry, 0, len(entries))
	for _, entry := range entries {
		bullets := make([]string, 0, len(entry.Bullets))
		for _, b := range entry.Bullets {
			if strings.TrimSpace(b) == "" {
				continue
			}
			bullets = append(bullets, o.enhanceBullet(b, candidates, tracker))
		}
		entry.Bullets = bullets
		out = append(out, entry)
	}
	return out
}

// enhanceBullet rewrites one bullet and inserts at most one unused JD skill.
// Insertion relevance is judged on the bullet before rewriting.
func (o *Optimizer) enhanceBullet(bullet string, candidates []string, tracker *insertion.Tracker) string {
	if utf8.RuneCountInString(bullet) < minBulletLength {
		return bullet
	}
	enhanced := o.rewriter.Rewrite(bullet)
	if utf8.RuneCountInString(enhanced) < maxInsertLength {
		enhanced = o.inserter.InsertFirst(enhanced, bullet, candidates, tracker)
	}
	return utils.UpperFirst(enhanced)
}

// keywordDiff splits terms found in the optimized text into those new to the
// résumé and those it already had.
func keywordDiff(beforeText, afterText string, terms []string) types.KeywordDiff {
	before := strings.ToLower(beforeText)
	after := strings.ToLower(afterText)

	diff := types.KeywordDiff{Added: []string{}, AlreadyHad: []string{}}
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		l := strings.ToLower(term)
		if seen[l] || utf8.RuneCountInString(l) < minDiffTermLength {
			continue
		}
		seen[l] = true
		if !strings.Contains(after, l) {
			continue
		}
		if strings.Contains(before, l) {
			diff.AlreadyHad = append(diff.AlreadyHad, term)
		} else {
			diff.Added = append(diff.Added, term)
		}
	}
	diff.Added = diff.Added[:min(len(diff.Added), maxDiffTerms)]
	diff.AlreadyHad = diff.AlreadyHad[:min(len(diff.AlreadyHad), maxDiffTerms)]
	return diff
}
