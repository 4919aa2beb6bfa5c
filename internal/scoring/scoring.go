// Package scoring computes the ATS compatibility score of a résumé against
// a job profile.
package scoring

import (
	"strings"

	"resumeai/internal/types"
)

// Category maxima. They are not renormalised when a category is absent.
const (
	TechnicalMax = 40
	KeywordsMax  = 30
	SoftMax      = 15
	FormatMax    = 15

	MinTotal = 15
	MaxTotal = 100

	keywordListCap   = 10
	pointsPerSection = 3
	sectionPointsCap = 12
	emailPoints      = 3
)

// Sections that count towards the format score when present.
var formatSections = []string{"experience", "education", "skills", "summary"}

// Grade maps a total score to a letter grade.
func Grade(total int) string {
	switch {
	case total >= 85:
		return "A"
	case total >= 70:
		return "B"
	case total >= 55:
		return "C"
	default:
		return "D"
	}
}

// Scorer is stateless and safe for concurrent use.
type Scorer struct{}

// New returns a scorer
func New() *Scorer { return &Scorer{} }

// Score rates resume against profile. Skills and keywords are matched as
// case-insensitive substrings of the résumé's full text.
func (s *Scorer) Score(resume types.Resume, profile types.JDProfile) types.ATSReport {
	text := strings.ToLower(resume.FullText)
	var breakdown types.ATSBreakdown
	total := 0

	if len(profile.TechnicalSkills) > 0 {
		breakdown.TechnicalSkills = category(text, profile.TechnicalSkills, TechnicalMax, 0)
		total += breakdown.TechnicalSkills.Score
	}
	if len(profile.Keywords) > 0 {
		breakdown.Keywords = category(text, profile.Keywords, KeywordsMax, keywordListCap)
		total += breakdown.Keywords.Score
	}
	if len(profile.SoftSkills) > 0 {
		breakdown.SoftSkills = category(text, profile.SoftSkills, SoftMax, 0)
		total += breakdown.SoftSkills.Score
	}

	breakdown.Format = formatScore(resume)
	total += breakdown.Format.Score

	total = min(max(total, MinTotal), MaxTotal)
	return types.ATSReport{
		Total:     total,
		Grade:     Grade(total),
		Breakdown: breakdown,
	}
}

// category scores floor(matched/len(terms) × maxPoints). listCap > 0 limits
// the reported matched and missing lists.
func category(text string, terms []string, maxPoints, listCap int) *types.CategoryScore {
	matched := make([]string, 0, len(terms))
	missing := make([]string, 0, len(terms))
	for _, term := range terms {
		t := strings.ToLower(term)
		if strings.Contains(text, t) {
			matched = append(matched, t)
		} else {
			missing = append(missing, t)
		}
	}
	score := len(matched) * maxPoints / len(terms)

	if listCap > 0 {
		matched = matched[:min(len(matched), listCap)]
		missing = missing[:min(len(missing), listCap)]
	}
	return &types.CategoryScore{Score: score, Max: maxPoints, Matched: matched, Missing: missing}
}

func formatScore(resume types.Resume) types.FormatScore {
	present := 0
	for _, name := range formatSections {
		if _, ok := resume.RawSections[name]; ok {
			present++
		}
	}
	score := min(present*pointsPerSection, sectionPointsCap)
	if resume.Contact.Email != "" {
		score += emailPoints
	}
	return types.FormatScore{Score: score, Max: FormatMax}
}
