// Package analyzer turns free job description text into a structured profile
// of skills, keywords, seniority and domain.
package analyzer

import (
	"regexp"
	"strings"

	"resumeai/internal/taxonomy"
	"resumeai/internal/types"
	"resumeai/internal/utils"
)

const (
	// MinTextLength is the shortest trimmed JD that is analyzed at all
	MinTextLength = 50

	maxTechnicalSkills = 30
	maxSoftSkills      = 10
	maxActionVerbs     = 20
)

type skillMatcher struct {
	skill string
	re    *regexp.Regexp
}

type categoryMatcher struct {
	name   string
	skills []skillMatcher
}

type verbMatcher struct {
	display string
	re      *regexp.Regexp
}

// Analyzer extracts JD profiles. It is immutable and safe for concurrent use.
type Analyzer struct {
	softCategory string
	categories   []categoryMatcher
	softSkills   []skillMatcher
	verbs        []verbMatcher
}

// New compiles the matchers for tax.
func New(tax *taxonomy.Taxonomy) *Analyzer {
	a := &Analyzer{softCategory: tax.SoftSkillsCategory()}

	for _, c := range tax.Categories() {
		cm := categoryMatcher{name: c.Name}
		for _, s := range c.Skills {
			cm.skills = append(cm.skills, skillMatcher{skill: s, re: utils.WholeWord(strings.ToLower(s))})
		}
		a.categories = append(a.categories, cm)
		if c.Name == a.softCategory {
			a.softSkills = cm.skills
		}
	}

	var vocabulary []string
	for _, pool := range tax.VerbPools() {
		for _, v := range pool.Verbs {
			vocabulary = append(vocabulary, strings.ToLower(v))
		}
	}
	vocabulary = append(vocabulary, jdVerbs...)
	for _, v := range utils.DedupeFold(vocabulary) {
		a.verbs = append(a.verbs, verbMatcher{display: utils.Capitalize(v), re: utils.WholeWord(v)})
	}
	return a
}

// Analyze builds the profile of text. Text shorter than MinTextLength after
// trimming yields the empty profile.
func (a *Analyzer) Analyze(text string) types.JDProfile {
	if len(strings.TrimSpace(text)) < MinTextLength {
		return types.JDProfile{}
	}
	lower := strings.ToLower(text)

	byCategory := a.skillsByCategory(lower)
	var technical []string
	for _, c := range a.categories {
		if c.name == a.softCategory {
			continue
		}
		technical = append(technical, byCategory[c.name]...)
	}
	technical = utils.DedupeFold(technical)
	if len(technical) > maxTechnicalSkills {
		technical = technical[:maxTechnicalSkills]
	}

	return types.JDProfile{
		JobTitle:         jobTitle(text),
		Domain:           detectDomain(lower),
		ExperienceLevel:  experienceLevel(text),
		TechnicalSkills:  technical,
		SoftSkills:       a.softSkillsIn(lower),
		Keywords:         topKeywords(text, keywordCount),
		ActionVerbs:      a.actionVerbs(lower),
		SkillsByCategory: byCategory,
		Sections:         splitSections(text),
		RawText:          text,
	}
}

func (a *Analyzer) skillsByCategory(lower string) map[string][]string {
	found := make(map[string][]string)
	for _, c := range a.categories {
		var matched []string
		for _, s := range c.skills {
			if s.re.MatchString(lower) {
				matched = append(matched, s.skill)
			}
		}
		if len(matched) > 0 {
			found[c.name] = matched
		}
	}
	return found
}

func (a *Analyzer) softSkillsIn(lower string) []string {
	found := make([]string, 0, maxSoftSkills)
	for _, s := range a.softSkills {
		if len(found) == maxSoftSkills {
			break
		}
		if s.re.MatchString(lower) {
			found = append(found, s.skill)
		}
	}
	return utils.DedupeFold(found)
}

func (a *Analyzer) actionVerbs(lower string) []string {
	found := make([]string, 0, maxActionVerbs)
	for _, v := range a.verbs {
		if len(found) == maxActionVerbs {
			break
		}
		if v.re.MatchString(lower) {
			found = append(found, v.display)
		}
	}
	return found
}

// detectDomain returns the domain with the most substring hits. Ties go to the
// earlier table entry.
func detectDomain(lower string) string {
	best, bestScore := types.DefaultDomain, 0
	for _, d := range domainTable {
		score := 0
		for _, kw := range d.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = d.domain, score
		}
	}
	return best
}
