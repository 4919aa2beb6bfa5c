package resume

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Section names recognised in a résumé
const (
	SectionSummary        = "summary"
	SectionSkills         = "skills"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
	SectionPublications   = "publications"
	SectionLanguages      = "languages"
)

type sectionAliases struct {
	name    string
	aliases []string
}

// Aliases are matched in order against the normalised header line, so the
// first section listing a header wins.
var sectionTable = []sectionAliases{
	{SectionSummary, []string{
		`(?:professional\s+)?summary`, "objective", "profile",
		"about me", "career objective", "professional profile",
		"executive summary", "overview",
	}},
	{SectionSkills, []string{
		"skills", "technical skills", "core competencies", "expertise",
		"competencies", "technologies", "tech stack", "tools",
		"key skills", "technical expertise", "areas of expertise",
	}},
	{SectionExperience, []string{
		"experience", "work experience", "professional experience",
		"employment history", "work history", "career history",
		"professional background", "employment",
	}},
	{SectionEducation, []string{
		"education", "academic background", "educational background",
		"qualifications", "academic qualifications", "degrees",
	}},
	{SectionProjects, []string{
		"projects", "personal projects", "key projects",
		"project experience", "notable projects", "portfolio",
	}},
	{SectionCertifications, []string{
		"certifications", "certificates", "licenses", "credentials",
		"professional certifications", "awards", "achievements",
	}},
	{SectionPublications, []string{
		"publications", "papers", "research", "articles", "patents",
	}},
	{SectionLanguages, []string{
		"languages", "language skills",
	}},
}

type headerMatcher struct {
	section string
	pattern *regexp.Regexp
}

var (
	headerMatchers = compileHeaders()
	nonLetters     = regexp.MustCompile(`[^a-z\s]`)
)

func compileHeaders() []headerMatcher {
	var out []headerMatcher
	for _, s := range sectionTable {
		for _, alias := range s.aliases {
			out = append(out, headerMatcher{
				section: s.name,
				pattern: regexp.MustCompile(`^` + alias + `\s*$`),
			})
		}
	}
	return out
}

// detectSection maps a header line to its section name, or "".
func detectSection(line string) string {
	clean := strings.ToLower(strings.TrimSpace(line))
	clean = strings.TrimSpace(nonLetters.ReplaceAllString(clean, ""))
	for _, m := range headerMatchers {
		if m.pattern.MatchString(clean) {
			return m.section
		}
	}
	return ""
}

// isUpper reports whether s has at least one cased letter and no lowercase ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// isLikelyHeader accepts short all-caps lines, and short title-case lines
// that name a known section.
func isLikelyHeader(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	n := utf8.RuneCountInString(line)
	if isUpper(line) && n > 2 && n < 60 {
		return true
	}
	if startsUpper(line) && n < 50 && !strings.HasSuffix(line, ".") {
		for _, w := range strings.Fields(line) {
			if !startsUpper(w) {
				return false
			}
		}
		return detectSection(line) != ""
	}
	return false
}
