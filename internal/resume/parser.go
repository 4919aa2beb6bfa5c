// Package resume turns plain résumé text into the structured Resume record.
package resume

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"resumeai/internal/types"
	"resumeai/internal/utils"
)

const (
	defaultYears     = types.DefaultYearsExperience
	earliestCareer   = 1990
	nameScanLines    = 5
	maxHeadingLength = 100
	headingTrim      = " \t|,-–—·"
	bulletGlyphs     = "•-–●*·▪"
)

var nonNameMarkers = []string{"@", "http", "www", "+", "("}

const month = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec|January|February|March|` +
	`April|June|July|August|September|October|November|December)\.?\s+`

var (
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`(?:\+?1[-.\s]?)?(?:\(?\d{3}\)?[-.\s]?)?\d{3}[-.\s]?\d{4}`)
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	githubPattern   = regexp.MustCompile(`(?i)github\.com/[\w-]+`)
	locationPattern = regexp.MustCompile(`(?m)(?:^|\n)([A-Z][a-zA-Z\s]+,\s*[A-Z]{2}(?:\s+\d{5})?)`)

	yearPattern       = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	explicitYears     = regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(?:of\s+)?(?:experience|exp)`)
	skillSeparators   = regexp.MustCompile(`[,|•\n\t]+`)
	headingSeparators = regexp.MustCompile(`\s*(?:\||—|–|\s-\s|,)\s*`)
	bulletPrefix      = regexp.MustCompile(`^[•\-–●*·▪]\s*`)

	// A full range is tried before a lone month and year.
	datePattern = regexp.MustCompile(`(?i)(?:` + month + `)?\d{4}\s*[-–—]\s*(?:` + month + `)?(?:\d{4}|present|current|now)\b|` +
		month + `\d{4}`)
)

// Parser extracts résumé structure from text. The zero value is not usable;
// build one with New.
type Parser struct {
	now func() time.Time
}

// Option configures a Parser
type Option func(*Parser)

// WithClock sets the clock used to date open-ended experience.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a parser using the wall clock unless overridden.
func New(opts ...Option) *Parser {
	p := &Parser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Parse parses text with the default parser.
func Parse(text string) types.Resume {
	return defaultParser.Parse(text)
}

// Parse splits text into sections and extracts contact details, skills,
// experience entries and an estimate of total years of experience.
func (p *Parser) Parse(text string) types.Resume {
	lines := strings.Split(text, "\n")
	raw := splitSections(lines)

	r := types.Resume{
		Name:            extractName(lines),
		Contact:         extractContact(text),
		Skills:          []string{},
		Experience:      []types.ExperienceEntry{},
		RawSections:     raw,
		FullText:        text,
		YearsExperience: p.yearsOfExperience(text),
	}

	if s, ok := raw[SectionSummary]; ok {
		r.Summary = strings.TrimSpace(s)
	}
	if s, ok := raw[SectionSkills]; ok {
		r.Skills = splitSkills(s)
	}
	if s, ok := raw[SectionExperience]; ok {
		r.ExperienceRaw = s
		r.Experience = parseExperience(s)
	}
	r.Education = strings.TrimSpace(raw[SectionEducation])
	r.Projects = strings.TrimSpace(raw[SectionProjects])
	r.Certifications = strings.TrimSpace(raw[SectionCertifications])
	return r
}

var capitalsAllowed = map[string]bool{
	SectionSkills:     true,
	SectionExperience: true,
	SectionProjects:   true,
}

// splitSections groups non-empty lines under the most recent known header.
// A header-like line naming no known section is content inside skills,
// experience and projects, where acronyms and employer names are often set
// in capitals; elsewhere it ends the running section. Repeated sections are
// appended.
func splitSections(lines []string) map[string]string {
	sections := make(map[string]string)
	current := ""
	var content []string

	flush := func() {
		if current == "" || len(content) == 0 {
			return
		}
		joined := strings.Join(content, "\n")
		if prev, ok := sections[current]; ok {
			joined = prev + "\n" + joined
		}
		sections[current] = joined
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if detected := detectSection(line); detected != "" {
			flush()
			current, content = detected, nil
			continue
		}
		if isLikelyHeader(line) && !capitalsAllowed[current] {
			flush()
			current, content = "", nil
			continue
		}
		content = append(content, line)
	}
	flush()
	return sections
}

func extractName(lines []string) string {
	for _, line := range lines[:min(nameScanLines, len(lines))] {
		line = strings.TrimSpace(line)
		if line == "" || containsAny(line, nonNameMarkers) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		if allCapitalised(words) {
			return line
		}
	}
	return ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// allCapitalised ignores words that do not start with a letter.
func allCapitalised(words []string) bool {
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func extractContact(text string) types.Contact {
	var c types.Contact
	c.Email = emailPattern.FindString(text)
	c.Phone = phonePattern.FindString(text)
	c.LinkedIn = linkedinPattern.FindString(text)
	c.GitHub = githubPattern.FindString(text)
	if m := locationPattern.FindStringSubmatch(text); m != nil {
		c.Location = strings.TrimSpace(m[1])
	}
	return c
}

// yearsOfExperience prefers the span from the earliest plausible year to
// now, then an explicit "N years experience" claim.
func (p *Parser) yearsOfExperience(text string) int {
	current := p.now().Year()

	found := yearPattern.FindAllString(text, -1)
	if len(found) >= 2 {
		earliest := 0
		for _, s := range found {
			y, err := strconv.Atoi(s)
			if err != nil || y < earliestCareer || y > current {
				continue
			}
			if earliest == 0 || y < earliest {
				earliest = y
			}
		}
		if earliest != 0 {
			return current - earliest
		}
	}

	if m := explicitYears.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return defaultYears
}

func splitSkills(text string) []string {
	out := []string{}
	for _, s := range skillSeparators.Split(text, -1) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) > 1 {
			out = append(out, s)
		}
	}
	return out
}

func isBullet(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return strings.ContainsRune(bulletGlyphs, r)
}

// parseExperience starts a new entry at every dated line. Text beside the
// dates and plain lines seen since the previous entry's bullets name the
// company and role; glyph-prefixed lines are bullets of the open entry.
func parseExperience(text string) []types.ExperienceEntry {
	entries := []types.ExperienceEntry{}
	var (
		current *types.ExperienceEntry
		pending []string
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if loc := datePattern.FindStringIndex(line); loc != nil {
			if current != nil {
				entries = append(entries, *current)
			}
			current = &types.ExperienceEntry{Raw: line, Dates: line[loc[0]:loc[1]], Bullets: []string{}}
			heading := strings.Trim(line[:loc[0]]+" "+line[loc[1]:], headingTrim)
			for _, part := range headingSeparators.Split(heading, -1) {
				if part = strings.Trim(part, headingTrim); part != "" {
					fillHeading(current, part)
				}
			}
			for _, l := range pending {
				fillHeading(current, l)
			}
			pending = nil
			continue
		}
		if isBullet(line) {
			if current == nil {
				continue
			}
			if b := strings.TrimSpace(bulletPrefix.ReplaceAllString(line, "")); b != "" {
				current.Bullets = append(current.Bullets, b)
			}
			continue
		}
		if current != nil && len(current.Bullets) == 0 && (current.Company == "" || current.Role == "") {
			fillHeading(current, line)
			continue
		}
		pending = append(pending, line)
	}
	if current != nil {
		entries = append(entries, *current)
	}
	return entries
}

// fillHeading assigns text to the first empty of company and role.
func fillHeading(e *types.ExperienceEntry, text string) {
	text = utils.TruncateRunes(text, maxHeadingLength)
	switch {
	case e.Company == "":
		e.Company = text
	case e.Role == "":
		e.Role = text
	}
}
