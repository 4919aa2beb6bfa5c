package optimizer

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"resumeai/internal/rewriter"
	"resumeai/internal/types"
	"resumeai/internal/utils"
)

const (
	maxSummarySkills      = 5
	fallbackSummarySkills = 3
	maxAchievementLength  = 120
	defaultSoftAdjective  = "Results-driven"
	defaultTemplateDomain = "Software Engineering"
)

var summaryTemplates = map[string][]string{
	"Software Engineering": {
		"{soft} software engineer {exp} specializing in {skills}. " +
			"Proven track record of designing and delivering scalable, high-performance systems " +
			"that align with business objectives. Expertise in full-stack development, " +
			"cross-functional collaboration, and engineering best practices.",
		"Accomplished {domain} professional {exp} in {skills}. " +
			"Demonstrated ability to architect and implement robust solutions across the SDLC, " +
			"from requirements gathering to production deployment. " +
			"Recognized for clean code practices, proactive problem-solving, " +
			"and delivering measurable impact in agile environments.",
	},
	"Data Science/ML": {
		"{soft} data professional {exp} specializing in {skills}. " +
			"Proven ability to transform complex datasets into actionable insights " +
			"and production-ready machine learning models. " +
			"Experienced in building data pipelines, statistical modeling, and A/B testing.",
	},
	"DevOps/Cloud": {
		"{soft} DevOps/Cloud engineer {exp} with expertise in {skills}. " +
			"Proven record of building and maintaining reliable, scalable infrastructure " +
			"using infrastructure-as-code and CI/CD best practices. " +
			"Committed to improving deployment velocity and system observability.",
	},
}

var (
	capitalizedSkills = []string{"python", "react", "docker", "kubernetes", "ansible", "javascript", "typescript"}
	upperSkills       = []string{"aws", "api", "sql", "html", "css", "git", "ci/cd", "gcp"}

	quantified = regexp.MustCompile(`(?i)\d+%|\$[\d,]+|\d+x|\b\d{2,}\b`)
)

// experiencePhrase renders the years claim for a seniority level.
func experiencePhrase(level string, years int) string {
	switch level {
	case types.LevelJunior:
		y := max(years, 1)
		unit := "years"
		if y == 1 {
			unit = "year"
		}
		return fmt.Sprintf("with %d+ %s of hands-on experience", y, unit)
	case types.LevelSenior:
		return fmt.Sprintf("with %d+ years of deep technical expertise", max(years, 4))
	case types.LevelStaff:
		return fmt.Sprintf("with %d+ years of industry-leading expertise", max(years, 6))
	case types.LevelExecutive:
		return fmt.Sprintf("with %d+ years of strategic leadership experience", max(years, 8))
	default:
		return fmt.Sprintf("with %d+ years of professional experience", max(years, 2))
	}
}

// displaySkill prefers the résumé's own spelling of skill.
func displaySkill(skill string, resumeSkills []string) string {
	for _, s := range resumeSkills {
		if strings.EqualFold(s, skill) {
			return s
		}
	}
	lower := strings.ToLower(skill)
	switch {
	case slices.Contains(capitalizedSkills, lower):
		return utils.Capitalize(skill)
	case slices.Contains(upperSkills, lower):
		return strings.ToUpper(skill)
	case len(skill) > 4:
		return utils.TitleWords(skill)
	default:
		return strings.ToUpper(skill)
	}
}

// summarySkills lists JD skills the résumé already shows, falling back to
// the top JD skills when there is no overlap.
func summarySkills(resume types.Resume, profile types.JDProfile) []string {
	text := strings.ToLower(resume.FullText)
	lowered := make([]string, len(resume.Skills))
	for i, s := range resume.Skills {
		lowered[i] = strings.ToLower(s)
	}
	joined := strings.Join(lowered, " ")

	var matching []string
	for _, s := range profile.TechnicalSkills {
		if len(matching) == maxSummarySkills {
			break
		}
		l := strings.ToLower(s)
		if strings.Contains(text, l) || strings.Contains(joined, l) {
			matching = append(matching, s)
		}
	}
	if len(matching) == 0 {
		matching = profile.TechnicalSkills[:min(fallbackSummarySkills, len(profile.TechnicalSkills))]
	}

	display := make([]string, len(matching))
	for i, s := range matching {
		display[i] = displaySkill(s, resume.Skills)
	}
	return display
}

// bestAchievement returns the first bullet carrying a metric.
func bestAchievement(experience []types.ExperienceEntry) string {
	for _, entry := range experience {
		for _, b := range entry.Bullets {
			if quantified.MatchString(b) {
				return utils.TruncateRunes(b, maxAchievementLength)
			}
		}
	}
	return ""
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// rewriteSummary builds a domain-specific professional summary that only
// claims skills the résumé supports.
func rewriteSummary(resume types.Resume, profile types.JDProfile, picker rewriter.Picker) string {
	years := max(resume.YearsExperience, 0)
	domain := profile.Domain
	if domain == "" {
		domain = types.DefaultDomain
	}

	skillsText := domain
	if skills := summarySkills(resume, profile); len(skills) > 0 {
		skillsText = utils.JoinList(skills)
	}

	soft := defaultSoftAdjective
	if len(profile.SoftSkills) > 0 {
		soft = utils.Capitalize(profile.SoftSkills[0])
	}

	templates, ok := summaryTemplates[domain]
	if !ok {
		templates = summaryTemplates[defaultTemplateDomain]
	}
	summary := strings.NewReplacer(
		"{soft}", soft,
		"{domain}", domain,
		"{exp}", experiencePhrase(profile.ExperienceLevel, years),
		"{skills}", skillsText,
	).Replace(rewriter.Choose(picker, templates))

	if ach := bestAchievement(resume.Experience); ach != "" {
		clean := strings.TrimRight(strings.TrimSpace(ach), ".")
		if hasDigit(clean) {
			summary = strings.TrimRight(summary, ".") + ". Notable achievement: " + clean + "."
		}
	}
	return strings.TrimSpace(summary)
}
