package rewriter

import (
	"regexp"
	"strings"
)

// pastTense maps a leading gerund to the past-tense verb that replaces it.
var pastTense = map[string]string{
	"building": "Built", "developing": "Developed", "designing": "Designed",
	"implementing": "Implemented", "creating": "Created", "leading": "Led",
	"managing": "Managed", "delivering": "Delivered", "architecting": "Architected",
	"optimizing": "Optimized", "maintaining": "Maintained", "deploying": "Deployed",
	"analyzing": "Analyzed", "improving": "Improved", "establishing": "Established",
	"driving": "Drove", "collaborating": "Collaborated", "coordinating": "Coordinated",
	"mentoring": "Mentored", "reviewing": "Reviewed", "monitoring": "Monitored",
	"automating": "Automated", "integrating": "Integrated", "migrating": "Migrated",
	"launching": "Launched", "scaling": "Scaled", "supporting": "Supported",
	"writing": "Wrote", "testing": "Tested", "debugging": "Debugged",
	"configuring": "Configured", "setting": "Set up", "working": "Worked on",
	"ensuring": "Ensured", "overseeing": "Oversaw", "handling": "Handled",
}

func pastTenseOr(gerund, fallback string) string {
	if v, ok := pastTense[strings.ToLower(gerund)]; ok {
		return v
	}
	return fallback
}

// Rule rewrites a sentence whose start matches Pattern. Matching is
// case-insensitive and captured groups keep their original casing.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Build   func(groups []string) string
}

func rule(name, pattern string, build func(g []string) string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(`(?i)` + pattern), Build: build}
}

func prefixed(verb string, group int) func(g []string) string {
	return func(g []string) string { return verb + " " + g[group] }
}

// More specific rules come before the catch-alls that would shadow them.
var defaultRules = []Rule{
	rule("responsible-gerund", `^was\s+responsible\s+for\s+(\w+ing)\s+(.+)`, func(g []string) string {
		return pastTenseOr(g[1], "Managed") + " " + g[2]
	}),
	rule("was-responsible", `^was\s+responsible\s+for\s+(.+)`, prefixed("Managed", 1)),
	rule("responsible-build", `^responsible\s+for\s+(building|developing|creating|designing|implementing|maintaining|managing|leading)\s+(.+)`, func(g []string) string {
		return pastTenseOr(g[1], "Developed") + " " + g[2]
	}),
	rule("responsible", `^responsible\s+for\s+(.+)`, prefixed("Managed", 1)),
	rule("worked-on-gerund", `^worked\s+on\s+(developing|building|creating|designing|implementing)\s+(.+)`, func(g []string) string {
		return pastTenseOr(g[1], "Developed") + " " + g[2]
	}),
	rule("worked-on-noun", `^worked\s+on\s+(.+?)\s+(development|implementation|testing)(.*)$`, func(g []string) string {
		return "Developed " + g[1] + g[3]
	}),
	rule("worked-on", `^worked\s+on\s+(.+)`, prefixed("Developed", 1)),
	rule("involved-in", `^was\s+involved\s+in\s+(.+)`, prefixed("Contributed to", 1)),
	rule("part-of", `^was\s+part\s+of\s+(.+)`, prefixed("Served as integral member of", 1)),
	rule("was", `^was\s+(.+)`, prefixed("Operated as", 1)),
	rule("helped-with", `^helped\s+with\s+(.+)`, prefixed("Enhanced", 1)),
	rule("helped-to", `^helped\s+to\s+(.+)`, prefixed("Supported", 1)),
	rule("assisted-in", `^assisted\s+in\s+(.+)`, prefixed("Collaborated on", 1)),
	rule("did", `^did\s+(.+)`, prefixed("Executed", 1)),
	rule("participated-in", `^participated\s+in\s+(.+)`, prefixed("Actively contributed to", 1)),
	rule("made-system", `^made\s+(.+?)\s+(api|apis|service|services|system|systems|pipeline)(.*)$`, func(g []string) string {
		return "Engineered " + g[1] + " " + g[2] + g[3]
	}),
	rule("made", `^made\s+(.+)`, prefixed("Developed", 1)),
	rule("used-for", `^used\s+(.+?)\s+for\s+(.+)`, func(g []string) string {
		return "Leveraged " + g[1] + " for " + g[2]
	}),
	rule("used", `^used\s+(.+)`, prefixed("Utilized", 1)),
	rule("tried-to", `^tried\s+to\s+(.+)`, prefixed("Successfully", 1)),
}

// DefaultRules returns a copy of the built-in rule table in evaluation order.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}
