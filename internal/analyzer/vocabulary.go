package analyzer

import "resumeai/internal/types"

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true, "in": true,
	"on": true, "at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
	"from": true, "as": true, "is": true, "was": true, "are": true, "were": true, "be": true,
	"been": true, "being": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "must": true, "shall": true, "can": true, "our": true,
	"your": true, "their": true, "its": true, "we": true, "you": true, "they": true,
	"he": true, "she": true, "it": true, "this": true, "that": true, "these": true,
	"those": true, "i": true, "me": true, "my": true, "us": true, "him": true, "her": true,
	"who": true, "what": true, "which": true, "when": true, "where": true, "how": true,
	"why": true, "all": true, "any": true, "both": true, "each": true, "few": true,
	"more": true, "most": true, "other": true, "some": true, "such": true, "no": true,
	"not": true, "only": true, "own": true, "same": true, "than": true, "too": true,
	"very": true, "just": true, "about": true, "above": true, "after": true,
	"against": true, "also": true, "between": true, "during": true, "into": true,
	"through": true, "while": true, "within": true, "without": true, "including": true,
	"across": true,
}

type levelKeywords struct {
	level    string
	keywords []string
}

// Checked in order; the first set with a substring hit decides the level.
var levelTable = []levelKeywords{
	{types.LevelJunior, []string{
		"entry level", "entry-level", "junior", "0-1 year", "0-2 year",
		"fresh graduate", "recent graduate", "new grad", "trainee", "intern",
	}},
	{types.LevelMid, []string{
		"mid level", "mid-level", "2-4 year", "2-5 year", "3-5 year",
		"associate", "intermediate",
	}},
	{types.LevelSenior, []string{
		"senior", "sr.", "lead", "5+ year", "5-7 year", "7+ year",
		"principal", "staff", "expert", "advanced",
	}},
	{types.LevelExecutive, []string{
		"director", "vp", "vice president", "cto", "ceo", "head of",
		"chief", "executive", "c-level", "manager",
	}},
}

// Common JD verbs appended after the strong verb pools.
var jdVerbs = []string{
	"design", "develop", "build", "create", "implement", "deploy",
	"manage", "lead", "collaborate", "analyze", "optimize", "maintain",
	"architect", "establish", "drive", "deliver", "scale", "improve",
	"integrate", "automate", "monitor", "troubleshoot", "review",
}

type domainKeywords struct {
	domain   string
	keywords []string
}

// Table order breaks ties between equally scored domains.
var domainTable = []domainKeywords{
	{"Software Engineering", []string{
		"software engineer", "software developer", "backend", "frontend",
		"full stack", "fullstack", "web developer", "api", "microservices",
	}},
	{"Data Science/ML", []string{
		"data scientist", "machine learning", "deep learning", "ml engineer",
		"ai engineer", "data engineer", "analytics",
	}},
	{"DevOps/Cloud", []string{
		"devops", "cloud", "infrastructure", "kubernetes", "ci/cd",
		"site reliability", "sre", "platform engineer",
	}},
	{"Product Management", []string{
		"product manager", "product owner", "roadmap", "go-to-market",
		"stakeholder", "product strategy",
	}},
	{"Cybersecurity", []string{"security", "cybersecurity", "penetration", "compliance", "soc", "siem"}},
	{"Finance/Fintech", []string{"financial", "banking", "fintech", "trading", "risk", "compliance"}},
	{"Design/UX", []string{"ux", "ui", "design", "figma", "user research", "product design"}},
	{"Marketing", []string{"marketing", "seo", "growth", "campaigns", "analytics", "brand"}},
	{"Data Engineering", []string{"data pipeline", "etl", "data warehouse", "spark", "airflow", "kafka"}},
}
