package analyzer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"resumeai/internal/types"
)

type yearPattern struct {
	re    *regexp.Regexp
	group int
}

// Tried in order against lowercased text; group selects the year count.
var yearPatterns = []yearPattern{
	{regexp.MustCompile(`(\d+)\+?\s*(?:to|-)\s*(\d+)\s*years?`), 2},
	{regexp.MustCompile(`(\d+)\+\s*years?`), 1},
	{regexp.MustCompile(`minimum\s+(\d+)\s+years?`), 1},
	{regexp.MustCompile(`at\s+least\s+(\d+)\s+years?`), 1},
}

func levelForYears(years int) string {
	switch {
	case years <= 2:
		return types.LevelJunior
	case years <= 5:
		return types.LevelMid
	case years <= 8:
		return types.LevelSenior
	default:
		return types.LevelStaff
	}
}

// experienceLevel detects the seniority a JD asks for.
func experienceLevel(text string) string {
	lower := strings.ToLower(text)

	for _, p := range yearPatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		years, err := strconv.Atoi(m[p.group])
		if err != nil {
			years = math.MaxInt
		}
		return levelForYears(years)
	}

	for _, set := range levelTable {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.level
			}
		}
	}
	return types.LevelMid
}
