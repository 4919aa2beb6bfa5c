package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"resumeai/internal/types"
	"resumeai/internal/utils"
)

const (
	maxSectionLength = 2000
	maxTitleLength   = 60
	maxFirstLineLen  = 80
)

var (
	responsibilitiesHeader = regexp.MustCompile(`responsibilities|what you.ll do|role responsibilities|key responsibilities|duties|your role|job duties|what we.re looking for you to do`)
	requirementsHeader     = regexp.MustCompile(`requirements|qualifications|what you.ll need|what we need|skills required|required skills|minimum qualifications|you have`)
	niceToHaveHeader       = regexp.MustCompile(`nice to have|preferred|bonus|plus|desired|would be great`)
	aboutCompanyHeader     = regexp.MustCompile(`about us|about the company|who we are|our company`)
)

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)(?:we.re looking for|hiring a|seeking a|position:?|role:?|job title:?)\s*([^\n,.]+)`),
	regexp.MustCompile(`(?im)^([A-Z][a-zA-Z\s]+(?:engineer|developer|manager|analyst|designer|scientist|architect))`),
}

// sectionAfter returns the text following the first header match up to the
// next line that starts with a letter, trimmed and capped.
func sectionAfter(header *regexp.Regexp, lower string) string {
	loc := header.FindStringIndex(lower)
	if loc == nil {
		return ""
	}
	body := lower[loc[1]:]
	end := len(body)
	for i := 0; i+1 < len(body); i++ {
		if body[i] == '\n' && isASCIILetter(body[i+1]) {
			end = i
			break
		}
	}
	return utils.TruncateRunes(strings.TrimSpace(body[:end]), maxSectionLength)
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func splitSections(text string) types.JDSections {
	lower := strings.ToLower(text)
	return types.JDSections{
		Responsibilities: sectionAfter(responsibilitiesHeader, lower),
		Requirements:     sectionAfter(requirementsHeader, lower),
		NiceToHave:       sectionAfter(niceToHaveHeader, lower),
		AboutCompany:     sectionAfter(aboutCompanyHeader, lower),
	}
}

// jobTitle finds the advertised title, falling back to a short first line.
func jobTitle(text string) string {
	for _, re := range titlePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return utils.TruncateRunes(strings.TrimSpace(m[1]), maxTitleLength)
		}
	}

	first, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	if utf8.RuneCountInString(first) < maxFirstLineLen {
		return strings.TrimSpace(first)
	}
	return ""
}
