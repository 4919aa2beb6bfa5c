package scoring

import (
	"testing"

	"resumeai/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() types.Resume {
	return types.Resume{
		FullText: "Jane Doe\nBuilt Python services on AWS with Docker. Strong communication.",
		Contact:  types.Contact{Email: "jane@example.com"},
		RawSections: map[string]string{
			"experience": "...",
			"skills":     "...",
			"education":  "...",
		},
	}
}

func sampleProfile() types.JDProfile {
	return types.JDProfile{
		RawText:         "jd",
		TechnicalSkills: []string{"python", "aws", "docker", "kubernetes"},
		Keywords:        []string{"services", "platform"},
		SoftSkills:      []string{"communication", "leadership", "teamwork"},
	}
}

func TestScoreBreakdown(t *testing.T) {
	report := New().Score(sampleResume(), sampleProfile())

	require.NotNil(t, report.Breakdown.TechnicalSkills)
	assert.Equal(t, 30, report.Breakdown.TechnicalSkills.Score)
	assert.Equal(t, TechnicalMax, report.Breakdown.TechnicalSkills.Max)
	assert.Equal(t, []string{"python", "aws", "docker"}, report.Breakdown.TechnicalSkills.Matched)
	assert.Equal(t, []string{"kubernetes"}, report.Breakdown.TechnicalSkills.Missing)

	require.NotNil(t, report.Breakdown.Keywords)
	assert.Equal(t, 15, report.Breakdown.Keywords.Score)

	require.NotNil(t, report.Breakdown.SoftSkills)
	assert.Equal(t, 5, report.Breakdown.SoftSkills.Score)
	assert.Equal(t, []string{"leadership", "teamwork"}, report.Breakdown.SoftSkills.Missing)

	assert.Equal(t, types.FormatScore{Score: 12, Max: FormatMax}, report.Breakdown.Format)
	assert.Equal(t, 62, report.Total)
	assert.Equal(t, "C", report.Grade)
}

func TestScoreOmitsEmptyCategories(t *testing.T) {
	profile := types.JDProfile{RawText: "jd", TechnicalSkills: []string{"go"}}
	report := New().Score(types.Resume{FullText: "I write Go"}, profile)

	assert.NotNil(t, report.Breakdown.TechnicalSkills)
	assert.Nil(t, report.Breakdown.Keywords)
	assert.Nil(t, report.Breakdown.SoftSkills)
	// 40 points, no renormalisation of the missing categories
	assert.Equal(t, 40, report.Total)
}

func TestScoreBounds(t *testing.T) {
	empty := New().Score(types.Resume{}, types.JDProfile{})
	assert.Equal(t, MinTotal, empty.Total)
	assert.Equal(t, "D", empty.Grade)

	full := types.Resume{
		FullText: "python aws docker kubernetes services platform communication leadership teamwork",
		Contact:  types.Contact{Email: "a@b.co"},
		RawSections: map[string]string{
			"experience": "", "education": "", "skills": "", "summary": "",
		},
	}
	report := New().Score(full, sampleProfile())
	assert.Equal(t, MaxTotal, report.Total)
	assert.Equal(t, "A", report.Grade)
}

func TestKeywordListsAreCapped(t *testing.T) {
	var keywords []string
	for _, k := range []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf",
		"hotel", "india", "juliet", "kilo", "lima", "mike", "november"} {
		keywords = append(keywords, k, k+"x")
	}
	text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima mike november"
	report := New().Score(types.Resume{FullText: text}, types.JDProfile{Keywords: keywords})

	require.NotNil(t, report.Breakdown.Keywords)
	assert.Len(t, report.Breakdown.Keywords.Matched, keywordListCap)
	assert.Len(t, report.Breakdown.Keywords.Missing, keywordListCap)
	assert.Equal(t, 15, report.Breakdown.Keywords.Score)
}

func TestScoreIsIdempotent(t *testing.T) {
	s := New()
	r, p := sampleResume(), sampleProfile()
	assert.Equal(t, s.Score(r, p), s.Score(r, p))
}

func TestGradeBoundaries(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{100, "A"}, {85, "A"}, {84, "B"}, {70, "B"}, {69, "C"}, {55, "C"}, {54, "D"}, {15, "D"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Grade(tt.total), "total %d", tt.total)
	}
}
