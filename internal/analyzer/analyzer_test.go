package analyzer

import (
	"strings"
	"sync"
	"testing"

	"resumeai/internal/taxonomy"
	"resumeai/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backendJD = `Senior Backend Engineer
We're looking for a Senior Backend Engineer to join our platform team.

Responsibilities:
- Design and build scalable microservices and REST APIs in Python and Go
- Deploy services on AWS using Docker and Kubernetes
- Collaborate with product managers and mentor other engineers

Requirements:
- 5-7 years of experience required
- Strong communication and leadership skills
- Experience with PostgreSQL and Redis

Nice to have:
- Terraform
`

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return New(taxonomy.Default())
}

func TestAnalyzeBackendJD(t *testing.T) {
	p := newAnalyzer(t).Analyze(backendJD)

	assert.False(t, p.IsEmpty())
	assert.Equal(t, "a Senior Backend Engineer to join our platform team", p.JobTitle)
	assert.Equal(t, "Software Engineering", p.Domain)
	assert.Equal(t, types.LevelSenior, p.ExperienceLevel)
	assert.Equal(t,
		[]string{"python", "go", "postgresql", "redis", "aws", "docker", "kubernetes", "terraform", "microservices"},
		p.TechnicalSkills)
	assert.Equal(t, []string{"leadership", "communication"}, p.SoftSkills)
	assert.Equal(t, []string{"Design", "Build", "Deploy", "Collaborate"}, p.ActionVerbs)
	assert.Equal(t, []string{"python", "go"}, p.SkillsByCategory["programming_languages"])
	assert.NotContains(t, p.SkillsByCategory, "design")
	assert.Equal(t, backendJD, p.RawText)

	require.Len(t, p.Keywords, keywordCount)
	assert.Equal(t, []string{"senior", "backend", "engineer", "experience", "looking"}, p.Keywords[:5])
}

func TestAnalyzeSections(t *testing.T) {
	p := newAnalyzer(t).Analyze(backendJD)

	assert.True(t, strings.HasPrefix(p.Sections.Responsibilities, ":\n- design and build"))
	assert.True(t, strings.HasSuffix(p.Sections.Responsibilities, "mentor other engineers"))
	assert.Contains(t, p.Sections.Requirements, "5-7 years of experience required")
	assert.NotContains(t, p.Sections.Requirements, "terraform")
	assert.Equal(t, ":\n- terraform", p.Sections.NiceToHave)
	assert.Empty(t, p.Sections.AboutCompany)
}

func TestAnalyzeShortTextIsEmpty(t *testing.T) {
	a := newAnalyzer(t)

	for _, text := range []string{"", "short", strings.Repeat(" ", 80), "   Python developer needed   "} {
		p := a.Analyze(text)
		assert.True(t, p.IsEmpty(), "text %q", text)
		assert.Empty(t, p.TechnicalSkills)
	}
}

func TestAnalyzeAccentedWordsAreWhole(t *testing.T) {
	a := newAnalyzer(t)

	p := a.Analyze("We are growing fast. Please send your résumé and a short cover note to the hiring team today.")
	require.False(t, p.IsEmpty())
	assert.Empty(t, p.TechnicalSkills)
	assert.Empty(t, p.SkillsByCategory)

	p = a.Analyze("Data analyst. Café chain seeks someone fluent in R and SQL to build weekly sales reports.")
	assert.Contains(t, p.TechnicalSkills, "r")
	assert.Contains(t, p.TechnicalSkills, "sql")
	assert.Equal(t, []string{"r"}, p.SkillsByCategory["programming_languages"])
}

func TestAnalyzeDefaultsDomain(t *testing.T) {
	text := "Baker wanted for a busy neighbourhood bakery, early mornings, bread and pastry, weekends."
	p := newAnalyzer(t).Analyze(text)

	require.False(t, p.IsEmpty())
	assert.Equal(t, types.DefaultDomain, p.Domain)
	assert.Equal(t, types.LevelMid, p.ExperienceLevel)
}

func TestExperienceLevel(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"5-7 years of experience required", types.LevelSenior},
		{"1 to 2 years in a similar role", types.LevelJunior},
		{"3+ years building APIs", types.LevelMid},
		{"minimum 10 years managing teams", types.LevelStaff},
		{"at least 6 years of Go", types.LevelSenior},
		{"a recent graduate eager to learn", types.LevelJunior},
		{"an intermediate developer", types.LevelMid},
		{"you will lead the platform group", types.LevelSenior},
		{"reporting to the vice president", types.LevelExecutive},
		{"nothing to go on here", types.LevelMid},
		{"99999999999999999999+ years", types.LevelStaff},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, experienceLevel(tt.text))
		})
	}
}

func TestJobTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"label", "Job Title: Data Analyst\nWe crunch numbers.", "Data Analyst"},
		{"hiring", "Acme is hiring a Staff Platform Engineer, remote.", "Staff Platform Engineer"},
		{"title line", "Principal Cloud Architect\nJoin us", "Principal Cloud Architect"},
		{"first line fallback", "Barista\nPour great coffee", "Barista"},
		{"long first line", strings.Repeat("x", 90) + "\nmore", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jobTitle(tt.text))
		})
	}
}

func TestDetectDomainTieGoesToTableOrder(t *testing.T) {
	// one Software Engineering hit and one DevOps/Cloud hit
	assert.Equal(t, "Software Engineering", detectDomain("backend work in the cloud"))
	assert.Equal(t, "DevOps/Cloud", detectDomain("devops and cloud and kubernetes for the backend"))
}

func TestTopKeywordsPseudoIDF(t *testing.T) {
	weights := termWeights("golang golang rust")
	require.Len(t, weights, 2)
	assert.Equal(t, "golang", weights[0].term)
	assert.InDelta(t, (2.0/3.0)*3.506557897319982, weights[0].weight, 1e-9)
	assert.InDelta(t, (1.0/3.0)*3.912023005428146, weights[1].weight, 1e-9)

	assert.Equal(t, []string{"golang", "rust"}, topKeywords("golang golang rust the of", 5))
	assert.Empty(t, topKeywords("go is ok", 5))
}

func TestNormalizeKeepsSkillPunctuation(t *testing.T) {
	assert.Equal(t, "c++ c# node.js ci cd", normalize("C++, C#, Node.js; CI/CD!"))
	assert.Equal(t, []string{"node.js", "ci"}, tokenize("(node.js) ci."))
}

func TestAnalyzeConcurrentUse(t *testing.T) {
	a := newAnalyzer(t)
	want := a.Analyze(backendJD)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, a.Analyze(backendJD))
		}()
	}
	wg.Wait()
}

func BenchmarkAnalyze(b *testing.B) {
	a := New(taxonomy.Default())
	for b.Loop() {
		a.Analyze(backendJD)
	}
}
