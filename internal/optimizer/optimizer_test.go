package optimizer

import (
	"context"
	"strings"
	"testing"

	"resumeai/internal/errors"
	"resumeai/internal/rewriter"
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

// firstPicker always picks index 0
type firstPicker struct{}

func (firstPicker) IntN(int) int { return 0 }

// indexPicker always picks the same index, wrapped to the pool size
type indexPicker int

func (p indexPicker) IntN(n int) int { return int(p) % n }

func sampleResume() types.Resume {
	return types.Resume{
		Name:    "Jane Doe",
		Contact: types.Contact{Email: "jane@example.com"},
		Skills:  []string{"Python", "Django", "MySQL", "Docker"},
		Experience: []types.ExperienceEntry{{
			Company: "Acme",
			Role:    "Engineer",
			Dates:   "2019 - 2023",
			Bullets: []string{
				"Was responsible for managing a team of 5 engineers",
				"Built a reporting database layer that cut query time by 40%.",
				"  ",
				"Deployed the billing service",
				"Wrote unit tests for the checkout API",
				"ok",
			},
		}},
		RawSections: map[string]string{"summary": "x", "skills": "x", "experience": "x", "education": "x"},
		FullText: "Jane Doe\njane@example.com\nSummary\nBackend developer.\nSkills\nPython, Django, MySQL, Docker\n" +
			"Experience\nAcme\nWas responsible for managing a team of 5 engineers\n" +
			"Built a reporting database layer that cut query time by 40%.\nDeployed the billing service\n" +
			"Wrote unit tests for the checkout API\nEducation\nBSc Computer Science",
		YearsExperience: 4,
	}
}

func newOptimizer() *Optimizer {
	return New(taxonomy.Default(), WithPicker(firstPicker{}))
}

func TestOptimizeFixture(t *testing.T) {
	o := newOptimizer()
	profile := o.Analyze(backendJD)
	require.NoError(t, RequireProfile(profile))

	res := o.Optimize(sampleResume(), profile)

	assert.Equal(t,
		"Leadership software engineer with 4+ years of deep technical expertise specializing in Python, GO, and Docker. "+
			"Proven track record of designing and delivering scalable, high-performance systems that align with business objectives. "+
			"Expertise in full-stack development, cross-functional collaboration, and engineering best practices. "+
			"Notable achievement: Built a reporting database layer that cut query time by 40%.",
		res.Optimized.Summary)

	// "go" is a substring of "django", so it is treated as present
	assert.Equal(t,
		[]string{"Python", "Django", "MySQL", "Docker", "postgresql", "redis", "aws", "kubernetes", "terraform", "microservices"},
		res.Optimized.Skills)

	require.Len(t, res.Optimized.Experience, 1)
	assert.Equal(t, []string{
		"Managed a team of 5 engineers",
		"Built a reporting database layer that cut query time by 40%, leveraging postgresql.",
		"Deployed the billing service on aws",
		"Developed unit tests for the checkout API",
		"ok",
	}, res.Optimized.Experience[0].Bullets)
	assert.Equal(t, "Acme", res.Optimized.Experience[0].Company)

	assert.Equal(t, 36, res.ATS.Before)
	assert.Equal(t, 76, res.ATS.After)
	assert.Equal(t, "B", res.ATS.Grade)
	require.NotNil(t, res.ATS.Breakdown.TechnicalSkills)
	assert.Equal(t, 40, res.ATS.Breakdown.TechnicalSkills.Score)
	assert.Empty(t, res.ATS.Breakdown.TechnicalSkills.Missing)
	require.NotNil(t, res.ATS.Breakdown.SoftSkills)
	assert.Equal(t, []string{"leadership"}, res.ATS.Breakdown.SoftSkills.Matched)
	assert.Equal(t, []string{"communication"}, res.ATS.Breakdown.SoftSkills.Missing)
	assert.Equal(t, 15, res.ATS.Breakdown.Format.Score)

	assert.Equal(t,
		[]string{"postgresql", "redis", "aws", "kubernetes", "terraform", "microservices", "design", "scalable", "services"},
		res.KeywordsAdded)
	assert.Equal(t, []string{"python", "docker", "engineer", "team", "deploy"}, res.KeywordsExisting)

	assert.Equal(t, "a Senior Backend Engineer to join our platform team", res.Optimized.JDTitle)
	assert.Equal(t, "Software Engineering", res.Optimized.Domain)
	assert.Equal(t, profile, res.JDAnalysis)
}

func TestOptimizeDoesNotMutateInput(t *testing.T) {
	o := newOptimizer()
	in := sampleResume()
	res := o.Optimize(in, o.Analyze(backendJD))

	assert.Equal(t, sampleResume(), in)
	res.Optimized.RawSections["extra"] = "y"
	assert.NotContains(t, in.RawSections, "extra")
}

func TestOptimizeOnlyAddsSkillsInCoveredCategories(t *testing.T) {
	tax := taxonomy.Default()
	o := New(tax)
	in := sampleResume()
	res := o.Optimize(in, o.Analyze(backendJD))

	covered := map[string]bool{}
	for _, s := range in.Skills {
		for _, c := range tax.CategoriesOf(s) {
			covered[c] = true
		}
	}
	for _, s := range res.Optimized.Skills[len(in.Skills):] {
		cat, ok := tax.PrimaryCategory(s)
		require.True(t, ok, s)
		assert.True(t, covered[cat], "%s in uncovered category %s", s, cat)
	}
}

func TestOptimizeInsertsEachKeywordOnce(t *testing.T) {
	o := New(taxonomy.Default())
	in := sampleResume()
	in.Experience[0].Bullets = []string{
		"Deployed the billing service",
		"Deployed the search service",
		"Deployed the ledger service",
		"Deployed the payments service",
	}
	profile := o.Analyze(backendJD)

	for range 10 {
		res := o.Optimize(in, profile)
		for _, skill := range profile.TechnicalSkills {
			count := 0
			for _, b := range res.Optimized.Experience[0].Bullets {
				if strings.Contains(strings.ToLower(b), skill) {
					count++
				}
			}
			assert.LessOrEqual(t, count, 1, skill)
		}
	}
}

func TestInsertionVerdictIndependentOfVerbChoice(t *testing.T) {
	jd := "We are hiring a platform engineer to operate and scale our Kubernetes clusters across regions."
	in := sampleResume()
	in.Experience[0].Bullets = []string{
		"Wrote unit tests for the checkout API",
		"Deployed the billing service",
	}

	for i := range 12 {
		o := New(taxonomy.Default(), WithPicker(indexPicker(i)))
		profile := o.Analyze(jd)
		require.Equal(t, []string{"kubernetes"}, profile.TechnicalSkills)

		bullets := o.Optimize(in, profile).Optimized.Experience[0].Bullets
		require.Len(t, bullets, 2)
		assert.NotContains(t, strings.ToLower(bullets[0]), "kubernetes", "pool index %d: %s", i, bullets[0])
		assert.Equal(t, "Deployed the billing service using kubernetes", bullets[1], "pool index %d", i)
	}
}

func TestOptimizePreservesBulletCount(t *testing.T) {
	o := newOptimizer()
	in := sampleResume()
	in.Experience = append(in.Experience, types.ExperienceEntry{
		Company: "Beta",
		Bullets: []string{"", "Helped with onboarding", "\t", "Made internal APIs"},
	})
	res := o.Optimize(in, o.Analyze(backendJD))

	require.Len(t, res.Optimized.Experience, 2)
	assert.Len(t, res.Optimized.Experience[0].Bullets, 5)
	assert.Equal(t, []string{"Enhanced onboarding", "Engineered internal APIs"}, res.Optimized.Experience[1].Bullets)
}

func TestOptimizedScoreIsStable(t *testing.T) {
	o := newOptimizer()
	profile := o.Analyze(backendJD)
	res := o.Optimize(sampleResume(), profile)

	assert.Equal(t, res.ATS.After, o.Score(res.Optimized, profile).Total)
}

func TestRequireProfile(t *testing.T) {
	o := newOptimizer()
	err := RequireProfile(o.Analyze("too short"))
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeJDTooShort, appErr.Code)
}

func TestExperiencePhrase(t *testing.T) {
	tests := []struct {
		level string
		years int
		want  string
	}{
		{types.LevelJunior, 0, "with 1+ year of hands-on experience"},
		{types.LevelJunior, 1, "with 1+ year of hands-on experience"},
		{types.LevelJunior, 3, "with 3+ years of hands-on experience"},
		{types.LevelMid, 1, "with 2+ years of professional experience"},
		{types.LevelSenior, 2, "with 4+ years of deep technical expertise"},
		{types.LevelStaff, 10, "with 10+ years of industry-leading expertise"},
		{types.LevelExecutive, 3, "with 8+ years of strategic leadership experience"},
		{types.LevelMid, 0, "with 2+ years of professional experience"},
		{"", 5, "with 5+ years of professional experience"},
		{"", -2, "with 2+ years of professional experience"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, experiencePhrase(tt.level, tt.years))
	}
}

func TestSummaryKeepsExplicitZeroYears(t *testing.T) {
	profile := types.JDProfile{RawText: "jd", Domain: "Software Engineering", ExperienceLevel: types.LevelJunior}

	resume := types.Resume{FullText: "new graduate", YearsExperience: 0}
	assert.Contains(t, rewriteSummary(resume, profile, firstPicker{}), "with 1+ year of hands-on experience")

	resume.YearsExperience = 5
	assert.Contains(t, rewriteSummary(resume, profile, firstPicker{}), "with 5+ years of hands-on experience")
}

func TestDisplaySkill(t *testing.T) {
	assert.Equal(t, "PostgreSQL", displaySkill("postgresql", []string{"PostgreSQL"}))
	assert.Equal(t, "Kubernetes", displaySkill("kubernetes", nil))
	assert.Equal(t, "CI/CD", displaySkill("ci/cd", nil))
	assert.Equal(t, "Node.Js", displaySkill("node.js", nil))
	assert.Equal(t, "Machine Learning", displaySkill("machine learning", nil))
	assert.Equal(t, "RUST", displaySkill("rust", nil))
}

func TestSummaryFallbacks(t *testing.T) {
	profile := types.JDProfile{
		RawText:         "jd",
		Domain:          "DevOps/Cloud",
		ExperienceLevel: types.LevelJunior,
		TechnicalSkills: []string{"terraform", "helm", "ansible", "pulumi"},
	}
	resume := types.Resume{FullText: "Barista with a passion for coffee"}

	summary := rewriteSummary(resume, profile, firstPicker{})
	assert.Equal(t,
		"Results-driven DevOps/Cloud engineer with 1+ year of hands-on experience with expertise in Terraform, HELM, and Ansible. "+
			"Proven record of building and maintaining reliable, scalable infrastructure using infrastructure-as-code and CI/CD best practices. "+
			"Committed to improving deployment velocity and system observability.",
		summary)

	profile.TechnicalSkills = nil
	profile.Domain = "Marketing"
	summary = rewriteSummary(resume, profile, rewriter.NewSeededPicker(3))
	assert.Contains(t, summary, " in Marketing.")
}

func TestOptimizeBatch(t *testing.T) {
	o := New(taxonomy.Default())
	jds := []string{backendJD, "too short", backendJD, strings.Repeat("data pipeline spark airflow ", 4)}

	items, err := o.OptimizeBatch(context.Background(), sampleResume(), jds, 2)
	require.NoError(t, err)
	require.Len(t, items, len(jds))

	for i, item := range items {
		assert.Equal(t, i, item.Index)
	}
	require.NotNil(t, items[0].Result)
	assert.Empty(t, items[0].Error)
	assert.Nil(t, items[1].Result)
	assert.Equal(t, "insufficient job description", items[1].Error)
	require.NotNil(t, items[3].Result)
	assert.Equal(t, "Data Engineering", items[3].Result.JDAnalysis.Domain)
}

func TestOptimizeBatchCancelled(t *testing.T) {
	o := New(taxonomy.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := o.OptimizeBatch(ctx, sampleResume(), []string{backendJD, backendJD}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, items)
}

func TestWithRandomSharesAnalyzer(t *testing.T) {
	o := New(taxonomy.Default())
	forked := o.WithRandom(rewriter.NewSeededPicker(9))

	assert.Same(t, o.analyzer, forked.analyzer)
	assert.NotSame(t, o.rewriter, forked.rewriter)
	assert.Same(t, o.Taxonomy(), forked.Taxonomy())
}

func TestWithRandomNilPicker(t *testing.T) {
	o := New(taxonomy.Default())
	forked := o.WithRandom(nil)

	assert.Same(t, o, forked)
	assert.NotPanics(t, func() { forked.Optimize(sampleResume(), forked.Analyze(backendJD)) })
}

func BenchmarkOptimize(b *testing.B) {
	o := New(taxonomy.Default(), WithPicker(rewriter.NewSeededPicker(1)))
	profile := o.Analyze(backendJD)
	resume := sampleResume()
	for b.Loop() {
		o.Optimize(resume, profile)
	}
}
