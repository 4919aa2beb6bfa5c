// Package taxonomy holds the static skill taxonomy shared by the analyzer,
// rewriter, insertion engine and optimizer. A Taxonomy is immutable after
// construction and safe for concurrent use.
package taxonomy

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"resumeai/internal/errors"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultData []byte

// Verb pools the phrase rewriter draws replacement verbs from.
const (
	PoolAchievement   = "achievement"
	PoolLeadership    = "leadership"
	PoolDevelopment   = "development"
	PoolImprovement   = "improvement"
	PoolCreation      = "creation"
	PoolAnalysis      = "analysis"
	PoolCollaboration = "collaboration"
	PoolGrowth        = "growth"
	PoolReduction     = "reduction"
	PoolAutomation    = "automation"
)

// RequiredPools must be present in every taxonomy.
var RequiredPools = []string{
	PoolCollaboration, PoolDevelopment, PoolGrowth, PoolReduction,
	PoolAnalysis, PoolLeadership, PoolAutomation, PoolImprovement,
}

// Category is an ordered list of skills
type Category struct {
	Name   string   `yaml:"name" json:"name"`
	Skills []string `yaml:"skills" json:"skills"`
}

// VerbPool is a named set of strong action verbs
type VerbPool struct {
	Category string   `yaml:"category" json:"category"`
	Verbs    []string `yaml:"verbs" json:"verbs"`
}

// IndustryKeywords lists vocabulary typical for one industry
type IndustryKeywords struct {
	Industry string   `yaml:"industry" json:"industry"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

type document struct {
	Version            string             `yaml:"version"`
	SoftSkillsCategory string             `yaml:"softSkillsCategory"`
	Categories         []Category         `yaml:"categories"`
	StrongVerbs        []VerbPool         `yaml:"strongVerbs"`
	WeakVerbs          []string           `yaml:"weakVerbs"`
	IndustryKeywords   []IndustryKeywords `yaml:"industryKeywords"`
	ATSPhrases         []string           `yaml:"atsPhrases"`
}

// Taxonomy is the read-only lookup table of skills and verbs
type Taxonomy struct {
	version      string
	checksum     string
	softCategory string
	categories   []Category
	skillIndex   map[string][]string
	pools        []VerbPool
	poolIndex    map[string][]string
	weakVerbs    []string
	industries   []IndustryKeywords
	atsPhrases   []string
}

var loadDefault = sync.OnceValues(func() (*Taxonomy, error) {
	return Parse(defaultData)
})

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	t, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("embedded taxonomy is invalid: %v", err))
	}
	return t
}

// Load reads a taxonomy override file. An empty path yields the default.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound, fmt.Sprintf("taxonomy file not found: %s", path), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, fmt.Sprintf("cannot read taxonomy file: %s", path), err)
	}
	t, err := Parse(data)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return nil, appErr.WithContext("file", path)
		}
		return nil, err
	}
	return t, nil
}

// Parse builds a taxonomy from its YAML form and validates it.
func Parse(data []byte) (*Taxonomy, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeTaxonomyInvalid, "taxonomy is not valid YAML", err)
	}
	if err := doc.validate(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeTaxonomyInvalid, err.Error(), nil)
	}

	sum := sha256.Sum256(data)
	t := &Taxonomy{
		version:      doc.Version,
		checksum:     hex.EncodeToString(sum[:8]),
		softCategory: doc.SoftSkillsCategory,
		categories:   doc.Categories,
		skillIndex:   make(map[string][]string),
		pools:        doc.StrongVerbs,
		poolIndex:    make(map[string][]string, len(doc.StrongVerbs)),
		weakVerbs:    doc.WeakVerbs,
		industries:   doc.IndustryKeywords,
		atsPhrases:   doc.ATSPhrases,
	}
	for _, c := range doc.Categories {
		for _, s := range c.Skills {
			key := strings.ToLower(s)
			if !slices.Contains(t.skillIndex[key], c.Name) {
				t.skillIndex[key] = append(t.skillIndex[key], c.Name)
			}
		}
	}
	for _, p := range doc.StrongVerbs {
		t.poolIndex[p.Category] = p.Verbs
	}
	return t, nil
}

func (d *document) validate() error {
	if len(d.Categories) == 0 {
		return fmt.Errorf("taxonomy defines no skill categories")
	}
	seen := make(map[string]bool, len(d.Categories))
	for i, c := range d.Categories {
		if c.Name == "" {
			return fmt.Errorf("category %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate category %q", c.Name)
		}
		seen[c.Name] = true
		if slices.Contains(c.Skills, "") {
			return fmt.Errorf("category %q contains an empty skill", c.Name)
		}
	}
	if d.SoftSkillsCategory == "" {
		d.SoftSkillsCategory = "soft_skills"
	}
	if !seen[d.SoftSkillsCategory] {
		return fmt.Errorf("soft skills category %q is not defined", d.SoftSkillsCategory)
	}

	pools := make(map[string]int, len(d.StrongVerbs))
	for _, p := range d.StrongVerbs {
		pools[p.Category] = len(p.Verbs)
	}
	for _, name := range RequiredPools {
		if pools[name] == 0 {
			return fmt.Errorf("strong verb pool %q is missing or empty", name)
		}
	}
	return nil
}

// Version returns the declared taxonomy version.
func (t *Taxonomy) Version() string { return t.version }

// Checksum identifies the exact taxonomy content.
func (t *Taxonomy) Checksum() string { return t.checksum }

// SoftSkillsCategory returns the name of the soft skills category.
func (t *Taxonomy) SoftSkillsCategory() string { return t.softCategory }

// Categories returns every category in declaration order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Name: c.Name, Skills: slices.Clone(c.Skills)}
	}
	return out
}

// SoftSkills returns the soft skills list.
func (t *Taxonomy) SoftSkills() []string {
	for _, c := range t.categories {
		if c.Name == t.softCategory {
			return slices.Clone(c.Skills)
		}
	}
	return nil
}

// CategoriesOf returns, in declaration order, every category listing skill.
// Matching is case-insensitive.
func (t *Taxonomy) CategoriesOf(skill string) []string {
	return slices.Clone(t.skillIndex[strings.ToLower(skill)])
}

// PrimaryCategory returns the first category listing skill.
func (t *Taxonomy) PrimaryCategory(skill string) (string, bool) {
	cats := t.skillIndex[strings.ToLower(skill)]
	if len(cats) == 0 {
		return "", false
	}
	return cats[0], true
}

// VerbPools returns the strong verb pools in declaration order.
func (t *Taxonomy) VerbPools() []VerbPool {
	out := make([]VerbPool, len(t.pools))
	for i, p := range t.pools {
		out[i] = VerbPool{Category: p.Category, Verbs: slices.Clone(p.Verbs)}
	}
	return out
}

// StrongVerbs returns the verbs of one pool.
func (t *Taxonomy) StrongVerbs(pool string) []string {
	return slices.Clone(t.poolIndex[pool])
}

// WeakVerbs returns the weak verb list in priority order.
func (t *Taxonomy) WeakVerbs() []string { return slices.Clone(t.weakVerbs) }

// IndustryKeywords returns the industry vocabulary table.
func (t *Taxonomy) IndustryKeywords() []IndustryKeywords {
	out := make([]IndustryKeywords, len(t.industries))
	for i, ik := range t.industries {
		out[i] = IndustryKeywords{Industry: ik.Industry, Keywords: slices.Clone(ik.Keywords)}
	}
	return out
}

// ATSPhrases returns phrases commonly favoured by applicant tracking systems.
func (t *Taxonomy) ATSPhrases() []string { return slices.Clone(t.atsPhrases) }

// Stats summarises the taxonomy for health and stats endpoints.
func (t *Taxonomy) Stats() map[string]any {
	skills := 0
	for _, c := range t.categories {
		skills += len(c.Skills)
	}
	return map[string]any{
		"version":    t.version,
		"checksum":   t.checksum,
		"categories": len(t.categories),
		"skills":     skills,
		"verb_pools": len(t.pools),
	}
}
