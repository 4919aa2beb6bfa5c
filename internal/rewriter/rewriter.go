// Package rewriter turns weak, passive résumé phrasing into active
// statements using an ordered rule table and a weak-verb fallback.
package rewriter

import (
	"regexp"
	"strings"

	"resumeai/internal/taxonomy"
	"resumeai/internal/utils"
)

var bulletGlyphs = regexp.MustCompile(`^[•\-–●*·▪\s]+`)

// Weak verbs whose four letter prefix is too common to use for fuzzy matching.
var exactOnlyWeakVerbs = map[string]bool{"the": true, "was": true, "has": true}

type poolHint struct {
	pool  string
	hints []string
}

// Evaluated in order against the lowercased sentence.
var poolHints = []poolHint{
	{taxonomy.PoolCollaboration, []string{"team", "cross", "group", "stakeholder", "collaborate"}},
	{taxonomy.PoolDevelopment, []string{"build", "develop", "creat", "code", "implement", "deploy", "architect", "api", "service", "system"}},
	{taxonomy.PoolGrowth, []string{"increas", "grow", "generat", "revenue", "sale", "boost"}},
	{taxonomy.PoolReduction, []string{"reduc", "decreas", "cut", "lower", "minim", "remov"}},
	{taxonomy.PoolAnalysis, []string{"analyz", "resear", "assess", "evaluat", "investigat", "diagnos"}},
	{taxonomy.PoolLeadership, []string{"lead", "manag", "direct", "mentor", "supervis", "overse"}},
	{taxonomy.PoolAutomation, []string{"automat", "integrat", "migrat", "digit", "transform"}},
	{taxonomy.PoolImprovement, []string{"optimiz", "improv", "enhanc", "streamlin", "acceler"}},
}

// Rewriter is immutable and safe for concurrent use.
type Rewriter struct {
	rules     []Rule
	weakVerbs []string
	pools     map[string][]string
	picker    Picker
}

// Option configures a Rewriter
type Option func(*Rewriter)

// WithRules replaces the rule table.
func WithRules(rules []Rule) Option {
	return func(r *Rewriter) { r.rules = rules }
}

// New builds a rewriter over tax. A nil picker uses DefaultPicker.
func New(tax *taxonomy.Taxonomy, picker Picker, opts ...Option) *Rewriter {
	if picker == nil {
		picker = DefaultPicker()
	}
	r := &Rewriter{
		rules:     defaultRules,
		weakVerbs: tax.WeakVerbs(),
		pools:     make(map[string][]string),
		picker:    picker,
	}
	for _, p := range tax.VerbPools() {
		r.pools[p.Category] = p.Verbs
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rewrite strengthens one sentence. Sentences no rule applies to come back
// trimmed but otherwise unchanged.
func (r *Rewriter) Rewrite(sentence string) string {
	trimmed := strings.TrimSpace(sentence)
	if trimmed == "" {
		return trimmed
	}
	clean := strings.TrimSpace(bulletGlyphs.ReplaceAllString(trimmed, ""))
	if clean == "" {
		return trimmed
	}

	if out, ok := r.applyRules(clean); ok {
		return out
	}
	if out, ok := r.replaceWeakVerb(clean); ok {
		return out
	}
	return trimmed
}

func (r *Rewriter) applyRules(clean string) (string, bool) {
	for _, rl := range r.rules {
		m := rl.Pattern.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		if out := rl.Build(m); out != "" {
			return utils.UpperFirst(out), true
		}
	}
	return "", false
}

func (r *Rewriter) replaceWeakVerb(clean string) (string, bool) {
	words := strings.Fields(clean)
	if len(words) == 0 {
		return "", false
	}
	first := strings.ToLower(words[0])

	for _, weak := range r.weakVerbs {
		if !r.weakMatch(first, weak) {
			continue
		}
		rest := strings.Join(words[1:], " ")
		if rest == "" {
			return "", false
		}
		verb := Choose(r.picker, r.pools[PoolFor(clean)])
		if verb == "" {
			return "", false
		}
		return verb + " " + rest, true
	}
	return "", false
}

func (r *Rewriter) weakMatch(first, weak string) bool {
	if first == weak {
		return true
	}
	if exactOnlyWeakVerbs[weak] || len(first) <= 4 {
		return false
	}
	prefix := weak
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return strings.HasPrefix(first, prefix)
}

// PoolFor picks the strong verb pool that fits sentence.
func PoolFor(sentence string) string {
	lower := strings.ToLower(sentence)
	for _, ph := range poolHints {
		for _, h := range ph.hints {
			if strings.Contains(lower, h) {
				return ph.pool
			}
		}
	}
	return taxonomy.PoolDevelopment
}
