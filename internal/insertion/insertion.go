// Package insertion decides whether a job keyword fits an experience bullet
// and, if so, appends it as a natural clause.
package insertion

import (
	"slices"
	"strings"
	"unicode"
)

var (
	infraKeywords = []string{"aws", "azure", "gcp", "ec2", "s3", "lambda", "kubernetes", "k8s",
		"terraform", "helm", "nginx", "ansible", "fargate", "ecs", "eks"}
	ciKeywords       = []string{"ci/cd", "github actions", "jenkins", "gitlab ci", "circleci"}
	databaseKeywords = []string{"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "sqlite",
		"oracle", "cassandra", "dynamodb", "influxdb", "mariadb", "couchdb"}
	frontendKeywords = []string{"react", "angular", "vue", "svelte", "next.js", "nuxt.js",
		"tailwind", "bootstrap", "css", "html", "typescript"}
	backendKeywords = []string{"fastapi", "django", "flask", "spring", "express", "nestjs", "gin",
		"graphql", "grpc", "rest"}
	cloudPlatforms = []string{"aws", "azure", "gcp", "eks", "gke"}
)

type languageTriggers struct {
	language string
	triggers []string
}

var languageTable = []languageTriggers{
	{"python", []string{"python", "flask", "django", "fastapi"}},
	{"javascript", []string{"javascript", "node", "react", "express", "js"}},
	{"typescript", []string{"typescript", "react", "angular", "nestjs", "ts"}},
	{"java", []string{"java", "spring", "maven", "gradle"}},
	{"go", []string{"golang", "go ", "gin", "fiber"}},
}

// Verb classes decide the connecting clause.
var (
	buildVerbs    = []string{"developed", "built", "implemented", "created", "designed", "engineered", "architected"}
	optimizeVerbs = []string{"optimized", "improved", "enhanced", "streamlined"}
	deployVerbs   = []string{"deployed", "configured", "containerized", "migrated"}
)

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Engine is stateless and safe for concurrent use.
type Engine struct {
	classify func(string) Tags
}

// New returns an engine using the built-in bucket classifier.
func New() *Engine {
	return &Engine{classify: Classify}
}

// Classify tags bullet with its technology buckets.
func (e *Engine) Classify(bullet string) Tags {
	return e.classify(bullet)
}

// Relevant reports whether keyword can be inserted into bullet without
// producing a nonsensical claim.
func (e *Engine) Relevant(keyword, bullet string) bool {
	kw := strings.ToLower(keyword)
	lower := strings.ToLower(bullet)
	if strings.Contains(lower, kw) {
		return false
	}

	tags := e.classify(lower)
	switch {
	case slices.Contains(infraKeywords, kw):
		return tags.Has(TagDevOps)
	case slices.Contains(ciKeywords, kw):
		return tags.Has(TagDevOps) || strings.Contains(lower, "pipeline") || strings.Contains(lower, "automat")
	case slices.Contains(databaseKeywords, kw):
		return tags.Has(TagData)
	case slices.Contains(frontendKeywords, kw):
		return tags.Has(TagFrontend) || genericTechnical(tags)
	case slices.Contains(backendKeywords, kw):
		return tags.Has(TagBackend) || genericTechnical(tags)
	}

	for _, lang := range languageTable {
		if kw == lang.language {
			return containsAny(lower, lang.triggers)
		}
	}
	return tags.Has(TagTechnical) && len(keyword) > 3
}

// genericTechnical is a technical bullet outside the data and devops buckets.
func genericTechnical(tags Tags) bool {
	return tags.Has(TagTechnical) && !tags.Has(TagData) && !tags.Has(TagDevOps)
}

// Insert appends keyword to bullet as a clause chosen by the bullet's verb
// class. The bullet is returned unchanged when the keyword is already there,
// is not relevant, or no verb class matches.
func (e *Engine) Insert(bullet, keyword string) string {
	return e.InsertFrom(bullet, bullet, keyword)
}

// InsertFrom is Insert for a rewritten bullet. Relevance is judged on
// source, the bullet as originally written, so a verb chosen during rewriting
// cannot change the verdict. The clause still follows bullet's verb.
func (e *Engine) InsertFrom(bullet, source, keyword string) string {
	kw := strings.ToLower(keyword)
	if strings.Contains(strings.ToLower(bullet), kw) {
		return bullet
	}
	if !e.Relevant(keyword, source) {
		return bullet
	}

	lower := strings.ToLower(bullet)
	switch {
	case containsAny(lower, buildVerbs):
		return appendClause(bullet, ", leveraging "+keyword)
	case containsAny(lower, optimizeVerbs):
		return appendClause(bullet, " with "+keyword)
	case containsAny(lower, deployVerbs):
		prep := " using "
		if slices.Contains(cloudPlatforms, kw) {
			prep = " on "
		}
		return appendClause(bullet, prep+keyword)
	}
	return bullet
}

// appendClause adds clause at the end of bullet, keeping a final period last.
func appendClause(bullet, clause string) string {
	trimmed := strings.TrimRightFunc(bullet, unicode.IsSpace)
	if strings.HasSuffix(trimmed, ".") {
		return strings.TrimSuffix(trimmed, ".") + clause + "."
	}
	return bullet + clause
}

// InsertFirst tries candidates in order and inserts the first one that
// fits bullet, gating relevance on source as InsertFrom does. Keywords
// already recorded by tracker or already in the bullet are skipped. A
// successful insertion is recorded in tracker.
func (e *Engine) InsertFirst(bullet, source string, candidates []string, tracker *Tracker) string {
	lower := strings.ToLower(bullet)
	for _, kw := range candidates {
		if tracker.Used(kw) || strings.Contains(lower, strings.ToLower(kw)) {
			continue
		}
		if out := e.InsertFrom(bullet, source, kw); out != bullet {
			tracker.Mark(kw)
			return out
		}
	}
	return bullet
}

// Tracker records keywords inserted during one optimization pass. It is not
// safe for concurrent use.
type Tracker struct {
	used  map[string]bool
	order []string
}

// NewTracker returns an empty tracker
func NewTracker() *Tracker {
	return &Tracker{used: make(map[string]bool)}
}

// Used reports whether keyword was already inserted
func (t *Tracker) Used(keyword string) bool { return t.used[keyword] }

// Mark records keyword as inserted
func (t *Tracker) Mark(keyword string) {
	if t.used[keyword] {
		return
	}
	t.used[keyword] = true
	t.order = append(t.order, keyword)
}

// Inserted returns the inserted keywords in insertion order
func (t *Tracker) Inserted() []string { return slices.Clone(t.order) }
