package insertion

import (
	"strings"
)

// Tags is the set of technology buckets a bullet touches
type Tags uint8

const (
	TagFrontend Tags = 1 << iota
	TagBackend
	TagData
	TagDevOps
	TagTechnical
)

// Has reports whether every tag in want is set
func (t Tags) Has(want Tags) bool { return t&want == want }

func (t Tags) String() string {
	names := []struct {
		tag  Tags
		name string
	}{
		{TagFrontend, "frontend"}, {TagBackend, "backend"}, {TagData, "data"},
		{TagDevOps, "devops"}, {TagTechnical, "technical"},
	}
	var parts []string
	for _, n := range names {
		if t.Has(n.tag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

// Bucket trigger terms, matched as substrings of the lowercased bullet.
var bucketTerms = map[Tags][]string{
	TagFrontend: {"frontend", "front-end", "ui", "react", "angular", "vue", "css", "html", "browser"},
	TagBackend: {"api", "backend", "back-end", "server", "endpoint", "microservice",
		"python", "node", "flask", "django", "fastapi", "express", "spring"},
	TagData: {"database", "data", "query", "sql", "schema", "table", "index",
		"postgresql", "mysql", "mongodb", "redis", "cache", "store"},
	TagDevOps: {"deploy", "pipeline", "ci", "cd", "docker", "kubernetes", "container",
		"infrastructure", "cloud", "aws", "azure", "gcp", "server", "host",
		"terraform", "helm", "jenkins", "github actions"},
	TagTechnical: {"develop", "built", "implemented", "created", "designed", "engineered",
		"architected", "leveraged", "utilized", "configured", "integrated"},
}

type acNode struct {
	next map[byte]int32
	fail int32
	tags Tags
}

// automaton is an Aho-Corasick matcher over the bucket terms. One scan of the
// input reports every term occurrence, overlapping ones included.
type automaton struct {
	nodes []acNode
}

func newAutomaton(terms map[Tags][]string) *automaton {
	a := &automaton{nodes: []acNode{{next: map[byte]int32{}}}}
	for tag, words := range terms {
		for _, w := range words {
			a.insert(w, tag)
		}
	}
	a.link()
	return a
}

func (a *automaton) insert(word string, tag Tags) {
	cur := int32(0)
	for i := 0; i < len(word); i++ {
		c := word[i]
		nxt, ok := a.nodes[cur].next[c]
		if !ok {
			a.nodes = append(a.nodes, acNode{next: map[byte]int32{}})
			nxt = int32(len(a.nodes) - 1)
			a.nodes[cur].next[c] = nxt
		}
		cur = nxt
	}
	a.nodes[cur].tags |= tag
}

func (a *automaton) link() {
	queue := make([]int32, 0, len(a.nodes))
	for _, child := range a.nodes[0].next {
		queue = append(queue, child)
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for c, v := range a.nodes[u].next {
			f := a.nodes[u].fail
			for f != 0 {
				if _, ok := a.nodes[f].next[c]; ok {
					break
				}
				f = a.nodes[f].fail
			}
			if n, ok := a.nodes[f].next[c]; ok && n != v {
				a.nodes[v].fail = n
			}
			a.nodes[v].tags |= a.nodes[a.nodes[v].fail].tags
			queue = append(queue, v)
		}
	}
}

func (a *automaton) scan(lower string) Tags {
	var tags Tags
	state := int32(0)
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		for state != 0 {
			if _, ok := a.nodes[state].next[c]; ok {
				break
			}
			state = a.nodes[state].fail
		}
		if n, ok := a.nodes[state].next[c]; ok {
			state = n
		}
		tags |= a.nodes[state].tags
	}
	return tags
}

var defaultAutomaton = newAutomaton(bucketTerms)

// Classify tags bullet with every bucket whose trigger terms occur in it.
func Classify(bullet string) Tags {
	return defaultAutomaton.scan(strings.ToLower(bullet))
}
