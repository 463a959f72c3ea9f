package kb

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Document is one indexed chunk of vendor documentation.
type Document struct {
	Platform string
	Title    string
	URL      string
	Text     string

	tokens map[string]bool
}

// Excerpt returns the leading text of the chunk, cut at a word boundary.
func (d Document) Excerpt(maxRunes int) string {
	runes := []rune(d.Text)
	if len(runes) <= maxRunes {
		return d.Text
	}
	cut := string(runes[:maxRunes])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// DocIndex is an in-memory documentation index, rebuilt at startup and on
// scheduled refresh. Search ranks chunks by query token overlap.
type DocIndex struct {
	mu   sync.RWMutex
	docs map[string][]Document
}

// NewDocIndex creates an empty index.
func NewDocIndex() *DocIndex {
	return &DocIndex{docs: make(map[string][]Document)}
}

// Replace swaps in a platform's full document set.
func (x *DocIndex) Replace(platform string, docs []Document) {
	for i := range docs {
		docs[i].tokens = tokenize(docs[i].Text)
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.docs[strings.ToLower(platform)] = docs
}

// Size reports the number of indexed chunks across all platforms.
func (x *DocIndex) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	n := 0
	for _, docs := range x.docs {
		n += len(docs)
	}
	return n
}

// Search returns up to limit chunks for the platform ranked by how many
// distinct query tokens they contain. Chunks matching nothing are left out.
func (x *DocIndex) Search(platform, query string, limit int) []Document {
	terms := tokenize(query)
	if len(terms) == 0 || limit <= 0 {
		return nil
	}

	x.mu.RLock()
	docs := x.docs[strings.ToLower(platform)]
	x.mu.RUnlock()

	type scored struct {
		doc   Document
		score int
		pos   int
	}
	var hits []scored
	for i, d := range docs {
		score := 0
		for term := range terms {
			if d.tokens[term] {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{doc: d, score: score, pos: i})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Document, len(hits))
	for i, h := range hits {
		out[i] = h.doc
	}
	return out
}

// stopTokens are query words too common to discriminate on.
var stopTokens = map[string]bool{
	"the": true, "and": true, "for": true, "how": true, "what": true,
	"with": true, "you": true, "your": true, "can": true, "does": true,
	"this": true, "that": true, "are": true, "is": true, "a": true,
	"to": true, "in": true, "of": true, "do": true, "i": true,
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(word) < 3 || stopTokens[word] {
			continue
		}
		tokens[word] = true
	}
	return tokens
}
