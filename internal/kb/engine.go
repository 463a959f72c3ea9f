package kb

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Similarity thresholds for fuzzy matching: below crossPlatformThreshold
// the search widens to every platform, and only scores at or above
// answerThreshold produce an answer at all.
const (
	crossPlatformThreshold = 0.6
	answerThreshold        = 0.4
)

// Match kinds reported in results.
const (
	MatchPattern  = "pattern"
	MatchFuzzy    = "fuzzy"
	MatchDocs     = "docs"
	MatchFallback = "fallback"
)

// Source points at the documentation backing an answer.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Result is an engine answer with its documentation sources and how it
// was matched.
type Result struct {
	Response string
	Sources  []Source
	Match    string
}

type rule struct {
	patterns []*regexp.Regexp
	texts    []string
	answer   string
	source   Source
}

// Engine answers CDP questions from the built-in knowledge base: direct
// pattern hits first, then fuzzy matching that widens across platforms,
// then the documentation index when one is attached.
type Engine struct {
	rules map[string][]rule
	docs  *DocIndex
}

// NewEngine builds the engine from the built-in knowledge base. docs may
// be nil to answer from canned content only.
func NewEngine(docs *DocIndex) *Engine {
	rules := make(map[string][]rule, len(builtinKnowledge))
	for platform, entries := range builtinKnowledge {
		compiled := make([]rule, 0, len(entries))
		for _, e := range entries {
			r := rule{
				texts:  e.patterns,
				answer: e.answer,
				source: Source{Title: e.source, URL: e.url},
			}
			for _, p := range e.patterns {
				r.patterns = append(r.patterns, regexp.MustCompile("(?i)"+p))
			}
			compiled = append(compiled, r)
		}
		rules[platform] = compiled
	}
	return &Engine{rules: rules, docs: docs}
}

// Ask answers a question in a platform context. It always produces a
// response; questions nothing matches get guidance on what can be asked.
func (e *Engine) Ask(question, platform string) Result {
	key := strings.ToLower(strings.TrimSpace(platform))
	query := strings.ToLower(strings.TrimSpace(question))

	var best *rule
	highest := 0.0

	for i := range e.rules[key] {
		r := &e.rules[key][i]
		for pi, re := range r.patterns {
			if re.MatchString(query) {
				return Result{Response: r.answer, Sources: []Source{r.source}, Match: MatchPattern}
			}
			if score := similarity(query, r.texts[pi]); score > highest {
				highest = score
				best = r
			}
		}
	}

	// Nothing close in the asked platform, widen to the others.
	if highest < crossPlatformThreshold {
		for k := range e.rules {
			if k == key {
				continue
			}
			for i := range e.rules[k] {
				r := &e.rules[k][i]
				for _, text := range r.texts {
					if score := similarity(query, text); score > highest {
						highest = score
						best = r
					}
				}
			}
		}
	}

	if best != nil && highest >= answerThreshold {
		return Result{Response: best.answer, Sources: []Source{best.source}, Match: MatchFuzzy}
	}

	if e.docs != nil {
		if found := e.docs.Search(key, question, 3); len(found) > 0 {
			return docResult(found)
		}
	}

	return Result{Response: fallbackResponse(platform), Match: MatchFallback}
}

// Answer implements the chat controller's answerer interface, letting the
// engine stand in for a remote service.
func (e *Engine) Answer(_ context.Context, question, platform string) (string, error) {
	return e.Ask(question, platform).Response, nil
}

func docResult(docs []Document) Result {
	var b strings.Builder
	b.WriteString("Here's what I found in the documentation:\n")
	sources := make([]Source, 0, len(docs))
	for _, d := range docs {
		b.WriteString("\n")
		b.WriteString(d.Excerpt(400))
		b.WriteString("\n")
		sources = append(sources, Source{Title: d.Title, URL: d.URL})
	}
	return Result{Response: strings.TrimRight(b.String(), "\n"), Sources: sources, Match: MatchDocs}
}

func fallbackResponse(platform string) string {
	about := ""
	if strings.TrimSpace(platform) != "" {
		about = fmt.Sprintf("about %s ", platform)
	}
	return "I don't have specific information " + about + "for that query. You can try:\n\n" +
		"1. Ask about setting up or configuring sources\n" +
		"2. Ask about specific CDP features\n" +
		"3. Ask about integration steps\n\n" +
		"For example: 'How do I set up a new source?' or 'What are the steps to configure integration?'"
}
