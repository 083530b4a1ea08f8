// Package resolver determines which indexed file, if any, a free-text
// query is referring to. Matching runs a fixed list of strategies in
// priority order and returns on the first success; paths are always
// iterated in sorted order so ties break deterministically.
package resolver

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

// Strategy is one layer of the matching chain.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string
	// TryMatch returns the matched path, if any. The query is already
	// lowercased; paths are sorted.
	TryMatch(query string, paths []string) (string, bool)
}

// Resolver evaluates strategies in order.
type Resolver struct {
	strategies []Strategy
}

// New creates a resolver with the standard strategy chain: exact path
// containment, then filename containment, then suffix-path containment,
// then filename extraction from "... file X ..." phrasing.
func New() *Resolver {
	return &Resolver{
		strategies: []Strategy{
			ExactPath{},
			Filename{},
			PathSuffix{},
			NewPhraseExtract(),
		},
	}
}

// Resolve returns the known path the query refers to, or ok=false when no
// strategy matches. Deterministic for identical inputs.
func (r *Resolver) Resolve(query string, known []string) (string, bool) {
	if len(known) == 0 {
		return "", false
	}

	q := strings.ToLower(query)
	paths := append([]string(nil), known...)
	sort.Strings(paths)

	for _, s := range r.strategies {
		if p, ok := s.TryMatch(q, paths); ok {
			return p, true
		}
	}
	return "", false
}

// ExactPath matches when a known path appears verbatim (case-insensitive)
// in the query.
type ExactPath struct{}

func (ExactPath) Name() string { return "exact_path" }

func (ExactPath) TryMatch(query string, paths []string) (string, bool) {
	for _, p := range paths {
		if strings.Contains(query, strings.ToLower(p)) {
			return p, true
		}
	}
	return "", false
}

// Filename matches when a known path's base filename appears in the query.
type Filename struct{}

func (Filename) Name() string { return "filename" }

func (Filename) TryMatch(query string, paths []string) (string, bool) {
	for _, p := range paths {
		if strings.Contains(query, strings.ToLower(path.Base(p))) {
			return p, true
		}
	}
	return "", false
}

// PathSuffix matches partial paths like "components/Button.tsx": for each
// known path it tries every suffix of its components, shortest first,
// growing toward the full path.
type PathSuffix struct{}

func (PathSuffix) Name() string { return "path_suffix" }

func (PathSuffix) TryMatch(query string, paths []string) (string, bool) {
	for _, p := range paths {
		parts := strings.Split(p, "/")
		for i := len(parts) - 1; i >= 0; i-- {
			suffix := strings.ToLower(strings.Join(parts[i:], "/"))
			if strings.Contains(query, suffix) {
				return p, true
			}
		}
	}
	return "", false
}

// PhraseExtract pulls filename-looking tokens out of the query (the
// "explain the file app.py" phrasing) and matches them against known
// paths by basename or path suffix. Lowest-priority layer: it only runs
// when no containment strategy matched.
type PhraseExtract struct {
	token *regexp.Regexp
}

// NewPhraseExtract creates the extraction strategy.
func NewPhraseExtract() PhraseExtract {
	return PhraseExtract{
		token: regexp.MustCompile(`[\w./-]+\.[a-z0-9]+`),
	}
}

func (PhraseExtract) Name() string { return "phrase_extract" }

func (s PhraseExtract) TryMatch(query string, paths []string) (string, bool) {
	for _, token := range s.token.FindAllString(query, -1) {
		for _, p := range paths {
			lower := strings.ToLower(p)
			if strings.ToLower(path.Base(p)) == token || strings.HasSuffix(lower, token) {
				return p, true
			}
		}
	}
	return "", false
}
