// Package router turns a free-text query into a response. It resolves
// which file the query refers to, classifies the intent, and dispatches
// to verbatim display, LLM explanation, or a structural overview.
package router

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/ChamsBouzaiene/codequery/internal/answerer"
	"github.com/ChamsBouzaiene/codequery/internal/prompts"
	"github.com/ChamsBouzaiene/codequery/internal/resolver"
	"github.com/ChamsBouzaiene/codequery/internal/session"
)

// DefaultTimeout bounds each answer-generation call.
const DefaultTimeout = 90 * time.Second

// Router answers queries against a loaded session.
type Router struct {
	session   *session.Session
	resolver  *resolver.Resolver
	generator answerer.Generator
	timeout   time.Duration
}

// New creates a router. timeout <= 0 selects DefaultTimeout.
func New(s *session.Session, r *resolver.Resolver, g answerer.Generator, timeout time.Duration) *Router {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Router{session: s, resolver: r, generator: g, timeout: timeout}
}

// Answer processes one query and returns the rendered response. It never
// returns an error: failures are rendered as user-facing messages, and
// failed turns are not recorded in memory.
func (r *Router) Answer(ctx context.Context, query string) string {
	if !r.session.Loaded() {
		return NotLoadedMessage
	}

	paths, err := r.session.Paths(ctx)
	if err != nil {
		return renderError(err)
	}

	matched, ok := r.resolver.Resolve(query, paths)
	if !ok {
		return r.structural(ctx, query, paths)
	}

	if classify(query) == IntentDisplay {
		return r.display(ctx, query, matched)
	}
	return r.explain(ctx, query, matched)
}

// display returns the stored file content verbatim inside a fenced block.
func (r *Router) display(ctx context.Context, query, filePath string) string {
	content, ok, err := r.session.Content(ctx, filePath)
	if err != nil {
		return renderError(err)
	}
	if !ok {
		return fmt.Sprintf("❌ File not found: %s", filePath)
	}

	name := path.Base(filePath)
	ext := strings.TrimPrefix(path.Ext(filePath), ".")
	out := fmt.Sprintf("📄 Contents of %s (from %s):\n\n```%s\n%s\n```", name, filePath, ext, content)

	r.session.Memory().Append(query, out)
	return out
}

// explain answers a question scoped to one resolved file.
func (r *Router) explain(ctx context.Context, query, filePath string) string {
	content, ok, err := r.session.Content(ctx, filePath)
	if err != nil {
		return renderError(err)
	}
	if !ok {
		return fmt.Sprintf("❌ File not found: %s", filePath)
	}

	name := path.Base(filePath)
	ext := strings.TrimPrefix(path.Ext(filePath), ".")
	prompt := prompts.FileExplanation(name, filePath, ext, content, query)

	return r.generate(ctx, query, prompt)
}

// structural answers queries that name no known file by giving the model
// the repository layout.
func (r *Router) structural(ctx context.Context, query string, paths []string) string {
	prompt := prompts.Structural(formatStructure(paths), query)
	return r.generate(ctx, query, prompt)
}

// generate runs the generator under the timeout, appends the sources
// section and records the turn on success.
func (r *Router) generate(ctx context.Context, query, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ans, err := r.generator.Ask(ctx, prompt, r.session.Memory().Turns())
	if err != nil {
		return renderError(err)
	}

	out := ans.Text
	if sources := formatSources(ans); sources != "" {
		out += sources
	}

	r.session.Memory().Append(query, out)
	return out
}

// formatSources lists the distinct file paths the answer drew from, in
// first-seen order. Empty when retrieval found nothing.
func formatSources(ans answerer.Answer) string {
	if len(ans.Sources) == 0 {
		return ""
	}

	seen := make(map[string]bool)
	var sb strings.Builder
	sb.WriteString("\n\n📁 Sources:\n")
	for _, src := range ans.Sources {
		if seen[src.FilePath] {
			continue
		}
		seen[src.FilePath] = true
		fmt.Fprintf(&sb, "- %s\n", src.FilePath)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatStructure groups paths by directory:
//
//	📁 src/components:
//	  - Button.tsx
//
// Directories and files are both sorted; root-level files appear under ".".
func formatStructure(paths []string) string {
	byDir := make(map[string][]string)
	for _, p := range paths {
		dir := path.Dir(p)
		byDir[dir] = append(byDir[dir], path.Base(p))
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var sb strings.Builder
	for _, dir := range dirs {
		fmt.Fprintf(&sb, "📁 %s:\n", dir)
		files := byDir[dir]
		sort.Strings(files)
		for _, f := range files {
			fmt.Fprintf(&sb, "  - %s\n", f)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
