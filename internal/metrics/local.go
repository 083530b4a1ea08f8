package metrics

import (
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/codequery/internal/collector"
)

// TreeStats summarizes a local checkout: file counts and a rough
// complexity figure counting branching keywords.
type TreeStats struct {
	Files      int
	TotalLines int
	AvgLines   float64
	Branches   int
	ByExt      map[string]int
}

// branchKeywords approximate cyclomatic complexity across the languages
// the collector ingests. Counted as whole words.
var branchKeywords = []string{
	"if", "else", "for", "while", "case", "switch", "catch", "except", "elif",
}

// Analyze computes stats over already-collected file contents. contents is
// keyed by relative path.
func Analyze(files []collector.File, contents map[string]string) TreeStats {
	stats := TreeStats{ByExt: make(map[string]int)}

	for _, f := range files {
		content, ok := contents[f.Path]
		if !ok {
			continue
		}
		stats.Files++
		stats.ByExt[f.Ext]++
		stats.TotalLines += strings.Count(content, "\n") + 1
		stats.Branches += countBranches(content)
	}

	if stats.Files > 0 {
		stats.AvgLines = float64(stats.TotalLines) / float64(stats.Files)
	}
	return stats
}

func countBranches(content string) int {
	count := 0
	for _, word := range strings.FieldsFunc(content, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' || r == '_')
	}) {
		for _, kw := range branchKeywords {
			if word == kw {
				count++
				break
			}
		}
	}
	return count
}

// Format renders the stats as display text.
func (s TreeStats) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Local repository stats\n")
	fmt.Fprintf(&sb, "   Files: %d\n", s.Files)
	fmt.Fprintf(&sb, "   Total lines: %d (avg %.1f per file)\n", s.TotalLines, s.AvgLines)
	fmt.Fprintf(&sb, "   Branching statements: %d\n", s.Branches)
	return strings.TrimRight(sb.String(), "\n")
}
