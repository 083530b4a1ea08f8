package chunker

import (
	"strings"
	"unicode/utf8"
)

// Default chunk parameters, sized for a typical LLM context window.
const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Chunker splits file text into overlapping chunks. Splitting prefers
// paragraph boundaries, then line boundaries, then word boundaries, and
// falls back to a hard cut only when the window contains none of those.
// Split is a pure function: identical input and parameters always yield
// the identical chunk sequence.
type Chunker struct {
	Size    int // target chunk size in bytes
	Overlap int // overlap between consecutive chunks, must be < Size
}

// New creates a chunker, normalizing out-of-range parameters.
func New(size, overlap int) Chunker {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 5
	}
	return Chunker{Size: size, Overlap: overlap}
}

// boundary separators in preference order.
var separators = []string{"\n\n", "\n", " "}

// Split breaks text into chunks. Empty or whitespace-only input yields nil.
// Every returned chunk is non-empty after trimming, and the union of the
// chunks covers all non-whitespace content of the input.
func (c Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	size := c.Size
	if size <= 0 {
		size = DefaultSize
	}
	overlap := c.Overlap
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []string
	start := 0
	for start < len(text) {
		if start+size >= len(text) {
			if piece := text[start:]; strings.TrimSpace(piece) != "" {
				chunks = append(chunks, piece)
			}
			break
		}

		cut := findCut(text, start, start+size)
		if piece := text[start:cut]; strings.TrimSpace(piece) != "" {
			chunks = append(chunks, piece)
		}

		// Step back by the overlap, but always make forward progress.
		next := alignRuneStart(text, cut-overlap)
		if next <= start {
			next = cut
		}
		start = next
	}

	return chunks
}

// findCut returns the cut position in (start, end] for the window
// text[start:end], preferring paragraph > line > word boundaries.
// The cut lands just after the separator so the separator stays with
// the preceding chunk.
func findCut(text string, start, end int) int {
	window := text[start:end]
	for _, sep := range separators {
		// A separator at position 0 would produce an empty chunk.
		if i := strings.LastIndex(window, sep); i > 0 {
			return start + i + len(sep)
		}
	}
	// Hard cut: back up to a rune boundary so we never split UTF-8.
	cut := alignRuneStart(text, end)
	if cut <= start {
		cut = end
	}
	return cut
}

// alignRuneStart moves pos backwards until it sits on a rune boundary.
func alignRuneStart(text string, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(text) {
		return len(text)
	}
	for pos > 0 && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}
