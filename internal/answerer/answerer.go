package answerer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/codequery/internal/index"
	"github.com/ChamsBouzaiene/codequery/internal/llm"
	"github.com/ChamsBouzaiene/codequery/internal/prompts"
)

// DefaultTopK is how many chunks are retrieved as context per question.
const DefaultTopK = 6

// Turn is one completed (question, answer) exchange.
type Turn struct {
	Question string
	Answer   string
}

// Answer is a generated response plus the source chunks it drew from.
type Answer struct {
	Text    string
	Sources []index.Metadata
}

// Generator produces a natural-language answer for a prompt given the
// conversation so far.
type Generator interface {
	Ask(ctx context.Context, prompt string, history []Turn) (Answer, error)
}

// RetrievalChain implements Generator by retrieving the top-K relevant
// chunks from the semantic index and passing them to the LLM as context.
type RetrievalChain struct {
	index  index.Index
	client llm.Client
	topK   int
}

var _ Generator = (*RetrievalChain)(nil)

// NewRetrievalChain creates a chain. topK <= 0 selects DefaultTopK.
func NewRetrievalChain(idx index.Index, client llm.Client, topK int) *RetrievalChain {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RetrievalChain{index: idx, client: client, topK: topK}
}

// Ask implements Generator. The returned source set is the retrieved
// chunk metadata; it is empty when retrieval found nothing.
func (c *RetrievalChain) Ask(ctx context.Context, prompt string, history []Turn) (Answer, error) {
	hits, err := c.index.Query(ctx, prompt, c.topK)
	if err != nil {
		return Answer{}, fmt.Errorf("context retrieval failed: %w", err)
	}

	messages := make([]llm.Message, 0, len(history)*2+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: prompts.System})

	for _, turn := range history {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: turn.Question},
			llm.Message{Role: llm.RoleAssistant, Content: turn.Answer},
		)
	}

	userContent := prompt
	if block := contextBlock(hits); block != "" {
		userContent = block + "\n\n" + prompt
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userContent})

	text, err := c.client.Chat(ctx, messages)
	if err != nil {
		return Answer{}, fmt.Errorf("answer generation failed: %w", err)
	}

	sources := make([]index.Metadata, 0, len(hits))
	for _, h := range hits {
		sources = append(sources, h.Meta)
	}

	return Answer{Text: text, Sources: sources}, nil
}

// contextBlock formats retrieved chunks as a context preamble.
func contextBlock(hits []index.Hit) string {
	if len(hits) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Relevant code snippets:\n")
	for _, h := range hits {
		fmt.Fprintf(&sb, "\n--- %s (chunk %d) ---\n%s\n", h.Meta.FilePath, h.Meta.ChunkID, h.Text)
	}
	return sb.String()
}
