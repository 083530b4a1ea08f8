package answerer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ChamsBouzaiene/codequery/internal/index"
	"github.com/ChamsBouzaiene/codequery/internal/llm"
)

type fakeIndex struct {
	hits []index.Hit
	err  error
}

func (f *fakeIndex) Ingest(ctx context.Context, entries []index.Entry) error { return nil }

func (f *fakeIndex) Query(ctx context.Context, text string, k int) ([]index.Hit, error) {
	return f.hits, f.err
}

func (f *fakeIndex) Teardown() error { return nil }

type fakeClient struct {
	reply    string
	err      error
	received []llm.Message
}

func (f *fakeClient) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	f.received = messages
	return f.reply, f.err
}

func TestAsk_IncludesRetrievedContext(t *testing.T) {
	idx := &fakeIndex{hits: []index.Hit{
		{Text: "func Handler() {}", Meta: index.Metadata{FilePath: "srv/handler.go", ChunkID: 0}},
	}}
	client := &fakeClient{reply: "it handles requests"}
	chain := NewRetrievalChain(idx, client, 6)

	ans, err := chain.Ask(context.Background(), "what does Handler do?", nil)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if ans.Text != "it handles requests" {
		t.Errorf("Answer text = %q", ans.Text)
	}
	if len(ans.Sources) != 1 || ans.Sources[0].FilePath != "srv/handler.go" {
		t.Errorf("Sources = %v", ans.Sources)
	}

	last := client.received[len(client.received)-1]
	if !strings.Contains(last.Content, "func Handler() {}") {
		t.Error("Retrieved snippet missing from prompt")
	}
	if !strings.Contains(last.Content, "what does Handler do?") {
		t.Error("Question missing from prompt")
	}
}

func TestAsk_HistoryBecomesTurns(t *testing.T) {
	idx := &fakeIndex{}
	client := &fakeClient{reply: "ok"}
	chain := NewRetrievalChain(idx, client, 0)

	history := []Turn{{Question: "q1", Answer: "a1"}, {Question: "q2", Answer: "a2"}}
	if _, err := chain.Ask(context.Background(), "q3", history); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	// system + 2 turns * 2 + final user message
	if len(client.received) != 6 {
		t.Fatalf("Got %d messages, want 6", len(client.received))
	}
	if client.received[1].Role != llm.RoleUser || client.received[1].Content != "q1" {
		t.Errorf("First history message = %+v", client.received[1])
	}
	if client.received[2].Role != llm.RoleAssistant || client.received[2].Content != "a1" {
		t.Errorf("Second history message = %+v", client.received[2])
	}
}

func TestAsk_EmptyRetrievalMeansNoSources(t *testing.T) {
	chain := NewRetrievalChain(&fakeIndex{}, &fakeClient{reply: "ok"}, 6)

	ans, err := chain.Ask(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if len(ans.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", ans.Sources)
	}
}

func TestAsk_IndexErrorPropagates(t *testing.T) {
	chain := NewRetrievalChain(&fakeIndex{err: errors.New("index offline")}, &fakeClient{}, 6)

	if _, err := chain.Ask(context.Background(), "q", nil); err == nil {
		t.Fatal("Ask() error = nil, want retrieval failure")
	}
}

func TestAsk_ClientErrorPropagates(t *testing.T) {
	chain := NewRetrievalChain(&fakeIndex{}, &fakeClient{err: errors.New("boom")}, 6)

	if _, err := chain.Ask(context.Background(), "q", nil); err == nil {
		t.Fatal("Ask() error = nil, want generation failure")
	}
}
