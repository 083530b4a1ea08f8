package index

import "context"

// Metadata is the only information persisted in the semantic store
// beyond the chunk text itself.
type Metadata struct {
	FilePath string `json:"file_path"`
	ChunkID  int    `json:"chunk_id"`
	FileType string `json:"file_type"`
	FileName string `json:"file_name"`
}

// Entry is a (chunk text, metadata) pair submitted at ingestion time.
type Entry struct {
	Text string
	Meta Metadata
}

// Hit is one query result, most relevant first.
type Hit struct {
	Text  string
	Meta  Metadata
	Score float64
}

// Index is the semantic store collaborator: it accepts chunk entries at
// ingestion time and answers similarity queries over them. Teardown
// removes all ingested state for the current collection; the index stays
// usable for a subsequent ingestion.
type Index interface {
	Ingest(ctx context.Context, entries []Entry) error
	Query(ctx context.Context, text string, k int) ([]Hit, error)
	Teardown() error
}
