package index

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// BleveIndex is a disk-backed similarity store over chunk text, scored
// with BM25. It satisfies Index.
type BleveIndex struct {
	index bleve.Index
	path  string
}

var _ Index = (*BleveIndex)(nil)

// NewBleveIndex creates or opens the index collection at path.
// A corrupted collection is deleted and recreated.
func NewBleveIndex(path string) (*BleveIndex, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildChunkMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create chunk index: %w", err)
		}
	} else if err != nil {
		log.Printf("⚠️  Chunk index appears corrupted (error: %v), recreating...", err)
		if idx != nil {
			idx.Close()
		}
		if err := os.RemoveAll(path); err != nil {
			return nil, fmt.Errorf("failed to remove corrupted index: %w", err)
		}
		idx, err = bleve.New(path, buildChunkMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to recreate chunk index: %w", err)
		}
	}

	return &BleveIndex{index: idx, path: path}, nil
}

// buildChunkMapping maps chunk metadata as stored keyword fields and the
// chunk text as an analyzed, stored field.
func buildChunkMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	chunkMapping := bleve.NewDocumentMapping()

	filePathField := bleve.NewTextFieldMapping()
	filePathField.Analyzer = keyword.Name
	filePathField.Store = true
	filePathField.Index = true
	chunkMapping.AddFieldMappingsAt("file_path", filePathField)

	fileTypeField := bleve.NewTextFieldMapping()
	fileTypeField.Analyzer = keyword.Name
	fileTypeField.Store = true
	fileTypeField.Index = true
	chunkMapping.AddFieldMappingsAt("file_type", fileTypeField)

	fileNameField := bleve.NewTextFieldMapping()
	fileNameField.Analyzer = keyword.Name
	fileNameField.Store = true
	fileNameField.Index = true
	chunkMapping.AddFieldMappingsAt("file_name", fileNameField)

	chunkIDField := bleve.NewNumericFieldMapping()
	chunkIDField.Store = true
	chunkIDField.Index = true
	chunkMapping.AddFieldMappingsAt("chunk_id", chunkIDField)

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name
	textField.Store = true
	textField.Index = true
	chunkMapping.AddFieldMappingsAt("text", textField)

	indexMapping.DefaultMapping = chunkMapping
	return indexMapping
}

// Ingest adds entries to the collection in a single batch.
func (b *BleveIndex) Ingest(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := b.index.NewBatch()
	for _, e := range entries {
		doc := map[string]interface{}{
			"file_path": e.Meta.FilePath,
			"chunk_id":  float64(e.Meta.ChunkID),
			"file_type": e.Meta.FileType,
			"file_name": e.Meta.FileName,
			"text":      e.Text,
		}
		id := fmt.Sprintf("%s#%d", e.Meta.FilePath, e.Meta.ChunkID)
		if err := batch.Index(id, doc); err != nil {
			return fmt.Errorf("failed to add chunk %s to batch: %w", id, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to ingest chunk batch: %w", err)
	}
	return nil
}

// Query returns the top k most relevant chunks for the query text.
func (b *BleveIndex) Query(ctx context.Context, text string, k int) ([]Hit, error) {
	if k <= 0 {
		k = 6
	}

	q := bleve.NewMatchQuery(text)
	q.SetField("text")

	req := bleve.NewSearchRequest(q)
	req.Size = k
	req.Fields = []string{"file_path", "chunk_id", "file_type", "file_name", "text"}

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chunk search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{Score: h.Score}
		if v, ok := h.Fields["file_path"].(string); ok {
			hit.Meta.FilePath = v
		}
		if v, ok := h.Fields["chunk_id"].(float64); ok {
			hit.Meta.ChunkID = int(v)
		}
		if v, ok := h.Fields["file_type"].(string); ok {
			hit.Meta.FileType = v
		}
		if v, ok := h.Fields["file_name"].(string); ok {
			hit.Meta.FileName = v
		}
		if v, ok := h.Fields["text"].(string); ok {
			hit.Text = v
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

// Teardown deletes the backing collection and reopens an empty one at the
// same path, so the index remains usable for the next load.
func (b *BleveIndex) Teardown() error {
	if err := b.index.Close(); err != nil {
		return fmt.Errorf("failed to close chunk index: %w", err)
	}
	if err := os.RemoveAll(b.path); err != nil {
		return fmt.Errorf("failed to remove chunk index: %w", err)
	}

	idx, err := bleve.New(b.path, buildChunkMapping())
	if err != nil {
		return fmt.Errorf("failed to recreate chunk index: %w", err)
	}
	b.index = idx
	return nil
}

// Close closes the index without deleting it.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
