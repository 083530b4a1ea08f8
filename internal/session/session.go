// Package session owns the live state of one loaded repository: the
// document store, the semantic index and the conversation memory. Every
// load is a full rebuild; there is no incremental update model.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChamsBouzaiene/codequery/internal/chunker"
	"github.com/ChamsBouzaiene/codequery/internal/collector"
	"github.com/ChamsBouzaiene/codequery/internal/docstore"
	"github.com/ChamsBouzaiene/codequery/internal/index"
)

// ErrEmptyRepository is returned by Load when no file could be ingested.
var ErrEmptyRepository = errors.New("no indexable files found in repository")

// Config wires a session's collaborators.
type Config struct {
	Collector *collector.Collector
	Chunker   chunker.Chunker
	Store     *docstore.Store
	Index     index.Index
}

// Session tracks whether a repository is loaded and owns all state
// derived from it.
type Session struct {
	collector *collector.Collector
	chunker   chunker.Chunker
	store     *docstore.Store
	index     index.Index
	memory    *Memory

	root   string
	loaded bool
}

// New creates an unloaded session.
func New(cfg Config) *Session {
	return &Session{
		collector: cfg.Collector,
		chunker:   cfg.Chunker,
		store:     cfg.Store,
		index:     cfg.Index,
		memory:    NewMemory(),
	}
}

// Loaded reports whether a repository is currently loaded.
func (s *Session) Loaded() bool {
	return s.loaded
}

// Root returns the root of the loaded repository, if any.
func (s *Session) Root() string {
	return s.root
}

// Memory returns the conversation memory for the current session.
func (s *Session) Memory() *Memory {
	return s.memory
}

// Load ingests the repository at root, replacing any prior snapshot.
// Files that fail to read or chunk are logged and skipped; the load only
// fails when zero files survive. Returns the number of ingested files.
func (s *Session) Load(ctx context.Context, root string) (int, error) {
	// A load is a full rebuild: discard everything first.
	s.Reset(ctx)

	files, err := s.collector.Collect(root)
	if err != nil {
		return 0, fmt.Errorf("failed to collect files: %w", err)
	}

	var entries []index.Entry
	ingested := 0

	for _, f := range files {
		raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f.Path)))
		if err != nil {
			log.Printf("⚠️  Skipping %s: %v", f.Path, err)
			continue
		}

		content := string(raw)
		if strings.TrimSpace(content) == "" {
			continue
		}

		if err := s.store.PutFile(ctx, f.Path, f.Name, f.Ext, content); err != nil {
			log.Printf("⚠️  Skipping %s: %v", f.Path, err)
			continue
		}

		chunks := s.chunker.Split(content)
		metas := make([]docstore.ChunkMeta, 0, len(chunks))
		for i, text := range chunks {
			meta := index.Metadata{
				FilePath: f.Path,
				ChunkID:  i,
				FileType: f.Ext,
				FileName: f.Name,
			}
			metas = append(metas, docstore.ChunkMeta{
				FilePath: meta.FilePath,
				ChunkID:  meta.ChunkID,
				FileType: meta.FileType,
				FileName: meta.FileName,
			})
			entries = append(entries, index.Entry{Text: text, Meta: meta})
		}
		if err := s.store.PutChunks(ctx, metas); err != nil {
			log.Printf("⚠️  Skipping %s: %v", f.Path, err)
			continue
		}

		ingested++
	}

	if ingested == 0 {
		return 0, ErrEmptyRepository
	}

	if err := s.index.Ingest(ctx, entries); err != nil {
		return 0, fmt.Errorf("failed to index chunks: %w", err)
	}

	s.root = root
	s.loaded = true
	log.Printf("📁 Ingested %d files (%d chunks) from %s", ingested, len(entries), root)
	return ingested, nil
}

// Reset discards the current snapshot: document store, index collection
// and conversation memory. Idempotent; calling it with nothing loaded is
// a no-op. Index teardown is best-effort.
func (s *Session) Reset(ctx context.Context) {
	if err := s.index.Teardown(); err != nil {
		log.Printf("⚠️  Index teardown failed (continuing): %v", err)
	}
	if err := s.store.Clear(ctx); err != nil {
		log.Printf("⚠️  Document store clear failed (continuing): %v", err)
	}
	s.memory.Clear()
	s.root = ""
	s.loaded = false
}

// Paths returns the sorted file paths of the current snapshot.
func (s *Session) Paths(ctx context.Context) ([]string, error) {
	return s.store.ListPaths(ctx)
}

// Content returns the verbatim stored content of path.
func (s *Session) Content(ctx context.Context, path string) (string, bool, error) {
	return s.store.GetContent(ctx, path)
}
