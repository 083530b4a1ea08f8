package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ChamsBouzaiene/codequery/internal/chunker"
	"github.com/ChamsBouzaiene/codequery/internal/collector"
	"github.com/ChamsBouzaiene/codequery/internal/docstore"
	"github.com/ChamsBouzaiene/codequery/internal/index"
)

// memIndex records ingested entries in memory.
type memIndex struct {
	entries   []index.Entry
	teardowns int
}

func (m *memIndex) Ingest(ctx context.Context, entries []index.Entry) error {
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *memIndex) Query(ctx context.Context, text string, k int) ([]index.Hit, error) {
	return nil, nil
}

func (m *memIndex) Teardown() error {
	m.entries = nil
	m.teardowns++
	return nil
}

func newTestSession(t *testing.T) (*Session, *memIndex) {
	t.Helper()
	store, err := docstore.Open(context.Background(), filepath.Join(t.TempDir(), "docs.db"))
	if err != nil {
		t.Fatalf("docstore.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	idx := &memIndex{}
	s := New(Config{
		Collector: collector.New(nil),
		Chunker:   chunker.New(200, 40),
		Store:     store,
		Index:     idx,
	})
	return s, idx
}

func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func TestLoad_IngestsFiles(t *testing.T) {
	s, idx := newTestSession(t)
	root := writeRepo(t, map[string]string{
		"app.py":       "def main():\n    pass\n",
		"src/util.py":  "def helper():\n    return 1\n",
		"empty.py":     "   \n",
		"skip/img.png": "binary",
	})

	n, err := s.Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Load() = %d files, want 2 (empty and non-matching skipped)", n)
	}
	if !s.Loaded() {
		t.Error("Loaded() = false after successful load")
	}
	if len(idx.entries) == 0 {
		t.Error("No chunks reached the index")
	}

	paths, err := s.Paths(context.Background())
	if err != nil {
		t.Fatalf("Paths() error = %v", err)
	}
	want := []string{"app.py", "src/util.py"}
	if len(paths) != len(want) {
		t.Fatalf("Paths() = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Paths()[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestLoad_EmptyRepositoryFails(t *testing.T) {
	s, _ := newTestSession(t)
	root := writeRepo(t, map[string]string{"only.png": "x"})

	_, err := s.Load(context.Background(), root)
	if err != ErrEmptyRepository {
		t.Errorf("Load() error = %v, want ErrEmptyRepository", err)
	}
	if s.Loaded() {
		t.Error("Loaded() = true after failed load")
	}
}

func TestLoad_ContentStoredVerbatim(t *testing.T) {
	s, _ := newTestSession(t)
	content := "def main():\n    print('héllo')  # exact bytes\n"
	root := writeRepo(t, map[string]string{"app.py": content})

	if _, err := s.Load(context.Background(), root); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got, ok, err := s.Content(context.Background(), "app.py")
	if err != nil || !ok {
		t.Fatalf("Content() = (%v, %v)", ok, err)
	}
	if got != content {
		t.Errorf("Content() = %q, want %q", got, content)
	}
}

func TestReset_IdempotentAndClearsState(t *testing.T) {
	s, idx := newTestSession(t)
	root := writeRepo(t, map[string]string{"a.go": "package a\n"})

	if _, err := s.Load(context.Background(), root); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s.Memory().Append("q", "a")

	s.Reset(context.Background())
	if s.Loaded() {
		t.Error("Loaded() = true after Reset")
	}
	if s.Memory().Len() != 0 {
		t.Error("Memory not cleared on Reset")
	}
	if len(idx.entries) != 0 {
		t.Error("Index not torn down on Reset")
	}

	// Second reset with nothing loaded must be a no-op, not a panic.
	s.Reset(context.Background())
	if s.Loaded() {
		t.Error("Loaded() = true after double Reset")
	}
}

func TestLoadResetLoad_RoundTrip(t *testing.T) {
	s, _ := newTestSession(t)
	root := writeRepo(t, map[string]string{
		"a.go":     "package a\n",
		"b/c.go":   "package b\n",
		"d/e/f.py": "x = 1\n",
	})
	ctx := context.Background()

	if _, err := s.Load(ctx, root); err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	first, err := s.Paths(ctx)
	if err != nil {
		t.Fatalf("Paths() error = %v", err)
	}

	s.Reset(ctx)

	if _, err := s.Load(ctx, root); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	second, err := s.Paths(ctx)
	if err != nil {
		t.Fatalf("Paths() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("Path sets differ: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Path[%d] differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestLoad_ReplacesPriorSnapshot(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	first := writeRepo(t, map[string]string{"old.go": "package old\n"})
	second := writeRepo(t, map[string]string{"new.go": "package new\n"})

	if _, err := s.Load(ctx, first); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s.Memory().Append("q", "a")

	if _, err := s.Load(ctx, second); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	paths, _ := s.Paths(ctx)
	if len(paths) != 1 || paths[0] != "new.go" {
		t.Errorf("Paths() = %v, want [new.go]", paths)
	}
	if s.Memory().Len() != 0 {
		t.Error("Memory survived a reload")
	}
}
