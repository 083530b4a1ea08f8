package docstore

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "docs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAndGetContent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	content := "def main():\n    pass\n"
	if err := s.PutFile(ctx, "src/app.py", "app.py", "py", content); err != nil {
		t.Fatalf("PutFile() error = %v", err)
	}

	got, ok, err := s.GetContent(ctx, "src/app.py")
	if err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	if !ok {
		t.Fatal("GetContent() ok = false, want true")
	}
	if got != content {
		t.Errorf("GetContent() = %q, want %q", got, content)
	}
}

func TestGetContent_Absent(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.GetContent(context.Background(), "missing.go")
	if err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	if ok {
		t.Error("GetContent() ok = true for unknown path")
	}
}

func TestPutFile_Overwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.PutFile(ctx, "a.go", "a.go", "go", "old"); err != nil {
		t.Fatalf("PutFile() error = %v", err)
	}
	if err := s.PutFile(ctx, "a.go", "a.go", "go", "new"); err != nil {
		t.Fatalf("PutFile() error = %v", err)
	}

	got, _, err := s.GetContent(ctx, "a.go")
	if err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	if got != "new" {
		t.Errorf("GetContent() = %q, want %q", got, "new")
	}
}

func TestPutChunksAndCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.PutFile(ctx, "a.go", "a.go", "go", "content"); err != nil {
		t.Fatalf("PutFile() error = %v", err)
	}

	metas := []ChunkMeta{
		{FilePath: "a.go", ChunkID: 0, FileType: "go", FileName: "a.go"},
		{FilePath: "a.go", ChunkID: 1, FileType: "go", FileName: "a.go"},
		{FilePath: "a.go", ChunkID: 2, FileType: "go", FileName: "a.go"},
	}
	if err := s.PutChunks(ctx, metas); err != nil {
		t.Fatalf("PutChunks() error = %v", err)
	}

	n, err := s.CountChunks(ctx, "a.go")
	if err != nil {
		t.Fatalf("CountChunks() error = %v", err)
	}
	if n != 3 {
		t.Errorf("CountChunks() = %d, want 3", n)
	}
}

func TestListPaths_Sorted(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"z.go", "a.go", "m/n.go"} {
		if err := s.PutFile(ctx, p, filepath.Base(p), "go", "x"); err != nil {
			t.Fatalf("PutFile(%s) error = %v", p, err)
		}
	}

	paths, err := s.ListPaths(ctx)
	if err != nil {
		t.Fatalf("ListPaths() error = %v", err)
	}

	want := []string{"a.go", "m/n.go", "z.go"}
	if len(paths) != len(want) {
		t.Fatalf("ListPaths() = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("ListPaths()[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.PutFile(ctx, "a.go", "a.go", "go", "x"); err != nil {
		t.Fatalf("PutFile() error = %v", err)
	}
	if err := s.PutChunks(ctx, []ChunkMeta{{FilePath: "a.go", ChunkID: 0, FileType: "go", FileName: "a.go"}}); err != nil {
		t.Fatalf("PutChunks() error = %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	paths, err := s.ListPaths(ctx)
	if err != nil {
		t.Fatalf("ListPaths() error = %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("ListPaths() after Clear = %v, want empty", paths)
	}

	n, err := s.CountChunks(ctx, "a.go")
	if err != nil {
		t.Fatalf("CountChunks() error = %v", err)
	}
	if n != 0 {
		t.Errorf("CountChunks() after Clear = %d, want 0", n)
	}
}
