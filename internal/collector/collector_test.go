package collector

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCollect_FiltersByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "app.py", "print('hi')")
	writeFile(t, root, "image.png", "binary")
	writeFile(t, root, "notes.txt", "text")

	files, err := New(nil).Collect(root)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	got := paths(files)
	want := []string{"app.py", "main.go"}
	if !equal(got, want) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
}

func TestCollect_SkipsHiddenAndExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.js", "ok")
	writeFile(t, root, "node_modules/pkg/index.js", "skip")
	writeFile(t, root, "vendor/lib/lib.go", "skip")
	writeFile(t, root, ".hidden/secret.go", "skip")
	writeFile(t, root, "build/out.js", "skip")

	files, err := New(nil).Collect(root)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	got := paths(files)
	want := []string{"src/app.js"}
	if !equal(got, want) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
}

func TestCollect_HonorsRepoGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\n")
	writeFile(t, root, "generated/gen.go", "skip")
	writeFile(t, root, "kept.go", "ok")

	files, err := New(nil).Collect(root)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	got := paths(files)
	want := []string{"kept.go"}
	if !equal(got, want) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
}

func TestCollect_MissingRootIsEmpty(t *testing.T) {
	files, err := New(nil).Collect(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Collect() error = %v, want nil", err)
	}
	if len(files) != 0 {
		t.Errorf("Collect() = %v, want empty", files)
	}
}

func TestCollect_StableOrdering(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.go", "b")
	writeFile(t, root, "a.go", "a")
	writeFile(t, root, "sub/c.go", "c")

	files, err := New(nil).Collect(root)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	got := paths(files)
	if !sort.StringsAreSorted(got) {
		t.Errorf("Collect() paths not sorted: %v", got)
	}
}

func TestCollect_PopulatesNameAndExt(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/components/Button.tsx", "export {}")

	files, err := New([]string{".tsx"}).Collect(root)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Got %d files, want 1", len(files))
	}

	f := files[0]
	if f.Path != "src/components/Button.tsx" {
		t.Errorf("Path = %q", f.Path)
	}
	if f.Name != "Button.tsx" {
		t.Errorf("Name = %q", f.Name)
	}
	if f.Ext != "tsx" {
		t.Errorf("Ext = %q", f.Ext)
	}
}

func paths(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
