package gitrepo

import (
	"os"
	"testing"
)

func TestIsRemoteURL(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"https://github.com/golang/go", true},
		{"http://github.com/golang/go.git", true},
		{"git@github.com:golang/go.git", true},
		{"https://gitlab.com/group/project.git", true},
		{"/home/me/projects/app", false},
		{"./relative/path", false},
		{"app", false},
	}
	for _, tt := range tests {
		if got := IsRemoteURL(tt.target); got != tt.want {
			t.Errorf("IsRemoteURL(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestRepoNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/golang/go.git", "go"},
		{"https://github.com/golang/go", "go"},
		{"https://github.com/golang/go/", "go"},
		{"git@github.com:owner/my-repo.git", "my-repo"},
		{"", "repo"},
	}
	for _, tt := range tests {
		if got := RepoNameFromURL(tt.url); got != tt.want {
			t.Errorf("RepoNameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestWorkspaceCleanup(t *testing.T) {
	w, err := NewWorkspace()
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}

	if _, err := os.Stat(w.root); err != nil {
		t.Fatalf("Workspace root missing: %v", err)
	}

	if err := w.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if _, err := os.Stat(w.root); !os.IsNotExist(err) {
		t.Error("Workspace root survived Cleanup")
	}
}
