// Package gitrepo materializes remote repositories into local working
// directories so they can be ingested like any local path.
package gitrepo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

var githubURLPattern = regexp.MustCompile(`^https?://github\.com/[^/]+/[^/]+`)

// IsRemoteURL reports whether target looks like a clonable repository URL
// rather than a local path.
func IsRemoteURL(target string) bool {
	return githubURLPattern.MatchString(target) ||
		strings.HasPrefix(target, "git@") ||
		strings.HasSuffix(target, ".git")
}

// RepoNameFromURL extracts the repository name from a clone URL.
func RepoNameFromURL(url string) string {
	name := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "repo"
	}
	return name
}

// IsGitInstalled checks if git is available on the system.
func IsGitInstalled(ctx context.Context) bool {
	return exec.CommandContext(ctx, "git", "--version").Run() == nil
}

// Workspace is a temporary directory holding cloned repositories. One
// workspace serves a whole process; Cleanup removes everything at exit.
type Workspace struct {
	root string
}

// NewWorkspace creates an empty workspace under the system temp directory.
func NewWorkspace() (*Workspace, error) {
	root, err := os.MkdirTemp("", "codequery-repos-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{root: root}, nil
}

// Clone performs a shallow clone of url into the workspace and returns the
// checkout path. A repository already cloned in this workspace is cloned
// again into a fresh directory so the checkout is always current.
func (w *Workspace) Clone(ctx context.Context, url string) (string, error) {
	if !IsGitInstalled(ctx) {
		return "", fmt.Errorf("git is not installed")
	}

	dir, err := os.MkdirTemp(w.root, RepoNameFromURL(url)+"-")
	if err != nil {
		return "", fmt.Errorf("failed to create clone directory: %w", err)
	}

	dest := filepath.Join(dir, RepoNameFromURL(url))
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", url, dest)

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("git clone failed: %v: %s", err, strings.TrimSpace(string(output)))
	}
	return dest, nil
}

// Cleanup removes the workspace and every clone in it.
func (w *Workspace) Cleanup() error {
	if w.root == "" {
		return nil
	}
	return os.RemoveAll(w.root)
}
