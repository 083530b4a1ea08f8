package collector

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// File describes a collected source file. Path is relative to the
// collection root and uses forward slashes.
type File struct {
	Path string
	Name string
	Ext  string // extension without the leading dot
}

// DefaultExtensions is the allow-list used when no explicit set is given.
var DefaultExtensions = []string{
	".go", ".py", ".js", ".jsx", ".ts", ".tsx",
	".java", ".c", ".h", ".cpp", ".hpp", ".cs", ".rb", ".rs",
	".css", ".html", ".json", ".md", ".yaml", ".yml",
}

// DefaultIgnorePatterns are dependency, build and cache directories that are
// never worth indexing.
var DefaultIgnorePatterns = []string{
	".git",
	"node_modules",
	"vendor",
	"dist",
	"build",
	"__pycache__",
	"venv",
	"coverage",
	".next",
	".cache",
	"target",
	"bin",
	"obj",
	".expo",
	".expo-shared",
	".idea",
	".vscode",
	".DS_Store",
}

// Collector walks a repository root and returns files matching an extension
// allow-list, excluding hidden and ignored directories. Traversal is
// read-only.
type Collector struct {
	exts map[string]bool
}

// New creates a collector. A nil or empty extension list selects
// DefaultExtensions.
func New(extensions []string) *Collector {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}
	return &Collector{exts: exts}
}

// Collect returns the matching files under root, sorted by path. A missing
// root is treated as "nothing to index" and yields an empty result rather
// than an error.
func (c *Collector) Collect(root string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	matcher := buildIgnoreMatcher(root)

	var files []File
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if hasHiddenComponent(relPath) || matcher.MatchesPath(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !c.exts[ext] {
			return nil
		}

		files = append(files, File{
			Path: relPath,
			Name: d.Name(),
			Ext:  strings.TrimPrefix(ext, "."),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// buildIgnoreMatcher combines the default exclusion set with the
// repository's own root .gitignore, if present.
func buildIgnoreMatcher(root string) gitignore.IgnoreParser {
	patterns := make([]string, 0, len(DefaultIgnorePatterns)+16)
	patterns = append(patterns, DefaultIgnorePatterns...)

	if lines, err := readGitignoreLines(filepath.Join(root, ".gitignore")); err == nil {
		patterns = append(patterns, lines...)
	}

	return gitignore.CompileIgnoreLines(patterns...)
}

// readGitignoreLines reads patterns from a .gitignore file.
func readGitignoreLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// hasHiddenComponent reports whether any path component starts with a dot.
func hasHiddenComponent(relPath string) bool {
	for _, part := range strings.Split(relPath, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
