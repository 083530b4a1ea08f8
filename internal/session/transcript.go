package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ChamsBouzaiene/codequery/internal/answerer"
)

// Transcript is a persisted conversation about one repository.
type Transcript struct {
	ID        string          `json:"id"`
	RepoPath  string          `json:"repo_path"`
	RepoHash  string          `json:"repo_hash"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Turns     []answerer.Turn `json:"turns"`
}

// TranscriptMeta is a lightweight representation for listing.
type TranscriptMeta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	TurnCount int       `json:"turn_count"`
}

// TranscriptStore persists transcripts as JSON files, scoped per
// repository by a short path hash.
type TranscriptStore struct {
	basePath string
}

// NewTranscriptStore creates a store rooted at configPath/transcripts.
func NewTranscriptStore(configPath string) *TranscriptStore {
	return &TranscriptStore{basePath: filepath.Join(configPath, "transcripts")}
}

// NewTranscript creates an empty transcript for a repository.
func (ts *TranscriptStore) NewTranscript(repoPath string) *Transcript {
	now := time.Now()
	return &Transcript{
		ID:        uuid.NewString(),
		RepoPath:  repoPath,
		RepoHash:  RepoHash(repoPath),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RepoHash generates a consistent short hash for a repository path.
func RepoHash(repoPath string) string {
	hash := sha256.Sum256([]byte(filepath.Clean(repoPath)))
	return hex.EncodeToString(hash[:])[:12]
}

// Save persists a transcript to disk.
func (ts *TranscriptStore) Save(t *Transcript) error {
	if t.RepoHash == "" {
		t.RepoHash = RepoHash(t.RepoPath)
	}
	t.UpdatedAt = time.Now()

	dir := filepath.Join(ts.basePath, t.RepoHash)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create transcript directory: %w", err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.json", t.ID))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write transcript file: %w", err)
	}
	return nil
}

// Load retrieves a transcript by id for a repository.
func (ts *TranscriptStore) Load(id, repoPath string) (*Transcript, error) {
	filename := filepath.Join(ts.basePath, RepoHash(repoPath), fmt.Sprintf("%s.json", id))

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript file: %w", err)
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return &t, nil
}

// List returns the transcripts recorded for a repository, newest first.
func (ts *TranscriptStore) List(repoPath string) ([]TranscriptMeta, error) {
	dir := filepath.Join(ts.basePath, RepoHash(repoPath))

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []TranscriptMeta{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list transcript directory: %w", err)
	}

	var metas []TranscriptMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue // Skip unreadable files
		}

		var t Transcript
		if err := json.Unmarshal(data, &t); err != nil {
			continue // Skip invalid files
		}

		metas = append(metas, TranscriptMeta{
			ID:        t.ID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
			TurnCount: len(t.Turns),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}
