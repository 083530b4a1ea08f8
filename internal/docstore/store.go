package docstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// ChunkMeta is the metadata record kept for each chunk of a stored file.
// It mirrors what the semantic index persists alongside the chunk text.
type ChunkMeta struct {
	FilePath string
	ChunkID  int
	FileType string
	FileName string
}

// Store persists the original content of every ingested file plus one
// metadata record per chunk. Ingestion is sequential per file, so no
// write locking beyond SQLite's own is needed.
type Store struct {
	db *sql.DB
}

// Open creates a store backed by the SQLite database at path, creating
// the schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	// WAL mode for concurrent readers; single writer matches the
	// sequential ingestion model.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	-- Original file content, one row per ingested file
	CREATE TABLE IF NOT EXISTS files (
		path    TEXT PRIMARY KEY,
		name    TEXT NOT NULL,
		ext     TEXT NOT NULL,
		content TEXT NOT NULL
	);

	-- Chunk bookkeeping, one row per chunk
	CREATE TABLE IF NOT EXISTS chunks (
		file_path TEXT NOT NULL,
		chunk_id  INTEGER NOT NULL,
		file_type TEXT NOT NULL,
		file_name TEXT NOT NULL,
		PRIMARY KEY (file_path, chunk_id),
		FOREIGN KEY (file_path) REFERENCES files(path) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_path ON chunks(file_path);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// PutFile stores or overwrites the record for a file.
func (s *Store) PutFile(ctx context.Context, path, name, ext, content string) error {
	query := `
		INSERT INTO files (path, name, ext, content)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			ext = excluded.ext,
			content = excluded.content
	`
	if _, err := s.db.ExecContext(ctx, query, path, name, ext, content); err != nil {
		return fmt.Errorf("failed to upsert file %s: %w", path, err)
	}
	return nil
}

// PutChunks registers chunk metadata under the (file_path, chunk_id)
// composite key. Existing records for the same keys are replaced.
func (s *Store) PutChunks(ctx context.Context, metas []ChunkMeta) error {
	if len(metas) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO chunks (file_path, chunk_id, file_type, file_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(file_path, chunk_id) DO UPDATE SET
			file_type = excluded.file_type,
			file_name = excluded.file_name
	`
	for _, m := range metas {
		if _, err := tx.ExecContext(ctx, query, m.FilePath, m.ChunkID, m.FileType, m.FileName); err != nil {
			return fmt.Errorf("failed to insert chunk %s#%d: %w", m.FilePath, m.ChunkID, err)
		}
	}

	return tx.Commit()
}

// GetContent returns the stored content for path. The boolean reports
// whether the path is known.
func (s *Store) GetContent(ctx context.Context, path string) (string, bool, error) {
	var content string
	err := s.db.QueryRowContext(ctx, `SELECT content FROM files WHERE path = ?`, path).Scan(&content)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return content, true, nil
}

// ListPaths returns all stored file paths, sorted.
func (s *Store) ListPaths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// CountChunks returns the number of chunk records for a file.
func (s *Store) CountChunks(ctx context.Context, path string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks WHERE file_path = ?`, path).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

// Clear removes every file and chunk record, returning the store to empty.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM files`); err != nil {
		return fmt.Errorf("failed to clear files: %w", err)
	}

	return tx.Commit()
}
