package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed document store. It persists documents,
// chunks, embeddings and search indices keyed by content fingerprint.
//
// Concurrent writers to the same fingerprint are undefined behaviour;
// callers must serialize by fingerprint.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.DocumentStore = (*Store)(nil)

// NewStore creates a SQLite store at the given database path.
// If dbPath is empty, defaults to ~/.docchat/documents.db.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".docchat", "documents.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Exists reports whether a document with the given fingerprint is fully
// processed: the document row, at least one embedding per chunk, and the
// search index must all be present.
func (s *Store) Exists(ctx context.Context, fingerprint string) (bool, error) {
	var docID int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM documents WHERE file_hash = ?", fingerprint).Scan(&docID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: checking document: %w", domain.ErrStorage, err)
	}

	// Any chunk without an embedding means the document is incomplete.
	var missing int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chunks c
		LEFT JOIN embeddings e ON e.chunk_id = c.id
		WHERE c.document_id = ? AND e.id IS NULL
	`, docID).Scan(&missing)
	if err != nil {
		return false, fmt.Errorf("%w: checking embeddings: %w", domain.ErrStorage, err)
	}
	if missing > 0 {
		return false, nil
	}

	var indexed int
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM search_indices WHERE document_id = ?", docID).Scan(&indexed)
	if err != nil {
		return false, fmt.Errorf("%w: checking search index: %w", domain.ErrStorage, err)
	}

	return indexed > 0, nil
}

// Save atomically persists a document with its chunks (each carrying an
// embedding) and its search index. Any existing document with the same
// filename is superseded inside the same transaction, so a failed save
// leaves no partially written document visible to Exists.
func (s *Store) Save(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, index *domain.SearchIndex) error {
	if doc == nil || index == nil {
		return domain.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Supersede: one live document per filename. ON DELETE CASCADE
	// removes the old chunks, embeddings and index.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM documents WHERE filename = ?", doc.Filename); err != nil {
		return fmt.Errorf("%w: superseding document: %w", domain.ErrStorage, err)
	}

	if doc.ProcessedAt.IsZero() {
		doc.ProcessedAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents (filename, file_hash, content_text, processed_date)
		VALUES (?, ?, ?, ?)
	`, doc.Filename, doc.Fingerprint, doc.Text, doc.ProcessedAt)
	if err != nil {
		return fmt.Errorf("%w: saving document: %w", domain.ErrStorage, err)
	}

	docID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: document id: %w", domain.ErrStorage, err)
	}
	doc.ID = docID

	chunkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, chunk_index, content, word_count)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing chunk statement: %w", domain.ErrStorage, err)
	}
	defer chunkStmt.Close()

	embStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (chunk_id, embedding_vector)
		VALUES (?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing embedding statement: %w", domain.ErrStorage, err)
	}
	defer embStmt.Close()

	for i := range chunks {
		chunk := &chunks[i]
		chunk.DocumentID = docID

		if _, err := chunkStmt.ExecContext(ctx, chunk.ID, docID, chunk.Position,
			chunk.Content, chunk.WordCount); err != nil {
			return fmt.Errorf("%w: saving chunk %d: %w", domain.ErrStorage, chunk.Position, err)
		}

		if _, err := embStmt.ExecContext(ctx, chunk.ID,
			float32SliceToBytes(chunk.Embedding)); err != nil {
			return fmt.Errorf("%w: saving embedding %d: %w", domain.ErrStorage, chunk.Position, err)
		}
	}

	if index.CreatedAt.IsZero() {
		index.CreatedAt = time.Now().UTC()
	}
	index.DocumentID = docID

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO search_indices (document_id, index_data, dimension, created_date)
		VALUES (?, ?, ?, ?)
	`, docID, index.Blob, index.Dimension, index.CreatedAt); err != nil {
		return fmt.Errorf("%w: saving search index: %w", domain.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", domain.ErrStorage, err)
	}
	return nil
}

// Load retrieves all stored artifacts for a fingerprint.
func (s *Store) Load(ctx context.Context, fingerprint string) (*domain.StoredDocument, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, file_hash, content_text, processed_date
		FROM documents WHERE file_hash = ?
	`, fingerprint)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}

	chunks, err := s.loadChunks(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	index, err := s.loadIndex(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	return &domain.StoredDocument{
		Document: *doc,
		Chunks:   chunks,
		Index:    *index,
	}, nil
}

// GetByFilename returns the most recently processed document row for a
// filename, without chunks.
func (s *Store) GetByFilename(ctx context.Context, filename string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, file_hash, content_text, processed_date
		FROM documents WHERE filename = ?
		ORDER BY processed_date DESC LIMIT 1
	`, filename)

	return scanDocument(row)
}

// List returns all stored documents, newest first.
func (s *Store) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.filename, d.file_hash, d.processed_date, COUNT(c.id)
		FROM documents d
		LEFT JOIN chunks c ON c.document_id = d.id
		GROUP BY d.id
		ORDER BY d.processed_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying documents: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var infos []domain.DocumentInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info domain.DocumentInfo
		if err := rows.Scan(&info.ID, &info.Filename, &info.Fingerprint,
			&info.ProcessedAt, &info.ChunkCount); err != nil {
			return nil, fmt.Errorf("%w: scanning document info: %w", domain.ErrStorage, err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating documents: %w", domain.ErrStorage, err)
	}

	return infos, nil
}

// Delete removes a document and all dependent rows by fingerprint.
func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE file_hash = ?", fingerprint)
	if err != nil {
		return fmt.Errorf("%w: deleting document: %w", domain.ErrStorage, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %w", domain.ErrStorage, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// loadChunks retrieves a document's chunks with embeddings, in position order.
func (s *Store) loadChunks(ctx context.Context, docID int64) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.document_id, c.chunk_index, c.content, c.word_count, e.embedding_vector
		FROM chunks c
		JOIN embeddings e ON e.chunk_id = c.id
		WHERE c.document_id = ?
		ORDER BY c.chunk_index
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Position,
			&chunk.Content, &chunk.WordCount, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("%w: scanning chunk: %w", domain.ErrStorage, err)
		}
		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating chunks: %w", domain.ErrStorage, err)
	}

	return chunks, nil
}

// loadIndex retrieves a document's search index.
func (s *Store) loadIndex(ctx context.Context, docID int64) (*domain.SearchIndex, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT document_id, index_data, dimension, created_date
		FROM search_indices WHERE document_id = ?
	`, docID)

	var index domain.SearchIndex
	if err := row.Scan(&index.DocumentID, &index.Blob, &index.Dimension, &index.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning search index: %w", domain.ErrStorage, err)
	}

	return &index, nil
}

// ==================== Helper Functions ====================

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.Filename, &doc.Fingerprint,
		&doc.Text, &doc.ProcessedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning document: %w", domain.ErrStorage, err)
	}
	return &doc, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
