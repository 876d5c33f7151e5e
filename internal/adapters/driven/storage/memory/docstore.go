package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// It is used in tests and as an explicit no-persistence fallback.
type DocumentStore struct {
	mu     sync.RWMutex
	nextID int64
	docs   map[string]domain.StoredDocument // keyed by fingerprint
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[string]domain.StoredDocument),
	}
}

// Exists reports whether a document with the given fingerprint is stored.
// In-memory saves are all-or-nothing, so stored means fully processed.
func (s *DocumentStore) Exists(_ context.Context, fingerprint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[fingerprint]
	return ok, nil
}

// Save persists a document with its chunks and search index.
// Any existing document with the same filename is superseded.
func (s *DocumentStore) Save(_ context.Context, doc *domain.Document, chunks []domain.Chunk, index *domain.SearchIndex) error {
	if doc == nil || index == nil {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for fp, stored := range s.docs {
		if stored.Document.Filename == doc.Filename {
			delete(s.docs, fp)
		}
	}

	s.nextID++
	doc.ID = s.nextID
	if doc.ProcessedAt.IsZero() {
		doc.ProcessedAt = time.Now().UTC()
	}

	copied := make([]domain.Chunk, len(chunks))
	copy(copied, chunks)
	for i := range copied {
		copied[i].DocumentID = doc.ID
	}

	index.DocumentID = doc.ID
	if index.CreatedAt.IsZero() {
		index.CreatedAt = time.Now().UTC()
	}

	s.docs[doc.Fingerprint] = domain.StoredDocument{
		Document: *doc,
		Chunks:   copied,
		Index:    *index,
	}
	return nil
}

// Load retrieves all stored artifacts for a fingerprint.
func (s *DocumentStore) Load(_ context.Context, fingerprint string) (*domain.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.docs[fingerprint]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &stored, nil
}

// GetByFilename returns the most recently processed document for a filename.
func (s *DocumentStore) GetByFilename(_ context.Context, filename string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *domain.Document
	for fp := range s.docs {
		doc := s.docs[fp].Document
		if doc.Filename != filename {
			continue
		}
		if found == nil || doc.ProcessedAt.After(found.ProcessedAt) {
			found = &doc
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

// List returns all stored documents, newest first.
func (s *DocumentStore) List(_ context.Context) ([]domain.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]domain.DocumentInfo, 0, len(s.docs))
	for _, stored := range s.docs {
		infos = append(infos, domain.DocumentInfo{
			ID:          stored.Document.ID,
			Filename:    stored.Document.Filename,
			Fingerprint: stored.Document.Fingerprint,
			ProcessedAt: stored.Document.ProcessedAt,
			ChunkCount:  len(stored.Chunks),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ProcessedAt.After(infos[j].ProcessedAt)
	})
	return infos, nil
}

// Delete removes a document by fingerprint.
func (s *DocumentStore) Delete(_ context.Context, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[fingerprint]; !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, fingerprint)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *DocumentStore) Close() error {
	return nil
}
