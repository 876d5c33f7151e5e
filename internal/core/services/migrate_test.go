package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/storage/memory"
	"github.com/docchat-labs/docchat-cli/internal/fingerprint"
	"github.com/docchat-labs/docchat-cli/internal/index/bruteforce"
	"github.com/docchat-labs/docchat-cli/internal/legacy"
	"github.com/docchat-labs/docchat-cli/internal/legacy/legacytest"
	"github.com/docchat-labs/docchat-cli/internal/postprocessors"
	"github.com/docchat-labs/docchat-cli/internal/postprocessors/chunker"
)

func newMigrationService(store *memory.DocumentStore) *MigrationService {
	return NewMigrationService(
		store,
		postprocessors.NewPipeline(chunker.New(chunker.WithMaxWords(5))),
		bruteforce.NewBuilder(),
	)
}

// writeLegacySet lays out a complete legacy cache for a .txt source:
// the text file itself, an embeddings array with one row per chunk and
// an opaque index file.
func writeLegacySet(t *testing.T, dir, name, content string, rows [][]float32) string {
	t.Helper()
	path := writeFile(t, dir, name, content)
	set, err := legacy.SidecarsFor(path)
	require.NoError(t, err)
	require.NoError(t, legacytest.WriteMatrix(set.EmbeddingsPath, rows))
	writeFile(t, dir, name+".faiss", "opaque index bytes")
	return path
}

func TestMigrationService_Migrate(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newMigrationService(store)
	dir := t.TempDir()

	// 10 words, 5 per chunk: two chunks, so the matrix needs two rows.
	path := writeLegacySet(t, dir, "notes.txt",
		"one two three four five six seven eight nine ten",
		[][]float32{{1, 0, 0}, {0, 1, 0}})

	report, err := svc.Migrate(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Imported)
	assert.Zero(t, report.AlreadyStored)
	assert.Zero(t, report.Incomplete)

	fp, err := fingerprint.File(path)
	require.NoError(t, err)

	stored, err := store.Load(context.Background(), fp)
	require.NoError(t, err)
	assert.Equal(t, path, stored.Document.Filename)
	require.Len(t, stored.Chunks, 2)
	assert.Equal(t, []float32{1, 0, 0}, stored.Chunks[0].Embedding)
	assert.Equal(t, []float32{0, 1, 0}, stored.Chunks[1].Embedding)
	assert.Equal(t, 3, stored.Index.Dimension)
	assert.False(t, stored.Document.ProcessedAt.IsZero())
}

func TestMigrationService_Migrate_IsIdempotent(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newMigrationService(store)
	dir := t.TempDir()

	writeLegacySet(t, dir, "notes.txt",
		"one two three four five",
		[][]float32{{1, 0}})

	first, err := svc.Migrate(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Imported)

	second, err := svc.Migrate(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, second.Imported)
	assert.Equal(t, 1, second.AlreadyStored)
}

func TestMigrationService_Migrate_PartialSetSkipped(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newMigrationService(store)
	dir := t.TempDir()

	// Embeddings without the index file: artifacts exist but the set
	// is incomplete.
	path := writeFile(t, dir, "partial.txt", "one two three four five")
	set, err := legacy.SidecarsFor(path)
	require.NoError(t, err)
	require.NoError(t, legacytest.WriteMatrix(set.EmbeddingsPath, [][]float32{{1, 0}}))

	report, err := svc.Migrate(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Scanned)
	assert.Zero(t, report.Imported)
	assert.Equal(t, 1, report.Incomplete)
}

func TestMigrationService_Migrate_RowCountMismatchSkipped(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newMigrationService(store)
	dir := t.TempDir()

	// Two chunks of text but three embedding rows: inconsistent.
	path := writeLegacySet(t, dir, "stale.txt",
		"one two three four five six seven eight nine ten",
		[][]float32{{1, 0}, {0, 1}, {1, 1}})

	report, err := svc.Migrate(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Scanned)
	assert.Zero(t, report.Imported)
	assert.Equal(t, 1, report.Incomplete)

	fp, err := fingerprint.File(path)
	require.NoError(t, err)
	exists, err := store.Exists(context.Background(), fp)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMigrationService_Migrate_UntouchedFilesIgnored(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newMigrationService(store)
	dir := t.TempDir()

	// A plain text file with no sidecars is not a legacy cache.
	writeFile(t, dir, "fresh.txt", "nothing cached here")

	report, err := svc.Migrate(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, report.Scanned)
}

func TestMigrationService_Migrate_PDFSidecars(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newMigrationService(store)
	dir := t.TempDir()

	// For a PDF the legacy tool wrote the extracted text next to it.
	pdf := writeFile(t, dir, "report.pdf", "%PDF-1.4 fake")
	writeFile(t, dir, "report.txt", "one two three four five")
	set, err := legacy.SidecarsFor(pdf)
	require.NoError(t, err)
	require.NoError(t, legacytest.WriteMatrix(set.EmbeddingsPath, [][]float32{{1, 0}}))
	writeFile(t, dir, "report.txt.faiss", "opaque index bytes")

	report, err := svc.Migrate(context.Background(), dir)
	require.NoError(t, err)

	// The PDF and its text sidecar count as one set, not two.
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Imported)

	fp, err := fingerprint.File(pdf)
	require.NoError(t, err)
	stored, err := store.Load(context.Background(), fp)
	require.NoError(t, err)
	assert.Equal(t, pdf, stored.Document.Filename)
	assert.Equal(t, "one two three four five", stored.Document.Text)
}
