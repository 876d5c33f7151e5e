package driving

import "context"

// MigrationService imports legacy per-file caches into the document store.
type MigrationService interface {
	// Migrate scans dir for legacy cache sidecars and imports every
	// complete set whose fingerprint is not already stored. Re-running
	// after a successful migration is a no-op.
	Migrate(ctx context.Context, dir string) (*MigrationReport, error)
}

// MigrationReport summarises one migration run.
type MigrationReport struct {
	// Scanned is the number of candidate source files inspected.
	Scanned int

	// Imported is the number of documents imported into the store.
	Imported int

	// AlreadyStored is the number skipped because their fingerprint
	// was already fully processed.
	AlreadyStored int

	// Incomplete is the number skipped because their legacy sidecars
	// were missing, partial or inconsistent. These documents are
	// regenerated from source on next use.
	Incomplete int
}
