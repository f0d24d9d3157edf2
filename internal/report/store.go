package report

import "errors"

var (
	// ErrSchemaMismatch is returned when an append targets a store file whose
	// header was written under the other schema variant. Stores are not
	// migrated between variants.
	ErrSchemaMismatch = errors.New("store schema does not match configured column set")

	// ErrPositionOutOfRange is returned by DeleteByPositions when a position
	// does not address an existing row.
	ErrPositionOutOfRange = errors.New("position out of range")
)

// Store is the append-only event store for health reports. It is the ground
// truth for all analytics; records are never rewritten except by the
// administrative DeleteByPositions.
//
// Implementations serialize every operation behind a single exclusive lock:
// the engine assumes single-writer semantics, and a delete rewrites the whole
// file, so any concurrent read-modify-write must not interleave. Positions
// returned by LoadAll order are a snapshot invalidated by any mutation.
type Store interface {
	// EnsureInitialized creates the backing storage with the header row if it
	// does not exist yet. Idempotent.
	EnsureInitialized() error

	// Append writes one validated record as the new last row. IO failures are
	// propagated, not retried; the prior rows are never touched.
	Append(r *HealthReport) error

	// LoadAll returns the full record sequence in file order (oldest first by
	// position, not necessarily by symptom date). An unreadable store is
	// degraded to an empty result rather than an error; see the package
	// documentation for the tradeoff.
	LoadAll() []*HealthReport

	// DeleteByPositions rewrites the store omitting the given zero-based
	// LoadAll positions. The rewrite either fully succeeds or leaves the
	// prior file intact.
	DeleteByPositions(positions []int) error
}
