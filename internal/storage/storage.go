// Package storage defines the Persister interface — the contract any
// durable backend must satisfy to hold the roster.
//
// WHY AN INTERFACE?
// ─────────────────
// The registry (which owns validation, uniqueness and ordering) should
// not know or care where the bytes land. By depending only on this
// interface:
//
//   - Switching backends = implement the interface for the new store,
//     change one line in main.go. Zero registry changes.
//
//   - Writing tests = pass an in-memory fake that satisfies the
//     interface. No filesystem or database needed.
//
// The contract is deliberately a whole-collection snapshot, not row-level
// CRUD: after every successful mutation the registry hands over the full
// roster and the backend replaces whatever it held before. A crash
// between mutations therefore never exposes a half-written record.
package storage

import "github.com/mustafa-murtaza/studentms/internal/types"

// Persister is the durable storage contract.
type Persister interface {
	// Load reads the entire roster in stored order. A backend that has
	// never been written to returns an empty slice, not an error.
	// Unreadable individual records are skipped with a logged warning
	// so startup succeeds with whatever can be recovered.
	Load() ([]types.Student, error)

	// Save atomically replaces the stored roster with the given
	// collection, preserving its order.
	Save(students []types.Student) error
}
