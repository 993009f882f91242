// Package store keeps a SQLite log of descriptor compilations.
//
// Each row records the canonical JSON of a descriptor, the canonical JSON
// of what it compiled to (or the error it failed with) and any schema
// issues found. Rows are content addressed: the id hashes the collection,
// the depth bound and the input, so recording the same compilation twice is
// a no-op.
//
// The log backs determinism checks. Replay recompiles every stored input
// and reports rows whose output no longer matches.
//
// # Ordering
//
// Reads are ordered by seq, then id COLLATE BINARY. seq is a logical clock
// assigned at write time, so results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
