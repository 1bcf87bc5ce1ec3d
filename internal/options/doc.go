// Package options persists the named key/value settings groups the setup
// wizard reads and writes.
//
// A record is loaded whole, modified in memory and written back whole.
// Concurrent saves to the same record are last-writer-wins; the stores are
// safe for concurrent use but do not lock across a read-modify-write cycle.
//
// Two backends are provided:
//
//	store := options.NewMemoryStore()
//	store, err := options.OpenSQLite(ctx, "data/options.db")
package options
