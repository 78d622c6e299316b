// Package kv implements the string-keyed persistent store the session
// service mirrors its state into, the Go counterpart of browser local storage.
//
// Backends
//
//   - MemoryStore: process-local map, used in tests and with -s memory.
//   - SQLiteStore: a single-file database (modernc.org/sqlite), the default.
//   - PostgresStore: shared database reached through pgx.
//   - S3Store: one object per key in an S3-compatible bucket.
//
// Contract
//
// Get returns (nil, nil) for an absent key. Remove of an absent key is not an
// error. Backends that can write several keys atomically also implement
// Transactional.
package kv
