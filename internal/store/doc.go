// Package store provides SQLite-backed durable storage for game logs.
//
// The store is an append-only log with:
//   - Games: how each game was set up (kind, theme, seed, parameters)
//   - Intents: every applied player intent with the resulting snapshot hash
//
// # Ordering
//
// All ordering uses the logical seq column, never wall-clock columns.
// Intent queries use ORDER BY seq ASC, id COLLATE BINARY ASC so reads are
// identical across runs.
//
// # Idempotency
//
// Intent IDs are content-addressed (see ir.IntentID), and writes use
// ON CONFLICT(id) DO NOTHING. Writing the same intent twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
