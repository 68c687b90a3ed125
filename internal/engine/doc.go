// Package engine runs game sessions.
//
// A Session owns one memorize or set game and is its only writer. Callers
// submit intents with Apply; each one mutates the game, is stamped with the
// next seq from the session's logical Clock, and yields an immutable
// Snapshot whose Hash covers the whole visible state.
//
// # Determinism
//
// A game is fully determined by its record (kind, theme or params, seed)
// and its intents:
//   - every random choice comes from a PCG source seeded from the record
//   - seqs come from the logical clock, never from wall time
//   - the wall clock is read once per intent and that instant is recorded
//
// Replay feeds the same inputs back and compares snapshot hashes.
//
// # Recording
//
// With a Recorder (normally *store.Store) the session writes its game record
// on creation and one intent record per Apply. Intent ids are
// content-addressed (ir.IntentID), so re-recording an intent is a no-op.
package engine
