// Package ir provides the canonical value encoding used for hashing game
// snapshots and deriving intent ids.
//
// ir imports nothing internal. Constraints:
//   - no float values; fractions are scaled to int
//   - no null
//   - JSON keys use snake_case
package ir
