// Package harness runs YAML game scenarios against real sessions.
//
// Each scenario gets a fresh in-memory store, a manual wall clock starting
// at testutil.Epoch and a fixed game id, so two runs of the same scenario
// produce byte-identical traces. After the last step the recorded log is
// replayed and must reproduce the final snapshot hash.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	game: set                # or memorize
//	params: { max_count: 3, initial_deal: 12 }
//	theme: { builtin: Animals }   # memorize only; or name/pairs/content
//	seed: 7
//	shuffle: false
//	bonus_time: 10s
//	steps:
//	  - intent: select
//	    card: 0
//	    advance: 2s
//	    expect: { match_present: false, board_size: 12 }
//	assertions:
//	  - type: card_state
//	    card: 0
//	    state: selected
//	  - type: intent_count
//	    value: 1
//
// Unknown fields are rejected, so a typo fails loudly instead of being
// silently ignored.
//
// # Golden Traces
//
// RunWithGolden compares a scenario's canonical JSON trace against
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
