package harness

import (
	"slices"

	"github.com/roach88/matchgame/internal/engine"
)

// TraceEvent summarizes the snapshot produced by one intent.
//
// Memorize events fill Score, FaceUp and Matched. Set events fill the board
// fields. Card ids are sorted so shuffles do not change the trace; memorize
// content is left out because it depends on the seed.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Action string `json:"action"`
	Card   int    `json:"card"`

	Score   int   `json:"score"`
	FaceUp  []int `json:"face_up,omitempty"`
	Matched []int `json:"matched,omitempty"`

	MatchPresent bool  `json:"match_present,omitempty"`
	Board        []int `json:"board,omitempty"`
	Selected     []int `json:"selected,omitempty"`
	Mismatched   []int `json:"mismatched,omitempty"`
	Undealt      int   `json:"undealt,omitempty"`
	Discarded    int   `json:"discarded,omitempty"`
}

// newTraceEvent builds the trace entry for snap.
func newTraceEvent(in engine.Intent, snap engine.Snapshot) TraceEvent {
	ev := TraceEvent{
		Seq:    snap.Seq,
		Action: string(in.Action),
		Card:   in.Card,
	}
	switch snap.Kind {
	case engine.KindMemorize:
		ev.Score = snap.Score
		ev.FaceUp = []int{}
		ev.Matched = []int{}
		for _, c := range snap.Cards {
			switch {
			case c.Matched:
				ev.Matched = append(ev.Matched, c.ID)
			case c.FaceUp:
				ev.FaceUp = append(ev.FaceUp, c.ID)
			}
		}
		slices.Sort(ev.FaceUp)
		slices.Sort(ev.Matched)
	case engine.KindSet:
		ev.MatchPresent = snap.MatchPresent
		ev.Undealt = snap.Undealt
		ev.Discarded = snap.Discarded
		ev.Board = []int{}
		ev.Selected = []int{}
		ev.Mismatched = []int{}
		ev.Matched = []int{}
		for _, c := range snap.Cards {
			ev.Board = append(ev.Board, c.ID)
			switch c.State {
			case "selected":
				ev.Selected = append(ev.Selected, c.ID)
			case "matched":
				ev.Matched = append(ev.Matched, c.ID)
			case "mismatched":
				ev.Mismatched = append(ev.Mismatched, c.ID)
			}
		}
		slices.Sort(ev.Selected)
		slices.Sort(ev.Matched)
		slices.Sort(ev.Mismatched)
	}
	return ev
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step expectation and assertion holds.
	Pass bool `json:"pass"`

	// GameID is the id the scenario's game was recorded under.
	GameID string `json:"game_id"`

	// Kind is the game kind.
	Kind engine.Kind `json:"kind"`

	// Trace contains one event per applied intent, in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the snapshot after the last applied intent.
	Final engine.Snapshot `json:"final"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends the event for one applied intent.
func (r *Result) AddTrace(in engine.Intent, snap engine.Snapshot) {
	r.Trace = append(r.Trace, newTraceEvent(in, snap))
}
