package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/matchgame/internal/engine"
	"github.com/roach88/matchgame/internal/store"
)

// Memorize card states for card_state assertions.
const (
	StateFaceDown = "face_down"
	StateFaceUp   = "face_up"
	StateMatched  = "matched"

	// StateOffBoard is reported for set cards that are undealt or discarded.
	StateOffBoard = "off_board"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %d\n", event.Seq, event.Action, event.Card)
		}
	}

	return buf.String()
}

// CardState names the state of card id in snap.
func CardState(snap engine.Snapshot, id int) string {
	c, ok := snap.Card(id)
	if !ok {
		return StateOffBoard
	}
	if snap.Kind == engine.KindSet {
		return c.State
	}
	switch {
	case c.Matched:
		return StateMatched
	case c.FaceUp:
		return StateFaceUp
	default:
		return StateFaceDown
	}
}

// assertScore checks the memorize score.
func assertScore(result *Result, assertion Assertion) error {
	if result.Final.Score != *assertion.Value {
		return &AssertionError{
			Type:     AssertScore,
			Expected: fmt.Sprintf("score %d", *assertion.Value),
			Actual:   fmt.Sprintf("score %d", result.Final.Score),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertCardState checks one card's final state.
func assertCardState(result *Result, assertion Assertion) error {
	got := CardState(result.Final, *assertion.Card)
	if got != assertion.State {
		return &AssertionError{
			Type:     AssertCardState,
			Expected: fmt.Sprintf("card %d %s", *assertion.Card, assertion.State),
			Actual:   fmt.Sprintf("card %d %s", *assertion.Card, got),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertBoardSize checks how many cards are in play.
func assertBoardSize(result *Result, assertion Assertion) error {
	if n := len(result.Final.Cards); n != *assertion.Value {
		return &AssertionError{
			Type:     AssertBoardSize,
			Expected: fmt.Sprintf("%d cards", *assertion.Value),
			Actual:   fmt.Sprintf("%d cards", n),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertFaceUpCount checks how many cards are face up.
func assertFaceUpCount(result *Result, assertion Assertion) error {
	if n := len(result.Final.FaceUp()); n != *assertion.Value {
		return &AssertionError{
			Type:     AssertFaceUpCount,
			Expected: fmt.Sprintf("%d face-up cards", *assertion.Value),
			Actual:   fmt.Sprintf("%d face-up cards", n),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertIntentCount checks how many intents the store recorded for the game.
func assertIntentCount(ctx context.Context, st *store.Store, gameID string, assertion Assertion) error {
	n, err := st.CountIntents(ctx, gameID)
	if err != nil {
		return &AssertionError{
			Type:     AssertIntentCount,
			Expected: fmt.Sprintf("count intents for game %s", gameID),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}
	if n != *assertion.Value {
		return &AssertionError{
			Type:     AssertIntentCount,
			Expected: fmt.Sprintf("%d recorded intents", *assertion.Value),
			Actual:   fmt.Sprintf("%d recorded intents", n),
		}
	}
	return nil
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store  *store.Store
	Ctx    context.Context
	GameID string
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for intent_count assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertScore:
			err = assertScore(result, assertion)
		case AssertCardState:
			err = assertCardState(result, assertion)
		case AssertBoardSize:
			err = assertBoardSize(result, assertion)
		case AssertFaceUpCount:
			err = assertFaceUpCount(result, assertion)
		case AssertIntentCount:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: intent_count requires database context", i)
			} else {
				err = assertIntentCount(actx.Ctx, actx.Store, actx.GameID, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
