package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/matchgame/internal/engine"
	"github.com/roach88/matchgame/internal/store"
	"github.com/roach88/matchgame/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and game id.
type Harness struct {
	store   *store.Store
	session *engine.Session
	clock   *testutil.ManualClock
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Start a recorded session from the scenario's game config
// 3. Apply steps, checking each expect clause
// 4. Evaluate assertions against the final snapshot and the store
// 5. Replay the recorded log and compare hashes
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	cfg, err := scenario.config()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	h := &Harness{
		store:  st,
		clock:  testutil.NewManualClock(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	h.session, err = engine.NewSession(ctx, cfg,
		engine.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.GameID)),
		engine.WithWallClock(h.clock),
		engine.WithRecorder(st),
		engine.WithLogger(h.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	result := NewResult()
	result.GameID = h.session.ID()
	result.Kind = h.session.Kind()
	result.Final = h.session.Snapshot()

	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	actx := &AssertionContext{
		Store:  st,
		Ctx:    ctx,
		GameID: result.GameID,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	if err := h.verifyReplay(ctx, result); err != nil {
		result.AddError(err.Error())
	}

	return result, nil
}

// executeSteps applies every step in order.
//
// An action the game does not accept fails the scenario but does not stop
// it; the remaining steps still run. Any other session error aborts.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		h.clock.Advance(step.Advance)

		in := engine.Intent{Action: engine.Action(step.Intent), Card: step.Card}
		snap, err := h.session.Apply(ctx, in)
		if engine.IsUnknownAction(err) {
			result.AddError(fmt.Sprintf("steps[%d]: %v", i, err))
			continue
		}
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		result.AddTrace(in, snap)
		result.Final = snap

		for _, msg := range checkExpect(step.Expect, snap) {
			result.AddError(fmt.Sprintf("steps[%d] (%s %d): %s", i, step.Intent, step.Card, msg))
		}

		h.logger.Info("step completed",
			"step", i,
			"seq", snap.Seq,
			"action", step.Intent,
			"card", step.Card,
		)
	}
	return nil
}

// checkExpect compares the fields set in e against snap.
func checkExpect(e *Expect, snap engine.Snapshot) []string {
	if e == nil {
		return nil
	}
	var errs []string
	if e.Score != nil && *e.Score != snap.Score {
		errs = append(errs, fmt.Sprintf("score = %d, want %d", snap.Score, *e.Score))
	}
	if e.MatchPresent != nil && *e.MatchPresent != snap.MatchPresent {
		errs = append(errs, fmt.Sprintf("match_present = %t, want %t", snap.MatchPresent, *e.MatchPresent))
	}
	if e.BoardSize != nil && *e.BoardSize != len(snap.Cards) {
		errs = append(errs, fmt.Sprintf("board_size = %d, want %d", len(snap.Cards), *e.BoardSize))
	}
	return errs
}

// verifyReplay replays the recorded log and checks it ends where the run did.
func (h *Harness) verifyReplay(ctx context.Context, result *Result) error {
	log, err := h.store.ReadGameLog(ctx, result.GameID)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	replayed, err := engine.Replay(ctx, log.Game, log.Intents, engine.WithLogger(h.logger))
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if replayed.Final.Hash != result.Final.Hash {
		return fmt.Errorf("replay: final hash %s, want %s", replayed.Final.Hash, result.Final.Hash)
	}
	return nil
}
