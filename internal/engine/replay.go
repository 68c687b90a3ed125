package engine

import (
	"context"
	"fmt"

	"github.com/roach88/matchgame/internal/store"
)

// ReplayResult summarizes a verified replay.
type ReplayResult struct {
	GameID  string
	Intents int
	Final   Snapshot
}

// Replay rebuilds a recorded game from its setup and intents and checks
// that every intent reproduces its recorded snapshot hash.
//
// Replay is deterministic because everything a game depends on is in the
// record: the seed drives card sets and shuffles, seqs come from a fresh
// logical clock, and each intent's recorded wall-clock instant is fed back
// for bonus-time accounting. Nothing is written; pass WithLogger to trace.
//
// The first mismatch returns a REPLAY_DIVERGED RuntimeError carrying both
// hashes.
func Replay(ctx context.Context, rec store.GameRecord, intents []store.IntentRecord, opts ...Option) (ReplayResult, error) {
	cfg, err := ConfigFromRecord(rec)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay %s: %w", rec.ID, err)
	}

	clock := &fixedClock{}
	clock.set(rec.CreatedAt)

	opts = append(opts, WithGameID(rec.ID), WithWallClock(clock), WithRecorder(nil))
	s, err := NewSession(ctx, cfg, opts...)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay %s: %w", rec.ID, err)
	}

	result := ReplayResult{GameID: rec.ID, Final: s.Snapshot()}
	for _, in := range intents {
		clock.set(in.AtUnixNano)
		snap, err := s.Apply(ctx, Intent{Action: Action(in.Action), Card: in.Card})
		if err != nil {
			return result, fmt.Errorf("replay %s seq %d: %w", rec.ID, in.Seq, err)
		}
		if snap.Seq != in.Seq || snap.Hash != in.SnapshotHash {
			return result, NewDivergenceError(rec.ID, in.Seq, in.SnapshotHash, snap.Hash)
		}
		result.Intents++
		result.Final = snap
	}

	s.logger.Debug("replay verified", "intents", result.Intents)
	return result, nil
}
