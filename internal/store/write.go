package store

import (
	"context"
	"fmt"
)

// WriteGame inserts a game record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteGame(ctx context.Context, g GameRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games
		(id, kind, theme, seed, shuffle, initial_deal, max_count, bonus_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		g.ID,
		g.Kind,
		g.Theme,
		g.Seed,
		g.Shuffle,
		g.InitialDeal,
		g.MaxCount,
		g.BonusMillis,
		g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("write game: %w", err)
	}
	return nil
}

// WriteIntent appends an intent to its game's log.
// Uses ON CONFLICT(id) DO NOTHING: intent IDs are content-addressed, so
// recording the same intent twice is a no-op. A different intent at an
// already used seq violates the unique (game_id, seq) index and errors.
//
// Note: The game referenced by GameID must exist (foreign key constraint).
func (s *Store) WriteIntent(ctx context.Context, in IntentRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO intents
		(id, game_id, seq, action, card, at_unix_nano, snapshot_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		in.ID,
		in.GameID,
		in.Seq,
		in.Action,
		in.Card,
		in.AtUnixNano,
		in.SnapshotHash,
	)
	if err != nil {
		return fmt.Errorf("write intent: %w", err)
	}
	return nil
}
