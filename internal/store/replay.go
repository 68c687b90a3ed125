package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GameLog is everything recorded for one game.
type GameLog struct {
	Game    GameRecord
	Intents []IntentRecord
	LastSeq int64
}

// ReadGameLog returns a game and its intents in application order.
// Returns an error wrapping sql.ErrNoRows if the game does not exist.
func (s *Store) ReadGameLog(ctx context.Context, gameID string) (GameLog, error) {
	g, err := s.ReadGame(ctx, gameID)
	if err != nil {
		return GameLog{}, fmt.Errorf("read game log %s: %w", gameID, err)
	}

	intents, err := s.ReadIntents(ctx, gameID)
	if err != nil {
		return GameLog{}, fmt.Errorf("read game log %s: %w", gameID, err)
	}

	log := GameLog{Game: g, Intents: intents}
	if n := len(intents); n > 0 {
		log.LastSeq = intents[n-1].Seq
	}
	return log, nil
}

// GetLastSeq returns the highest seq recorded for a game, or 0 when the
// game has no intents.
func (s *Store) GetLastSeq(ctx context.Context, gameID string) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(seq) FROM intents WHERE game_id = ?`, gameID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq.Int64, nil
}

// IsNotFound reports whether err means a requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
