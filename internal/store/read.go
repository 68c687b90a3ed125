package store

import (
	"context"
	"database/sql"
	"fmt"
)

const gameColumns = `id, kind, theme, seed, shuffle, initial_deal, max_count, bonus_ms, created_at`

// ReadGame retrieves a single game by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadGame(ctx context.Context, id string) (GameRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE id = ?
	`, id)
	return scanGame(row)
}

// ListGames returns every game, oldest first.
func (s *Store) ListGames(ctx context.Context) ([]GameRecord, error) {
	return s.FindGames(ctx, GameFilter{})
}

// ReadIntents returns a game's intents in application order:
// ORDER BY seq ASC, id COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if the game has no intents.
func (s *Store) ReadIntents(ctx context.Context, gameID string) ([]IntentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, game_id, seq, action, card, at_unix_nano, snapshot_hash
		FROM intents
		WHERE game_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query intents: %w", err)
	}
	defer rows.Close()

	intents := []IntentRecord{}
	for rows.Next() {
		var in IntentRecord
		if err := rows.Scan(
			&in.ID,
			&in.GameID,
			&in.Seq,
			&in.Action,
			&in.Card,
			&in.AtUnixNano,
			&in.SnapshotHash,
		); err != nil {
			return nil, fmt.Errorf("scan intent: %w", err)
		}
		intents = append(intents, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intents: %w", err)
	}
	return intents, nil
}

// CountIntents returns how many intents a game has recorded.
func (s *Store) CountIntents(ctx context.Context, gameID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM intents WHERE game_id = ?`, gameID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count intents: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (GameRecord, error) {
	var g GameRecord
	err := row.Scan(
		&g.ID,
		&g.Kind,
		&g.Theme,
		&g.Seed,
		&g.Shuffle,
		&g.InitialDeal,
		&g.MaxCount,
		&g.BonusMillis,
		&g.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return GameRecord{}, err
	}
	if err != nil {
		return GameRecord{}, fmt.Errorf("scan game: %w", err)
	}
	return g, nil
}
