package store

import (
	"context"
	"fmt"
	"strings"
)

// GameFilter narrows FindGames. Zero fields match everything.
type GameFilter struct {
	Kind string

	// Since keeps games created at or after this Unix nanosecond instant.
	Since int64

	// Limit caps the number of games returned. Zero means no limit.
	Limit int
}

// compile builds a parameterized query for f. Values are always bound as
// parameters, and the ORDER BY is fixed so results never depend on SQLite's
// row order.
func (f GameFilter) compile() (string, []any, error) {
	if f.Limit < 0 {
		return "", nil, fmt.Errorf("game filter: negative limit %d", f.Limit)
	}

	var where []string
	var params []any
	if f.Kind != "" {
		where = append(where, "kind = ?")
		params = append(params, f.Kind)
	}
	if f.Since != 0 {
		where = append(where, "created_at >= ?")
		params = append(params, f.Since)
	}

	var b strings.Builder
	b.WriteString("SELECT " + gameColumns + " FROM games")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at ASC, id COLLATE BINARY ASC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, f.Limit)
	}
	return b.String(), params, nil
}

// FindGames returns the games matching f, oldest first. Games started in the
// same nanosecond are ordered by id.
func (s *Store) FindGames(ctx context.Context, f GameFilter) ([]GameRecord, error) {
	query, params, err := f.compile()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := []GameRecord{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}
