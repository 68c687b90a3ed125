package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameFilter_Compile(t *testing.T) {
	tests := []struct {
		name       string
		filter     GameFilter
		wantSQL    string
		wantParams []any
	}{
		{
			name:    "empty",
			filter:  GameFilter{},
			wantSQL: "SELECT " + gameColumns + " FROM games ORDER BY created_at ASC, id COLLATE BINARY ASC",
		},
		{
			name:       "all fields",
			filter:     GameFilter{Kind: "set", Since: 100, Limit: 5},
			wantSQL:    "SELECT " + gameColumns + " FROM games WHERE kind = ? AND created_at >= ? ORDER BY created_at ASC, id COLLATE BINARY ASC LIMIT ?",
			wantParams: []any{"set", int64(100), 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := tt.filter.compile()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestGameFilter_NegativeLimit(t *testing.T) {
	_, _, err := GameFilter{Limit: -1}.compile()
	assert.ErrorContains(t, err, "negative limit")
}

func TestFindGames(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	memo := createTestGame("m", 15)
	memo.Kind = "memorize"
	require.NoError(t, s.WriteGame(ctx, createTestGame("s1", 10)))
	require.NoError(t, s.WriteGame(ctx, memo))
	require.NoError(t, s.WriteGame(ctx, createTestGame("s2", 20)))
	require.NoError(t, s.WriteGame(ctx, createTestGame("s3", 30)))

	ids := func(games []GameRecord) []string {
		var out []string
		for _, g := range games {
			out = append(out, g.ID)
		}
		return out
	}

	games, err := s.FindGames(ctx, GameFilter{Kind: "set"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3"}, ids(games))

	games, err = s.FindGames(ctx, GameFilter{Since: 15, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"m", "s2"}, ids(games))

	games, err = s.FindGames(ctx, GameFilter{Kind: "memorize", Since: 16})
	require.NoError(t, err)
	assert.Empty(t, games)
	assert.NotNil(t, games)
}
