package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchgame/internal/engine"
	"github.com/roach88/matchgame/internal/setgame"
	"github.com/roach88/matchgame/internal/store"
	"github.com/roach88/matchgame/internal/testutil"
	"github.com/roach88/matchgame/internal/theme"
)

func executeReplay(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewReplayCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// recordGame plays intents into the database at dbPath.
func recordGame(t *testing.T, dbPath, gameID string, cfg engine.Config, intents ...engine.Intent) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	clock := testutil.NewManualClock()
	session, err := engine.NewSession(ctx, cfg,
		engine.WithGameID(gameID),
		engine.WithWallClock(clock),
		engine.WithRecorder(st),
	)
	require.NoError(t, err)

	for _, in := range intents {
		clock.Advance(time.Second)
		_, err := session.Apply(ctx, in)
		require.NoError(t, err)
	}
}

func setConfig(seed int64) engine.Config {
	return engine.Config{Kind: engine.KindSet, Seed: seed, Shuffle: true, Params: setgame.DefaultParams}
}

func memorizeConfig(seed int64) engine.Config {
	return engine.Config{
		Kind:           engine.KindMemorize,
		Seed:           seed,
		Theme:          theme.New("Letters", theme.RGBA{Alpha: 1}, 3, []string{"a", "b", "c"}),
		BonusTimeLimit: 10 * time.Second,
	}
}

func TestReplayMissingDatabaseFlag(t *testing.T) {
	_, err := executeReplay(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestReplayEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	st.Close()

	out, err := executeReplay(t, "text", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No games found")

	out, err = executeReplay(t, "json", "--db", dbPath)
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestReplayWithGames(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	recordGame(t, dbPath, "memo-1", memorizeConfig(4),
		engine.Intent{Action: engine.ActionDeal},
		engine.Intent{Action: engine.ActionChoose, Card: 0},
		engine.Intent{Action: engine.ActionChoose, Card: 3},
		engine.Intent{Action: engine.ActionShuffle},
	)
	recordGame(t, dbPath, "set-1", setConfig(8),
		engine.Intent{Action: engine.ActionSelect, Card: 10},
		engine.Intent{Action: engine.ActionDeal},
	)

	out, err := executeReplay(t, "text", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "2 game(s)")
	assert.Contains(t, out, "✓ Game: memo-1 (memorize)")
	assert.Contains(t, out, "4 verified of 4")
	assert.Contains(t, out, "✓ Game: set-1 (set)")
	assert.Contains(t, out, "2 verified of 2")
	assert.Contains(t, out, "All games verified deterministic")
}

func TestReplayJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	recordGame(t, dbPath, "set-1", setConfig(8),
		engine.Intent{Action: engine.ActionDeal},
	)

	out, err := executeReplay(t, "json", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.AllDeterministic)
	require.Len(t, resp.Data.Games, 1)
	assert.Equal(t, "set-1", resp.Data.Games[0].GameID)
	assert.Equal(t, 1, resp.Data.Games[0].Verified)
	assert.NotEmpty(t, resp.Data.Games[0].FinalHash)
}

func TestReplaySpecificGame(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	recordGame(t, dbPath, "game-a", setConfig(1), engine.Intent{Action: engine.ActionDeal})
	recordGame(t, dbPath, "game-b", setConfig(2), engine.Intent{Action: engine.ActionDeal})

	out, err := executeReplay(t, "text", "--db", dbPath, "--game", "game-a")
	require.NoError(t, err)
	assert.Contains(t, out, "game-a")
	assert.NotContains(t, out, "game-b")

	_, err = executeReplay(t, "text", "--db", dbPath, "--game", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "game not found")
}

func TestReplayKindFilter(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	recordGame(t, dbPath, "memo-1", memorizeConfig(4), engine.Intent{Action: engine.ActionDeal})
	recordGame(t, dbPath, "set-1", setConfig(8), engine.Intent{Action: engine.ActionDeal})

	out, err := executeReplay(t, "text", "--db", dbPath, "--kind", "memorize")
	require.NoError(t, err)
	assert.Contains(t, out, "1 game(s)")
	assert.Contains(t, out, "memo-1")
	assert.NotContains(t, out, "set-1")

	_, err = executeReplay(t, "text", "--db", dbPath, "--kind", "poker")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplayDetectsTamperedLog(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	recordGame(t, dbPath, "set-1", setConfig(3),
		engine.Intent{Action: engine.ActionDeal},
		engine.Intent{Action: engine.ActionDeal},
	)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	_, err = st.DB().Exec(`UPDATE intents SET snapshot_hash = 'tampered' WHERE game_id = 'set-1' AND seq = 2`)
	require.NoError(t, err)
	st.Close()

	out, err := executeReplay(t, "text", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Game: set-1")
	assert.Contains(t, out, "1 verified of 2")
	assert.Contains(t, out, "REPLAY_DIVERGED")

	out, err = executeReplay(t, "json", "--db", dbPath)
	require.Error(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeDeterminism, resp.Error.Code)
}

func TestReplayNonExistentDatabase(t *testing.T) {
	_, err := executeReplay(t, "text", "--db", "/nonexistent/path/test.db")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestReplayHelpText(t *testing.T) {
	out, err := executeReplay(t, "text", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "Rebuild recorded games")
	assert.Contains(t, out, "--db")
	assert.Contains(t, out, "--game")
	assert.Contains(t, out, "deterministic")
}
