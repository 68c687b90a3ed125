package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchgame/internal/engine"
	"github.com/roach88/matchgame/internal/store"
	"github.com/roach88/matchgame/internal/testutil"
)

func testPlayOptions(format string) *PlayOptions {
	return &PlayOptions{
		RootOptions: &RootOptions{Format: format},
		IDGenerator: engine.NewFixedGenerator("game-1"),
		WallClock:   testutil.NewManualClock(),
	}
}

func executePlay(t *testing.T, opts *PlayOptions, stdin string, args ...string) (string, string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := newPlayCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), errBuf.String(), err
}

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    engine.Intent
		ok      bool
		wantErr string
	}{
		{"action with card", "choose 3", engine.Intent{Action: "choose", Card: 3}, true, ""},
		{"action only", "  deal  ", engine.Intent{Action: "deal"}, true, ""},
		{"blank", "   ", engine.Intent{}, false, ""},
		{"comment", "# warm up", engine.Intent{}, false, ""},
		{"json", `{"action":"select","card":2}`, engine.Intent{Action: "select", Card: 2}, true, ""},
		{"json unknown field", `{"action":"select","slot":2}`, engine.Intent{}, false, "invalid intent JSON"},
		{"json without action", `{"card":1}`, engine.Intent{}, false, "needs an action"},
		{"card not a number", "choose x", engine.Intent{}, false, "card must be an integer"},
		{"too many fields", "choose 1 2", engine.Intent{}, false, "want \"action [card]\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ParseIntent(tt.line)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaySetText(t *testing.T) {
	out, _, err := executePlay(t, testPlayOptions("text"),
		"select 0\nselect 1\n\n# completes the set\nselect 2\n",
		"set", "--seed", "7", "--shuffle=false")
	require.NoError(t, err)

	assert.Contains(t, out, "#0 board 12, deck 69, discarded 0\n")
	assert.Contains(t, out, "#3 board 12, deck 69, discarded 0 SET!")
	assert.Contains(t, out, "matched")
	assert.Contains(t, out, "Game game-1 (set, seed 7): 3 applied, 0 rejected")
	assert.NotContains(t, out, "Recorded")
}

func TestPlayRejectedLines(t *testing.T) {
	out, errOut, err := executePlay(t, testPlayOptions("text"),
		"deal\nchoose 1\nselect one\n",
		"set", "--seed", "7")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "2 line(s) rejected")

	assert.Contains(t, errOut, "Error [UNKNOWN_ACTION]: line 2")
	assert.Contains(t, errOut, "Error [E_PARSE]: line 3")
	assert.Contains(t, out, "1 applied, 2 rejected")
}

func TestPlayMemorizeJSON(t *testing.T) {
	out, _, err := executePlay(t, testPlayOptions("json"),
		"deal\n{\"action\":\"choose\",\"card\":0}\n",
		"memorize", "--theme", "Animals", "--seed", "3")
	require.NoError(t, err)

	var lines []CLIResponse
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var resp CLIResponse
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp), scanner.Text())
		lines = append(lines, resp)
	}
	require.Len(t, lines, 4, "initial snapshot, two intents, summary")

	first := lines[0].Data.(map[string]any)
	assert.Equal(t, "memorize", first["kind"])
	assert.Equal(t, "Animals", first["theme"])
	assert.Equal(t, float64(0), first["seq"])
	assert.Len(t, first["cards"], 8)

	chosen := lines[2].Data.(map[string]any)
	assert.Equal(t, float64(2), chosen["seq"])
	card := chosen["cards"].([]any)[0].(map[string]any)
	assert.Equal(t, true, card["face_up"])

	summary := lines[3].Data.(map[string]any)
	assert.Equal(t, "game-1", summary["game_id"])
	assert.Equal(t, float64(2), summary["applied"])
	assert.Equal(t, chosen["hash"], summary["hash"])
}

func TestPlayRecordsReplayableGame(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "games.db")

	out, _, err := executePlay(t, testPlayOptions("text"),
		"select 0\nselect 1\nselect 2\ndeal\nselect 4\n",
		"set", "--db", dbPath, "--seed", "99")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Recorded")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	n, err := st.CountIntents(context.Background(), "game-1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	g, err := st.ReadGame(context.Background(), "game-1")
	require.NoError(t, err)
	assert.Equal(t, int64(99), g.Seed)
	assert.True(t, g.Shuffle)
	require.NoError(t, st.Close())

	replayOut, err := executeReplay(t, "text", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, replayOut, "5 verified of 5")
	assert.Contains(t, replayOut, "All games verified deterministic")
}

func TestPlayErrors(t *testing.T) {
	themesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(themesDir, "bad.cue"), []byte(`
package themes

theme: Broken: {
	content: ["a", "b"]
}
`), 0644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown kind", []string{"poker"}, "unknown game kind"},
		{"unknown theme", []string{"memorize", "--theme", "Nope"}, `unknown theme "Nope"`},
		{"broken themes dir", []string{"memorize", "--themes-dir", themesDir}, "pairs is required"},
		{"invalid max count", []string{"set", "--max-count", "0"}, "max_count must satisfy gte=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executePlay(t, testPlayOptions("text"), "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPlayThemesDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "letters.cue"), []byte(`
package themes

theme: Letters: {
	pairs: 2
	content: ["a", "b", "c"]
}
`), 0644))

	out, _, err := executePlay(t, testPlayOptions("text"), "deal\n",
		"memorize", "--themes-dir", dir, "--seed", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "#0 Letters score 0")
	assert.Contains(t, out, "Final score: 0")
}

func TestBuildGameConfigPicksSeed(t *testing.T) {
	cfg := &Config{MaxCount: 3, InitialDeal: 12}

	gameCfg, err := buildGameConfig(engine.KindSet, cfg)
	require.NoError(t, err)
	assert.NotZero(t, gameCfg.Seed)

	cfg.Seed = 17
	gameCfg, err = buildGameConfig(engine.KindSet, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(17), gameCfg.Seed)
	assert.Equal(t, 12, gameCfg.Params.InitialDeal)
}

func TestRenderSnapshotMemorize(t *testing.T) {
	buf := &bytes.Buffer{}
	renderSnapshot(buf, engine.Snapshot{
		Kind:  engine.KindMemorize,
		Seq:   4,
		Theme: "Letters",
		Score: -1,
		Cards: []engine.CardView{
			{ID: 0, Content: "a", FaceUp: true, Matched: true},
			{ID: 1, Content: "b", FaceUp: true},
			{ID: 2, Content: "a"},
		},
	})
	assert.Equal(t, "#4 Letters score -1\n  0(a) 1[b] 2[ ]\n", buf.String())
}
