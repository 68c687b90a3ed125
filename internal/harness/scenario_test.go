package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchgame/internal/engine"
	"github.com/roach88/matchgame/internal/setgame"
)

// writeScenario writes content to a scenario file in a temp dir.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidSetFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
game: set
params:
  max_count: 2
  initial_deal: 9
seed: 7
shuffle: true
game_id: g-1
steps:
  - intent: select
    card: 4
    advance: 1500ms
    expect:
      match_present: false
      board_size: 9
assertions:
  - type: card_state
    card: 4
    state: selected
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "set", scenario.Game)
	require.NotNil(t, scenario.Params)
	assert.Equal(t, setgame.Params{MaxCount: 2, InitialDeal: 9}, *scenario.Params)
	assert.Equal(t, int64(7), scenario.Seed)
	assert.True(t, scenario.Shuffle)
	assert.Equal(t, "g-1", scenario.GameID)
	require.Len(t, scenario.Steps, 1)
	assert.Equal(t, "select", scenario.Steps[0].Intent)
	assert.Equal(t, 4, scenario.Steps[0].Card)
	assert.Equal(t, 1500*time.Millisecond, scenario.Steps[0].Advance)
	require.NotNil(t, scenario.Steps[0].Expect)
	require.NotNil(t, scenario.Steps[0].Expect.BoardSize)
	assert.Equal(t, 9, *scenario.Steps[0].Expect.BoardSize)
	assert.Nil(t, scenario.Steps[0].Expect.Score)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, 4, *scenario.Assertions[0].Card)
}

func TestLoadScenario_ValidMemorizeFile(t *testing.T) {
	path := writeScenario(t, `
name: memo
description: "Memorize with inline theme"
game: memorize
theme:
  name: Letters
  pairs: 2
  content: [a, b, c]
bonus_time: 10s
steps:
  - intent: choose
    card: 0
assertions:
  - type: score
    value: 0
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, scenario.BonusTime)
	require.NotNil(t, scenario.Theme)
	th, err := scenario.Theme.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Letters", th.Name)
	assert.Equal(t, 2, th.NumberOfPairs)

	cfg, err := scenario.config()
	require.NoError(t, err)
	assert.Equal(t, engine.KindMemorize, cfg.Kind)
	assert.Equal(t, 10*time.Second, cfg.BonusTimeLimit)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Typo in assertions key"
game: set
steps:
  - intent: deal
assertion:
  - type: board_size
    value: 15
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: d
game: set
steps: [{intent: deal}]
assertions: [{type: board_size, value: 15}]`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: n
game: set
steps: [{intent: deal}]
assertions: [{type: board_size, value: 15}]`,
			wantErr: "description is required",
		},
		{
			name: "unknown game",
			content: `
name: n
description: d
game: poker
steps: [{intent: deal}]
assertions: [{type: board_size, value: 15}]`,
			wantErr: "unknown game kind",
		},
		{
			name: "memorize without theme",
			content: `
name: n
description: d
game: memorize
steps: [{intent: deal}]
assertions: [{type: score, value: 0}]`,
			wantErr: "theme is required",
		},
		{
			name: "set with theme",
			content: `
name: n
description: d
game: set
theme: {builtin: Animals}
steps: [{intent: deal}]
assertions: [{type: board_size, value: 15}]`,
			wantErr: "theme only applies",
		},
		{
			name: "memorize with params",
			content: `
name: n
description: d
game: memorize
theme: {builtin: Animals}
params: {max_count: 3, initial_deal: 12}
steps: [{intent: deal}]
assertions: [{type: score, value: 0}]`,
			wantErr: "params only apply",
		},
		{
			name: "no steps",
			content: `
name: n
description: d
game: set
steps: []
assertions: [{type: board_size, value: 15}]`,
			wantErr: "steps list is required",
		},
		{
			name: "no assertions",
			content: `
name: n
description: d
game: set
steps: [{intent: deal}]`,
			wantErr: "assertions list is required",
		},
		{
			name: "step without intent",
			content: `
name: n
description: d
game: set
steps: [{card: 3}]
assertions: [{type: board_size, value: 15}]`,
			wantErr: "steps[0]: intent is required",
		},
		{
			name: "negative advance",
			content: `
name: n
description: d
game: set
steps: [{intent: deal, advance: -1s}]
assertions: [{type: board_size, value: 15}]`,
			wantErr: "advance must be non-negative",
		},
		{
			name: "card_state without card",
			content: `
name: n
description: d
game: set
steps: [{intent: deal}]
assertions: [{type: card_state, state: selected}]`,
			wantErr: "card is required for card_state",
		},
		{
			name: "card_state without state",
			content: `
name: n
description: d
game: set
steps: [{intent: deal}]
assertions: [{type: card_state, card: 0}]`,
			wantErr: "state is required for card_state",
		},
		{
			name: "missing value",
			content: `
name: n
description: d
game: set
steps: [{intent: deal}]
assertions: [{type: board_size}]`,
			wantErr: "value is required for board_size",
		},
		{
			name: "negative count",
			content: `
name: n
description: d
game: set
steps: [{intent: deal}]
assertions: [{type: intent_count, value: -1}]`,
			wantErr: "value must be non-negative",
		},
		{
			name: "unknown assertion",
			content: `
name: n
description: d
game: set
steps: [{intent: deal}]
assertions: [{type: trace_contains}]`,
			wantErr: `unknown assertion type "trace_contains"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseScenario_NegativeScoreAllowed(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: n
description: d
game: memorize
theme: {builtin: Animals}
steps: [{intent: choose, card: 0}]
assertions: [{type: score, value: -2}]`))
	assert.NoError(t, err)
}

func TestThemeSpec_Resolve(t *testing.T) {
	th, err := ThemeSpec{Builtin: "Halloween"}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Halloween", th.Name)
	assert.Equal(t, 8, th.NumberOfPairs)

	_, err = ThemeSpec{Builtin: "Nope"}.Resolve()
	assert.ErrorContains(t, err, `unknown builtin theme "Nope"`)

	th, err = ThemeSpec{Name: "Dice", RandomPairs: true, Content: []string{"1", "2", "3"}}.Resolve()
	require.NoError(t, err)
	assert.True(t, th.RandomPairs)
	assert.Equal(t, float64(1), th.Color.Alpha)
}

func TestScenarioConfig_SetDefaults(t *testing.T) {
	s := &Scenario{Game: "set", Seed: 3}
	cfg, err := s.config()
	require.NoError(t, err)
	assert.Equal(t, engine.KindSet, cfg.Kind)
	assert.Equal(t, setgame.DefaultParams, cfg.Params)
	assert.Equal(t, int64(3), cfg.Seed)
}
