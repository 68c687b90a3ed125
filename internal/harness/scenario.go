package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/matchgame/internal/engine"
	"github.com/roach88/matchgame/internal/setgame"
	"github.com/roach88/matchgame/internal/theme"
)

// Scenario defines a conformance test scenario.
// A scenario starts one game, applies a list of intents, and asserts on
// each resulting snapshot and on the final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Game is the game kind: memorize or set.
	Game string `yaml:"game"`

	// Theme supplies memorize card contents. Required for memorize games.
	Theme *ThemeSpec `yaml:"theme,omitempty"`

	// Params sizes set games. Defaults to the standard 81-card game.
	Params *setgame.Params `yaml:"params,omitempty"`

	// Seed drives every random choice in the game.
	Seed int64 `yaml:"seed"`

	// Shuffle shuffles the set deck's draw order.
	Shuffle bool `yaml:"shuffle,omitempty"`

	// BonusTime is the memorize bonus window, e.g. "10s". Zero disables it.
	BonusTime time.Duration `yaml:"bonus_time,omitempty"`

	// GameID is an optional fixed game id.
	// If empty, defaults to "test-game-default" so golden traces stay stable.
	GameID string `yaml:"game_id,omitempty"`

	// Steps are the intents applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	// Supported types: score, card_state, board_size, intent_count, face_up_count
	Assertions []Assertion `yaml:"assertions"`
}

// ThemeSpec names a built-in theme or defines one inline.
type ThemeSpec struct {
	// Builtin selects one of the default themes by name.
	Builtin string `yaml:"builtin,omitempty"`

	Name        string   `yaml:"name,omitempty"`
	Pairs       int      `yaml:"pairs,omitempty"`
	RandomPairs bool     `yaml:"random_pairs,omitempty"`
	Content     []string `yaml:"content,omitempty"`
}

// Resolve returns the named built-in or the inline theme.
func (t ThemeSpec) Resolve() (theme.Theme, error) {
	if t.Builtin != "" {
		store := theme.NewStore("builtin", theme.Builtins()...)
		th, ok := store.Lookup(t.Builtin)
		if !ok {
			return theme.Theme{}, fmt.Errorf("unknown builtin theme %q", t.Builtin)
		}
		return th, nil
	}
	color := theme.RGBA{Alpha: 1}
	if t.RandomPairs {
		return theme.NewRandomPairs(t.Name, color, t.Content), nil
	}
	return theme.New(t.Name, color, t.Pairs, t.Content), nil
}

// Step is one intent with optional expectations on the snapshot it produces.
type Step struct {
	// Intent is the action name, e.g. "choose" or "select".
	Intent string `yaml:"intent"`

	// Card is the card id for actions that take one.
	Card int `yaml:"card,omitempty"`

	// Advance moves the wall clock forward before the intent is applied.
	Advance time.Duration `yaml:"advance,omitempty"`

	// Expect checks the snapshot after this step. Only set fields are checked.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect is a subset match against one snapshot.
type Expect struct {
	Score        *int  `yaml:"score,omitempty"`
	MatchPresent *bool `yaml:"match_present,omitempty"`
	BoardSize    *int  `yaml:"board_size,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "score": the memorize score equals Value
	// - "card_state": Card is in State
	// - "board_size": the number of cards in play equals Value
	// - "intent_count": the store holds Value intents for the game
	// - "face_up_count": the number of face-up cards equals Value
	Type string `yaml:"type"`

	// Card is the card id (used by card_state).
	Card *int `yaml:"card,omitempty"`

	// State is the expected card state (used by card_state).
	// Set cards use their selection state or "off_board";
	// memorize cards use "face_down", "face_up" or "matched".
	State string `yaml:"state,omitempty"`

	// Value is the expected number (used by every other type).
	Value *int `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertScore       = "score"
	AssertCardState   = "card_state"
	AssertBoardSize   = "board_size"
	AssertIntentCount = "intent_count"
	AssertFaceUpCount = "face_up_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	kind, err := engine.ParseKind(s.Game)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	switch kind {
	case engine.KindMemorize:
		if s.Theme == nil {
			return fmt.Errorf("theme is required for memorize games")
		}
		if s.Params != nil {
			return fmt.Errorf("params only apply to set games")
		}
	case engine.KindSet:
		if s.Theme != nil {
			return fmt.Errorf("theme only applies to memorize games")
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Intent == "" {
			return fmt.Errorf("steps[%d]: intent is required", i)
		}
		if step.Advance < 0 {
			return fmt.Errorf("steps[%d]: advance must be non-negative", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCardState:
		if a.Card == nil {
			return fmt.Errorf("assertions[%d]: card is required for card_state", index)
		}
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state is required for card_state", index)
		}
	case AssertScore, AssertBoardSize, AssertIntentCount, AssertFaceUpCount:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
		if a.Type != AssertScore && *a.Value < 0 {
			return fmt.Errorf("assertions[%d]: value must be non-negative for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// config builds the session config the scenario describes.
func (s *Scenario) config() (engine.Config, error) {
	kind, err := engine.ParseKind(s.Game)
	if err != nil {
		return engine.Config{}, err
	}
	cfg := engine.Config{
		Kind:           kind,
		Seed:           s.Seed,
		Shuffle:        s.Shuffle,
		BonusTimeLimit: s.BonusTime,
		Params:         setgame.DefaultParams,
	}
	if s.Params != nil {
		cfg.Params = *s.Params
	}
	if s.Theme != nil {
		cfg.Theme, err = s.Theme.Resolve()
		if err != nil {
			return engine.Config{}, err
		}
	}
	return cfg, nil
}
