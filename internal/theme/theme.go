package theme

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Theme validation errors.
var (
	// ErrNameEmpty is returned when a theme has no name.
	ErrNameEmpty = errors.New("theme name cannot be empty")

	// ErrTooFewContent is returned when a theme has fewer than two distinct items.
	ErrTooFewContent = errors.New("theme needs at least 2 distinct content items")

	// ErrTooFewPairs is returned when a fixed pair count is below two.
	ErrTooFewPairs = errors.New("theme needs at least 2 pairs")
)

// MinPairs is the smallest playable number of pairs.
const MinPairs = 2

// RGBA is a display color with components in [0, 1].
type RGBA struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
	Alpha float64 `json:"alpha"`
}

// Theme names a set of card contents for the pair-matching game.
type Theme struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Color         RGBA      `json:"color"`
	NumberOfPairs int       `json:"number_of_pairs"`

	// RandomPairs draws the pair count per game from [2, len(Content)).
	RandomPairs bool `json:"random_pairs,omitempty"`

	Content []string `json:"content"`
}

// New creates a theme with a fixed pair count, clamped to the number of
// distinct content items.
func New(name string, color RGBA, pairs int, content []string) Theme {
	content = Unique(content)
	return Theme{
		ID:            uuid.New(),
		Name:          name,
		Color:         color,
		NumberOfPairs: min(pairs, len(content)),
		Content:       content,
	}
}

// NewRandomPairs creates a theme whose pair count is drawn for every game.
func NewRandomPairs(name string, color RGBA, content []string) Theme {
	content = Unique(content)
	return Theme{
		ID:            uuid.New(),
		Name:          name,
		Color:         color,
		NumberOfPairs: len(content),
		RandomPairs:   true,
		Content:       content,
	}
}

// Validate checks that the theme can produce a playable game.
func (t Theme) Validate() error {
	if t.Name == "" {
		return ErrNameEmpty
	}
	if len(Unique(t.Content)) < MinPairs {
		return fmt.Errorf("%s: %w", t.Name, ErrTooFewContent)
	}
	if !t.RandomPairs && t.NumberOfPairs < MinPairs {
		return fmt.Errorf("%s: %w", t.Name, ErrTooFewPairs)
	}
	return nil
}

// Pairs returns the number of pairs for a new game.
func (t Theme) Pairs(rng *rand.Rand) int {
	if !t.RandomPairs {
		return t.NumberOfPairs
	}
	if len(t.Content) <= MinPairs {
		return len(t.Content)
	}
	return MinPairs + rng.IntN(len(t.Content)-MinPairs)
}

// CardSet draws the contents for one game: the content shuffled and cut to
// the pair count.
func (t Theme) CardSet(rng *rand.Rand) []string {
	set := make([]string, len(t.Content))
	copy(set, t.Content)
	rng.Shuffle(len(set), func(i, j int) { set[i], set[j] = set[j], set[i] })
	return set[:min(t.Pairs(rng), len(set))]
}

// Unique NFC-normalizes items and drops empties and repeats, keeping the
// first occurrence.
func Unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = norm.NFC.String(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
