package memorize

import (
	"math/rand/v2"

	"github.com/roach88/matchgame/internal/theme"
)

// Themed is a pair-matching game whose contents come from a theme.
//
// It keeps the theme and the random source so NewGame can draw a fresh card
// set, and tracks whether the deck has been dealt onto the table.
type Themed struct {
	*Game[string]

	theme theme.Theme
	rng   *rand.Rand
	opts  []Option
	dealt bool
}

// NewThemed starts a game from t. The same rng draws card sets and shuffles.
func NewThemed(t theme.Theme, rng *rand.Rand, opts ...Option) *Themed {
	g := &Themed{
		theme: t,
		rng:   rng,
		opts:  append(append([]Option(nil), opts...), WithRand(rng)),
	}
	g.Game = g.build()
	return g
}

func (g *Themed) build() *Game[string] {
	set := g.theme.CardSet(g.rng)
	return New(len(set), func(i int) string { return set[i] }, g.opts...)
}

// NewGame replaces the game with a fresh one drawn from the same theme.
func (g *Themed) NewGame() {
	g.Game = g.build()
	g.dealt = false
}

// Deal marks the deck as dealt.
func (g *Themed) Deal() {
	g.dealt = true
}

// Dealt reports whether Deal has been called since the last NewGame.
func (g *Themed) Dealt() bool {
	return g.dealt
}

// Name returns the theme name.
func (g *Themed) Name() string {
	return g.theme.Name
}

// Color returns the theme color.
func (g *Themed) Color() theme.RGBA {
	return g.theme.Color
}
