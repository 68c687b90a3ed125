package setgame

import (
	"math/rand/v2"
	"slices"
	"sort"
)

// Params sizes a game.
type Params struct {
	// MaxCount is the largest symbol count on a card; counts run 1..MaxCount.
	MaxCount int `json:"max_count" yaml:"max_count"`

	// InitialDeal is the number of cards placed on the board by New.
	InitialDeal int `json:"initial_deal" yaml:"initial_deal"`
}

// DefaultParams is the standard 81-card game with twelve cards dealt.
var DefaultParams = Params{MaxCount: 3, InitialDeal: 12}

// normalize fills in defaults for non-positive sizes.
func (p Params) normalize() Params {
	if p.MaxCount <= 0 {
		p.MaxCount = DefaultParams.MaxCount
	}
	if p.InitialDeal < 0 {
		p.InitialDeal = 0
	}
	return p
}

// Option configures a Game.
type Option func(*Game)

// WithRand shuffles the draw order of the deck on every New and NewGame.
// Card ids are unaffected.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

// Game is the attribute-set engine.
//
// The deck keeps every card for the whole game; dealing and discarding only
// move board positions and states. A Game is owned by a single caller and is
// not safe for concurrent use.
type Game struct {
	params Params
	rng    *rand.Rand
	deck   []Card
}

// New builds the full deck and deals the initial board.
func New(p Params, opts ...Option) *Game {
	g := &Game{params: p.normalize()}
	for _, opt := range opts {
		opt(g)
	}
	g.reset()
	return g
}

// NewGame discards all progress and deals a fresh board.
func (g *Game) NewGame() {
	g.reset()
}

// Params returns the game's sizing.
func (g *Game) Params() Params {
	return g.params
}

func (g *Game) reset() {
	g.deck = buildDeck(g.params.MaxCount)
	if g.rng != nil {
		g.rng.Shuffle(len(g.deck), func(i, j int) {
			g.deck[i], g.deck[j] = g.deck[j], g.deck[i]
		})
	}
	for i := 0; i < min(len(g.deck), g.params.InitialDeal); i++ {
		pos := i
		g.deck[i].BoardPosition = &pos
	}
}

// buildDeck returns shapes × colors × shadings × counts with ids in that order.
func buildDeck(maxCount int) []Card {
	deck := make([]Card, 0, len(Shapes)*len(Colors)*len(Shadings)*maxCount)
	id := 0
	for _, shape := range Shapes {
		for _, color := range Colors {
			for _, shading := range Shadings {
				for count := 1; count <= maxCount; count++ {
					deck = append(deck, Card{
						Shape:   shape,
						Color:   color,
						Shading: shading,
						Count:   count,
						ID:      id,
					})
					id++
				}
			}
		}
	}
	return deck
}

// Cards returns the cards on the board ordered by position.
func (g *Game) Cards() []Card {
	var cards []Card
	for _, c := range g.deck {
		if c.OnBoard() {
			cards = append(cards, c.clone())
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		return *cards[i].BoardPosition < *cards[j].BoardPosition
	})
	return cards
}

// Deck returns every card in draw order.
func (g *Game) Deck() []Card {
	out := make([]Card, len(g.deck))
	for i, c := range g.deck {
		out[i] = c.clone()
	}
	return out
}

// Card returns the card with the given id.
func (g *Game) Card(id int) (Card, bool) {
	i, ok := g.indexOf(id)
	if !ok {
		return Card{}, false
	}
	return g.deck[i].clone(), true
}

// IsMatchPresent reports whether a matched set is waiting to be cleared.
func (g *Game) IsMatchPresent() bool {
	return slices.ContainsFunc(g.deck, func(c Card) bool { return c.State == Matched })
}

// Undealt returns the number of cards that can still be dealt.
func (g *Game) Undealt() int {
	n := 0
	for _, c := range g.deck {
		if !c.OnBoard() && c.State != Discarded {
			n++
		}
	}
	return n
}

// Discarded returns the number of cards removed as matched sets.
func (g *Game) Discarded() int {
	n := 0
	for _, c := range g.deck {
		if c.State == Discarded {
			n++
		}
	}
	return n
}

// SelectCard toggles the selection of a board card.
//
// A completed triple left from the previous selection is resolved first:
// a matched set is discarded, a mismatched one deselected. Choosing a card of
// the matched set only clears it. When the toggle leaves three cards
// selected they become matched or mismatched together.
func (g *Game) SelectCard(id int) {
	chosen, ok := g.indexOf(id)
	if !ok || !g.deck[chosen].OnBoard() {
		return
	}

	if triple, ok := g.completedTriple(); ok {
		matched := g.deck[triple[0]].State == Matched
		for _, i := range triple {
			if matched {
				g.discard(i)
			} else {
				g.deck[i].State = Unselected
			}
		}
		if matched && slices.Contains(triple, chosen) {
			return
		}
	}

	g.deck[chosen].State = g.deck[chosen].State.toggle()

	selected := g.indicesIn(Selected)
	if len(selected) != 3 {
		return
	}
	state := Mismatched
	if IsSet(g.deck[selected[0]], g.deck[selected[1]], g.deck[selected[2]]) {
		state = Matched
	}
	for _, i := range selected {
		g.deck[i].State = state
	}
}

// DealThreeCards replaces a matched set with fresh cards, or adds up to
// three cards after the last board position.
func (g *Game) DealThreeCards() {
	if triple, ok := g.completedTriple(); ok && g.deck[triple[0]].State == Matched {
		for _, i := range triple {
			if next, ok := g.nextUndealt(); ok {
				pos := *g.deck[i].BoardPosition
				g.deck[next].BoardPosition = &pos
			}
			g.discard(i)
		}
		return
	}

	for range 3 {
		next, ok := g.nextUndealt()
		if !ok {
			return
		}
		pos := g.maxPosition() + 1
		g.deck[next].BoardPosition = &pos
	}
}

// FlipCard toggles whether a card is shown face up. It has no effect on play.
func (g *Game) FlipCard(id int) {
	if i, ok := g.indexOf(id); ok {
		g.deck[i].IsFaceUp = !g.deck[i].IsFaceUp
	}
}

func (g *Game) discard(i int) {
	g.deck[i].State = Discarded
	g.deck[i].BoardPosition = nil
}

// completedTriple returns the three matched or mismatched cards, if present.
func (g *Game) completedTriple() ([]int, bool) {
	var out []int
	for i, c := range g.deck {
		if c.State == Matched || c.State == Mismatched {
			out = append(out, i)
		}
	}
	return out, len(out) == 3
}

func (g *Game) indicesIn(state CardState) []int {
	var out []int
	for i, c := range g.deck {
		if c.State == state {
			out = append(out, i)
		}
	}
	return out
}

// nextUndealt returns the first card in draw order that is neither on the
// board nor discarded.
func (g *Game) nextUndealt() (int, bool) {
	for i, c := range g.deck {
		if !c.OnBoard() && c.State != Discarded {
			return i, true
		}
	}
	return 0, false
}

// maxPosition returns the highest board position, or -1 for an empty board.
func (g *Game) maxPosition() int {
	highest := -1
	for _, c := range g.deck {
		if c.OnBoard() && *c.BoardPosition > highest {
			highest = *c.BoardPosition
		}
	}
	return highest
}

func (g *Game) indexOf(id int) (int, bool) {
	for i, c := range g.deck {
		if c.ID == id {
			return i, true
		}
	}
	return 0, false
}
