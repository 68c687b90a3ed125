package memorize

import (
	"math/rand/v2"
	"time"
)

// Clock supplies wall-clock readings for bonus-time accounting.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Game is the pair-matching engine.
//
// A Game is owned by a single caller and is not safe for concurrent use.
// Every operation is total: unknown card ids are ignored.
type Game[T comparable] struct {
	cards []Card[T]
	score int
	clock Clock
	rng   *rand.Rand
}

type options struct {
	clock          Clock
	rng            *rand.Rand
	bonusTimeLimit time.Duration
}

// Option configures a Game.
type Option func(*options)

// WithClock sets the clock used for bonus-time accounting.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithRand sets the random source used by Shuffle.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithBonusTimeLimit sets the bonus window for every card. Zero disables it.
func WithBonusTimeLimit(d time.Duration) Option {
	return func(o *options) { o.bonusTimeLimit = d }
}

// New builds a deck of numberOfPairs pairs. Pair k holds content(k) on the
// cards with ids 2k and 2k+1.
func New[T comparable](numberOfPairs int, content func(int) T, opts ...Option) *Game[T] {
	o := options{
		clock:          SystemClock{},
		bonusTimeLimit: DefaultBonusTimeLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := &Game[T]{clock: o.clock, rng: o.rng}
	for pair := 0; pair < numberOfPairs; pair++ {
		c := content(pair)
		g.cards = append(g.cards,
			Card[T]{Content: c, ID: pair * 2, BonusTimeLimit: o.bonusTimeLimit},
			Card[T]{Content: c, ID: pair*2 + 1, BonusTimeLimit: o.bonusTimeLimit},
		)
	}
	return g
}

// Cards returns a copy of the deck in its current order.
func (g *Game[T]) Cards() []Card[T] {
	out := make([]Card[T], len(g.cards))
	copy(out, g.cards)
	return out
}

// Score returns the current score.
func (g *Game[T]) Score() int {
	return g.score
}

// Now returns the game clock's current reading.
func (g *Game[T]) Now() time.Time {
	return g.clock.Now()
}

// FaceUpCard returns the single face-up unmatched card, if there is one.
func (g *Game[T]) FaceUpCard() (Card[T], bool) {
	if i, ok := g.faceUpIndex(); ok {
		return g.cards[i], true
	}
	var zero Card[T]
	return zero, false
}

// Choose turns the card with the given id face up and resolves a match
// against the card that was already face up.
func (g *Game[T]) Choose(id int) {
	chosen, ok := g.indexOf(id)
	if !ok || g.cards[chosen].IsFaceUp || g.cards[chosen].IsMatched {
		return
	}
	now := g.clock.Now()

	previous, ok := g.faceUpIndex()
	if !ok {
		g.showOnly(chosen, now)
		return
	}

	if g.cards[previous].Content == g.cards[chosen].Content {
		g.cards[chosen].turnFaceUp(now)
		g.cards[previous].markMatched(now)
		g.cards[chosen].markMatched(now)
		g.score += 2
		return
	}

	if g.cards[previous].AlreadySeen {
		g.score--
	}
	if g.cards[chosen].AlreadySeen {
		g.score--
	}
	g.showOnly(chosen, now)
}

// Shuffle permutes the deck order. Card state is untouched.
func (g *Game[T]) Shuffle() {
	g.rng.Shuffle(len(g.cards), func(i, j int) {
		g.cards[i], g.cards[j] = g.cards[j], g.cards[i]
	})
}

// showOnly makes idx the sole face-up unmatched card.
func (g *Game[T]) showOnly(idx int, now time.Time) {
	for i := range g.cards {
		if i == idx || g.cards[i].IsMatched {
			continue
		}
		if g.cards[i].IsFaceUp {
			g.cards[i].turnFaceDown(now)
		}
	}
	g.cards[idx].turnFaceUp(now)
}

func (g *Game[T]) faceUpIndex() (int, bool) {
	found := -1
	for i, c := range g.cards {
		if c.IsFaceUp && !c.IsMatched {
			if found >= 0 {
				return 0, false
			}
			found = i
		}
	}
	return found, found >= 0
}

func (g *Game[T]) indexOf(id int) (int, bool) {
	for i, c := range g.cards {
		if c.ID == id {
			return i, true
		}
	}
	return 0, false
}
