package memorize

import "time"

// DefaultBonusTimeLimit is how long a card may stay face up and still earn
// a matching bonus.
const DefaultBonusTimeLimit = 6 * time.Second

// Card is a single card in a pair-matching deck.
//
// Cards are values: the Game owns the deck and hands out copies.
type Card[T comparable] struct {
	Content     T
	ID          int
	IsFaceUp    bool
	IsMatched   bool
	AlreadySeen bool

	// BonusTimeLimit of zero means no bonus is available for this card.
	BonusTimeLimit time.Duration

	// PastFaceUpTime accumulates face-up time from earlier turns, not
	// including the current one.
	PastFaceUpTime time.Duration

	// LastFaceUp is set while the card is face up and consuming bonus time.
	LastFaceUp *time.Time
}

// FaceUpTime returns how long the card has ever been face up as of now.
func (c Card[T]) FaceUpTime(now time.Time) time.Duration {
	if c.LastFaceUp != nil {
		return c.PastFaceUpTime + now.Sub(*c.LastFaceUp)
	}
	return c.PastFaceUpTime
}

// BonusTimeRemaining returns the time left before the bonus window closes.
func (c Card[T]) BonusTimeRemaining(now time.Time) time.Duration {
	return max(0, c.BonusTimeLimit-c.FaceUpTime(now))
}

// BonusRemaining returns the remaining bonus window as a fraction in [0, 1].
func (c Card[T]) BonusRemaining(now time.Time) float64 {
	remaining := c.BonusTimeRemaining(now)
	if c.BonusTimeLimit <= 0 || remaining <= 0 {
		return 0
	}
	return float64(remaining) / float64(c.BonusTimeLimit)
}

// HasEarnedBonus reports whether the card was matched inside its bonus window.
func (c Card[T]) HasEarnedBonus(now time.Time) bool {
	return c.IsMatched && c.BonusTimeRemaining(now) > 0
}

// IsConsumingBonusTime reports whether the card is face up, unmatched and
// still inside its bonus window.
func (c Card[T]) IsConsumingBonusTime(now time.Time) bool {
	return c.IsFaceUp && !c.IsMatched && c.BonusTimeRemaining(now) > 0
}

func (c *Card[T]) turnFaceUp(now time.Time) {
	c.IsFaceUp = true
	if c.IsConsumingBonusTime(now) && c.LastFaceUp == nil {
		t := now
		c.LastFaceUp = &t
	}
}

// turnFaceDown flips the card down and marks it seen.
func (c *Card[T]) turnFaceDown(now time.Time) {
	if c.IsFaceUp {
		c.AlreadySeen = true
	}
	c.IsFaceUp = false
	c.stopUsingBonusTime(now)
}

func (c *Card[T]) markMatched(now time.Time) {
	c.IsMatched = true
	c.stopUsingBonusTime(now)
}

func (c *Card[T]) stopUsingBonusTime(now time.Time) {
	c.PastFaceUpTime = c.FaceUpTime(now)
	c.LastFaceUp = nil
}
