// Package memorize implements the pair-matching card game engine.
//
// A deck holds N pairs of cards. At most one unmatched card is face up at a
// time; choosing a second card either matches the pair (+2) or flips the
// first card back down, costing a point for every card in the mismatch that
// had already been seen.
//
// Each card also tracks a bonus window: the time it may spend face up before
// a match stops counting as quick. The window is measured with an injected
// Clock at call time, so the engine never starts timers. The bonus is exposed
// for display and is not added to the score.
package memorize
