package setgame

// CardState is a card's position in the selection state machine.
type CardState int

const (
	Unselected CardState = iota
	Selected
	Matched
	Mismatched
	Discarded
)

var stateNames = [...]string{"unselected", "selected", "matched", "mismatched", "discarded"}

func (s CardState) String() string { return attrName(stateNames[:], int(s)) }

// toggle flips between selected and unselected.
func (s CardState) toggle() CardState {
	if s == Unselected {
		return Selected
	}
	return Unselected
}

// Card is one card of the deck.
type Card struct {
	Shape   Shape
	Color   Color
	Shading Shading
	Count   int
	ID      int

	// BoardPosition is nil while the card is undealt or discarded.
	BoardPosition *int
	State         CardState
	IsFaceUp      bool
}

// OnBoard reports whether the card currently has a board position.
func (c Card) OnBoard() bool {
	return c.BoardPosition != nil
}

// Position returns the board position, or -1 when the card is off the board.
func (c Card) Position() int {
	if c.BoardPosition == nil {
		return -1
	}
	return *c.BoardPosition
}

// clone copies the card so the caller cannot reach the deck's position pointer.
func (c Card) clone() Card {
	if c.BoardPosition != nil {
		p := *c.BoardPosition
		c.BoardPosition = &p
	}
	return c
}

// ParseCardState parses a state name such as "matched".
func ParseCardState(name string) (CardState, error) {
	i, err := parseAttr("card state", stateNames[:], name)
	return CardState(i), err
}
