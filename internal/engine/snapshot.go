package engine

import (
	"math"
	"time"

	"github.com/roach88/matchgame/internal/ir"
	"github.com/roach88/matchgame/internal/setgame"
)

// CardView is one card as the player sees it.
//
// Position is the deck index for memorize cards and the board position for
// set cards. Memorize cards fill Content, Matched, Seen and BonusPermille.
// Set cards fill the attribute fields and State.
type CardView struct {
	ID       int  `json:"id"`
	Position int  `json:"position"`
	FaceUp   bool `json:"face_up"`

	Content       string `json:"content,omitempty"`
	Matched       bool   `json:"matched,omitempty"`
	Seen          bool   `json:"seen,omitempty"`
	BonusPermille int    `json:"bonus_permille,omitempty"`

	Shape   string `json:"shape,omitempty"`
	Color   string `json:"color,omitempty"`
	Shading string `json:"shading,omitempty"`
	Count   int    `json:"count,omitempty"`
	State   string `json:"state,omitempty"`
}

// Snapshot is an immutable view of a session after an intent.
type Snapshot struct {
	GameID string `json:"game_id"`
	Kind   Kind   `json:"kind"`
	Seq    int64  `json:"seq"`

	// Memorize.
	Theme string `json:"theme,omitempty"`
	Score int    `json:"score"`
	Dealt bool   `json:"dealt,omitempty"`

	// Set.
	MatchPresent bool `json:"match_present,omitempty"`
	Undealt      int  `json:"undealt,omitempty"`
	Discarded    int  `json:"discarded,omitempty"`

	// Cards is the memorize deck in order, or the set board by position.
	Cards []CardView `json:"cards"`

	// Hash is the SnapshotHash of every field above.
	Hash string `json:"hash"`
}

// FaceUp returns the ids of face-up cards in card order.
func (s Snapshot) FaceUp() []int {
	var ids []int
	for _, c := range s.Cards {
		if c.FaceUp {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Card finds a card by id.
func (s Snapshot) Card(id int) (CardView, bool) {
	for _, c := range s.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return CardView{}, false
}

// Object returns the canonical form the hash is computed over.
func (s Snapshot) Object() ir.Object {
	cards := make(ir.Array, len(s.Cards))
	for i, c := range s.Cards {
		cards[i] = c.object(s.Kind)
	}
	obj := ir.Object{
		"game_id": ir.String(s.GameID),
		"kind":    ir.String(s.Kind),
		"seq":     ir.Int(s.Seq),
		"cards":   cards,
	}
	switch s.Kind {
	case KindMemorize:
		obj["theme"] = ir.String(s.Theme)
		obj["score"] = ir.Int(s.Score)
		obj["dealt"] = ir.Bool(s.Dealt)
	case KindSet:
		obj["match_present"] = ir.Bool(s.MatchPresent)
		obj["undealt"] = ir.Int(s.Undealt)
		obj["discarded"] = ir.Int(s.Discarded)
	}
	return obj
}

func (c CardView) object(kind Kind) ir.Object {
	obj := ir.Object{
		"id":      ir.Int(c.ID),
		"face_up": ir.Bool(c.FaceUp),
	}
	switch kind {
	case KindMemorize:
		obj["content"] = ir.String(c.Content)
		obj["matched"] = ir.Bool(c.Matched)
		obj["seen"] = ir.Bool(c.Seen)
		obj["bonus_permille"] = ir.Int(c.BonusPermille)
	case KindSet:
		obj["shape"] = ir.String(c.Shape)
		obj["color"] = ir.String(c.Color)
		obj["shading"] = ir.String(c.Shading)
		obj["count"] = ir.Int(c.Count)
		obj["position"] = ir.Int(c.Position)
		obj["state"] = ir.String(c.State)
	}
	return obj
}

func (s *Session) snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		GameID: s.id,
		Kind:   s.cfg.Kind,
		Seq:    s.clock.Current(),
	}

	switch s.cfg.Kind {
	case KindMemorize:
		snap.Theme = s.memo.Name()
		snap.Score = s.memo.Score()
		snap.Dealt = s.memo.Dealt()
		for i, c := range s.memo.Cards() {
			snap.Cards = append(snap.Cards, CardView{
				ID:            c.ID,
				Position:      i,
				FaceUp:        c.IsFaceUp,
				Content:       c.Content,
				Matched:       c.IsMatched,
				Seen:          c.AlreadySeen,
				BonusPermille: int(math.Round(c.BonusRemaining(now) * 1000)),
			})
		}
	case KindSet:
		snap.MatchPresent = s.set.IsMatchPresent()
		snap.Undealt = s.set.Undealt()
		snap.Discarded = s.set.Discarded()
		for _, c := range s.set.Cards() {
			snap.Cards = append(snap.Cards, setCardView(c))
		}
	}

	// Every value in Object is an int, bool or string, so hashing cannot fail.
	snap.Hash, _ = ir.SnapshotHash(snap.Object())
	return snap
}

func setCardView(c setgame.Card) CardView {
	return CardView{
		ID:       c.ID,
		FaceUp:   c.IsFaceUp,
		Shape:    c.Shape.String(),
		Color:    c.Color.String(),
		Shading:  c.Shading.String(),
		Count:    c.Count,
		Position: c.Position(),
		State:    c.State.String(),
	}
}
