package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/roach88/matchgame/internal/ir"
	"github.com/roach88/matchgame/internal/memorize"
	"github.com/roach88/matchgame/internal/setgame"
	"github.com/roach88/matchgame/internal/store"
	"github.com/roach88/matchgame/internal/theme"
)

// Kind names a game.
type Kind string

const (
	KindMemorize Kind = "memorize"
	KindSet      Kind = "set"
)

// ParseKind converts a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindMemorize, KindSet:
		return k, nil
	}
	return "", &RuntimeError{
		Code:    ErrCodeUnknownKind,
		Message: fmt.Sprintf("unknown game kind %q (want memorize or set)", s),
	}
}

// Action names a player intent.
type Action string

const (
	ActionChoose  Action = "choose"
	ActionShuffle Action = "shuffle"
	ActionDeal    Action = "deal"
	ActionNewGame Action = "new_game"
	ActionSelect  Action = "select"
	ActionFlip    Action = "flip"
)

// actions lists the intents each kind accepts.
var actions = map[Kind][]Action{
	KindMemorize: {ActionChoose, ActionShuffle, ActionDeal, ActionNewGame},
	KindSet:      {ActionSelect, ActionDeal, ActionFlip, ActionNewGame},
}

// Intent is one player input. Card is ignored by actions that take no card.
type Intent struct {
	Action Action `json:"action" yaml:"action"`
	Card   int    `json:"card" yaml:"card"`
}

// Config selects and sizes a game.
type Config struct {
	Kind Kind

	// Theme supplies card contents for memorize games.
	Theme theme.Theme

	// Params sizes set games.
	Params setgame.Params

	// Seed drives every random choice: card sets, pair counts and shuffles.
	Seed int64

	// Shuffle shuffles the set deck's draw order. Memorize decks are only
	// shuffled by the shuffle intent.
	Shuffle bool

	// BonusTimeLimit is the memorize bonus window. Zero disables it.
	BonusTimeLimit time.Duration
}

// Recorder persists games and intents. *store.Store implements it.
type Recorder interface {
	WriteGame(ctx context.Context, g store.GameRecord) error
	WriteIntent(ctx context.Context, in store.IntentRecord) error
}

// Session owns one game and applies intents to it one at a time.
//
// Every Apply mutates the game, stamps the intent with the next logical
// seq, and returns an immutable Snapshot. A Session is owned by a single
// caller and is not safe for concurrent use.
type Session struct {
	id     string
	cfg    Config
	clock  *Clock
	wall   WallClock
	step   *fixedClock
	rec    Recorder
	logger *slog.Logger

	memo *memorize.Themed
	set  *setgame.Game
}

type sessionOptions struct {
	gameID string
	ids    IDGenerator
	wall   WallClock
	rec    Recorder
	logger *slog.Logger
}

// Option configures a Session.
type Option func(*sessionOptions)

// WithGameID fixes the game id instead of generating one.
func WithGameID(id string) Option {
	return func(o *sessionOptions) { o.gameID = id }
}

// WithIDGenerator sets the game id generator. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *sessionOptions) { o.ids = g }
}

// WithWallClock sets the wall clock. Default: time.Now.
func WithWallClock(c WallClock) Option {
	return func(o *sessionOptions) { o.wall = c }
}

// WithRecorder records the game and every applied intent.
func WithRecorder(r Recorder) Option {
	return func(o *sessionOptions) { o.rec = r }
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(o *sessionOptions) { o.logger = l }
}

// NewSession starts a game. When a recorder is set, the game record is
// written before NewSession returns.
func NewSession(ctx context.Context, cfg Config, opts ...Option) (*Session, error) {
	o := sessionOptions{
		ids:  UUIDv7Generator{},
		wall: systemClock{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.gameID == "" {
		o.gameID = o.ids.Generate()
	}

	s := &Session{
		id:     o.gameID,
		cfg:    cfg,
		clock:  NewClock(),
		wall:   o.wall,
		step:   &fixedClock{now: o.wall.Now()},
		rec:    o.rec,
		logger: o.logger.With("game_id", o.gameID, "kind", string(cfg.Kind)),
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))
	switch cfg.Kind {
	case KindMemorize:
		if err := cfg.Theme.Validate(); err != nil {
			return nil, &RuntimeError{
				Code:    ErrCodeInvalidTheme,
				Message: "theme cannot produce a game",
				GameID:  s.id,
				Err:     err,
			}
		}
		s.memo = memorize.NewThemed(cfg.Theme, rng,
			memorize.WithClock(s.step),
			memorize.WithBonusTimeLimit(cfg.BonusTimeLimit),
		)
	case KindSet:
		var setOpts []setgame.Option
		if cfg.Shuffle {
			setOpts = append(setOpts, setgame.WithRand(rng))
		}
		s.set = setgame.New(cfg.Params, setOpts...)
	default:
		_, err := ParseKind(string(cfg.Kind))
		return nil, err
	}

	if s.rec != nil {
		record, err := s.record()
		if err != nil {
			return nil, err
		}
		if err := s.rec.WriteGame(ctx, record); err != nil {
			return nil, &RuntimeError{
				Code:    ErrCodeRecordFailed,
				Message: "write game",
				GameID:  s.id,
				Err:     err,
			}
		}
	}

	s.logger.Debug("session started", "seed", cfg.Seed)
	return s, nil
}

// ID returns the game id.
func (s *Session) ID() string { return s.id }

// Kind returns the game kind.
func (s *Session) Kind() Kind { return s.cfg.Kind }

// Seq returns the seq of the last applied intent, 0 before the first.
func (s *Session) Seq() int64 { return s.clock.Current() }

// Snapshot returns the current state without applying an intent.
func (s *Session) Snapshot() Snapshot {
	s.step.now = s.wall.Now()
	return s.snapshot(s.step.now)
}

// Apply applies one intent and returns the resulting snapshot.
//
// Actions that do not belong to the session's game return an
// UNKNOWN_ACTION RuntimeError and consume no seq. Card ids that are unknown,
// stale or off the board are not errors: the game ignores them and the
// intent is still recorded.
func (s *Session) Apply(ctx context.Context, in Intent) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if !s.accepts(in.Action) {
		return Snapshot{}, NewUnknownActionError(s.id, s.cfg.Kind, in.Action)
	}

	seq := s.clock.Next()
	// The game reads the same instant that gets recorded, so replay sees
	// exactly what the original run saw.
	now := s.wall.Now()
	s.step.now = now

	switch s.cfg.Kind {
	case KindMemorize:
		s.applyMemorize(in)
	case KindSet:
		s.applySet(in)
	}

	snap := s.snapshot(now)

	s.logger.Debug("intent applied",
		"seq", seq,
		"action", string(in.Action),
		"card", in.Card,
		"score", snap.Score,
	)

	if s.rec != nil {
		id, err := ir.IntentID(s.id, string(in.Action), in.Card, seq)
		if err != nil {
			return snap, fmt.Errorf("intent id: %w", err)
		}
		err = s.rec.WriteIntent(ctx, store.IntentRecord{
			ID:           id,
			GameID:       s.id,
			Seq:          seq,
			Action:       string(in.Action),
			Card:         in.Card,
			AtUnixNano:   now.UnixNano(),
			SnapshotHash: snap.Hash,
		})
		if err != nil {
			return snap, &RuntimeError{
				Code:    ErrCodeRecordFailed,
				Message: "write intent",
				GameID:  s.id,
				Seq:     seq,
				Err:     err,
			}
		}
	}

	return snap, nil
}

func (s *Session) accepts(a Action) bool {
	for _, known := range actions[s.cfg.Kind] {
		if a == known {
			return true
		}
	}
	return false
}

func (s *Session) applyMemorize(in Intent) {
	switch in.Action {
	case ActionChoose:
		s.memo.Choose(in.Card)
	case ActionShuffle:
		s.memo.Shuffle()
	case ActionDeal:
		s.memo.Deal()
	case ActionNewGame:
		s.memo.NewGame()
	}
}

func (s *Session) applySet(in Intent) {
	switch in.Action {
	case ActionSelect:
		if s.isLastSet(in.Card) {
			s.logger.Debug("keeping last set on the board", "card", in.Card)
			return
		}
		s.set.SelectCard(in.Card)
	case ActionDeal:
		s.set.DealThreeCards()
	case ActionFlip:
		s.set.FlipCard(in.Card)
	case ActionNewGame:
		s.set.NewGame()
	}
}

// isLastSet reports whether id belongs to a matched triple that is all that
// remains on the board. Selecting it would discard the final set and leave
// an empty board, so the selection is ignored and the set stays visible.
func (s *Session) isLastSet(id int) bool {
	c, ok := s.set.Card(id)
	if !ok || c.State != setgame.Matched {
		return false
	}
	board := s.set.Cards()
	if len(board) != 3 || s.set.Undealt() > 0 {
		return false
	}
	for _, b := range board {
		if b.State != setgame.Matched {
			return false
		}
	}
	return true
}

// record describes the session for the store.
func (s *Session) record() (store.GameRecord, error) {
	r := store.GameRecord{
		ID:          s.id,
		Kind:        string(s.cfg.Kind),
		Seed:        s.cfg.Seed,
		Shuffle:     s.cfg.Shuffle,
		BonusMillis: s.cfg.BonusTimeLimit.Milliseconds(),
		CreatedAt:   s.step.now.UnixNano(),
	}
	switch s.cfg.Kind {
	case KindMemorize:
		data, err := json.Marshal(s.cfg.Theme)
		if err != nil {
			return r, fmt.Errorf("encode theme: %w", err)
		}
		r.Theme = string(data)
	case KindSet:
		p := s.set.Params()
		r.InitialDeal = p.InitialDeal
		r.MaxCount = p.MaxCount
	}
	return r, nil
}

// ConfigFromRecord rebuilds the Config a recorded game was started with.
func ConfigFromRecord(r store.GameRecord) (Config, error) {
	kind, err := ParseKind(r.Kind)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Kind:           kind,
		Seed:           r.Seed,
		Shuffle:        r.Shuffle,
		BonusTimeLimit: time.Duration(r.BonusMillis) * time.Millisecond,
	}
	switch kind {
	case KindMemorize:
		if err := json.Unmarshal([]byte(r.Theme), &cfg.Theme); err != nil {
			return Config{}, fmt.Errorf("decode theme for game %s: %w", r.ID, err)
		}
	case KindSet:
		cfg.Params = setgame.Params{MaxCount: r.MaxCount, InitialDeal: r.InitialDeal}
	}
	return cfg, nil
}
