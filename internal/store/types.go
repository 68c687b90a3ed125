package store

// GameRecord describes how a game was set up. Together with its intents it
// is enough to rebuild the game exactly.
type GameRecord struct {
	ID   string
	Kind string

	// Theme is the JSON-encoded theme for pair-matching games, empty otherwise.
	Theme string

	Seed        int64
	Shuffle     bool
	InitialDeal int
	MaxCount    int
	BonusMillis int64

	// CreatedAt is the wall-clock start in Unix nanoseconds. Informational
	// only; ordering never depends on it.
	CreatedAt int64
}

// IntentRecord is one applied player intent.
type IntentRecord struct {
	ID     string
	GameID string
	Seq    int64
	Action string
	Card   int

	// AtUnixNano is the wall-clock reading the intent was applied at. Replay
	// feeds it back so time-dependent state is reproduced.
	AtUnixNano int64

	// SnapshotHash is the hash of the game snapshot after the intent.
	SnapshotHash string
}
