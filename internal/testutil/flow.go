package testutil

// FixedIDGenerator hands out the same game id every time.
//
// Scenarios run one game per in-memory store, so a fixed id keeps recorded
// intent ids and golden traces byte-identical between runs.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator that always returns id.
//
// If id is empty, Generate() returns "test-game-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-game-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed game id.
//
// Implements engine.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
