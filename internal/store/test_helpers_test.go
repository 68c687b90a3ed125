package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestGame creates a set game record with default parameters.
func createTestGame(id string, createdAt int64) GameRecord {
	return GameRecord{
		ID:          id,
		Kind:        "set",
		Seed:        42,
		Shuffle:     true,
		InitialDeal: 12,
		MaxCount:    3,
		CreatedAt:   createdAt,
	}
}

// createTestIntent creates an intent with a placeholder snapshot hash.
func createTestIntent(id, gameID string, seq int64) IntentRecord {
	return IntentRecord{
		ID:           id,
		GameID:       gameID,
		Seq:          seq,
		Action:       "select",
		Card:         int(seq),
		AtUnixNano:   1_000 * seq,
		SnapshotHash: "hash-" + id,
	}
}
