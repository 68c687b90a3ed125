package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix leaves
// room for changing the algorithm.
const (
	DomainIntent   = "matchgame/intent/v1"
	DomainSnapshot = "matchgame/snapshot/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// IntentID computes the content-addressed id of an applied intent. The same
// game, action, card and seq always produce the same id, so recording an
// intent twice is idempotent.
func IntentID(gameID, action string, card int, seq int64) (string, error) {
	obj := Object{
		"game_id": String(gameID),
		"action":  String(action),
		"card":    Int(card),
		"seq":     Int(seq),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("IntentID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainIntent, canonical), nil
}

// SnapshotHash hashes the canonical form of a game snapshot.
func SnapshotHash(snapshot Object) (string, error) {
	canonical, err := MarshalCanonical(snapshot)
	if err != nil {
		return "", fmt.Errorf("SnapshotHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// MustIntentID is like IntentID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustIntentID(gameID, action string, card int, seq int64) string {
	id, err := IntentID(gameID, action, card, seq)
	if err != nil {
		panic(err)
	}
	return id
}
