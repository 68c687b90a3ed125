package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while running a session.
//
// Game rules never fail: choosing a stale or unknown card is a no-op.
// Runtime errors come from the layer around the game:
//   - Unknown action: the intent names no action of the session's game
//   - Unknown kind: the session config names no game
//   - Invalid theme: the theme cannot produce a playable game
//   - Replay diverged: a replayed snapshot hash differs from the recorded one
//   - Record failed: the recorder rejected a write
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// GameID identifies the affected game, when known.
	GameID string

	// Seq is the intent seq the error occurred at, 0 when not applicable.
	Seq int64

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownAction indicates the intent's action is not valid for the game.
	ErrCodeUnknownAction RuntimeErrorCode = "UNKNOWN_ACTION"

	// ErrCodeUnknownKind indicates a game kind other than memorize or set.
	ErrCodeUnknownKind RuntimeErrorCode = "UNKNOWN_KIND"

	// ErrCodeInvalidTheme indicates the theme failed validation.
	ErrCodeInvalidTheme RuntimeErrorCode = "INVALID_THEME"

	// ErrCodeReplayDiverged indicates replay produced a different snapshot.
	ErrCodeReplayDiverged RuntimeErrorCode = "REPLAY_DIVERGED"

	// ErrCodeRecordFailed indicates the recorder failed to persist a record.
	ErrCodeRecordFailed RuntimeErrorCode = "RECORD_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.GameID != "" && e.Seq > 0 {
		msg = fmt.Sprintf("%s (game=%s, seq=%d)", msg, e.GameID, e.Seq)
	} else if e.GameID != "" {
		msg = fmt.Sprintf("%s (game=%s)", msg, e.GameID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsUnknownAction reports whether err is an unknown action error.
// Uses errors.As to handle wrapped errors.
func IsUnknownAction(err error) bool {
	return hasCode(err, ErrCodeUnknownAction)
}

// IsReplayDivergence reports whether err is a replay divergence.
// Uses errors.As to handle wrapped errors.
func IsReplayDivergence(err error) bool {
	return hasCode(err, ErrCodeReplayDiverged)
}

// NewUnknownActionError creates a RuntimeError for an action the game does not support.
func NewUnknownActionError(gameID string, kind Kind, action Action) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnknownAction,
		Message: fmt.Sprintf("%s games have no action %q", kind, action),
		GameID:  gameID,
		Details: map[string]string{
			"kind":   string(kind),
			"action": string(action),
		},
	}
}

// NewDivergenceError creates a RuntimeError for a replay hash mismatch.
func NewDivergenceError(gameID string, seq int64, want, got string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeReplayDiverged,
		Message: "replayed snapshot differs from recorded snapshot",
		GameID:  gameID,
		Seq:     seq,
		Details: map[string]string{
			"recorded_hash": want,
			"replayed_hash": got,
		},
	}
}
