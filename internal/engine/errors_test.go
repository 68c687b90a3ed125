package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *RuntimeError
		want string
	}{
		{
			name: "code only",
			err:  &RuntimeError{Code: ErrCodeUnknownKind, Message: "bad kind"},
			want: "UNKNOWN_KIND: bad kind",
		},
		{
			name: "with game",
			err:  NewUnknownActionError("g1", KindSet, ActionChoose),
			want: `UNKNOWN_ACTION: set games have no action "choose" (game=g1)`,
		},
		{
			name: "with seq",
			err:  NewDivergenceError("g1", 4, "a", "b"),
			want: "REPLAY_DIVERGED: replayed snapshot differs from recorded snapshot (game=g1, seq=4)",
		},
		{
			name: "with cause",
			err:  &RuntimeError{Code: ErrCodeRecordFailed, Message: "write game", Err: errors.New("locked")},
			want: "RECORD_FAILED: write game: locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestRuntimeError_Helpers(t *testing.T) {
	wrapped := fmt.Errorf("apply: %w", NewUnknownActionError("g", KindMemorize, ActionFlip))
	assert.True(t, IsUnknownAction(wrapped))
	assert.False(t, IsReplayDivergence(wrapped))

	div := fmt.Errorf("replay: %w", NewDivergenceError("g", 1, "x", "y"))
	assert.True(t, IsReplayDivergence(div))
	assert.False(t, IsUnknownAction(div))

	assert.False(t, IsUnknownAction(errors.New("plain")))
	assert.False(t, IsUnknownAction(nil))
}

func TestRuntimeError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &RuntimeError{Code: ErrCodeRecordFailed, Err: cause}
	assert.ErrorIs(t, err, cause)
}
