package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/matchgame/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	GameID   string
	Action   string // optional - filter to specific action
}

// TraceEvent is one recorded intent in the timeline.
type TraceEvent struct {
	Seq          int64  `json:"seq"`
	ID           string `json:"id"`
	Action       string `json:"action"`
	Card         int    `json:"card"`
	At           string `json:"at"`
	SnapshotHash string `json:"snapshot_hash"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	GameID   string       `json:"game_id"`
	Kind     string       `json:"kind"`
	Seed     int64        `json:"seed"`
	Shuffle  bool         `json:"shuffle"`
	Started  string       `json:"started"`
	Timeline []TraceEvent `json:"timeline"`
	Stats    TraceStats   `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	TotalIntents int            `json:"total_intents"`
	LastSeq      int64          `json:"last_seq"`
	ByAction     map[string]int `json:"by_action"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the recorded intents of a game",
		Long: `Show how a recorded game was set up and every intent applied to it,
in seq order, with the snapshot hash recorded after each intent.

Examples:
  matchgame trace --db ./games.db --game 0190f3c2-...
  matchgame trace --db ./games.db --game 0190f3c2-... --action choose
  matchgame trace --db ./games.db --game 0190f3c2-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.GameID, "game", "", "game id to trace (required)")
	_ = cmd.MarkFlagRequired("game")
	cmd.Flags().StringVar(&opts.Action, "action", "", "filter to a specific action")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := requireDatabase(opts.Database); err != nil {
		return err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	log, err := st.ReadGameLog(ctx, opts.GameID)
	if store.IsNotFound(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("game not found: %s", opts.GameID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read game", err)
	}

	result := TraceResult{
		GameID:   log.Game.ID,
		Kind:     log.Game.Kind,
		Seed:     log.Game.Seed,
		Shuffle:  log.Game.Shuffle,
		Started:  formatUnixNano(log.Game.CreatedAt),
		Timeline: buildTimeline(log.Intents, opts.Action),
		Stats: TraceStats{
			TotalIntents: len(log.Intents),
			LastSeq:      log.LastSeq,
			ByAction:     countActions(log.Intents),
		},
	}

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}

	return outputTraceText(cmd, result, opts.Verbose)
}

// buildTimeline converts recorded intents to timeline events.
// When actionFilter is set, only intents with that action are included.
func buildTimeline(intents []store.IntentRecord, actionFilter string) []TraceEvent {
	timeline := make([]TraceEvent, 0, len(intents))
	for _, in := range intents {
		if actionFilter != "" && in.Action != actionFilter {
			continue
		}
		timeline = append(timeline, TraceEvent{
			Seq:          in.Seq,
			ID:           in.ID,
			Action:       in.Action,
			Card:         in.Card,
			At:           formatUnixNano(in.AtUnixNano),
			SnapshotHash: in.SnapshotHash,
		})
	}
	return timeline
}

func countActions(intents []store.IntentRecord) map[string]int {
	counts := make(map[string]int)
	for _, in := range intents {
		counts[in.Action]++
	}
	return counts
}

func formatUnixNano(ns int64) string {
	return time.Unix(0, ns).UTC().Format(time.RFC3339Nano)
}

// outputTraceJSON outputs the trace result as JSON.
func outputTraceJSON(cmd *cobra.Command, result TraceResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	return reportJSON(cmd, response)
}

// outputTraceText outputs the trace result as text.
func outputTraceText(cmd *cobra.Command, result TraceResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Trace for Game: %s\n", result.GameID)
	fmt.Fprintf(w, "Kind: %s  Seed: %d  Shuffle: %v\n", result.Kind, result.Seed, result.Shuffle)
	fmt.Fprintf(w, "Started: %s\n", result.Started)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no intents)")
	} else {
		for _, event := range result.Timeline {
			formatTimelineEvent(w, event, verbose)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total Intents: %d\n", result.Stats.TotalIntents)
	fmt.Fprintf(w, "  Last Seq:      %d\n", result.Stats.LastSeq)

	return nil
}

// formatTimelineEvent formats a single timeline event for text output.
func formatTimelineEvent(w io.Writer, event TraceEvent, verbose bool) {
	fmt.Fprintf(w, "  [%d] %s %d  %s\n", event.Seq, event.Action, event.Card, truncateID(event.SnapshotHash))
	if verbose {
		fmt.Fprintf(w, "       At: %s\n", event.At)
		fmt.Fprintf(w, "       ID: %s\n", truncateID(event.ID))
	}
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}

// requireDatabase fails with ExitCommandError when path does not exist.
// Opening a missing path would otherwise create an empty database.
func requireDatabase(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
		}
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return nil
}
