package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/matchgame/internal/engine"
	"github.com/roach88/matchgame/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	GameID   string // optional - specific game only
	Kind     string // optional - only games of this kind
	Limit    int
}

// ReplayGameResult holds the replay result for a single game.
type ReplayGameResult struct {
	GameID        string `json:"game_id"`
	Kind          string `json:"kind"`
	Intents       int    `json:"intents"`
	Verified      int    `json:"verified"`
	Deterministic bool   `json:"deterministic"`
	FinalHash     string `json:"final_hash,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Games            []ReplayGameResult `json:"games"`
	TotalGames       int                `json:"total_games"`
	AllDeterministic bool               `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded games and verify determinism",
		Long: `Rebuild recorded games from their setup and intents and verify that
every intent reproduces the snapshot hash recorded when it was played.

Exit codes:
  0 - All games are deterministic
  1 - Determinism verification failed (a snapshot hash differs)
  2 - Command error (database not found, unknown game, etc.)

Examples:
  matchgame replay --db ./games.db
  matchgame replay --db ./games.db --game 0190f3c2-...
  matchgame replay --db ./games.db --kind set --limit 10
  matchgame replay --db ./games.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.GameID, "game", "", "replay specific game only")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "replay only memorize or set games")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "replay at most this many games, oldest first")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := requireDatabase(opts.Database); err != nil {
		return err
	}
	if opts.Kind != "" {
		if _, err := engine.ParseKind(opts.Kind); err != nil {
			return WrapExitError(ExitCommandError, "invalid --kind", err)
		}
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	// Get games to process
	var games []store.GameRecord
	if opts.GameID != "" {
		g, err := st.ReadGame(ctx, opts.GameID)
		if store.IsNotFound(err) {
			return NewExitError(ExitCommandError, fmt.Sprintf("game not found: %s", opts.GameID))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read game", err)
		}
		games = []store.GameRecord{g}
	} else {
		games, err = st.FindGames(ctx, store.GameFilter{Kind: opts.Kind, Limit: opts.Limit})
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list games", err)
		}
	}

	result := ReplayResult{
		Games:            make([]ReplayGameResult, 0, len(games)),
		TotalGames:       len(games),
		AllDeterministic: true,
	}

	if len(games) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No games found in database.")
		return nil
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	for _, g := range games {
		gameResult, err := replayAndVerifyGame(ctx, st, g, engine.WithLogger(logger.With("game_id", g.ID)))
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay game %s", g.ID), err)
		}

		result.Games = append(result.Games, gameResult)
		if !gameResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}

	return outputReplayText(cmd, result, opts.Verbose)
}

// replayAndVerifyGame replays one game against its recorded hashes.
// A divergence is reported in the result; other failures are returned.
func replayAndVerifyGame(ctx context.Context, st *store.Store, g store.GameRecord, opts ...engine.Option) (ReplayGameResult, error) {
	log, err := st.ReadGameLog(ctx, g.ID)
	if err != nil {
		return ReplayGameResult{}, err
	}

	gameResult := ReplayGameResult{
		GameID:  g.ID,
		Kind:    g.Kind,
		Intents: len(log.Intents),
	}

	replayed, err := engine.Replay(ctx, log.Game, log.Intents, opts...)
	gameResult.Verified = replayed.Intents
	gameResult.FinalHash = replayed.Final.Hash
	switch {
	case err == nil:
		gameResult.Deterministic = true
	case engine.IsReplayDivergence(err):
		gameResult.Error = err.Error()
	default:
		return ReplayGameResult{}, err
	}

	return gameResult, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    CodeDeterminism,
			Message: "determinism verification failed",
		}
	}

	if err := reportJSON(cmd, response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d game(s)\n", result.TotalGames)
	fmt.Fprintln(w)

	for _, g := range result.Games {
		status := "✓"
		if !g.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Game: %s (%s)\n", status, g.GameID, g.Kind)
		fmt.Fprintf(w, "  Intents: %d verified of %d\n", g.Verified, g.Intents)
		if verbose && g.FinalHash != "" {
			fmt.Fprintf(w, "  Final hash: %s\n", g.FinalHash)
		}

		if !g.Deterministic {
			fmt.Fprintf(w, "  Warning: %s\n", g.Error)
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All games verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
