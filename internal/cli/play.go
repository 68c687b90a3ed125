package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/matchgame/internal/engine"
	"github.com/roach88/matchgame/internal/store"
	"github.com/roach88/matchgame/internal/theme"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions

	// IDGenerator allows overriding the game id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator engine.IDGenerator

	// WallClock allows overriding the wall clock (for testing).
	WallClock engine.WallClock
}

// PlaySummary is printed after the last intent.
type PlaySummary struct {
	GameID   string      `json:"game_id"`
	Kind     engine.Kind `json:"kind"`
	Seed     int64       `json:"seed"`
	Applied  int         `json:"applied"`
	Rejected int         `json:"rejected"`
	Recorded bool        `json:"recorded"`
	Score    int         `json:"score"`
	Hash     string      `json:"hash"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	return newPlayCommand(&PlayOptions{RootOptions: rootOpts})
}

func newPlayCommand(opts *PlayOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <memorize|set>",
		Short: "Play a game from intents on stdin",
		Long: `Start a game and apply one intent per line of stdin.

Lines are either "action [card]" or JSON such as {"action":"choose","card":3}.
Blank lines and lines starting with # are skipped. Memorize accepts choose,
shuffle, deal and new_game; Set accepts select, deal, flip and new_game.

After every intent the resulting snapshot is printed. With --db, the game and
every intent are recorded so "matchgame replay" can verify them later.

Exit codes:
  0 - Every line was applied
  1 - One or more lines were rejected, or recording failed
  2 - Command error (bad config, unknown theme, database not found, etc.)

Examples:
  printf 'deal\nchoose 0\nchoose 1\n' | matchgame play memorize --theme Animals
  matchgame play set --db ./games.db --seed 42 < intents.txt
  matchgame play set --format json --shuffle=false`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args[0], cmd)
		},
	}

	addConfigFlags(cmd)

	return cmd
}

func runPlay(opts *PlayOptions, kindName string, cmd *cobra.Command) error {
	kind, err := engine.ParseKind(kindName)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid game", err)
	}

	cfg, err := LoadConfig(cmd, opts.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd)

	gameCfg, err := buildGameConfig(kind, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid game configuration", err)
	}

	sessionOpts := []engine.Option{engine.WithLogger(logger)}
	if opts.IDGenerator != nil {
		sessionOpts = append(sessionOpts, engine.WithIDGenerator(opts.IDGenerator))
	}
	if opts.WallClock != nil {
		sessionOpts = append(sessionOpts, engine.WithWallClock(opts.WallClock))
	}

	var st *store.Store
	if cfg.DB != "" {
		logger.Debug("opening database", "path", cfg.DB)
		st, err = store.Open(cfg.DB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		sessionOpts = append(sessionOpts, engine.WithRecorder(st))
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := engine.NewSession(ctx, gameCfg, sessionOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start game", err)
	}
	logger.Info("game started", "game_id", session.ID(), "kind", string(kind), "seed", gameCfg.Seed)

	summary := PlaySummary{
		GameID:   session.ID(),
		Kind:     kind,
		Seed:     gameCfg.Seed,
		Recorded: cfg.DB != "",
	}

	last := session.Snapshot()
	if err := printSnapshot(formatter, last); err != nil {
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		in, ok, err := ParseIntent(scanner.Text())
		if err != nil {
			summary.Rejected++
			_ = formatter.Error(CodeParse, fmt.Sprintf("line %d: %v", lineNo, err), scanner.Text())
			continue
		}
		if !ok {
			continue
		}

		snap, err := session.Apply(ctx, in)
		if engine.IsUnknownAction(err) {
			summary.Rejected++
			_ = formatter.Error(string(engine.ErrCodeUnknownAction), fmt.Sprintf("line %d: %v", lineNo, err), nil)
			continue
		}
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("line %d", lineNo), err)
		}

		summary.Applied++
		last = snap
		if err := printSnapshot(formatter, snap); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read intents", err)
	}

	summary.Score = last.Score
	summary.Hash = last.Hash

	if st != nil {
		lastSeq, err := st.GetLastSeq(ctx, session.ID())
		if err != nil {
			return WrapExitError(ExitFailure, "failed to verify recorded log", err)
		}
		if lastSeq != session.Seq() {
			return NewExitError(ExitFailure,
				fmt.Sprintf("recorded log ends at seq %d, game at seq %d", lastSeq, session.Seq()))
		}
	}
	logger.Info("game finished", "game_id", summary.GameID, "applied", summary.Applied, "rejected", summary.Rejected)

	if err := printPlaySummary(formatter, summary); err != nil {
		return err
	}
	if summary.Rejected > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d line(s) rejected", summary.Rejected))
	}
	return nil
}

// buildGameConfig turns CLI config into a session config.
func buildGameConfig(kind engine.Kind, cfg *Config) (engine.Config, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int64N(1<<53) + 1
	}

	gameCfg := engine.Config{
		Kind:           kind,
		Seed:           seed,
		Shuffle:        cfg.Shuffle,
		BonusTimeLimit: cfg.BonusTimeLimit(),
		Params:         cfg.Params(),
	}

	if kind == engine.KindMemorize {
		th, err := selectTheme(cfg.ThemesDir, cfg.Theme)
		if err != nil {
			return engine.Config{}, err
		}
		gameCfg.Theme = th
	}
	return gameCfg, nil
}

// selectTheme loads themes from dir, or the built-ins when dir is empty,
// and picks name or the first theme.
func selectTheme(dir, name string) (theme.Theme, error) {
	themes := theme.Builtins()
	if dir != "" {
		loaded, err := theme.LoadDir(dir)
		if err != nil {
			return theme.Theme{}, err
		}
		themes = loaded
	}

	st := theme.NewStore("play", themes...)
	if name == "" {
		all := st.Themes()
		if len(all) == 0 {
			return theme.Theme{}, fmt.Errorf("no themes available")
		}
		return all[0], nil
	}
	th, ok := st.Lookup(name)
	if !ok {
		return theme.Theme{}, fmt.Errorf("unknown theme %q", name)
	}
	return th, nil
}

// ParseIntent parses one input line. ok is false for blank and comment lines.
func ParseIntent(line string) (in engine.Intent, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return engine.Intent{}, false, nil
	}

	if strings.HasPrefix(line, "{") {
		dec := json.NewDecoder(bytes.NewReader([]byte(line)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return engine.Intent{}, false, fmt.Errorf("invalid intent JSON: %w", err)
		}
		if in.Action == "" {
			return engine.Intent{}, false, fmt.Errorf("intent JSON needs an action")
		}
		return in, true, nil
	}

	fields := strings.Fields(line)
	if len(fields) > 2 {
		return engine.Intent{}, false, fmt.Errorf("want \"action [card]\", got %q", line)
	}
	in.Action = engine.Action(fields[0])
	if len(fields) == 2 {
		card, err := strconv.Atoi(fields[1])
		if err != nil {
			return engine.Intent{}, false, fmt.Errorf("card must be an integer: %q", fields[1])
		}
		in.Card = card
	}
	return in, true, nil
}

func printSnapshot(f *OutputFormatter, snap engine.Snapshot) error {
	if f.Format == "json" {
		return f.Success(snap)
	}
	renderSnapshot(f.Writer, snap)
	return nil
}

// renderSnapshot writes a compact text view of snap.
func renderSnapshot(w io.Writer, snap engine.Snapshot) {
	switch snap.Kind {
	case engine.KindMemorize:
		fmt.Fprintf(w, "#%d %s score %d\n", snap.Seq, snap.Theme, snap.Score)
		cells := make([]string, len(snap.Cards))
		for i, c := range snap.Cards {
			switch {
			case c.Matched:
				cells[i] = fmt.Sprintf("%d(%s)", c.ID, c.Content)
			case c.FaceUp:
				cells[i] = fmt.Sprintf("%d[%s]", c.ID, c.Content)
			default:
				cells[i] = fmt.Sprintf("%d[ ]", c.ID)
			}
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(cells, " "))
	case engine.KindSet:
		match := ""
		if snap.MatchPresent {
			match = " SET!"
		}
		fmt.Fprintf(w, "#%d board %d, deck %d, discarded %d%s\n",
			snap.Seq, len(snap.Cards), snap.Undealt, snap.Discarded, match)
		for _, c := range snap.Cards {
			fmt.Fprintf(w, "  %2d: card %2d %d %s %s %s  %s\n",
				c.Position, c.ID, c.Count, c.Color, c.Shading, c.Shape, c.State)
		}
	}
}

func printPlaySummary(f *OutputFormatter, s PlaySummary) error {
	if f.Format == "json" {
		return f.Success(s)
	}
	w := f.Writer
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Game %s (%s, seed %d): %d applied, %d rejected\n",
		s.GameID, s.Kind, s.Seed, s.Applied, s.Rejected)
	if s.Kind == engine.KindMemorize {
		fmt.Fprintf(w, "Final score: %d\n", s.Score)
	}
	if s.Recorded {
		fmt.Fprintln(w, "✓ Recorded")
	}
	f.VerboseLog("final hash %s", s.Hash)
	return nil
}
