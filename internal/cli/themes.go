package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/matchgame/internal/theme"
)

// ThemesOptions holds flags for the themes command.
type ThemesOptions struct {
	*RootOptions
}

// ThemeInfo describes one theme in command output.
type ThemeInfo struct {
	Name        string     `json:"name"`
	Pairs       int        `json:"pairs,omitempty"`
	RandomPairs bool       `json:"random_pairs,omitempty"`
	Content     int        `json:"content"`
	Color       theme.RGBA `json:"color"`
}

// ThemesResult lists the themes found in a source.
type ThemesResult struct {
	Source string      `json:"source"`
	Themes []ThemeInfo `json:"themes"`
}

// NewThemesCommand creates the themes command.
func NewThemesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ThemesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "themes [themes-dir]",
		Short: "List and validate memorize themes",
		Long: `List the built-in memorize themes, or compile and validate the CUE
theme definitions in a directory.

A theme file declares themes under the top-level "theme" field:

  theme: Animals: {
    color: {red: 0.2, green: 0.78, blue: 0.35}
    pairs: 4
    content: ["dog", "cat", "mouse", "fox"]
  }

Exit codes:
  0 - All themes are valid
  1 - A theme failed to compile or validate
  2 - Command error (directory not found, etc.)

Examples:
  matchgame themes
  matchgame themes ./themes
  matchgame themes ./themes --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runThemes(opts, dir, cmd)
		},
	}

	return cmd
}

func runThemes(opts *ThemesOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	source := "builtin"
	themes := theme.Builtins()
	if dir != "" {
		source = dir
		formatter.VerboseLog("Loading themes from: %s", dir)

		loaded, err := theme.LoadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			return NewExitError(ExitCommandError, fmt.Sprintf("themes directory not found: %s", dir))
		}
		if err != nil {
			_ = formatter.Error(CodeTheme, err.Error(), compileErrorDetails(err))
			return WrapExitError(ExitFailure, "theme validation failed", err)
		}
		themes = loaded
	}

	result := ThemesResult{Source: source, Themes: make([]ThemeInfo, 0, len(themes))}
	seen := make(map[string]bool, len(themes))
	for _, t := range themes {
		if err := t.Validate(); err != nil {
			_ = formatter.Error(CodeTheme, err.Error(), nil)
			return WrapExitError(ExitFailure, "theme validation failed", err)
		}
		if seen[t.Name] {
			err := fmt.Errorf("duplicate theme name %q", t.Name)
			_ = formatter.Error(CodeTheme, err.Error(), nil)
			return WrapExitError(ExitFailure, "theme validation failed", err)
		}
		seen[t.Name] = true

		result.Themes = append(result.Themes, ThemeInfo{
			Name:        t.Name,
			Pairs:       t.NumberOfPairs,
			RandomPairs: t.RandomPairs,
			Content:     len(t.Content),
			Color:       t.Color,
		})
	}

	if opts.Format == "json" {
		return formatter.Report(CLIResponse{Status: "ok", Data: result})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Themes (%s): %d\n", source, len(result.Themes))
	for _, t := range result.Themes {
		pairs := fmt.Sprintf("%d pairs", t.Pairs)
		if t.RandomPairs {
			pairs = "random pairs"
		}
		fmt.Fprintf(w, "  %-12s %-13s %d symbols\n", t.Name, pairs, t.Content)
	}
	fmt.Fprintln(w, "✓ All themes valid")
	return nil
}

// compileErrorDetails exposes the CUE position of a theme error.
func compileErrorDetails(err error) map[string]any {
	var ce *theme.CompileError
	if !errors.As(err, &ce) {
		return nil
	}
	details := map[string]any{"field": ce.Field}
	if ce.Pos.IsValid() {
		details["file"] = ce.Pos.Filename()
		details["line"] = ce.Pos.Line()
		details["column"] = ce.Pos.Column()
	}
	return details
}
