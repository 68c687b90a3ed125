// Command matchgame plays Memorize and Set from the terminal, records games
// to SQLite and verifies recorded games replay deterministically.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/matchgame/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
