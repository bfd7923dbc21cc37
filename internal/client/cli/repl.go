package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// executor is what the shell drives. *App implements it.
type executor interface {
	Exec(ctx context.Context, args []string) error
	status() string
}

// runREPL reads commands from r until EOF, "exit" or "quit", or until ctx is
// done. Command errors are printed and the loop continues.
func runREPL(ctx context.Context, e executor, r *bufio.Reader, w io.Writer) {
	fmt.Fprintln(w, "nutriledger (type 'help' for commands)")

	for ctx.Err() == nil {
		fmt.Fprintf(w, "nl %s> ", e.status())

		line, readErr := r.ReadString('\n')
		parts := strings.Fields(line)

		if len(parts) > 0 {
			switch parts[0] {
			case "exit", "quit":
				fmt.Fprintln(w, "Bye!")
				return
			}
			if err := e.Exec(ctx, parts); err != nil {
				fmt.Fprintln(w, "error:", Describe(err))
			}
		}

		if readErr != nil {
			fmt.Fprintln(w)
			return
		}
	}
}
