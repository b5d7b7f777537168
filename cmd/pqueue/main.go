// Command pqueue inspects and edits a durable SQLite FIFO queue.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/pqueue/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
