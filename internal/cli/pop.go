package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pqueue/internal/queue"
)

// PopOptions holds flags for the pop command.
type PopOptions struct {
	*RootOptions
	Count int
}

// NewPopCommand creates the pop command for removing elements from the head.
func NewPopCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PopOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pop",
		Short: "Remove and print the head of the queue",
		Long: `Remove and print up to --count elements from the head of the queue.

Exits with code 1 if the queue is empty. Fewer than --count elements are
printed when the queue runs out.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Count < 1 {
				return NewExitError(ExitCommandError, "--count must be at least 1")
			}
			return withQueue(rootOpts, cmd, func(ctx context.Context, q *queue.Queue[string], f *OutputFormatter) error {
				return runPop(ctx, q, f, opts.Count)
			})
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of elements to pop")

	return cmd
}

func runPop(ctx context.Context, q *queue.Queue[string], f *OutputFormatter, count int) error {
	items := make([]string, 0, count)
	for range count {
		v, ok, err := q.Poll(ctx)
		if err != nil {
			return queueFailure(f, "pop", err)
		}
		if !ok {
			break
		}
		items = append(items, v)
	}
	if len(items) == 0 {
		return f.Fail(ExitFailure, CodeEmptyQueue, "queue is empty", queue.ErrEmptyQueue)
	}

	size, err := q.Size(ctx)
	if err != nil {
		return queueFailure(f, "size", err)
	}
	return f.Result(lines(items), map[string]any{
		"items": items,
		"size":  size,
	})
}

// lines joins values one per line with a trailing newline.
func lines(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.Join(values, "\n") + "\n"
}

// quoted renders a value for text output.
func quoted(v string) string {
	return fmt.Sprintf("%q", v)
}
