package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/pqueue/internal/queue"
)

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <value>",
		Short: "Remove the oldest element equal to a value",
		Long: `Remove the oldest element equal to a value.

Prints true if an element was removed and false if none matched.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(rootOpts, cmd, func(ctx context.Context, q *queue.Queue[string], f *OutputFormatter) error {
				return runRemove(ctx, q, f, args[0])
			})
		},
	}
}

func runRemove(ctx context.Context, q *queue.Queue[string], f *OutputFormatter, value string) error {
	removed, err := q.Remove(ctx, value)
	if err != nil {
		return queueFailure(f, "remove", err)
	}
	if !removed {
		f.VerboseLog("no element matched %s", quoted(value))
	}
	return f.Result(strconv.FormatBool(removed)+"\n", map[string]any{"removed": removed})
}
